package user

import (
	"context"

	"github.com/ovaphlow/pitchfork/service-auth-go/internal/user/entity"
)

type contextKey struct{ name string }

var identityCtxKey = &contextKey{"identity"}

// WithIdentity stores the authenticated caller in ctx.
func WithIdentity(ctx context.Context, id *entity.Identity) context.Context {
	return context.WithValue(ctx, identityCtxKey, id)
}

// IdentityFromContext returns the caller stored by RequireAuth.
func IdentityFromContext(ctx context.Context) (*entity.Identity, bool) {
	id, ok := ctx.Value(identityCtxKey).(*entity.Identity)
	return id, ok && id != nil
}
