package user

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-auth-go/internal/user/entity"
	"github.com/ovaphlow/pitchfork/service-auth-go/pkg/utilities"
)

const msgPleaseAuthenticate = "Please authenticate"

// Authenticator resolves a bearer token to a caller.
type Authenticator interface {
	Authenticate(ctx context.Context, raw string) (*entity.Identity, error)
}

// RequireAuth rejects requests without a valid bearer token and stores the
// resolved identity in the request context.
func RequireAuth(auth Authenticator, logger *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				logger.Debugw("missing or malformed bearer token", "path", r.URL.Path)
				utilities.WriteError(w, http.StatusUnauthorized, msgPleaseAuthenticate, nil)
				return
			}

			id, err := auth.Authenticate(r.Context(), raw)
			if err != nil {
				if errors.Is(err, ErrUnauthenticated) {
					logger.Warnw("rejected bearer token", "path", r.URL.Path, "reason", err)
					utilities.WriteError(w, http.StatusUnauthorized, msgPleaseAuthenticate, nil)
					return
				}
				logger.Errorw("authenticate request", "path", r.URL.Path, "err", err)
				utilities.WriteError(w, http.StatusInternalServerError, msgInternal, nil)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
		})
	}
}

// bearerToken extracts the token from an "Authorization: Bearer <token>" value.
func bearerToken(header string) (string, bool) {
	scheme, tok, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	tok = strings.TrimSpace(tok)
	if tok == "" || strings.ContainsAny(tok, " \t") {
		return "", false
	}
	return tok, true
}
