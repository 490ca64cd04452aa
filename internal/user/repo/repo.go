package repo

import (
	"context"
	"errors"

	"github.com/ovaphlow/pitchfork/service-auth-go/internal/user/entity"
)

var (
	ErrNotFound       = errors.New("user record not found")
	ErrDuplicateEmail = errors.New("email already registered")
)

// Store persists user records. Email uniqueness is enforced by the
// implementation itself so concurrent creates with one email yield exactly
// one record and ErrDuplicateEmail for the rest.
type Store interface {
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	// FindByID returns the user without its password hash.
	FindByID(ctx context.Context, id string) (*entity.User, error)
	Create(ctx context.Context, email, name, passwordHash string) (*entity.User, error)
}
