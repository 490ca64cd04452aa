package repo

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/ovaphlow/pitchfork/service-auth-go/internal/user/entity"
	"github.com/ovaphlow/pitchfork/service-auth-go/pkg/utilities"
)

const pqUniqueViolation = "23505"

// UserRepo stores users in postgres using sqlx. The schema comes from the
// goose migrations in pkg/database/migrations.
type UserRepo struct {
	db      *sqlx.DB
	timeout time.Duration
	newID   func() string
}

func NewUserRepo(db *sqlx.DB, timeout time.Duration) *UserRepo {
	return &UserRepo{db: db, timeout: timeout, newID: utilities.NewSnowflakeID}
}

func (r *UserRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, r.timeout)
}

// Create inserts a user row. A unique violation on email maps to ErrDuplicateEmail.
func (r *UserRepo) Create(ctx context.Context, email, name, passwordHash string) (*entity.User, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	const q = `INSERT INTO users (id, email, name, password_hash, created_at, updated_at)
		VALUES (:id, :email, :name, :password_hash, :created_at, :updated_at)
		RETURNING id`
	now := time.Now().UTC()
	u := &entity.User{
		ID:           r.newID(),
		Email:        email,
		Name:         name,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	rows, err := r.db.NamedQueryContext(ctx, q, u)
	if err != nil {
		return nil, mapPQError(err)
	}
	defer rows.Close()
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, mapPQError(err)
		}
		return nil, errors.New("insert user: no id returned")
	}
	if err := rows.Scan(&u.ID); err != nil {
		return nil, err
	}
	return u, nil
}

// FindByEmail matches email exactly.
func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	const q = `SELECT id, email, name, password_hash, created_at, updated_at FROM users WHERE email = $1`
	var row entity.User
	if err := r.db.GetContext(ctx, &row, q, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &row, nil
}

// FindByID leaves PasswordHash empty.
func (r *UserRepo) FindByID(ctx context.Context, id string) (*entity.User, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	const q = `SELECT id, email, name, created_at, updated_at FROM users WHERE id = $1`
	var row entity.User
	if err := r.db.GetContext(ctx, &row, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &row, nil
}

func mapPQError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
		return ErrDuplicateEmail
	}
	return err
}
