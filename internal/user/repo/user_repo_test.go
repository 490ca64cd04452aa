package repo

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockRepo(t *testing.T) (*UserRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	r := NewUserRepo(sqlx.NewDb(db, "postgres"), time.Second)
	r.newID = func() string { return "1001" }
	return r, mock
}

func TestUserRepoCreate(t *testing.T) {
	r, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO users")).
		WithArgs("1001", "a@x.com", "Ann", "hash", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("1001"))

	u, err := r.Create(context.Background(), "a@x.com", "Ann", "hash")
	require.NoError(t, err)
	assert.Equal(t, "1001", u.ID)
	assert.Equal(t, "a@x.com", u.Email)
	assert.Equal(t, u.CreatedAt, u.UpdatedAt)
	assert.False(t, u.CreatedAt.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepoCreateDuplicate(t *testing.T) {
	r, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO users")).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "users_email_key"})

	_, err := r.Create(context.Background(), "a@x.com", "Ann", "hash")
	assert.ErrorIs(t, err, ErrDuplicateEmail)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepoCreateOtherError(t *testing.T) {
	r, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO users")).
		WillReturnError(errors.New("connection reset"))

	_, err := r.Create(context.Background(), "a@x.com", "Ann", "hash")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrDuplicateEmail)
}

func TestUserRepoFindByEmail(t *testing.T) {
	r, mock := newMockRepo(t)
	now := time.Now().UTC()

	mock.ExpectQuery(`SELECT id, email, name, password_hash, created_at, updated_at FROM users WHERE email = \$1`).
		WithArgs("a@x.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "name", "password_hash", "created_at", "updated_at"}).
			AddRow("1001", "a@x.com", "Ann", "hash", now, now))

	u, err := r.FindByEmail(context.Background(), "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "1001", u.ID)
	assert.Equal(t, "hash", u.PasswordHash)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepoFindByEmailNotFound(t *testing.T) {
	r, mock := newMockRepo(t)

	mock.ExpectQuery(`FROM users WHERE email = \$1`).
		WithArgs("nobody@x.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "name", "password_hash", "created_at", "updated_at"}))

	_, err := r.FindByEmail(context.Background(), "nobody@x.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserRepoFindByIDExcludesHash(t *testing.T) {
	r, mock := newMockRepo(t)
	now := time.Now().UTC()

	mock.ExpectQuery(`SELECT id, email, name, created_at, updated_at FROM users WHERE id = \$1`).
		WithArgs("1001").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "name", "created_at", "updated_at"}).
			AddRow("1001", "a@x.com", "Ann", now, now))

	u, err := r.FindByID(context.Background(), "1001")
	require.NoError(t, err)
	assert.Equal(t, "Ann", u.Name)
	assert.Empty(t, u.PasswordHash)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepoFindByIDNotFound(t *testing.T) {
	r, mock := newMockRepo(t)

	mock.ExpectQuery(`FROM users WHERE id = \$1`).
		WithArgs("404").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "name", "created_at", "updated_at"}))

	_, err := r.FindByID(context.Background(), "404")
	assert.ErrorIs(t, err, ErrNotFound)
}
