package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blooddb/donation-api/internal/core/domain"
)

var userCols = []string{"user_id", "username", "email", "password_hash", "full_name", "phone", "created_at", "last_login"}

func TestUserRepository_Create(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUserRepository(db)
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	mock.ExpectQuery(`INSERT INTO users .* RETURNING user_id`).
		WithArgs("alice", "alice@example.com", "hash", "Alice Doe", "5551234567", created).
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow(int64(7)))

	u := &domain.User{
		Username: "alice", Email: "alice@example.com", PasswordHash: "hash",
		FullName: "Alice Doe", Phone: "5551234567", CreatedAt: created,
	}
	id, err := repo.Create(context.Background(), u)
	require.NoError(t, err)
	assert.Equal(t, int64(7), id)
	assert.Equal(t, int64(7), u.ID)
}

func TestUserRepository_CreateUniqueViolation(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(`INSERT INTO users`).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})

	_, err := repo.Create(context.Background(), &domain.User{Username: "alice", Email: "a@x.io"})
	require.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, "Email already registered", err.Error())
}

func TestUserRepository_CreateDBError(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(`INSERT INTO users`).WillReturnError(errors.New("db down"))

	_, err := repo.Create(context.Background(), &domain.User{})
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrConflict)
	assert.Contains(t, err.Error(), "db error: db down")
}

func TestUserRepository_FindByEmail(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUserRepository(db)
	created := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)
	last := created.Add(time.Hour)

	mock.ExpectQuery(`SELECT user_id, .* FROM users WHERE email = \$1`).
		WithArgs("alice@example.com").
		WillReturnRows(sqlmock.NewRows(userCols).
			AddRow(int64(1), "alice", "alice@example.com", "hash", "Alice Doe", "5551234567", created, last))

	u, err := repo.FindByEmail(context.Background(), "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, int64(1), u.ID)
	assert.Equal(t, "hash", u.PasswordHash)
	require.NotNil(t, u.LastLogin)
	assert.True(t, u.LastLogin.Equal(last))
}

func TestUserRepository_FindByIDNeverLoggedIn(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(`FROM users WHERE user_id = \$1`).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(userCols).
			AddRow(int64(1), "alice", "alice@example.com", "hash", "Alice Doe", "5551234567", time.Now(), nil))

	u, err := repo.FindByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Nil(t, u.LastLogin)
}

func TestUserRepository_FindNotFound(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(`FROM users WHERE email = \$1`).
		WithArgs("ghost@example.com").
		WillReturnRows(sqlmock.NewRows(userCols))

	_, err := repo.FindByEmail(context.Background(), "ghost@example.com")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUserRepository_Exists(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(`SELECT EXISTS \(SELECT 1 FROM users WHERE username = \$1\)`).
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery(`WHERE email = \$1 AND user_id <> \$2`).
		WithArgs("alice@example.com", int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	taken, err := repo.ExistsByUsername(context.Background(), "alice")
	require.NoError(t, err)
	assert.True(t, taken)

	taken, err = repo.ExistsByEmail(context.Background(), "alice@example.com", 3)
	require.NoError(t, err)
	assert.False(t, taken)
}

func TestUserRepository_UpdateLastLogin(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUserRepository(db)
	at := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectExec(`UPDATE users SET last_login = \$1 WHERE user_id = \$2`).
		WithArgs(at, int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE users SET last_login`).
		WithArgs(at, int64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.UpdateLastLogin(context.Background(), 1, at))
	assert.ErrorIs(t, repo.UpdateLastLogin(context.Background(), 99, at), domain.ErrNotFound)
}

func TestUserRepository_UpdateProfile(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUserRepository(db)

	mock.ExpectExec(`UPDATE users SET full_name = \$1, email = \$2, phone = \$3 WHERE user_id = \$4`).
		WithArgs("Alice Smith", "alice@new.io", "5550000000", int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE users SET full_name`).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})

	require.NoError(t, repo.UpdateProfile(context.Background(), 1, "Alice Smith", "alice@new.io", "5550000000"))

	err := repo.UpdateProfile(context.Background(), 1, "Alice Smith", "bob@x.io", "5550000000")
	var ce *domain.ConflictError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "email", ce.Field)
}
