package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/blooddb/donation-api/internal/core/domain"
)

const userColumns = `user_id, username, email, password_hash, full_name, phone, created_at, last_login`

type UserRepository struct {
	db DBTX
}

func NewUserRepository(db DBTX) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := `INSERT INTO users (username, email, password_hash, full_name, phone, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING user_id`

	var id int64
	err := r.db.QueryRowContext(ctx, query,
		user.Username, user.Email, user.PasswordHash, user.FullName, user.Phone, user.CreatedAt,
	).Scan(&id)
	if err != nil {
		if cerr := conflictFrom(err); errors.Is(cerr, domain.ErrConflict) {
			return 0, cerr
		}
		return 0, fmt.Errorf("db error: %w", err)
	}
	user.ID = id
	return id, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := `SELECT ` + userColumns + ` FROM users WHERE user_id = $1`
	return r.findOne(ctx, query, id)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return r.findOne(ctx, query, email)
}

func (r *UserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := `SELECT EXISTS (SELECT 1 FROM users WHERE username = $1)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, username).Scan(&exists); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return exists, nil
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string, excludeID int64) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1 AND user_id <> $2)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, email, excludeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return exists, nil
}

func (r *UserRepository) UpdateLastLogin(ctx context.Context, id int64, at time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `UPDATE users SET last_login = $1 WHERE user_id = $2`, at, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return affectedOne(res, "update last login")
}

func (r *UserRepository) UpdateProfile(ctx context.Context, id int64, fullName, email, phone string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := `UPDATE users SET full_name = $1, email = $2, phone = $3 WHERE user_id = $4`

	res, err := r.db.ExecContext(ctx, query, fullName, email, phone, id)
	if err != nil {
		if cerr := conflictFrom(err); errors.Is(cerr, domain.ErrConflict) {
			return cerr
		}
		return fmt.Errorf("db error: %w", err)
	}
	return affectedOne(res, "update profile")
}

func (r *UserRepository) findOne(ctx context.Context, query string, arg any) (*domain.User, error) {
	var (
		u         domain.User
		lastLogin sql.NullTime
	)
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.FullName, &u.Phone, &u.CreatedAt, &lastLogin,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	if lastLogin.Valid {
		t := lastLogin.Time
		u.LastLogin = &t
	}
	return &u, nil
}
