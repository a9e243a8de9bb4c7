package ports

import (
	"context"

	"github.com/blooddb/donation-api/internal/core/domain"
)

// PasswordHasher hashes and verifies secrets.
type PasswordHasher interface {
	Hash(ctx context.Context, plaintext string) (string, error)
	Verify(ctx context.Context, plaintext, hash string) bool
}

// RegisterInput carries an already shape-validated registration.
type RegisterInput struct {
	Username string
	Email    string
	Password string
	FullName string
	Phone    string
}

// LoginResult is returned after a successful login.
type LoginResult struct {
	Token   string
	Session *domain.Session
	User    *domain.User
}

// AuthService orchestrates registration, login and logout.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (int64, error)
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	Logout(ctx context.Context, token string) error
	// Check never fails; a nil identity means unauthenticated.
	Check(ctx context.Context, token string) *domain.Identity
}

// SessionResolver resolves a raw session token to an identity.
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (*domain.Identity, error)
}
