package ports

import (
	"context"

	"github.com/blooddb/donation-api/internal/core/domain"
)

// SessionStore persists sessions keyed by their opaque token. Implementations
// must be safe for concurrent use: a Get racing a Delete on the same token
// returns either the whole session or nil.
type SessionStore interface {
	Save(ctx context.Context, token string, session *domain.Session) error
	// Get returns nil, nil when the token is unknown.
	Get(ctx context.Context, token string) (*domain.Session, error)
	// Delete is a no-op for unknown tokens.
	Delete(ctx context.Context, token string) error
}
