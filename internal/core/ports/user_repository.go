package ports

import (
	"context"
	"time"

	"github.com/blooddb/donation-api/internal/core/domain"
)

// UserRepository is the credential store. Implementations must report a
// violated username/email uniqueness constraint as a *domain.ConflictError,
// even when the pre-check in the service passed.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (int64, error)
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// ExistsByUsername and ExistsByEmail skip the row whose id equals
	// excludeID; pass 0 to check against every user.
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string, excludeID int64) (bool, error)
	UpdateLastLogin(ctx context.Context, id int64, at time.Time) error
	UpdateProfile(ctx context.Context, id int64, fullName, email, phone string) error
}
