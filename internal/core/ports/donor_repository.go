package ports

import (
	"context"

	"github.com/blooddb/donation-api/internal/core/domain"
)

// DonorRepository persists donors. Every single-row operation filters on
// both the donor id and the owner's user id and returns domain.ErrNotFound
// when no row matches.
type DonorRepository interface {
	Create(ctx context.Context, d *domain.Donor) (int64, error)
	FindByID(ctx context.Context, donorID, userID int64) (*domain.Donor, error)
	ListByUser(ctx context.Context, userID int64) ([]*domain.Donor, error)
	Update(ctx context.Context, d *domain.Donor) error
	Delete(ctx context.Context, donorID, userID int64) error
	CountByUser(ctx context.Context, userID int64) (int64, error)
	Search(ctx context.Context, filter domain.DonorSearch) ([]*domain.Donor, error)
}

// BloodRequestRepository persists blood requests with the same ownership
// rules as DonorRepository.
type BloodRequestRepository interface {
	Create(ctx context.Context, r *domain.BloodRequest) (int64, error)
	FindByID(ctx context.Context, reqID, userID int64) (*domain.BloodRequest, error)
	ListByUser(ctx context.Context, userID int64) ([]*domain.BloodRequest, error)
	Update(ctx context.Context, r *domain.BloodRequest) error
	Delete(ctx context.Context, reqID, userID int64) error
	CountByUser(ctx context.Context, userID int64) (int64, error)
	ListAll(ctx context.Context) ([]*domain.BloodRequest, error)
}
