package ports

import (
	"context"

	"github.com/blooddb/donation-api/internal/core/domain"
)

// DonorInput is the mutable part of a donor record.
type DonorInput struct {
	Name       string
	Age        int
	Gender     string
	BloodGroup string
	City       string
	Phone      string
}

// BloodRequestInput is the mutable part of a blood request.
type BloodRequestInput struct {
	Name       string
	BloodGroup string
	City       string
	Reason     string
	Phone      string
	Status     string
}

// ProfileInput carries a profile update.
type ProfileInput struct {
	FullName string
	Email    string
	Phone    string
}

// ProfileStats counts the resources a user owns.
type ProfileStats struct {
	Donors   int64
	Requests int64
}

// DonorService manages donors on behalf of a resolved identity.
type DonorService interface {
	Create(ctx context.Context, owner domain.Identity, in DonorInput) (int64, error)
	Get(ctx context.Context, owner domain.Identity, donorID int64) (*domain.Donor, error)
	ListMine(ctx context.Context, owner domain.Identity) ([]*domain.Donor, error)
	Update(ctx context.Context, owner domain.Identity, donorID int64, in DonorInput) error
	Delete(ctx context.Context, owner domain.Identity, donorID int64) error
	Search(ctx context.Context, filter domain.DonorSearch) ([]*domain.Donor, error)
}

// BloodRequestService manages blood requests on behalf of a resolved identity.
type BloodRequestService interface {
	Create(ctx context.Context, owner domain.Identity, in BloodRequestInput) (int64, error)
	Get(ctx context.Context, owner domain.Identity, reqID int64) (*domain.BloodRequest, error)
	ListMine(ctx context.Context, owner domain.Identity) ([]*domain.BloodRequest, error)
	Update(ctx context.Context, owner domain.Identity, reqID int64, in BloodRequestInput) error
	Delete(ctx context.Context, owner domain.Identity, reqID int64) error
	ListAll(ctx context.Context) ([]*domain.BloodRequest, error)
}

// ProfileService reads and updates the requester's own account.
type ProfileService interface {
	Get(ctx context.Context, owner domain.Identity) (*domain.User, *ProfileStats, error)
	Update(ctx context.Context, owner domain.Identity, in ProfileInput) (*domain.User, error)
}
