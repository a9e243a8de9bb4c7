package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/blooddb/donation-api/internal/core/domain"
	"github.com/blooddb/donation-api/internal/core/ports"
)

// ProfileService serves the requester's own account and resource counts.
type ProfileService struct {
	users    ports.UserRepository
	donors   ports.DonorRepository
	requests ports.BloodRequestRepository
	log      zerolog.Logger
}

func NewProfileService(
	users ports.UserRepository,
	donors ports.DonorRepository,
	requests ports.BloodRequestRepository,
	log zerolog.Logger,
) *ProfileService {
	return &ProfileService{users: users, donors: donors, requests: requests, log: log}
}

func (s *ProfileService) Get(ctx context.Context, owner domain.Identity) (*domain.User, *ports.ProfileStats, error) {
	user, err := s.users.FindByID(ctx, owner.UserID)
	if err != nil {
		return nil, nil, err
	}

	donors, err := s.donors.CountByUser(ctx, owner.UserID)
	if err != nil {
		return nil, nil, fmt.Errorf("profile stats: %w", err)
	}
	requests, err := s.requests.CountByUser(ctx, owner.UserID)
	if err != nil {
		return nil, nil, fmt.Errorf("profile stats: %w", err)
	}

	return user, &ports.ProfileStats{Donors: donors, Requests: requests}, nil
}

// Update changes full name, email and phone. The new email must not belong
// to any other user; the store's unique constraint settles races.
func (s *ProfileService) Update(ctx context.Context, owner domain.Identity, in ports.ProfileInput) (*domain.User, error) {
	email := normalizeEmail(in.Email)

	taken, err := s.users.ExistsByEmail(ctx, email, owner.UserID)
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	if taken {
		return nil, &domain.ConflictError{Field: "email"}
	}

	err = s.users.UpdateProfile(ctx, owner.UserID, strings.TrimSpace(in.FullName), email, strings.TrimSpace(in.Phone))
	if err != nil {
		if errors.Is(err, domain.ErrConflict) || errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("update profile: %w", err)
	}

	s.log.Info().Int64("user_id", owner.UserID).Msg("profile updated")
	return s.users.FindByID(ctx, owner.UserID)
}
