package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/blooddb/donation-api/internal/api/metrics"
	"github.com/blooddb/donation-api/internal/core/domain"
	"github.com/blooddb/donation-api/internal/core/ports"
)

// DonorService manages donor records. The owner always comes from the
// resolved session identity.
type DonorService struct {
	repo ports.DonorRepository
	log  zerolog.Logger
	now  func() time.Time
}

func NewDonorService(repo ports.DonorRepository, log zerolog.Logger) *DonorService {
	return &DonorService{repo: repo, log: log, now: time.Now}
}

func (s *DonorService) Create(ctx context.Context, owner domain.Identity, in ports.DonorInput) (int64, error) {
	d := toDonor(in)
	d.UserID = owner.UserID
	d.CreatedAt = s.now().UTC()

	id, err := s.repo.Create(ctx, d)
	if err != nil {
		return 0, fmt.Errorf("create donor: %w", err)
	}

	metrics.DonorsCreatedTotal.WithLabelValues(d.BloodGroup).Inc()
	s.log.Info().Int64("donor_id", id).Int64("user_id", owner.UserID).Msg("donor created")
	return id, nil
}

func (s *DonorService) Get(ctx context.Context, owner domain.Identity, donorID int64) (*domain.Donor, error) {
	if donorID <= 0 {
		return nil, domain.ErrNotFound
	}
	return s.repo.FindByID(ctx, donorID, owner.UserID)
}

func (s *DonorService) ListMine(ctx context.Context, owner domain.Identity) ([]*domain.Donor, error) {
	return s.repo.ListByUser(ctx, owner.UserID)
}

func (s *DonorService) Update(ctx context.Context, owner domain.Identity, donorID int64, in ports.DonorInput) error {
	if donorID <= 0 {
		return domain.ErrNotFound
	}
	d := toDonor(in)
	d.ID = donorID
	d.UserID = owner.UserID

	if err := s.repo.Update(ctx, d); err != nil {
		return err
	}
	s.log.Info().Int64("donor_id", donorID).Int64("user_id", owner.UserID).Msg("donor updated")
	return nil
}

func (s *DonorService) Delete(ctx context.Context, owner domain.Identity, donorID int64) error {
	if donorID <= 0 {
		return domain.ErrNotFound
	}
	if err := s.repo.Delete(ctx, donorID, owner.UserID); err != nil {
		return err
	}
	s.log.Info().Int64("donor_id", donorID).Int64("user_id", owner.UserID).Msg("donor deleted")
	return nil
}

// Search is the public donor lookup.
func (s *DonorService) Search(ctx context.Context, filter domain.DonorSearch) ([]*domain.Donor, error) {
	filter.City = strings.TrimSpace(filter.City)
	filter.BloodGroup = strings.TrimSpace(filter.BloodGroup)
	return s.repo.Search(ctx, filter)
}

func toDonor(in ports.DonorInput) *domain.Donor {
	return &domain.Donor{
		Name:       strings.TrimSpace(in.Name),
		Age:        in.Age,
		Gender:     in.Gender,
		BloodGroup: in.BloodGroup,
		City:       strings.TrimSpace(in.City),
		Phone:      strings.TrimSpace(in.Phone),
	}
}
