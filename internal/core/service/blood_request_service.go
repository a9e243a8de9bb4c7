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

// BloodRequestService manages blood requests with the same ownership rules
// as DonorService.
type BloodRequestService struct {
	repo ports.BloodRequestRepository
	log  zerolog.Logger
	now  func() time.Time
}

func NewBloodRequestService(repo ports.BloodRequestRepository, log zerolog.Logger) *BloodRequestService {
	return &BloodRequestService{repo: repo, log: log, now: time.Now}
}

func (s *BloodRequestService) Create(ctx context.Context, owner domain.Identity, in ports.BloodRequestInput) (int64, error) {
	r := toBloodRequest(in)
	r.UserID = owner.UserID
	r.CreatedAt = s.now().UTC()

	id, err := s.repo.Create(ctx, r)
	if err != nil {
		return 0, fmt.Errorf("create blood request: %w", err)
	}

	metrics.BloodRequestsCreatedTotal.WithLabelValues(r.BloodGroup).Inc()
	s.log.Info().Int64("req_id", id).Int64("user_id", owner.UserID).Msg("blood request created")
	return id, nil
}

func (s *BloodRequestService) Get(ctx context.Context, owner domain.Identity, reqID int64) (*domain.BloodRequest, error) {
	if reqID <= 0 {
		return nil, domain.ErrNotFound
	}
	return s.repo.FindByID(ctx, reqID, owner.UserID)
}

func (s *BloodRequestService) ListMine(ctx context.Context, owner domain.Identity) ([]*domain.BloodRequest, error) {
	return s.repo.ListByUser(ctx, owner.UserID)
}

func (s *BloodRequestService) Update(ctx context.Context, owner domain.Identity, reqID int64, in ports.BloodRequestInput) error {
	if reqID <= 0 {
		return domain.ErrNotFound
	}
	r := toBloodRequest(in)
	r.ID = reqID
	r.UserID = owner.UserID

	if err := s.repo.Update(ctx, r); err != nil {
		return err
	}
	s.log.Info().Int64("req_id", reqID).Int64("user_id", owner.UserID).Str("status", string(r.Status)).Msg("blood request updated")
	return nil
}

func (s *BloodRequestService) Delete(ctx context.Context, owner domain.Identity, reqID int64) error {
	if reqID <= 0 {
		return domain.ErrNotFound
	}
	if err := s.repo.Delete(ctx, reqID, owner.UserID); err != nil {
		return err
	}
	s.log.Info().Int64("req_id", reqID).Int64("user_id", owner.UserID).Msg("blood request deleted")
	return nil
}

// ListAll is the public request board, newest first.
func (s *BloodRequestService) ListAll(ctx context.Context) ([]*domain.BloodRequest, error) {
	return s.repo.ListAll(ctx)
}

func toBloodRequest(in ports.BloodRequestInput) *domain.BloodRequest {
	status := domain.RequestStatus(in.Status)
	if status == "" {
		status = domain.RequestPending
	}
	return &domain.BloodRequest{
		Name:       strings.TrimSpace(in.Name),
		BloodGroup: in.BloodGroup,
		City:       strings.TrimSpace(in.City),
		Reason:     strings.TrimSpace(in.Reason),
		Phone:      strings.TrimSpace(in.Phone),
		Status:     status,
	}
}
