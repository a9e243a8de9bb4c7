package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/blooddb/donation-api/internal/core/domain"
	"github.com/blooddb/donation-api/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stub repositories
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]*domain.User

	// existsErr, when set, is returned by the Exists* pre-checks.
	existsErr error
	// skipPrecheck makes the Exists* checks always report false, so only
	// Create's constraint check can detect a duplicate.
	skipPrecheck bool
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[int64]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

// Create mirrors the UNIQUE constraints of the users table.
func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == user.Username {
			return 0, &domain.ConflictError{Field: "username"}
		}
		if u.Email == user.Email {
			return 0, &domain.ConflictError{Field: "email"}
		}
	}
	r.nextID++
	stored := cloneUser(user)
	stored.ID = r.nextID
	r.users[stored.ID] = stored
	return stored.ID, nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id int64) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *stubUserRepo) ExistsByUsername(_ context.Context, username string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.existsErr != nil {
		return false, r.existsErr
	}
	if r.skipPrecheck {
		return false, nil
	}
	for _, u := range r.users {
		if u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubUserRepo) ExistsByEmail(_ context.Context, email string, excludeID int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.existsErr != nil {
		return false, r.existsErr
	}
	if r.skipPrecheck {
		return false, nil
	}
	for _, u := range r.users {
		if u.Email == email && u.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubUserRepo) UpdateLastLogin(_ context.Context, id int64, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return domain.ErrNotFound
	}
	u.LastLogin = &at
	return nil
}

func (r *stubUserRepo) UpdateProfile(_ context.Context, id int64, fullName, email, phone string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return domain.ErrNotFound
	}
	for _, other := range r.users {
		if other.ID != id && other.Email == email {
			return &domain.ConflictError{Field: "email"}
		}
	}
	u.FullName, u.Email, u.Phone = fullName, email, phone
	return nil
}

type stubSessionStore struct {
	mu       sync.Mutex
	sessions map[string]*domain.Session
	err      error
}

func newStubSessionStore() *stubSessionStore {
	return &stubSessionStore{sessions: make(map[string]*domain.Session)}
}

func (s *stubSessionStore) Save(_ context.Context, token string, sess *domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	clone := *sess
	s.sessions[token] = &clone
	return nil
}

func (s *stubSessionStore) Get(_ context.Context, token string) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	sess, ok := s.sessions[token]
	if !ok {
		return nil, nil
	}
	clone := *sess
	return &clone, nil
}

func (s *stubSessionStore) Delete(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	delete(s.sessions, token)
	return nil
}

func (s *stubSessionStore) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

type recordingAudit struct {
	mu     sync.Mutex
	events []ports.AuthEvent
}

func (a *recordingAudit) Record(_ context.Context, e ports.AuthEvent) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.events = append(a.events, e)
}

func (a *recordingAudit) types() []ports.AuthEventType {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]ports.AuthEventType, 0, len(a.events))
	for _, e := range a.events {
		out = append(out, e.Type)
	}
	return out
}

// stubDonorRepo applies the same ownership filter as the SQL repositories:
// id AND user_id must match.
type stubDonorRepo struct {
	mu     sync.Mutex
	nextID int64
	donors map[int64]*domain.Donor
	err    error
}

func newStubDonorRepo() *stubDonorRepo {
	return &stubDonorRepo{donors: make(map[int64]*domain.Donor)}
}

func (r *stubDonorRepo) Create(_ context.Context, d *domain.Donor) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return 0, r.err
	}
	r.nextID++
	clone := *d
	clone.ID = r.nextID
	r.donors[clone.ID] = &clone
	return clone.ID, nil
}

func (r *stubDonorRepo) FindByID(_ context.Context, donorID, userID int64) (*domain.Donor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.donors[donorID]
	if !ok || d.UserID != userID {
		return nil, domain.ErrNotFound
	}
	clone := *d
	return &clone, nil
}

func (r *stubDonorRepo) ListByUser(_ context.Context, userID int64) ([]*domain.Donor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Donor
	for _, d := range r.donors {
		if d.UserID == userID {
			clone := *d
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *stubDonorRepo) Update(_ context.Context, d *domain.Donor) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.donors[d.ID]
	if !ok || existing.UserID != d.UserID {
		return domain.ErrNotFound
	}
	clone := *d
	clone.CreatedAt = existing.CreatedAt
	r.donors[d.ID] = &clone
	return nil
}

func (r *stubDonorRepo) Delete(_ context.Context, donorID, userID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.donors[donorID]
	if !ok || d.UserID != userID {
		return domain.ErrNotFound
	}
	delete(r.donors, donorID)
	return nil
}

func (r *stubDonorRepo) CountByUser(ctx context.Context, userID int64) (int64, error) {
	list, err := r.ListByUser(ctx, userID)
	return int64(len(list)), err
}

func (r *stubDonorRepo) Search(_ context.Context, f domain.DonorSearch) ([]*domain.Donor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Donor
	for _, d := range r.donors {
		if f.BloodGroup != "" && d.BloodGroup != f.BloodGroup {
			continue
		}
		clone := *d
		out = append(out, &clone)
	}
	return out, nil
}

type stubRequestRepo struct {
	mu       sync.Mutex
	nextID   int64
	requests map[int64]*domain.BloodRequest
}

func newStubRequestRepo() *stubRequestRepo {
	return &stubRequestRepo{requests: make(map[int64]*domain.BloodRequest)}
}

func (r *stubRequestRepo) Create(_ context.Context, br *domain.BloodRequest) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	clone := *br
	clone.ID = r.nextID
	r.requests[clone.ID] = &clone
	return clone.ID, nil
}

func (r *stubRequestRepo) FindByID(_ context.Context, reqID, userID int64) (*domain.BloodRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	br, ok := r.requests[reqID]
	if !ok || br.UserID != userID {
		return nil, domain.ErrNotFound
	}
	clone := *br
	return &clone, nil
}

func (r *stubRequestRepo) ListByUser(_ context.Context, userID int64) ([]*domain.BloodRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.BloodRequest
	for _, br := range r.requests {
		if br.UserID == userID {
			clone := *br
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *stubRequestRepo) Update(_ context.Context, br *domain.BloodRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.requests[br.ID]
	if !ok || existing.UserID != br.UserID {
		return domain.ErrNotFound
	}
	clone := *br
	r.requests[br.ID] = &clone
	return nil
}

func (r *stubRequestRepo) Delete(_ context.Context, reqID, userID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	br, ok := r.requests[reqID]
	if !ok || br.UserID != userID {
		return domain.ErrNotFound
	}
	delete(r.requests, reqID)
	return nil
}

func (r *stubRequestRepo) CountByUser(ctx context.Context, userID int64) (int64, error) {
	list, err := r.ListByUser(ctx, userID)
	return int64(len(list)), err
}

func (r *stubRequestRepo) ListAll(_ context.Context) ([]*domain.BloodRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.BloodRequest, 0, len(r.requests))
	for _, br := range r.requests {
		clone := *br
		out = append(out, &clone)
	}
	return out, nil
}

var errStoreDown = errors.New("store down")

func nopLogger() zerolog.Logger {
	return zerolog.Nop()
}
