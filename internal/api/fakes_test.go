package api

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/blooddb/donation-api/internal/core/domain"
)

// memUsers is an in-memory credential store with the same uniqueness
// rules as the users table.
type memUsers struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]domain.User
}

func newMemUsers() *memUsers {
	return &memUsers{byID: make(map[int64]domain.User)}
}

func (r *memUsers) Create(_ context.Context, u *domain.User) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.byID {
		if existing.Username == u.Username {
			return 0, &domain.ConflictError{Field: "username"}
		}
		if existing.Email == u.Email {
			return 0, &domain.ConflictError{Field: "email"}
		}
	}
	r.nextID++
	stored := *u
	stored.ID = r.nextID
	r.byID[stored.ID] = stored
	return stored.ID, nil
}

func (r *memUsers) FindByID(_ context.Context, id int64) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &u, nil
}

func (r *memUsers) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *memUsers) ExistsByUsername(_ context.Context, username string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (r *memUsers) ExistsByEmail(_ context.Context, email string, excludeID int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if u.Email == email && u.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (r *memUsers) UpdateLastLogin(_ context.Context, id int64, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	u.LastLogin = &at
	r.byID[id] = u
	return nil
}

func (r *memUsers) UpdateProfile(_ context.Context, id int64, fullName, email, phone string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	u.FullName, u.Email, u.Phone = fullName, email, phone
	r.byID[id] = u
	return nil
}

// memDonors filters every single-row operation on owner, like the SQL does.
type memDonors struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]domain.Donor
}

func newMemDonors() *memDonors {
	return &memDonors{rows: make(map[int64]domain.Donor)}
}

func (r *memDonors) Create(_ context.Context, d *domain.Donor) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	stored := *d
	stored.ID = r.nextID
	r.rows[stored.ID] = stored
	return stored.ID, nil
}

func (r *memDonors) FindByID(_ context.Context, donorID, userID int64) (*domain.Donor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.rows[donorID]
	if !ok || d.UserID != userID {
		return nil, domain.ErrNotFound
	}
	return &d, nil
}

func (r *memDonors) ListByUser(_ context.Context, userID int64) ([]*domain.Donor, error) {
	return r.filter(func(d domain.Donor) bool { return d.UserID == userID }), nil
}

func (r *memDonors) Update(_ context.Context, d *domain.Donor) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.rows[d.ID]
	if !ok || existing.UserID != d.UserID {
		return domain.ErrNotFound
	}
	updated := *d
	updated.CreatedAt = existing.CreatedAt
	r.rows[d.ID] = updated
	return nil
}

func (r *memDonors) Delete(_ context.Context, donorID, userID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.rows[donorID]
	if !ok || d.UserID != userID {
		return domain.ErrNotFound
	}
	delete(r.rows, donorID)
	return nil
}

func (r *memDonors) CountByUser(ctx context.Context, userID int64) (int64, error) {
	list, _ := r.ListByUser(ctx, userID)
	return int64(len(list)), nil
}

func (r *memDonors) Search(_ context.Context, f domain.DonorSearch) ([]*domain.Donor, error) {
	return r.filter(func(d domain.Donor) bool {
		return f.BloodGroup == "" || d.BloodGroup == f.BloodGroup
	}), nil
}

func (r *memDonors) filter(keep func(domain.Donor) bool) []*domain.Donor {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.Donor, 0)
	for _, d := range r.rows {
		if keep(d) {
			d := d
			out = append(out, &d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

type memRequests struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]domain.BloodRequest
}

func newMemRequests() *memRequests {
	return &memRequests{rows: make(map[int64]domain.BloodRequest)}
}

func (r *memRequests) Create(_ context.Context, br *domain.BloodRequest) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	stored := *br
	stored.ID = r.nextID
	r.rows[stored.ID] = stored
	return stored.ID, nil
}

func (r *memRequests) FindByID(_ context.Context, reqID, userID int64) (*domain.BloodRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	br, ok := r.rows[reqID]
	if !ok || br.UserID != userID {
		return nil, domain.ErrNotFound
	}
	return &br, nil
}

func (r *memRequests) ListByUser(_ context.Context, userID int64) ([]*domain.BloodRequest, error) {
	return r.filter(func(br domain.BloodRequest) bool { return br.UserID == userID }), nil
}

func (r *memRequests) Update(_ context.Context, br *domain.BloodRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.rows[br.ID]
	if !ok || existing.UserID != br.UserID {
		return domain.ErrNotFound
	}
	updated := *br
	updated.CreatedAt = existing.CreatedAt
	r.rows[br.ID] = updated
	return nil
}

func (r *memRequests) Delete(_ context.Context, reqID, userID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	br, ok := r.rows[reqID]
	if !ok || br.UserID != userID {
		return domain.ErrNotFound
	}
	delete(r.rows, reqID)
	return nil
}

func (r *memRequests) CountByUser(ctx context.Context, userID int64) (int64, error) {
	list, _ := r.ListByUser(ctx, userID)
	return int64(len(list)), nil
}

func (r *memRequests) ListAll(_ context.Context) ([]*domain.BloodRequest, error) {
	return r.filter(func(domain.BloodRequest) bool { return true }), nil
}

func (r *memRequests) filter(keep func(domain.BloodRequest) bool) []*domain.BloodRequest {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.BloodRequest, 0)
	for _, br := range r.rows {
		if keep(br) {
			br := br
			out = append(out, &br)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}
