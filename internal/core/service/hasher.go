package service

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/semaphore"

	"github.com/blooddb/donation-api/internal/api/metrics"
	"github.com/blooddb/donation-api/internal/core/domain"
)

// DefaultHashCost is the bcrypt work factor used for every stored password.
const DefaultHashCost = 10

// BcryptHasher implements ports.PasswordHasher with bcrypt. At most
// maxConcurrent hash or verify operations run at once; callers wait for a
// slot until their context is done.
type BcryptHasher struct {
	cost int
	sem  *semaphore.Weighted
}

// NewBcryptHasher returns a hasher using cost (DefaultHashCost when <= 0)
// and maxConcurrent slots (GOMAXPROCS when <= 0).
func NewBcryptHasher(cost, maxConcurrent int) *BcryptHasher {
	if cost <= 0 {
		cost = DefaultHashCost
	}
	if maxConcurrent <= 0 {
		maxConcurrent = runtime.GOMAXPROCS(0)
	}
	return &BcryptHasher{cost: cost, sem: semaphore.NewWeighted(int64(maxConcurrent))}
}

func (h *BcryptHasher) Hash(ctx context.Context, plaintext string) (string, error) {
	start := time.Now()
	defer func() { metrics.PasswordHashDuration.WithLabelValues("hash").Observe(time.Since(start).Seconds()) }()

	if err := h.sem.Acquire(ctx, 1); err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	defer h.sem.Release(1)

	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", domain.NewValidationError(fmt.Sprintf("password must be at most %d bytes", domain.MaxPasswordBytes))
	}
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// Verify reports whether plaintext matches hash. A malformed hash or a
// cancelled context verifies false.
func (h *BcryptHasher) Verify(ctx context.Context, plaintext, hash string) bool {
	start := time.Now()
	defer func() { metrics.PasswordHashDuration.WithLabelValues("verify").Observe(time.Since(start).Seconds()) }()

	if err := h.sem.Acquire(ctx, 1); err != nil {
		return false
	}
	defer h.sem.Release(1)

	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}
