// Package session provides the in-process session store used when no Redis
// address is configured. Sessions do not survive a restart and are not shared
// between replicas.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/blooddb/donation-api/internal/core/domain"
)

const defaultSweepInterval = time.Minute

// MemoryStore is a mutex-guarded map of token to session. A janitor started
// with Start purges expired entries in the background.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]domain.Session
	now      func() time.Time
	interval time.Duration
	log      zerolog.Logger
}

func NewMemoryStore(log zerolog.Logger) *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]domain.Session),
		now:      time.Now,
		interval: defaultSweepInterval,
		log:      log,
	}
}

func (s *MemoryStore) Save(_ context.Context, token string, sess *domain.Session) error {
	s.mu.Lock()
	s.sessions[token] = *sess
	s.mu.Unlock()
	return nil
}

// Get returns a copy of the stored session so callers cannot mutate the map.
func (s *MemoryStore) Get(_ context.Context, token string) (*domain.Session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[token]
	s.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	return &sess, nil
}

func (s *MemoryStore) Delete(_ context.Context, token string) error {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
	return nil
}

// Len reports the number of stored sessions, expired ones included.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Start runs the janitor until ctx is cancelled.
func (s *MemoryStore) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := s.sweep(); n > 0 {
					s.log.Debug().Int("purged", n).Msg("expired sessions purged")
				}
			}
		}
	}()
}

func (s *MemoryStore) sweep() int {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()

	purged := 0
	for token, sess := range s.sessions {
		if sess.Expired(now) {
			delete(s.sessions, token)
			purged++
		}
	}
	return purged
}
