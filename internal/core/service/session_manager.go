package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/blooddb/donation-api/internal/api/metrics"
	"github.com/blooddb/donation-api/internal/core/domain"
	"github.com/blooddb/donation-api/internal/core/ports"
)

const (
	// DefaultSessionTTL is measured from issuance; access does not extend it.
	DefaultSessionTTL = 24 * time.Hour

	tokenBytes = 32
)

// SessionManager issues, resolves and destroys opaque session tokens. It
// knows nothing about cookies; the transport adapter hands it raw tokens.
type SessionManager struct {
	store ports.SessionStore
	ttl   time.Duration
	now   func() time.Time
	log   zerolog.Logger
}

// NewSessionManager returns a SessionManager over store. A non-positive ttl
// falls back to DefaultSessionTTL.
func NewSessionManager(store ports.SessionStore, ttl time.Duration, log zerolog.Logger) *SessionManager {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &SessionManager{store: store, ttl: ttl, now: time.Now, log: log}
}

// TTL returns the fixed session lifetime.
func (m *SessionManager) TTL() time.Duration {
	return m.ttl
}

// Issue binds a fresh token to id. Earlier tokens of the same user stay valid.
func (m *SessionManager) Issue(ctx context.Context, id domain.Identity) (string, *domain.Session, error) {
	token, err := generateToken()
	if err != nil {
		return "", nil, fmt.Errorf("issue session: %w", err)
	}

	now := m.now().UTC()
	sess := &domain.Session{
		Identity:  id,
		IssuedAt:  now,
		ExpiresAt: now.Add(m.ttl),
	}
	if err := m.store.Save(ctx, token, sess); err != nil {
		return "", nil, fmt.Errorf("issue session: %w", err)
	}

	metrics.SessionsIssuedTotal.Inc()
	m.log.Debug().Int64("user_id", id.UserID).Time("expires_at", sess.ExpiresAt).Msg("session issued")
	return token, sess, nil
}

// Resolve returns the identity bound to token, or nil when the token is
// empty, unknown, destroyed or expired. Only a store fault is an error.
func (m *SessionManager) Resolve(ctx context.Context, token string) (*domain.Identity, error) {
	if token == "" {
		metrics.SessionResolveTotal.WithLabelValues("miss").Inc()
		return nil, nil
	}

	sess, err := m.store.Get(ctx, token)
	if err != nil {
		metrics.SessionResolveTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("resolve session: %w", err)
	}
	if sess == nil {
		metrics.SessionResolveTotal.WithLabelValues("miss").Inc()
		return nil, nil
	}
	if sess.Expired(m.now()) {
		metrics.SessionResolveTotal.WithLabelValues("expired").Inc()
		if err := m.store.Delete(ctx, token); err != nil {
			m.log.Warn().Err(err).Msg("failed to purge expired session")
		}
		return nil, nil
	}

	metrics.SessionResolveTotal.WithLabelValues("hit").Inc()
	id := sess.Identity
	return &id, nil
}

// Destroy removes the session bound to token. Destroying an unknown or
// already destroyed token succeeds.
func (m *SessionManager) Destroy(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := m.store.Delete(ctx, token); err != nil {
		return fmt.Errorf("destroy session: %w", err)
	}
	metrics.SessionsDestroyedTotal.Inc()
	return nil
}

func generateToken() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
