package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/blooddb/donation-api/internal/api/metrics"
	"github.com/blooddb/donation-api/internal/core/domain"
	"github.com/blooddb/donation-api/internal/core/ports"
)

// dummyPassword is hashed once and verified against when a login names an
// unknown email, so both failure paths cost one bcrypt comparison.
const dummyPassword = "blooddb-timing-equalizer"

// AuthService implements registration, login, logout and session checks.
type AuthService struct {
	users    ports.UserRepository
	hasher   ports.PasswordHasher
	sessions *SessionManager
	audit    ports.AuditRecorder
	log      zerolog.Logger
	now      func() time.Time

	dummyMu   sync.Mutex
	dummyHash string
}

func NewAuthService(
	users ports.UserRepository,
	hasher ports.PasswordHasher,
	sessions *SessionManager,
	audit ports.AuditRecorder,
	log zerolog.Logger,
) *AuthService {
	if audit == nil {
		audit = ports.NopAuditRecorder{}
	}
	return &AuthService{
		users:    users,
		hasher:   hasher,
		sessions: sessions,
		audit:    audit,
		log:      log,
		now:      time.Now,
	}
}

// Register creates a user and returns its id. The input must already be
// shape-validated.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (int64, error) {
	username := strings.TrimSpace(in.Username)
	email := normalizeEmail(in.Email)

	taken, err := s.users.ExistsByUsername(ctx, username)
	if err != nil {
		metrics.RegistrationsTotal.WithLabelValues("error").Inc()
		return 0, fmt.Errorf("register: %w", err)
	}
	if taken {
		metrics.RegistrationsTotal.WithLabelValues("conflict").Inc()
		return 0, &domain.ConflictError{Field: "username"}
	}

	taken, err = s.users.ExistsByEmail(ctx, email, 0)
	if err != nil {
		metrics.RegistrationsTotal.WithLabelValues("error").Inc()
		return 0, fmt.Errorf("register: %w", err)
	}
	if taken {
		metrics.RegistrationsTotal.WithLabelValues("conflict").Inc()
		return 0, &domain.ConflictError{Field: "email"}
	}

	hash, err := s.hasher.Hash(ctx, in.Password)
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			metrics.RegistrationsTotal.WithLabelValues("invalid").Inc()
			return 0, err
		}
		metrics.RegistrationsTotal.WithLabelValues("error").Inc()
		return 0, fmt.Errorf("register: %w", err)
	}

	user := &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		FullName:     strings.TrimSpace(in.FullName),
		Phone:        strings.TrimSpace(in.Phone),
		CreatedAt:    s.now().UTC(),
	}

	// The store's unique constraints catch registrations that raced past
	// the checks above.
	id, err := s.users.Create(ctx, user)
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			metrics.RegistrationsTotal.WithLabelValues("conflict").Inc()
			return 0, err
		}
		metrics.RegistrationsTotal.WithLabelValues("error").Inc()
		return 0, fmt.Errorf("register: %w", err)
	}

	metrics.RegistrationsTotal.WithLabelValues("created").Inc()
	s.log.Info().Int64("user_id", id).Str("username", username).Msg("user registered")
	s.record(ctx, ports.EventRegistered, id, email)
	return id, nil
}

// Login verifies credentials and issues a new session. An unknown email and
// a wrong password both yield domain.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	email = normalizeEmail(email)

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			metrics.LoginsTotal.WithLabelValues("error").Inc()
			return nil, fmt.Errorf("login: %w", err)
		}
		s.hasher.Verify(ctx, password, s.dummy(ctx))
		return nil, s.loginFailed(ctx, 0, email)
	}

	if !s.hasher.Verify(ctx, password, user.PasswordHash) {
		return nil, s.loginFailed(ctx, user.ID, email)
	}

	now := s.now().UTC()
	if err := s.users.UpdateLastLogin(ctx, user.ID, now); err != nil {
		s.log.Warn().Err(err).Int64("user_id", user.ID).Msg("failed to update last login")
	} else {
		user.LastLogin = &now
	}

	token, sess, err := s.sessions.Issue(ctx, user.Identity())
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("login: %w", err)
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	s.log.Info().Int64("user_id", user.ID).Msg("login succeeded")
	s.record(ctx, ports.EventLoginSucceeded, user.ID, email)
	return &ports.LoginResult{Token: token, Session: sess, User: user}, nil
}

// Logout destroys the session bound to token. Unknown tokens succeed.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	id, err := s.sessions.Resolve(ctx, token)
	if err != nil {
		s.log.Warn().Err(err).Msg("resolve before logout failed")
	}

	if err := s.sessions.Destroy(ctx, token); err != nil {
		return fmt.Errorf("logout: %w", err)
	}

	if id != nil {
		s.record(ctx, ports.EventLoggedOut, id.UserID, id.Email)
	}
	return nil
}

// Check resolves token. Store faults are logged and reported as
// unauthenticated.
func (s *AuthService) Check(ctx context.Context, token string) *domain.Identity {
	id, err := s.sessions.Resolve(ctx, token)
	if err != nil {
		s.log.Error().Err(err).Msg("session check failed")
		return nil
	}
	return id
}

func (s *AuthService) loginFailed(ctx context.Context, userID int64, email string) error {
	metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
	s.record(ctx, ports.EventLoginFailed, userID, email)
	return domain.ErrInvalidCredentials
}

// dummy returns the equaliser hash, building it on first use. The request's
// cancellation does not apply, and a failed build is retried on the next call.
func (s *AuthService) dummy(ctx context.Context) string {
	s.dummyMu.Lock()
	defer s.dummyMu.Unlock()
	if s.dummyHash != "" {
		return s.dummyHash
	}

	hash, err := s.hasher.Hash(context.WithoutCancel(ctx), dummyPassword)
	if err != nil {
		s.log.Warn().Err(err).Msg("failed to prepare dummy hash")
		return ""
	}
	s.dummyHash = hash
	return hash
}

func (s *AuthService) record(ctx context.Context, typ ports.AuthEventType, userID int64, email string) {
	meta := ports.RequestMetaFrom(ctx)
	s.audit.Record(ctx, ports.AuthEvent{
		Type:       typ,
		UserID:     userID,
		Email:      email,
		RemoteIP:   meta.RemoteIP,
		RequestID:  meta.RequestID,
		OccurredAt: s.now().UTC(),
	})
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
