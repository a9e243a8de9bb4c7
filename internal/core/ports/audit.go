package ports

import (
	"context"
	"time"

	"github.com/blooddb/donation-api/internal/core/domain"
)

// AuthEventType names an auditable authentication event.
type AuthEventType string

const (
	EventRegistered     AuthEventType = "register"
	EventLoginSucceeded AuthEventType = "login_succeeded"
	EventLoginFailed    AuthEventType = "login_failed"
	EventLoggedOut      AuthEventType = "logout"
)

// AuthEvent is one audit record. It never carries a password, hash or token.
type AuthEvent struct {
	Type       AuthEventType
	UserID     int64
	Email      string
	RemoteIP   string
	RequestID  string
	OccurredAt time.Time
}

// AuditRecorder accepts audit events without blocking the caller.
type AuditRecorder interface {
	Record(ctx context.Context, event AuthEvent)
}

// AuditRepository persists audit events.
type AuditRepository interface {
	InsertAuthEvent(ctx context.Context, event AuthEvent) error
}

// NopAuditRecorder discards every event.
type NopAuditRecorder struct{}

func (NopAuditRecorder) Record(context.Context, AuthEvent) {}

// RequestMeta describes the transport request an event originated from.
type RequestMeta struct {
	RemoteIP  string
	RequestID string
}

type requestMetaKey struct{}

// WithRequestMeta returns a copy of ctx carrying meta.
func WithRequestMeta(ctx context.Context, meta RequestMeta) context.Context {
	return context.WithValue(ctx, requestMetaKey{}, meta)
}

// RequestMetaFrom returns the RequestMeta stored in ctx, if any.
func RequestMetaFrom(ctx context.Context) RequestMeta {
	meta, _ := ctx.Value(requestMetaKey{}).(RequestMeta)
	return meta
}

type identityKey struct{}

// WithIdentity returns a copy of ctx carrying the resolved requester.
func WithIdentity(ctx context.Context, id domain.Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFrom returns the requester stored in ctx by WithIdentity.
func IdentityFrom(ctx context.Context) (domain.Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(domain.Identity)
	return id, ok
}
