package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/blooddb/donation-api/internal/core/ports"
)

const authEventsCollection = "auth_events"

// AuditRepository implements ports.AuditRepository using MongoDB.
type AuditRepository struct {
	coll *mongo.Collection
	now  func() time.Time
}

// NewAuditRepository creates a new AuditRepository.
func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{coll: db.Collection(authEventsCollection), now: time.Now}
}

type authEventDoc struct {
	EventID    string    `bson:"event_id"`
	Type       string    `bson:"type"`
	UserID     int64     `bson:"user_id,omitempty"`
	Email      string    `bson:"email"`
	RemoteIP   string    `bson:"remote_ip,omitempty"`
	RequestID  string    `bson:"request_id,omitempty"`
	OccurredAt time.Time `bson:"occurred_at"`
	RecordedAt time.Time `bson:"recorded_at"`
}

// EnsureIndexes creates the lookup indexes for the audit collection.
func (r *AuditRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "event_id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "email", Value: 1}, {Key: "occurred_at", Value: -1}}},
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "occurred_at", Value: -1}}},
	})
	if err != nil {
		return fmt.Errorf("create audit indexes: %w", err)
	}
	return nil
}

// InsertAuthEvent persists one authentication event.
func (r *AuditRepository) InsertAuthEvent(ctx context.Context, event ports.AuthEvent) error {
	doc := authEventDoc{
		EventID:    uuid.NewString(),
		Type:       string(event.Type),
		UserID:     event.UserID,
		Email:      event.Email,
		RemoteIP:   event.RemoteIP,
		RequestID:  event.RequestID,
		OccurredAt: event.OccurredAt.UTC(),
		RecordedAt: r.now().UTC(),
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert auth event: %w", err)
	}
	return nil
}
