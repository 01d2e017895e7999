package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/discoteque/discoteque-api/internal/core/domain"
)

const authEventsCollection = "auth_events"

// AuditRepository stores credential events in the auth_events collection.
type AuditRepository struct {
	coll *mongo.Collection
}

func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{coll: db.Collection(authEventsCollection)}
}

type authEventDoc struct {
	Action     string    `bson:"action"`
	Username   string    `bson:"username,omitempty"`
	UserID     int64     `bson:"user_id,omitempty"`
	Success    bool      `bson:"success"`
	Reason     string    `bson:"reason,omitempty"`
	OccurredAt time.Time `bson:"occurred_at"`
	RecordedAt time.Time `bson:"recorded_at"`
}

func toAuthEventDoc(e *domain.AuthEvent, recordedAt time.Time) authEventDoc {
	return authEventDoc{
		Action:     string(e.Action),
		Username:   e.Username,
		UserID:     e.UserID,
		Success:    e.Success,
		Reason:     e.Reason,
		OccurredAt: e.OccurredAt.UTC(),
		RecordedAt: recordedAt.UTC(),
	}
}

// Insert persists one event.
func (r *AuditRepository) Insert(ctx context.Context, event *domain.AuthEvent) error {
	if _, err := r.coll.InsertOne(ctx, toAuthEventDoc(event, time.Now())); err != nil {
		return fmt.Errorf("insert auth event: %w", err)
	}
	return nil
}

// EnsureIndexes creates the lookup index by username and time. It is safe to
// call on every start.
func (r *AuditRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}, {Key: "occurred_at", Value: -1}},
		Options: options.Index().SetName("username_occurred_at"),
	})
	if err != nil {
		return fmt.Errorf("auth_events index: %w", err)
	}
	return nil
}
