package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/bookhive/library-api/internal/core/domain"
	"github.com/bookhive/library-api/internal/core/ports"
)

const authEventsCollection = "auth_events"

// AuditRepository implements ports.AuditRepository on the auth_events collection.
type AuditRepository struct {
	coll *mongo.Collection
	now  func() time.Time
}

func NewAuditRepository(db *mongo.Database) ports.AuditRepository {
	return &AuditRepository{coll: db.Collection(authEventsCollection), now: time.Now}
}

func eventDocument(event *domain.AuthEvent, processedAt time.Time) bson.M {
	doc := bson.M{
		"type":         string(event.Type),
		"subject":      event.Subject,
		"occurred_at":  event.OccurredAt.UTC(),
		"processed_at": processedAt.UTC(),
	}
	if event.RemoteAddr != "" {
		doc["remote_addr"] = event.RemoteAddr
	}
	return doc
}

// InsertEvent appends event to the audit trail.
func (r *AuditRepository) InsertEvent(ctx context.Context, event *domain.AuthEvent) error {
	if _, err := r.coll.InsertOne(ctx, eventDocument(event, r.now())); err != nil {
		return fmt.Errorf("insert auth event: %w", err)
	}
	return nil
}

// EnsureIndexes creates the lookup index used when inspecting a subject's history.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(authEventsCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "subject", Value: 1}, {Key: "occurred_at", Value: -1}},
		Options: options.Index().SetName("subject_occurred_at"),
	})
	if err != nil {
		return fmt.Errorf("create auth_events index: %w", err)
	}
	return nil
}
