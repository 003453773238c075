package utils

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/VersoHoldings/verso_backend/config"
	"github.com/VersoHoldings/verso_backend/models"
)

// AuditLogger appends staff actions to the audit_logs collection. Appends
// are best-effort at the call sites; this type never swallows errors itself.
type AuditLogger struct {
	DB *mongo.Client
}

func NewAuditLogger(db *mongo.Client) *AuditLogger {
	return &AuditLogger{DB: db}
}

// Append implements workflow.AuditLogger.
func (a *AuditLogger) Append(ctx context.Context, entry models.AuditLog) error {
	if entry.ID.IsZero() {
		entry.ID = primitive.NewObjectID()
	}
	if entry.EventID == "" {
		entry.EventID = uuid.NewString()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}

	_, err := config.GetCollection(a.DB, "audit_logs").InsertOne(ctx, entry)
	return err
}

// RecordAction is the fire-and-forget audit helper for controllers.
func RecordAction(db *mongo.Client, actorID primitive.ObjectID, action, entityType string, entityID primitive.ObjectID, details interface{}) {
	logger := NewAuditLogger(db)
	if err := logger.Append(context.Background(), models.AuditLog{
		ActorID:    actorID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Details:    details,
	}); err != nil {
		// Audit writes never block the action they describe.
		log.Printf("audit append failed for %s: %v", action, err)
	}
}
