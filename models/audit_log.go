package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AuditLog is an append-only record of a staff action. Writes are
// best-effort; a failed append never rolls back the action it describes.
type AuditLog struct {
	ID         primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	EventID    string             `json:"eventId" bson:"eventId"` // uuid, stable across retries
	ActorID    primitive.ObjectID `json:"actorId" bson:"actorId"`
	Action     string             `json:"action" bson:"action"` // e.g. "membership.dispatch", "commission.transition"
	EntityType string             `json:"entityType" bson:"entityType"`
	EntityID   primitive.ObjectID `json:"entityId" bson:"entityId"`
	Details    interface{}        `json:"details,omitempty" bson:"details,omitempty"`
	Timestamp  time.Time          `json:"timestamp" bson:"timestamp"`
}
