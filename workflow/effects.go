package workflow

import (
	"context"
	"log"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/VersoHoldings/verso_backend/models"
)

// Notifier delivers a notification record to one user. Implementations may
// persist, push over websocket, email, or all three.
type Notifier interface {
	Notify(ctx context.Context, userID primitive.ObjectID, title, message, link, notifType string) error
}

// AuditLogger appends one audit record.
type AuditLogger interface {
	Append(ctx context.Context, entry models.AuditLog) error
}

// Effect is one side effect to attempt after a primary state mutation has
// committed. Name shows up in logs when the effect fails.
type Effect struct {
	Name string
	Run  func(ctx context.Context) error
}

// NotifyEffect wraps a Notifier send as an Effect.
func NotifyEffect(name string, n Notifier, userID primitive.ObjectID, title, message, link, notifType string) Effect {
	return Effect{
		Name: name,
		Run: func(ctx context.Context) error {
			return n.Notify(ctx, userID, title, message, link, notifType)
		},
	}
}

// AuditEffect wraps an audit append as an Effect.
func AuditEffect(a AuditLogger, entry models.AuditLog) Effect {
	return Effect{
		Name: "audit:" + entry.Action,
		Run: func(ctx context.Context) error {
			return a.Append(ctx, entry)
		},
	}
}

// RunEffects executes effects sequentially. Failures are logged and counted,
// never propagated: the primary mutation has already committed and must not
// be reported as failed because a notification or audit write bounced.
func RunEffects(ctx context.Context, effects []Effect) int {
	failed := 0
	for _, effect := range effects {
		if effect.Run == nil {
			continue
		}
		if err := effect.Run(ctx); err != nil {
			log.Printf("effect %s failed: %v", effect.Name, err)
			failed++
		}
	}
	return failed
}
