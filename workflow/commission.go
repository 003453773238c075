package workflow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/VersoHoldings/verso_backend/models"
)

// TransitionCommission moves a commission to the requested status, enforcing
// the fixed adjacency table. Requesting the current status is a no-op
// success. The write is guarded on the status the row held when read, so a
// concurrent transition surfaces as KindConflict instead of silently
// overwriting.
func TransitionCommission(ctx context.Context, store Store, id primitive.ObjectID, requested models.CommissionStatus) (*models.Commission, error) {
	if !requested.IsValid() {
		return nil, E(KindInvalidState, fmt.Sprintf("unknown commission status %q", requested))
	}

	commission, err := store.Commission(ctx, id)
	if err != nil {
		if errors.Is(err, ErrRowNotFound) {
			return nil, E(KindNotFound, "commission not found")
		}
		return nil, wrap(KindInternal, "failed to load commission", err)
	}

	if commission.Status == requested {
		return commission, nil
	}
	if !commission.Status.CanTransition(requested) {
		return nil, IllegalTransition(commission.Status, requested)
	}

	var paidAt *time.Time
	if requested == models.CommissionPaid {
		now := time.Now()
		paidAt = &now
	}

	updated, err := store.UpdateCommissionStatus(ctx, id, commission.Status, requested, paidAt)
	if err != nil {
		if errors.Is(err, ErrConditionFailed) {
			return nil, E(KindConflict, "commission was modified concurrently")
		}
		return nil, wrap(KindInternal, "failed to update commission status", err)
	}
	return updated, nil
}

// PaymentInput describes a staff payment request on an invoiced commission.
type PaymentInput struct {
	CommissionID     primitive.ObjectID
	ActorID          primitive.ObjectID
	PriorityLawyerID *primitive.ObjectID
	Note             string
}

// PaymentResult reports the updated commission and how the fan-out went.
// FailedNotifications is informational; failures never undo the payment.
type PaymentResult struct {
	Commission          *models.Commission   `json:"commission"`
	NotifiedUserIDs     []primitive.ObjectID `json:"notifiedUserIds"`
	FailedNotifications int                  `json:"failedNotifications"`
}

// RequestCommissionPayment marks an invoiced commission paid and fans out
// notifications to the deal's lawyers, CEO-role staff, and the optional
// priority lawyer. The commission must be invoiced and the deal must have at
// least one lawyer assigned. Notification and audit writes run after the
// status update and are best-effort.
func RequestCommissionPayment(ctx context.Context, store Store, notifier Notifier, audit AuditLogger, in PaymentInput) (*PaymentResult, error) {
	commission, err := store.Commission(ctx, in.CommissionID)
	if err != nil {
		if errors.Is(err, ErrRowNotFound) {
			return nil, E(KindNotFound, "commission not found")
		}
		return nil, wrap(KindInternal, "failed to load commission", err)
	}
	if commission.Status != models.CommissionInvoiced {
		return nil, E(KindInvalidState, "commission must be invoiced before payment can be requested")
	}

	lawyers, err := store.DealLawyers(ctx, commission.DealID)
	if err != nil {
		return nil, wrap(KindInternal, "failed to load deal lawyers", err)
	}
	if len(lawyers) == 0 {
		return nil, E(KindMissingLawyer, "deal has no lawyer assigned")
	}

	now := time.Now()
	updated, err := store.UpdateCommissionStatus(ctx, in.CommissionID, models.CommissionInvoiced, models.CommissionPaid, &now)
	if err != nil {
		if errors.Is(err, ErrConditionFailed) {
			return nil, E(KindConflict, "commission was modified concurrently")
		}
		return nil, wrap(KindInternal, "failed to update commission status", err)
	}

	// Everything below is best-effort; the payment has already committed.
	title := "Commission payment requested"
	message := fmt.Sprintf("Payment of %.2f %s has been requested for commission %s.",
		updated.AccrualAmount, updated.Currency, updated.ID.Hex())
	link := "/commissions/" + updated.ID.Hex()

	var effects []Effect
	var recipients []primitive.ObjectID
	seen := make(map[primitive.ObjectID]bool)

	if in.PriorityLawyerID != nil && !in.PriorityLawyerID.IsZero() {
		effects = append(effects, NotifyEffect("notify-priority-lawyer", notifier,
			*in.PriorityLawyerID, title, message, link, "payment_request_priority"))
		recipients = append(recipients, *in.PriorityLawyerID)
		seen[*in.PriorityLawyerID] = true
	}
	for _, lawyer := range lawyers {
		if seen[lawyer.UserID] {
			continue
		}
		effects = append(effects, NotifyEffect("notify-lawyer", notifier,
			lawyer.UserID, title, message, link, "payment_request"))
		recipients = append(recipients, lawyer.UserID)
		seen[lawyer.UserID] = true
	}

	ceos, err := store.StaffByRole(ctx, models.StaffRoleCEO)
	if err != nil {
		// Fan-out to CEOs is best-effort like the sends themselves.
		ceos = nil
	}
	for _, ceo := range ceos {
		if seen[ceo.ID] {
			continue
		}
		effects = append(effects, NotifyEffect("notify-ceo", notifier,
			ceo.ID, title, message, link, "payment_request"))
		recipients = append(recipients, ceo.ID)
		seen[ceo.ID] = true
	}

	if audit != nil {
		effects = append(effects, AuditEffect(audit, models.AuditLog{
			ActorID:    in.ActorID,
			Action:     "commission.request_payment",
			EntityType: "commission",
			EntityID:   updated.ID,
			Details: map[string]interface{}{
				"amount":   updated.AccrualAmount,
				"currency": updated.Currency,
				"note":     in.Note,
			},
			Timestamp: now,
		}))
	}

	failed := RunEffects(ctx, effects)

	return &PaymentResult{
		Commission:          updated,
		NotifiedUserIDs:     recipients,
		FailedNotifications: failed,
	}, nil
}
