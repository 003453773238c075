package workflow

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/VersoHoldings/verso_backend/models"
)

// DispatchInput identifies the membership, the referring entity, and the fee
// plan for a dispatch. Role is optional; when empty it is derived from the
// entity type.
type DispatchInput struct {
	DealID     primitive.ObjectID
	UserID     primitive.ObjectID
	EntityID   primitive.ObjectID
	EntityType models.EntityType
	FeePlanID  primitive.ObjectID
	Role       models.MembershipRole
}

// DispatchResult reports the applied role and timestamp.
type DispatchResult struct {
	MembershipID primitive.ObjectID    `json:"membershipId"`
	Role         models.MembershipRole `json:"role"`
	DispatchedAt time.Time             `json:"dispatchedAt"`
}

// DispatchMembership links a membership to a referring entity. The
// membership must not have been dispatched before; the fee plan must pass
// ValidateFeePlanAssignment. The write is a single conditional update, so a
// concurrent dispatch loses cleanly with AlreadyDispatched.
func DispatchMembership(ctx context.Context, store Store, in DispatchInput) (*DispatchResult, error) {
	if !in.EntityType.IsReferringType() {
		return nil, E(KindInvalidState, "entity type cannot refer investors")
	}

	membership, err := store.Membership(ctx, in.DealID, in.UserID)
	if err != nil {
		if errors.Is(err, ErrRowNotFound) {
			return nil, E(KindNotFound, "deal membership not found")
		}
		return nil, wrap(KindInternal, "failed to load membership", err)
	}
	if membership.Dispatched() {
		return nil, E(KindAlreadyDispatched, "membership is already linked to a referrer")
	}

	if _, err := ValidateFeePlanAssignment(ctx, store, in.DealID, in.FeePlanID, membership.TermSheetID, in.EntityID, in.EntityType); err != nil {
		return nil, err
	}

	role := in.Role
	if role == "" {
		role = in.EntityType.InvestorRole()
	}

	upd := DispatchUpdate{
		ReferredByEntityID:   in.EntityID,
		ReferredByEntityType: in.EntityType,
		AssignedFeePlanID:    in.FeePlanID,
		Role:                 role,
		DispatchedAt:         time.Now(),
	}
	if err := store.DispatchMembership(ctx, membership.ID, upd); err != nil {
		if errors.Is(err, ErrConditionFailed) {
			// Someone dispatched the same membership between our read and
			// the guarded write.
			return nil, E(KindAlreadyDispatched, "membership is already linked to a referrer")
		}
		return nil, wrap(KindInternal, "failed to update membership", err)
	}

	return &DispatchResult{
		MembershipID: membership.ID,
		Role:         role,
		DispatchedAt: upd.DispatchedAt,
	}, nil
}
