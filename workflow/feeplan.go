package workflow

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/VersoHoldings/verso_backend/models"
)

// FeePlanAssignment is the validated outcome of a fee-plan check: the plan
// itself plus, for introducers, the active agreement that authorizes it.
type FeePlanAssignment struct {
	Plan      *models.FeePlan
	Agreement *models.IntroducerAgreement
}

// ValidateFeePlanAssignment confirms a fee plan can be assigned to a
// membership on the given deal. Checks run in a fixed order and the first
// failure is returned; the function is read-only.
func ValidateFeePlanAssignment(ctx context.Context, store Store, dealID, feePlanID, membershipTermSheetID, entityID primitive.ObjectID, entityType models.EntityType) (*FeePlanAssignment, error) {
	plan, err := store.FeePlan(ctx, feePlanID)
	if err != nil {
		if errors.Is(err, ErrRowNotFound) {
			return nil, E(KindNotFound, "fee plan not found")
		}
		return nil, wrap(KindInternal, "failed to load fee plan", err)
	}

	if plan.Status != models.FeePlanAccepted {
		return nil, E(KindInvalidState, "fee plan must be accepted")
	}
	if !plan.IsActive {
		return nil, E(KindInvalidState, "fee plan inactive")
	}
	if plan.TermSheetID != membershipTermSheetID {
		return nil, E(KindMismatch, "fee plan belongs to a different term sheet")
	}

	owner := plan.OwnerEntityID()
	if plan.EntityType != entityType || owner == nil || *owner != entityID {
		return nil, E(KindOwnershipMismatch, fmt.Sprintf("fee plan is not owned by %s %s", entityType, entityID.Hex()))
	}

	assignment := &FeePlanAssignment{Plan: plan}

	// Introducers additionally need an active agreement covering this exact
	// deal+entity+fee-plan triple.
	if entityType == models.EntityTypeIntroducer {
		agreement, err := store.ActiveIntroducerAgreement(ctx, dealID, entityID, feePlanID)
		if err != nil {
			if errors.Is(err, ErrRowNotFound) {
				return nil, E(KindMissingAgreement, "no active introducer agreement for this deal and fee plan")
			}
			return nil, wrap(KindInternal, "failed to load introducer agreement", err)
		}
		assignment.Agreement = agreement
	}

	return assignment, nil
}
