package workflow

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/VersoHoldings/verso_backend/models"
)

// Store is the narrow datastore surface the workflow components need: point
// lookups, a few list lookups, and two conditional single-row updates. The
// conditional updates are the only concurrency control in the package;
// implementations must make them atomic (UPDATE ... WHERE guard = expected).
type Store interface {
	FeePlan(ctx context.Context, id primitive.ObjectID) (*models.FeePlan, error)
	Membership(ctx context.Context, dealID, userID primitive.ObjectID) (*models.DealMembership, error)
	Commission(ctx context.Context, id primitive.ObjectID) (*models.Commission, error)
	Entity(ctx context.Context, id primitive.ObjectID) (*models.Entity, error)

	// ActiveIntroducerAgreement returns ErrRowNotFound when no agreement with
	// status "active" exists for the deal+introducer+fee-plan triple.
	ActiveIntroducerAgreement(ctx context.Context, dealID, introducerID, feePlanID primitive.ObjectID) (*models.IntroducerAgreement, error)

	EntityMembers(ctx context.Context, entityID primitive.ObjectID) ([]models.EntityMember, error)

	// HasApprovedKycSubmission reports whether at least one approved KYC
	// submission exists scoped to the entity+member pair.
	HasApprovedKycSubmission(ctx context.Context, entityID, memberID primitive.ObjectID) (bool, error)

	DealLawyers(ctx context.Context, dealID primitive.ObjectID) ([]models.DealLawyer, error)
	StaffByRole(ctx context.Context, role string) ([]models.User, error)

	// DispatchMembership applies upd to the membership only while
	// referredByEntityId is still unset; a lost race returns
	// ErrConditionFailed.
	DispatchMembership(ctx context.Context, membershipID primitive.ObjectID, upd DispatchUpdate) error

	// UpdateCommissionStatus moves a commission from expected to next in one
	// guarded write and returns the updated row. paidAt is stored when
	// non-nil. Returns ErrConditionFailed when the row no longer holds
	// expected.
	UpdateCommissionStatus(ctx context.Context, id primitive.ObjectID, expected, next models.CommissionStatus, paidAt *time.Time) (*models.Commission, error)
}

// DispatchUpdate is the single-statement field set applied when a membership
// is dispatched to a referrer.
type DispatchUpdate struct {
	ReferredByEntityID   primitive.ObjectID
	ReferredByEntityType models.EntityType
	AssignedFeePlanID    primitive.ObjectID
	Role                 models.MembershipRole
	DispatchedAt         time.Time
}
