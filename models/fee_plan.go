package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FeePlanStatus is the lifecycle status of a fee plan.
type FeePlanStatus string

const (
	FeePlanDraft    FeePlanStatus = "draft"
	FeePlanProposed FeePlanStatus = "proposed"
	FeePlanAccepted FeePlanStatus = "accepted"
	FeePlanArchived FeePlanStatus = "archived"
)

// FeePlan is a named set of fee terms tied to exactly one term sheet and one
// referring-entity type. Only one of the entity foreign keys is set,
// matching EntityType.
type FeePlan struct {
	ID                  primitive.ObjectID  `json:"id,omitempty" bson:"_id,omitempty"`
	Name                string              `json:"name" bson:"name"`
	TermSheetID         primitive.ObjectID  `json:"termSheetId" bson:"termSheetId"`
	EntityType          EntityType          `json:"entityType" bson:"entityType"`
	IntroducerID        *primitive.ObjectID `json:"introducerId,omitempty" bson:"introducerId,omitempty"`
	PartnerID           *primitive.ObjectID `json:"partnerId,omitempty" bson:"partnerId,omitempty"`
	CommercialPartnerID *primitive.ObjectID `json:"commercialPartnerId,omitempty" bson:"commercialPartnerId,omitempty"`
	Status              FeePlanStatus       `json:"status" bson:"status"`
	IsActive            bool                `json:"isActive" bson:"isActive"`
	CreatedAt           time.Time           `json:"createdAt" bson:"createdAt"`
	UpdatedAt           time.Time           `json:"updatedAt" bson:"updatedAt"`
}

// OwnerEntityID returns the entity-type-specific foreign key for the plan's
// referring entity, or nil when it is unset.
func (fp *FeePlan) OwnerEntityID() *primitive.ObjectID {
	switch fp.EntityType {
	case EntityTypeIntroducer:
		return fp.IntroducerID
	case EntityTypePartner:
		return fp.PartnerID
	case EntityTypeCommercialPartner:
		return fp.CommercialPartnerID
	}
	return nil
}

// IntroducerAgreement scopes a commission relationship to a
// deal+introducer+fee-plan triple. An introducer dispatch requires an active
// agreement.
type IntroducerAgreement struct {
	ID           primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	DealID       primitive.ObjectID `json:"dealId" bson:"dealId"`
	IntroducerID primitive.ObjectID `json:"introducerId" bson:"introducerId"`
	FeePlanID    primitive.ObjectID `json:"feePlanId" bson:"feePlanId"`
	Status       string             `json:"status" bson:"status"` // "draft", "active", "terminated"
	SignedAt     *time.Time         `json:"signedAt,omitempty" bson:"signedAt,omitempty"`
	CreatedAt    time.Time          `json:"createdAt" bson:"createdAt"`
}

const AgreementStatusActive = "active"
