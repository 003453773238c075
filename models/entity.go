package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EntityType identifies which kind of entity a row in the entities
// collection represents.
type EntityType string

const (
	EntityTypeInvestor          EntityType = "investor"
	EntityTypeIntroducer        EntityType = "introducer"
	EntityTypePartner           EntityType = "partner"
	EntityTypeCommercialPartner EntityType = "commercial_partner"
	EntityTypeLawyer            EntityType = "lawyer"
	EntityTypeArranger          EntityType = "arranger"
)

// ReferringEntityTypes are the entity types that may be attached to a deal
// membership as a referrer and earn commissions.
var ReferringEntityTypes = []EntityType{
	EntityTypeIntroducer,
	EntityTypePartner,
	EntityTypeCommercialPartner,
}

// IsReferringType reports whether t can act as a referrer on a dispatch.
func (t EntityType) IsReferringType() bool {
	for _, rt := range ReferringEntityTypes {
		if t == rt {
			return true
		}
	}
	return false
}

// InvestorRole returns the deal-membership role derived from a referring
// entity type. All components share this single mapping.
func (t EntityType) InvestorRole() MembershipRole {
	switch t {
	case EntityTypeIntroducer:
		return RoleIntroducerInvestor
	case EntityTypePartner:
		return RolePartnerInvestor
	case EntityTypeCommercialPartner:
		return RoleCommercialPartnerInvestor
	}
	return RoleInvestor
}

// Entity represents an organization on the platform (investor vehicle,
// introducer, partner, commercial partner, law firm, arranger).
type Entity struct {
	ID           primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Type         EntityType         `json:"type" bson:"type"`
	LegalName    string             `json:"legalName" bson:"legalName"`
	KycStatus    string             `json:"kycStatus" bson:"kycStatus"` // "pending", "approved", "completed", "verified", "rejected"
	ReferralCode string             `json:"referralCode,omitempty" bson:"referralCode,omitempty"`
	CreatedAt    time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// EntityMember links a user to an entity, with signing authority and the
// CEO approval gate used by the eligibility evaluator.
type EntityMember struct {
	ID                primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	EntityID          primitive.ObjectID `json:"entityId" bson:"entityId"`
	UserID            primitive.ObjectID `json:"userId" bson:"userId"`
	DisplayName       string             `json:"displayName" bson:"displayName"`
	Role              string             `json:"role" bson:"role"` // "admin", "owner", "member"
	CanSign           bool               `json:"canSign" bson:"canSign"`
	CEOApprovalStatus string             `json:"ceoApprovalStatus" bson:"ceoApprovalStatus"` // "pending", "approved", "rejected"
	CreatedAt         time.Time          `json:"createdAt" bson:"createdAt"`
}
