package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MembershipRole is the role a user holds on a deal membership.
type MembershipRole string

const (
	RoleInvestor                  MembershipRole = "investor"
	RoleIntroducerInvestor        MembershipRole = "introducer_investor"
	RolePartnerInvestor           MembershipRole = "partner_investor"
	RoleCommercialPartnerInvestor MembershipRole = "commercial_partner_investor"
)

// DealMembership ties a user/investor to a deal. Once a membership has been
// dispatched to a referrer it is never re-dispatched; memberships are
// superseded, not deleted.
type DealMembership struct {
	ID                   primitive.ObjectID  `json:"id,omitempty" bson:"_id,omitempty"`
	DealID               primitive.ObjectID  `json:"dealId" bson:"dealId"`
	UserID               primitive.ObjectID  `json:"userId" bson:"userId"`
	InvestorID           primitive.ObjectID  `json:"investorId,omitempty" bson:"investorId,omitempty"`
	TermSheetID          primitive.ObjectID  `json:"termSheetId" bson:"termSheetId"`
	Role                 MembershipRole      `json:"role" bson:"role"`
	ReferredByEntityID   *primitive.ObjectID `json:"referredByEntityId,omitempty" bson:"referredByEntityId,omitempty"`
	ReferredByEntityType EntityType          `json:"referredByEntityType,omitempty" bson:"referredByEntityType,omitempty"`
	AssignedFeePlanID    *primitive.ObjectID `json:"assignedFeePlanId,omitempty" bson:"assignedFeePlanId,omitempty"`
	DispatchedAt         *time.Time          `json:"dispatchedAt,omitempty" bson:"dispatchedAt,omitempty"`
	CreatedAt            time.Time           `json:"createdAt" bson:"createdAt"`
	UpdatedAt            time.Time           `json:"updatedAt" bson:"updatedAt"`
}

// Dispatched reports whether this membership is already linked to a referrer.
func (m *DealMembership) Dispatched() bool {
	return m.ReferredByEntityID != nil
}

// DispatchRequest is the staff request to link a membership to a referring
// entity and fee plan.
type DispatchRequest struct {
	EntityID   string `json:"entityId" validate:"required"`
	EntityType string `json:"entityType" validate:"required"`
	FeePlanID  string `json:"feePlanId" validate:"required"`
	Role       string `json:"role,omitempty"`
}
