package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CommissionStatus is the lifecycle status of a commission record.
type CommissionStatus string

const (
	CommissionAccrued          CommissionStatus = "accrued"
	CommissionInvoiceRequested CommissionStatus = "invoice_requested"
	CommissionInvoiceSubmitted CommissionStatus = "invoice_submitted"
	CommissionInvoiced         CommissionStatus = "invoiced"
	CommissionPaid             CommissionStatus = "paid"
	CommissionRejected         CommissionStatus = "rejected"
	CommissionCancelled        CommissionStatus = "cancelled"
)

// commissionTransitions is the fixed adjacency table for commission statuses.
// "paid" and "cancelled" are terminal.
var commissionTransitions = map[CommissionStatus][]CommissionStatus{
	CommissionAccrued:          {CommissionInvoiceRequested, CommissionCancelled},
	CommissionInvoiceRequested: {CommissionInvoiceSubmitted, CommissionCancelled},
	CommissionInvoiceSubmitted: {CommissionInvoiced, CommissionRejected},
	CommissionInvoiced:         {CommissionPaid, CommissionCancelled},
	CommissionRejected:         {CommissionInvoiceSubmitted, CommissionCancelled},
	CommissionPaid:             {},
	CommissionCancelled:        {},
}

// IsValid reports whether s is one of the known commission statuses.
func (s CommissionStatus) IsValid() bool {
	_, ok := commissionTransitions[s]
	return ok
}

// IsTerminal reports whether no further transitions are allowed from s.
func (s CommissionStatus) IsTerminal() bool {
	return s.IsValid() && len(commissionTransitions[s]) == 0
}

// CanTransition reports whether requested is reachable from s. A request for
// the current status is always allowed (idempotent no-op).
func (s CommissionStatus) CanTransition(requested CommissionStatus) bool {
	if s == requested {
		return s.IsValid()
	}
	for _, next := range commissionTransitions[s] {
		if next == requested {
			return true
		}
	}
	return false
}

// Commission is an amount owed to a referring entity for a deal, optionally
// scoped to a single investor.
type Commission struct {
	ID            primitive.ObjectID  `json:"id,omitempty" bson:"_id,omitempty"`
	EntityType    EntityType          `json:"entityType" bson:"entityType"`
	EntityID      primitive.ObjectID  `json:"entityId" bson:"entityId"`
	DealID        primitive.ObjectID  `json:"dealId" bson:"dealId"`
	InvestorID    *primitive.ObjectID `json:"investorId,omitempty" bson:"investorId,omitempty"`
	FeePlanID     *primitive.ObjectID `json:"feePlanId,omitempty" bson:"feePlanId,omitempty"`
	AccrualAmount float64             `json:"accrualAmount" bson:"accrualAmount"`
	Currency      string              `json:"currency" bson:"currency"`
	Status        CommissionStatus    `json:"status" bson:"status"`
	InvoiceNumber string              `json:"invoiceNumber,omitempty" bson:"invoiceNumber,omitempty"`
	CreatedAt     time.Time           `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time           `json:"updatedAt" bson:"updatedAt"`
	PaidAt        *time.Time          `json:"paidAt,omitempty" bson:"paidAt,omitempty"`
}

// TransitionRequest is the staff request to move a commission to a new status.
type TransitionRequest struct {
	Status string `json:"status" validate:"required"`
}

// PaymentRequest is the staff request to start payment on an invoiced
// commission. PriorityLawyerID optionally singles out one lawyer for a
// priority notification.
type PaymentRequest struct {
	PriorityLawyerID string `json:"priorityLawyerId,omitempty"`
	Note             string `json:"note,omitempty"`
}
