package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Deal represents an investment opportunity offered to investors.
type Deal struct {
	ID          primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Name        string             `json:"name" bson:"name"`
	VehicleName string             `json:"vehicleName,omitempty" bson:"vehicleName,omitempty"`
	TermSheetID primitive.ObjectID `json:"termSheetId" bson:"termSheetId"`
	Status      string             `json:"status" bson:"status"` // "draft", "open", "closed"
	Currency    string             `json:"currency" bson:"currency"`
	CreatedAt   time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// DealLawyer assigns a lawyer to a deal. Payment requests on a deal's
// commissions require at least one assignment.
type DealLawyer struct {
	ID         primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	DealID     primitive.ObjectID `json:"dealId" bson:"dealId"`
	UserID     primitive.ObjectID `json:"userId" bson:"userId"`
	Role       string             `json:"role,omitempty" bson:"role,omitempty"`
	AssignedAt time.Time          `json:"assignedAt" bson:"assignedAt"`
}
