package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents a staff or portal account. UserType scopes what the
// account can do; staff accounts additionally carry a Role (e.g. "ceo",
// "operations") used for notification fan-out and authorization.
type User struct {
	ID         primitive.ObjectID  `json:"id,omitempty" bson:"_id,omitempty"`
	Email      string              `json:"email" bson:"email"`
	Password   string              `json:"-" bson:"password"`
	FullName   string              `json:"fullName" bson:"fullName"`
	UserType   string              `json:"userType" bson:"userType"` // "staff", "investor", "introducer", "partner", "commercial_partner", "lawyer", "arranger"
	Role       string              `json:"role,omitempty" bson:"role,omitempty"`
	EntityID   *primitive.ObjectID `json:"entityId,omitempty" bson:"entityId,omitempty"`
	IsActive   bool                `json:"isActive" bson:"isActive"`
	LastActive time.Time           `json:"lastActive,omitempty" bson:"lastActive,omitempty"`
	CreatedAt  time.Time           `json:"createdAt" bson:"createdAt"`
	UpdatedAt  time.Time           `json:"updatedAt" bson:"updatedAt"`
}

const (
	UserTypeStaff  = "staff"
	UserTypeLawyer = "lawyer"

	StaffRoleCEO = "ceo"
)

// LoginRequest model
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Response model
type Response struct {
	Status  int         `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}
