package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// KycStatus is the review status of a KYC submission.
type KycStatus string

const (
	KycPending  KycStatus = "pending"
	KycApproved KycStatus = "approved"
	KycRejected KycStatus = "rejected"
)

// KycSubmission is a member's KYC package scoped to one entity. Reviews use a
// conditional update on the expected status, so two reviewers cannot both
// process the same submission.
type KycSubmission struct {
	ID          primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	EntityID    primitive.ObjectID `json:"entityId" bson:"entityId"`
	MemberID    primitive.ObjectID `json:"memberId" bson:"memberId"`
	Status      KycStatus          `json:"status" bson:"status"`
	SubmittedAt time.Time          `json:"submittedAt" bson:"submittedAt"`
	ReviewedAt  *time.Time         `json:"reviewedAt,omitempty" bson:"reviewedAt,omitempty"`
	ReviewerID  primitive.ObjectID `json:"reviewerId,omitempty" bson:"reviewerId,omitempty"`
	ReviewNote  string             `json:"reviewNote,omitempty" bson:"reviewNote,omitempty"`
}

// KycReviewRequest is the staff request to approve or reject a submission.
// ExpectedStatus carries the status the reviewer saw; the update only applies
// if the row still holds it.
type KycReviewRequest struct {
	Status         string `json:"status" validate:"required"`
	ExpectedStatus string `json:"expectedStatus" validate:"required"`
	Note           string `json:"note,omitempty"`
}
