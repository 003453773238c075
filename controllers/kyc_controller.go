package controllers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/VersoHoldings/verso_backend/config"
	"github.com/VersoHoldings/verso_backend/models"
	"github.com/VersoHoldings/verso_backend/repositories"
	"github.com/VersoHoldings/verso_backend/utils"
	"github.com/VersoHoldings/verso_backend/workflow"
)

// KycController handles KYC submission reviews
type KycController struct {
	DB       *mongo.Client
	store    *repositories.WorkflowStore
	notifier *utils.NotificationService
}

// NewKycController creates a new KYC controller
func NewKycController(db *mongo.Client, notifier *utils.NotificationService) *KycController {
	return &KycController{
		DB:       db,
		store:    repositories.NewWorkflowStore(db),
		notifier: notifier,
	}
}

// ReviewSubmission approves or rejects a KYC submission. The request carries
// the status the reviewer saw; if another reviewer got there first the update
// matches nothing and the caller gets 409 with the current row.
func (kc *KycController) ReviewSubmission(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid submission ID",
		})
	}

	var req models.KycReviewRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "status and expectedStatus are required",
		})
	}

	next := models.KycStatus(req.Status)
	if next != models.KycApproved && next != models.KycRejected {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Review status must be approved or rejected",
		})
	}

	reviewerID, err := utils.GetUserIDFromToken(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Authentication failed",
		})
	}

	submission, err := kc.store.ReviewKycSubmission(ctx, id, models.KycStatus(req.ExpectedStatus), next, reviewerID, req.Note)
	if err != nil {
		if errors.Is(err, workflow.ErrConditionFailed) {
			// Return the current row so the reviewer can see what changed
			var current models.KycSubmission
			resp := models.Response{
				Status:  http.StatusConflict,
				Message: "Submission was reviewed by someone else",
			}
			if findErr := config.GetCollection(kc.DB, "kyc_submissions").
				FindOne(ctx, bson.M{"_id": id}).Decode(&current); findErr == nil {
				resp.Data = current
			}
			return c.JSON(http.StatusConflict, resp)
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to review submission",
		})
	}

	// Let the submitting member know the outcome; best-effort. The
	// submission references an entity_members row, so resolve the user
	// behind it before notifying.
	if kc.notifier != nil {
		memberUserID, err := workflow.MemberUserID(ctx, kc.store, submission.EntityID, submission.MemberID)
		if err != nil {
			c.Logger().Warnf("Failed to resolve member user for KYC review: %v", err)
		} else {
			title := "KYC submission " + string(next)
			message := "Your KYC submission has been " + string(next) + "."
			if req.Note != "" {
				message += " Note: " + req.Note
			}
			if err := kc.notifier.Notify(ctx, memberUserID, title, message,
				"/kyc-submissions/"+submission.ID.Hex(), "kyc_update"); err != nil {
				c.Logger().Warnf("Failed to notify member of KYC review: %v", err)
			}
		}
	}

	utils.RecordAction(kc.DB, reviewerID, "kyc.review", "kyc_submission", submission.ID, map[string]interface{}{
		"status": next,
		"note":   req.Note,
	})

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Submission reviewed",
		Data:    submission,
	})
}
