package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/VersoHoldings/verso_backend/config"
	"github.com/VersoHoldings/verso_backend/models"
	"github.com/VersoHoldings/verso_backend/repositories"
	"github.com/VersoHoldings/verso_backend/utils"
	"github.com/VersoHoldings/verso_backend/workflow"
)

// CommissionController handles commission lifecycle operations
type CommissionController struct {
	DB       *mongo.Client
	store    *repositories.WorkflowStore
	notifier *utils.NotificationService
	audit    *utils.AuditLogger
}

// NewCommissionController creates a new commission controller
func NewCommissionController(db *mongo.Client, notifier *utils.NotificationService) *CommissionController {
	return &CommissionController{
		DB:       db,
		store:    repositories.NewWorkflowStore(db),
		notifier: notifier,
		audit:    utils.NewAuditLogger(db),
	}
}

// Transition moves a commission to the status named in the body. Requesting
// the current status is a no-op success; an unreachable status gets 409.
func (cc *CommissionController) Transition(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid commission ID",
		})
	}

	var req models.TransitionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "status is required",
		})
	}

	commission, err := workflow.TransitionCommission(ctx, cc.store, id, models.CommissionStatus(req.Status))
	if err != nil {
		status := httpStatusForKind(workflow.KindOf(err))
		return c.JSON(status, models.Response{
			Status:  status,
			Message: err.Error(),
		})
	}

	if actorID, err := utils.GetUserIDFromToken(c); err == nil {
		utils.RecordAction(cc.DB, actorID, "commission.transition", "commission", commission.ID, map[string]interface{}{
			"status": commission.Status,
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Commission status updated",
		Data:    commission,
	})
}

// RequestPayment marks an invoiced commission paid and notifies the deal's
// lawyers and CEO-role staff. Notification failures are reported in the
// response but never undo the payment.
func (cc *CommissionController) RequestPayment(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid commission ID",
		})
	}

	var req models.PaymentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	var priorityLawyerID *primitive.ObjectID
	if req.PriorityLawyerID != "" {
		lawyerID, err := primitive.ObjectIDFromHex(req.PriorityLawyerID)
		if err != nil {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Invalid priority lawyer ID",
			})
		}
		priorityLawyerID = &lawyerID
	}

	actorID, err := utils.GetUserIDFromToken(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Authentication failed",
		})
	}

	result, err := workflow.RequestCommissionPayment(ctx, cc.store, cc.notifier, cc.audit, workflow.PaymentInput{
		CommissionID:     id,
		ActorID:          actorID,
		PriorityLawyerID: priorityLawyerID,
		Note:             req.Note,
	})
	if err != nil {
		status := httpStatusForKind(workflow.KindOf(err))
		return c.JSON(status, models.Response{
			Status:  status,
			Message: err.Error(),
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Payment requested",
		Data:    result,
	})
}

// GetCommission returns one commission by ID
func (cc *CommissionController) GetCommission(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid commission ID",
		})
	}

	collection := config.GetCollection(cc.DB, "commissions")
	var commission models.Commission
	if err := collection.FindOne(ctx, bson.M{"_id": id}).Decode(&commission); err != nil {
		if err == mongo.ErrNoDocuments {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Commission not found",
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to retrieve commission",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Commission retrieved successfully",
		Data:    commission,
	})
}

// ListCommissions returns commissions, optionally filtered by status, deal
// or beneficiary entity via query parameters
func (cc *CommissionController) ListCommissions(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	filter := bson.M{}
	if status := c.QueryParam("status"); status != "" {
		if !models.CommissionStatus(status).IsValid() {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Unknown commission status",
			})
		}
		filter["status"] = status
	}
	if dealID := c.QueryParam("dealId"); dealID != "" {
		id, err := primitive.ObjectIDFromHex(dealID)
		if err != nil {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Invalid deal ID",
			})
		}
		filter["dealId"] = id
	}
	if entityID := c.QueryParam("entityId"); entityID != "" {
		id, err := primitive.ObjectIDFromHex(entityID)
		if err != nil {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Invalid entity ID",
			})
		}
		filter["entityId"] = id
	}

	collection := config.GetCollection(cc.DB, "commissions")
	cursor, err := collection.Find(ctx, filter, options.Find().SetSort(bson.M{"createdAt": -1}))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to retrieve commissions",
		})
	}
	defer cursor.Close(ctx)

	commissions := []models.Commission{}
	if err := cursor.All(ctx, &commissions); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to decode commissions",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Commissions retrieved successfully",
		Data:    commissions,
	})
}
