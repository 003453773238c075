package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/VersoHoldings/verso_backend/models"
	"github.com/VersoHoldings/verso_backend/repositories"
	"github.com/VersoHoldings/verso_backend/utils"
	"github.com/VersoHoldings/verso_backend/workflow"
)

// DispatchController handles linking deal memberships to referring entities
type DispatchController struct {
	DB    *mongo.Client
	store *repositories.WorkflowStore
}

// NewDispatchController creates a new dispatch controller
func NewDispatchController(db *mongo.Client) *DispatchController {
	return &DispatchController{
		DB:    db,
		store: repositories.NewWorkflowStore(db),
	}
}

// DispatchMembership links the membership identified by the deal and user in
// the path to the referring entity and fee plan in the body. The first
// dispatch wins; a second attempt gets 409.
func (dc *DispatchController) DispatchMembership(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dealID, err := primitive.ObjectIDFromHex(c.Param("dealId"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid deal ID",
		})
	}
	userID, err := primitive.ObjectIDFromHex(c.Param("userId"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid user ID",
		})
	}

	var req models.DispatchRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "entityId, entityType and feePlanId are required",
		})
	}

	entityID, err := primitive.ObjectIDFromHex(req.EntityID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid entity ID",
		})
	}
	feePlanID, err := primitive.ObjectIDFromHex(req.FeePlanID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid fee plan ID",
		})
	}

	result, err := workflow.DispatchMembership(ctx, dc.store, workflow.DispatchInput{
		DealID:     dealID,
		UserID:     userID,
		EntityID:   entityID,
		EntityType: models.EntityType(req.EntityType),
		FeePlanID:  feePlanID,
		Role:       models.MembershipRole(req.Role),
	})
	if err != nil {
		status := httpStatusForKind(workflow.KindOf(err))
		return c.JSON(status, models.Response{
			Status:  status,
			Message: err.Error(),
		})
	}

	if actorID, err := utils.GetUserIDFromToken(c); err == nil {
		utils.RecordAction(dc.DB, actorID, "membership.dispatch", "deal_membership", result.MembershipID, map[string]interface{}{
			"dealId":    dealID.Hex(),
			"userId":    userID.Hex(),
			"entityId":  entityID.Hex(),
			"feePlanId": feePlanID.Hex(),
			"role":      result.Role,
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Membership dispatched successfully",
		Data:    result,
	})
}
