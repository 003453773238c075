package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/VersoHoldings/verso_backend/config"
	"github.com/VersoHoldings/verso_backend/models"
	"github.com/VersoHoldings/verso_backend/repositories"
	"github.com/VersoHoldings/verso_backend/workflow"
)

const eligibilityCacheTTL = 60 * time.Second

// EligibilityController evaluates whether an entity can be committed to deals
type EligibilityController struct {
	DB    *mongo.Client
	store *repositories.WorkflowStore
}

// NewEligibilityController creates a new eligibility controller
func NewEligibilityController(db *mongo.Client) *EligibilityController {
	return &EligibilityController{
		DB:    db,
		store: repositories.NewWorkflowStore(db),
	}
}

// GetEligibility evaluates the entity's investment eligibility. Results are
// cached in Redis for a short window; pass ?refresh=true to bypass the cache.
func (ec *EligibilityController) GetEligibility(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	entityID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid entity ID",
		})
	}

	cacheKey := "eligibility:" + entityID.Hex()
	rdb := config.GetRedisClient()

	if rdb != nil && c.QueryParam("refresh") != "true" {
		if cached, err := rdb.Get(ctx, cacheKey).Result(); err == nil {
			var result models.EligibilityResult
			if err := json.Unmarshal([]byte(cached), &result); err == nil {
				return c.JSON(http.StatusOK, models.Response{
					Status:  http.StatusOK,
					Message: "Eligibility retrieved from cache",
					Data:    result,
				})
			}
		}
	}

	result, err := workflow.EvaluateEntityEligibility(ctx, ec.store, entityID)
	if err != nil {
		status := httpStatusForKind(workflow.KindOf(err))
		return c.JSON(status, models.Response{
			Status:  status,
			Message: err.Error(),
		})
	}

	if rdb != nil {
		if payload, err := json.Marshal(result); err == nil {
			// Cache write failures are ignored; the evaluation already succeeded
			rdb.Set(ctx, cacheKey, payload, eligibilityCacheTTL)
		}
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Eligibility evaluated successfully",
		Data:    result,
	})
}
