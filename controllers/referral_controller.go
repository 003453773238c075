package controllers

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/VersoHoldings/verso_backend/config"
	"github.com/VersoHoldings/verso_backend/models"
	"github.com/VersoHoldings/verso_backend/utils"
)

// ReferralController serves referral links and QR codes for referring entities
type ReferralController struct {
	DB *mongo.Client
}

// NewReferralController creates a new referral controller
func NewReferralController(db *mongo.Client) *ReferralController {
	return &ReferralController{DB: db}
}

// GetReferralLink returns the entity's referral link and a QR code for it.
// A code is generated and persisted on first request.
func (rc *ReferralController) GetReferralLink(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	entityID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid entity ID",
		})
	}

	collection := config.GetCollection(rc.DB, "entities")
	var entity models.Entity
	if err := collection.FindOne(ctx, bson.M{"_id": entityID}).Decode(&entity); err != nil {
		if err == mongo.ErrNoDocuments {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Entity not found",
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to retrieve entity",
		})
	}

	if !entity.Type.IsReferringType() {
		return c.JSON(http.StatusUnprocessableEntity, models.Response{
			Status:  http.StatusUnprocessableEntity,
			Message: "Entity type cannot refer investors",
		})
	}

	// Generate and persist a code on first use
	if entity.ReferralCode == "" {
		code, err := referralCodeForType(entity.Type)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, models.Response{
				Status:  http.StatusInternalServerError,
				Message: "Failed to generate referral code",
			})
		}
		_, err = collection.UpdateOne(ctx,
			bson.M{"_id": entityID, "referralCode": bson.M{"$in": []interface{}{nil, ""}}},
			bson.M{"$set": bson.M{"referralCode": code, "updatedAt": time.Now()}},
		)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, models.Response{
				Status:  http.StatusInternalServerError,
				Message: "Failed to save referral code",
			})
		}
		// Re-read in case a concurrent request saved a different code
		if err := collection.FindOne(ctx, bson.M{"_id": entityID}).Decode(&entity); err != nil {
			return c.JSON(http.StatusInternalServerError, models.Response{
				Status:  http.StatusInternalServerError,
				Message: "Failed to retrieve entity",
			})
		}
	}

	baseURL := os.Getenv("PORTAL_BASE_URL")
	if baseURL == "" {
		baseURL = "https://portal.versoholdings.com"
	}
	link := baseURL + "/join?ref=" + entity.ReferralCode

	qrCode, err := utils.GenerateReferralQRCode(link)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to generate QR code",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Referral link retrieved successfully",
		Data: map[string]interface{}{
			"referralCode": entity.ReferralCode,
			"referralLink": link,
			"qrCode":       qrCode,
		},
	})
}

func referralCodeForType(entityType models.EntityType) (string, error) {
	switch entityType {
	case models.EntityTypePartner:
		return utils.GeneratePartnerReferralCode()
	case models.EntityTypeCommercialPartner:
		return utils.GenerateCommercialPartnerReferralCode()
	default:
		return utils.GenerateIntroducerReferralCode()
	}
}
