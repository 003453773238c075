package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/VersoHoldings/verso_backend/controllers"
	"github.com/VersoHoldings/verso_backend/middleware"
	"github.com/VersoHoldings/verso_backend/models"
	"github.com/VersoHoldings/verso_backend/utils"
	"github.com/VersoHoldings/verso_backend/websocket"
)

// SetupRoutes configures all API routes
func SetupRoutes(e *echo.Echo, db *mongo.Client, hub *websocket.Hub) {
	notifier := utils.NewNotificationService(db, hub)

	authController := controllers.NewAuthController(db)
	dispatchController := controllers.NewDispatchController(db)
	commissionController := controllers.NewCommissionController(db, notifier)
	eligibilityController := controllers.NewEligibilityController(db)
	kycController := controllers.NewKycController(db, notifier)
	referralController := controllers.NewReferralController(db)
	notificationController := controllers.NewNotificationController(db)

	// Public routes
	e.POST("/api/auth/login", authController.Login)

	// Authenticated routes
	api := e.Group("/api", middleware.JWTMiddleware(), middleware.ActivityTracker(db))

	// Membership dispatch and commissions are staff-only operations
	staff := middleware.RequireStaffRole()
	api.POST("/deals/:dealId/memberships/:userId/dispatch", dispatchController.DispatchMembership, staff)
	api.POST("/commissions/:id/transition", commissionController.Transition, staff)
	api.POST("/commissions/:id/request-payment", commissionController.RequestPayment, staff)
	api.GET("/commissions", commissionController.ListCommissions, staff)
	api.GET("/commissions/:id", commissionController.GetCommission, staff)
	api.POST("/kyc-submissions/:id/review", kycController.ReviewSubmission, staff)

	api.GET("/entities/:id/eligibility", eligibilityController.GetEligibility)
	api.GET("/entities/:id/referral-link", referralController.GetReferralLink,
		middleware.RequireUserType("staff", "introducer", "partner", "commercial_partner"))

	api.GET("/notifications", notificationController.ListNotifications)
	api.PUT("/notifications/:id/read", notificationController.MarkAsRead)
	api.PUT("/notifications/read-all", notificationController.MarkAllAsRead)

	// WebSocket notification stream. Clients may connect with a token query
	// parameter or authenticate over the socket with an AUTH message.
	e.GET("/ws", func(c echo.Context) error {
		userID := primitive.NilObjectID
		if token := c.QueryParam("token"); token != "" {
			id, err := validateStreamToken(token)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, models.Response{
					Status:  http.StatusUnauthorized,
					Message: "Invalid token",
				})
			}
			userID = id
		}
		return websocket.HandleWebSocket(c, hub, userID, validateStreamToken)
	})
}

func validateStreamToken(token string) (primitive.ObjectID, error) {
	claims, err := middleware.ValidateToken(token)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return primitive.ObjectIDFromHex(claims.UserID)
}
