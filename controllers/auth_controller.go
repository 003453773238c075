package controllers

import (
	"context"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/VersoHoldings/verso_backend/config"
	"github.com/VersoHoldings/verso_backend/middleware"
	"github.com/VersoHoldings/verso_backend/models"
	"github.com/VersoHoldings/verso_backend/utils"
)

type loginAttempt struct {
	count       int
	lastAttempt time.Time
}

// AuthController handles staff and portal authentication
type AuthController struct {
	DB              *mongo.Client
	loginAttempts   map[string]*loginAttempt
	loginAttemptsMu sync.RWMutex
}

// NewAuthController creates a new auth controller
func NewAuthController(db *mongo.Client) *AuthController {
	return &AuthController{
		DB:            db,
		loginAttempts: make(map[string]*loginAttempt),
	}
}

// Login authenticates a user by email and password and issues JWT tokens
func (ac *AuthController) Login(c echo.Context) error {
	// Create a context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	collection := config.GetCollection(ac.DB, "users")

	var loginReq models.LoginRequest
	if err := c.Bind(&loginReq); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&loginReq); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Email and password are required",
		})
	}

	loginReq.Email = strings.ToLower(strings.TrimSpace(loginReq.Email))

	ac.loginAttemptsMu.RLock()
	attempts, exists := ac.loginAttempts[loginReq.Email]
	ac.loginAttemptsMu.RUnlock()

	if exists && attempts.count >= 5 && time.Since(attempts.lastAttempt) < 30*time.Minute {
		return c.JSON(http.StatusTooManyRequests, models.Response{
			Status:  http.StatusTooManyRequests,
			Message: "Too many failed login attempts. Please try again later.",
		})
	}

	var user models.User
	err := collection.FindOne(ctx, bson.M{"email": loginReq.Email}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			ac.recordFailedAttempt(loginReq.Email)
			return c.JSON(http.StatusUnauthorized, models.Response{
				Status:  http.StatusUnauthorized,
				Message: "Invalid email or password",
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to look up user",
		})
	}

	if !user.IsActive {
		return c.JSON(http.StatusForbidden, models.Response{
			Status:  http.StatusForbidden,
			Message: "Account is deactivated",
		})
	}

	if err := utils.CheckPassword(user.Password, loginReq.Password); err != nil {
		ac.recordFailedAttempt(loginReq.Email)
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid email or password",
		})
	}

	// Successful login resets the failure counter
	ac.loginAttemptsMu.Lock()
	delete(ac.loginAttempts, loginReq.Email)
	ac.loginAttemptsMu.Unlock()

	token, refreshToken, err := middleware.GenerateJWT(user.ID.Hex(), user.Email, user.UserType, user.Role)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to generate token",
		})
	}

	// Update lastActive; a failure here should not block the login
	_, err = collection.UpdateOne(ctx,
		bson.M{"_id": user.ID},
		bson.M{"$set": bson.M{"lastActive": time.Now()}},
	)
	if err != nil {
		log.Printf("Failed to update lastActive for %s: %v", user.Email, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Login successful",
		Data: map[string]interface{}{
			"token":        token,
			"refreshToken": refreshToken,
			"user": map[string]interface{}{
				"id":       user.ID.Hex(),
				"email":    user.Email,
				"fullName": user.FullName,
				"userType": user.UserType,
				"role":     user.Role,
				"entityId": user.EntityID,
			},
		},
	})
}

func (ac *AuthController) recordFailedAttempt(identifier string) {
	ac.loginAttemptsMu.Lock()
	defer ac.loginAttemptsMu.Unlock()

	attempt, exists := ac.loginAttempts[identifier]
	if !exists {
		attempt = &loginAttempt{}
		ac.loginAttempts[identifier] = attempt
	}
	if time.Since(attempt.lastAttempt) > 30*time.Minute {
		attempt.count = 0
	}
	attempt.count++
	attempt.lastAttempt = time.Now()
}
