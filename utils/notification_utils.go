package utils

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"gopkg.in/gomail.v2"

	"github.com/VersoHoldings/verso_backend/config"
	"github.com/VersoHoldings/verso_backend/models"
	"github.com/VersoHoldings/verso_backend/websocket"
)

// SaveNotification saves a notification to the database
func SaveNotification(db *mongo.Client, userID primitive.ObjectID, title, message, link, notifType string, data interface{}) error {
	collection := config.GetCollection(db, "notifications")

	notification := models.Notification{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		Title:     title,
		Message:   message,
		Link:      link,
		Type:      notifType,
		Data:      data,
		IsRead:    false,
		CreatedAt: time.Now(),
	}

	_, err := collection.InsertOne(context.Background(), notification)
	return err
}

// SendEmail sends a plain-text email over SMTP. Failures are the caller's
// problem; most callers log and continue.
func SendEmail(to, subject, body string) error {
	smtpHost := os.Getenv("SMTP_HOST")
	smtpUser := os.Getenv("SMTP_USER")
	smtpPass := os.Getenv("SMTP_PASS")
	if smtpHost == "" {
		return fmt.Errorf("SMTP_HOST is not configured")
	}
	smtpPort := 2525
	if portStr := os.Getenv("SMTP_PORT"); portStr != "" {
		fmt.Sscanf(portStr, "%d", &smtpPort)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", smtpUser)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)
	d := gomail.NewDialer(smtpHost, smtpPort, smtpUser, smtpPass)
	return d.DialAndSend(m)
}

// NotificationService fans one notification out to every channel we have:
// the notifications collection, the websocket hub, and email when the user
// has an address on file. Only the database write can fail the send; the
// realtime and email channels are best-effort.
type NotificationService struct {
	DB  *mongo.Client
	Hub *websocket.Hub
}

func NewNotificationService(db *mongo.Client, hub *websocket.Hub) *NotificationService {
	return &NotificationService{DB: db, Hub: hub}
}

// Notify implements workflow.Notifier.
func (ns *NotificationService) Notify(ctx context.Context, userID primitive.ObjectID, title, message, link, notifType string) error {
	if err := SaveNotification(ns.DB, userID, title, message, link, notifType, nil); err != nil {
		return fmt.Errorf("failed to save notification: %w", err)
	}

	if ns.Hub != nil {
		if err := ns.Hub.SendToUser(userID, websocket.Notification{
			Type:    notifType,
			Message: message,
			Data:    map[string]string{"title": title, "link": link},
		}); err != nil {
			// User is simply not connected most of the time.
			log.Printf("websocket push to %s skipped: %v", userID.Hex(), err)
		}
	}

	var user models.User
	err := config.GetCollection(ns.DB, "users").FindOne(ctx, bson.M{"_id": userID}).Decode(&user)
	if err != nil {
		log.Printf("email lookup for %s failed: %v", userID.Hex(), err)
		return nil
	}
	if user.Email != "" {
		if err := SendEmail(user.Email, title, message); err != nil {
			log.Printf("Failed to send email to %s: %v", user.Email, err)
		}
	}

	return nil
}
