package websocket

import (
	"net/http"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// TokenValidator resolves an auth token sent over the socket to a user ID.
// The HTTP layer plugs in JWT validation here so this package stays free of
// auth dependencies.
type TokenValidator func(token string) (primitive.ObjectID, error)

// HandleWebSocket upgrades the connection and registers the client with the
// hub. Clients connecting without a user ID must authenticate with an
// "AUTH:<token>" text message before they receive notifications.
func HandleWebSocket(c echo.Context, hub *Hub, userID primitive.ObjectID, validate TokenValidator) error {
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}

	client := &Client{
		UserID:        userID,
		Conn:          conn,
		Authenticated: userID != primitive.NilObjectID,
	}

	hub.register <- client

	// Send a welcome message
	if client.Authenticated {
		conn.WriteJSON(Notification{
			Type:    "connected",
			Message: "WebSocket connection established",
			UserID:  userID.Hex(),
		})
	} else {
		conn.WriteJSON(Notification{
			Type:         "connected",
			Message:      "WebSocket connection established. Please authenticate to receive notifications.",
			RequiresAuth: true,
		})
	}

	// Handle messages and disconnection
	go func() {
		defer func() {
			hub.unregister <- client
		}()

		for {
			messageType, message, err := conn.ReadMessage()
			if err != nil {
				break
			}

			if messageType != websocket.TextMessage {
				continue
			}

			messageStr := string(message)
			if !strings.HasPrefix(messageStr, "AUTH:") {
				continue
			}

			if validate == nil {
				conn.WriteJSON(Notification{
					Type:         "auth_response",
					Message:      "Authentication is not enabled on this stream.",
					RequiresAuth: true,
				})
				continue
			}

			authedID, err := validate(strings.TrimPrefix(messageStr, "AUTH:"))
			if err != nil {
				conn.WriteJSON(Notification{
					Type:         "auth_response",
					Message:      "Authentication failed.",
					RequiresAuth: true,
				})
				continue
			}

			hub.AuthenticateClient(client, authedID)
			conn.WriteJSON(Notification{
				Type:    "auth_response",
				Message: "Authenticated.",
				UserID:  authedID.Hex(),
			})
		}
	}()

	return nil
}
