package handlers

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/kamaucodes/skillsphere/ws"
)

// WebsocketUpgrade gates the event feed behind a websocket handshake.
func WebsocketUpgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		token := c.Locals("user").(*jwt.Token)
		claims := token.Claims.(jwt.MapClaims)
		c.Locals("user_id", claims["user_id"].(string))
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// ServeEvents subscribes a collaborator to the outbound event feed.
var ServeEvents = websocket.New(func(conn *websocket.Conn) {
	userID, err := uuid.Parse(conn.Locals("user_id").(string))
	if err != nil {
		conn.Close()
		return
	}

	client := &ws.Client{UserID: userID, Conn: conn}
	ws.Register <- client
	defer func() {
		ws.Unregister <- client
		conn.Close()
	}()

	// Subscribers only listen; reads just detect disconnects.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
})
