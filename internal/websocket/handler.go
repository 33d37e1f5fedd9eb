package websocket

import (
	"taskhub/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// RequireUpgrade rejects plain HTTP requests on the websocket endpoint.
func RequireUpgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		c.Locals("allowed", true)
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// Handler registers the authenticated connection with the hub and keeps it
// open until the client goes away. Incoming messages are ignored.
func (h *Hub) Handler() fiber.Handler {
	return websocket.New(func(c *websocket.Conn) {
		userID, _ := c.Locals(middleware.LocalUserID).(int)
		client := &Client{UserID: userID, Conn: c}

		select {
		case h.Register <- client:
		case <-h.done:
			return
		}
		defer func() {
			select {
			case h.Unregister <- client:
			case <-h.done:
			}
		}()

		for {
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	})
}
