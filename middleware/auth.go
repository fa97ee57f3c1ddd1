// middleware/player_context.go
package middleware

import (
	"log"

	"github.com/gofiber/fiber/v2"
)

// PlayerContextMiddleware extracts the player identity set by the Gateway.
// Every engine operation takes an explicit player id; this is the only place
// it is read from transport, never from ambient state.
func PlayerContextMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		playerID := c.Get("X-User-ID")
		if playerID == "" {
			log.Printf("❌ [PLAYER_CTX] X-User-ID missing on secured route: %s", c.Path())
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "missing X-User-ID — request must come through gateway with auth context",
			})
		}

		c.Locals("player_id", playerID)
		return c.Next()
	}
}
