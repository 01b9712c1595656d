package middleware

import (
	"strings"

	config "github.com/jimbobirecode/teemail-backend/configs"
	"github.com/gofiber/fiber/v2"
)

// APIKeyRequired guards the email-bot routes. The key is accepted either
// as X-API-Key or as a Bearer token.
func APIKeyRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		expected := config.Config("WAITLIST_API_KEY")

		key := c.Get("X-API-Key")
		if key == "" {
			key = strings.TrimPrefix(c.Get("Authorization"), "Bearer ")
		}

		if expected == "" || key != expected {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid or missing API key"})
		}
		return c.Next()
	}
}
