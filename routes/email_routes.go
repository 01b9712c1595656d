package routes

import (
	"github.com/jimbobirecode/teemail-backend/handlers"
	"github.com/jimbobirecode/teemail-backend/middleware"
	"github.com/gofiber/fiber/v2"
)

func EmailRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	api.Post("/emails/inbound", middleware.APIKeyRequired(), handlers.IngestInboundEmail)
}
