package routes

import (
	"github.com/jimbobirecode/teemail-backend/handlers"
	"github.com/jimbobirecode/teemail-backend/middleware"
	"github.com/gofiber/fiber/v2"
)

func PaymentRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	// Staff request payment links from the dashboard.
	payments := api.Group("/bookings/:bookingId/payments", middleware.Protected())
	payments.Post("/request", handlers.CreatePaymentRequest)

	// Status updates arrive from the provider webhook relay and the
	// email bot, both of which hold the API key.
	api.Post("/payments/status", middleware.APIKeyRequired(), handlers.ApplyPaymentStatus)
}
