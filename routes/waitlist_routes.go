package routes

import (
	"github.com/jimbobirecode/teemail-backend/handlers"
	"github.com/jimbobirecode/teemail-backend/middleware"
	"github.com/gofiber/fiber/v2"
)

// WaitlistRoutes are called by the email bot, not the dashboard, so
// they authenticate with the shared API key instead of a staff JWT.
func WaitlistRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	waitlist := api.Group("/waitlist", middleware.APIKeyRequired())
	waitlist.Post("/add", handlers.AddToWaitlist)
	waitlist.Get("/check", handlers.CheckWaitlist)
	waitlist.Put("/update/:waitlistId", handlers.UpdateWaitlistEntry)
	waitlist.Delete("/remove/:waitlistId", handlers.RemoveFromWaitlist)
	waitlist.Get("/matches", handlers.GetWaitlistMatches)
}
