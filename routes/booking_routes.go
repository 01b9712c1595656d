package routes

import (
	"github.com/jimbobirecode/teemail-backend/handlers"
	"github.com/jimbobirecode/teemail-backend/middleware"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

func BookingRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	booking := api.Group("/bookings", middleware.Protected())
	booking.Get("", handlers.ListBookings)
	booking.Get("/export", handlers.ExportBookingsCSV)
	booking.Post("/fix-tee-times", handlers.FixTeeTimes)
	booking.Get("/:bookingId", handlers.GetBooking)
	booking.Put("/:bookingId/status", handlers.UpdateBookingStatus)
	booking.Put("/:bookingId/note", handlers.UpdateBookingNote)
	booking.Put("/:bookingId/tee-time", handlers.UpdateBookingTeeTime)
	booking.Delete("/:bookingId", handlers.DeleteBooking)
	booking.Get("/:bookingId/emails", handlers.GetBookingEmails)

	convert := api.Group("/waitlist-conversions", middleware.Protected())
	convert.Post("/:waitlistId", handlers.ConvertWaitlistEntry)

	api.Use("/ws", func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}
		return c.Next()
	})
	api.Get("/ws", websocket.New(handlers.ServeWs))
}
