package routes

import (
	"github.com/jimbobirecode/teemail-backend/handlers"
	"github.com/gofiber/fiber/v2"
)

func AuthRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	auth := api.Group("/auth")
	auth.Post("/login", handlers.LoginStaff)
	auth.Post("/set-password", handlers.SetPassword)
}
