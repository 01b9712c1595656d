package main

import (
	"log"
	"time"

	config "github.com/jimbobirecode/teemail-backend/configs"
	"github.com/jimbobirecode/teemail-backend/database"
	"github.com/jimbobirecode/teemail-backend/handlers"
	"github.com/jimbobirecode/teemail-backend/jobs"
	"github.com/jimbobirecode/teemail-backend/notifications"
	"github.com/jimbobirecode/teemail-backend/payments"
	"github.com/jimbobirecode/teemail-backend/routes"
	"github.com/jimbobirecode/teemail-backend/services"
	"github.com/jimbobirecode/teemail-backend/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/robfig/cron/v3"
)

func main() {
	database.ConnectDB()
	database.Migrate()
	database.SeedStaff()
	notifications.InitEmailService()

	handlers.Tracker = services.NewPaymentTracker(
		config.LoadPaymentConfig(),
		payments.NewLinkClient(),
		notifications.EmailClient,
	)

	c := cron.New()
	c.AddFunc("0 * * * *", jobs.ExpireStalePaymentLinks)
	c.AddFunc("30 2 * * *", jobs.DeclineExpiredWaitlistEntries)
	go c.Start()
	log.Println("✅ Cron jobs for payment links and waitlist cleanup scheduled successfully.")

	app := fiber.New(fiber.Config{
		Prefork:           false,
		AppName:           "TeeMail Backend",
		CaseSensitive:     true,
		StrictRouting:     true,
		EnablePrintRoutes: true,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}

			log.Printf("[ERROR] %v | Path: %s | Method: %s", err, c.Path(), c.Method())
			return c.Status(code).JSON(fiber.Map{
				"status":  "error",
				"code":    code,
				"message": err.Error(),
			})
		},
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins:  "*",
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization, X-API-Key, Sec-WebSocket-Key, Sec-WebSocket-Version",
		AllowMethods:  "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		ExposeHeaders: "Content-Length, Content-Disposition",
		MaxAge:        86400,
	}))

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "success",
			"message": "Welcome to TeeMail API",
		})
	})

	routes.AuthRoutes(app)
	routes.WaitlistRoutes(app)
	routes.BookingRoutes(app)
	routes.PaymentRoutes(app)
	routes.EmailRoutes(app)

	go websocket.RunHub()

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ok",
		})
	})

	log.Println("✅ Server is running on port 8080")
	err := app.Listen(":8080")
	if err != nil {
		log.Fatalf("🔥 Server failed to start: %v", err)
	}
}
