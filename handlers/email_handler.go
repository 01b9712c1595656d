package handlers

import (
	"errors"
	"time"

	"github.com/jimbobirecode/teemail-backend/middleware"
	"github.com/jimbobirecode/teemail-backend/services"
	"github.com/jimbobirecode/teemail-backend/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IngestEmailRequest struct {
	MessageID  string  `json:"message_id"`
	FromEmail  string  `json:"from_email" validate:"required,email"`
	ToEmail    string  `json:"to_email"`
	Subject    string  `json:"subject"`
	BodyText   string  `json:"body_text"`
	EmailType  string  `json:"email_type"`
	BookingRef *string `json:"booking_id"`
	ReceivedAt *string `json:"received_at"`
}

// IngestInboundEmail stores mail forwarded by the email bot. The bot
// may retry deliveries, so a known message id returns 200 instead of 409.
func IngestInboundEmail(c *fiber.Ctx) error {
	var req IngestEmailRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	input := services.IngestEmailInput{
		MessageID:  req.MessageID,
		FromEmail:  req.FromEmail,
		ToEmail:    req.ToEmail,
		Subject:    req.Subject,
		BodyText:   req.BodyText,
		EmailType:  req.EmailType,
		BookingRef: req.BookingRef,
	}
	if input.MessageID == "" {
		input.MessageID = uuid.NewString()
	}
	if req.ReceivedAt != nil {
		receivedAt, err := time.Parse(time.RFC3339, *req.ReceivedAt)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid received_at, expected RFC3339"})
		}
		input.ReceivedAt = &receivedAt
	}

	email, created, err := services.IngestInboundEmail(input)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}

	status := fiber.StatusOK
	if created {
		status = fiber.StatusCreated
		if email.BookingRef != nil {
			if booking, err := services.GetBooking(*email.BookingRef); err == nil {
				websocket.Notify(booking.Club, "email_received", fiber.Map{
					"booking_id": booking.BookingID,
					"from_email": email.FromEmail,
					"subject":    email.Subject,
				})
			}
		}
	}

	return c.Status(status).JSON(fiber.Map{
		"success":    true,
		"message_id": email.MessageID,
		"created":    created,
	})
}

// GetBookingEmails returns the email thread shown on the dashboard
// booking detail page.
func GetBookingEmails(c *fiber.Ctx) error {
	booking, err := services.GetBooking(c.Params("bookingId"))
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Booking not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}
	if booking.Club != middleware.StaffClub(c) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "This booking belongs to another club"})
	}

	emails, err := services.BookingEmails(booking.BookingID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}

	return c.JSON(fiber.Map{
		"booking_id": booking.BookingID,
		"count":      len(emails),
		"emails":     emails,
	})
}
