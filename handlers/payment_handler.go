package handlers

import (
	"errors"
	"log"

	"github.com/jimbobirecode/teemail-backend/middleware"
	"github.com/jimbobirecode/teemail-backend/models"
	"github.com/jimbobirecode/teemail-backend/services"
	"github.com/jimbobirecode/teemail-backend/websocket"
	"github.com/gofiber/fiber/v2"
)

// Tracker is wired in main with the process payment config and the live
// link-issuer and email collaborators; tests install their own.
var Tracker *services.PaymentTracker

type CreatePaymentRequestBody struct {
	PaymentType string `json:"payment_type" validate:"required,oneof=deposit full"`
	Notes       string `json:"notes"`
}

// CreatePaymentRequest issues a payment link for a booking and records
// the pending payment.
func CreatePaymentRequest(c *fiber.Ctx) error {
	bookingID := c.Params("bookingId")

	var req CreatePaymentRequestBody
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	record, err := Tracker.CreatePaymentRequest(
		bookingID,
		models.PaymentType(req.PaymentType),
		middleware.StaffUsername(c),
		req.Notes,
	)
	if err != nil && !errors.Is(err, services.ErrNotificationFailed) {
		switch {
		case errors.Is(err, services.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Booking not found"})
		case errors.Is(err, services.ErrInvalidAmount):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Computed payment amount must be positive"})
		case errors.Is(err, services.ErrPaymentLinkCreation):
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "Payment link could not be created"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create payment request"})
		}
	}

	// The record survives a failed email send; the caller just learns
	// the link was not delivered.
	emailSent := true
	if err != nil {
		log.Printf("🔥 Payment link email failed for %s: %v", record.PaymentID, err)
		emailSent = false
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"payment_id":       record.PaymentID,
		"payment_link_url": record.PaymentLinkURL,
		"amount":           record.Amount,
		"currency":         record.Currency,
		"status":           record.Status,
		"email_sent":       emailSent,
	})
}

type PaymentStatusUpdateBody struct {
	CorrelationID string   `json:"correlation_id" validate:"required"`
	Status        string   `json:"status" validate:"required,oneof=paid failed expired refunded"`
	PaidAmount    *float64 `json:"paid_amount"`
}

// ApplyPaymentStatus records a processor result reported for a payment
// link and refreshes the booking rollup.
func ApplyPaymentStatus(c *fiber.Ctx) error {
	var req PaymentStatusUpdateBody
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	record, err := Tracker.ApplyStatusUpdate(req.CorrelationID, models.PaymentRecordStatus(req.Status), req.PaidAmount)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Payment record not found"})
		case errors.Is(err, services.ErrInvalidTransition):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid status transition"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to apply status update"})
		}
	}

	if record.Status == models.PaymentRecordPaid {
		if booking, err := services.GetBookingByPK(record.BookingID); err == nil {
			websocket.Notify(booking.Club, "payment_received", fiber.Map{
				"payment_id":     record.PaymentID,
				"booking_id":     booking.BookingID,
				"amount":         record.Amount,
				"payment_status": booking.PaymentStatus,
			})
		}
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"payment_id": record.PaymentID,
		"status":     record.Status,
	})
}
