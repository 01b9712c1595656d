package handlers

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jimbobirecode/teemail-backend/middleware"
	"github.com/jimbobirecode/teemail-backend/models"
	"github.com/jimbobirecode/teemail-backend/services"
	"github.com/jimbobirecode/teemail-backend/websocket"
	"github.com/gofiber/fiber/v2"
)

func parseBookingFilter(c *fiber.Ctx) (services.BookingFilter, error) {
	filter := services.BookingFilter{Club: middleware.StaffClub(c)}

	if raw := c.Query("status"); raw != "" {
		for _, s := range strings.Split(raw, ",") {
			status := models.BookingStatus(strings.TrimSpace(s))
			if !status.IsValid() {
				return filter, fmt.Errorf("unknown status %q", s)
			}
			filter.Statuses = append(filter.Statuses, status)
		}
	}
	if raw := c.Query("from"); raw != "" {
		from, err := time.Parse(dateLayout, raw)
		if err != nil {
			return filter, errors.New("invalid from date, expected YYYY-MM-DD")
		}
		filter.DateFrom = &from
	}
	if raw := c.Query("to"); raw != "" {
		to, err := time.Parse(dateLayout, raw)
		if err != nil {
			return filter, errors.New("invalid to date, expected YYYY-MM-DD")
		}
		filter.DateTo = &to
	}
	return filter, nil
}

// ListBookings returns the club's bookings, optionally filtered by
// status list and date range.
func ListBookings(c *fiber.Ctx) error {
	filter, err := parseBookingFilter(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	bookings, err := services.ListBookings(filter)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}
	return c.JSON(bookings)
}

func GetBooking(c *fiber.Ctx) error {
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
	return c.JSON(booking)
}

type UpdateBookingStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

func UpdateBookingStatus(c *fiber.Ctx) error {
	var req UpdateBookingStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	booking, err := services.UpdateBookingStatus(
		c.Params("bookingId"),
		models.BookingStatus(req.Status),
		middleware.StaffUsername(c),
	)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Booking not found"})
		}
		if errors.Is(err, services.ErrInvalidTransition) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid status transition"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}

	websocket.Notify(booking.Club, "booking_status_changed", fiber.Map{
		"booking_id": booking.BookingID,
		"status":     booking.Status,
	})

	return c.JSON(booking)
}

type UpdateBookingNoteRequest struct {
	Note string `json:"note"`
}

func UpdateBookingNote(c *fiber.Ctx) error {
	var req UpdateBookingNoteRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}

	booking, err := services.UpdateBookingNote(c.Params("bookingId"), req.Note)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Booking not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}
	return c.JSON(booking)
}

type UpdateTeeTimeRequest struct {
	TeeTime string `json:"tee_time" validate:"required"`
}

func UpdateBookingTeeTime(c *fiber.Ctx) error {
	var req UpdateTeeTimeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	booking, err := services.UpdateBookingTeeTime(c.Params("bookingId"), req.TeeTime)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Booking not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}
	return c.JSON(booking)
}

func DeleteBooking(c *fiber.Ctx) error {
	if err := services.DeleteBooking(c.Params("bookingId")); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Booking not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}
	return c.JSON(fiber.Map{"success": true, "message": "Booking deleted"})
}

// FixTeeTimes extracts tee times from note content for every booking of
// the club that has none set.
func FixTeeTimes(c *fiber.Ctx) error {
	updated, notFound, err := services.FixMissingTeeTimes(middleware.StaffClub(c))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}
	return c.JSON(fiber.Map{"updated": updated, "not_found": notFound})
}

type ConvertWaitlistRequest struct {
	Total          float64 `json:"total" validate:"required,gt=0"`
	IsTourOperator bool    `json:"is_tour_operator"`
}

// ConvertWaitlistEntry turns a waitlist entry into a booking.
func ConvertWaitlistEntry(c *fiber.Ctx) error {
	var req ConvertWaitlistRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	booking, err := services.ConvertWaitlistEntry(
		c.Params("waitlistId"),
		req.Total,
		req.IsTourOperator,
		middleware.StaffUsername(c),
	)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Waitlist entry not found"})
		}
		if errors.Is(err, services.ErrInvalidTransition) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Entry can no longer be converted"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}

	return c.Status(fiber.StatusCreated).JSON(booking)
}

// ExportBookingsCSV streams the filtered booking list as a CSV download.
func ExportBookingsCSV(c *fiber.Ctx) error {
	filter, err := parseBookingFilter(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	bookings, err := services.ListBookings(filter)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Write([]string{"booking_id", "guest_email", "date", "tee_time", "players", "total", "status", "payment_status", "total_paid"})
	for _, b := range bookings {
		w.Write([]string{
			b.BookingID,
			b.GuestEmail,
			b.Date.Format(dateLayout),
			b.TeeTime,
			fmt.Sprintf("%d", b.Players),
			fmt.Sprintf("%.2f", b.Total),
			string(b.Status),
			string(b.PaymentStatus),
			fmt.Sprintf("%.2f", b.TotalPaid),
		})
	}
	w.Flush()

	c.Set("Content-Type", "text/csv")
	c.Set("Content-Disposition", fmt.Sprintf("attachment; filename=bookings_%s.csv", time.Now().Format("20060102")))
	return c.Send(buf.Bytes())
}
