package handlers

import (
	"errors"
	"time"

	"github.com/jimbobirecode/teemail-backend/models"
	"github.com/jimbobirecode/teemail-backend/services"
	"github.com/jimbobirecode/teemail-backend/websocket"
	"github.com/gofiber/fiber/v2"
)

const dateLayout = "2006-01-02"

type AddWaitlistRequest struct {
	GuestEmail             string `json:"guest_email" validate:"required,email"`
	GuestName              string `json:"guest_name"`
	RequestedDate          string `json:"requested_date" validate:"required,datetime=2006-01-02"`
	PreferredTime          string `json:"preferred_time"`
	TimeFlexibility        string `json:"time_flexibility"`
	Players                int    `json:"players"`
	GolfCourse             string `json:"golf_course"`
	Club                   string `json:"club" validate:"required"`
	Notes                  string `json:"notes"`
	Priority               int    `json:"priority" validate:"omitempty,min=1,max=10"`
	Source                 string `json:"source"`
	OptInConfirmed         bool   `json:"opt_in_confirmed" validate:"required"`
	OriginalBookingRequest string `json:"original_booking_request"`
}

// AddToWaitlist is called by the email bot when a customer opts in.
func AddToWaitlist(c *fiber.Ctx) error {
	var req AddWaitlistRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	requestedDate, _ := time.Parse(dateLayout, req.RequestedDate)

	entry, err := services.AddWaitlistEntry(services.AddWaitlistInput{
		GuestEmail:             req.GuestEmail,
		GuestName:              req.GuestName,
		RequestedDate:          requestedDate,
		PreferredTime:          req.PreferredTime,
		TimeFlexibility:        req.TimeFlexibility,
		Players:                req.Players,
		GolfCourse:             req.GolfCourse,
		Club:                   req.Club,
		Notes:                  req.Notes,
		Priority:               req.Priority,
		Source:                 req.Source,
		OptInConfirmed:         req.OptInConfirmed,
		OriginalBookingRequest: req.OriginalBookingRequest,
	})
	if err != nil {
		var dup *services.DuplicateActiveEntryError
		if errors.As(err, &dup) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"success":     false,
				"message":     "Customer already on waitlist for this date",
				"waitlist_id": dup.WaitlistID,
				"status":      dup.Status,
			})
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	websocket.Notify(entry.Club, "waitlist_added", entry)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":     true,
		"message":     "Customer added to waitlist",
		"waitlist_id": entry.WaitlistID,
		"created_at":  entry.CreatedAt,
	})
}

// CheckWaitlist reports the customer's active entries.
func CheckWaitlist(c *fiber.Ctx) error {
	email := c.Query("email")
	club := c.Query("club")
	if email == "" || club == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Missing required parameters: email and club"})
	}

	var date *time.Time
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.Parse(dateLayout, raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid date, expected YYYY-MM-DD"})
		}
		date = &parsed
	}

	entries, err := services.CheckWaitlist(email, date, club)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}

	return c.JSON(fiber.Map{
		"on_waitlist": len(entries) > 0,
		"count":       len(entries),
		"entries":     entries,
	})
}

type UpdateWaitlistRequest struct {
	Status           *string `json:"status"`
	Notes            *string `json:"notes"`
	NotificationSent *bool   `json:"notification_sent"`
}

// UpdateWaitlistEntry applies a partial update to status, notes or the
// notification marker.
func UpdateWaitlistEntry(c *fiber.Ctx) error {
	waitlistID := c.Params("waitlistId")

	var req UpdateWaitlistRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if req.Status == nil && req.Notes == nil && req.NotificationSent == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "No valid fields to update"})
	}

	patch := services.WaitlistPatch{
		Notes:            req.Notes,
		NotificationSent: req.NotificationSent,
	}
	if req.Status != nil {
		status := models.WaitlistStatus(*req.Status)
		patch.Status = &status
	}

	entry, err := services.UpdateWaitlistEntry(waitlistID, patch)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Waitlist entry not found"})
		}
		if errors.Is(err, services.ErrInvalidTransition) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid status transition"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}

	return c.JSON(fiber.Map{
		"success":     true,
		"message":     "Waitlist entry updated",
		"waitlist_id": entry.WaitlistID,
		"status":      entry.Status,
	})
}

// RemoveFromWaitlist deletes an entry.
func RemoveFromWaitlist(c *fiber.Ctx) error {
	waitlistID := c.Params("waitlistId")

	if err := services.RemoveWaitlistEntry(waitlistID); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Waitlist entry not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}

	return c.JSON(fiber.Map{
		"success":     true,
		"message":     "Waitlist entry removed",
		"waitlist_id": waitlistID,
	})
}

// GetWaitlistMatches lists the Waiting entries for a freed slot, best
// candidates first.
func GetWaitlistMatches(c *fiber.Ctx) error {
	rawDate := c.Query("date")
	club := c.Query("club")
	availableTime := c.Query("time")
	if rawDate == "" || club == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Missing required parameters: date and club"})
	}

	date, err := time.Parse(dateLayout, rawDate)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid date, expected YYYY-MM-DD"})
	}

	matches, err := services.WaitlistMatches(date, club)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}

	return c.JSON(fiber.Map{
		"available_date": rawDate,
		"available_time": availableTime,
		"matches_found":  len(matches),
		"matches":        matches,
	})
}
