package services

import (
	"errors"
	"fmt"

	"github.com/jimbobirecode/teemail-backend/models"
)

var (
	ErrNotFound            = errors.New("record not found")
	ErrInvalidTransition   = errors.New("invalid status transition")
	ErrInvalidAmount       = errors.New("computed amount must be positive")
	ErrPaymentLinkCreation = errors.New("payment link creation failed")
	ErrNotificationFailed  = errors.New("notification send failed")
)

// DuplicateActiveEntryError carries the existing active entry back to the
// caller so the bot can tell the customer they are already on the list.
type DuplicateActiveEntryError struct {
	WaitlistID string
	Status     models.WaitlistStatus
}

func (e *DuplicateActiveEntryError) Error() string {
	return fmt.Sprintf("customer already on waitlist (%s, status %s)", e.WaitlistID, e.Status)
}
