package services

import (
	"errors"
	"time"

	"github.com/jimbobirecode/teemail-backend/database"
	"github.com/jimbobirecode/teemail-backend/models"
	"gorm.io/gorm"
)

type IngestEmailInput struct {
	MessageID  string
	FromEmail  string
	ToEmail    string
	Subject    string
	BodyText   string
	EmailType  string
	BookingRef *string
	ReceivedAt *time.Time
}

// IngestInboundEmail stores a message delivered by the email bot.
// Redelivered message ids are treated as already processed, not errors.
func IngestInboundEmail(input IngestEmailInput) (*models.InboundEmail, bool, error) {
	var existing models.InboundEmail
	err := database.DB.Where("message_id = ?", input.MessageID).First(&existing).Error
	if err == nil {
		return &existing, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	receivedAt := time.Now()
	if input.ReceivedAt != nil {
		receivedAt = *input.ReceivedAt
	}

	email := models.InboundEmail{
		MessageID:  input.MessageID,
		FromEmail:  input.FromEmail,
		ToEmail:    input.ToEmail,
		Subject:    input.Subject,
		BodyText:   input.BodyText,
		EmailType:  input.EmailType,
		BookingRef: input.BookingRef,
		ReceivedAt: receivedAt,
	}
	if err := database.DB.Create(&email).Error; err != nil {
		return nil, false, err
	}
	return &email, true, nil
}

// BookingEmails returns the email thread for a booking: messages linked
// to its booking id plus any mail from the guest's address, newest first.
func BookingEmails(bookingID string) ([]models.InboundEmail, error) {
	booking, err := GetBooking(bookingID)
	if err != nil {
		return nil, err
	}

	var emails []models.InboundEmail
	err = database.DB.
		Where("booking_id = ? OR from_email = ?", booking.BookingID, booking.GuestEmail).
		Order("received_at DESC").
		Find(&emails).Error
	if err != nil {
		return nil, err
	}
	return emails, nil
}
