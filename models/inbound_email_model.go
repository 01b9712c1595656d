package models

import (
	"time"
)

// InboundEmail is a message ingested by the email bot. BookingID stays
// nil until the bot links the thread; unlinked mail is matched to a
// booking by guest address at read time.
type InboundEmail struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	MessageID string `gorm:"type:varchar(255);not null;unique" json:"message_id"`
	FromEmail string `gorm:"type:varchar(255);not null;index" json:"from_email"`
	ToEmail   string `gorm:"type:varchar(255)" json:"to_email"`
	Subject   string `gorm:"type:varchar(500)" json:"subject"`
	BodyText  string `gorm:"type:text" json:"body_text"`

	// inquiry, booking_request, staff_confirmation, waitlist_optin,
	// customer_reply
	EmailType string `gorm:"type:varchar(50)" json:"email_type"`

	BookingRef *string `gorm:"column:booking_id;type:varchar(50);index" json:"booking_id,omitempty"`

	Processed        bool   `gorm:"default:false" json:"processed"`
	ProcessingStatus string `gorm:"type:varchar(50)" json:"processing_status,omitempty"`
	ErrorMessage     string `gorm:"type:text" json:"error_message,omitempty"`

	ReceivedAt time.Time `gorm:"not null;index" json:"received_at"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (InboundEmail) TableName() string {
	return "inbound_emails"
}
