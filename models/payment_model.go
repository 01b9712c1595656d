package models

import (
	"time"
)

type PaymentType string

const (
	PaymentTypeDeposit PaymentType = "deposit"
	PaymentTypeFull    PaymentType = "full"
)

func (t PaymentType) IsValid() bool {
	return t == PaymentTypeDeposit || t == PaymentTypeFull
}

type PaymentRecordStatus string

const (
	PaymentRecordPending  PaymentRecordStatus = "pending"
	PaymentRecordPaid     PaymentRecordStatus = "paid"
	PaymentRecordFailed   PaymentRecordStatus = "failed"
	PaymentRecordExpired  PaymentRecordStatus = "expired"
	PaymentRecordRefunded PaymentRecordStatus = "refunded"
)

func (s PaymentRecordStatus) IsValid() bool {
	switch s {
	case PaymentRecordPending, PaymentRecordPaid, PaymentRecordFailed,
		PaymentRecordExpired, PaymentRecordRefunded:
		return true
	default:
		return false
	}
}

// CanTransitionTo: pending -> paid|failed|expired, paid -> refunded.
// Everything else is rejected so a late processor callback can never
// resurrect a settled record.
func (s PaymentRecordStatus) CanTransitionTo(next PaymentRecordStatus) bool {
	switch s {
	case PaymentRecordPending:
		return next == PaymentRecordPaid || next == PaymentRecordFailed || next == PaymentRecordExpired
	case PaymentRecordPaid:
		return next == PaymentRecordRefunded
	default:
		return false
	}
}

type PaymentRecord struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	PaymentID string `gorm:"type:varchar(50);not null;unique" json:"payment_id"`

	BookingID uint    `gorm:"not null;index" json:"booking_id"`
	Booking   Booking `gorm:"foreignKey:BookingID;constraint:OnDelete:CASCADE" json:"-"`

	Amount            float64     `gorm:"type:numeric(10,2);not null" json:"amount"`
	Currency          string      `gorm:"size:3;not null" json:"currency"`
	PaymentType       PaymentType `gorm:"type:varchar(20);not null" json:"payment_type"`
	DepositPercentage *int        `json:"deposit_percentage,omitempty"`

	Status PaymentRecordStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`

	// Opaque correlation keys owned by the external processor.
	PaymentLinkID     *string `gorm:"size:255;unique" json:"payment_link_id,omitempty"`
	CheckoutSessionID *string `gorm:"size:255" json:"checkout_session_id,omitempty"`
	PaymentIntentID   *string `gorm:"size:255" json:"payment_intent_id,omitempty"`
	PaymentLinkURL    string  `gorm:"type:text" json:"payment_link_url,omitempty"`

	LinkSentAt *time.Time `json:"link_sent_at,omitempty"`
	ReceivedAt *time.Time `json:"received_at,omitempty"`

	CreatedBy string `gorm:"type:varchar(255)" json:"created_by"`
	Notes     string `gorm:"type:text" json:"notes"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (PaymentRecord) TableName() string {
	return "payment_records"
}
