package models

import (
	"time"
)

// BookingStatus is the staff workflow state shown on the dashboard.
type BookingStatus string

const (
	BookingStatusInquiry   BookingStatus = "Inquiry"
	BookingStatusRequested BookingStatus = "Requested"
	BookingStatusConfirmed BookingStatus = "Confirmed"
	BookingStatusBooked    BookingStatus = "Booked"
	BookingStatusRejected  BookingStatus = "Rejected"
	BookingStatusCancelled BookingStatus = "Cancelled"
)

func (s BookingStatus) String() string {
	return string(s)
}

func (s BookingStatus) IsValid() bool {
	switch s {
	case BookingStatusInquiry, BookingStatusRequested, BookingStatusConfirmed,
		BookingStatusBooked, BookingStatusRejected, BookingStatusCancelled:
		return true
	default:
		return false
	}
}

func (s BookingStatus) IsTerminal() bool {
	return s == BookingStatusRejected || s == BookingStatusCancelled
}

// CanTransitionTo allows the forward workflow
// Inquiry -> Requested -> Confirmed -> Booked, with Rejected/Cancelled
// reachable from any non-terminal state. Booked can still be cancelled.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	if s.IsTerminal() {
		return false
	}
	if next == BookingStatusRejected {
		return s != BookingStatusBooked
	}
	if next == BookingStatusCancelled {
		return true
	}
	switch s {
	case BookingStatusInquiry:
		return next == BookingStatusRequested
	case BookingStatusRequested:
		return next == BookingStatusConfirmed
	case BookingStatusConfirmed:
		return next == BookingStatusBooked
	default:
		return false
	}
}

// BookingPaymentStatus is the rollup derived from the booking's payment
// records, never mutated directly by handlers.
type BookingPaymentStatus string

const (
	PaymentStatusNotRequested BookingPaymentStatus = "not_requested"
	PaymentStatusPending      BookingPaymentStatus = "pending"
	PaymentStatusDepositPaid  BookingPaymentStatus = "deposit_paid"
	PaymentStatusFullyPaid    BookingPaymentStatus = "fully_paid"
	PaymentStatusFailed       BookingPaymentStatus = "failed"
)

type Booking struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	BookingID  string `gorm:"type:varchar(50);not null;unique" json:"booking_id"`
	GuestEmail string `gorm:"type:varchar(255);not null" json:"guest_email"`
	GuestName  string `gorm:"type:varchar(255)" json:"guest_name"`
	Club       string `gorm:"type:varchar(100);not null;index" json:"club"`

	Date    time.Time `gorm:"type:date;not null;index" json:"date"`
	TeeTime string    `gorm:"type:varchar(50);default:'Not Specified'" json:"tee_time"`
	Players int       `gorm:"default:1" json:"players"`
	Total   float64   `gorm:"type:numeric(10,2);default:0" json:"total"`
	Note    string    `gorm:"type:text" json:"note"`

	Status BookingStatus `gorm:"type:varchar(50);not null;default:'Inquiry'" json:"status"`

	// Tour operators pay a 50% deposit; everyone else falls back to the
	// process default unless a percentage was stored on the booking.
	IsTourOperator    bool `gorm:"default:false" json:"is_tour_operator"`
	DepositPercentage *int `json:"deposit_percentage,omitempty"`

	PaymentStatus BookingPaymentStatus `gorm:"type:varchar(50);not null;default:'not_requested'" json:"payment_status"`
	TotalPaid     float64              `gorm:"type:numeric(10,2);default:0" json:"total_paid"`
	Currency      string               `gorm:"size:3" json:"currency"`

	HotelRequired bool       `gorm:"default:false" json:"hotel_required"`
	HotelCheckin  *time.Time `gorm:"type:date" json:"hotel_checkin,omitempty"`
	HotelCheckout *time.Time `gorm:"type:date" json:"hotel_checkout,omitempty"`

	PaymentRecords []PaymentRecord `gorm:"foreignKey:BookingID;references:ID;constraint:OnDelete:CASCADE" json:"payment_records,omitempty"`

	UpdatedBy string    `gorm:"type:varchar(255)" json:"updated_by,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Booking) TableName() string {
	return "bookings"
}
