package models

import (
	"time"
)

type WaitlistStatus string

const (
	WaitlistStatusWaiting   WaitlistStatus = "Waiting"
	WaitlistStatusNotified  WaitlistStatus = "Notified"
	WaitlistStatusConverted WaitlistStatus = "Converted"
	WaitlistStatusDeclined  WaitlistStatus = "Declined"
)

func (s WaitlistStatus) String() string {
	return string(s)
}

func (s WaitlistStatus) IsValid() bool {
	switch s {
	case WaitlistStatusWaiting, WaitlistStatusNotified, WaitlistStatusConverted, WaitlistStatusDeclined:
		return true
	default:
		return false
	}
}

// IsActive reports whether the entry still occupies the customer's slot
// on the waitlist. Only active entries count toward the one-per
// (email, date, club) rule.
func (s WaitlistStatus) IsActive() bool {
	return s == WaitlistStatusWaiting || s == WaitlistStatusNotified
}

// CanTransitionTo enforces the forward-only lifecycle:
// Waiting -> Notified -> Converted, with Declined reachable from any
// active state. Converted and Declined are terminal.
func (s WaitlistStatus) CanTransitionTo(next WaitlistStatus) bool {
	if s == next {
		return true
	}
	switch s {
	case WaitlistStatusWaiting:
		return next == WaitlistStatusNotified || next == WaitlistStatusConverted || next == WaitlistStatusDeclined
	case WaitlistStatusNotified:
		return next == WaitlistStatusConverted || next == WaitlistStatusDeclined
	default:
		return false
	}
}

type WaitlistEntry struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	WaitlistID string `gorm:"type:varchar(50);not null;unique" json:"waitlist_id"`

	GuestEmail      string    `gorm:"type:varchar(255);not null;index:idx_waitlist_triple" json:"guest_email"`
	GuestName       string    `gorm:"type:varchar(255)" json:"guest_name"`
	RequestedDate   time.Time `gorm:"type:date;not null;index:idx_waitlist_triple" json:"requested_date"`
	PreferredTime   string    `gorm:"type:varchar(50);default:'Flexible'" json:"preferred_time"`
	TimeFlexibility string    `gorm:"type:varchar(50);default:'Flexible'" json:"time_flexibility"`
	Players         int       `gorm:"default:1" json:"players"`
	GolfCourse      string    `gorm:"type:varchar(255)" json:"golf_course"`
	Club            string    `gorm:"type:varchar(100);not null;index:idx_waitlist_triple" json:"club"`

	Status   WaitlistStatus `gorm:"type:varchar(50);not null;default:'Waiting'" json:"status"`
	Priority int            `gorm:"default:5" json:"priority"`
	Notes    string         `gorm:"type:text" json:"notes"`

	Source                 string     `gorm:"type:varchar(50);default:'manual'" json:"source"`
	OptInConfirmed         bool       `gorm:"default:false" json:"opt_in_confirmed"`
	OriginalBookingRequest string     `gorm:"type:text" json:"original_booking_request"`
	NotificationSent       bool       `gorm:"default:false" json:"notification_sent"`
	NotificationSentAt     *time.Time `json:"notification_sent_at,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (WaitlistEntry) TableName() string {
	return "waitlist"
}
