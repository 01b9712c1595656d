package services

import (
	"errors"
	"time"

	"github.com/jimbobirecode/teemail-backend/database"
	"github.com/jimbobirecode/teemail-backend/models"
	"github.com/jimbobirecode/teemail-backend/utils"
	"gorm.io/gorm"
)

type AddWaitlistInput struct {
	GuestEmail             string
	GuestName              string
	RequestedDate          time.Time
	PreferredTime          string
	TimeFlexibility        string
	Players                int
	GolfCourse             string
	Club                   string
	Notes                  string
	Priority               int
	Source                 string
	OptInConfirmed         bool
	OriginalBookingRequest string
}

// NormalizeDate drops the time-of-day component so a calendar date
// compares equal regardless of how the caller parsed it.
func NormalizeDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

var activeWaitlistStatuses = []models.WaitlistStatus{
	models.WaitlistStatusWaiting,
	models.WaitlistStatusNotified,
}

// AddWaitlistEntry runs the duplicate check and the insert in a single
// transaction so concurrent opt-ins for the same (email, date, club)
// cannot both slip through.
func AddWaitlistEntry(in AddWaitlistInput) (*models.WaitlistEntry, error) {
	if !in.OptInConfirmed {
		return nil, errors.New("opt_in_confirmed must be true")
	}
	if in.GuestEmail == "" || in.Club == "" || in.RequestedDate.IsZero() {
		return nil, errors.New("guest_email, requested_date and club are required")
	}
	if in.Players <= 0 {
		in.Players = 1
	}
	if in.Priority < 1 || in.Priority > 10 {
		in.Priority = 5
	}
	if in.PreferredTime == "" {
		in.PreferredTime = "Flexible"
	}
	if in.TimeFlexibility == "" {
		in.TimeFlexibility = "Flexible"
	}
	if in.Source == "" {
		in.Source = "manual"
	}
	date := NormalizeDate(in.RequestedDate)

	var entry models.WaitlistEntry
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var existing models.WaitlistEntry
		err := tx.
			Where("guest_email = ? AND requested_date = ? AND club = ? AND status IN ?",
				in.GuestEmail, date, in.Club, activeWaitlistStatuses).
			First(&existing).Error
		if err == nil {
			return &DuplicateActiveEntryError{WaitlistID: existing.WaitlistID, Status: existing.Status}
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		entry = models.WaitlistEntry{
			WaitlistID:             utils.GenerateWaitlistID(),
			GuestEmail:             in.GuestEmail,
			GuestName:              in.GuestName,
			RequestedDate:          date,
			PreferredTime:          in.PreferredTime,
			TimeFlexibility:        in.TimeFlexibility,
			Players:                in.Players,
			GolfCourse:             in.GolfCourse,
			Club:                   in.Club,
			Status:                 models.WaitlistStatusWaiting,
			Priority:               in.Priority,
			Notes:                  in.Notes,
			Source:                 in.Source,
			OptInConfirmed:         true,
			OriginalBookingRequest: in.OriginalBookingRequest,
		}
		return tx.Create(&entry).Error
	})
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// CheckWaitlist lists the customer's active entries. Date narrows the
// lookup to one calendar day; nil returns every upcoming active entry
// for the club.
func CheckWaitlist(email string, date *time.Time, club string) ([]models.WaitlistEntry, error) {
	query := database.DB.
		Where("guest_email = ? AND club = ? AND status IN ?", email, club, activeWaitlistStatuses)

	if date != nil {
		query = query.Where("requested_date = ?", NormalizeDate(*date)).Order("created_at DESC")
	} else {
		query = query.Order("requested_date ASC, created_at DESC")
	}

	var entries []models.WaitlistEntry
	if err := query.Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

type WaitlistPatch struct {
	Status           *models.WaitlistStatus
	Notes            *string
	NotificationSent *bool
}

// UpdateWaitlistEntry applies a partial update. Only status, notes and
// the notification marker are writable; status moves must follow the
// forward-only lifecycle.
func UpdateWaitlistEntry(waitlistID string, patch WaitlistPatch) (*models.WaitlistEntry, error) {
	var entry models.WaitlistEntry
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("waitlist_id = ?", waitlistID).First(&entry).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		if patch.Status != nil {
			next := *patch.Status
			if !next.IsValid() {
				return ErrInvalidTransition
			}
			if !entry.Status.CanTransitionTo(next) {
				return ErrInvalidTransition
			}
			entry.Status = next
		}
		if patch.Notes != nil {
			entry.Notes = *patch.Notes
		}
		if patch.NotificationSent != nil {
			entry.NotificationSent = *patch.NotificationSent
			if *patch.NotificationSent {
				now := time.Now()
				entry.NotificationSentAt = &now
			}
		}

		return tx.Save(&entry).Error
	})
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// RemoveWaitlistEntry hard-deletes the entry. An unknown id is reported
// as NotFound rather than a silent no-op.
func RemoveWaitlistEntry(waitlistID string) error {
	result := database.DB.Where("waitlist_id = ?", waitlistID).Delete(&models.WaitlistEntry{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// WaitlistMatches returns every Waiting entry for the freed slot's date
// and club, highest priority first, earlier requests winning ties.
func WaitlistMatches(date time.Time, club string) ([]models.WaitlistEntry, error) {
	var entries []models.WaitlistEntry
	err := database.DB.
		Where("club = ? AND requested_date = ? AND status = ?", club, NormalizeDate(date), models.WaitlistStatusWaiting).
		Order("priority DESC, created_at ASC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}
