package services

import (
	"errors"
	"time"

	"github.com/jimbobirecode/teemail-backend/database"
	"github.com/jimbobirecode/teemail-backend/models"
	"github.com/jimbobirecode/teemail-backend/utils"
	"gorm.io/gorm"
)

type BookingFilter struct {
	Club     string
	Statuses []models.BookingStatus
	DateFrom *time.Time
	DateTo   *time.Time
}

func ListBookings(filter BookingFilter) ([]models.Booking, error) {
	query := database.DB.Where("club = ?", filter.Club)

	if len(filter.Statuses) > 0 {
		query = query.Where("status IN ?", filter.Statuses)
	}
	if filter.DateFrom != nil {
		query = query.Where("date >= ?", NormalizeDate(*filter.DateFrom))
	}
	if filter.DateTo != nil {
		query = query.Where("date <= ?", NormalizeDate(*filter.DateTo))
	}

	var bookings []models.Booking
	if err := query.Order("created_at DESC").Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

func GetBooking(bookingID string) (*models.Booking, error) {
	var booking models.Booking
	err := database.DB.
		Preload("PaymentRecords", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Where("booking_id = ?", bookingID).
		First(&booking).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &booking, nil
}

func GetBookingByPK(id uint) (*models.Booking, error) {
	var booking models.Booking
	if err := database.DB.First(&booking, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &booking, nil
}

// UpdateBookingStatus moves a booking along the staff workflow. Terminal
// states and backward moves are rejected.
func UpdateBookingStatus(bookingID string, next models.BookingStatus, updatedBy string) (*models.Booking, error) {
	if !next.IsValid() {
		return nil, ErrInvalidTransition
	}

	var booking models.Booking
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("booking_id = ?", bookingID).First(&booking).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if booking.Status != next && !booking.Status.CanTransitionTo(next) {
			return ErrInvalidTransition
		}
		booking.Status = next
		booking.UpdatedBy = updatedBy
		return tx.Save(&booking).Error
	})
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func UpdateBookingNote(bookingID, note string) (*models.Booking, error) {
	return updateBookingField(bookingID, "note", note)
}

func UpdateBookingTeeTime(bookingID, teeTime string) (*models.Booking, error) {
	return updateBookingField(bookingID, "tee_time", teeTime)
}

func updateBookingField(bookingID, column string, value string) (*models.Booking, error) {
	var booking models.Booking
	if err := database.DB.Where("booking_id = ?", bookingID).First(&booking).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if err := database.DB.Model(&booking).Update(column, value).Error; err != nil {
		return nil, err
	}
	return &booking, nil
}

// DeleteBooking removes the booking and, through the FK cascade, every
// payment record that belongs to it.
func DeleteBooking(bookingID string) error {
	return database.DB.Transaction(func(tx *gorm.DB) error {
		var booking models.Booking
		if err := tx.Where("booking_id = ?", bookingID).First(&booking).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		// Explicit child delete keeps the cascade working on databases
		// migrated without FK constraints.
		if err := tx.Where("booking_id = ?", booking.ID).Delete(&models.PaymentRecord{}).Error; err != nil {
			return err
		}
		return tx.Delete(&booking).Error
	})
}

// FixMissingTeeTimes extracts tee times from note content for every
// booking of the club that has none set. Returns how many were updated
// and how many notes had nothing extractable.
func FixMissingTeeTimes(club string) (updated int, notFound int, err error) {
	var bookings []models.Booking
	err = database.DB.
		Where("club = ? AND (tee_time IS NULL OR tee_time = '' OR tee_time = ?)", club, "Not Specified").
		Find(&bookings).Error
	if err != nil {
		return 0, 0, err
	}

	for i := range bookings {
		extracted := utils.ExtractTeeTime(bookings[i].Note)
		if extracted == "" {
			notFound++
			continue
		}
		if err := database.DB.Model(&bookings[i]).Update("tee_time", extracted).Error; err != nil {
			return updated, notFound, err
		}
		updated++
	}
	return updated, notFound, nil
}

// ConvertWaitlistEntry turns an active waitlist entry into a booking and
// marks the entry Converted in the same transaction.
func ConvertWaitlistEntry(waitlistID string, total float64, isTourOperator bool, createdBy string) (*models.Booking, error) {
	var booking models.Booking
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var entry models.WaitlistEntry
		if err := tx.Where("waitlist_id = ?", waitlistID).First(&entry).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if !entry.Status.CanTransitionTo(models.WaitlistStatusConverted) {
			return ErrInvalidTransition
		}

		booking = models.Booking{
			BookingID:      utils.GenerateBookingID(),
			GuestEmail:     entry.GuestEmail,
			GuestName:      entry.GuestName,
			Club:           entry.Club,
			Date:           entry.RequestedDate,
			TeeTime:        entry.PreferredTime,
			Players:        entry.Players,
			Total:          total,
			Note:           entry.Notes,
			Status:         models.BookingStatusRequested,
			IsTourOperator: isTourOperator,
			PaymentStatus:  models.PaymentStatusNotRequested,
			UpdatedBy:      createdBy,
		}
		if err := tx.Create(&booking).Error; err != nil {
			return err
		}

		entry.Status = models.WaitlistStatusConverted
		return tx.Save(&entry).Error
	})
	if err != nil {
		return nil, err
	}
	return &booking, nil
}
