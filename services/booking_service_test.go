package services

import (
	"testing"
	"time"

	"github.com/jimbobirecode/teemail-backend/models"
	"github.com/stretchr/testify/require"
)

func TestUpdateBookingStatusWorkflow(t *testing.T) {
	db := setupTestDB(t)

	booking := seedBooking(t, db, models.Booking{Status: models.BookingStatusInquiry})

	for _, next := range []models.BookingStatus{
		models.BookingStatusRequested,
		models.BookingStatusConfirmed,
		models.BookingStatusBooked,
	} {
		updated, err := UpdateBookingStatus(booking.BookingID, next, "anna")
		require.NoError(t, err)
		require.Equal(t, next, updated.Status)
		require.Equal(t, "anna", updated.UpdatedBy)
	}

	// No going backwards, but a booked round can still be cancelled.
	_, err := UpdateBookingStatus(booking.BookingID, models.BookingStatusRequested, "anna")
	require.ErrorIs(t, err, ErrInvalidTransition)

	_, err = UpdateBookingStatus(booking.BookingID, models.BookingStatusCancelled, "anna")
	require.NoError(t, err)

	// Cancelled is terminal.
	_, err = UpdateBookingStatus(booking.BookingID, models.BookingStatusConfirmed, "anna")
	require.ErrorIs(t, err, ErrInvalidTransition)
}

func TestUpdateBookingStatusNotFound(t *testing.T) {
	setupTestDB(t)

	_, err := UpdateBookingStatus("BOOK-missing", models.BookingStatusConfirmed, "anna")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestListBookingsFilter(t *testing.T) {
	db := setupTestDB(t)

	date := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
	seedBooking(t, db, models.Booking{BookingID: "BOOK-a", Date: date, Status: models.BookingStatusRequested})
	seedBooking(t, db, models.Booking{BookingID: "BOOK-b", Date: date.AddDate(0, 0, 10), Status: models.BookingStatusBooked})
	seedBooking(t, db, models.Booking{BookingID: "BOOK-other", Club: "other-club", Date: date, Status: models.BookingStatusRequested})

	bookings, err := ListBookings(BookingFilter{Club: "pebble-creek"})
	require.NoError(t, err)
	require.Len(t, bookings, 2)

	bookings, err = ListBookings(BookingFilter{
		Club:     "pebble-creek",
		Statuses: []models.BookingStatus{models.BookingStatusBooked},
	})
	require.NoError(t, err)
	require.Len(t, bookings, 1)
	require.Equal(t, "BOOK-b", bookings[0].BookingID)

	to := date.AddDate(0, 0, 5)
	bookings, err = ListBookings(BookingFilter{Club: "pebble-creek", DateTo: &to})
	require.NoError(t, err)
	require.Len(t, bookings, 1)
	require.Equal(t, "BOOK-a", bookings[0].BookingID)
}

func TestDeleteBookingCascadesToPaymentRecords(t *testing.T) {
	db := setupTestDB(t)
	tracker, _, _ := newTestTracker()

	booking := seedBooking(t, db, models.Booking{Total: 100})
	_, err := tracker.CreatePaymentRequest(booking.BookingID, models.PaymentTypeFull, "anna", "")
	require.NoError(t, err)

	require.NoError(t, DeleteBooking(booking.BookingID))

	var count int64
	require.NoError(t, db.Model(&models.PaymentRecord{}).Where("booking_id = ?", booking.ID).Count(&count).Error)
	require.Zero(t, count)

	require.ErrorIs(t, DeleteBooking(booking.BookingID), ErrNotFound)
}

func TestFixMissingTeeTimes(t *testing.T) {
	db := setupTestDB(t)

	seedBooking(t, db, models.Booking{BookingID: "BOOK-extractable", TeeTime: "Not Specified",
		Note: "Guest called. Tee Time: 9:15 AM, party of 4."})
	seedBooking(t, db, models.Booking{BookingID: "BOOK-no-time", TeeTime: "Not Specified",
		Note: "No time mentioned anywhere."})
	seedBooking(t, db, models.Booking{BookingID: "BOOK-already-set", TeeTime: "11:00 AM",
		Note: "Time: 2:00 PM"})

	updated, notFound, err := FixMissingTeeTimes("pebble-creek")
	require.NoError(t, err)
	require.Equal(t, 1, updated)
	require.Equal(t, 1, notFound)

	fixed, err := GetBooking("BOOK-extractable")
	require.NoError(t, err)
	require.Equal(t, "9:15 AM", fixed.TeeTime)

	untouched, err := GetBooking("BOOK-already-set")
	require.NoError(t, err)
	require.Equal(t, "11:00 AM", untouched.TeeTime)
}

func TestConvertWaitlistEntry(t *testing.T) {
	db := setupTestDB(t)

	entry, err := AddWaitlistEntry(AddWaitlistInput{
		GuestEmail:     "guest@example.com",
		GuestName:      "Guest",
		RequestedDate:  time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC),
		PreferredTime:  "10:30 AM",
		Players:        3,
		Club:           "pebble-creek",
		OptInConfirmed: true,
	})
	require.NoError(t, err)

	booking, err := ConvertWaitlistEntry(entry.WaitlistID, 450, true, "anna")
	require.NoError(t, err)
	require.Equal(t, models.BookingStatusRequested, booking.Status)
	require.Equal(t, "guest@example.com", booking.GuestEmail)
	require.Equal(t, "10:30 AM", booking.TeeTime)
	require.Equal(t, 3, booking.Players)
	require.Equal(t, 450.0, booking.Total)
	require.True(t, booking.IsTourOperator)

	var refreshed models.WaitlistEntry
	require.NoError(t, db.Where("waitlist_id = ?", entry.WaitlistID).First(&refreshed).Error)
	require.Equal(t, models.WaitlistStatusConverted, refreshed.Status)

	// Converting twice would double-book the slot.
	_, err = ConvertWaitlistEntry(entry.WaitlistID, 450, true, "anna")
	require.ErrorIs(t, err, ErrInvalidTransition)
}

func TestConvertWaitlistEntryNotFound(t *testing.T) {
	setupTestDB(t)

	_, err := ConvertWaitlistEntry("WL-missing", 100, false, "anna")
	require.ErrorIs(t, err, ErrNotFound)
}
