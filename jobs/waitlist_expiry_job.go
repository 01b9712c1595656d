package jobs

import (
	"log"
	"time"

	"github.com/jimbobirecode/teemail-backend/database"
	"github.com/jimbobirecode/teemail-backend/models"
)

// DeclineExpiredWaitlistEntries closes out active waitlist entries whose
// requested date has already passed. Guests still waiting for a slot on
// a date in the past can never be offered one.
func DeclineExpiredWaitlistEntries() {
	log.Println("Running job: DeclineExpiredWaitlistEntries...")

	cutoff := time.Now().UTC().Truncate(24 * time.Hour)

	result := database.DB.Model(&models.WaitlistEntry{}).
		Where("status IN ? AND requested_date < ?",
			[]models.WaitlistStatus{models.WaitlistStatusWaiting, models.WaitlistStatusNotified}, cutoff).
		Update("status", models.WaitlistStatusDeclined)
	if result.Error != nil {
		log.Printf("Error declining expired waitlist entries: %v", result.Error)
		return
	}

	if result.RowsAffected > 0 {
		log.Printf("Declined %d expired waitlist entries", result.RowsAffected)
	}
}
