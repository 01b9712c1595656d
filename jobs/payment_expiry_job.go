package jobs

import (
	"log"
	"time"

	config "github.com/jimbobirecode/teemail-backend/configs"
	"github.com/jimbobirecode/teemail-backend/database"
	"github.com/jimbobirecode/teemail-backend/models"
	"github.com/jimbobirecode/teemail-backend/services"
	"gorm.io/gorm"
)

// ExpireStalePaymentLinks marks pending payment records whose link was
// sent more than the configured TTL ago as expired, then refreshes each
// affected booking's payment rollup.
func ExpireStalePaymentLinks() {
	log.Println("Running job: ExpireStalePaymentLinks...")

	cfg := config.LoadPaymentConfig()
	cutoff := time.Now().Add(-time.Duration(cfg.LinkTTLHours) * time.Hour)

	var stale []models.PaymentRecord
	err := database.DB.
		Where("status = ? AND link_sent_at IS NOT NULL AND link_sent_at < ?", models.PaymentRecordPending, cutoff).
		Find(&stale).Error
	if err != nil {
		log.Printf("Error checking for stale payment links: %v", err)
		return
	}

	if len(stale) == 0 {
		return
	}

	for _, record := range stale {
		err := database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Model(&models.PaymentRecord{}).
				Where("id = ? AND status = ?", record.ID, models.PaymentRecordPending).
				Update("status", models.PaymentRecordExpired).Error; err != nil {
				return err
			}
			return services.RecomputeBookingPayment(tx, record.BookingID)
		})
		if err != nil {
			log.Printf("Error expiring payment record %s: %v", record.PaymentID, err)
			continue
		}
		log.Printf("Expired payment link for record %s", record.PaymentID)
	}
}
