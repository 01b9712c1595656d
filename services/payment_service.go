package services

import (
	"errors"
	"fmt"
	"math"
	"time"

	config "github.com/jimbobirecode/teemail-backend/configs"
	"github.com/jimbobirecode/teemail-backend/database"
	"github.com/jimbobirecode/teemail-backend/models"
	"github.com/jimbobirecode/teemail-backend/utils"
	"gorm.io/gorm"
)

// LinkIssuer is the external payment processor boundary: it turns an
// amount into a hosted payment page and hands back the correlation id
// used to match the processor's status callbacks.
type LinkIssuer interface {
	CreatePaymentLink(amount float64, currency, reference string) (linkID string, url string, err error)
}

// EmailSender delivers the payment link to the guest.
type EmailSender interface {
	Send(toName, toEmail, subject, htmlContent string) error
}

// PaymentTracker owns payment-record lifecycle and the booking rollup.
// Deposit defaults come from the config it was constructed with, never
// from ambient environment reads.
type PaymentTracker struct {
	cfg    config.PaymentConfig
	issuer LinkIssuer
	mailer EmailSender
}

func NewPaymentTracker(cfg config.PaymentConfig, issuer LinkIssuer, mailer EmailSender) *PaymentTracker {
	return &PaymentTracker{cfg: cfg, issuer: issuer, mailer: mailer}
}

// RoundToMinorUnit rounds half-up to two decimal places.
func RoundToMinorUnit(amount float64) float64 {
	return math.Floor(amount*100+0.5) / 100
}

// EffectiveDepositPercent: tour operators always pay the operator rate,
// otherwise the booking's stored percentage wins over the process default.
func (pt *PaymentTracker) EffectiveDepositPercent(booking *models.Booking) int {
	if booking.IsTourOperator {
		return pt.cfg.TourOperatorDepositPercent
	}
	if booking.DepositPercentage != nil && *booking.DepositPercentage > 0 {
		return *booking.DepositPercentage
	}
	return pt.cfg.DefaultDepositPercent
}

// CreatePaymentRequest computes the charge for the booking, obtains a
// payment link from the processor and persists a pending record. The
// link email is sent last: a send failure surfaces as
// ErrNotificationFailed but never rolls the record back.
func (pt *PaymentTracker) CreatePaymentRequest(bookingID string, paymentType models.PaymentType, createdBy, notes string) (*models.PaymentRecord, error) {
	if !paymentType.IsValid() {
		return nil, fmt.Errorf("unknown payment type %q", paymentType)
	}

	var booking models.Booking
	if err := database.DB.Where("booking_id = ?", bookingID).First(&booking).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	amount := booking.Total
	var depositPct *int
	if paymentType == models.PaymentTypeDeposit {
		pct := pt.EffectiveDepositPercent(&booking)
		depositPct = &pct
		amount = RoundToMinorUnit(booking.Total * float64(pct) / 100)
	}
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	currency := booking.Currency
	if currency == "" {
		currency = pt.cfg.DefaultCurrency
	}

	paymentID := utils.GeneratePaymentID()
	linkID, linkURL, err := pt.issuer.CreatePaymentLink(amount, currency, paymentID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPaymentLinkCreation, err)
	}

	now := time.Now()
	record := models.PaymentRecord{
		PaymentID:         paymentID,
		BookingID:         booking.ID,
		Amount:            amount,
		Currency:          currency,
		PaymentType:       paymentType,
		DepositPercentage: depositPct,
		Status:            models.PaymentRecordPending,
		PaymentLinkID:     &linkID,
		PaymentLinkURL:    linkURL,
		LinkSentAt:        &now,
		CreatedBy:         createdBy,
		Notes:             notes,
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&record).Error; err != nil {
			return err
		}
		return RecomputeBookingPayment(tx, booking.ID)
	})
	if err != nil {
		return nil, err
	}

	if pt.mailer != nil {
		subject := "Payment request for your booking"
		body := fmt.Sprintf(
			"<h1>Payment Request</h1><p>Please complete the payment of %.2f %s for booking %s.</p><p><a href='%s'>Pay Now</a></p>",
			amount, currency, booking.BookingID, linkURL,
		)
		if err := pt.mailer.Send(booking.GuestName, booking.GuestEmail, subject, body); err != nil {
			return &record, fmt.Errorf("%w: %v", ErrNotificationFailed, err)
		}
	}

	return &record, nil
}

// ApplyStatusUpdate records a processor result. The record and the
// booking rollup are written in one transaction so no reader can see a
// paid record with a stale rollup.
func (pt *PaymentTracker) ApplyStatusUpdate(correlationID string, newStatus models.PaymentRecordStatus, paidAmount *float64) (*models.PaymentRecord, error) {
	if !newStatus.IsValid() {
		return nil, ErrInvalidTransition
	}

	var record models.PaymentRecord
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		err := tx.
			Where("payment_link_id = ? OR checkout_session_id = ? OR payment_intent_id = ?",
				correlationID, correlationID, correlationID).
			First(&record).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		if !record.Status.CanTransitionTo(newStatus) {
			return ErrInvalidTransition
		}

		record.Status = newStatus
		if newStatus == models.PaymentRecordPaid {
			now := time.Now()
			record.ReceivedAt = &now
			if paidAmount != nil && *paidAmount > 0 {
				record.Amount = RoundToMinorUnit(*paidAmount)
			}
		}
		if err := tx.Save(&record).Error; err != nil {
			return err
		}

		return RecomputeBookingPayment(tx, record.BookingID)
	})
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// RecomputeBookingPayment derives the booking's rollup purely from its
// stored payment records, so replaying the same records always lands on
// the same state:
//
//	any paid full record        -> fully_paid, totalPaid = that amount
//	any paid deposit record(s)  -> deposit_paid, totalPaid = their sum
//	newest record pending       -> pending
//	newest failed or expired    -> failed (retry is possible)
//	otherwise                   -> not_requested
func RecomputeBookingPayment(tx *gorm.DB, bookingPK uint) error {
	var records []models.PaymentRecord
	if err := tx.
		Where("booking_id = ?", bookingPK).
		Order("created_at ASC, id ASC").
		Find(&records).Error; err != nil {
		return err
	}

	status := models.PaymentStatusNotRequested
	totalPaid := 0.0

	var paidFull *models.PaymentRecord
	depositSum := 0.0
	hasPaidDeposit := false
	for i := range records {
		r := &records[i]
		if r.Status != models.PaymentRecordPaid {
			continue
		}
		switch r.PaymentType {
		case models.PaymentTypeFull:
			paidFull = r
		case models.PaymentTypeDeposit:
			depositSum += r.Amount
			hasPaidDeposit = true
		}
	}

	switch {
	case paidFull != nil:
		status = models.PaymentStatusFullyPaid
		totalPaid = paidFull.Amount
	case hasPaidDeposit:
		status = models.PaymentStatusDepositPaid
		totalPaid = RoundToMinorUnit(depositSum)
	case len(records) > 0:
		newest := records[len(records)-1]
		switch newest.Status {
		case models.PaymentRecordPending:
			status = models.PaymentStatusPending
		case models.PaymentRecordFailed, models.PaymentRecordExpired:
			status = models.PaymentStatusFailed
		}
	}

	return tx.Model(&models.Booking{}).
		Where("id = ?", bookingPK).
		Updates(map[string]interface{}{
			"payment_status": status,
			"total_paid":     totalPaid,
		}).Error
}
