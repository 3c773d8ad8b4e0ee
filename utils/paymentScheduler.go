package utils

import (
	"elearn/database"
	"elearn/enrollment"
	"elearn/models"
	"elearn/payments"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// InitializePaymentScheduler starts the background maintenance jobs: the
// pending-payment reconciliation sweep and the daily OTP purge.
func InitializePaymentScheduler() {
	c := cron.New()

	// Re-check pending intents every 5 minutes. A crash between the
	// provider reporting success and the enrollment write leaves the
	// payment unreconciled; the sweep supplies the missing write when no
	// webhook is configured.
	c.AddFunc("*/5 * * * *", ReconcilePendingPayments)

	// Purge expired OTP rows daily at 3 AM
	c.AddFunc("0 3 * * *", PurgeExpiredOTPs)

	c.Start()
	log.Println("[SCHEDULER] Payment reconciliation and OTP purge jobs started")
}

// ReconcilePendingPayments retrieves the provider status of stale PENDING
// payment records and applies the same idempotent enrollment write used
// by the confirmation and webhook paths.
func ReconcilePendingPayments() {
	if payments.Gateway == nil {
		return
	}
	db := database.Database.Db

	var pending []models.PaymentRecord
	cutoff := time.Now().Add(-10 * time.Minute)
	if err := db.Where("status = ? AND created_at < ?", models.PaymentRecordPending, cutoff).
		Limit(100).Find(&pending).Error; err != nil {
		log.Printf("[SCHEDULER] Error fetching pending payments: %v", err)
		return
	}

	for _, rec := range pending {
		intent, err := payments.Gateway.RetrieveIntent(rec.IntentID)
		if err != nil {
			log.Printf("[SCHEDULER] Error retrieving intent %s: %v", rec.IntentID, err)
			continue
		}

		switch intent.Status {
		case "succeeded":
			newly, err := enrollment.TryMarkEnrolled(db, rec.UserID, rec.CourseID, intent.ID, intent.AmountCents)
			if err != nil {
				log.Printf("[SCHEDULER] Error recording enrollment for intent %s: %v", rec.IntentID, err)
				continue
			}
			if newly {
				log.Printf("[SCHEDULER] Recovered enrollment for user %d on course %d (intent %s)", rec.UserID, rec.CourseID, rec.IntentID)
			}
			db.Model(&models.PaymentRecord{}).Where("intent_id = ?", rec.IntentID).
				Update("status", models.PaymentRecordCompleted)
		case "canceled":
			db.Model(&models.PaymentRecord{}).Where("intent_id = ?", rec.IntentID).
				Updates(map[string]interface{}{
					"status":         models.PaymentRecordFailed,
					"failure_reason": "intent canceled",
				})
		}
		// other statuses stay pending until the next sweep
	}
}

// PurgeExpiredOTPs soft-deletes OTP rows past their expiry
func PurgeExpiredOTPs() {
	db := database.Database.Db
	result := db.Model(&models.OTP{}).
		Where("expires_at < ? AND is_deleted = ?", time.Now(), false).
		Update("is_deleted", true)
	if result.Error != nil {
		log.Printf("[SCHEDULER] Error purging expired OTPs: %v", result.Error)
		return
	}
	if result.RowsAffected > 0 {
		log.Printf("[SCHEDULER] Purged %d expired OTPs", result.RowsAffected)
	}
}
