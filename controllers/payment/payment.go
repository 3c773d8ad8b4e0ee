package paymentController

import (
	"elearn/database"
	"elearn/enrollment"
	"elearn/models"
	"elearn/payments"
	"elearn/utils"
	paymentValidator "elearn/validators/payment"
	"encoding/json"
	"fmt"
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
)

// Payment endpoints speak the flat client contract ({message, ...})
// instead of the shared response envelope.

func CreatePaymentIntent(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Unauthorized"})
	}

	reqData, ok := c.Locals("validatedCreateIntent").(*paymentValidator.CreateIntentRequest)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid request data"})
	}

	if payments.Gateway == nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Payment service not configured"})
	}

	db := database.Database.Db

	var course models.Course
	if err := db.Where("id = ? AND is_deleted = ?", reqData.CourseID, false).First(&course).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Course not found"})
	}

	var user models.User
	if err := db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "User not found"})
	}

	if course.IsFree() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Course is free, use the enroll endpoint"})
	}

	enrolled, err := enrollment.IsEnrolled(db, userID, course.ID)
	if err != nil {
		log.Printf("Error checking enrollment: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Server error"})
	}
	if enrolled {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Already enrolled in this course"})
	}

	// Major-to-minor unit conversion happens here; the provider is handed
	// integer cents.
	amountCents := utils.DollarsToCents(reqData.Amount)
	if amountCents != course.PriceCents {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": fmt.Sprintf("Amount does not match course price: %v", reqData.Amount),
		})
	}

	metadata := map[string]string{
		"courseId": strconv.FormatUint(uint64(course.ID), 10),
		"userId":   strconv.FormatUint(uint64(userID), 10),
	}

	intent, err := payments.Gateway.CreateIntent(amountCents, reqData.Currency, metadata)
	if err != nil {
		log.Printf("Error creating payment intent: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Failed to create payment intent"})
	}

	// Audit ledger row; the reconciliation sweep picks this up if neither
	// the client confirmation nor the webhook completes it.
	metaJSON, _ := json.Marshal(intent.Metadata)
	record := models.PaymentRecord{
		IntentID:    intent.ID,
		UserID:      userID,
		CourseID:    course.ID,
		AmountCents: amountCents,
		Currency:    reqData.Currency,
		Status:      models.PaymentRecordPending,
		Metadata:    datatypes.JSON(metaJSON),
	}
	if err := db.Create(&record).Error; err != nil {
		log.Printf("Error saving payment record for intent %s: %v", intent.ID, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"clientSecret":    intent.ClientSecret,
		"paymentIntentId": intent.ID,
	})
}

func ConfirmPayment(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Unauthorized"})
	}

	reqData, ok := c.Locals("validatedConfirmPayment").(*paymentValidator.ConfirmPaymentRequest)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid request data"})
	}

	if payments.Gateway == nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Payment service not configured"})
	}

	db := database.Database.Db

	var user models.User
	if err := db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "User not found"})
	}

	intent, err := payments.Gateway.RetrieveIntent(reqData.PaymentIntentID)
	if err != nil {
		log.Printf("Error retrieving payment intent %s: %v", reqData.PaymentIntentID, err)
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Payment not found"})
	}

	if intent.Status != "succeeded" {
		// Report the provider status verbatim; no state is written.
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message":  fmt.Sprintf("Payment not completed. Status: %s", intent.Status),
			"enrolled": false,
		})
	}

	// The intent's metadata is authoritative for who paid for what. The
	// request body only selects the intent; it cannot redirect the grant
	// to a course the intent was not priced for.
	metaUserID, metaCourseID, ok := intentParties(intent)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message":  "Invalid metadata",
			"enrolled": false,
		})
	}
	if metaUserID != userID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"message":  "Payment belongs to another user",
			"enrolled": false,
		})
	}
	if metaCourseID != reqData.CourseID {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message":  "Payment does not match this course",
			"enrolled": false,
		})
	}

	newly, err := enrollment.TryMarkEnrolled(db, metaUserID, metaCourseID, intent.ID, intent.AmountCents)
	if err != nil {
		log.Printf("Error recording enrollment for intent %s: %v", intent.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Failed to record enrollment"})
	}

	completePaymentRecord(intent.ID, metaUserID, metaCourseID, intent.AmountCents)

	if !newly {
		return c.JSON(fiber.Map{
			"message":  "Already enrolled in this course",
			"enrolled": true,
		})
	}

	var course models.Course
	if err := db.Where("id = ?", metaCourseID).First(&course).Error; err == nil {
		utils.SendPaymentReceiptEmail(user.Email, user.Name, course.Title, intent.AmountCents)
	}

	return c.JSON(fiber.Map{
		"message":  "Payment successful! Course enrolled.",
		"enrolled": true,
	})
}

func GetPaymentHistory(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Unauthorized"})
	}

	db := database.Database.Db

	var user models.User
	if err := db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "User not found"})
	}

	entries, err := enrollment.History(db, userID)
	if err != nil {
		log.Printf("Error fetching payment history: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Failed to fetch payment history"})
	}

	return c.JSON(fiber.Map{
		"enrollments": entries,
		"total":       len(entries),
	})
}

// HandleWebhook is the provider-initiated confirmation path. It must
// reach the same end state as ConfirmPayment without assuming the client
// confirmation ever ran, and must tolerate duplicate delivery.
func HandleWebhook(c *fiber.Ctx) error {
	sig := c.Get("Stripe-Signature")
	if sig == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Missing Stripe signature"})
	}

	if payments.Gateway == nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Webhook not configured"})
	}

	// c.Body() is the raw, unparsed payload; signature verification runs
	// before anything is read out of it.
	event, err := payments.Gateway.VerifyWebhook(c.Body(), sig)
	if err != nil {
		log.Printf("Webhook signature verification failed: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": fmt.Sprintf("Webhook Error: %v", err)})
	}

	switch event.Type {
	case "payment_intent.succeeded":
		userID, courseID, ok := intentParties(event.Intent)
		if !ok {
			log.Printf("Missing metadata in payment intent")
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid metadata"})
		}

		// Internal write failures are logged, never surfaced: the event is
		// authenticated and categorized, so the provider gets its ack and
		// the reconciliation sweep covers the gap.
		newly, err := enrollment.TryMarkEnrolled(database.Database.Db, userID, courseID, event.Intent.ID, event.Intent.AmountCents)
		if err != nil {
			log.Printf("Failed to record enrollment for intent %s: %v", event.Intent.ID, err)
		} else if newly {
			log.Printf("Enrollment recorded for user %d on course %d (intent %s)", userID, courseID, event.Intent.ID)
		}
		completePaymentRecord(event.Intent.ID, userID, courseID, event.Intent.AmountCents)

	case "payment_intent.payment_failed":
		userID, courseID, ok := intentParties(event.Intent)
		if !ok {
			log.Printf("Missing metadata in failed payment intent")
			break
		}
		failPaymentRecord(event.Intent.ID, userID, courseID, event.Intent.AmountCents)
		log.Printf("Payment failed for user %d on course %d (intent %s)", userID, courseID, event.Intent.ID)
	}
	// other event types are acknowledged and ignored

	return c.JSON(fiber.Map{"received": true})
}

// intentParties extracts the user and course the intent was created for
func intentParties(intent *payments.Intent) (userID, courseID uint, ok bool) {
	if intent == nil {
		return 0, 0, false
	}
	uid, err1 := strconv.ParseUint(intent.Metadata["userId"], 10, 32)
	cid, err2 := strconv.ParseUint(intent.Metadata["courseId"], 10, 32)
	if err1 != nil || err2 != nil || uid == 0 || cid == 0 {
		return 0, 0, false
	}
	return uint(uid), uint(cid), true
}

// completePaymentRecord upserts the audit ledger row for a succeeded
// intent. Errors are logged only; the ledger never blocks enrollment.
func completePaymentRecord(intentID string, userID, courseID uint, amountCents int64) {
	db := database.Database.Db

	result := db.Model(&models.PaymentRecord{}).Where("intent_id = ?", intentID).
		Update("status", models.PaymentRecordCompleted)
	if result.Error != nil {
		log.Printf("Error updating payment record %s: %v", intentID, result.Error)
		return
	}
	if result.RowsAffected == 0 {
		// Intent created outside this instance (or the ledger write was
		// lost); record it now.
		record := models.PaymentRecord{
			IntentID:    intentID,
			UserID:      userID,
			CourseID:    courseID,
			AmountCents: amountCents,
			Status:      models.PaymentRecordCompleted,
		}
		if err := db.Create(&record).Error; err != nil {
			log.Printf("Error creating payment record %s: %v", intentID, err)
		}
	}
}

func failPaymentRecord(intentID string, userID, courseID uint, amountCents int64) {
	db := database.Database.Db

	result := db.Model(&models.PaymentRecord{}).Where("intent_id = ?", intentID).
		Updates(map[string]interface{}{
			"status":         models.PaymentRecordFailed,
			"failure_reason": "provider reported payment_failed",
		})
	if result.Error != nil {
		log.Printf("Error updating payment record %s: %v", intentID, result.Error)
		return
	}
	if result.RowsAffected == 0 {
		record := models.PaymentRecord{
			IntentID:      intentID,
			UserID:        userID,
			CourseID:      courseID,
			AmountCents:   amountCents,
			Status:        models.PaymentRecordFailed,
			FailureReason: "provider reported payment_failed",
		}
		if err := db.Create(&record).Error; err != nil {
			log.Printf("Error creating payment record %s: %v", intentID, err)
		}
	}
}
