// Package enrollment is the single query and write interface over the
// enrollment set. Free grants and paid grants are rows in one table, so
// call sites never juggle two membership representations, and every
// grant goes through an atomic insert-if-absent that is safe to call
// concurrently from the client confirmation path, the webhook path and
// the reconciliation sweep.
package enrollment

import (
	"elearn/models"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// IsEnrolled reports whether the user holds any grant for the course
func IsEnrolled(db *gorm.DB, userID, courseID uint) (bool, error) {
	var count int64
	err := db.Model(&models.Enrollment{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// GrantFree records a free-course grant. Returns false when the user
// already holds a grant for the course.
func GrantFree(db *gorm.DB, userID, courseID uint) (bool, error) {
	rec := models.Enrollment{
		UserID:        userID,
		CourseID:      courseID,
		Kind:          models.EnrollmentKindFree,
		PaymentStatus: models.PaymentStatusCompleted,
		EnrolledAt:    time.Now(),
	}
	return insertIfAbsent(db, &rec)
}

// TryMarkEnrolled records a paid enrollment for a verified payment.
// Returns false when a grant already exists, which callers report as an
// idempotent "already enrolled" outcome rather than an error.
func TryMarkEnrolled(db *gorm.DB, userID, courseID uint, transactionID string, amountCents int64) (bool, error) {
	rec := models.Enrollment{
		UserID:        userID,
		CourseID:      courseID,
		Kind:          models.EnrollmentKindPaid,
		PaymentStatus: models.PaymentStatusCompleted,
		TransactionID: transactionID,
		AmountCents:   amountCents,
		EnrolledAt:    time.Now(),
	}
	return insertIfAbsent(db, &rec)
}

// insertIfAbsent relies on the (user_id, course_id) unique index: the
// uniqueness decision is made by the store, not by a read-then-write
// check in application code.
func insertIfAbsent(db *gorm.DB, rec *models.Enrollment) (bool, error) {
	result := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "course_id"}},
		DoNothing: true,
	}).Create(rec)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// HistoryEntry is one paid enrollment joined with its course
type HistoryEntry struct {
	CourseID      uint      `json:"courseId"`
	CourseTitle   string    `json:"courseTitle"`
	EnrolledAt    time.Time `json:"enrolledAt"`
	PaymentStatus string    `json:"paymentStatus"`
	TransactionID string    `json:"transactionId"`
	AmountCents   int64     `json:"amountCents"`
}

// History returns the user's paid enrollments, newest first
func History(db *gorm.DB, userID uint) ([]HistoryEntry, error) {
	var entries []HistoryEntry
	err := db.Model(&models.Enrollment{}).
		Select("enrollments.course_id, courses.title AS course_title, enrollments.enrolled_at, enrollments.payment_status, enrollments.transaction_id, enrollments.amount_cents").
		Joins("LEFT JOIN courses ON courses.id = enrollments.course_id").
		Where("enrollments.user_id = ? AND enrollments.kind = ?", userID, models.EnrollmentKindPaid).
		Order("enrollments.enrolled_at desc").
		Scan(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// CourseIDs returns every course the user holds a grant for
func CourseIDs(db *gorm.DB, userID uint) ([]uint, error) {
	var ids []uint
	err := db.Model(&models.Enrollment{}).
		Where("user_id = ?", userID).
		Pluck("course_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// Revoke removes every grant for a course, used when a course is
// deleted. The delete is a hard delete: a soft-deleted row would still
// occupy the (user_id, course_id) unique index and make insertIfAbsent
// report "already enrolled" for a pair IsEnrolled no longer sees.
func Revoke(db *gorm.DB, courseID uint) error {
	return db.Unscoped().Where("course_id = ?", courseID).Delete(&models.Enrollment{}).Error
}
