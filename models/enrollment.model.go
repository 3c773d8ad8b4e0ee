package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	EnrollmentKindFree = "FREE"
	EnrollmentKindPaid = "PAID"

	PaymentStatusCompleted = "COMPLETED"
)

// Enrollment is the durable grant of a user's access to a course. Free
// grants and paid grants live in the same table behind one query
// interface; the composite unique index makes the grant write an atomic
// insert-if-absent, so concurrent confirmation paths cannot produce two
// rows for the same purchase.
type Enrollment struct {
	gorm.Model
	UserID        uint      `json:"user_id" gorm:"uniqueIndex:uniq_user_course;not null"`
	CourseID      uint      `json:"course_id" gorm:"uniqueIndex:uniq_user_course;not null"`
	Kind          string    `json:"kind" gorm:"size:10;not null"`                 // FREE, PAID
	PaymentStatus string    `json:"payment_status" gorm:"size:20;default:'COMPLETED'"`
	TransactionID string    `json:"transaction_id" gorm:"size:100"`
	AmountCents   int64     `json:"amount_cents" gorm:"default:0"`
	EnrolledAt    time.Time `json:"enrolled_at"`
}
