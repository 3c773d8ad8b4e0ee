package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	PaymentRecordPending   = "PENDING"
	PaymentRecordCompleted = "COMPLETED"
	PaymentRecordFailed    = "FAILED"
)

// PaymentRecord is the audit ledger for payment intents. One row is
// written when an intent is created and updated as the provider reports
// the outcome. Failed payments land here, not in the enrollment table.
type PaymentRecord struct {
	gorm.Model
	IntentID      string         `gorm:"uniqueIndex;size:100;not null" json:"intent_id"`
	UserID        uint           `gorm:"index" json:"user_id"`
	CourseID      uint           `gorm:"index" json:"course_id"`
	AmountCents   int64          `gorm:"not null" json:"amount_cents"`
	Currency      string         `gorm:"size:10;default:'usd'" json:"currency"`
	Status        string         `gorm:"size:20;default:'PENDING'" json:"status"` // PENDING, COMPLETED, FAILED
	FailureReason string         `gorm:"size:255" json:"failure_reason,omitempty"`
	Metadata      datatypes.JSON `json:"metadata,omitempty"`
}
