package models

import "gorm.io/gorm"

// Course represents a learning course. Price is kept in integer minor
// currency units; a PriceCents of 0 marks a free course.
type Course struct {
	gorm.Model
	Title          string `json:"title"`
	Category       string `json:"category"`
	Description    string `json:"description"`
	Image          string `json:"image"`
	PriceCents     int64  `json:"price_cents" gorm:"default:0"`
	InstructorName string `json:"instructor_name"`
	CreatedBy      string `json:"created_by"`
	IsDeleted      bool   `gorm:"default:false" json:"-"`
}

// IsFree reports whether the course can be enrolled without payment.
func (c *Course) IsFree() bool {
	return c.PriceCents <= 0
}
