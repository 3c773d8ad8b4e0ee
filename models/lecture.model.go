package models

import "gorm.io/gorm"

// Lecture is a single video lesson inside a course
type Lecture struct {
	gorm.Model
	Title       string `json:"title"`
	Description string `json:"description"`
	Video       string `json:"video"`                       // stored file path
	Duration    int64  `json:"duration" gorm:"default:0"`   // duration in minutes
	CourseID    uint   `json:"course_id" gorm:"index;not null"`
	CreatedBy   uint   `json:"created_by"`
}
