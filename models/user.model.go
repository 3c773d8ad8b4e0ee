package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	RoleStudent    = "STUDENT"
	RoleInstructor = "INSTRUCTOR"
	RoleAdmin      = "ADMIN"
)

type User struct {
	gorm.Model
	Name            string     `gorm:"default:''" json:"name"`
	Email           string     `gorm:"unique;not null" json:"email"`
	Password        string     `gorm:"not null" json:"-"`
	Role            string     `gorm:"default:'STUDENT'" json:"role"` // STUDENT, INSTRUCTOR, ADMIN
	ProfilePic      string     `gorm:"default:''" json:"profile_pic"`
	IsEmailVerified bool       `gorm:"default:false" json:"is_email_verified"`
	LastLogin       *time.Time `json:"last_login"`
	IsDeleted       bool       `gorm:"default:false" json:"-"`
}
