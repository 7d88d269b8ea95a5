package models

import "gorm.io/gorm"

// User is a staff account able to sign in and record payments.
type User struct {
	gorm.Model
	Username string `json:"username" gorm:"unique;not null"`
	Password string `json:"-" gorm:"not null"` // bcrypt hash
	Role     Role   `json:"role" gorm:"not null"`
}
