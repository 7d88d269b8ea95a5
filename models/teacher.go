package models

import (
	"time"

	"gorm.io/gorm"
)

// Teacher represents a staff teacher with a fixed monthly salary.
type Teacher struct {
	gorm.Model
	FirstName      string    `json:"firstName" gorm:"not null"`
	LastName       string    `json:"lastName" gorm:"not null"`
	FatherName     string    `json:"fatherName" gorm:"not null"`
	BirthDate      time.Time `json:"birthDate"`
	Specialization string    `json:"specialization" gorm:"not null"`
	Degree         string    `json:"degree" gorm:"not null"`
	Experience     int       `json:"experience"`
	MonthlySalary  float64   `json:"monthlySalary" gorm:"type:numeric(12,2);not null"`
	Phone          string    `json:"phone" gorm:"not null"`
	Email          string    `json:"email"`
	Address        string    `json:"address"`
}
