package models

import (
	"time"

	"gorm.io/gorm"
)

// Student gender values.
const (
	GenderBoy  = "پسر"
	GenderGirl = "دختر"
)

// Student enrollment statuses.
const (
	StudentActive     = "فعال"
	StudentGraduated  = "فارغ"
	StudentDroppedOut = "ترک‌تحصیل"
)

// Student represents an enrolled student. StudentNumber is the unique
// human-readable identifier printed on receipts and report cards. BaseFee is
// the expected monthly tuition; 0 means no fee has been set.
type Student struct {
	gorm.Model
	FirstName       string    `json:"firstName" gorm:"not null"`
	LastName        string    `json:"lastName" gorm:"not null"`
	FatherName      string    `json:"fatherName" gorm:"not null"`
	GrandfatherName string    `json:"grandfatherName" gorm:"not null"`
	StudentNumber   string    `json:"studentNumber" gorm:"unique;not null"`
	BirthDate       time.Time `json:"birthDate"`
	Gender          string    `json:"gender" gorm:"not null"`
	ParentPhone     string    `json:"parentPhone" gorm:"not null"`
	Address         string    `json:"address"`
	Status          string    `json:"status" gorm:"default:فعال"`
	ClassID         uint      `json:"classId" gorm:"not null"`
	Class           *Class    `json:"class,omitempty" gorm:"foreignKey:ClassID"`
	BaseFee         float64   `json:"baseFee" gorm:"type:numeric(12,2);default:0"`
}
