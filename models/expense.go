package models

import "gorm.io/gorm"

// Expense is a standalone operating cost record. It is not tied to a student
// or teacher and only feeds the aggregate financial reports.
type Expense struct {
	gorm.Model
	Title        string  `json:"title" gorm:"not null"`
	Amount       float64 `json:"amount" gorm:"type:numeric(12,2);not null"`
	Category     string  `json:"category" gorm:"not null;index"`
	Month        int     `json:"month" gorm:"not null"`
	Year         int     `json:"year" gorm:"not null"`
	Description  string  `json:"description"`
	RecordedByID uint    `json:"recordedById"`
	RecordedBy   *User   `json:"recordedBy,omitempty" gorm:"foreignKey:RecordedByID"`
}
