package models

import "time"

// SalaryPayment is one salary transaction for a teacher. At most one payment
// may exist per (teacher, installment); the composite unique index is the
// source of truth for that invariant.
type SalaryPayment struct {
	ID           uint      `json:"ID" gorm:"primarykey"`
	CreatedAt    time.Time `json:"CreatedAt"`
	TeacherID    uint      `json:"teacherId" gorm:"not null;uniqueIndex:idx_salary_teacher_installment"`
	Teacher      *Teacher  `json:"teacher,omitempty" gorm:"foreignKey:TeacherID"`
	Installment  string    `json:"installment" gorm:"not null;uniqueIndex:idx_salary_teacher_installment"`
	Amount       float64   `json:"amount" gorm:"type:numeric(12,2);not null"`
	Date         time.Time `json:"date" gorm:"index"`
	Method       string    `json:"method" gorm:"not null"`
	ReceiptNo    string    `json:"receiptNo" gorm:"uniqueIndex"`
	RecordedByID uint      `json:"recordedById"`
	RecordedBy   *User     `json:"recordedBy,omitempty" gorm:"foreignKey:RecordedByID"`
}
