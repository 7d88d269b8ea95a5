package models

import "time"

// Tuition payment types.
const (
	PaymentTypeTuition = "شهریه"
	PaymentTypeBase    = "پایه"
)

// TuitionPayment is one tuition transaction for a student. Installment is the
// canonical "year/month" period key. Several payments may exist for the same
// (student, installment): partial payments accumulate.
//
// Payments are transaction records and are deleted for real, never
// soft-deleted, so no DeletedAt column here.
type TuitionPayment struct {
	ID           uint      `json:"ID" gorm:"primarykey"`
	CreatedAt    time.Time `json:"CreatedAt"`
	StudentID    uint      `json:"studentId" gorm:"not null;index"`
	Student      *Student  `json:"student,omitempty" gorm:"foreignKey:StudentID"`
	Installment  string    `json:"installment" gorm:"not null;index"`
	Amount       float64   `json:"amount" gorm:"type:numeric(12,2);not null"`
	Date         time.Time `json:"date" gorm:"index"`
	Method       string    `json:"method" gorm:"not null"`
	PaymentType  string    `json:"paymentType"`
	Description  string    `json:"description"`
	ReceiptNo    string    `json:"receiptNo" gorm:"uniqueIndex"`
	RecordedByID uint      `json:"recordedById"`
	RecordedBy   *User     `json:"recordedBy,omitempty" gorm:"foreignKey:RecordedByID"`
}
