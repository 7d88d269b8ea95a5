// Package ledger persists payment transactions and exposes lookups by entity
// and by period. It owns the error taxonomy the HTTP layer translates into
// status codes.
package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/mhnazary/school-managment-system/internal/period"
	"github.com/mhnazary/school-managment-system/models"
	"gorm.io/gorm"
)

var (
	// ErrNotFound means the referenced record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrInvalidAmount means the payment amount is not positive.
	ErrInvalidAmount = errors.New("payment amount must be positive")
	// ErrDuplicatePeriod means a payment already exists for the period.
	ErrDuplicatePeriod = errors.New("payment already recorded for this period")
)

// Ledger records and queries payment transactions.
type Ledger struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Ledger {
	return &Ledger{db: db}
}

// TuitionPaymentInput carries one tuition transaction to record.
// SingleInstallment opts in to rejecting a second payment for the same
// (student, installment); by default partial payments accumulate.
type TuitionPaymentInput struct {
	StudentID         uint
	Installment       string
	Amount            float64
	Date              time.Time
	Method            string
	PaymentType       string
	Description       string
	RecordedByID      uint
	SingleInstallment bool
}

// SalaryPaymentInput carries one salary transaction to record.
type SalaryPaymentInput struct {
	TeacherID    uint
	Installment  string
	Amount       float64
	Date         time.Time
	Method       string
	RecordedByID uint
}

// RecordTuitionPayment appends a tuition transaction for a student.
func (l *Ledger) RecordTuitionPayment(ctx context.Context, in TuitionPaymentInput) (*models.TuitionPayment, error) {
	if in.Amount <= 0 {
		return nil, ErrInvalidAmount
	}
	installment, err := period.Canonicalize(in.Installment)
	if err != nil {
		return nil, err
	}
	in.Installment = installment

	db := l.db.WithContext(ctx)
	if err := firstExists(db, &models.Student{}, in.StudentID); err != nil {
		return nil, err
	}

	if in.SingleInstallment {
		var count int64
		err := db.Model(&models.TuitionPayment{}).
			Where("student_id = ? AND installment = ?", in.StudentID, in.Installment).
			Count(&count).Error
		if err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, ErrDuplicatePeriod
		}
	}

	payment := models.TuitionPayment{
		StudentID:    in.StudentID,
		Installment:  in.Installment,
		Amount:       in.Amount,
		Date:         in.Date,
		Method:       in.Method,
		PaymentType:  in.PaymentType,
		Description:  in.Description,
		ReceiptNo:    uuid.NewString(),
		RecordedByID: in.RecordedByID,
	}
	if payment.Date.IsZero() {
		payment.Date = time.Now().UTC()
	}
	if payment.PaymentType == "" {
		payment.PaymentType = models.PaymentTypeTuition
	}

	if err := db.Create(&payment).Error; err != nil {
		return nil, err
	}
	return &payment, nil
}

// RecordSalaryPayment appends a salary transaction for a teacher. At most one
// payment may exist per (teacher, installment): the existence check gives the
// friendly error, the unique index closes the race.
func (l *Ledger) RecordSalaryPayment(ctx context.Context, in SalaryPaymentInput) (*models.SalaryPayment, error) {
	if in.Amount <= 0 {
		return nil, ErrInvalidAmount
	}
	installment, err := period.Canonicalize(in.Installment)
	if err != nil {
		return nil, err
	}
	in.Installment = installment

	db := l.db.WithContext(ctx)
	if err := firstExists(db, &models.Teacher{}, in.TeacherID); err != nil {
		return nil, err
	}

	var count int64
	err = db.Model(&models.SalaryPayment{}).
		Where("teacher_id = ? AND installment = ?", in.TeacherID, in.Installment).
		Count(&count).Error
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrDuplicatePeriod
	}

	payment := models.SalaryPayment{
		TeacherID:    in.TeacherID,
		Installment:  in.Installment,
		Amount:       in.Amount,
		Date:         in.Date,
		Method:       in.Method,
		ReceiptNo:    uuid.NewString(),
		RecordedByID: in.RecordedByID,
	}
	if payment.Date.IsZero() {
		payment.Date = time.Now().UTC()
	}

	if err := db.Create(&payment).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicatePeriod
		}
		return nil, err
	}
	return &payment, nil
}

// StudentPayments lists a student's tuition payments, newest first.
func (l *Ledger) StudentPayments(ctx context.Context, studentID uint) ([]models.TuitionPayment, error) {
	var payments []models.TuitionPayment
	err := l.db.WithContext(ctx).
		Preload("RecordedBy").
		Where("student_id = ?", studentID).
		Order("date DESC, id DESC").
		Find(&payments).Error
	return payments, err
}

// TeacherPayments lists a teacher's salary payments, newest first.
func (l *Ledger) TeacherPayments(ctx context.Context, teacherID uint) ([]models.SalaryPayment, error) {
	var payments []models.SalaryPayment
	err := l.db.WithContext(ctx).
		Preload("RecordedBy").
		Where("teacher_id = ?", teacherID).
		Order("date DESC, id DESC").
		Find(&payments).Error
	return payments, err
}

// StudentPaymentsForPeriod lists a student's payments whose installment equals
// the given key exactly. Comparison is on the canonical string, never numeric.
func (l *Ledger) StudentPaymentsForPeriod(ctx context.Context, studentID uint, key string) ([]models.TuitionPayment, error) {
	if err := firstExists(l.db.WithContext(ctx), &models.Student{}, studentID); err != nil {
		return nil, err
	}
	var payments []models.TuitionPayment
	err := l.db.WithContext(ctx).
		Preload("RecordedBy").
		Where("student_id = ? AND installment = ?", studentID, key).
		Order("date DESC, id DESC").
		Find(&payments).Error
	return payments, err
}

// TeacherPaymentsForPeriod lists a teacher's payments for an exact period key.
func (l *Ledger) TeacherPaymentsForPeriod(ctx context.Context, teacherID uint, key string) ([]models.SalaryPayment, error) {
	if err := firstExists(l.db.WithContext(ctx), &models.Teacher{}, teacherID); err != nil {
		return nil, err
	}
	var payments []models.SalaryPayment
	err := l.db.WithContext(ctx).
		Preload("RecordedBy").
		Where("teacher_id = ? AND installment = ?", teacherID, key).
		Order("date DESC, id DESC").
		Find(&payments).Error
	return payments, err
}

// TuitionPaymentUpdate carries the editable fields of a tuition payment.
// Zero-valued fields keep the stored value.
type TuitionPaymentUpdate struct {
	Installment string
	Amount      float64
	Method      string
	Description string
}

// UpdateTuitionPayment edits a recorded tuition payment.
func (l *Ledger) UpdateTuitionPayment(ctx context.Context, id uint, up TuitionPaymentUpdate) (*models.TuitionPayment, error) {
	db := l.db.WithContext(ctx)

	var payment models.TuitionPayment
	if err := db.First(&payment, id).Error; err != nil {
		return nil, translateNotFound(err)
	}

	if up.Installment != "" {
		installment, err := period.Canonicalize(up.Installment)
		if err != nil {
			return nil, err
		}
		payment.Installment = installment
	}
	if up.Amount != 0 {
		if up.Amount < 0 {
			return nil, ErrInvalidAmount
		}
		payment.Amount = up.Amount
	}
	if up.Method != "" {
		payment.Method = up.Method
	}
	if up.Description != "" {
		payment.Description = up.Description
	}

	if err := db.Save(&payment).Error; err != nil {
		return nil, err
	}
	return &payment, nil
}

// SalaryPaymentUpdate carries the editable fields of a salary payment.
type SalaryPaymentUpdate struct {
	Installment string
	Amount      float64
	Method      string
}

// UpdateSalaryPayment edits a recorded salary payment. Moving it to another
// installment re-checks the one-payment-per-period invariant.
func (l *Ledger) UpdateSalaryPayment(ctx context.Context, id uint, up SalaryPaymentUpdate) (*models.SalaryPayment, error) {
	db := l.db.WithContext(ctx)

	var payment models.SalaryPayment
	if err := db.First(&payment, id).Error; err != nil {
		return nil, translateNotFound(err)
	}

	if up.Installment != "" {
		installment, err := period.Canonicalize(up.Installment)
		if err != nil {
			return nil, err
		}
		up.Installment = installment
	}
	if up.Installment != "" && up.Installment != payment.Installment {
		var count int64
		err := db.Model(&models.SalaryPayment{}).
			Where("teacher_id = ? AND installment = ? AND id <> ?", payment.TeacherID, up.Installment, payment.ID).
			Count(&count).Error
		if err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, ErrDuplicatePeriod
		}
		payment.Installment = up.Installment
	}
	if up.Amount != 0 {
		if up.Amount < 0 {
			return nil, ErrInvalidAmount
		}
		payment.Amount = up.Amount
	}
	if up.Method != "" {
		payment.Method = up.Method
	}

	if err := db.Save(&payment).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicatePeriod
		}
		return nil, err
	}
	return &payment, nil
}

// DeleteTuitionPayment removes a tuition payment for good.
func (l *Ledger) DeleteTuitionPayment(ctx context.Context, id uint) error {
	result := l.db.WithContext(ctx).Delete(&models.TuitionPayment{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteSalaryPayment removes a salary payment for good.
func (l *Ledger) DeleteSalaryPayment(ctx context.Context, id uint) error {
	result := l.db.WithContext(ctx).Delete(&models.SalaryPayment{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteStudentWithPayments removes a student and every tuition payment that
// references them inside one transaction, so a crash cannot leave orphaned
// payments behind.
func (l *Ledger) DeleteStudentWithPayments(ctx context.Context, studentID uint) error {
	return l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := firstExists(tx, &models.Student{}, studentID); err != nil {
			return err
		}
		if err := tx.Where("student_id = ?", studentID).Delete(&models.TuitionPayment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Student{}, studentID).Error
	})
}

// TeacherHasPayments reports whether any salary payment references the teacher.
func (l *Ledger) TeacherHasPayments(ctx context.Context, teacherID uint) (bool, error) {
	var count int64
	err := l.db.WithContext(ctx).Model(&models.SalaryPayment{}).
		Where("teacher_id = ?", teacherID).
		Count(&count).Error
	return count > 0, err
}

func firstExists(db *gorm.DB, model any, id uint) error {
	err := db.Select("id").First(model, id).Error
	return translateNotFound(err)
}

func translateNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
