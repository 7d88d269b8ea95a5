// Package reports assembles the monthly and annual report shapes consumed by
// the dashboard.
//
// Two filtering mechanisms coexist on purpose. Per-entity views and the
// salary reports match on the canonical installment string; the tuition
// monthly/annual reports filter on the payment date column. A backdated
// payment whose date and installment disagree will therefore appear in one
// view and not the other. See DESIGN.md before touching either path.
package reports

import (
	"context"
	"errors"
	"time"

	"github.com/mhnazary/school-managment-system/internal/ledger"
	"github.com/mhnazary/school-managment-system/internal/period"
	"github.com/mhnazary/school-managment-system/internal/reconcile"
	"github.com/mhnazary/school-managment-system/models"
	"gorm.io/gorm"
)

// Reports runs aggregate queries over the payment ledger.
type Reports struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Reports {
	return &Reports{db: db}
}

// TuitionStatusReport is one student's standing, overall or for one month.
type TuitionStatusReport struct {
	TotalPaid float64 `json:"totalPaid"`
	Status    string  `json:"status"`
	Month     int     `json:"month,omitempty"`
	Year      int     `json:"year,omitempty"`
}

// StudentOverallStatus classifies a student over every payment on record.
func (r *Reports) StudentOverallStatus(ctx context.Context, studentID uint) (*TuitionStatusReport, error) {
	if err := r.studentExists(ctx, studentID); err != nil {
		return nil, err
	}
	total, err := sumAmount(r.db.WithContext(ctx).Model(&models.TuitionPayment{}).
		Where("student_id = ?", studentID))
	if err != nil {
		return nil, err
	}
	return &TuitionStatusReport{TotalPaid: total, Status: reconcile.TuitionStatus(total)}, nil
}

// StudentMonthlyStatus classifies a student for one month. This is the
// date-range code path: payments are selected by their date column, not by
// installment.
func (r *Reports) StudentMonthlyStatus(ctx context.Context, studentID uint, year, month int) (*TuitionStatusReport, error) {
	if err := r.studentExists(ctx, studentID); err != nil {
		return nil, err
	}
	start, end := period.MonthRange(year, month)
	total, err := sumAmount(r.db.WithContext(ctx).Model(&models.TuitionPayment{}).
		Where("student_id = ? AND date >= ? AND date < ?", studentID, start, end))
	if err != nil {
		return nil, err
	}
	return &TuitionStatusReport{
		TotalPaid: total,
		Status:    reconcile.TuitionStatus(total),
		Month:     month,
		Year:      year,
	}, nil
}

// SalaryStatusReport is one teacher's standing against their salary.
type SalaryStatusReport struct {
	MonthlySalary float64 `json:"monthlySalary"`
	TotalPaid     float64 `json:"totalPaid"`
	Remaining     float64 `json:"remaining"`
	Status        string  `json:"status"`
}

// TeacherStatus classifies a teacher. With periodKey == "" every salary
// payment on record counts against one monthly salary; with a key only that
// installment's payments count.
func (r *Reports) TeacherStatus(ctx context.Context, teacherID uint, periodKey string) (*SalaryStatusReport, error) {
	var teacher models.Teacher
	if err := r.db.WithContext(ctx).First(&teacher, teacherID).Error; err != nil {
		return nil, translateNotFound(err)
	}

	query := r.db.WithContext(ctx).Model(&models.SalaryPayment{}).
		Where("teacher_id = ?", teacherID)
	if periodKey != "" {
		query = query.Where("installment = ?", periodKey)
	}

	var row struct{ Total float64 }
	if err := query.Select("COALESCE(SUM(amount), 0) AS total").Scan(&row).Error; err != nil {
		return nil, err
	}

	return &SalaryStatusReport{
		MonthlySalary: teacher.MonthlySalary,
		TotalPaid:     row.Total,
		Remaining:     teacher.MonthlySalary - row.Total,
		Status:        reconcile.SalaryStatus(teacher.MonthlySalary, row.Total),
	}, nil
}

// TuitionReport is the aggregate tuition figure for a date window.
type TuitionReport struct {
	TotalPaid    float64 `json:"totalPaid"`
	PaymentCount int64   `json:"paymentCount"`
	Month        int     `json:"month,omitempty"`
	Year         int     `json:"year"`
}

// MonthlyTuitionReport totals every tuition payment whose date falls in the
// month's half-open range.
func (r *Reports) MonthlyTuitionReport(ctx context.Context, year, month int) (*TuitionReport, error) {
	start, end := period.MonthRange(year, month)
	report := TuitionReport{Month: month, Year: year}
	err := r.db.WithContext(ctx).Model(&models.TuitionPayment{}).
		Select("COALESCE(SUM(amount), 0) AS total_paid, COUNT(*) AS payment_count").
		Where("date >= ? AND date < ?", start, end).
		Scan(&report).Error
	if err != nil {
		return nil, err
	}
	return &report, nil
}

// AnnualTuitionReport totals every tuition payment dated inside the year.
func (r *Reports) AnnualTuitionReport(ctx context.Context, year int) (*TuitionReport, error) {
	start, end := period.YearRange(year)
	report := TuitionReport{Year: year}
	err := r.db.WithContext(ctx).Model(&models.TuitionPayment{}).
		Select("COALESCE(SUM(amount), 0) AS total_paid, COUNT(*) AS payment_count").
		Where("date >= ? AND date < ?", start, end).
		Scan(&report).Error
	if err != nil {
		return nil, err
	}
	return &report, nil
}

// SalaryReportRow is one teacher's line in a salary report.
type SalaryReportRow struct {
	Teacher      models.Teacher `json:"teacher"`
	TotalPaid    float64        `json:"totalPaid"`
	Status       string         `json:"status"`
	AnnualSalary float64        `json:"annualSalary,omitempty"`
}

// SalaryReport is the monthly or annual salary report over every teacher.
type SalaryReport struct {
	Teachers           []SalaryReportRow `json:"teachers"`
	TotalMonthlySalary float64           `json:"totalMonthlySalary,omitempty"`
	TotalAnnualSalary  float64           `json:"totalAnnualSalary,omitempty"`
	TotalPaidAmount    float64           `json:"totalPaidAmount"`
	PaidCount          int               `json:"paidCount"`
	PartialCount       int               `json:"partialCount"`
	UnpaidCount        int               `json:"unpaidCount"`
	Month              int               `json:"month,omitempty"`
	Year               int               `json:"year"`
}

// MonthlySalaryReport classifies every teacher for one installment. The
// per-teacher sums come from a single grouped query so the report reads one
// consistent snapshot instead of N per-teacher round trips.
func (r *Reports) MonthlySalaryReport(ctx context.Context, year, month int) (*SalaryReport, error) {
	var teachers []models.Teacher
	if err := r.db.WithContext(ctx).Order("last_name, first_name").Find(&teachers).Error; err != nil {
		return nil, err
	}

	type sumRow struct {
		TeacherID uint
		Total     float64
	}
	var sums []sumRow
	err := r.db.WithContext(ctx).Model(&models.SalaryPayment{}).
		Select("teacher_id, SUM(amount) AS total").
		Where("installment = ?", period.Key(year, month)).
		Group("teacher_id").
		Scan(&sums).Error
	if err != nil {
		return nil, err
	}
	paidByTeacher := make(map[uint]float64, len(sums))
	for _, s := range sums {
		paidByTeacher[s.TeacherID] = s.Total
	}

	report := SalaryReport{Month: month, Year: year, Teachers: make([]SalaryReportRow, 0, len(teachers))}
	var summary reconcile.Summary
	for _, teacher := range teachers {
		totalPaid := paidByTeacher[teacher.ID]
		status := reconcile.SalaryStatus(teacher.MonthlySalary, totalPaid)
		summary.Add(status, totalPaid)
		report.TotalMonthlySalary += teacher.MonthlySalary
		report.Teachers = append(report.Teachers, SalaryReportRow{
			Teacher:   teacher,
			TotalPaid: totalPaid,
			Status:    status,
		})
	}
	report.TotalPaidAmount = summary.TotalPaidAmount
	report.PaidCount = summary.PaidCount
	report.PartialCount = summary.PartialCount
	report.UnpaidCount = summary.UnpaidCount
	return &report, nil
}

// AnnualSalaryReport classifies every teacher against a full year of salary.
// Payments are matched on the installment year prefix and each key is parsed
// back, so a malformed installment never counts toward a year.
func (r *Reports) AnnualSalaryReport(ctx context.Context, year int) (*SalaryReport, error) {
	var teachers []models.Teacher
	if err := r.db.WithContext(ctx).Order("last_name, first_name").Find(&teachers).Error; err != nil {
		return nil, err
	}

	var payments []models.SalaryPayment
	err := r.db.WithContext(ctx).
		Where("installment LIKE ?", period.YearPrefix(year)+"%").
		Find(&payments).Error
	if err != nil {
		return nil, err
	}
	paidByTeacher := make(map[uint]float64)
	for _, p := range payments {
		paymentYear, _, err := period.Parse(p.Installment)
		if err != nil || paymentYear != year {
			continue
		}
		paidByTeacher[p.TeacherID] += p.Amount
	}

	report := SalaryReport{Year: year, Teachers: make([]SalaryReportRow, 0, len(teachers))}
	var summary reconcile.Summary
	for _, teacher := range teachers {
		totalPaid := paidByTeacher[teacher.ID]
		annualSalary := reconcile.AnnualExpected(teacher.MonthlySalary)
		status := reconcile.SalaryStatus(annualSalary, totalPaid)
		summary.Add(status, totalPaid)
		report.TotalAnnualSalary += annualSalary
		report.Teachers = append(report.Teachers, SalaryReportRow{
			Teacher:      teacher,
			TotalPaid:    totalPaid,
			Status:       status,
			AnnualSalary: annualSalary,
		})
	}
	report.TotalPaidAmount = summary.TotalPaidAmount
	report.PaidCount = summary.PaidCount
	report.PartialCount = summary.PartialCount
	report.UnpaidCount = summary.UnpaidCount
	return &report, nil
}

// DashboardStats is the headline figures on the landing page.
type DashboardStats struct {
	Students      int64   `json:"students"`
	Teachers      int64   `json:"teachers"`
	Classes       int64   `json:"classes"`
	Revenue       float64 `json:"revenue"`
	TotalExpenses float64 `json:"totalExpenses"`
}

// Stats counts the core entities and totals revenue and expenses. Revenue
// covers tuition payments dated in the current year; the expense total is
// all-time.
func (r *Reports) Stats(ctx context.Context) (*DashboardStats, error) {
	db := r.db.WithContext(ctx)
	var stats DashboardStats

	if err := db.Model(&models.Student{}).Count(&stats.Students).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Teacher{}).Count(&stats.Teachers).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Class{}).Count(&stats.Classes).Error; err != nil {
		return nil, err
	}

	start, end := period.YearRange(time.Now().UTC().Year())
	var row struct{ Total float64 }
	if err := db.Model(&models.TuitionPayment{}).
		Where("date >= ? AND date < ?", start, end).
		Select("COALESCE(SUM(amount), 0) AS total").Scan(&row).Error; err != nil {
		return nil, err
	}
	stats.Revenue = row.Total

	if err := db.Model(&models.Expense{}).
		Select("COALESCE(SUM(amount), 0) AS total").Scan(&row).Error; err != nil {
		return nil, err
	}
	stats.TotalExpenses = row.Total

	return &stats, nil
}

func (r *Reports) studentExists(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Select("id").First(&models.Student{}, id).Error
	return translateNotFound(err)
}

func sumAmount(query *gorm.DB) (float64, error) {
	var row struct{ Total float64 }
	if err := query.Select("COALESCE(SUM(amount), 0) AS total").Scan(&row).Error; err != nil {
		return 0, err
	}
	return row.Total, nil
}

func translateNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ledger.ErrNotFound
	}
	return err
}
