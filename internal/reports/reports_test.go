package reports

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/mhnazary/school-managment-system/internal/ledger"
	"github.com/mhnazary/school-managment-system/internal/period"
	"github.com/mhnazary/school-managment-system/internal/reconcile"
	"github.com/mhnazary/school-managment-system/models"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&models.User{},
		&models.Teacher{},
		&models.Class{},
		&models.Student{},
		&models.TuitionPayment{},
		&models.SalaryPayment{},
		&models.Expense{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedStudent(t *testing.T, db *gorm.DB, number string, baseFee float64) *models.Student {
	t.Helper()
	class := models.Class{Name: "اول الف", AcademicYear: "1402"}
	if err := db.Create(&class).Error; err != nil {
		t.Fatalf("seed class: %v", err)
	}
	student := models.Student{
		FirstName:       "زهرا",
		LastName:        "کریمی",
		FatherName:      "حسین",
		GrandfatherName: "رضا",
		StudentNumber:   number,
		Gender:          models.GenderGirl,
		ParentPhone:     "0799000010",
		ClassID:         class.ID,
		BaseFee:         baseFee,
	}
	if err := db.Create(&student).Error; err != nil {
		t.Fatalf("seed student: %v", err)
	}
	return &student
}

func seedTeacher(t *testing.T, db *gorm.DB, lastName string, monthlySalary float64) *models.Teacher {
	t.Helper()
	teacher := models.Teacher{
		FirstName:      "محمد",
		LastName:       lastName,
		FatherName:     "عبدالله",
		Specialization: "فزیک",
		Degree:         "ماستر",
		MonthlySalary:  monthlySalary,
		Phone:          "0799000011",
	}
	if err := db.Create(&teacher).Error; err != nil {
		t.Fatalf("seed teacher: %v", err)
	}
	return &teacher
}

var receiptSeq int

func nextReceipt() string {
	receiptSeq++
	return fmt.Sprintf("r-%d", receiptSeq)
}

func addTuitionPayment(t *testing.T, db *gorm.DB, studentID uint, installment string, amount float64, date time.Time) {
	t.Helper()
	err := db.Create(&models.TuitionPayment{
		StudentID:   studentID,
		Installment: installment,
		Amount:      amount,
		Date:        date,
		Method:      models.MethodCash,
		ReceiptNo:   nextReceipt(),
	}).Error
	if err != nil {
		t.Fatalf("seed tuition payment: %v", err)
	}
}

func addSalaryPayment(t *testing.T, db *gorm.DB, teacherID uint, installment string, amount float64, date time.Time) {
	t.Helper()
	err := db.Create(&models.SalaryPayment{
		TeacherID:   teacherID,
		Installment: installment,
		Amount:      amount,
		Date:        date,
		Method:      models.MethodBank,
		ReceiptNo:   nextReceipt(),
	}).Error
	if err != nil {
		t.Fatalf("seed salary payment: %v", err)
	}
}

func TestStudentMonthlyStatusIgnoresShortfall(t *testing.T) {
	db := newTestDB(t)
	r := New(db)
	ctx := context.Background()

	// Base fee 5000, only 2000 paid: the student view is binary on any
	// recorded payment, so this still reads paid.
	student := seedStudent(t, db, "S-2001", 5000)
	addTuitionPayment(t, db, student.ID, "1402/3", 2000, time.Date(1402, 3, 10, 0, 0, 0, 0, time.UTC))

	report, err := r.StudentMonthlyStatus(ctx, student.ID, 1402, 3)
	if err != nil {
		t.Fatalf("StudentMonthlyStatus: %v", err)
	}
	if report.TotalPaid != 2000 {
		t.Errorf("TotalPaid = %v, want 2000", report.TotalPaid)
	}
	if report.Status != reconcile.StatusPaid {
		t.Errorf("Status = %q, want paid", report.Status)
	}

	empty, err := r.StudentMonthlyStatus(ctx, student.ID, 1402, 4)
	if err != nil {
		t.Fatalf("StudentMonthlyStatus empty month: %v", err)
	}
	if empty.TotalPaid != 0 || empty.Status != reconcile.StatusUnpaid {
		t.Errorf("empty month = %v/%q, want 0/unpaid", empty.TotalPaid, empty.Status)
	}
}

func TestStudentMonthlyStatusUsesDateNotInstallment(t *testing.T) {
	db := newTestDB(t)
	r := New(db)
	ctx := context.Background()
	student := seedStudent(t, db, "S-2002", 0)

	// Backdated payment: installment says month 3, date says month 5. The
	// monthly status view filters on date, so it shows up under month 5.
	addTuitionPayment(t, db, student.ID, "1402/3", 1000, time.Date(1402, 5, 2, 0, 0, 0, 0, time.UTC))

	byInstallmentMonth, err := r.StudentMonthlyStatus(ctx, student.ID, 1402, 3)
	if err != nil {
		t.Fatalf("month 3: %v", err)
	}
	if byInstallmentMonth.TotalPaid != 0 {
		t.Errorf("month 3 TotalPaid = %v, want 0 (date-based filter)", byInstallmentMonth.TotalPaid)
	}

	byDateMonth, err := r.StudentMonthlyStatus(ctx, student.ID, 1402, 5)
	if err != nil {
		t.Fatalf("month 5: %v", err)
	}
	if byDateMonth.TotalPaid != 1000 {
		t.Errorf("month 5 TotalPaid = %v, want 1000", byDateMonth.TotalPaid)
	}
}

func TestStudentStatusUnknownStudent(t *testing.T) {
	db := newTestDB(t)
	r := New(db)

	if _, err := r.StudentOverallStatus(context.Background(), 404); !errors.Is(err, ledger.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestMonthlyTuitionReport(t *testing.T) {
	db := newTestDB(t)
	r := New(db)
	ctx := context.Background()
	student := seedStudent(t, db, "S-2003", 0)

	addTuitionPayment(t, db, student.ID, "1402/4", 3000, time.Date(1402, 4, 5, 0, 0, 0, 0, time.UTC))
	addTuitionPayment(t, db, student.ID, "1402/4", 1500, time.Date(1402, 4, 28, 0, 0, 0, 0, time.UTC))
	addTuitionPayment(t, db, student.ID, "1402/5", 2000, time.Date(1402, 5, 1, 0, 0, 0, 0, time.UTC))

	report, err := r.MonthlyTuitionReport(ctx, 1402, 4)
	if err != nil {
		t.Fatalf("MonthlyTuitionReport: %v", err)
	}
	if report.TotalPaid != 4500 || report.PaymentCount != 2 {
		t.Errorf("report = %v/%d, want 4500/2", report.TotalPaid, report.PaymentCount)
	}
	if report.Month != 4 || report.Year != 1402 {
		t.Errorf("report month/year = %d/%d, want 4/1402", report.Month, report.Year)
	}
}

func TestAnnualTuitionReportHalfOpenBoundary(t *testing.T) {
	db := newTestDB(t)
	r := New(db)
	ctx := context.Background()
	student := seedStudent(t, db, "S-2004", 0)

	addTuitionPayment(t, db, student.ID, "1402/1", 1000, time.Date(1402, 1, 1, 0, 0, 0, 0, time.UTC))
	addTuitionPayment(t, db, student.ID, "1402/12", 2000, time.Date(1402, 12, 29, 0, 0, 0, 0, time.UTC))
	// Dated exactly on the boundary: belongs to the next year.
	addTuitionPayment(t, db, student.ID, "1403/1", 5000, time.Date(1403, 1, 1, 0, 0, 0, 0, time.UTC))

	report, err := r.AnnualTuitionReport(ctx, 1402)
	if err != nil {
		t.Fatalf("AnnualTuitionReport: %v", err)
	}
	if report.TotalPaid != 3000 || report.PaymentCount != 2 {
		t.Errorf("report = %v/%d, want 3000/2 (boundary payment excluded)", report.TotalPaid, report.PaymentCount)
	}
}

func TestTeacherStatusPerPeriod(t *testing.T) {
	db := newTestDB(t)
	r := New(db)
	ctx := context.Background()
	teacher := seedTeacher(t, db, "نظری", 10000)

	tests := []struct {
		name   string
		amount float64
		want   string
	}{
		{"fully paid", 10000, reconcile.StatusPaid},
		{"partial", 4000, reconcile.StatusPartial},
		{"unpaid", 0, reconcile.StatusUnpaid},
	}
	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			installment := fmt.Sprintf("1402/%d", i+1)
			if tt.amount > 0 {
				addSalaryPayment(t, db, teacher.ID, installment, tt.amount, time.Date(1402, time.Month(i+1), 5, 0, 0, 0, 0, time.UTC))
			}
			report, err := r.TeacherStatus(ctx, teacher.ID, installment)
			if err != nil {
				t.Fatalf("TeacherStatus: %v", err)
			}
			if report.Status != tt.want {
				t.Errorf("Status = %q, want %q", report.Status, tt.want)
			}
			if report.TotalPaid != tt.amount {
				t.Errorf("TotalPaid = %v, want %v", report.TotalPaid, tt.amount)
			}
			if report.Remaining != 10000-tt.amount {
				t.Errorf("Remaining = %v, want %v", report.Remaining, 10000-tt.amount)
			}
		})
	}

	if _, err := r.TeacherStatus(ctx, 9999, ""); !errors.Is(err, ledger.ErrNotFound) {
		t.Errorf("unknown teacher error = %v, want ErrNotFound", err)
	}
}

func TestMonthlySalaryReport(t *testing.T) {
	db := newTestDB(t)
	r := New(db)
	ctx := context.Background()

	paid := seedTeacher(t, db, "احمدی", 8000)
	partial := seedTeacher(t, db, "حسینی", 10000)
	unpaid := seedTeacher(t, db, "واحدی", 6000)

	addSalaryPayment(t, db, paid.ID, "1402/5", 8000, time.Date(1402, 5, 3, 0, 0, 0, 0, time.UTC))
	addSalaryPayment(t, db, partial.ID, "1402/5", 4000, time.Date(1402, 5, 4, 0, 0, 0, 0, time.UTC))
	// A payment in another installment must not leak into month 5.
	addSalaryPayment(t, db, unpaid.ID, "1402/4", 6000, time.Date(1402, 4, 3, 0, 0, 0, 0, time.UTC))

	report, err := r.MonthlySalaryReport(ctx, 1402, 5)
	if err != nil {
		t.Fatalf("MonthlySalaryReport: %v", err)
	}

	if len(report.Teachers) != 3 {
		t.Fatalf("got %d teachers, want 3", len(report.Teachers))
	}
	if report.TotalMonthlySalary != 24000 {
		t.Errorf("TotalMonthlySalary = %v, want 24000", report.TotalMonthlySalary)
	}
	if report.TotalPaidAmount != 12000 {
		t.Errorf("TotalPaidAmount = %v, want 12000", report.TotalPaidAmount)
	}
	if report.PaidCount != 1 || report.PartialCount != 1 || report.UnpaidCount != 1 {
		t.Errorf("counts = %d/%d/%d, want 1/1/1", report.PaidCount, report.PartialCount, report.UnpaidCount)
	}

	statuses := map[uint]string{}
	for _, row := range report.Teachers {
		statuses[row.Teacher.ID] = row.Status
	}
	if statuses[paid.ID] != reconcile.StatusPaid {
		t.Errorf("paid teacher status = %q", statuses[paid.ID])
	}
	if statuses[partial.ID] != reconcile.StatusPartial {
		t.Errorf("partial teacher status = %q", statuses[partial.ID])
	}
	if statuses[unpaid.ID] != reconcile.StatusUnpaid {
		t.Errorf("unpaid teacher status = %q", statuses[unpaid.ID])
	}
}

func TestAnnualSalaryReportSkipsMalformedInstallments(t *testing.T) {
	db := newTestDB(t)
	r := New(db)
	ctx := context.Background()
	teacher := seedTeacher(t, db, "قادری", 1000)

	addSalaryPayment(t, db, teacher.ID, "1402/1", 1000, time.Date(1402, 1, 5, 0, 0, 0, 0, time.UTC))
	addSalaryPayment(t, db, teacher.ID, "1402/2", 1000, time.Date(1402, 2, 5, 0, 0, 0, 0, time.UTC))
	// Shares the "1402/" prefix but is not a well-formed key of that year:
	// excluded from the period-filtered report.
	addSalaryPayment(t, db, teacher.ID, "1402/13", 9999, time.Date(1402, 3, 5, 0, 0, 0, 0, time.UTC))

	report, err := r.AnnualSalaryReport(ctx, 1402)
	if err != nil {
		t.Fatalf("AnnualSalaryReport: %v", err)
	}
	if len(report.Teachers) != 1 {
		t.Fatalf("got %d teachers, want 1", len(report.Teachers))
	}
	row := report.Teachers[0]
	if row.TotalPaid != 2000 {
		t.Errorf("TotalPaid = %v, want 2000 (malformed key excluded)", row.TotalPaid)
	}
	if row.AnnualSalary != 12000 {
		t.Errorf("AnnualSalary = %v, want 12000", row.AnnualSalary)
	}
	if row.Status != reconcile.StatusPartial {
		t.Errorf("Status = %q, want partial", row.Status)
	}
	if report.TotalAnnualSalary != 12000 {
		t.Errorf("TotalAnnualSalary = %v, want 12000", report.TotalAnnualSalary)
	}
}

func TestDashboardStats(t *testing.T) {
	db := newTestDB(t)
	r := New(db)
	ctx := context.Background()

	student := seedStudent(t, db, "S-2005", 0)
	seedTeacher(t, db, "صادقی", 5000)

	// Revenue covers the current year only; the older payment stays out of
	// it but still exists in the ledger.
	now := time.Now().UTC()
	addTuitionPayment(t, db, student.ID, periodKeyFor(now), 1200, now)
	addTuitionPayment(t, db, student.ID, "1402/1", 900, time.Date(1402, 1, 5, 0, 0, 0, 0, time.UTC))
	if err := db.Create(&models.Expense{
		Title: "کرایه", Amount: 700, Category: "اجاره", Month: 1, Year: 1402,
	}).Error; err != nil {
		t.Fatalf("seed expense: %v", err)
	}

	stats, err := r.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.Students != 1 || stats.Teachers != 1 || stats.Classes != 1 {
		t.Errorf("counts = %d/%d/%d, want 1/1/1", stats.Students, stats.Teachers, stats.Classes)
	}
	if stats.Revenue != 1200 {
		t.Errorf("Revenue = %v, want 1200 (current year only)", stats.Revenue)
	}
	if stats.TotalExpenses != 700 {
		t.Errorf("TotalExpenses = %v, want 700", stats.TotalExpenses)
	}
}

func periodKeyFor(tm time.Time) string {
	return period.Key(tm.Year(), int(tm.Month()))
}
