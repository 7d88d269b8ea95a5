package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/mhnazary/school-managment-system/config"
	"github.com/mhnazary/school-managment-system/internal/ledger"
	"github.com/mhnazary/school-managment-system/internal/middleware"
	"github.com/mhnazary/school-managment-system/internal/period"
	"github.com/mhnazary/school-managment-system/internal/reports"
	"github.com/xuri/excelize/v2"
)

type salaryPaymentInput struct {
	TeacherID   uint    `json:"teacherId" binding:"required"`
	Installment string  `json:"installment" binding:"required,period"`
	Amount      float64 `json:"amount" binding:"required"`
	Method      string  `json:"method" binding:"required,paymethod"`
}

// CreateSalaryPaymentHandler records a salary payment. At most one payment
// may exist per (teacher, installment).
func CreateSalaryPaymentHandler(c *gin.Context) {
	var input salaryPaymentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	principal, ok := middleware.CurrentPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	payment, err := ledger.New(config.DB).RecordSalaryPayment(c.Request.Context(), ledger.SalaryPaymentInput{
		TeacherID:    input.TeacherID,
		Installment:  input.Installment,
		Amount:       input.Amount,
		Method:       input.Method,
		RecordedByID: principal.UserID,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, payment)
}

// UpdateSalaryPaymentHandler edits a recorded payment. Administrator only.
func UpdateSalaryPaymentHandler(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payment id"})
		return
	}

	var input struct {
		Installment string  `json:"installment" binding:"omitempty,period"`
		Amount      float64 `json:"amount" binding:"omitempty,gt=0"`
		Method      string  `json:"method" binding:"omitempty,paymethod"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	payment, err := ledger.New(config.DB).UpdateSalaryPayment(c.Request.Context(), uint(id), ledger.SalaryPaymentUpdate{
		Installment: input.Installment,
		Amount:      input.Amount,
		Method:      input.Method,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, payment)
}

// DeleteSalaryPaymentHandler removes a payment. Administrator only.
func DeleteSalaryPaymentHandler(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payment id"})
		return
	}
	if err := ledger.New(config.DB).DeleteSalaryPayment(c.Request.Context(), uint(id)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "payment removed"})
}

// TeacherStatusHandler reports a teacher's salary standing. With month and
// year the window is that installment; otherwise every payment on record
// counts against one monthly salary.
func TeacherStatusHandler(c *gin.Context) {
	teacherID, err := strconv.ParseUint(c.Param("teacherId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid teacher id"})
		return
	}

	var periodKey string
	if c.Query("month") != "" || c.Query("year") != "" {
		year, month, ok := yearMonthParams(c, c.Query("year"), c.Query("month"))
		if !ok {
			return
		}
		periodKey = period.Key(year, month)
	}

	report, err := reports.New(config.DB).TeacherStatus(c.Request.Context(), uint(teacherID), periodKey)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// TeacherPaymentsByMonthHandler lists a teacher's salary payments whose
// installment equals the canonical key for the requested month.
func TeacherPaymentsByMonthHandler(c *gin.Context) {
	teacherID, err := strconv.ParseUint(c.Param("teacherId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid teacher id"})
		return
	}
	year, month, ok := yearMonthParams(c, c.Query("year"), c.Query("month"))
	if !ok {
		return
	}

	payments, err := ledger.New(config.DB).TeacherPaymentsForPeriod(
		c.Request.Context(), uint(teacherID), period.Key(year, month))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, payments)
}

// MonthlySalaryReportHandler classifies every teacher for one installment.
func MonthlySalaryReportHandler(c *gin.Context) {
	year, month, ok := yearMonthParams(c, c.Query("year"), c.Query("month"))
	if !ok {
		return
	}
	report, err := reports.New(config.DB).MonthlySalaryReport(c.Request.Context(), year, month)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// AnnualSalaryReportHandler classifies every teacher over a whole year.
func AnnualSalaryReportHandler(c *gin.Context) {
	year, ok := yearParam(c, c.Query("year"))
	if !ok {
		return
	}
	report, err := reports.New(config.DB).AnnualSalaryReport(c.Request.Context(), year)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// ExportMonthlySalaryReportHandler writes the monthly salary report as an
// xlsx download.
func ExportMonthlySalaryReportHandler(c *gin.Context) {
	year, month, ok := yearMonthParams(c, c.Query("year"), c.Query("month"))
	if !ok {
		return
	}
	report, err := reports.New(config.DB).MonthlySalaryReport(c.Request.Context(), year, month)
	if err != nil {
		respondError(c, err)
		return
	}

	f := excelize.NewFile()
	sheetName := "معاشات"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		respondError(c, err)
		return
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headers := []string{"نام", "تخلص", "معاش ماهانه", "پرداخت‌شده", "باقی‌مانده", "وضعیت"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, header)
	}
	for i, row := range report.Teachers {
		rowNum := i + 2
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", rowNum), row.Teacher.FirstName)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", rowNum), row.Teacher.LastName)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", rowNum), row.Teacher.MonthlySalary)
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", rowNum), row.TotalPaid)
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", rowNum), row.Teacher.MonthlySalary-row.TotalPaid)
		f.SetCellValue(sheetName, fmt.Sprintf("F%d", rowNum), row.Status)
	}

	fileName := fmt.Sprintf("salary_report_%d_%d.xlsx", year, month)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename="+fileName)
	if err := f.Write(c.Writer); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to write excel file"})
	}
}
