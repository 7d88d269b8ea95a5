package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mhnazary/school-managment-system/config"
	"github.com/mhnazary/school-managment-system/internal/ledger"
	"github.com/mhnazary/school-managment-system/internal/middleware"
	"github.com/mhnazary/school-managment-system/internal/period"
	"github.com/mhnazary/school-managment-system/internal/reports"
)

type tuitionPaymentInput struct {
	StudentID   uint    `json:"studentId" binding:"required"`
	Installment string  `json:"installment" binding:"required,period"`
	Amount      float64 `json:"amount" binding:"required"`
	Method      string  `json:"method" binding:"required,paymethod"`
	PaymentType string  `json:"paymentType" binding:"omitempty,oneof=شهریه پایه"`
	Description string  `json:"description"`
	PaymentDate string  `json:"paymentDate"`
}

// CreateTuitionPaymentHandler records a tuition payment. Partial payments for
// the same installment accumulate.
func CreateTuitionPaymentHandler(c *gin.Context) {
	var input tuitionPaymentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var date time.Time
	if input.PaymentDate != "" {
		parsed, err := time.Parse("2006-01-02", input.PaymentDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payment date, expected YYYY-MM-DD"})
			return
		}
		date = parsed
	}

	principal, ok := middleware.CurrentPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	payment, err := ledger.New(config.DB).RecordTuitionPayment(c.Request.Context(), ledger.TuitionPaymentInput{
		StudentID:    input.StudentID,
		Installment:  input.Installment,
		Amount:       input.Amount,
		Date:         date,
		Method:       input.Method,
		PaymentType:  input.PaymentType,
		Description:  input.Description,
		RecordedByID: principal.UserID,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, payment)
}

// UpdateTuitionPaymentHandler edits a recorded payment. Administrator only.
func UpdateTuitionPaymentHandler(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payment id"})
		return
	}

	var input struct {
		Installment string  `json:"installment" binding:"omitempty,period"`
		Amount      float64 `json:"amount" binding:"omitempty,gt=0"`
		Method      string  `json:"method" binding:"omitempty,paymethod"`
		Description string  `json:"description"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	payment, err := ledger.New(config.DB).UpdateTuitionPayment(c.Request.Context(), uint(id), ledger.TuitionPaymentUpdate{
		Installment: input.Installment,
		Amount:      input.Amount,
		Method:      input.Method,
		Description: input.Description,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, payment)
}

// DeleteTuitionPaymentHandler removes a payment. Administrator only.
func DeleteTuitionPaymentHandler(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payment id"})
		return
	}
	if err := ledger.New(config.DB).DeleteTuitionPayment(c.Request.Context(), uint(id)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "payment removed"})
}

// StudentStatusHandler reports a student's payment standing. With month and
// year query parameters the window is that month (filtered on payment date),
// otherwise every payment counts.
func StudentStatusHandler(c *gin.Context) {
	studentID, err := strconv.ParseUint(c.Param("studentId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid student id"})
		return
	}

	monthStr, yearStr := c.Query("month"), c.Query("year")
	r := reports.New(config.DB)

	if monthStr == "" && yearStr == "" {
		report, err := r.StudentOverallStatus(c.Request.Context(), uint(studentID))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, report)
		return
	}

	year, month, ok := yearMonthParams(c, yearStr, monthStr)
	if !ok {
		return
	}
	report, err := r.StudentMonthlyStatus(c.Request.Context(), uint(studentID), year, month)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// StudentPaymentsByMonthHandler lists a student's payments whose installment
// equals the canonical key for the requested month.
func StudentPaymentsByMonthHandler(c *gin.Context) {
	studentID, err := strconv.ParseUint(c.Param("studentId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid student id"})
		return
	}
	year, month, ok := yearMonthParams(c, c.Query("year"), c.Query("month"))
	if !ok {
		return
	}

	payments, err := ledger.New(config.DB).StudentPaymentsForPeriod(
		c.Request.Context(), uint(studentID), period.Key(year, month))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, payments)
}

// MonthlyTuitionReportHandler totals tuition payments dated in one month.
func MonthlyTuitionReportHandler(c *gin.Context) {
	year, month, ok := yearMonthParams(c, c.Query("year"), c.Query("month"))
	if !ok {
		return
	}
	report, err := reports.New(config.DB).MonthlyTuitionReport(c.Request.Context(), year, month)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// AnnualTuitionReportHandler totals tuition payments dated in one year.
func AnnualTuitionReportHandler(c *gin.Context) {
	year, ok := yearParam(c, c.Query("year"))
	if !ok {
		return
	}
	report, err := reports.New(config.DB).AnnualTuitionReport(c.Request.Context(), year)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func yearMonthParams(c *gin.Context, yearStr, monthStr string) (year, month int, ok bool) {
	year, ok = parseIntParam(c, "year", yearStr)
	if !ok {
		return 0, 0, false
	}
	month, ok = parseIntParam(c, "month", monthStr)
	if !ok {
		return 0, 0, false
	}
	if month < 1 || month > 12 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "month must be between 1 and 12"})
		return 0, 0, false
	}
	return year, month, true
}

func yearParam(c *gin.Context, yearStr string) (int, bool) {
	return parseIntParam(c, "year", yearStr)
}

func parseIntParam(c *gin.Context, name, value string) (int, bool) {
	if value == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": name + " is required"})
		return 0, false
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return n, true
}
