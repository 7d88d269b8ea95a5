package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/mhnazary/school-managment-system/config"
	"github.com/mhnazary/school-managment-system/internal/middleware"
	"github.com/mhnazary/school-managment-system/models"
	"gorm.io/gorm"
)

// ListExpensesHandler returns expenses, optionally filtered by month, year
// and category.
func ListExpensesHandler(c *gin.Context) {
	query := config.DB.WithContext(c.Request.Context()).Model(&models.Expense{})
	if month := c.Query("month"); month != "" {
		m, err := strconv.Atoi(month)
		if err != nil || m < 1 || m > 12 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid month"})
			return
		}
		query = query.Where("month = ?", m)
	}
	if year := c.Query("year"); year != "" {
		y, err := strconv.Atoi(year)
		if err != nil || y < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid year"})
			return
		}
		query = query.Where("year = ?", y)
	}
	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}

	var totalRows int64
	if err := query.Count(&totalRows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to count expenses"})
		return
	}

	var expenses []models.Expense
	err := query.Scopes(Paginate(c)).
		Preload("RecordedBy").
		Order("year DESC, month DESC, id DESC").
		Find(&expenses).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch expenses"})
		return
	}
	c.JSON(http.StatusOK, CreatePaginatedResponse(c, expenses, totalRows))
}

// GetExpenseHandler returns a single expense by id.
func GetExpenseHandler(c *gin.Context) {
	var expense models.Expense
	err := config.DB.WithContext(c.Request.Context()).
		Preload("RecordedBy").
		First(&expense, c.Param("id")).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "expense not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch expense"})
		return
	}
	c.JSON(http.StatusOK, expense)
}

type expenseInput struct {
	Title       string  `json:"title" binding:"required"`
	Amount      float64 `json:"amount" binding:"required,gt=0"`
	Category    string  `json:"category" binding:"required"`
	Month       int     `json:"month" binding:"required,min=1,max=12"`
	Year        int     `json:"year" binding:"required,min=1"`
	Description string  `json:"description"`
}

// CreateExpenseHandler records an operating expense.
func CreateExpenseHandler(c *gin.Context) {
	var input expenseInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	principal, ok := middleware.CurrentPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	expense := models.Expense{
		Title:        input.Title,
		Amount:       input.Amount,
		Category:     input.Category,
		Month:        input.Month,
		Year:         input.Year,
		Description:  input.Description,
		RecordedByID: principal.UserID,
	}
	if err := config.DB.WithContext(c.Request.Context()).Create(&expense).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create expense"})
		return
	}
	c.JSON(http.StatusCreated, expense)
}

// UpdateExpenseHandler edits an expense. Administrator only.
func UpdateExpenseHandler(c *gin.Context) {
	var expense models.Expense
	err := config.DB.WithContext(c.Request.Context()).First(&expense, c.Param("id")).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "expense not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch expense"})
		return
	}

	var input struct {
		Title       string  `json:"title"`
		Amount      float64 `json:"amount" binding:"omitempty,gt=0"`
		Category    string  `json:"category"`
		Month       int     `json:"month" binding:"omitempty,min=1,max=12"`
		Year        int     `json:"year" binding:"omitempty,min=1"`
		Description *string `json:"description"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if input.Title != "" {
		expense.Title = input.Title
	}
	if input.Amount > 0 {
		expense.Amount = input.Amount
	}
	if input.Category != "" {
		expense.Category = input.Category
	}
	if input.Month != 0 {
		expense.Month = input.Month
	}
	if input.Year != 0 {
		expense.Year = input.Year
	}
	if input.Description != nil {
		expense.Description = *input.Description
	}

	if err := config.DB.WithContext(c.Request.Context()).Save(&expense).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update expense"})
		return
	}
	c.JSON(http.StatusOK, expense)
}

// DeleteExpenseHandler removes an expense. Administrator only.
func DeleteExpenseHandler(c *gin.Context) {
	result := config.DB.WithContext(c.Request.Context()).Delete(&models.Expense{}, c.Param("id"))
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete expense"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "expense not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "expense removed"})
}
