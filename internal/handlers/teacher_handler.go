package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mhnazary/school-managment-system/config"
	"github.com/mhnazary/school-managment-system/internal/ledger"
	"github.com/mhnazary/school-managment-system/models"
	"gorm.io/gorm"
)

type teacherInput struct {
	FirstName      string  `json:"firstName" binding:"required"`
	LastName       string  `json:"lastName" binding:"required"`
	FatherName     string  `json:"fatherName" binding:"required"`
	BirthDate      string  `json:"birthDate"`
	Specialization string  `json:"specialization" binding:"required"`
	Degree         string  `json:"degree" binding:"required"`
	Experience     int     `json:"experience" binding:"omitempty,gte=0"`
	MonthlySalary  float64 `json:"monthlySalary" binding:"required,gte=0"`
	Phone          string  `json:"phone" binding:"required"`
	Email          string  `json:"email" binding:"omitempty,email"`
	Address        string  `json:"address"`
}

func ListTeachersHandler(c *gin.Context) {
	var teachers []models.Teacher
	if err := config.DB.Order("last_name, first_name").Find(&teachers).Error; err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, teachers)
}

func GetTeacherHandler(c *gin.Context) {
	var teacher models.Teacher
	if err := config.DB.First(&teacher, c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "teacher not found"})
			return
		}
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, teacher)
}

func CreateTeacherHandler(c *gin.Context) {
	var input teacherInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	teacher := models.Teacher{
		FirstName:      input.FirstName,
		LastName:       input.LastName,
		FatherName:     input.FatherName,
		Specialization: input.Specialization,
		Degree:         input.Degree,
		Experience:     input.Experience,
		MonthlySalary:  input.MonthlySalary,
		Phone:          input.Phone,
		Email:          input.Email,
		Address:        input.Address,
	}
	if input.BirthDate != "" {
		birthDate, err := time.Parse("2006-01-02", input.BirthDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid birth date, expected YYYY-MM-DD"})
			return
		}
		teacher.BirthDate = birthDate
	}

	if err := config.DB.Create(&teacher).Error; err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, teacher)
}

func UpdateTeacherHandler(c *gin.Context) {
	var teacher models.Teacher
	if err := config.DB.First(&teacher, c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "teacher not found"})
			return
		}
		respondError(c, err)
		return
	}

	var input struct {
		FirstName      string   `json:"firstName"`
		LastName       string   `json:"lastName"`
		FatherName     string   `json:"fatherName"`
		BirthDate      string   `json:"birthDate"`
		Specialization string   `json:"specialization"`
		Degree         string   `json:"degree"`
		Experience     *int     `json:"experience" binding:"omitempty,gte=0"`
		MonthlySalary  *float64 `json:"monthlySalary" binding:"omitempty,gte=0"`
		Phone          string   `json:"phone"`
		Email          string   `json:"email" binding:"omitempty,email"`
		Address        *string  `json:"address"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if input.FirstName != "" {
		teacher.FirstName = input.FirstName
	}
	if input.LastName != "" {
		teacher.LastName = input.LastName
	}
	if input.FatherName != "" {
		teacher.FatherName = input.FatherName
	}
	if input.BirthDate != "" {
		birthDate, err := time.Parse("2006-01-02", input.BirthDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid birth date, expected YYYY-MM-DD"})
			return
		}
		teacher.BirthDate = birthDate
	}
	if input.Specialization != "" {
		teacher.Specialization = input.Specialization
	}
	if input.Degree != "" {
		teacher.Degree = input.Degree
	}
	if input.Experience != nil {
		teacher.Experience = *input.Experience
	}
	if input.MonthlySalary != nil {
		teacher.MonthlySalary = *input.MonthlySalary
	}
	if input.Phone != "" {
		teacher.Phone = input.Phone
	}
	if input.Email != "" {
		teacher.Email = input.Email
	}
	if input.Address != nil {
		teacher.Address = *input.Address
	}

	if err := config.DB.Save(&teacher).Error; err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, teacher)
}

// DeleteTeacherHandler removes a teacher. Salary payments are not cascaded;
// a teacher with recorded payments cannot be deleted so the ledger never
// holds payments for a missing teacher.
func DeleteTeacherHandler(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid teacher id"})
		return
	}

	hasPayments, err := ledger.New(config.DB).TeacherHasPayments(c.Request.Context(), uint(id))
	if err != nil {
		respondError(c, err)
		return
	}
	if hasPayments {
		c.JSON(http.StatusConflict, gin.H{"error": "teacher has recorded salary payments"})
		return
	}

	result := config.DB.Delete(&models.Teacher{}, id)
	if result.Error != nil {
		respondError(c, result.Error)
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "teacher not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "teacher removed"})
}

// ListTeacherPaymentsHandler returns a teacher's salary payments, newest first.
func ListTeacherPaymentsHandler(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid teacher id"})
		return
	}

	payments, err := ledger.New(config.DB).TeacherPayments(c.Request.Context(), uint(id))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, payments)
}
