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

type studentInput struct {
	FirstName       string  `json:"firstName" binding:"required"`
	LastName        string  `json:"lastName" binding:"required"`
	FatherName      string  `json:"fatherName" binding:"required"`
	GrandfatherName string  `json:"grandfatherName" binding:"required"`
	StudentNumber   string  `json:"studentNumber" binding:"required"`
	BirthDate       string  `json:"birthDate" binding:"required"`
	Gender          string  `json:"gender" binding:"required,oneof=پسر دختر"`
	ParentPhone     string  `json:"parentPhone" binding:"required"`
	Address         string  `json:"address"`
	Status          string  `json:"status"`
	ClassID         uint    `json:"classId" binding:"required"`
	BaseFee         float64 `json:"baseFee" binding:"omitempty,gte=0"`
}

// ListStudentsHandler returns students with their class, paginated. Pass
// all=true for the full list.
func ListStudentsHandler(c *gin.Context) {
	query := config.DB.Preload("Class").Order("last_name, first_name")

	if c.Query("all") == "true" {
		var students []models.Student
		if err := query.Find(&students).Error; err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": students})
		return
	}

	var totalRows int64
	if err := config.DB.Model(&models.Student{}).Count(&totalRows).Error; err != nil {
		respondError(c, err)
		return
	}
	var students []models.Student
	if err := query.Scopes(Paginate(c)).Find(&students).Error; err != nil {
		respondError(c, err)
		return
	}
	if students == nil {
		students = make([]models.Student, 0)
	}
	c.JSON(http.StatusOK, CreatePaginatedResponse(c, students, totalRows))
}

func GetStudentHandler(c *gin.Context) {
	var student models.Student
	if err := config.DB.Preload("Class").First(&student, c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "student not found"})
			return
		}
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, student)
}

func CreateStudentHandler(c *gin.Context) {
	var input studentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var existing int64
	if err := config.DB.Model(&models.Student{}).
		Where("student_number = ?", input.StudentNumber).Count(&existing).Error; err != nil {
		respondError(c, err)
		return
	}
	if existing > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "student number already exists"})
		return
	}

	birthDate, err := time.Parse("2006-01-02", input.BirthDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid birth date, expected YYYY-MM-DD"})
		return
	}

	student := models.Student{
		FirstName:       input.FirstName,
		LastName:        input.LastName,
		FatherName:      input.FatherName,
		GrandfatherName: input.GrandfatherName,
		StudentNumber:   input.StudentNumber,
		BirthDate:       birthDate,
		Gender:          input.Gender,
		ParentPhone:     input.ParentPhone,
		Address:         input.Address,
		Status:          input.Status,
		ClassID:         input.ClassID,
		BaseFee:         input.BaseFee,
	}
	if student.Status == "" {
		student.Status = models.StudentActive
	}

	if err := config.DB.Create(&student).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "student number already exists"})
			return
		}
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, student)
}

func UpdateStudentHandler(c *gin.Context) {
	var student models.Student
	if err := config.DB.First(&student, c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "student not found"})
			return
		}
		respondError(c, err)
		return
	}

	// Partial update: absent fields keep their stored value.
	var input struct {
		FirstName       string   `json:"firstName"`
		LastName        string   `json:"lastName"`
		FatherName      string   `json:"fatherName"`
		GrandfatherName string   `json:"grandfatherName"`
		StudentNumber   string   `json:"studentNumber"`
		BirthDate       string   `json:"birthDate"`
		Gender          string   `json:"gender" binding:"omitempty,oneof=پسر دختر"`
		ParentPhone     string   `json:"parentPhone"`
		Address         *string  `json:"address"`
		Status          string   `json:"status" binding:"omitempty,oneof=فعال فارغ ترک‌تحصیل"`
		ClassID         uint     `json:"classId"`
		BaseFee         *float64 `json:"baseFee" binding:"omitempty,gte=0"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if input.StudentNumber != "" && input.StudentNumber != student.StudentNumber {
		var existing int64
		if err := config.DB.Model(&models.Student{}).
			Where("student_number = ?", input.StudentNumber).Count(&existing).Error; err != nil {
			respondError(c, err)
			return
		}
		if existing > 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "student number already exists"})
			return
		}
		student.StudentNumber = input.StudentNumber
	}
	if input.FirstName != "" {
		student.FirstName = input.FirstName
	}
	if input.LastName != "" {
		student.LastName = input.LastName
	}
	if input.FatherName != "" {
		student.FatherName = input.FatherName
	}
	if input.GrandfatherName != "" {
		student.GrandfatherName = input.GrandfatherName
	}
	if input.BirthDate != "" {
		birthDate, err := time.Parse("2006-01-02", input.BirthDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid birth date, expected YYYY-MM-DD"})
			return
		}
		student.BirthDate = birthDate
	}
	if input.Gender != "" {
		student.Gender = input.Gender
	}
	if input.ParentPhone != "" {
		student.ParentPhone = input.ParentPhone
	}
	if input.Address != nil {
		student.Address = *input.Address
	}
	if input.Status != "" {
		student.Status = input.Status
	}
	if input.ClassID != 0 {
		student.ClassID = input.ClassID
	}
	if input.BaseFee != nil {
		student.BaseFee = *input.BaseFee
	}

	if err := config.DB.Save(&student).Error; err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, student)
}

// DeleteStudentHandler removes a student together with all their tuition
// payments in one transaction.
func DeleteStudentHandler(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid student id"})
		return
	}

	if err := ledger.New(config.DB).DeleteStudentWithPayments(c.Request.Context(), uint(id)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "student removed"})
}

// ListStudentPaymentsHandler returns a student's payments, newest first.
func ListStudentPaymentsHandler(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid student id"})
		return
	}

	payments, err := ledger.New(config.DB).StudentPayments(c.Request.Context(), uint(id))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, payments)
}

// ListStudentsByClassHandler returns the students of one class.
func ListStudentsByClassHandler(c *gin.Context) {
	var students []models.Student
	err := config.DB.Preload("Class").
		Where("class_id = ?", c.Param("classId")).
		Order("last_name, first_name").
		Find(&students).Error
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, students)
}
