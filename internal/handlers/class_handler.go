package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mhnazary/school-managment-system/config"
	"github.com/mhnazary/school-managment-system/models"
	"gorm.io/gorm"
)

type classInput struct {
	Name         string `json:"name" binding:"required"`
	AcademicYear string `json:"academicYear" binding:"required"`
	TeacherID    *uint  `json:"teacherId"`
}

// ListClassesHandler returns every class with its assigned teacher.
func ListClassesHandler(c *gin.Context) {
	var classes []models.Class
	if err := config.DB.Preload("Teacher").Order("academic_year DESC, name").Find(&classes).Error; err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, classes)
}

func GetClassHandler(c *gin.Context) {
	var class models.Class
	if err := config.DB.Preload("Teacher").First(&class, c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "class not found"})
			return
		}
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, class)
}

func CreateClassHandler(c *gin.Context) {
	var input classInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	class := models.Class{
		Name:         input.Name,
		AcademicYear: input.AcademicYear,
		TeacherID:    input.TeacherID,
	}
	if err := config.DB.Create(&class).Error; err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, class)
}

func UpdateClassHandler(c *gin.Context) {
	var class models.Class
	if err := config.DB.First(&class, c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "class not found"})
			return
		}
		respondError(c, err)
		return
	}

	var input classInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	class.Name = input.Name
	class.AcademicYear = input.AcademicYear
	class.TeacherID = input.TeacherID
	if err := config.DB.Save(&class).Error; err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, class)
}

// DeleteClassHandler removes a class. A class that still has students cannot
// be deleted.
func DeleteClassHandler(c *gin.Context) {
	id := c.Param("id")

	var studentCount int64
	if err := config.DB.Model(&models.Student{}).Where("class_id = ?", id).Count(&studentCount).Error; err != nil {
		respondError(c, err)
		return
	}
	if studentCount > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot delete class with students"})
		return
	}

	result := config.DB.Delete(&models.Class{}, id)
	if result.Error != nil {
		respondError(c, result.Error)
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "class not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "class removed"})
}
