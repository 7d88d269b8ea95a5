package models

import "gorm.io/gorm"

// Class is a school class for one academic year.
type Class struct {
	gorm.Model
	Name         string   `json:"name" gorm:"not null"`
	AcademicYear string   `json:"academicYear" gorm:"not null"`
	TeacherID    *uint    `json:"teacherId"`
	Teacher      *Teacher `json:"teacher,omitempty" gorm:"foreignKey:TeacherID"`
}
