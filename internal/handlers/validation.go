package handlers

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/mhnazary/school-managment-system/internal/period"
	"github.com/mhnazary/school-managment-system/models"
)

// RegisterValidators installs the domain validations used by binding tags:
// "period" for canonical installment keys and "paymethod" for the accepted
// payment methods. Called once at startup.
func RegisterValidators() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	v.RegisterValidation("period", func(fl validator.FieldLevel) bool {
		_, _, err := period.Parse(fl.Field().String())
		return err == nil
	})
	v.RegisterValidation("paymethod", func(fl validator.FieldLevel) bool {
		return models.ValidMethod(fl.Field().String())
	})
}
