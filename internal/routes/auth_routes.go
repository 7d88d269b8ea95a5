package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/mhnazary/school-managment-system/internal/handlers"
)

// RegisterAuthRoutes registers the public routes. Everything else sits
// behind the token check.
func RegisterAuthRoutes(r *gin.Engine) {
	r.POST("/api/auth/login", handlers.LoginHandler)
}
