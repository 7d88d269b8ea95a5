package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/mhnazary/school-managment-system/internal/handlers"
	"github.com/mhnazary/school-managment-system/internal/middleware"
)

// RegisterAPIRoutes registers every authenticated route. Mutations that
// change existing records are limited to the administrator role.
func RegisterAPIRoutes(api *gin.RouterGroup) {
	apiGroup := api.Group("/api")
	admin := middleware.RequireAdministrator()
	{
		auth := apiGroup.Group("/auth")
		{
			auth.GET("/me", handlers.MeHandler)
		}

		users := apiGroup.Group("/users")
		{
			users.PUT("/password/:userType", handlers.ChangePasswordHandler)
		}

		classes := apiGroup.Group("/classes")
		{
			classes.GET("", handlers.ListClassesHandler)
			classes.GET("/:id", handlers.GetClassHandler)
			classes.POST("", handlers.CreateClassHandler)
			classes.PUT("/:id", admin, handlers.UpdateClassHandler)
			classes.DELETE("/:id", admin, handlers.DeleteClassHandler)
		}

		students := apiGroup.Group("/students")
		{
			students.GET("", handlers.ListStudentsHandler)
			students.GET("/:id", handlers.GetStudentHandler)
			students.POST("", handlers.CreateStudentHandler)
			students.PUT("/:id", admin, handlers.UpdateStudentHandler)
			students.DELETE("/:id", admin, handlers.DeleteStudentHandler)
			students.GET("/:id/payments", handlers.ListStudentPaymentsHandler)
			students.GET("/class/:classId", handlers.ListStudentsByClassHandler)
		}

		teachers := apiGroup.Group("/teachers")
		{
			teachers.GET("", handlers.ListTeachersHandler)
			teachers.GET("/:id", handlers.GetTeacherHandler)
			teachers.POST("", handlers.CreateTeacherHandler)
			teachers.PUT("/:id", admin, handlers.UpdateTeacherHandler)
			teachers.DELETE("/:id", admin, handlers.DeleteTeacherHandler)
			teachers.GET("/:id/payments", handlers.ListTeacherPaymentsHandler)
		}

		payments := apiGroup.Group("/payments")
		{
			payments.POST("", handlers.CreateTuitionPaymentHandler)
			payments.PUT("/:id", admin, handlers.UpdateTuitionPaymentHandler)
			payments.DELETE("/:id", admin, handlers.DeleteTuitionPaymentHandler)
			payments.GET("/student/:studentId/status", handlers.StudentStatusHandler)
			payments.GET("/student/:studentId/payments-by-month", handlers.StudentPaymentsByMonthHandler)
			payments.GET("/reports/monthly", handlers.MonthlyTuitionReportHandler)
			payments.GET("/reports/annual", handlers.AnnualTuitionReportHandler)
		}

		salaries := apiGroup.Group("/salary-payments")
		{
			salaries.POST("", handlers.CreateSalaryPaymentHandler)
			salaries.PUT("/:id", admin, handlers.UpdateSalaryPaymentHandler)
			salaries.DELETE("/:id", admin, handlers.DeleteSalaryPaymentHandler)
			salaries.GET("/teacher/:teacherId/status", handlers.TeacherStatusHandler)
			salaries.GET("/teacher/:teacherId/payments-by-month", handlers.TeacherPaymentsByMonthHandler)
			salaries.GET("/reports/monthly", handlers.MonthlySalaryReportHandler)
			salaries.GET("/reports/annual", handlers.AnnualSalaryReportHandler)
			salaries.GET("/reports/monthly/export", handlers.ExportMonthlySalaryReportHandler)
		}

		expenses := apiGroup.Group("/expenses")
		{
			expenses.GET("", handlers.ListExpensesHandler)
			expenses.GET("/:id", handlers.GetExpenseHandler)
			expenses.POST("", handlers.CreateExpenseHandler)
			expenses.PUT("/:id", admin, handlers.UpdateExpenseHandler)
			expenses.DELETE("/:id", admin, handlers.DeleteExpenseHandler)
		}

		dashboard := apiGroup.Group("/dashboard")
		{
			dashboard.GET("/stats", handlers.DashboardStatsHandler)
			dashboard.GET("/recent-payments", handlers.RecentPaymentsHandler)
		}
	}
}
