// internal/routes/api_routes.go
package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/EugeneSemivolos/IvolTutor/internal/handlers"
)

// RegisterAPIRoutes регистрирует все маршруты API, требующие аутентификации.
func RegisterAPIRoutes(api *gin.RouterGroup) {
	api.GET("/auth/me", handlers.MeHandler)

	// --- УЧЕНИКИ ---
	students := api.Group("/students")
	{
		students.GET("/", handlers.ListStudentsHandler)
		students.POST("/", handlers.CreateStudentHandler)
		students.GET("/:id", handlers.GetStudentHandler)
		students.PUT("/:id", handlers.UpdateStudentHandler)
		students.DELETE("/:id", handlers.DeleteStudentHandler)
		students.GET("/:id/transactions", handlers.ListStudentTransactionsHandler)
		students.GET("/:id/transactions/export", handlers.ExportStudentTransactionsHandler)
	}

	// --- УРОКИ ---
	lessons := api.Group("/lessons")
	{
		lessons.GET("/", handlers.ListLessonsHandler)
		lessons.POST("/", handlers.CreateLessonHandler)
		lessons.PATCH("/series/:id", handlers.UpdateLessonSeriesHandler)
		lessons.GET("/:id", handlers.GetLessonHandler)
		lessons.PATCH("/:id", handlers.UpdateLessonHandler)
		lessons.DELETE("/:id", handlers.DeleteLessonHandler)
		lessons.POST("/:id/homeworks", handlers.UploadHomeworkHandler)
		lessons.GET("/:id/homeworks", handlers.ListLessonHomeworksHandler)
	}

	// --- ОПЛАТЫ ---
	payments := api.Group("/payments")
	{
		payments.POST("/", handlers.CreatePaymentHandler)
		payments.GET("/", handlers.ListPaymentsHandler)
	}

	// --- ДОМАШНИЕ ЗАДАНИЯ ---
	homeworks := api.Group("/homeworks")
	{
		homeworks.DELETE("/:id", handlers.DeleteHomeworkHandler)
	}
}
