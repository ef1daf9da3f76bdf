// internal/routes/router.go
package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/EugeneSemivolos/IvolTutor/internal/middleware"
)

// SetupRoutes инициализирует все маршруты приложения.
func SetupRoutes(r *gin.Engine) {
	// Публичные маршруты: регистрация и вход.
	RegisterAuthRoutes(r)

	// Все остальное доступно только с валидным bearer-токеном.
	authRequired := r.Group("/")
	authRequired.Use(middleware.AuthMiddleware())
	{
		RegisterAPIRoutes(authRequired)
	}
}
