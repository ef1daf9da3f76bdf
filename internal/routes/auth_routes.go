// internal/routes/auth_routes.go
package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/EugeneSemivolos/IvolTutor/internal/handlers"
)

// RegisterAuthRoutes регистрирует публичные маршруты аутентификации.
func RegisterAuthRoutes(r *gin.Engine) {
	auth := r.Group("/auth")
	{
		auth.POST("/signup", handlers.SignupHandler)
		auth.POST("/login", handlers.LoginHandler)
	}
}
