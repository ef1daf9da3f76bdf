// cmd/server/main.go
package main

import (
	"log/slog"
	"os"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/EugeneSemivolos/IvolTutor/config"
	"github.com/EugeneSemivolos/IvolTutor/internal/routes"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info("Файл .env не найден, используем переменные окружения")
	}

	config.LoadJWTKey()
	config.ConnectDB()
	config.ConnectRedis()
	config.MigrateDB()

	r := gin.Default()

	// CORS для фронтенда (Vite на 5173 по умолчанию).
	allowedOrigins := []string{"http://localhost:5173", "http://127.0.0.1:5173"}
	if originsEnv := os.Getenv("CORS_ORIGINS"); originsEnv != "" {
		allowedOrigins = strings.Split(originsEnv, ",")
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	// Загруженные файлы (домашние задания) раздаем как статику.
	r.Static("/static", "./static")

	routes.SetupRoutes(r)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8000"
	}
	slog.Info("Запуск сервера", "port", port)
	if err := r.Run(":" + port); err != nil {
		slog.Error("Сервер остановлен с ошибкой", "error", err)
		os.Exit(1)
	}
}
