// config/database.go
package config

import (
	"log/slog"
	"os"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/EugeneSemivolos/IvolTutor/models"
)

var DB *gorm.DB

// ConnectDB открывает соединение с Postgres по DB_URL.
// Без базы приложение бессмысленно, поэтому при ошибке завершаем работу.
func ConnectDB() {
	dsn := os.Getenv("DB_URL")
	if dsn == "" {
		slog.Error("Критическая ошибка: переменная окружения DB_URL не установлена.")
		os.Exit(1)
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		slog.Error("Ошибка подключения к БД", "error", err)
		os.Exit(1)
	}

	DB = db
	slog.Info("Успешное подключение к базе данных!")
}

// MigrateDB создает недостающие таблицы при старте.
func MigrateDB() {
	err := DB.AutoMigrate(
		&models.User{},
		&models.Student{},
		&models.Lesson{},
		&models.Transaction{},
		&models.Homework{},
	)
	if err != nil {
		slog.Error("Ошибка миграции схемы БД", "error", err)
		os.Exit(1)
	}
}
