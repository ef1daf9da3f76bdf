// models/lesson.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Статусы урока. Любой переход между статусами допустим,
// в том числе completed -> planned (исправление ошибочной отметки).
const (
	LessonStatusPlanned   = "planned"
	LessonStatusCompleted = "completed"
	LessonStatusCancelled = "cancelled"
)

// Lesson — одно занятие с учеником.
type Lesson struct {
	gorm.Model
	StudentID uint      `json:"student_id" gorm:"not null;index"`
	StartTime time.Time `json:"start_time" gorm:"not null"`
	EndTime   time.Time `json:"end_time" gorm:"not null"`
	Topic     string    `json:"topic"`
	Status    string    `json:"status" gorm:"not null;default:planned;index"`

	// Цена фиксируется при создании урока и дальше живет своей жизнью:
	// изменение default_price ученика на уже созданные уроки не влияет.
	Price float64 `json:"price" gorm:"type:numeric(12,2);not null"`

	// Общий идентификатор для уроков, созданных как еженедельная серия.
	SeriesID *uuid.UUID `json:"series_id" gorm:"type:uuid;index"`

	Student   *Student   `json:"student,omitempty" gorm:"foreignKey:StudentID"`
	Homeworks []Homework `json:"homeworks,omitempty" gorm:"foreignKey:LessonID"`
}

// IsValidLessonStatus проверяет, что строка является одним из известных статусов.
func IsValidLessonStatus(s string) bool {
	switch s {
	case LessonStatusPlanned, LessonStatusCompleted, LessonStatusCancelled:
		return true
	}
	return false
}
