// models/homework.go
package models

import "gorm.io/gorm"

// Homework — домашнее задание, прикрепленное к уроку.
type Homework struct {
	gorm.Model
	LessonID    uint   `json:"lesson_id" gorm:"not null;index"`
	Description string `json:"description"`

	// Путь к загруженному файлу на сервере. Пустой, если задание без файла.
	FilePath string `json:"file_path"`
}
