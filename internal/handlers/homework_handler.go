// internal/handlers/homework_handler.go
package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/EugeneSemivolos/IvolTutor/config"
	"github.com/EugeneSemivolos/IvolTutor/models"
)

// UploadHomeworkHandler прикрепляет домашнее задание к уроку. Описание
// берется из поля формы description, файл (опционально) — из поля file.
// Файл кладется в каталог вида <uploadRoot>/homeworks/<studentID>/<дата урока>/.
func UploadHomeworkHandler(c *gin.Context) {
	lessonID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Неверный ID урока"})
		return
	}

	var lesson models.Lesson
	if err := config.DB.First(&lesson, lessonID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Урок не найден"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при поиске урока"})
		return
	}

	description := c.PostForm("description")
	uploadDir := filepath.Join(uploadRoot(), "homeworks",
		strconv.Itoa(int(lesson.StudentID)), lesson.StartTime.Format("2006-01-02"))
	filePath, err := saveUploadedFile(c, "file", uploadDir)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось сохранить файл: " + err.Error()})
		return
	}
	if description == "" && filePath == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Задание должно содержать описание или файл"})
		return
	}

	homework := models.Homework{
		LessonID:    lesson.ID,
		Description: description,
		FilePath:    filePath,
	}
	if err := config.DB.Create(&homework).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось сохранить задание: " + err.Error()})
		return
	}

	c.JSON(http.StatusCreated, homework)
}

// ListLessonHomeworksHandler возвращает все задания урока.
func ListLessonHomeworksHandler(c *gin.Context) {
	lessonID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Неверный ID урока"})
		return
	}

	var lesson models.Lesson
	if err := config.DB.First(&lesson, lessonID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Урок не найден"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при поиске урока"})
		return
	}

	var homeworks []models.Homework
	if err := config.DB.Where("lesson_id = ?", lesson.ID).Order("id asc").Find(&homeworks).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось получить задания"})
		return
	}
	if homeworks == nil {
		homeworks = make([]models.Homework, 0)
	}
	c.JSON(http.StatusOK, homeworks)
}

// DeleteHomeworkHandler удаляет задание. Файл на диске подчищаем
// по возможности: если не вышло, записи в БД это не мешает.
func DeleteHomeworkHandler(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Неверный ID задания"})
		return
	}

	var homework models.Homework
	if err := config.DB.First(&homework, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Задание не найдено"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при поиске задания"})
		return
	}

	if err := config.DB.Delete(&homework).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось удалить задание"})
		return
	}

	if homework.FilePath != "" {
		localPath := strings.TrimPrefix(homework.FilePath, "/")
		if err := os.Remove(localPath); err != nil && !os.IsNotExist(err) {
			slog.Warn("Не удалось удалить файл задания", "path", localPath, "error", err)
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("Задание #%d удалено", homework.ID)})
}
