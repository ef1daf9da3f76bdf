// internal/handlers/lesson_handler.go
package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/EugeneSemivolos/IvolTutor/config"
	"github.com/EugeneSemivolos/IvolTutor/models"
)

// CreateLessonRequest — входные данные для создания урока.
// Если price не указана, берется default_price ученика.
// repeat_weeks > 1 создает еженедельную серию из N уроков с общим series_id.
type CreateLessonRequest struct {
	StudentID   uint      `json:"student_id" binding:"required"`
	StartTime   time.Time `json:"start_time" binding:"required"`
	EndTime     time.Time `json:"end_time" binding:"required"`
	Topic       string    `json:"topic"`
	Price       *float64  `json:"price"`
	RepeatWeeks int       `json:"repeat_weeks"`
}

// UpdateLessonRequest — частичное обновление урока. Поля-указатели:
// отсутствующее в JSON поле остается нетронутым.
type UpdateLessonRequest struct {
	StartTime *time.Time `json:"start_time"`
	EndTime   *time.Time `json:"end_time"`
	Topic     *string    `json:"topic"`
	Status    *string    `json:"status"`
	Price     *float64   `json:"price"`
}

const maxRepeatWeeks = 52

// ListLessonsHandler возвращает уроки, опционально отфильтрованные по окну
// времени (from/to, RFC3339) и по ученику. Это лента календаря на фронтенде.
func ListLessonsHandler(c *gin.Context) {
	query := config.DB.Model(&models.Lesson{}).Order("start_time asc")

	if fromStr := c.Query("from"); fromStr != "" {
		from, err := time.Parse(time.RFC3339, fromStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Неверный формат параметра from, ожидается RFC3339"})
			return
		}
		query = query.Where("start_time >= ?", from)
	}
	if toStr := c.Query("to"); toStr != "" {
		to, err := time.Parse(time.RFC3339, toStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Неверный формат параметра to, ожидается RFC3339"})
			return
		}
		query = query.Where("start_time < ?", to)
	}
	if studentIDStr := c.Query("student_id"); studentIDStr != "" {
		studentID, err := strconv.ParseUint(studentIDStr, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Неверный ID ученика"})
			return
		}
		query = query.Where("student_id = ?", studentID)
	}

	var lessons []models.Lesson
	if err := query.Find(&lessons).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось получить список уроков"})
		return
	}
	if lessons == nil {
		lessons = make([]models.Lesson, 0)
	}
	c.JSON(http.StatusOK, lessons)
}

// CreateLessonHandler создает урок либо еженедельную серию уроков.
func CreateLessonHandler(c *gin.Context) {
	var req CreateLessonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Неверные данные: " + err.Error()})
		return
	}
	if !req.StartTime.Before(req.EndTime) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Время начала урока должно быть раньше времени окончания"})
		return
	}
	if req.RepeatWeeks > maxRepeatWeeks {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Слишком длинная серия уроков"})
		return
	}

	var student models.Student
	if err := config.DB.First(&student, req.StudentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Ученик не найден"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при поиске ученика"})
		return
	}

	// Цена снимается с ученика один раз, при создании. Дальнейшие изменения
	// default_price на этот урок не влияют.
	price := student.DefaultPrice
	if req.Price != nil {
		price = *req.Price
	}

	var seriesID *uuid.UUID
	count := 1
	if req.RepeatWeeks > 1 {
		id := uuid.New()
		seriesID = &id
		count = req.RepeatWeeks
	}

	var lessons []models.Lesson
	for i := 0; i < count; i++ {
		offset := time.Duration(i) * 7 * 24 * time.Hour
		lessons = append(lessons, models.Lesson{
			StudentID: req.StudentID,
			StartTime: req.StartTime.Add(offset),
			EndTime:   req.EndTime.Add(offset),
			Topic:     req.Topic,
			Status:    models.LessonStatusPlanned,
			Price:     price,
			SeriesID:  seriesID,
		})
	}

	if err := config.DB.Create(&lessons).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось создать урок: " + err.Error()})
		return
	}

	if count == 1 {
		c.JSON(http.StatusCreated, lessons[0])
		return
	}
	c.JSON(http.StatusCreated, lessons)
}

// GetLessonHandler возвращает урок вместе с домашними заданиями.
func GetLessonHandler(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Неверный ID урока"})
		return
	}

	var lesson models.Lesson
	if err := config.DB.Preload("Homeworks").First(&lesson, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Урок не найден"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при поиске урока"})
		return
	}
	c.JSON(http.StatusOK, lesson)
}

// UpdateLessonHandler частично обновляет урок. Смена статуса или цены
// проведенного урока проводится по счету ученика в той же транзакции,
// что и сохранение урока (см. applyLessonStatusChange).
func UpdateLessonHandler(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Неверный ID урока"})
		return
	}

	var req UpdateLessonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Неверные данные: " + err.Error()})
		return
	}
	if req.Status != nil && !models.IsValidLessonStatus(*req.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Неизвестный статус урока: " + *req.Status})
		return
	}

	var lesson models.Lesson
	if err := config.DB.First(&lesson, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Урок не найден"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при поиске урока"})
		return
	}

	// Снимаем старые значения ДО перезаписи полей: от них зависит,
	// что именно проводить по счету.
	oldStatus := lesson.Status
	oldPrice := lesson.Price

	if req.StartTime != nil {
		lesson.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		lesson.EndTime = *req.EndTime
	}
	if req.Topic != nil {
		lesson.Topic = *req.Topic
	}
	if req.Status != nil {
		lesson.Status = *req.Status
	}
	if req.Price != nil {
		lesson.Price = *req.Price
	}

	if !lesson.StartTime.Before(lesson.EndTime) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Время начала урока должно быть раньше времени окончания"})
		return
	}

	err = config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&lesson).Error; err != nil {
			return err
		}
		return applyLessonStatusChange(tx, &lesson, oldStatus, oldPrice)
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось обновить урок: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, lesson)
}

// UpdateLessonSeriesHandler переносит еще не проведенные уроки серии вслед
// за целевым уроком. Сам целевой урок здесь не меняется — его обновляет
// обычный PATCH /lessons/:id, этот эндпоинт только тиражирует сдвиг.
func UpdateLessonSeriesHandler(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Неверный ID урока"})
		return
	}

	var req UpdateLessonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Неверные данные: " + err.Error()})
		return
	}

	var target models.Lesson
	if err := config.DB.First(&target, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Урок не найден"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при поиске урока"})
		return
	}
	if target.SeriesID == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Урок не входит в серию"})
		return
	}

	// Сдвиги считаются от сохраненных значений целевого урока и применяются
	// независимо по полям: патч без start_time не трогает время начала братьев.
	var deltaStart, deltaEnd time.Duration
	if req.StartTime != nil {
		deltaStart = req.StartTime.Sub(target.StartTime)
	}
	if req.EndTime != nil {
		deltaEnd = req.EndTime.Sub(target.EndTime)
	}

	updated := 0
	err = config.DB.Transaction(func(tx *gorm.DB) error {
		var siblings []models.Lesson
		// Проведенные и отмененные уроки задним числом не переносим,
		// прошедшие даты серии тоже.
		err := tx.Where("series_id = ? AND id != ? AND status = ? AND start_time >= ?",
			target.SeriesID, target.ID, models.LessonStatusPlanned, target.StartTime).
			Find(&siblings).Error
		if err != nil {
			return err
		}

		for i := range siblings {
			if req.StartTime != nil {
				siblings[i].StartTime = siblings[i].StartTime.Add(deltaStart)
			}
			if req.EndTime != nil {
				siblings[i].EndTime = siblings[i].EndTime.Add(deltaEnd)
			}
			if req.Topic != nil {
				siblings[i].Topic = *req.Topic
			}
			if err := tx.Save(&siblings[i]).Error; err != nil {
				return err
			}
			updated++
		}
		return nil
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось обновить серию: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"updated": updated})
}

// DeleteLessonHandler удаляет урок. Если урок был проведен, его списание
// сторнируется, чтобы баланс остался равен сумме журнала.
func DeleteLessonHandler(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Неверный ID урока"})
		return
	}

	var lesson models.Lesson
	if err := config.DB.First(&lesson, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Урок не найден"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при поиске урока"})
		return
	}

	err = config.DB.Transaction(func(tx *gorm.DB) error {
		if lesson.Status == models.LessonStatusCompleted {
			comment := "Удаление проведенного урока #" + strconv.Itoa(int(lesson.ID))
			if err := postLedgerEntry(tx, lesson.StudentID, lesson.Price, comment, time.Now()); err != nil {
				return err
			}
		}
		if err := tx.Where("lesson_id = ?", lesson.ID).Delete(&models.Homework{}).Error; err != nil {
			return err
		}
		return tx.Delete(&lesson).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось удалить урок: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Урок удален"})
}
