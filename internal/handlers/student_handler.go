// internal/handlers/student_handler.go
package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"github.com/EugeneSemivolos/IvolTutor/config"
	"github.com/EugeneSemivolos/IvolTutor/models"
)

// StudentRequest — входные данные для создания и обновления ученика.
// Баланс сюда намеренно не входит: он меняется только проводками по счету.
type StudentRequest struct {
	FullName        string  `json:"full_name" binding:"required"`
	ParentName      string  `json:"parent_name"`
	TelegramContact string  `json:"telegram_contact"`
	Comment         string  `json:"comment"`
	DefaultPrice    float64 `json:"default_price"`
}

func ListStudentsHandler(c *gin.Context) {
	query := config.DB.Model(&models.Student{})

	if search := c.Query("search"); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(full_name) LIKE ? OR LOWER(parent_name) LIKE ?", pattern, pattern)
	}

	var students []models.Student
	if err := query.Order("full_name asc").Find(&students).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось получить список учеников"})
		return
	}
	if students == nil {
		students = make([]models.Student, 0)
	}
	c.JSON(http.StatusOK, students)
}

func GetStudentHandler(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Неверный ID ученика"})
		return
	}

	var student models.Student
	if err := config.DB.First(&student, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Ученик не найден"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка получения данных ученика: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, student)
}

func CreateStudentHandler(c *gin.Context) {
	var req StudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Неверные данные: " + err.Error()})
		return
	}

	student := models.Student{
		FullName:        req.FullName,
		ParentName:      req.ParentName,
		TelegramContact: req.TelegramContact,
		Comment:         req.Comment,
		DefaultPrice:    req.DefaultPrice,
	}
	if err := config.DB.Create(&student).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось создать ученика: " + err.Error()})
		return
	}
	c.JSON(http.StatusCreated, student)
}

func UpdateStudentHandler(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Неверный ID ученика"})
		return
	}

	var student models.Student
	if err := config.DB.First(&student, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Ученик не найден"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при поиске ученика"})
		return
	}

	var req StudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Неверные данные: " + err.Error()})
		return
	}

	student.FullName = req.FullName
	student.ParentName = req.ParentName
	student.TelegramContact = req.TelegramContact
	student.Comment = req.Comment
	// Новая цена по умолчанию действует только на будущие уроки:
	// цена уже созданных уроков зафиксирована.
	student.DefaultPrice = req.DefaultPrice

	if err := config.DB.Save(&student).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось обновить ученика: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, student)
}

// DeleteStudentHandler мягко удаляет ученика вместе с его уроками.
// Журнал транзакций не трогаем — финансовая история остается.
func DeleteStudentHandler(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Неверный ID ученика"})
		return
	}

	var student models.Student
	if err := config.DB.First(&student, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Ученик не найден"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при поиске ученика"})
		return
	}

	err = config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("student_id = ?", student.ID).Delete(&models.Lesson{}).Error; err != nil {
			return err
		}
		return tx.Delete(&student).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось удалить ученика: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Ученик удален"})
}

// ListStudentTransactionsHandler возвращает журнал транзакций ученика с пагинацией.
func ListStudentTransactionsHandler(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Неверный ID ученика"})
		return
	}

	var student models.Student
	if err := config.DB.First(&student, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Ученик не найден"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при поиске ученика"})
		return
	}

	query := config.DB.Model(&models.Transaction{}).Where("student_id = ?", student.ID)

	var totalRows int64
	if err := query.Count(&totalRows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось посчитать транзакции"})
		return
	}

	var transactions []models.Transaction
	if err := query.Order("date desc, id desc").Scopes(Paginate(c)).Find(&transactions).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось получить журнал транзакций"})
		return
	}
	if transactions == nil {
		transactions = make([]models.Transaction, 0)
	}

	c.JSON(http.StatusOK, CreatePaginatedResponse(c, transactions, totalRows))
}

// ExportStudentTransactionsHandler выгружает журнал ученика в xlsx.
func ExportStudentTransactionsHandler(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Неверный ID ученика"})
		return
	}

	var student models.Student
	if err := config.DB.First(&student, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Ученик не найден"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при поиске ученика"})
		return
	}

	var transactions []models.Transaction
	if err := config.DB.Where("student_id = ?", student.ID).Order("date asc, id asc").Find(&transactions).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось получить журнал транзакций"})
		return
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	headers := []string{"Дата", "Сумма", "Комментарий"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}
	for row, t := range transactions {
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row+2), t.Date.Format("02.01.2006"))
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row+2), t.Amount)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row+2), t.Comment)
	}
	// Итоговая строка: сумма журнала. Должна совпадать с кэшем баланса.
	f.SetCellValue(sheet, fmt.Sprintf("A%d", len(transactions)+3), "Баланс")
	f.SetCellValue(sheet, fmt.Sprintf("B%d", len(transactions)+3), student.Balance)

	fileName := fmt.Sprintf("transactions_student_%d.xlsx", student.ID)
	c.Header("Content-Disposition", `attachment; filename="`+fileName+`"`)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := f.Write(c.Writer); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось сформировать файл"})
		return
	}
}
