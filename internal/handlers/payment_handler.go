// internal/handlers/payment_handler.go
package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/EugeneSemivolos/IvolTutor/config"
	"github.com/EugeneSemivolos/IvolTutor/models"
)

// CreatePaymentRequest — ручное внесение оплаты от ученика.
type CreatePaymentRequest struct {
	StudentID uint    `json:"student_id" binding:"required"`
	Amount    float64 `json:"amount" binding:"required"`
	Date      string  `json:"date"` // YYYY-MM-DD; пусто — сегодня
	Comment   string  `json:"comment"`
}

// CreatePaymentHandler записывает оплату в журнал и увеличивает баланс
// ученика. Оплата — обычная проводка по счету, уроков она не касается.
func CreatePaymentHandler(c *gin.Context) {
	var req CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Неверные данные: " + err.Error()})
		return
	}
	if req.Amount == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Сумма оплаты не может быть нулевой"})
		return
	}

	paymentTime := time.Now()
	if req.Date != "" {
		t, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Неверный формат даты. Используйте YYYY-MM-DD."})
			return
		}
		paymentTime = t
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

	comment := req.Comment
	if comment == "" {
		comment = "Оплата от ученика"
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		return postLedgerEntry(tx, student.ID, req.Amount, comment, paymentTime)
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось сохранить оплату: " + err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Оплата успешно добавлена"})
}

// ListPaymentsHandler возвращает журнал транзакций с пагинацией,
// опционально по одному ученику.
func ListPaymentsHandler(c *gin.Context) {
	query := config.DB.Model(&models.Transaction{})

	if studentIDStr := c.Query("student_id"); studentIDStr != "" {
		studentID, err := strconv.ParseUint(studentIDStr, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Неверный ID ученика"})
			return
		}
		query = query.Where("student_id = ?", studentID)
	}

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
