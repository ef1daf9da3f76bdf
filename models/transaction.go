// models/transaction.go
package models

import (
	"time"

	"gorm.io/gorm"
)

// Transaction — одна запись в журнале взаиморасчетов с учеником.
// Журнал append-only: записи никогда не изменяются и не удаляются,
// баланс ученика в любой момент равен их сумме.
type Transaction struct {
	gorm.Model
	StudentID uint      `json:"student_id" gorm:"not null;index"`
	Amount    float64   `json:"amount" gorm:"type:numeric(12,2);not null"`
	Date      time.Time `json:"date"`
	Comment   string    `json:"comment"`
}
