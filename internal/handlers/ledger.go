// internal/handlers/ledger.go
package handlers

import (
	"time"

	"gorm.io/gorm"

	"github.com/EugeneSemivolos/IvolTutor/models"
)

// postLedgerEntry атомарно проводит сумму по счету ученика: создает запись
// в журнале транзакций и сдвигает кэшированный баланс на ту же величину.
// Обе операции обязаны жить в одной транзакции БД (tx), иначе баланс
// разъедется с журналом.
//
// Нулевая сумма — no-op: журнал не засоряем пустыми записями.
// Инкремент баланса выполняется выражением на стороне БД, а не
// read-modify-write в приложении, чтобы параллельные проводки
// сериализовались блокировкой строки.
func postLedgerEntry(tx *gorm.DB, studentID uint, amount float64, comment string, date time.Time) error {
	if amount == 0 {
		return nil
	}

	entry := models.Transaction{
		StudentID: studentID,
		Amount:    amount,
		Date:      date,
		Comment:   comment,
	}
	if err := tx.Create(&entry).Error; err != nil {
		return err
	}

	res := tx.Model(&models.Student{}).
		Where("id = ?", studentID).
		Update("balance", gorm.Expr("balance + ?", amount))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
