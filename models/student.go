// models/student.go
package models

import "gorm.io/gorm"

// Student — карточка ученика репетитора.
type Student struct {
	gorm.Model
	FullName        string `json:"full_name" gorm:"not null"`
	ParentName      string `json:"parent_name"`
	TelegramContact string `json:"telegram_contact"`
	Comment         string `json:"comment"`

	// Цена урока по умолчанию. Подставляется в новый урок, если цена не указана явно.
	DefaultPrice float64 `json:"default_price" gorm:"type:numeric(12,2);default:0"`

	// Кэш суммы всех транзакций ученика. Отрицательный баланс — долг ученика,
	// положительный — предоплата. Меняется только вместе с созданием Transaction
	// в одной транзакции БД (см. postLedgerEntry).
	Balance float64 `json:"balance" gorm:"type:numeric(12,2);default:0"`

	Lessons      []Lesson      `json:"lessons,omitempty" gorm:"foreignKey:StudentID"`
	Transactions []Transaction `json:"transactions,omitempty" gorm:"foreignKey:StudentID"`
}
