// internal/handlers/lesson_lifecycle.go
package handlers

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/EugeneSemivolos/IvolTutor/models"
)

// applyLessonStatusChange проводит по счету ученика последствия смены статуса
// урока. Вызывается в той же транзакции БД, что и сохранение самого урока.
//
// oldStatus и oldPrice — значения ДО применения изменений к lesson: их нужно
// снять с объекта до перезаписи полей, порядок здесь принципиален.
//
// Правила:
//   - статус и цена не изменились — ничего не делаем (повторное сохранение
//     урока не должно списывать деньги второй раз);
//   - урок стал completed — списываем текущую цену урока;
//   - урок перестал быть completed — возвращаем старую цену;
//   - урок остался completed, но цена изменилась — проводим только разницу;
//   - переходы planned <-> cancelled счет не трогают.
func applyLessonStatusChange(tx *gorm.DB, lesson *models.Lesson, oldStatus string, oldPrice float64) error {
	if oldStatus == lesson.Status && oldPrice == lesson.Price {
		return nil
	}

	wasCompleted := oldStatus == models.LessonStatusCompleted
	isCompleted := lesson.Status == models.LessonStatusCompleted

	var amount float64
	var comment string
	switch {
	case !wasCompleted && isCompleted:
		amount = -lesson.Price
		comment = fmt.Sprintf("Проведен урок #%d (%s)", lesson.ID, lesson.StartTime.Format("02.01.2006"))
	case wasCompleted && !isCompleted:
		amount = oldPrice
		comment = fmt.Sprintf("Отмена проведения урока #%d (%s)", lesson.ID, lesson.StartTime.Format("02.01.2006"))
	case wasCompleted && isCompleted:
		// Изменилась только цена уже проведенного урока.
		amount = oldPrice - lesson.Price
		comment = fmt.Sprintf("Изменение цены урока #%d: %.2f -> %.2f", lesson.ID, oldPrice, lesson.Price)
	default:
		// planned <-> cancelled, либо поменялась цена незавершенного урока.
		return nil
	}

	return postLedgerEntry(tx, lesson.StudentID, amount, comment, time.Now())
}
