// internal/handlers/lesson_lifecycle_test.go
package handlers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/EugeneSemivolos/IvolTutor/models"
)

func createTestLesson(t *testing.T, db *gorm.DB, studentID uint, price float64) *models.Lesson {
	t.Helper()
	start := time.Date(2025, 9, 1, 15, 0, 0, 0, time.UTC)
	lesson := models.Lesson{
		StudentID: studentID,
		StartTime: start,
		EndTime:   start.Add(time.Hour),
		Status:    models.LessonStatusPlanned,
		Price:     price,
	}
	require.NoError(t, db.Create(&lesson).Error)
	return &lesson
}

// transition прогоняет смену статуса/цены через ту же связку
// "сохранить урок + провести по счету", что и PATCH-обработчик.
func transition(t *testing.T, db *gorm.DB, lesson *models.Lesson, newStatus string, newPrice float64) {
	t.Helper()
	oldStatus := lesson.Status
	oldPrice := lesson.Price
	lesson.Status = newStatus
	lesson.Price = newPrice

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(lesson).Error; err != nil {
			return err
		}
		return applyLessonStatusChange(tx, lesson, oldStatus, oldPrice)
	})
	require.NoError(t, err)
}

func studentBalance(t *testing.T, db *gorm.DB, studentID uint) float64 {
	t.Helper()
	var student models.Student
	require.NoError(t, db.First(&student, studentID).Error)
	return student.Balance
}

func TestCompletionDebitsBalance(t *testing.T) {
	db := setupTestDB(t)
	student := createTestStudent(t, db, 100)
	lesson := createTestLesson(t, db, student.ID, 100)

	transition(t, db, lesson, models.LessonStatusCompleted, 100)

	assert.Equal(t, -100.0, studentBalance(t, db, student.ID))
	assert.EqualValues(t, 1, countTransactions(t, db, student.ID))

	var entry models.Transaction
	require.NoError(t, db.Where("student_id = ?", student.ID).First(&entry).Error)
	assert.Equal(t, -100.0, entry.Amount)
	assertLedgerConsistent(t, db, student.ID)
}

func TestRepeatedSaveIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	student := createTestStudent(t, db, 100)
	lesson := createTestLesson(t, db, student.ID, 100)

	transition(t, db, lesson, models.LessonStatusCompleted, 100)
	// Повторное сохранение с теми же статусом и ценой не должно
	// списывать деньги второй раз.
	transition(t, db, lesson, models.LessonStatusCompleted, 100)
	transition(t, db, lesson, models.LessonStatusCompleted, 100)

	assert.Equal(t, -100.0, studentBalance(t, db, student.ID))
	assert.EqualValues(t, 1, countTransactions(t, db, student.ID))
	assertLedgerConsistent(t, db, student.ID)
}

func TestReversalRestoresBalance(t *testing.T) {
	db := setupTestDB(t)
	student := createTestStudent(t, db, 100)
	lesson := createTestLesson(t, db, student.ID, 100)

	// Сценарий из жизни: отметили урок проведенным, передумали, вернули.
	transition(t, db, lesson, models.LessonStatusCompleted, 100)
	assert.Equal(t, -100.0, studentBalance(t, db, student.ID))

	transition(t, db, lesson, models.LessonStatusPlanned, 100)
	assert.Equal(t, 0.0, studentBalance(t, db, student.ID))
	assert.EqualValues(t, 2, countTransactions(t, db, student.ID))
	assertLedgerConsistent(t, db, student.ID)
}

func TestConservationOverRepeatedTransitions(t *testing.T) {
	db := setupTestDB(t)
	student := createTestStudent(t, db, 250)
	lesson := createTestLesson(t, db, student.ID, 250)

	// planned -> completed -> planned -> completed: итог ровно одно списание.
	transition(t, db, lesson, models.LessonStatusCompleted, 250)
	transition(t, db, lesson, models.LessonStatusPlanned, 250)
	transition(t, db, lesson, models.LessonStatusCompleted, 250)

	assert.Equal(t, -250.0, studentBalance(t, db, student.ID))
	assert.EqualValues(t, 3, countTransactions(t, db, student.ID))
	assertLedgerConsistent(t, db, student.ID)
}

func TestPriceChangeOnCompletedLessonPostsDeltaOnly(t *testing.T) {
	db := setupTestDB(t)
	student := createTestStudent(t, db, 100)
	lesson := createTestLesson(t, db, student.ID, 100)

	transition(t, db, lesson, models.LessonStatusCompleted, 100)
	// Цена проведенного урока меняется со 100 на 150: доначисляем только 50.
	transition(t, db, lesson, models.LessonStatusCompleted, 150)

	assert.Equal(t, -150.0, studentBalance(t, db, student.ID))
	assert.EqualValues(t, 2, countTransactions(t, db, student.ID))

	var last models.Transaction
	require.NoError(t, db.Where("student_id = ?", student.ID).Order("id desc").First(&last).Error)
	assert.Equal(t, -50.0, last.Amount)
	assertLedgerConsistent(t, db, student.ID)
}

func TestPriceChangeOnPlannedLessonIsFree(t *testing.T) {
	db := setupTestDB(t)
	student := createTestStudent(t, db, 100)
	lesson := createTestLesson(t, db, student.ID, 100)

	// Смена цены незавершенного урока счет не трогает.
	transition(t, db, lesson, models.LessonStatusPlanned, 500)

	assert.Equal(t, 0.0, studentBalance(t, db, student.ID))
	assert.EqualValues(t, 0, countTransactions(t, db, student.ID))
}

func TestCancelledAndPlannedDoNotTouchLedger(t *testing.T) {
	db := setupTestDB(t)
	student := createTestStudent(t, db, 100)
	lesson := createTestLesson(t, db, student.ID, 100)

	transition(t, db, lesson, models.LessonStatusCancelled, 100)
	transition(t, db, lesson, models.LessonStatusPlanned, 100)
	transition(t, db, lesson, models.LessonStatusCancelled, 100)

	assert.Equal(t, 0.0, studentBalance(t, db, student.ID))
	assert.EqualValues(t, 0, countTransactions(t, db, student.ID))
}

func TestCompletedToCancelledRefunds(t *testing.T) {
	db := setupTestDB(t)
	student := createTestStudent(t, db, 100)
	lesson := createTestLesson(t, db, student.ID, 100)

	transition(t, db, lesson, models.LessonStatusCompleted, 100)
	transition(t, db, lesson, models.LessonStatusCancelled, 100)

	assert.Equal(t, 0.0, studentBalance(t, db, student.ID))
	assert.EqualValues(t, 2, countTransactions(t, db, student.ID))
	assertLedgerConsistent(t, db, student.ID)
}

func TestReversalUsesOldPriceNotCurrent(t *testing.T) {
	db := setupTestDB(t)
	student := createTestStudent(t, db, 100)
	lesson := createTestLesson(t, db, student.ID, 100)

	transition(t, db, lesson, models.LessonStatusCompleted, 100)
	// Одновременно возвращаем в planned и задираем цену. Вернуться должны
	// те 100, что были списаны, а не новая цена.
	transition(t, db, lesson, models.LessonStatusPlanned, 9000)

	assert.Equal(t, 0.0, studentBalance(t, db, student.ID))
	assertLedgerConsistent(t, db, student.ID)
}

func TestZeroPriceCompletionCreatesNoEntry(t *testing.T) {
	db := setupTestDB(t)
	student := createTestStudent(t, db, 0)
	lesson := createTestLesson(t, db, student.ID, 0)

	// Бесплатный урок: проводка на ноль не записывается в журнал.
	transition(t, db, lesson, models.LessonStatusCompleted, 0)

	assert.Equal(t, 0.0, studentBalance(t, db, student.ID))
	assert.EqualValues(t, 0, countTransactions(t, db, student.ID))
}

func TestPostLedgerEntryMissingStudent(t *testing.T) {
	db := setupTestDB(t)

	err := db.Transaction(func(tx *gorm.DB) error {
		return postLedgerEntry(tx, 999, 100, "оплата", time.Now())
	})
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	// Транзакция откатилась: запись в журнале не осталась висеть без баланса.
	var n int64
	require.NoError(t, db.Model(&models.Transaction{}).Count(&n).Error)
	assert.EqualValues(t, 0, n)
}
