// internal/handlers/student_handler_test.go
package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EugeneSemivolos/IvolTutor/models"
)

func TestStudentCRUD(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter()
	token := signupAndToken(t, r)

	w := doJSON(r, http.MethodPost, "/students/", token, gin.H{
		"full_name":        "Петр Петров",
		"parent_name":      "Анна Петрова",
		"telegram_contact": "https://t.me/petrov",
		"default_price":    200,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var student models.Student
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &student))

	// Обновление не трогает баланс, даже если клиент его пришлет.
	require.NoError(t, db.Model(&models.Student{}).Where("id = ?", student.ID).
		Update("balance", 500).Error)
	w = doJSON(r, http.MethodPut, fmt.Sprintf("/students/%d", student.ID), token, gin.H{
		"full_name":     "Петр Петров",
		"default_price": 250,
		"balance":       0,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var updated models.Student
	require.NoError(t, db.First(&updated, student.ID).Error)
	assert.Equal(t, 250.0, updated.DefaultPrice)
	assert.Equal(t, 500.0, updated.Balance, "баланс меняется только проводками по счету")

	// Поиск по имени (без учета регистра).
	other := models.Student{FullName: "Alex Smith"}
	require.NoError(t, db.Create(&other).Error)
	w = doJSON(r, http.MethodGet, "/students/?search=SMITH", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var found []models.Student
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &found))
	require.Len(t, found, 1)
	assert.Equal(t, "Alex Smith", found[0].FullName)

	// Удаление ученика уносит и его уроки.
	lesson := createTestLesson(t, db, student.ID, 200)
	w = doJSON(r, http.MethodDelete, fmt.Sprintf("/students/%d", student.ID), token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var n int64
	require.NoError(t, db.Model(&models.Student{}).Where("id = ?", student.ID).Count(&n).Error)
	assert.EqualValues(t, 0, n)
	require.NoError(t, db.Model(&models.Lesson{}).Where("id = ?", lesson.ID).Count(&n).Error)
	assert.EqualValues(t, 0, n)
}

func TestStudentNotFound(t *testing.T) {
	setupTestDB(t)
	r := newTestRouter()
	token := signupAndToken(t, r)

	w := doJSON(r, http.MethodGet, "/students/9999", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(r, http.MethodPut, "/students/9999", token, gin.H{"full_name": "Кто-то"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(r, http.MethodDelete, "/students/9999", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateStudentRequiresName(t *testing.T) {
	setupTestDB(t)
	r := newTestRouter()
	token := signupAndToken(t, r)

	w := doJSON(r, http.MethodPost, "/students/", token, gin.H{
		"default_price": 100,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
