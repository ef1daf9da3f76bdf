// internal/handlers/testutil_test.go
package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/EugeneSemivolos/IvolTutor/config"
	"github.com/EugeneSemivolos/IvolTutor/internal/middleware"
	"github.com/EugeneSemivolos/IvolTutor/models"
)

// setupTestDB поднимает чистую sqlite-базу в памяти и подставляет ее
// вместо глобального config.DB на время теста.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "не удалось открыть тестовую БД")

	err = db.AutoMigrate(
		&models.User{},
		&models.Student{},
		&models.Lesson{},
		&models.Transaction{},
		&models.Homework{},
	)
	require.NoError(t, err, "не удалось мигрировать тестовую БД")

	config.DB = db
	config.RDB = nil
	config.LoadJWTKey()
	return db
}

// newTestRouter собирает роутер с тем же набором маршрутов, что и боевой.
func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	r.POST("/auth/signup", SignupHandler)
	r.POST("/auth/login", LoginHandler)

	api := r.Group("/", middleware.AuthMiddleware())
	api.GET("/auth/me", MeHandler)

	api.GET("/students/", ListStudentsHandler)
	api.POST("/students/", CreateStudentHandler)
	api.GET("/students/:id", GetStudentHandler)
	api.PUT("/students/:id", UpdateStudentHandler)
	api.DELETE("/students/:id", DeleteStudentHandler)
	api.GET("/students/:id/transactions", ListStudentTransactionsHandler)
	api.GET("/students/:id/transactions/export", ExportStudentTransactionsHandler)

	api.GET("/lessons/", ListLessonsHandler)
	api.POST("/lessons/", CreateLessonHandler)
	api.PATCH("/lessons/series/:id", UpdateLessonSeriesHandler)
	api.GET("/lessons/:id", GetLessonHandler)
	api.PATCH("/lessons/:id", UpdateLessonHandler)
	api.DELETE("/lessons/:id", DeleteLessonHandler)
	api.POST("/lessons/:id/homeworks", UploadHomeworkHandler)
	api.GET("/lessons/:id/homeworks", ListLessonHomeworksHandler)

	api.POST("/payments/", CreatePaymentHandler)
	api.GET("/payments/", ListPaymentsHandler)

	api.DELETE("/homeworks/:id", DeleteHomeworkHandler)

	return r
}

// signupAndToken регистрирует тестового репетитора и возвращает его токен.
func signupAndToken(t *testing.T, r *gin.Engine) string {
	t.Helper()

	w := doJSON(r, http.MethodPost, "/auth/signup", "", gin.H{
		"email":     "tutor@example.com",
		"password":  "super-secret",
		"full_name": "Тестовый Репетитор",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.AccessToken)
	return resp.AccessToken
}

// doJSON выполняет запрос с JSON-телом через httptest.
func doJSON(r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// createTestStudent заводит ученика напрямую в БД.
func createTestStudent(t *testing.T, db *gorm.DB, defaultPrice float64) *models.Student {
	t.Helper()
	student := models.Student{
		FullName:     fmt.Sprintf("Тестовый ученик (цена %.0f)", defaultPrice),
		DefaultPrice: defaultPrice,
	}
	require.NoError(t, db.Create(&student).Error)
	return &student
}

// assertLedgerConsistent проверяет главный инвариант: кэш баланса равен
// сумме журнала транзакций ученика.
func assertLedgerConsistent(t *testing.T, db *gorm.DB, studentID uint) {
	t.Helper()

	var student models.Student
	require.NoError(t, db.First(&student, studentID).Error)

	var sum float64
	require.NoError(t, db.Model(&models.Transaction{}).
		Where("student_id = ?", studentID).
		Select("COALESCE(SUM(amount), 0)").
		Row().Scan(&sum))

	require.InDelta(t, sum, student.Balance, 1e-9,
		"баланс ученика разошелся с суммой журнала транзакций")
}

func countTransactions(t *testing.T, db *gorm.DB, studentID uint) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&models.Transaction{}).Where("student_id = ?", studentID).Count(&n).Error)
	return n
}
