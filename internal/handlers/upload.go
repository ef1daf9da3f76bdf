// internal/handlers/upload.go
package handlers

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// uploadRoot возвращает корневой каталог для загружаемых файлов.
func uploadRoot() string {
	if dir := os.Getenv("UPLOAD_DIR"); dir != "" {
		return dir
	}
	return "static/uploads"
}

// saveUploadedFile сохраняет файл из multipart-формы в uploadDir и возвращает
// путь-ссылку. Имя файла получает uuid-префикс, чтобы не затирать загрузки
// с одинаковыми именами. Отсутствие файла в форме — не ошибка: вернется
// пустая строка.
func saveUploadedFile(c *gin.Context, formKey, uploadDir string) (string, error) {
	file, header, err := c.Request.FormFile(formKey)
	if err != nil {
		if err == http.ErrMissingFile {
			return "", nil
		}
		return "", fmt.Errorf("ошибка чтения файла из формы '%s': %w", formKey, err)
	}
	defer file.Close()

	if err := os.MkdirAll(uploadDir, 0o755); err != nil {
		return "", fmt.Errorf("не удалось создать каталог загрузки: %w", err)
	}

	fileName := fmt.Sprintf("%s-%s", uuid.NewString(), filepath.Base(header.Filename))
	filePath := filepath.Join(uploadDir, fileName)

	out, err := os.Create(filePath)
	if err != nil {
		return "", fmt.Errorf("не удалось создать файл на сервере: %w", err)
	}
	defer out.Close()

	if _, err = io.Copy(out, file); err != nil {
		return "", fmt.Errorf("не удалось записать содержимое файла: %w", err)
	}

	return "/" + filepath.ToSlash(filePath), nil
}
