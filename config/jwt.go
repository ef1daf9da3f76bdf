// config/jwt.go
package config

import (
	"log/slog"
	"os"
	"time"
)

// JwtKey — ключ подписи токенов (HS256). Берется из SECRET_KEY.
var JwtKey []byte

// TokenTTL — срок жизни токена. Неделя, чтобы репетитору
// не приходилось логиниться каждый день.
const TokenTTL = 7 * 24 * time.Hour

func LoadJWTKey() {
	secret := os.Getenv("SECRET_KEY")
	if secret == "" {
		slog.Warn("SECRET_KEY не установлен, используется небезопасный ключ по умолчанию.")
		secret = "change-me-in-production"
	}
	JwtKey = []byte(secret)
}
