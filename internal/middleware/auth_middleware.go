// internal/middleware/auth_middleware.go
package middleware

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"

	"github.com/EugeneSemivolos/IvolTutor/config"
	"github.com/EugeneSemivolos/IvolTutor/models"
)

// CachedUserData — данные пользователя, которые кладутся в кэш,
// чтобы не ходить в базу на каждый запрос.
type CachedUserData struct {
	UserID   uint   `json:"user_id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
}

const userCacheTTL = 10 * time.Minute

// AuthMiddleware проверяет bearer-токен и кладет данные пользователя
// в контекст запроса. Ни один обработчик API не выполняется без него.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			handleAuthError(c, "Authorization token not provided")
			return
		}
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			handleAuthError(c, "Invalid Authorization header format")
			return
		}
		tokenStr := parts[1]

		token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return config.JwtKey, nil
		})
		if err != nil || !token.Valid {
			handleAuthError(c, "Invalid or expired token")
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			handleAuthError(c, "Invalid token claims")
			return
		}
		userIDFloat, ok := claims["user_id"].(float64)
		if !ok {
			handleAuthError(c, "Invalid user ID format in token")
			return
		}
		userID := uint(userIDFloat)

		cacheKey := fmt.Sprintf("user:%d:data", userID)
		if config.RDB != nil {
			cachedData, err := config.RDB.Get(config.Ctx, cacheKey).Result()
			if err == nil {
				var userData CachedUserData
				if json.Unmarshal([]byte(cachedData), &userData) == nil {
					setContextAndProceed(c, &userData)
					return
				}
				slog.Warn("Не удалось распарсить данные пользователя из кэша", "user_id", userID)
			} else if err != redis.Nil {
				slog.Error("Ошибка чтения из Redis", "error", err, "user_id", userID)
			}
		}

		var dbUser models.User
		if err := config.DB.First(&dbUser, userID).Error; err != nil {
			handleAuthError(c, "User from token not found")
			return
		}
		if dbUser.IsActive != nil && !*dbUser.IsActive {
			handleAuthError(c, "User is deactivated")
			return
		}

		userData := CachedUserData{
			UserID:   dbUser.ID,
			Email:    dbUser.Email,
			FullName: dbUser.FullName,
		}

		if config.RDB != nil {
			if jsonData, err := json.Marshal(userData); err == nil {
				if err := config.RDB.Set(config.Ctx, cacheKey, jsonData, userCacheTTL).Err(); err != nil {
					slog.Error("Не удалось записать данные пользователя в кэш", "error", err, "user_id", userID)
				}
			}
		}

		setContextAndProceed(c, &userData)
	}
}

func setContextAndProceed(c *gin.Context, userData *CachedUserData) {
	c.Set("user_id", userData.UserID)
	c.Set("email", userData.Email)
	c.Set("userName", userData.FullName)
	c.Next()
}

func handleAuthError(c *gin.Context, message string) {
	c.JSON(http.StatusUnauthorized, gin.H{"error": message})
	c.Abort()
}
