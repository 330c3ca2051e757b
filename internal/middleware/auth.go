package middleware

import (
	"strings"

	"file_integrity_backend/internal/logger"
	"file_integrity_backend/internal/services"
	"file_integrity_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

const UserIDKey = "userID"

// AuthMiddleware - проверка bearer-токена и статуса пользователя.
// Нет токена или он невалиден: 401. Пользователь отключен: 403.
func AuthMiddleware(authService services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			logger.CtxWarn(ctx, "Missing bearer token", "path", c.Request.URL.Path)
			apperrors.HandleError(c, apperrors.ErrInvalidToken)
			return
		}

		user, err := authService.Authenticate(ctx, GetDB(c), token)
		if err != nil {
			logger.CtxWarn(ctx, "Authentication rejected", "path", c.Request.URL.Path, "reason", err.Error())
			apperrors.HandleError(c, err)
			return
		}

		c.Set(UserIDKey, user.ID)
		c.Request = c.Request.WithContext(logger.WithUserID(ctx, user.ID))
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// GetUserID извлекает ID пользователя из контекста
func GetUserID(c *gin.Context) uint {
	userID, exists := c.Get(UserIDKey)
	if !exists {
		return 0
	}
	id, _ := userID.(uint)
	return id
}
