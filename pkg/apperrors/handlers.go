package apperrors

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorResponse - стандартный ответ об ошибке
type ErrorResponse struct {
	Error *AppError `json:"error"`
}

// GinErrorHandler - обработчик ошибок для Gin
type GinErrorHandler struct {
	Debug bool
}

func (h *GinErrorHandler) HandleGinError(c *gin.Context, err error) {
	appErr, ok := AsAppError(err)
	if !ok {
		appErr = InternalError(err)
	}

	if appErr.HTTPCode >= http.StatusInternalServerError {
		slog.ErrorContext(c.Request.Context(), "server error",
			"code", appErr.Code,
			"path", c.Request.URL.Path,
			"error", errorString(appErr.Unwrap()),
		)
		if !h.Debug {
			// Наружу не отдаем внутренности
			appErr = &AppError{
				Code:     appErr.Code,
				Domain:   appErr.Domain,
				Message:  "Internal server error",
				HTTPCode: appErr.HTTPCode,
			}
		}
	}

	if appErr.HTTPCode == http.StatusUnauthorized {
		c.Header("WWW-Authenticate", "Bearer")
	}

	c.AbortWithStatusJSON(appErr.HTTPCode, ErrorResponse{Error: appErr})
}

var defaultHandler = &GinErrorHandler{Debug: false}

// HandleError - быстрая функция-помощник для Gin
func HandleError(c *gin.Context, err error) {
	defaultHandler.HandleGinError(c, err)
}

// AsAppError - пытается преобразовать error в *AppError
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

func errorString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
