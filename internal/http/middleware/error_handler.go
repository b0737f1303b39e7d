package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/nvoskresenskiy/tasker-backend/internal/logger"
	"github.com/nvoskresenskiy/tasker-backend/internal/pkg/apperror"
)

// ErrorHandler обрабатывает ошибки централизованно.
// Внутренние ошибки маскируются, клиент видит только безопасное сообщение.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() || len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err

		statusCode := http.StatusInternalServerError
		message := "внутренняя ошибка сервера"

		if appErr, ok := apperror.AsAppError(err); ok {
			statusCode = appErr.HTTPStatus
			message = appErr.Message
		}

		if logger.Log != nil {
			entry := logger.Log.WithFields(logrus.Fields{
				"error":  err.Error(),
				"path":   c.Request.URL.Path,
				"method": c.Request.Method,
				"status": statusCode,
			})
			if statusCode >= http.StatusInternalServerError {
				entry.Error("ошибка запроса")
			} else {
				entry.Debug("ошибка запроса")
			}
		}

		c.JSON(statusCode, gin.H{"error": message})
	}
}
