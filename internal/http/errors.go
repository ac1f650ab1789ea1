package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"genesis-api/internal/apperr"
)

// errorBody es el cuerpo uniforme de error. Message es string o []string.
type errorBody struct {
	StatusCode int    `json:"statusCode"`
	Message    any    `json:"message"`
	Timestamp  string `json:"timestamp"`
	Path       string `json:"path"`
}

func abortWithStatus(c *gin.Context, status int, message any) {
	c.AbortWithStatusJSON(status, errorBody{
		StatusCode: status,
		Message:    message,
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		Path:       c.Request.URL.RequestURI(),
	})
}

// respondError traduce err al cuerpo uniforme. Los 500 se registran con la causa.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	status, msg := apperr.Status(err)
	if status == http.StatusInternalServerError && logger != nil {
		logger.Error("internal server error",
			zap.String("path", c.Request.URL.Path),
			zap.String("request_id", c.GetString(requestIDKey)),
			zap.Error(err),
		)
	}
	if fields := apperr.Fields(err); len(fields) > 1 {
		abortWithStatus(c, status, fields)
		return
	}
	abortWithStatus(c, status, msg)
}
