package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	apperrors "github.com/clinicore/clinic-api/pkg/errors"
)

// ErrorResponse is the envelope every failed request renders. Fields is
// populated only for validation failures.
type ErrorResponse struct {
	Status    string            `json:"status"`
	Code      int               `json:"code,omitempty"`
	Message   string            `json:"message"`
	Fields    map[string]string `json:"fields,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
}

// ErrorHandler renders errors attached to the gin context. Handlers call
// c.Error and return; this is the only place errors become HTTP responses,
// so status mapping stays in one place.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		requestID := c.GetString(ContextRequestID)
		lastErr := c.Errors.Last().Err

		resp := ErrorResponse{
			Status:    "error",
			Message:   "internal server error",
			RequestID: requestID,
		}
		status := http.StatusInternalServerError

		if appErr, ok := apperrors.As(lastErr); ok {
			status = appErr.StatusCode()
			resp.Code = int(appErr.Code)
			resp.Message = appErr.Message
			resp.Fields = appErr.Fields
		}

		event := log.Warn()
		if status >= http.StatusInternalServerError {
			event = log.Error()
		}
		event.
			Err(lastErr).
			Str("request_id", requestID).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Msg("request failed")

		c.JSON(status, resp)
	}
}
