package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// LoggingMiddleware logs every request once it has been handled, with the
// session role and redirect target when there is one
func LoggingMiddleware(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		query := c.Request.URL.RawQuery

		c.Next()

		status := c.Writer.Status()
		event, msg := statusEvent(logger, status)
		event.
			Str("request_id", GetRequestID(c)).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("duration", time.Since(start)).
			Int("bytes", c.Writer.Size())

		if role := CurrentRole(c); role != "" {
			event.Str("role", role).Str("user_id", c.GetString(UserIDKey))
		}
		if query != "" {
			event.Str("query", query)
		}
		if location := c.Writer.Header().Get("Location"); location != "" {
			event.Str("location", location)
		}
		if len(c.Errors) > 0 {
			event.Str("error", c.Errors.String())
		}
		event.Msg(msg)
	}
}

func statusEvent(logger zerolog.Logger, status int) (*zerolog.Event, string) {
	switch {
	case status >= 500:
		return logger.Error(), "server error"
	case status >= 400:
		return logger.Warn(), "client error"
	default:
		return logger.Info(), "request"
	}
}
