package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// RequestIDKey is the context key for request ID
const RequestIDKey = "request_id"

// RequestIDHeader carries the request ID in both directions
const RequestIDHeader = "X-Request-ID"

// RequestIDMiddleware adds a unique request ID to each request and attaches
// a logger tagged with it to the request context
func RequestIDMiddleware(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			// Short UUID for readability
			requestID = uuid.New().String()[:8]
		}

		c.Set(RequestIDKey, requestID)
		c.Header(RequestIDHeader, requestID)

		reqLogger := logger.With().Str(RequestIDKey, requestID).Logger()
		c.Request = c.Request.WithContext(reqLogger.WithContext(c.Request.Context()))

		c.Next()
	}
}

// GetRequestID retrieves the request ID from context
func GetRequestID(c *gin.Context) string {
	return c.GetString(RequestIDKey)
}

// Logger returns the request-scoped logger set by RequestIDMiddleware
func Logger(c *gin.Context) *zerolog.Logger {
	return zerolog.Ctx(c.Request.Context())
}
