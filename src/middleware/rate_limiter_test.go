package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"
)

func TestRateLimitingMiddleware_PerIP(t *testing.T) {
	gin.SetMode(gin.TestMode)

	handler, limiter := NewRateLimitingMiddleware(RateLimitConfig{RequestsPerMinute: 1, Burst: 2})
	defer limiter.Stop()

	router := gin.New()
	router.POST("/login", handler, func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	send := func(ip string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = ip + ":1234"
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusNoContent, send("10.0.0.1").Code)
	assert.Equal(t, http.StatusNoContent, send("10.0.0.1").Code)

	blocked := send("10.0.0.1")
	assert.Equal(t, http.StatusTooManyRequests, blocked.Code)
	assert.NotEmpty(t, blocked.Header().Get("Retry-After"))

	assert.Equal(t, http.StatusNoContent, send("10.0.0.2").Code, "other clients keep their own bucket")
	assert.Equal(t, 2, limiter.Len())
}

func TestKeyRateLimiter_Cleanup(t *testing.T) {
	limiter := NewKeyRateLimiter(rate.Every(time.Second), 1, time.Hour)
	defer limiter.Stop()

	limiter.Allow("a")
	limiter.Allow("b")
	assert.Equal(t, 2, limiter.Len())

	limiter.cleanup(time.Now())
	assert.Equal(t, 2, limiter.Len(), "fresh keys survive")

	limiter.cleanup(time.Now().Add(2 * time.Hour))
	assert.Equal(t, 0, limiter.Len())

	limiter.Stop()
}
