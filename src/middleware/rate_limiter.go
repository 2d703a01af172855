package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// limiterEntry holds a rate limiter with last used timestamp
type limiterEntry struct {
	limiter  *rate.Limiter
	lastUsed time.Time
}

// KeyRateLimiter manages per-key rate limiters and drops idle keys
type KeyRateLimiter struct {
	limiters map[string]*limiterEntry
	mu       sync.Mutex
	limit    rate.Limit
	burst    int
	idle     time.Duration
	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewKeyRateLimiter starts a limiter whose idle keys are swept every idle/2
func NewKeyRateLimiter(limit rate.Limit, burst int, idle time.Duration) *KeyRateLimiter {
	if idle <= 0 {
		idle = 10 * time.Minute
	}
	k := &KeyRateLimiter{
		limiters: make(map[string]*limiterEntry),
		limit:    limit,
		burst:    burst,
		idle:     idle,
		stopCh:   make(chan struct{}),
	}
	go k.cleanupLoop()
	return k
}

func (k *KeyRateLimiter) get(key string) *rate.Limiter {
	k.mu.Lock()
	defer k.mu.Unlock()

	entry, ok := k.limiters[key]
	if !ok {
		entry = &limiterEntry{limiter: rate.NewLimiter(k.limit, k.burst)}
		k.limiters[key] = entry
	}
	entry.lastUsed = time.Now()
	return entry.limiter
}

// Allow reports whether key may proceed now, and otherwise how long to wait
func (k *KeyRateLimiter) Allow(key string) (bool, time.Duration) {
	l := k.get(key)
	r := l.Reserve()
	if !r.OK() {
		return false, time.Minute
	}
	delay := r.Delay()
	if delay == 0 {
		return true, 0
	}
	r.Cancel()
	return false, delay
}

// Len returns the number of tracked keys
func (k *KeyRateLimiter) Len() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.limiters)
}

func (k *KeyRateLimiter) cleanupLoop() {
	ticker := time.NewTicker(k.idle / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			k.cleanup(time.Now())
		case <-k.stopCh:
			return
		}
	}
}

// cleanup removes entries idle since before now-idle
func (k *KeyRateLimiter) cleanup(now time.Time) {
	k.mu.Lock()
	defer k.mu.Unlock()

	cutoff := now.Add(-k.idle)
	for key, entry := range k.limiters {
		if entry.lastUsed.Before(cutoff) {
			delete(k.limiters, key)
		}
	}
}

// Stop terminates the cleanup goroutine
func (k *KeyRateLimiter) Stop() {
	k.stopOnce.Do(func() { close(k.stopCh) })
}

// RateLimitConfig defines configuration for the rate limiting middleware
type RateLimitConfig struct {
	RequestsPerMinute int
	Burst             int
	// KeyFunc picks the bucket for a request; defaults to the client IP
	KeyFunc func(c *gin.Context) string
}

// NewRateLimitingMiddleware enforces cfg per key. The returned limiter must
// be stopped when the router is discarded.
func NewRateLimitingMiddleware(cfg RateLimitConfig) (gin.HandlerFunc, *KeyRateLimiter) {
	if cfg.RequestsPerMinute <= 0 {
		cfg.RequestsPerMinute = 10
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 5
	}
	if cfg.KeyFunc == nil {
		cfg.KeyFunc = func(c *gin.Context) string { return c.ClientIP() }
	}

	limit := rate.Every(time.Minute / time.Duration(cfg.RequestsPerMinute))
	limiter := NewKeyRateLimiter(limit, cfg.Burst, 0)

	return func(c *gin.Context) {
		ok, wait := limiter.Allow(cfg.KeyFunc(c))
		if !ok {
			retryAfter := int(math.Ceil(wait.Seconds()))
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":       "rate_limit_exceeded",
				"message":     "Too many requests. Please try again later.",
				"retry_after": retryAfter,
			})
			c.Abort()
			return
		}

		c.Next()
	}, limiter
}

// LoginRateLimitMiddleware is a pre-configured per-IP limiter for the login form
func LoginRateLimitMiddleware(requestsPerMinute int) (gin.HandlerFunc, *KeyRateLimiter) {
	return NewRateLimitingMiddleware(RateLimitConfig{
		RequestsPerMinute: requestsPerMinute,
		Burst:             requestsPerMinute,
	})
}
