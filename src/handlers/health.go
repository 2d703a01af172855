package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/khabaroff/webtestkit/src/records"
)

var startTime = time.Now()

// Pinger reports storage availability
type Pinger interface {
	Health(ctx context.Context) error
}

// HealthHandler handles health check requests
type HealthHandler struct {
	db       Pinger
	version  string
	counters map[string]records.Counter
}

// NewHealthHandler creates a new health handler. A nil db means in-memory storage.
func NewHealthHandler(db Pinger, version string) *HealthHandler {
	return &HealthHandler{
		db:       db,
		version:  version,
		counters: make(map[string]records.Counter),
	}
}

// WithCounter reports the count of a stored record kind under name in /info
func (hh *HealthHandler) WithCounter(name string, counter records.Counter) *HealthHandler {
	hh.counters[name] = counter
	return hh
}

// HandleHealth returns health status with storage check
func (hh *HealthHandler) HandleHealth(c *gin.Context) {
	if hh.db == nil {
		c.JSON(http.StatusOK, gin.H{
			"status":   "ok",
			"database": "memory",
			"uptime":   time.Since(startTime).String(),
		})
		return
	}

	start := time.Now()
	err := hh.db.Health(c.Request.Context())
	dbLatency := time.Since(start)

	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":   "unhealthy",
			"database": "disconnected",
			"error":    err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     "ok",
		"database":   "connected",
		"db_latency": dbLatency.String(),
		"uptime":     time.Since(startTime).String(),
	})
}

// HandleInfo returns service information and stored record counts
func (hh *HealthHandler) HandleInfo(c *gin.Context) {
	counts := make(gin.H, len(hh.counters))
	for name, counter := range hh.counters {
		n, err := counter.Count(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "failed to count " + name})
			return
		}
		counts[name] = n
	}

	c.JSON(http.StatusOK, gin.H{
		"service": "webtestkit-notes",
		"version": hh.version,
		"status":  "running",
		"uptime":  time.Since(startTime).String(),
		"records": counts,
	})
}

// HandleReady returns readiness status (for load balancers)
func (hh *HealthHandler) HandleReady(c *gin.Context) {
	if hh.db != nil {
		if err := hh.db.Health(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"ready": false})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"ready": true})
}
