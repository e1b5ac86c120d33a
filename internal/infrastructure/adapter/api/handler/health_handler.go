package handler

import (
	"context"
	"net/http"

	coreport "github.com/amirhossein-jamali/token-economy/internal/domain/port/core"
	"github.com/amirhossein-jamali/token-economy/internal/infrastructure/adapter/database"
	"github.com/gin-gonic/gin"
)

// Store reports whether the database answers and how its pool is doing
type Store interface {
	Ping(ctx context.Context) error
	Driver() string
	PoolMetrics() database.ConnectionPoolMetrics
}

// HealthHandler serves the liveness check
type HealthHandler struct {
	db           Store
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
}

// NewHealthHandler creates a new health handler instance
func NewHealthHandler(db Store, timeProvider coreport.TimeProvider, logger coreport.Logger) *HealthHandler {
	return &HealthHandler{db: db, timeProvider: timeProvider, logger: logger}
}

// Health handles the GET /health endpoint
func (h *HealthHandler) Health(c *gin.Context) {
	body := gin.H{
		"status":   "ok",
		"database": "ok",
		"driver":   h.db.Driver(),
		"pool":     h.db.PoolMetrics(),
		"time":     h.timeProvider.Now(),
	}

	if err := h.db.Ping(c.Request.Context()); err != nil {
		h.logger.Error("Health check failed", map[string]any{"error": err.Error()})
		body["status"] = "degraded"
		body["database"] = err.Error()
		c.JSON(http.StatusServiceUnavailable, body)
		return
	}

	c.JSON(http.StatusOK, body)
}
