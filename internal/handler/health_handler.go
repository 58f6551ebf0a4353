package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ahmad-hanafi1/product-store-pern/pkg/logger"
)

// HealthChecker is a dependency whose reachability gates readiness
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// HealthHandler handles health check HTTP requests
type HealthHandler struct {
	service string
	checks  map[string]HealthChecker
	log     *logger.Logger
}

// NewHealthHandler creates a new HealthHandler. checks is keyed by the
// name reported in the readiness body, e.g. "database".
func NewHealthHandler(service string, checks map[string]HealthChecker, log *logger.Logger) *HealthHandler {
	if log == nil {
		log = logger.NewNop()
	}
	return &HealthHandler{service: service, checks: checks, log: log}
}

// Health returns basic health status
// GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": h.service,
	})
}

// Ready checks if the service is ready to accept traffic
// GET /ready
func (h *HealthHandler) Ready(c *gin.Context) {
	body := gin.H{"service": h.service}
	ready := true

	for name, check := range h.checks {
		if err := check.HealthCheck(c.Request.Context()); err != nil {
			h.log.Warn("readiness check failed", zap.String("dependency", name), zap.Error(err))
			body[name] = "disconnected"
			ready = false
			continue
		}
		body[name] = "connected"
	}

	if !ready {
		body["status"] = "not_ready"
		c.JSON(http.StatusServiceUnavailable, body)
		return
	}

	body["status"] = "ready"
	c.JSON(http.StatusOK, body)
}
