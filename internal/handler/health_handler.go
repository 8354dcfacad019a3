package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/GTDGit/gtd_storefront/internal/utils"
)

var startTime = time.Now()

// Check probes one dependency.
type Check func(ctx context.Context) error

// HealthHandler provides health endpoint.
type HealthHandler struct {
	checks map[string]Check
}

// NewHealthHandler creates a new HealthHandler over the named checks.
func NewHealthHandler(checks map[string]Check) *HealthHandler {
	return &HealthHandler{checks: checks}
}

// GetHealth responds 200 when every dependency answers and 503 otherwise.
func (h *HealthHandler) GetHealth(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	healthy := true
	deps := gin.H{}
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			healthy = false
			deps[name] = "disconnected"
			continue
		}
		deps[name] = "connected"
	}

	body := gin.H{
		"status":       "healthy",
		"version":      "1.0.0",
		"uptime":       int(time.Since(startTime).Seconds()),
		"dependencies": deps,
	}
	if !healthy {
		body["status"] = "degraded"
		utils.ErrorWithDetails(c, 503, "SERVICE_UNAVAILABLE", "Service is degraded", body)
		return
	}
	utils.Success(c, 200, "Service is healthy", body)
}
