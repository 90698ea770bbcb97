package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/StratSim/stratsim_api/internal/utils"
	"github.com/StratSim/stratsim_api/pkg/simengine"
)

var startTime = time.Now()

// HealthHandler provides health endpoint.
type HealthHandler struct {
	engine *simengine.Client
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(engine *simengine.Client) *HealthHandler {
	return &HealthHandler{engine: engine}
}

// GetHealth responds with service and simulation-engine status.
func (h *HealthHandler) GetHealth(c *gin.Context) {
	status, err := h.engine.GetStatus(c.Request.Context())

	engineStatus := "connected"
	engineVersion := ""
	if err != nil {
		engineStatus = "disconnected"
	} else {
		engineVersion = status.Version
	}

	utils.Success(c, 200, "Service is healthy", gin.H{
		"status":  "healthy",
		"version": "1.0.0",
		"uptime":  int(time.Since(startTime).Seconds()),
		"engine": gin.H{
			"status":  engineStatus,
			"version": engineVersion,
		},
	})
}
