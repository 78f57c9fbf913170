package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthHandler reports process liveness and uptime.
type HealthHandler struct {
	start time.Time
}

// NewHealthHandler creates a new health handler
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{start: time.Now()}
}

// Health handles GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	uptime := time.Since(h.start)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"status":         "ok",
			"uptime":         uptime.Round(time.Second).String(),
			"uptime_seconds": int64(uptime.Seconds()),
		},
	})
}
