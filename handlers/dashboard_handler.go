package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/progitek/parabellum/apperr"
	"github.com/progitek/parabellum/repository"
)

// DashboardReader computes the aggregate dashboard counters.
type DashboardReader interface {
	Stats(ctx context.Context) (*repository.DashboardStats, error)
}

// DashboardHandler handles HTTP requests for the dashboard
type DashboardHandler struct {
	dashboard DashboardReader
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboard DashboardReader) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

// Stats handles GET /api/v1/dashboard
func (h *DashboardHandler) Stats(c *gin.Context) {
	stats, err := h.dashboard.Stats(c.Request.Context())
	if err != nil {
		respondError(c, apperr.FromDB(err, "dashboard"))
		return
	}
	respondOK(c, stats)
}
