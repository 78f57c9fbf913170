package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/progitek/parabellum/apperr"
	"github.com/progitek/parabellum/models"
	"github.com/progitek/parabellum/repository"
)

// AuditReader is the read side of the audit repository.
type AuditReader interface {
	List(ctx context.Context, p repository.ListAuditParams) ([]*models.AuditLog, int, error)
}

// AuditHandler handles HTTP requests for audit logs (admin only)
type AuditHandler struct {
	audit AuditReader
}

// NewAuditHandler creates a new audit handler
func NewAuditHandler(audit AuditReader) *AuditHandler {
	return &AuditHandler{audit: audit}
}

// List handles GET /api/v1/audit
func (h *AuditHandler) List(c *gin.Context) {
	params := repository.ListAuditParams{
		Page:       queryInt(c, "page"),
		Limit:      queryInt(c, "limit"),
		Search:     c.Query("search"),
		ActionType: c.Query("action_type"),
		EntityType: c.Query("entity_type"),
	}

	entries, total, err := h.audit.List(c.Request.Context(), params)
	if err != nil {
		respondError(c, apperr.FromDB(err, "audit logs"))
		return
	}
	respondPage(c, entries, pageOf(params.Page, params.Limit, 50, total))
}
