package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/progitek/parabellum/apperr"
	"github.com/progitek/parabellum/middleware"
	"github.com/progitek/parabellum/models"
	"github.com/progitek/parabellum/repository"
	"github.com/progitek/parabellum/service"
)

// ReportHandler handles HTTP requests for reports
type ReportHandler struct {
	reports *service.ReportService
}

// NewReportHandler creates a new report handler
func NewReportHandler(reports *service.ReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// GenerateReportRequest represents the request body for generating a
// report. Dates are optional; the window defaults to the last 30 days.
type GenerateReportRequest struct {
	Type      string     `json:"type" binding:"required"`
	StartDate *time.Time `json:"start_date"`
	EndDate   *time.Time `json:"end_date"`
}

// Generate handles POST /api/v1/reports/generate
func (h *ReportHandler) Generate(c *gin.Context) {
	var req GenerateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	var start, end time.Time
	if req.StartDate != nil {
		start = *req.StartDate
	}
	if req.EndDate != nil {
		end = *req.EndDate
	}

	data, err := h.reports.Generate(c.Request.Context(), models.ReportType(req.Type), start, end, middleware.CurrentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{
		"type":   req.Type,
		"result": data,
	})
}

// List handles GET /api/v1/reports, the history of generated reports.
func (h *ReportHandler) List(c *gin.Context) {
	params := repository.ListRecordsParams{
		Page:   queryInt(c, "page"),
		Limit:  queryInt(c, "limit"),
		UserID: queryInt(c, "user_id"),
	}

	reports, total, err := h.reports.ListRecords(c.Request.Context(), params)
	if err != nil {
		respondError(c, apperr.FromDB(err, "reports"))
		return
	}
	respondPage(c, reports, pageOf(params.Page, params.Limit, 10, total))
}
