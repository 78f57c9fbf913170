package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/progitek/parabellum/apperr"
	"github.com/progitek/parabellum/models"
	"github.com/progitek/parabellum/repository"
)

// ReportService dispatches the fixed report aggregations.
type ReportService struct {
	reports *repository.ReportRepository
	log     *zap.Logger
}

// NewReportService creates a new report service
func NewReportService(reports *repository.ReportRepository, log *zap.Logger) *ReportService {
	return &ReportService{reports: reports, log: log}
}

// Generate runs the aggregation selected by typ over [start, end] and
// records the generation. An unrecognized type is rejected before any
// query executes; the record write is best-effort.
func (s *ReportService) Generate(ctx context.Context, typ models.ReportType, start, end time.Time, userID int) (interface{}, error) {
	if !typ.Valid() {
		return nil, apperr.BadRequest("unknown report type: " + string(typ))
	}

	if end.IsZero() {
		end = time.Now().UTC()
	}
	if start.IsZero() {
		start = end.AddDate(0, 0, -30)
	}

	var (
		data interface{}
		err  error
	)
	switch typ {
	case models.ReportActivity:
		data, err = s.reports.ActivityByDay(ctx, start, end)
	case models.ReportInterventions:
		data, err = s.reports.InterventionsBetween(ctx, start, end)
	case models.ReportClients:
		data, err = s.reports.ClientsWithMissionCounts(ctx, start, end)
	case models.ReportTechnicians:
		data, err = s.reports.TechnicianPerformance(ctx, start, end)
	case models.ReportTrends:
		data, err = s.reports.Trends(ctx, start, end)
	}
	if err != nil {
		return nil, apperr.FromDB(err, "report")
	}

	record := &models.Report{ReportType: typ, UserID: userID}
	if err := s.reports.InsertRecord(ctx, record); err != nil {
		s.log.Warn("report record write failed", zap.String("type", string(typ)), zap.Error(err))
	}

	return data, nil
}

// ListRecords returns past report-generation records.
func (s *ReportService) ListRecords(ctx context.Context, p repository.ListRecordsParams) ([]*models.Report, int, error) {
	return s.reports.ListRecords(ctx, p)
}
