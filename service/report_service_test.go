package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/progitek/parabellum/apperr"
	"github.com/progitek/parabellum/models"
)

func TestGenerateRejectsUnknownType(t *testing.T) {
	// The type check runs before any query, so no repository is needed.
	svc := NewReportService(nil, zap.NewNop())

	_, err := svc.Generate(context.Background(), models.ReportType("financial"), time.Time{}, time.Time{}, 1)
	require.Error(t, err)
	appErr := apperr.Get(err)
	assert.Equal(t, http.StatusBadRequest, appErr.Status)
	assert.Contains(t, appErr.Message, "financial")
}

func TestGenerateRejectsEmptyType(t *testing.T) {
	svc := NewReportService(nil, zap.NewNop())

	_, err := svc.Generate(context.Background(), "", time.Time{}, time.Time{}, 1)
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, apperr.Get(err).Status)
}
