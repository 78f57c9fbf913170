package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPagination(t *testing.T) {
	t.Run("exact division", func(t *testing.T) {
		p := NewPagination(1, 10, 40)
		assert.Equal(t, 4, p.TotalPages)
	})

	t.Run("remainder rounds up", func(t *testing.T) {
		p := NewPagination(2, 10, 41)
		assert.Equal(t, 5, p.TotalPages)
		assert.Equal(t, 2, p.Page)
		assert.Equal(t, 41, p.Total)
	})

	t.Run("empty result", func(t *testing.T) {
		p := NewPagination(1, 10, 0)
		assert.Equal(t, 0, p.TotalPages)
	})
}

func TestReportTypeValid(t *testing.T) {
	for _, typ := range []ReportType{ReportActivity, ReportInterventions, ReportClients, ReportTechnicians, ReportTrends} {
		assert.True(t, typ.Valid(), string(typ))
	}
	assert.False(t, ReportType("financial").Valid())
	assert.False(t, ReportType("").Valid())
}
