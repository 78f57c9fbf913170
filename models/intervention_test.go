package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeDuree(t *testing.T) {
	t.Run("fractional hours", func(t *testing.T) {
		debut := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
		fin := debut.Add(2*time.Hour + 30*time.Minute)
		d := ComputeDuree(&debut, &fin)
		require.NotNil(t, d)
		assert.InDelta(t, 2.5, *d, 1e-9)
	})

	t.Run("missing debut", func(t *testing.T) {
		fin := time.Now()
		assert.Nil(t, ComputeDuree(nil, &fin))
	})

	t.Run("missing fin", func(t *testing.T) {
		debut := time.Now()
		assert.Nil(t, ComputeDuree(&debut, nil))
	})

	t.Run("fin before debut is negative", func(t *testing.T) {
		debut := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
		fin := debut.Add(-time.Hour)
		d := ComputeDuree(&debut, &fin)
		require.NotNil(t, d)
		assert.InDelta(t, -1.0, *d, 1e-9)
	})
}

func TestNotificationIsRead(t *testing.T) {
	n := &Notification{}
	assert.False(t, n.IsRead())

	now := time.Now()
	n.ReadAt = &now
	assert.True(t, n.IsRead())
}
