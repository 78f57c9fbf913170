package repository

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/progitek/parabellum/models"
	"github.com/progitek/parabellum/supabase"
)

func newNotificationRepo(t *testing.T, handler http.HandlerFunc) *NotificationRepository {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	sb, err := supabase.New(supabase.Config{URL: srv.URL, ServiceKey: "k", Timeout: 5 * time.Second})
	require.NoError(t, err)
	return NewNotificationRepository(sb)
}

func TestNotificationMarkReadScopedToOwner(t *testing.T) {
	id := uuid.New()
	repo := newNotificationRepo(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		// The update must be pinned to the owner and to unread rows.
		q := r.URL.RawQuery
		assert.Contains(t, q, "id=eq."+id.String())
		assert.Contains(t, q, "user_id=eq.7")
		assert.Contains(t, q, "read_at=is.null")

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":"` + id.String() + `","user_id":7,"read_at":"2024-03-01T09:00:00Z"}]`))
	})

	n, err := repo.MarkRead(context.Background(), id, 7)
	require.NoError(t, err)
	assert.True(t, n.IsRead())
}

func TestNotificationMarkReadNotOwned(t *testing.T) {
	repo := newNotificationRepo(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	})

	_, err := repo.MarkRead(context.Background(), uuid.New(), 7)
	assert.ErrorIs(t, err, pgx.ErrNoRows)
}

func TestNotificationDeleteNotOwned(t *testing.T) {
	repo := newNotificationRepo(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	})

	err := repo.Delete(context.Background(), uuid.New(), 7)
	assert.ErrorIs(t, err, pgx.ErrNoRows)
}

func TestGetPreferencesLazyCreate(t *testing.T) {
	var inserted bool
	repo := newNotificationRepo(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.Method {
		case http.MethodGet:
			// No row yet: the single-object read 404s.
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"code":"PGRST116","message":"no rows"}`))
		case http.MethodPost:
			inserted = true
			var rows []*models.NotificationPreferences
			require.NoError(t, json.NewDecoder(r.Body).Decode(&rows))
			require.Len(t, rows, 1)
			_ = json.NewEncoder(w).Encode(rows)
		default:
			t.Fatalf("unexpected method %s", r.Method)
		}
	})

	prefs, err := repo.GetPreferences(context.Background(), 9)
	require.NoError(t, err)
	assert.True(t, inserted, "missing row must be created with defaults")
	assert.Equal(t, 9, prefs.UserID)
	assert.True(t, prefs.EmailNotifications)
	assert.True(t, prefs.SystemAlerts)
}

func TestGetPreferencesExistingRow(t *testing.T) {
	repo := newNotificationRepo(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		assert.True(t, strings.Contains(r.URL.RawQuery, "user_id=eq.9"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"user_id":9,"email_notifications":false,"mission_updates":true,"intervention_alerts":true,"system_alerts":true}`))
	})

	prefs, err := repo.GetPreferences(context.Background(), 9)
	require.NoError(t, err)
	assert.False(t, prefs.EmailNotifications)
}

func TestNotificationListUnreadFilter(t *testing.T) {
	repo := newNotificationRepo(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.RawQuery
		assert.Contains(t, q, "user_id=eq.7")
		assert.Contains(t, q, "read_at=is.null")
		assert.Contains(t, q, "order=created_at.desc")
		assert.Contains(t, r.Header.Get("Prefer"), "count=exact")

		w.Header().Set("Content-Range", "0-0/5")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"user_id":7,"message":"m"}]`))
	})

	notifications, total, err := repo.List(context.Background(), ListNotificationsParams{UserID: 7, UnreadOnly: true})
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	require.Len(t, notifications, 1)
}
