package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/progitek/parabellum/middleware"
	"github.com/progitek/parabellum/models"
	"github.com/progitek/parabellum/repository"
)

type fakeNotificationStore struct {
	created []*models.Notification
}

func (s *fakeNotificationStore) Create(_ context.Context, n *models.Notification) error {
	n.ID = uuid.New()
	s.created = append(s.created, n)
	return nil
}

func (s *fakeNotificationStore) List(_ context.Context, _ repository.ListNotificationsParams) ([]*models.Notification, int, error) {
	return s.created, len(s.created), nil
}

func (s *fakeNotificationStore) MarkRead(_ context.Context, _ uuid.UUID, _ int) (*models.Notification, error) {
	return nil, nil
}

func (s *fakeNotificationStore) MarkAllRead(_ context.Context, _ int) (int, error) {
	return 0, nil
}

func (s *fakeNotificationStore) Delete(_ context.Context, _ uuid.UUID, _ int) error {
	return nil
}

func (s *fakeNotificationStore) GetPreferences(_ context.Context, userID int) (*models.NotificationPreferences, error) {
	return models.DefaultNotificationPreferences(userID), nil
}

func (s *fakeNotificationStore) UpdatePreferences(_ context.Context, userID int, _ repository.UpdatePreferencesParams) (*models.NotificationPreferences, error) {
	return models.DefaultNotificationPreferences(userID), nil
}

func newNotificationRoutes(t *testing.T, users ...*models.User) (*gin.Engine, *fakeNotificationStore) {
	t.Helper()
	r, getter := testRouter(t, users...)
	store := &fakeNotificationStore{}
	h := NewNotificationHandler(store, getter)
	r.POST("/notifications", middleware.RequireRoles(models.RoleAdministrateur, models.RoleManager), h.Send)
	r.GET("/notifications/preferences", h.GetPreferences)
	return r, store
}

func TestNotificationSend(t *testing.T) {
	admin := adminUser()
	target := plainUser(2)
	r, store := newNotificationRoutes(t, admin, target)

	body := map[string]interface{}{
		"user_id": 2,
		"type":    "mission_update",
		"message": "mission INT-2024-0042 mise à jour",
	}
	w, envelope := doJSON(t, r, http.MethodPost, "/notifications", tokenFor(t, admin), body)
	require.Equal(t, http.StatusCreated, w.Code)

	data := envelope["data"].(map[string]interface{})
	assert.NotEmpty(t, data["id"])
	require.Len(t, store.created, 1)
	assert.Equal(t, 2, store.created[0].UserID)
}

func TestNotificationSendUnknownTarget(t *testing.T) {
	admin := adminUser()
	r, store := newNotificationRoutes(t, admin)

	body := map[string]interface{}{"user_id": 99, "type": "system", "message": "m"}
	w, envelope := doJSON(t, r, http.MethodPost, "/notifications", tokenFor(t, admin), body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_REFERENCE", errorCode(t, envelope))
	assert.Empty(t, store.created)
}

func TestNotificationSendForbiddenForPlainUser(t *testing.T) {
	user := plainUser(2)
	r, store := newNotificationRoutes(t, user)

	body := map[string]interface{}{"user_id": 2, "type": "system", "message": "m"}
	w, _ := doJSON(t, r, http.MethodPost, "/notifications", tokenFor(t, user), body)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Empty(t, store.created)
}

func TestNotificationPreferencesDefaults(t *testing.T) {
	user := plainUser(2)
	r, _ := newNotificationRoutes(t, user)

	w, envelope := doJSON(t, r, http.MethodGet, "/notifications/preferences", tokenFor(t, user), nil)
	require.Equal(t, http.StatusOK, w.Code)

	data := envelope["data"].(map[string]interface{})
	assert.Equal(t, float64(2), data["user_id"])
	assert.Equal(t, true, data["email_notifications"])
}
