package handlers

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/progitek/parabellum/apperr"
	"github.com/progitek/parabellum/middleware"
	"github.com/progitek/parabellum/models"
	"github.com/progitek/parabellum/repository"
)

// NotificationStore is the slice of the notification repository the
// handler needs. Apart from Create, every operation is scoped to the
// authenticated user.
type NotificationStore interface {
	Create(ctx context.Context, n *models.Notification) error
	List(ctx context.Context, p repository.ListNotificationsParams) ([]*models.Notification, int, error)
	MarkRead(ctx context.Context, id uuid.UUID, userID int) (*models.Notification, error)
	MarkAllRead(ctx context.Context, userID int) (int, error)
	Delete(ctx context.Context, id uuid.UUID, userID int) error
	GetPreferences(ctx context.Context, userID int) (*models.NotificationPreferences, error)
	UpdatePreferences(ctx context.Context, userID int, p repository.UpdatePreferencesParams) (*models.NotificationPreferences, error)
}

// UserChecker reports whether a user row exists, for validating the
// target of a sent notification.
type UserChecker interface {
	GetByID(ctx context.Context, id int) (*models.User, error)
}

// NotificationHandler handles HTTP requests for notifications
type NotificationHandler struct {
	notifications NotificationStore
	users         UserChecker
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(notifications NotificationStore, users UserChecker) *NotificationHandler {
	return &NotificationHandler{notifications: notifications, users: users}
}

// SendNotificationRequest represents the request body for sending an
// in-app notification to a user.
type SendNotificationRequest struct {
	UserID  int                    `json:"user_id" binding:"required"`
	Type    string                 `json:"type" binding:"required"`
	Message string                 `json:"message" binding:"required"`
	Data    map[string]interface{} `json:"data"`
}

// Send handles POST /api/v1/notifications (admin or manager)
func (h *NotificationHandler) Send(c *gin.Context) {
	var req SendNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	if _, err := h.users.GetByID(c.Request.Context(), req.UserID); err != nil {
		respondError(c, apperr.InvalidReference("user_id"))
		return
	}

	notification := &models.Notification{
		UserID:  req.UserID,
		Type:    req.Type,
		Message: req.Message,
		Data:    req.Data,
	}
	if err := h.notifications.Create(c.Request.Context(), notification); err != nil {
		respondError(c, apperr.FromDB(err, "notification"))
		return
	}
	respondCreated(c, notification)
}

// List handles GET /api/v1/notifications
func (h *NotificationHandler) List(c *gin.Context) {
	params := repository.ListNotificationsParams{
		Page:       queryInt(c, "page"),
		Limit:      queryInt(c, "limit"),
		UserID:     middleware.CurrentUserID(c),
		UnreadOnly: c.Query("unread") == "true",
	}

	notifications, total, err := h.notifications.List(c.Request.Context(), params)
	if err != nil {
		respondError(c, apperr.FromDB(err, "notifications"))
		return
	}
	respondPage(c, notifications, pageOf(params.Page, params.Limit, 20, total))
}

// MarkRead handles PUT /api/v1/notifications/:id/read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondBadRequest(c, "invalid notification id")
		return
	}

	notification, err := h.notifications.MarkRead(c.Request.Context(), id, middleware.CurrentUserID(c))
	if err != nil {
		respondError(c, apperr.FromDB(err, "notification"))
		return
	}
	respondOK(c, notification)
}

// MarkAllRead handles PUT /api/v1/notifications/read-all
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	updated, err := h.notifications.MarkAllRead(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		respondError(c, apperr.FromDB(err, "notifications"))
		return
	}
	respondOK(c, gin.H{"updated": updated})
}

// Delete handles DELETE /api/v1/notifications/:id
func (h *NotificationHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondBadRequest(c, "invalid notification id")
		return
	}

	if err := h.notifications.Delete(c.Request.Context(), id, middleware.CurrentUserID(c)); err != nil {
		respondError(c, apperr.FromDB(err, "notification"))
		return
	}
	respondMessage(c, "notification deleted")
}

// GetPreferences handles GET /api/v1/notifications/preferences. The row
// is created with defaults on first read.
func (h *NotificationHandler) GetPreferences(c *gin.Context) {
	prefs, err := h.notifications.GetPreferences(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		respondError(c, apperr.FromDB(err, "notification preferences"))
		return
	}
	respondOK(c, prefs)
}

// UpdatePreferencesRequest represents the partial-update request body.
type UpdatePreferencesRequest struct {
	EmailNotifications *bool `json:"email_notifications"`
	MissionUpdates     *bool `json:"mission_updates"`
	InterventionAlerts *bool `json:"intervention_alerts"`
	SystemAlerts       *bool `json:"system_alerts"`
}

// UpdatePreferences handles PUT /api/v1/notifications/preferences
func (h *NotificationHandler) UpdatePreferences(c *gin.Context) {
	var req UpdatePreferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	prefs, err := h.notifications.UpdatePreferences(c.Request.Context(), middleware.CurrentUserID(c), repository.UpdatePreferencesParams{
		EmailNotifications: req.EmailNotifications,
		MissionUpdates:     req.MissionUpdates,
		InterventionAlerts: req.InterventionAlerts,
		SystemAlerts:       req.SystemAlerts,
	})
	if err != nil {
		respondError(c, apperr.FromDB(err, "notification preferences"))
		return
	}
	respondOK(c, prefs)
}
