package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/progitek/parabellum/models"
	"github.com/progitek/parabellum/supabase"
)

// NotificationRepository stores notifications on the managed-backend side
// (tables "notifications" and "notification_preferences").
type NotificationRepository struct {
	sb *supabase.Client
}

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(sb *supabase.Client) *NotificationRepository {
	return &NotificationRepository{sb: sb}
}

// Create inserts a notification row.
func (r *NotificationRepository) Create(ctx context.Context, n *models.Notification) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}

	var inserted []*models.Notification
	err := r.sb.From("notifications").Insert([]*models.Notification{n}).ExecuteInto(ctx, &inserted)
	if err != nil {
		return err
	}
	if len(inserted) > 0 {
		*n = *inserted[0]
	}
	return nil
}

// ListNotificationsParams are the supported list filters.
type ListNotificationsParams struct {
	Page       int
	Limit      int
	UserID     int
	UnreadOnly bool
}

// List returns one page of a user's notifications, newest first, plus the
// exact total for the same filters.
func (r *NotificationRepository) List(ctx context.Context, p ListNotificationsParams) ([]*models.Notification, int, error) {
	page, limit := normalizePage(p.Page, p.Limit, 20)

	q := r.sb.From("notifications").
		Select("*").
		Eq("user_id", p.UserID).
		Order("created_at", true).
		Limit(limit).
		Offset((page - 1) * limit)
	if p.UnreadOnly {
		q.Is("read_at", "null")
	}

	notifications := []*models.Notification{}
	total, err := q.ExecuteWithCount(ctx, &notifications)
	if err != nil {
		return nil, 0, err
	}
	return notifications, total, nil
}

// MarkRead stamps read_at on one notification owned by userID.
func (r *NotificationRepository) MarkRead(ctx context.Context, id uuid.UUID, userID int) (*models.Notification, error) {
	var updated []*models.Notification
	err := r.sb.From("notifications").
		Update(map[string]interface{}{"read_at": time.Now().UTC()}).
		Eq("id", id).
		Eq("user_id", userID).
		Is("read_at", "null").
		ExecuteInto(ctx, &updated)
	if err != nil {
		return nil, err
	}
	if len(updated) == 0 {
		return nil, pgx.ErrNoRows
	}
	return updated[0], nil
}

// MarkAllRead stamps read_at on every unread notification of a user and
// returns how many were affected.
func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID int) (int, error) {
	var updated []*models.Notification
	err := r.sb.From("notifications").
		Update(map[string]interface{}{"read_at": time.Now().UTC()}).
		Eq("user_id", userID).
		Is("read_at", "null").
		ExecuteInto(ctx, &updated)
	if err != nil {
		return 0, err
	}
	return len(updated), nil
}

// Delete removes one notification owned by userID.
func (r *NotificationRepository) Delete(ctx context.Context, id uuid.UUID, userID int) error {
	var deleted []*models.Notification
	err := r.sb.From("notifications").
		Delete().
		Eq("id", id).
		Eq("user_id", userID).
		ExecuteInto(ctx, &deleted)
	if err != nil {
		return err
	}
	if len(deleted) == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// GetPreferences returns the user's notification preferences, creating
// the row with defaults on first read.
func (r *NotificationRepository) GetPreferences(ctx context.Context, userID int) (*models.NotificationPreferences, error) {
	prefs := &models.NotificationPreferences{}
	err := r.sb.From("notification_preferences").
		Select("*").
		Eq("user_id", userID).
		Single().
		ExecuteInto(ctx, prefs)
	if err == nil {
		return prefs, nil
	}

	var sbErr *supabase.Error
	if !errors.As(err, &sbErr) || !sbErr.IsNotFound() {
		return nil, err
	}

	defaults := models.DefaultNotificationPreferences(userID)
	defaults.UpdatedAt = time.Now().UTC()
	var inserted []*models.NotificationPreferences
	if err := r.sb.From("notification_preferences").Insert([]*models.NotificationPreferences{defaults}).ExecuteInto(ctx, &inserted); err != nil {
		return nil, err
	}
	if len(inserted) > 0 {
		return inserted[0], nil
	}
	return defaults, nil
}

// UpdatePreferencesParams carries the allow-listed preference flags.
type UpdatePreferencesParams struct {
	EmailNotifications *bool
	MissionUpdates     *bool
	InterventionAlerts *bool
	SystemAlerts       *bool
}

// UpdatePreferences applies a partial update to the preference row.
func (r *NotificationRepository) UpdatePreferences(ctx context.Context, userID int, p UpdatePreferencesParams) (*models.NotificationPreferences, error) {
	// Ensure the row exists before patching it.
	if _, err := r.GetPreferences(ctx, userID); err != nil {
		return nil, err
	}

	patch := map[string]interface{}{"updated_at": time.Now().UTC()}
	if p.EmailNotifications != nil {
		patch["email_notifications"] = *p.EmailNotifications
	}
	if p.MissionUpdates != nil {
		patch["mission_updates"] = *p.MissionUpdates
	}
	if p.InterventionAlerts != nil {
		patch["intervention_alerts"] = *p.InterventionAlerts
	}
	if p.SystemAlerts != nil {
		patch["system_alerts"] = *p.SystemAlerts
	}

	var updated []*models.NotificationPreferences
	err := r.sb.From("notification_preferences").
		Update(patch).
		Eq("user_id", userID).
		ExecuteInto(ctx, &updated)
	if err != nil {
		return nil, err
	}
	if len(updated) == 0 {
		return nil, pgx.ErrNoRows
	}
	return updated[0], nil
}
