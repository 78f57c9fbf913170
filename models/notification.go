package models

import (
	"time"

	"github.com/google/uuid"
)

// Notification represents an in-app notification row, stored on the
// managed-backend side (table "notifications").
type Notification struct {
	ID        uuid.UUID              `json:"id"`
	UserID    int                    `json:"user_id"`
	Type      string                 `json:"type"`
	Message   string                 `json:"message"`
	Data      map[string]interface{} `json:"data,omitempty"`
	ReadAt    *time.Time             `json:"read_at,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
}

// IsRead reports whether the notification has been read.
func (n *Notification) IsRead() bool {
	return n.ReadAt != nil
}

// NotificationPreferences holds the per-category opt-in flags for a user.
// The row is created lazily with defaults on first read.
type NotificationPreferences struct {
	UserID             int       `json:"user_id"`
	EmailNotifications bool      `json:"email_notifications"`
	MissionUpdates     bool      `json:"mission_updates"`
	InterventionAlerts bool      `json:"intervention_alerts"`
	SystemAlerts       bool      `json:"system_alerts"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// DefaultNotificationPreferences returns the row written on lazy creation.
func DefaultNotificationPreferences(userID int) *NotificationPreferences {
	return &NotificationPreferences{
		UserID:             userID,
		EmailNotifications: true,
		MissionUpdates:     true,
		InterventionAlerts: true,
		SystemAlerts:       true,
	}
}
