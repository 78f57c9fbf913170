package models

import (
	"time"

	"github.com/google/uuid"
)

// Audit action verbs.
const (
	ActionCreate = "CREATE"
	ActionUpdate = "UPDATE"
	ActionDelete = "DELETE"
	ActionLogin  = "LOGIN"
	ActionLogout = "LOGOUT"
)

// AuditLog is an append-only record of who did what to which entity.
// Username is a denormalized snapshot taken at write time.
type AuditLog struct {
	ID         uuid.UUID `json:"id"`
	UserID     int       `json:"user_id"`
	Username   string    `json:"username"`
	ActionType string    `json:"action_type"`
	EntityType string    `json:"entity_type"`
	EntityID   string    `json:"entity_id"`
	Details    string    `json:"details"`
	IPAddress  string    `json:"ip_address"`
	Timestamp  time.Time `json:"timestamp"`
}

// ActivityLog is an append-only login trace.
type ActivityLog struct {
	UserID    int       `json:"user_id"`
	IP        string    `json:"ip"`
	Browser   string    `json:"browser"`
	LoginTime time.Time `json:"login_time"`
}
