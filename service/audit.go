package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/progitek/parabellum/models"
)

// AuditWriter is the slice of the audit repository the recorder needs.
type AuditWriter interface {
	Insert(ctx context.Context, entry *models.AuditLog) error
	InsertActivity(ctx context.Context, entry *models.ActivityLog) error
}

// Actor identifies who performed a mutation.
type Actor struct {
	ID       int
	Username string
}

// Recorder appends audit rows as best-effort post-commit side effects.
// Failures are logged and swallowed; they never undo or fail the primary
// mutation, and there is no retry.
type Recorder struct {
	repo AuditWriter
	log  *zap.Logger
}

// NewRecorder creates a new audit recorder
func NewRecorder(repo AuditWriter, log *zap.Logger) *Recorder {
	return &Recorder{repo: repo, log: log}
}

// Record appends one audit row describing a completed mutation.
func (r *Recorder) Record(ctx context.Context, actor Actor, action, entityType, entityID, details, ip string) {
	if r.repo == nil {
		return
	}
	entry := &models.AuditLog{
		UserID:     actor.ID,
		Username:   actor.Username,
		ActionType: action,
		EntityType: entityType,
		EntityID:   entityID,
		Details:    details,
		IPAddress:  ip,
	}
	if err := r.repo.Insert(ctx, entry); err != nil {
		r.log.Warn("audit write failed",
			zap.String("action", action),
			zap.String("entity_type", entityType),
			zap.String("entity_id", entityID),
			zap.Error(err),
		)
	}
}

// RecordActivity appends one login-trace row.
func (r *Recorder) RecordActivity(ctx context.Context, userID int, ip, browser string) {
	if r.repo == nil {
		return
	}
	entry := &models.ActivityLog{UserID: userID, IP: ip, Browser: browser}
	if err := r.repo.InsertActivity(ctx, entry); err != nil {
		r.log.Warn("activity write failed", zap.Int("user_id", userID), zap.Error(err))
	}
}
