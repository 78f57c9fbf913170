package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/progitek/parabellum/models"
	"github.com/progitek/parabellum/supabase"
)

// AuditRepository appends and lists audit rows on the managed-backend
// side (tables "audit_logs" and "activity_log").
type AuditRepository struct {
	sb *supabase.Client
}

// NewAuditRepository creates a new audit repository
func NewAuditRepository(sb *supabase.Client) *AuditRepository {
	return &AuditRepository{sb: sb}
}

// Insert appends one audit row.
func (r *AuditRepository) Insert(ctx context.Context, entry *models.AuditLog) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}
	return r.sb.From("audit_logs").Insert([]*models.AuditLog{entry}).ExecuteInto(ctx, nil)
}

// InsertActivity appends one login-trace row.
func (r *AuditRepository) InsertActivity(ctx context.Context, entry *models.ActivityLog) error {
	if entry.LoginTime.IsZero() {
		entry.LoginTime = time.Now().UTC()
	}
	return r.sb.From("activity_log").Insert([]*models.ActivityLog{entry}).ExecuteInto(ctx, nil)
}

// ListAuditParams are the supported list filters.
type ListAuditParams struct {
	Page       int
	Limit      int
	Search     string
	ActionType string
	EntityType string
}

// List returns one page of audit rows, newest first, plus the exact total.
func (r *AuditRepository) List(ctx context.Context, p ListAuditParams) ([]*models.AuditLog, int, error) {
	page, limit := normalizePage(p.Page, p.Limit, 50)

	q := r.sb.From("audit_logs").
		Select("*").
		Order("timestamp", true).
		Limit(limit).
		Offset((page - 1) * limit)
	if p.ActionType != "" {
		q.Eq("action_type", p.ActionType)
	}
	if p.EntityType != "" {
		q.Eq("entity_type", p.EntityType)
	}
	if p.Search != "" {
		pattern := "*" + escapePattern(p.Search) + "*"
		q.Or(fmt.Sprintf("details.ilike.%s,username.ilike.%s", pattern, pattern))
	}

	entries := []*models.AuditLog{}
	total, err := q.ExecuteWithCount(ctx, &entries)
	if err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

// escapePattern strips PostgREST filter metacharacters from a free-text
// search term.
func escapePattern(s string) string {
	return strings.NewReplacer(",", " ", "(", " ", ")", " ", "*", " ").Replace(s)
}
