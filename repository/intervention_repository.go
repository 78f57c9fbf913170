package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"golang.org/x/sync/errgroup"

	"github.com/progitek/parabellum/models"
)

// InterventionRepository handles database operations for interventions
type InterventionRepository struct {
	db *DB
}

// NewInterventionRepository creates a new intervention repository
func NewInterventionRepository(db *DB) *InterventionRepository {
	return &InterventionRepository{db: db}
}

const interventionColumns = `i.id, i.date_heure_debut, i.date_heure_fin, i.duree, i.mission_id, i.technicien_id, COALESCE(t.nom, '')`

func scanIntervention(row pgx.Row) (*models.Intervention, error) {
	iv := &models.Intervention{}
	err := row.Scan(
		&iv.ID,
		&iv.DateHeureDebut,
		&iv.DateHeureFin,
		&iv.Duree,
		&iv.MissionID,
		&iv.TechnicienID,
		&iv.TechnicienNom,
	)
	if err != nil {
		return nil, err
	}
	return iv, nil
}

// Create inserts a new intervention. Duree is derived from the two bounds
// before the write; it is never taken from the caller.
func (r *InterventionRepository) Create(ctx context.Context, iv *models.Intervention) error {
	iv.Duree = models.ComputeDuree(iv.DateHeureDebut, iv.DateHeureFin)

	query := `
		INSERT INTO intervention (date_heure_debut, date_heure_fin, duree, mission_id, technicien_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	return r.db.QueryRow(
		ctx, query,
		iv.DateHeureDebut,
		iv.DateHeureFin,
		iv.Duree,
		iv.MissionID,
		iv.TechnicienID,
	).Scan(&iv.ID)
}

// GetByID retrieves an intervention with its technician name.
func (r *InterventionRepository) GetByID(ctx context.Context, id int) (*models.Intervention, error) {
	query := `
		SELECT ` + interventionColumns + `
		FROM intervention i
		LEFT JOIN technicien t ON t.id = i.technicien_id
		WHERE i.id = $1`
	return scanIntervention(r.db.QueryRow(ctx, query, id))
}

// ListInterventionsParams are the supported list filters.
type ListInterventionsParams struct {
	Page         int
	Limit        int
	MissionID    string
	TechnicienID int
}

// List returns one page of interventions, most recent start first.
func (r *InterventionRepository) List(ctx context.Context, p ListInterventionsParams) ([]*models.Intervention, int, error) {
	page, limit := normalizePage(p.Page, p.Limit, 10)

	b := &condBuilder{}
	if p.MissionID != "" {
		b.eq("i.mission_id", p.MissionID)
	}
	if p.TechnicienID > 0 {
		b.eq("i.technicien_id", p.TechnicienID)
	}
	where := b.where()
	countArgs := append([]interface{}(nil), b.args...)

	dataQuery := `
		SELECT ` + interventionColumns + `
		FROM intervention i
		LEFT JOIN technicien t ON t.id = i.technicien_id` + where +
		` ORDER BY i.date_heure_debut DESC NULLS LAST` + b.page(page, limit)
	countQuery := `SELECT COUNT(*) FROM intervention i` + where

	interventions := []*models.Intervention{}
	var total int

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := r.db.Query(gctx, dataQuery, b.args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			iv, err := scanIntervention(rows)
			if err != nil {
				return err
			}
			interventions = append(interventions, iv)
		}
		return rows.Err()
	})
	g.Go(func() error {
		return r.db.QueryRow(gctx, countQuery, countArgs...).Scan(&total)
	})
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}

	return interventions, total, nil
}

// UpdateInterventionParams carries the allow-listed partial-update fields.
type UpdateInterventionParams struct {
	DateHeureDebut *time.Time
	DateHeureFin   *time.Time
	MissionID      *string
	TechnicienID   *int
}

// Update merges the supplied fields with the stored row, recomputes duree
// from the merged bounds and writes the result. Duree is set to NULL when
// either bound is missing, never left stale.
func (r *InterventionRepository) Update(ctx context.Context, id int, p UpdateInterventionParams) (*models.Intervention, error) {
	current, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	debut := current.DateHeureDebut
	fin := current.DateHeureFin
	if p.DateHeureDebut != nil {
		debut = p.DateHeureDebut
	}
	if p.DateHeureFin != nil {
		fin = p.DateHeureFin
	}

	u := &updateBuilder{}
	if p.DateHeureDebut != nil {
		u.set("date_heure_debut", *p.DateHeureDebut)
	}
	if p.DateHeureFin != nil {
		u.set("date_heure_fin", *p.DateHeureFin)
	}
	if p.DateHeureDebut != nil || p.DateHeureFin != nil {
		u.set("duree", models.ComputeDuree(debut, fin))
	}
	if p.MissionID != nil {
		u.set("mission_id", *p.MissionID)
	}
	if p.TechnicienID != nil {
		u.set("technicien_id", *p.TechnicienID)
	}

	if u.empty() {
		return current, nil
	}

	setClause, next := u.clause()
	query := `UPDATE intervention ` + setClause + ` WHERE id = $` + itoa(next) + ` RETURNING id`
	args := append(u.args, id)

	var updatedID int
	if err := r.db.QueryRow(ctx, query, args...).Scan(&updatedID); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, updatedID)
}

// Delete removes an intervention.
func (r *InterventionRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM intervention WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
