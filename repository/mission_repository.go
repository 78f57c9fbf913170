package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"golang.org/x/sync/errgroup"

	"github.com/progitek/parabellum/models"
)

// MissionRepository handles database operations for missions
type MissionRepository struct {
	db *DB
}

// NewMissionRepository creates a new mission repository
func NewMissionRepository(db *DB) *MissionRepository {
	return &MissionRepository{db: db}
}

const missionColumns = `m.num_intervention, m.nature_intervention, m.objectif_du_contrat, m.description, m.date_sortie_fiche_intervention, m.client_id, c.nom`

func scanMission(row pgx.Row) (*models.Mission, error) {
	m := &models.Mission{}
	err := row.Scan(
		&m.NumIntervention,
		&m.NatureIntervention,
		&m.ObjectifDuContrat,
		&m.Description,
		&m.DateSortieFicheIntervention,
		&m.ClientID,
		&m.ClientNom,
	)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// Create inserts a new mission.
func (r *MissionRepository) Create(ctx context.Context, m *models.Mission) error {
	query := `
		INSERT INTO mission (num_intervention, nature_intervention, objectif_du_contrat, description, client_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING date_sortie_fiche_intervention`

	return r.db.QueryRow(
		ctx, query,
		m.NumIntervention,
		m.NatureIntervention,
		m.ObjectifDuContrat,
		m.Description,
		m.ClientID,
	).Scan(&m.DateSortieFicheIntervention)
}

// GetByNum retrieves a mission with its client name.
func (r *MissionRepository) GetByNum(ctx context.Context, num string) (*models.Mission, error) {
	query := `
		SELECT ` + missionColumns + `
		FROM mission m
		JOIN client c ON c.id = m.client_id
		WHERE m.num_intervention = $1`
	return scanMission(r.db.QueryRow(ctx, query, num))
}

// Exists reports whether a mission row exists.
func (r *MissionRepository) Exists(ctx context.Context, num string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM mission WHERE num_intervention = $1)`, num).Scan(&exists)
	return exists, err
}

// ListMissionsParams are the supported list filters.
type ListMissionsParams struct {
	Page     int
	Limit    int
	Search   string
	ClientID int
}

// List returns one page of missions, newest fiche first.
func (r *MissionRepository) List(ctx context.Context, p ListMissionsParams) ([]*models.Mission, int, error) {
	page, limit := normalizePage(p.Page, p.Limit, 10)

	b := &condBuilder{}
	b.search(p.Search, "m.num_intervention", "m.nature_intervention", "m.objectif_du_contrat", "m.description")
	if p.ClientID > 0 {
		b.eq("m.client_id", p.ClientID)
	}
	where := b.where()
	countArgs := append([]interface{}(nil), b.args...)

	dataQuery := `
		SELECT ` + missionColumns + `
		FROM mission m
		JOIN client c ON c.id = m.client_id` + where +
		` ORDER BY m.date_sortie_fiche_intervention DESC` + b.page(page, limit)
	countQuery := `SELECT COUNT(*) FROM mission m` + where

	missions := []*models.Mission{}
	var total int

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := r.db.Query(gctx, dataQuery, b.args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			m, err := scanMission(rows)
			if err != nil {
				return err
			}
			missions = append(missions, m)
		}
		return rows.Err()
	})
	g.Go(func() error {
		return r.db.QueryRow(gctx, countQuery, countArgs...).Scan(&total)
	})
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}

	return missions, total, nil
}

// UpdateMissionParams carries the allow-listed partial-update fields.
type UpdateMissionParams struct {
	NatureIntervention *string
	ObjectifDuContrat  *string
	Description        *string
	ClientID           *int
}

// Update applies a partial update and returns the resulting row.
func (r *MissionRepository) Update(ctx context.Context, num string, p UpdateMissionParams) (*models.Mission, error) {
	u := &updateBuilder{}
	if p.NatureIntervention != nil {
		u.set("nature_intervention", *p.NatureIntervention)
	}
	if p.ObjectifDuContrat != nil {
		u.set("objectif_du_contrat", *p.ObjectifDuContrat)
	}
	if p.Description != nil {
		u.set("description", *p.Description)
	}
	if p.ClientID != nil {
		u.set("client_id", *p.ClientID)
	}

	if u.empty() {
		return r.GetByNum(ctx, num)
	}

	setClause, next := u.clause()
	query := `UPDATE mission ` + setClause + ` WHERE num_intervention = $` + itoa(next) + ` RETURNING num_intervention`
	args := append(u.args, num)

	var updatedNum string
	if err := r.db.QueryRow(ctx, query, args...).Scan(&updatedNum); err != nil {
		return nil, err
	}
	return r.GetByNum(ctx, updatedNum)
}

// Delete removes a mission and its dependent interventions in one
// transaction.
func (r *MissionRepository) Delete(ctx context.Context, num string) error {
	return r.db.WithTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM intervention WHERE mission_id = $1`, num); err != nil {
			return err
		}
		tag, err := tx.Exec(ctx, `DELETE FROM mission WHERE num_intervention = $1`, num)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return pgx.ErrNoRows
		}
		return nil
	})
}
