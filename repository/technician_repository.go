package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"golang.org/x/sync/errgroup"

	"github.com/progitek/parabellum/models"
)

// TechnicienRepository handles database operations for technicians
type TechnicienRepository struct {
	db *DB
}

// NewTechnicienRepository creates a new technician repository
func NewTechnicienRepository(db *DB) *TechnicienRepository {
	return &TechnicienRepository{db: db}
}

const technicienColumns = `t.id, t.nom, t.prenom, t.contact, t.specialite_id, s.libelle`

func scanTechnicien(row pgx.Row) (*models.Technicien, error) {
	t := &models.Technicien{}
	err := row.Scan(
		&t.ID,
		&t.Nom,
		&t.Prenom,
		&t.Contact,
		&t.SpecialiteID,
		&t.Specialite,
	)
	if err != nil {
		return nil, err
	}
	return t, nil
}

// Create inserts a new technician.
func (r *TechnicienRepository) Create(ctx context.Context, t *models.Technicien) error {
	query := `
		INSERT INTO technicien (nom, prenom, contact, specialite_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	return r.db.QueryRow(ctx, query, t.Nom, t.Prenom, t.Contact, t.SpecialiteID).Scan(&t.ID)
}

// GetByID retrieves a technician with its specialty label.
func (r *TechnicienRepository) GetByID(ctx context.Context, id int) (*models.Technicien, error) {
	query := `
		SELECT ` + technicienColumns + `
		FROM technicien t
		JOIN specialite s ON s.id = t.specialite_id
		WHERE t.id = $1`
	return scanTechnicien(r.db.QueryRow(ctx, query, id))
}

// Exists reports whether a technician row exists.
func (r *TechnicienRepository) Exists(ctx context.Context, id int) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM technicien WHERE id = $1)`, id).Scan(&exists)
	return exists, err
}

// ListTechniciensParams are the supported list filters.
type ListTechniciensParams struct {
	Page         int
	Limit        int
	Search       string
	SpecialiteID int
}

// List returns one page of technicians ordered by name.
func (r *TechnicienRepository) List(ctx context.Context, p ListTechniciensParams) ([]*models.Technicien, int, error) {
	page, limit := normalizePage(p.Page, p.Limit, 10)

	b := &condBuilder{}
	b.search(p.Search, "t.nom", "t.prenom", "t.contact")
	if p.SpecialiteID > 0 {
		b.eq("t.specialite_id", p.SpecialiteID)
	}
	where := b.where()
	countArgs := append([]interface{}(nil), b.args...)

	dataQuery := `
		SELECT ` + technicienColumns + `
		FROM technicien t
		JOIN specialite s ON s.id = t.specialite_id` + where +
		` ORDER BY t.nom ASC, t.prenom ASC` + b.page(page, limit)
	countQuery := `SELECT COUNT(*) FROM technicien t` + where

	techniciens := []*models.Technicien{}
	var total int

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := r.db.Query(gctx, dataQuery, b.args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			t, err := scanTechnicien(rows)
			if err != nil {
				return err
			}
			techniciens = append(techniciens, t)
		}
		return rows.Err()
	})
	g.Go(func() error {
		return r.db.QueryRow(gctx, countQuery, countArgs...).Scan(&total)
	})
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}

	return techniciens, total, nil
}

// UpdateTechnicienParams carries the allow-listed partial-update fields.
type UpdateTechnicienParams struct {
	Nom          *string
	Prenom       *string
	Contact      *string
	SpecialiteID *int
}

// Update applies a partial update and returns the resulting row.
func (r *TechnicienRepository) Update(ctx context.Context, id int, p UpdateTechnicienParams) (*models.Technicien, error) {
	u := &updateBuilder{}
	if p.Nom != nil {
		u.set("nom", *p.Nom)
	}
	if p.Prenom != nil {
		u.set("prenom", *p.Prenom)
	}
	if p.Contact != nil {
		u.set("contact", *p.Contact)
	}
	if p.SpecialiteID != nil {
		u.set("specialite_id", *p.SpecialiteID)
	}

	if u.empty() {
		return r.GetByID(ctx, id)
	}

	setClause, next := u.clause()
	query := `UPDATE technicien ` + setClause + ` WHERE id = $` + itoa(next) + ` RETURNING id`
	args := append(u.args, id)

	var updatedID int
	if err := r.db.QueryRow(ctx, query, args...).Scan(&updatedID); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, updatedID)
}

// Delete removes a technician.
func (r *TechnicienRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM technicien WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// ListSpecialites returns the read-only specialty reference data.
func (r *TechnicienRepository) ListSpecialites(ctx context.Context) ([]*models.Specialite, error) {
	rows, err := r.db.Query(ctx, `SELECT id, libelle FROM specialite ORDER BY libelle ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	specialites := []*models.Specialite{}
	for rows.Next() {
		s := &models.Specialite{}
		if err := rows.Scan(&s.ID, &s.Libelle); err != nil {
			return nil, err
		}
		specialites = append(specialites, s)
	}
	return specialites, rows.Err()
}

// SpecialiteExists reports whether a specialty reference row exists.
func (r *TechnicienRepository) SpecialiteExists(ctx context.Context, id int) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM specialite WHERE id = $1)`, id).Scan(&exists)
	return exists, err
}
