package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"golang.org/x/sync/errgroup"

	"github.com/progitek/parabellum/models"
)

// ClientRepository handles database operations for clients
type ClientRepository struct {
	db *DB
}

// NewClientRepository creates a new client repository
func NewClientRepository(db *DB) *ClientRepository {
	return &ClientRepository{db: db}
}

const clientColumns = `id, nom, email, telephone, entreprise, type_de_carte, statut, localisation, date_d_inscription`

func scanClient(row pgx.Row) (*models.Client, error) {
	c := &models.Client{}
	err := row.Scan(
		&c.ID,
		&c.Nom,
		&c.Email,
		&c.Telephone,
		&c.Entreprise,
		&c.TypeDeCarte,
		&c.Statut,
		&c.Localisation,
		&c.DateDInscription,
	)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Create inserts a new client. A duplicate email surfaces as a unique
// violation from the driver.
func (r *ClientRepository) Create(ctx context.Context, c *models.Client) error {
	query := `
		INSERT INTO client (nom, email, telephone, entreprise, type_de_carte, statut, localisation)
		VALUES ($1, $2, $3, $4, $5, COALESCE(NULLIF($6, ''), 'actif'), $7)
		RETURNING id, statut, date_d_inscription`

	return r.db.QueryRow(
		ctx, query,
		c.Nom,
		c.Email,
		c.Telephone,
		c.Entreprise,
		c.TypeDeCarte,
		c.Statut,
		c.Localisation,
	).Scan(&c.ID, &c.Statut, &c.DateDInscription)
}

// GetByID retrieves a client by ID
func (r *ClientRepository) GetByID(ctx context.Context, id int) (*models.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM client WHERE id = $1`
	return scanClient(r.db.QueryRow(ctx, query, id))
}

// Exists reports whether a client row exists.
func (r *ClientRepository) Exists(ctx context.Context, id int) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM client WHERE id = $1)`, id).Scan(&exists)
	return exists, err
}

// ListClientsParams are the supported list filters.
type ListClientsParams struct {
	Page   int
	Limit  int
	Search string
	Statut string
}

// List returns one page of clients plus the total count matching the same
// filters. The data and count queries run concurrently.
func (r *ClientRepository) List(ctx context.Context, p ListClientsParams) ([]*models.Client, int, error) {
	page, limit := normalizePage(p.Page, p.Limit, 10)

	b := &condBuilder{}
	b.search(p.Search, "nom", "email", "entreprise", "telephone")
	if p.Statut != "" {
		b.eq("statut", p.Statut)
	}
	where := b.where()
	countArgs := append([]interface{}(nil), b.args...)

	dataQuery := `SELECT ` + clientColumns + ` FROM client` + where +
		` ORDER BY date_d_inscription DESC` + b.page(page, limit)
	countQuery := `SELECT COUNT(*) FROM client` + where

	clients := []*models.Client{}
	var total int

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := r.db.Query(gctx, dataQuery, b.args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			c, err := scanClient(rows)
			if err != nil {
				return err
			}
			clients = append(clients, c)
		}
		return rows.Err()
	})
	g.Go(func() error {
		return r.db.QueryRow(gctx, countQuery, countArgs...).Scan(&total)
	})
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}

	return clients, total, nil
}

// UpdateClientParams carries the allow-listed partial-update fields; nil
// pointers mean "keep the stored value".
type UpdateClientParams struct {
	Nom          *string
	Email        *string
	Telephone    *string
	Entreprise   *string
	TypeDeCarte  *string
	Statut       *string
	Localisation *string
}

// Update applies a partial update and returns the resulting row.
func (r *ClientRepository) Update(ctx context.Context, id int, p UpdateClientParams) (*models.Client, error) {
	u := &updateBuilder{}
	if p.Nom != nil {
		u.set("nom", *p.Nom)
	}
	if p.Email != nil {
		u.set("email", *p.Email)
	}
	if p.Telephone != nil {
		u.set("telephone", *p.Telephone)
	}
	if p.Entreprise != nil {
		u.set("entreprise", *p.Entreprise)
	}
	if p.TypeDeCarte != nil {
		u.set("type_de_carte", *p.TypeDeCarte)
	}
	if p.Statut != nil {
		u.set("statut", *p.Statut)
	}
	if p.Localisation != nil {
		u.set("localisation", *p.Localisation)
	}

	if u.empty() {
		return r.GetByID(ctx, id)
	}

	setClause, next := u.clause()
	query := `UPDATE client ` + setClause + ` WHERE id = $` + itoa(next) + ` RETURNING ` + clientColumns
	args := append(u.args, id)

	return scanClient(r.db.QueryRow(ctx, query, args...))
}

// Delete removes a client.
func (r *ClientRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM client WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
