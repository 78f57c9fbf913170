package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"golang.org/x/sync/errgroup"

	"github.com/progitek/parabellum/models"
)

// UserRepository handles database operations for users
type UserRepository struct {
	db *DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `u.id, u.nom, u.prenom, u.email, u.password_hash, u.role_id, r.libelle, u.status, u.last_login, u.telephone, u.theme, u.display_name, u.adresse, u.created_at, u.updated_at`

func scanUser(row pgx.Row) (*models.User, error) {
	u := &models.User{}
	err := row.Scan(
		&u.ID,
		&u.Nom,
		&u.Prenom,
		&u.Email,
		&u.PasswordHash,
		&u.RoleID,
		&u.Role,
		&u.Status,
		&u.LastLogin,
		&u.Telephone,
		&u.Theme,
		&u.DisplayName,
		&u.Adresse,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return u, nil
}

// Create inserts a new user. The caller supplies an already-hashed
// password.
func (r *UserRepository) Create(ctx context.Context, u *models.User) error {
	query := `
		INSERT INTO utilisateur (nom, prenom, email, password_hash, role_id, status, telephone, theme, display_name, adresse)
		VALUES ($1, $2, $3, $4, $5, COALESCE(NULLIF($6, ''), 'active'), $7, $8, $9, $10)
		RETURNING id, status, created_at, updated_at`

	err := r.db.QueryRow(
		ctx, query,
		u.Nom,
		u.Prenom,
		u.Email,
		u.PasswordHash,
		u.RoleID,
		u.Status,
		u.Telephone,
		u.Theme,
		u.DisplayName,
		u.Adresse,
	).Scan(&u.ID, &u.Status, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return err
	}

	return r.db.QueryRow(ctx, `SELECT libelle FROM role WHERE id = $1`, u.RoleID).Scan(&u.Role)
}

// GetByID retrieves a user with its role label.
func (r *UserRepository) GetByID(ctx context.Context, id int) (*models.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM utilisateur u
		JOIN role r ON r.id = u.role_id
		WHERE u.id = $1`
	return scanUser(r.db.QueryRow(ctx, query, id))
}

// GetByEmail retrieves a user by email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM utilisateur u
		JOIN role r ON r.id = u.role_id
		WHERE u.email = $1`
	return scanUser(r.db.QueryRow(ctx, query, email))
}

// ListUsersParams are the supported list filters.
type ListUsersParams struct {
	Page   int
	Limit  int
	Search string
	Role   string
	Status string
}

// List returns one page of users ordered by creation date.
func (r *UserRepository) List(ctx context.Context, p ListUsersParams) ([]*models.User, int, error) {
	page, limit := normalizePage(p.Page, p.Limit, 10)

	b := &condBuilder{}
	b.search(p.Search, "u.nom", "u.prenom", "u.email")
	if p.Role != "" {
		b.eq("r.libelle", p.Role)
	}
	if p.Status != "" {
		b.eq("u.status", p.Status)
	}
	where := b.where()
	countArgs := append([]interface{}(nil), b.args...)

	dataQuery := `
		SELECT ` + userColumns + `
		FROM utilisateur u
		JOIN role r ON r.id = u.role_id` + where +
		` ORDER BY u.created_at DESC` + b.page(page, limit)
	countQuery := `
		SELECT COUNT(*)
		FROM utilisateur u
		JOIN role r ON r.id = u.role_id` + where

	users := []*models.User{}
	var total int

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := r.db.Query(gctx, dataQuery, b.args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			u, err := scanUser(rows)
			if err != nil {
				return err
			}
			users = append(users, u)
		}
		return rows.Err()
	})
	g.Go(func() error {
		return r.db.QueryRow(gctx, countQuery, countArgs...).Scan(&total)
	})
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

// UpdateUserParams carries the allow-listed partial-update fields.
type UpdateUserParams struct {
	Nom         *string
	Prenom      *string
	Email       *string
	RoleID      *int
	Status      *string
	Telephone   *string
	Theme       *string
	DisplayName *string
	Adresse     *string
}

// Update applies a partial update and returns the resulting row.
func (r *UserRepository) Update(ctx context.Context, id int, p UpdateUserParams) (*models.User, error) {
	u := &updateBuilder{}
	if p.Nom != nil {
		u.set("nom", *p.Nom)
	}
	if p.Prenom != nil {
		u.set("prenom", *p.Prenom)
	}
	if p.Email != nil {
		u.set("email", *p.Email)
	}
	if p.RoleID != nil {
		u.set("role_id", *p.RoleID)
	}
	if p.Status != nil {
		u.set("status", *p.Status)
	}
	if p.Telephone != nil {
		u.set("telephone", *p.Telephone)
	}
	if p.Theme != nil {
		u.set("theme", *p.Theme)
	}
	if p.DisplayName != nil {
		u.set("display_name", *p.DisplayName)
	}
	if p.Adresse != nil {
		u.set("adresse", *p.Adresse)
	}

	if u.empty() {
		return r.GetByID(ctx, id)
	}
	u.sets = append(u.sets, "updated_at = NOW()")

	setClause, next := u.clause()
	query := `UPDATE utilisateur ` + setClause + ` WHERE id = $` + itoa(next) + ` RETURNING id`
	args := append(u.args, id)

	var updatedID int
	if err := r.db.QueryRow(ctx, query, args...).Scan(&updatedID); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, updatedID)
}

// UpdatePassword stores a new password hash.
func (r *UserRepository) UpdatePassword(ctx context.Context, id int, hash string) error {
	tag, err := r.db.Exec(ctx, `UPDATE utilisateur SET password_hash = $1, updated_at = NOW() WHERE id = $2`, hash, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// UpdateLastLogin stamps a successful login.
func (r *UserRepository) UpdateLastLogin(ctx context.Context, id int) error {
	_, err := r.db.Exec(ctx, `UPDATE utilisateur SET last_login = NOW() WHERE id = $1`, id)
	return err
}

// Delete removes a user.
func (r *UserRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM utilisateur WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// RoleExists reports whether a role reference row exists.
func (r *UserRepository) RoleExists(ctx context.Context, id int) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM role WHERE id = $1)`, id).Scan(&exists)
	return exists, err
}

// ListRoles returns the role reference data.
func (r *UserRepository) ListRoles(ctx context.Context) ([]*models.Role, error) {
	rows, err := r.db.Query(ctx, `SELECT id, libelle FROM role ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	roles := []*models.Role{}
	for rows.Next() {
		role := &models.Role{}
		if err := rows.Scan(&role.ID, &role.Libelle); err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	return roles, rows.Err()
}
