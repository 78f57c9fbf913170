package models

import "time"

// User status values.
const (
	UserStatusActive   = "active"
	UserStatusDisabled = "disabled"
)

// Role labels stored in the role reference table.
const (
	RoleAdministrateur = "Administrateur"
	RoleManager        = "Manager"
	RoleUtilisateur    = "Utilisateur"
)

// User represents an application user
type User struct {
	ID           int        `json:"id"`
	Nom          string     `json:"nom"`
	Prenom       string     `json:"prenom"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"` // Never serialize password hash
	RoleID       int        `json:"role_id"`
	Role         string     `json:"role,omitempty"` // joined role.libelle
	Status       string     `json:"status"`
	LastLogin    *time.Time `json:"last_login,omitempty"`
	Telephone    *string    `json:"telephone,omitempty"`
	Theme        *string    `json:"theme,omitempty"`
	DisplayName  *string    `json:"display_name,omitempty"`
	Adresse      *string    `json:"adresse,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// IsActive reports whether the user may authenticate.
func (u *User) IsActive() bool {
	return u.Status == UserStatusActive
}

// Role represents a role reference row
type Role struct {
	ID      int    `json:"id"`
	Libelle string `json:"libelle"`
}
