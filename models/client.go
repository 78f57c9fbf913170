package models

import "time"

// Client represents a client entity
type Client struct {
	ID               int       `json:"id"`
	Nom              string    `json:"nom"`
	Email            string    `json:"email"`
	Telephone        *string   `json:"telephone,omitempty"`
	Entreprise       *string   `json:"entreprise,omitempty"`
	TypeDeCarte      *string   `json:"type_de_carte,omitempty"`
	Statut           string    `json:"statut"`
	Localisation     *string   `json:"localisation,omitempty"`
	DateDInscription time.Time `json:"date_d_inscription"`
}
