package models

// Technicien represents a field technician
type Technicien struct {
	ID           int     `json:"id"`
	Nom          string  `json:"nom"`
	Prenom       string  `json:"prenom"`
	Contact      *string `json:"contact,omitempty"`
	SpecialiteID int     `json:"specialite_id"`
	Specialite   string  `json:"specialite,omitempty"` // joined specialite.libelle
}

// Specialite is a read-only reference row
type Specialite struct {
	ID      int    `json:"id"`
	Libelle string `json:"libelle"`
}
