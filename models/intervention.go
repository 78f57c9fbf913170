package models

import "time"

// Intervention represents a technician visit within a mission
type Intervention struct {
	ID             int        `json:"id"`
	DateHeureDebut *time.Time `json:"date_heure_debut,omitempty"`
	DateHeureFin   *time.Time `json:"date_heure_fin,omitempty"`
	Duree          *float64   `json:"duree,omitempty"` // hours, recomputed from the two bounds
	MissionID      string     `json:"mission_id"`
	TechnicienID   *int       `json:"technicien_id,omitempty"`
	TechnicienNom  string     `json:"technicien_nom,omitempty"` // joined technicien.nom
}

// ComputeDuree returns the duration between debut and fin in fractional
// hours, or nil when either bound is missing. A stale stored value must
// never survive a change to one of the bounds.
func ComputeDuree(debut, fin *time.Time) *float64 {
	if debut == nil || fin == nil {
		return nil
	}
	hours := fin.Sub(*debut).Hours()
	return &hours
}
