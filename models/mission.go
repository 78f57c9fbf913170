package models

import "time"

// Mission represents a service contract for a client. The primary key is
// num_intervention, a caller-assigned reference such as "INT-2024-0042".
type Mission struct {
	NumIntervention             string    `json:"num_intervention"`
	NatureIntervention          string    `json:"nature_intervention"`
	ObjectifDuContrat           *string   `json:"objectif_du_contrat,omitempty"`
	Description                 *string   `json:"description,omitempty"`
	DateSortieFicheIntervention time.Time `json:"date_sortie_fiche_intervention"`
	ClientID                    int       `json:"client_id"`
	ClientNom                   string    `json:"client_nom,omitempty"` // joined client.nom
}
