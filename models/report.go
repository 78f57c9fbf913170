package models

import "time"

// ReportType selects one of the fixed aggregation queries.
type ReportType string

const (
	ReportActivity      ReportType = "activity"
	ReportInterventions ReportType = "interventions"
	ReportClients       ReportType = "clients"
	ReportTechnicians   ReportType = "technicians"
	ReportTrends        ReportType = "trends"
)

// Valid reports whether the type belongs to the closed enum.
func (t ReportType) Valid() bool {
	switch t {
	case ReportActivity, ReportInterventions, ReportClients, ReportTechnicians, ReportTrends:
		return true
	}
	return false
}

// Report records an on-demand report generation. The computed aggregate
// itself is returned in the response only, never persisted.
type Report struct {
	ID         int        `json:"id"`
	ReportType ReportType `json:"report_type"`
	UserID     int        `json:"user_id"`
	CreatedAt  time.Time  `json:"created_at"`
}

// ActivityCount is one day bucket of the activity report.
type ActivityCount struct {
	Day           time.Time `json:"day"`
	Logins        int       `json:"logins"`
	Interventions int       `json:"interventions"`
}

// ClientSummary is one row of the clients report.
type ClientSummary struct {
	Client
	MissionCount int `json:"mission_count"`
}

// TechnicianPerformance is one row of the technicians report.
type TechnicianPerformance struct {
	TechnicienID      int      `json:"technicien_id"`
	Nom               string   `json:"nom"`
	Prenom            string   `json:"prenom"`
	Specialite        string   `json:"specialite"`
	InterventionCount int      `json:"intervention_count"`
	AvgDuree          *float64 `json:"avg_duree,omitempty"`
}

// TrendPoint is one month bucket of the trends report.
type TrendPoint struct {
	Month         time.Time `json:"month"`
	Missions      int       `json:"missions"`
	Interventions int       `json:"interventions"`
	NewClients    int       `json:"new_clients"`
}
