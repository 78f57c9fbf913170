package repository

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/progitek/parabellum/models"
)

// DashboardStats is the aggregate returned by the dashboard endpoint.
type DashboardStats struct {
	Clients              int                    `json:"clients"`
	Techniciens          int                    `json:"techniciens"`
	Missions             int                    `json:"missions"`
	Interventions        int                    `json:"interventions"`
	InterventionsEnCours int                    `json:"interventions_en_cours"`
	RecentInterventions  []*models.Intervention `json:"recent_interventions"`
	MissionsParMois      []*models.TrendPoint   `json:"missions_par_mois"`
}

// DashboardRepository computes the dashboard aggregates.
type DashboardRepository struct {
	db      *DB
	reports *ReportRepository
}

// NewDashboardRepository creates a new dashboard repository
func NewDashboardRepository(db *DB) *DashboardRepository {
	return &DashboardRepository{db: db, reports: NewReportRepository(db)}
}

// Stats fans out the count and listing queries concurrently and joins the
// results into one aggregate.
func (r *DashboardRepository) Stats(ctx context.Context) (*DashboardStats, error) {
	stats := &DashboardStats{}

	g, gctx := errgroup.WithContext(ctx)

	count := func(query string, dest *int) func() error {
		return func() error {
			return r.db.QueryRow(gctx, query).Scan(dest)
		}
	}

	g.Go(count(`SELECT COUNT(*) FROM client`, &stats.Clients))
	g.Go(count(`SELECT COUNT(*) FROM technicien`, &stats.Techniciens))
	g.Go(count(`SELECT COUNT(*) FROM mission`, &stats.Missions))
	g.Go(count(`SELECT COUNT(*) FROM intervention`, &stats.Interventions))
	g.Go(count(`SELECT COUNT(*) FROM intervention WHERE date_heure_debut IS NOT NULL AND date_heure_fin IS NULL`, &stats.InterventionsEnCours))

	g.Go(func() error {
		query := `
			SELECT ` + interventionColumns + `
			FROM intervention i
			LEFT JOIN technicien t ON t.id = i.technicien_id
			ORDER BY i.date_heure_debut DESC NULLS LAST
			LIMIT 5`
		rows, err := r.db.Query(gctx, query)
		if err != nil {
			return err
		}
		defer rows.Close()
		recent := []*models.Intervention{}
		for rows.Next() {
			iv, err := scanIntervention(rows)
			if err != nil {
				return err
			}
			recent = append(recent, iv)
		}
		stats.RecentInterventions = recent
		return rows.Err()
	})

	g.Go(func() error {
		query := `
			SELECT date_trunc('month', date_sortie_fiche_intervention) AS month, COUNT(*)
			FROM mission
			WHERE date_sortie_fiche_intervention >= NOW() - INTERVAL '6 months'
			GROUP BY 1
			ORDER BY 1 ASC`
		rows, err := r.db.Query(gctx, query)
		if err != nil {
			return err
		}
		defer rows.Close()
		points := []*models.TrendPoint{}
		for rows.Next() {
			p := &models.TrendPoint{}
			if err := rows.Scan(&p.Month, &p.Missions); err != nil {
				return err
			}
			points = append(points, p)
		}
		stats.MissionsParMois = points
		return rows.Err()
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return stats, nil
}
