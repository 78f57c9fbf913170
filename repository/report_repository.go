package repository

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/progitek/parabellum/models"
)

// ReportRepository runs the fixed report aggregations and records report
// generations.
type ReportRepository struct {
	db *DB
}

// NewReportRepository creates a new report repository
func NewReportRepository(db *DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// InsertRecord appends a report-generation record. The aggregate payload
// itself is never stored.
func (r *ReportRepository) InsertRecord(ctx context.Context, rep *models.Report) error {
	query := `INSERT INTO reports (report_type, user_id) VALUES ($1, $2) RETURNING id, created_at`
	return r.db.QueryRow(ctx, query, rep.ReportType, rep.UserID).Scan(&rep.ID, &rep.CreatedAt)
}

// ListRecordsParams are the supported list filters.
type ListRecordsParams struct {
	Page   int
	Limit  int
	UserID int
}

// ListRecords returns one page of past report-generation records.
func (r *ReportRepository) ListRecords(ctx context.Context, p ListRecordsParams) ([]*models.Report, int, error) {
	page, limit := normalizePage(p.Page, p.Limit, 10)

	b := &condBuilder{}
	if p.UserID > 0 {
		b.eq("user_id", p.UserID)
	}
	where := b.where()
	countArgs := append([]interface{}(nil), b.args...)

	dataQuery := `SELECT id, report_type, user_id, created_at FROM reports` + where +
		` ORDER BY created_at DESC` + b.page(page, limit)
	countQuery := `SELECT COUNT(*) FROM reports` + where

	reports := []*models.Report{}
	var total int

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := r.db.Query(gctx, dataQuery, b.args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			rep := &models.Report{}
			if err := rows.Scan(&rep.ID, &rep.ReportType, &rep.UserID, &rep.CreatedAt); err != nil {
				return err
			}
			reports = append(reports, rep)
		}
		return rows.Err()
	})
	g.Go(func() error {
		return r.db.QueryRow(gctx, countQuery, countArgs...).Scan(&total)
	})
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}

	return reports, total, nil
}

// ActivityByDay counts logins and interventions per day in [start, end].
func (r *ReportRepository) ActivityByDay(ctx context.Context, start, end time.Time) ([]*models.ActivityCount, error) {
	query := `
		SELECT d.day,
			COALESCE(l.logins, 0),
			COALESCE(i.interventions, 0)
		FROM generate_series(date_trunc('day', $1::timestamptz), date_trunc('day', $2::timestamptz), '1 day') AS d(day)
		LEFT JOIN (
			SELECT date_trunc('day', last_login) AS day, COUNT(*) AS logins
			FROM utilisateur WHERE last_login BETWEEN $1 AND $2
			GROUP BY 1
		) l ON l.day = d.day
		LEFT JOIN (
			SELECT date_trunc('day', date_heure_debut) AS day, COUNT(*) AS interventions
			FROM intervention WHERE date_heure_debut BETWEEN $1 AND $2
			GROUP BY 1
		) i ON i.day = d.day
		ORDER BY d.day ASC`

	rows, err := r.db.Query(ctx, query, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := []*models.ActivityCount{}
	for rows.Next() {
		c := &models.ActivityCount{}
		if err := rows.Scan(&c.Day, &c.Logins, &c.Interventions); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

// InterventionsBetween lists interventions started in [start, end].
func (r *ReportRepository) InterventionsBetween(ctx context.Context, start, end time.Time) ([]*models.Intervention, error) {
	query := `
		SELECT ` + interventionColumns + `
		FROM intervention i
		LEFT JOIN technicien t ON t.id = i.technicien_id
		WHERE i.date_heure_debut BETWEEN $1 AND $2
		ORDER BY i.date_heure_debut DESC`

	rows, err := r.db.Query(ctx, query, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	interventions := []*models.Intervention{}
	for rows.Next() {
		iv, err := scanIntervention(rows)
		if err != nil {
			return nil, err
		}
		interventions = append(interventions, iv)
	}
	return interventions, rows.Err()
}

// ClientsWithMissionCounts lists clients registered in [start, end] with
// their mission counts.
func (r *ReportRepository) ClientsWithMissionCounts(ctx context.Context, start, end time.Time) ([]*models.ClientSummary, error) {
	query := `
		SELECT c.id, c.nom, c.email, c.telephone, c.entreprise, c.type_de_carte, c.statut, c.localisation, c.date_d_inscription,
			COUNT(m.num_intervention)
		FROM client c
		LEFT JOIN mission m ON m.client_id = c.id
		WHERE c.date_d_inscription BETWEEN $1 AND $2
		GROUP BY c.id
		ORDER BY c.date_d_inscription DESC`

	rows, err := r.db.Query(ctx, query, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	summaries := []*models.ClientSummary{}
	for rows.Next() {
		s := &models.ClientSummary{}
		err := rows.Scan(
			&s.ID,
			&s.Nom,
			&s.Email,
			&s.Telephone,
			&s.Entreprise,
			&s.TypeDeCarte,
			&s.Statut,
			&s.Localisation,
			&s.DateDInscription,
			&s.MissionCount,
		)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

// TechnicianPerformance averages intervention durations per technician
// over [start, end].
func (r *ReportRepository) TechnicianPerformance(ctx context.Context, start, end time.Time) ([]*models.TechnicianPerformance, error) {
	query := `
		SELECT t.id, t.nom, t.prenom, s.libelle,
			COUNT(i.id),
			AVG(i.duree)
		FROM technicien t
		JOIN specialite s ON s.id = t.specialite_id
		LEFT JOIN intervention i ON i.technicien_id = t.id
			AND i.date_heure_debut BETWEEN $1 AND $2
		GROUP BY t.id, s.libelle
		ORDER BY COUNT(i.id) DESC, t.nom ASC`

	rows, err := r.db.Query(ctx, query, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	perfs := []*models.TechnicianPerformance{}
	for rows.Next() {
		p := &models.TechnicianPerformance{}
		if err := rows.Scan(&p.TechnicienID, &p.Nom, &p.Prenom, &p.Specialite, &p.InterventionCount, &p.AvgDuree); err != nil {
			return nil, err
		}
		perfs = append(perfs, p)
	}
	return perfs, rows.Err()
}

// Trends buckets missions, interventions and client registrations per
// month over [start, end].
func (r *ReportRepository) Trends(ctx context.Context, start, end time.Time) ([]*models.TrendPoint, error) {
	query := `
		SELECT mo.month,
			COALESCE(m.missions, 0),
			COALESCE(i.interventions, 0),
			COALESCE(c.new_clients, 0)
		FROM generate_series(date_trunc('month', $1::timestamptz), date_trunc('month', $2::timestamptz), '1 month') AS mo(month)
		LEFT JOIN (
			SELECT date_trunc('month', date_sortie_fiche_intervention) AS month, COUNT(*) AS missions
			FROM mission WHERE date_sortie_fiche_intervention BETWEEN $1 AND $2
			GROUP BY 1
		) m ON m.month = mo.month
		LEFT JOIN (
			SELECT date_trunc('month', date_heure_debut) AS month, COUNT(*) AS interventions
			FROM intervention WHERE date_heure_debut BETWEEN $1 AND $2
			GROUP BY 1
		) i ON i.month = mo.month
		LEFT JOIN (
			SELECT date_trunc('month', date_d_inscription) AS month, COUNT(*) AS new_clients
			FROM client WHERE date_d_inscription BETWEEN $1 AND $2
			GROUP BY 1
		) c ON c.month = mo.month
		ORDER BY mo.month ASC`

	rows, err := r.db.Query(ctx, query, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	points := []*models.TrendPoint{}
	for rows.Next() {
		p := &models.TrendPoint{}
		if err := rows.Scan(&p.Month, &p.Missions, &p.Interventions, &p.NewClients); err != nil {
			return nil, err
		}
		points = append(points, p)
	}
	return points, rows.Err()
}
