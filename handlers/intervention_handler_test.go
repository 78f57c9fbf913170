package handlers

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/progitek/parabellum/models"
	"github.com/progitek/parabellum/repository"
)

type fakeInterventionStore struct {
	interventions map[int]*models.Intervention
	lastUpdate    *repository.UpdateInterventionParams
}

func (s *fakeInterventionStore) Create(_ context.Context, iv *models.Intervention) error {
	iv.ID = len(s.interventions) + 1
	iv.Duree = models.ComputeDuree(iv.DateHeureDebut, iv.DateHeureFin)
	s.interventions[iv.ID] = iv
	return nil
}

func (s *fakeInterventionStore) GetByID(_ context.Context, id int) (*models.Intervention, error) {
	iv, ok := s.interventions[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return iv, nil
}

func (s *fakeInterventionStore) List(_ context.Context, _ repository.ListInterventionsParams) ([]*models.Intervention, int, error) {
	return nil, 0, nil
}

func (s *fakeInterventionStore) Update(ctx context.Context, id int, p repository.UpdateInterventionParams) (*models.Intervention, error) {
	s.lastUpdate = &p
	return s.GetByID(ctx, id)
}

func (s *fakeInterventionStore) Delete(_ context.Context, id int) error {
	if _, ok := s.interventions[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(s.interventions, id)
	return nil
}

type fakeMissionChecker struct{ known map[string]bool }

func (f *fakeMissionChecker) Exists(_ context.Context, num string) (bool, error) {
	return f.known[num], nil
}

type fakeTechnicienChecker struct{ known map[int]bool }

func (f *fakeTechnicienChecker) Exists(_ context.Context, id int) (bool, error) {
	return f.known[id], nil
}

func newInterventionRoutes(t *testing.T) (*gin.Engine, *fakeInterventionStore, string) {
	t.Helper()
	admin := adminUser()
	r, _ := testRouter(t, admin)
	store := &fakeInterventionStore{interventions: map[int]*models.Intervention{}}
	h := NewInterventionHandler(
		store,
		&fakeMissionChecker{known: map[string]bool{"INT-2024-0042": true}},
		&fakeTechnicienChecker{known: map[int]bool{7: true}},
		nopRecorder(),
	)
	r.POST("/interventions", h.Create)
	r.PUT("/interventions/:id", h.Update)
	return r, store, tokenFor(t, admin)
}

func TestInterventionCreateComputesDuree(t *testing.T) {
	r, store, token := newInterventionRoutes(t)

	body := map[string]interface{}{
		"mission_id":       "INT-2024-0042",
		"technicien_id":    7,
		"date_heure_debut": "2024-03-01T09:00:00Z",
		"date_heure_fin":   "2024-03-01T11:30:00Z",
	}
	w, envelope := doJSON(t, r, http.MethodPost, "/interventions", token, body)
	require.Equal(t, http.StatusCreated, w.Code)

	data := envelope["data"].(map[string]interface{})
	assert.InDelta(t, 2.5, data["duree"], 1e-9)
	require.Len(t, store.interventions, 1)
}

func TestInterventionCreateUnknownMission(t *testing.T) {
	r, store, token := newInterventionRoutes(t)

	body := map[string]interface{}{"mission_id": "INT-0000-0000"}
	w, envelope := doJSON(t, r, http.MethodPost, "/interventions", token, body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_REFERENCE", errorCode(t, envelope))
	assert.Empty(t, store.interventions, "nothing may be written on a rejected reference")
}

func TestInterventionCreateUnknownTechnicien(t *testing.T) {
	r, store, token := newInterventionRoutes(t)

	body := map[string]interface{}{"mission_id": "INT-2024-0042", "technicien_id": 99}
	w, envelope := doJSON(t, r, http.MethodPost, "/interventions", token, body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_REFERENCE", errorCode(t, envelope))
	assert.Empty(t, store.interventions)
}

func TestInterventionUpdatePassesOnlySuppliedFields(t *testing.T) {
	r, store, token := newInterventionRoutes(t)

	debut := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	store.interventions[1] = &models.Intervention{ID: 1, MissionID: "INT-2024-0042", DateHeureDebut: &debut}

	body := map[string]interface{}{"date_heure_fin": "2024-03-01T10:00:00Z"}
	w, _ := doJSON(t, r, http.MethodPut, "/interventions/1", token, body)
	require.Equal(t, http.StatusOK, w.Code)

	require.NotNil(t, store.lastUpdate)
	assert.Nil(t, store.lastUpdate.DateHeureDebut)
	assert.Nil(t, store.lastUpdate.MissionID)
	assert.Nil(t, store.lastUpdate.TechnicienID)
	require.NotNil(t, store.lastUpdate.DateHeureFin)
	assert.Equal(t, time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC), store.lastUpdate.DateHeureFin.UTC())
}
