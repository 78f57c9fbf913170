package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/progitek/parabellum/models"
	"github.com/progitek/parabellum/repository"
)

type fakeClientStore struct {
	clients map[int]*models.Client
	emails  map[string]bool
}

func newFakeClientStore(clients ...*models.Client) *fakeClientStore {
	s := &fakeClientStore{clients: map[int]*models.Client{}, emails: map[string]bool{}}
	for _, c := range clients {
		s.clients[c.ID] = c
		s.emails[c.Email] = true
	}
	return s
}

func (s *fakeClientStore) Create(_ context.Context, c *models.Client) error {
	if s.emails[c.Email] {
		return &pgconn.PgError{Code: "23505", ConstraintName: "client_email_key"}
	}
	c.ID = len(s.clients) + 1
	if c.Statut == "" {
		c.Statut = "actif"
	}
	s.clients[c.ID] = c
	s.emails[c.Email] = true
	return nil
}

func (s *fakeClientStore) GetByID(_ context.Context, id int) (*models.Client, error) {
	c, ok := s.clients[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return c, nil
}

func (s *fakeClientStore) List(_ context.Context, _ repository.ListClientsParams) ([]*models.Client, int, error) {
	out := make([]*models.Client, 0, len(s.clients))
	for _, c := range s.clients {
		out = append(out, c)
	}
	return out, len(out), nil
}

func (s *fakeClientStore) Update(ctx context.Context, id int, _ repository.UpdateClientParams) (*models.Client, error) {
	return s.GetByID(ctx, id)
}

func (s *fakeClientStore) Delete(_ context.Context, id int) error {
	if _, ok := s.clients[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(s.clients, id)
	return nil
}

func newClientRoutes(t *testing.T, store *fakeClientStore) (*gin.Engine, string) {
	t.Helper()
	admin := adminUser()
	r, _ := testRouter(t, admin)
	h := NewClientHandler(store, nopRecorder())
	r.GET("/clients", h.List)
	r.GET("/clients/:id", h.Get)
	r.POST("/clients", h.Create)
	r.DELETE("/clients/:id", h.Delete)
	return r, tokenFor(t, admin)
}

func TestClientCreate(t *testing.T) {
	store := newFakeClientStore()
	r, token := newClientRoutes(t, store)

	body := map[string]interface{}{"nom": "Acme", "email": "contact@acme.fr"}
	w, envelope := doJSON(t, r, http.MethodPost, "/clients", token, body)
	require.Equal(t, http.StatusCreated, w.Code)

	data := envelope["data"].(map[string]interface{})
	assert.Equal(t, "actif", data["statut"])
	assert.NotZero(t, data["id"])
}

func TestClientCreateDuplicateEmail(t *testing.T) {
	store := newFakeClientStore(&models.Client{ID: 1, Nom: "Acme", Email: "contact@acme.fr"})
	r, token := newClientRoutes(t, store)

	body := map[string]interface{}{"nom": "Acme bis", "email": "contact@acme.fr"}
	w, envelope := doJSON(t, r, http.MethodPost, "/clients", token, body)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "DUPLICATE", errorCode(t, envelope))
}

func TestClientCreateMissingFields(t *testing.T) {
	store := newFakeClientStore()
	r, token := newClientRoutes(t, store)

	w, _ := doJSON(t, r, http.MethodPost, "/clients", token, map[string]interface{}{"nom": "NoEmail"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, store.clients)
}

func TestClientGetUnknown(t *testing.T) {
	r, token := newClientRoutes(t, newFakeClientStore())

	w, envelope := doJSON(t, r, http.MethodGet, "/clients/9", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", errorCode(t, envelope))
}

func TestClientListEnvelope(t *testing.T) {
	store := newFakeClientStore(
		&models.Client{ID: 1, Nom: "A", Email: "a@x.fr"},
		&models.Client{ID: 2, Nom: "B", Email: "b@x.fr"},
	)
	r, token := newClientRoutes(t, store)

	w, envelope := doJSON(t, r, http.MethodGet, "/clients?page=1&limit=10", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	data := envelope["data"].(map[string]interface{})
	pagination := data["pagination"].(map[string]interface{})
	assert.Equal(t, float64(2), pagination["total"])
	assert.Equal(t, float64(1), pagination["totalPages"])
	assert.Len(t, data["items"], 2)
}
