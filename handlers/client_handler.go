package handlers

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/progitek/parabellum/apperr"
	"github.com/progitek/parabellum/middleware"
	"github.com/progitek/parabellum/models"
	"github.com/progitek/parabellum/repository"
	"github.com/progitek/parabellum/service"
)

// ClientStore is the slice of the client repository the handler needs.
type ClientStore interface {
	Create(ctx context.Context, c *models.Client) error
	GetByID(ctx context.Context, id int) (*models.Client, error)
	List(ctx context.Context, p repository.ListClientsParams) ([]*models.Client, int, error)
	Update(ctx context.Context, id int, p repository.UpdateClientParams) (*models.Client, error)
	Delete(ctx context.Context, id int) error
}

// ClientHandler handles HTTP requests for clients
type ClientHandler struct {
	clients ClientStore
	audit   *service.Recorder
}

// NewClientHandler creates a new client handler
func NewClientHandler(clients ClientStore, audit *service.Recorder) *ClientHandler {
	return &ClientHandler{clients: clients, audit: audit}
}

// List handles GET /api/v1/clients
func (h *ClientHandler) List(c *gin.Context) {
	params := repository.ListClientsParams{
		Page:   queryInt(c, "page"),
		Limit:  queryInt(c, "limit"),
		Search: c.Query("search"),
		Statut: c.Query("statut"),
	}

	clients, total, err := h.clients.List(c.Request.Context(), params)
	if err != nil {
		respondError(c, apperr.FromDB(err, "clients"))
		return
	}
	respondPage(c, clients, pageOf(params.Page, params.Limit, 10, total))
}

// Get handles GET /api/v1/clients/:id
func (h *ClientHandler) Get(c *gin.Context) {
	id, ok := pathInt(c, "id")
	if !ok {
		respondBadRequest(c, "invalid client id")
		return
	}

	client, err := h.clients.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, apperr.FromDB(err, "client"))
		return
	}
	respondOK(c, client)
}

// CreateClientRequest represents the request body for creating a client
type CreateClientRequest struct {
	Nom          string  `json:"nom" binding:"required"`
	Email        string  `json:"email" binding:"required,email"`
	Telephone    *string `json:"telephone"`
	Entreprise   *string `json:"entreprise"`
	TypeDeCarte  *string `json:"type_de_carte"`
	Statut       string  `json:"statut"`
	Localisation *string `json:"localisation"`
}

// Create handles POST /api/v1/clients
func (h *ClientHandler) Create(c *gin.Context) {
	var req CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	client := &models.Client{
		Nom:          req.Nom,
		Email:        req.Email,
		Telephone:    req.Telephone,
		Entreprise:   req.Entreprise,
		TypeDeCarte:  req.TypeDeCarte,
		Statut:       req.Statut,
		Localisation: req.Localisation,
	}
	if err := h.clients.Create(c.Request.Context(), client); err != nil {
		respondError(c, apperr.FromDB(err, "client"))
		return
	}

	h.audit.Record(c.Request.Context(), middleware.CurrentActor(c), models.ActionCreate, "client", fmt.Sprint(client.ID), "client created", c.ClientIP())
	respondCreated(c, client)
}

// UpdateClientRequest represents the partial-update request body. Absent
// fields keep their stored value.
type UpdateClientRequest struct {
	Nom          *string `json:"nom"`
	Email        *string `json:"email"`
	Telephone    *string `json:"telephone"`
	Entreprise   *string `json:"entreprise"`
	TypeDeCarte  *string `json:"type_de_carte"`
	Statut       *string `json:"statut"`
	Localisation *string `json:"localisation"`
}

// Update handles PUT /api/v1/clients/:id
func (h *ClientHandler) Update(c *gin.Context) {
	id, ok := pathInt(c, "id")
	if !ok {
		respondBadRequest(c, "invalid client id")
		return
	}

	var req UpdateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	client, err := h.clients.Update(c.Request.Context(), id, repository.UpdateClientParams{
		Nom:          req.Nom,
		Email:        req.Email,
		Telephone:    req.Telephone,
		Entreprise:   req.Entreprise,
		TypeDeCarte:  req.TypeDeCarte,
		Statut:       req.Statut,
		Localisation: req.Localisation,
	})
	if err != nil {
		respondError(c, apperr.FromDB(err, "client"))
		return
	}

	h.audit.Record(c.Request.Context(), middleware.CurrentActor(c), models.ActionUpdate, "client", fmt.Sprint(id), "client updated", c.ClientIP())
	respondOK(c, client)
}

// Delete handles DELETE /api/v1/clients/:id (admin only)
func (h *ClientHandler) Delete(c *gin.Context) {
	id, ok := pathInt(c, "id")
	if !ok {
		respondBadRequest(c, "invalid client id")
		return
	}

	if err := h.clients.Delete(c.Request.Context(), id); err != nil {
		respondError(c, apperr.FromDB(err, "client"))
		return
	}

	h.audit.Record(c.Request.Context(), middleware.CurrentActor(c), models.ActionDelete, "client", fmt.Sprint(id), "client deleted", c.ClientIP())
	respondMessage(c, "client deleted")
}
