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

// TechnicienStore is the slice of the technician repository the handler needs.
type TechnicienStore interface {
	Create(ctx context.Context, t *models.Technicien) error
	GetByID(ctx context.Context, id int) (*models.Technicien, error)
	List(ctx context.Context, p repository.ListTechniciensParams) ([]*models.Technicien, int, error)
	Update(ctx context.Context, id int, p repository.UpdateTechnicienParams) (*models.Technicien, error)
	Delete(ctx context.Context, id int) error
	ListSpecialites(ctx context.Context) ([]*models.Specialite, error)
	SpecialiteExists(ctx context.Context, id int) (bool, error)
}

// TechnicienHandler handles HTTP requests for technicians
type TechnicienHandler struct {
	techniciens TechnicienStore
	audit       *service.Recorder
}

// NewTechnicienHandler creates a new technician handler
func NewTechnicienHandler(techniciens TechnicienStore, audit *service.Recorder) *TechnicienHandler {
	return &TechnicienHandler{techniciens: techniciens, audit: audit}
}

// List handles GET /api/v1/technicians
func (h *TechnicienHandler) List(c *gin.Context) {
	specialiteID := queryInt(c, "specialite")
	if specialiteID == 0 {
		specialiteID = queryInt(c, "specialite_id")
	}
	params := repository.ListTechniciensParams{
		Page:         queryInt(c, "page"),
		Limit:        queryInt(c, "limit"),
		Search:       c.Query("search"),
		SpecialiteID: specialiteID,
	}

	techniciens, total, err := h.techniciens.List(c.Request.Context(), params)
	if err != nil {
		respondError(c, apperr.FromDB(err, "technicians"))
		return
	}
	respondPage(c, techniciens, pageOf(params.Page, params.Limit, 10, total))
}

// Get handles GET /api/v1/technicians/:id
func (h *TechnicienHandler) Get(c *gin.Context) {
	id, ok := pathInt(c, "id")
	if !ok {
		respondBadRequest(c, "invalid technician id")
		return
	}

	technicien, err := h.techniciens.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, apperr.FromDB(err, "technician"))
		return
	}
	respondOK(c, technicien)
}

// CreateTechnicienRequest represents the request body for creating a technician
type CreateTechnicienRequest struct {
	Nom          string  `json:"nom" binding:"required"`
	Prenom       string  `json:"prenom" binding:"required"`
	Contact      *string `json:"contact"`
	SpecialiteID int     `json:"specialite_id" binding:"required"`
}

// Create handles POST /api/v1/technicians
func (h *TechnicienHandler) Create(c *gin.Context) {
	var req CreateTechnicienRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	ok, err := h.techniciens.SpecialiteExists(c.Request.Context(), req.SpecialiteID)
	if err != nil {
		respondError(c, apperr.Internal(err))
		return
	}
	if !ok {
		respondError(c, apperr.InvalidReference("specialite_id"))
		return
	}

	technicien := &models.Technicien{
		Nom:          req.Nom,
		Prenom:       req.Prenom,
		Contact:      req.Contact,
		SpecialiteID: req.SpecialiteID,
	}
	if err := h.techniciens.Create(c.Request.Context(), technicien); err != nil {
		respondError(c, apperr.FromDB(err, "technician"))
		return
	}

	h.audit.Record(c.Request.Context(), middleware.CurrentActor(c), models.ActionCreate, "technicien", fmt.Sprint(technicien.ID), "technician created", c.ClientIP())
	respondCreated(c, technicien)
}

// UpdateTechnicienRequest represents the partial-update request body.
type UpdateTechnicienRequest struct {
	Nom          *string `json:"nom"`
	Prenom       *string `json:"prenom"`
	Contact      *string `json:"contact"`
	SpecialiteID *int    `json:"specialite_id"`
}

// Update handles PUT /api/v1/technicians/:id
func (h *TechnicienHandler) Update(c *gin.Context) {
	id, ok := pathInt(c, "id")
	if !ok {
		respondBadRequest(c, "invalid technician id")
		return
	}

	var req UpdateTechnicienRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	if req.SpecialiteID != nil {
		ok, err := h.techniciens.SpecialiteExists(c.Request.Context(), *req.SpecialiteID)
		if err != nil {
			respondError(c, apperr.Internal(err))
			return
		}
		if !ok {
			respondError(c, apperr.InvalidReference("specialite_id"))
			return
		}
	}

	technicien, err := h.techniciens.Update(c.Request.Context(), id, repository.UpdateTechnicienParams{
		Nom:          req.Nom,
		Prenom:       req.Prenom,
		Contact:      req.Contact,
		SpecialiteID: req.SpecialiteID,
	})
	if err != nil {
		respondError(c, apperr.FromDB(err, "technician"))
		return
	}

	h.audit.Record(c.Request.Context(), middleware.CurrentActor(c), models.ActionUpdate, "technicien", fmt.Sprint(id), "technician updated", c.ClientIP())
	respondOK(c, technicien)
}

// Delete handles DELETE /api/v1/technicians/:id (admin only)
func (h *TechnicienHandler) Delete(c *gin.Context) {
	id, ok := pathInt(c, "id")
	if !ok {
		respondBadRequest(c, "invalid technician id")
		return
	}

	if err := h.techniciens.Delete(c.Request.Context(), id); err != nil {
		respondError(c, apperr.FromDB(err, "technician"))
		return
	}

	h.audit.Record(c.Request.Context(), middleware.CurrentActor(c), models.ActionDelete, "technicien", fmt.Sprint(id), "technician deleted", c.ClientIP())
	respondMessage(c, "technician deleted")
}

// ListSpecialites handles GET /api/v1/specialites
func (h *TechnicienHandler) ListSpecialites(c *gin.Context) {
	specialites, err := h.techniciens.ListSpecialites(c.Request.Context())
	if err != nil {
		respondError(c, apperr.Internal(err))
		return
	}
	respondOK(c, specialites)
}
