package handlers

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/progitek/parabellum/apperr"
	"github.com/progitek/parabellum/middleware"
	"github.com/progitek/parabellum/models"
	"github.com/progitek/parabellum/repository"
	"github.com/progitek/parabellum/service"
)

// InterventionStore is the slice of the intervention repository the
// handler needs.
type InterventionStore interface {
	Create(ctx context.Context, iv *models.Intervention) error
	GetByID(ctx context.Context, id int) (*models.Intervention, error)
	List(ctx context.Context, p repository.ListInterventionsParams) ([]*models.Intervention, int, error)
	Update(ctx context.Context, id int, p repository.UpdateInterventionParams) (*models.Intervention, error)
	Delete(ctx context.Context, id int) error
}

// MissionChecker reports whether a mission row exists.
type MissionChecker interface {
	Exists(ctx context.Context, num string) (bool, error)
}

// TechnicienChecker reports whether a technician row exists.
type TechnicienChecker interface {
	Exists(ctx context.Context, id int) (bool, error)
}

// InterventionHandler handles HTTP requests for interventions
type InterventionHandler struct {
	interventions InterventionStore
	missions      MissionChecker
	techniciens   TechnicienChecker
	audit         *service.Recorder
}

// NewInterventionHandler creates a new intervention handler
func NewInterventionHandler(interventions InterventionStore, missions MissionChecker, techniciens TechnicienChecker, audit *service.Recorder) *InterventionHandler {
	return &InterventionHandler{
		interventions: interventions,
		missions:      missions,
		techniciens:   techniciens,
		audit:         audit,
	}
}

// List handles GET /api/v1/interventions
func (h *InterventionHandler) List(c *gin.Context) {
	params := repository.ListInterventionsParams{
		Page:         queryInt(c, "page"),
		Limit:        queryInt(c, "limit"),
		MissionID:    c.Query("mission_id"),
		TechnicienID: queryInt(c, "technicien_id"),
	}

	interventions, total, err := h.interventions.List(c.Request.Context(), params)
	if err != nil {
		respondError(c, apperr.FromDB(err, "interventions"))
		return
	}
	respondPage(c, interventions, pageOf(params.Page, params.Limit, 10, total))
}

// Get handles GET /api/v1/interventions/:id
func (h *InterventionHandler) Get(c *gin.Context) {
	id, ok := pathInt(c, "id")
	if !ok {
		respondBadRequest(c, "invalid intervention id")
		return
	}

	intervention, err := h.interventions.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, apperr.FromDB(err, "intervention"))
		return
	}
	respondOK(c, intervention)
}

// CreateInterventionRequest represents the request body for creating an
// intervention. Duree is never accepted from the caller; it is derived
// from the two bounds.
type CreateInterventionRequest struct {
	DateHeureDebut *time.Time `json:"date_heure_debut"`
	DateHeureFin   *time.Time `json:"date_heure_fin"`
	MissionID      string     `json:"mission_id" binding:"required"`
	TechnicienID   *int       `json:"technicien_id"`
}

// Create handles POST /api/v1/interventions
func (h *InterventionHandler) Create(c *gin.Context) {
	var req CreateInterventionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	if err := h.checkRefs(c.Request.Context(), &req.MissionID, req.TechnicienID); err != nil {
		respondError(c, err)
		return
	}

	intervention := &models.Intervention{
		DateHeureDebut: req.DateHeureDebut,
		DateHeureFin:   req.DateHeureFin,
		MissionID:      req.MissionID,
		TechnicienID:   req.TechnicienID,
	}
	if err := h.interventions.Create(c.Request.Context(), intervention); err != nil {
		respondError(c, apperr.FromDB(err, "intervention"))
		return
	}

	h.audit.Record(c.Request.Context(), middleware.CurrentActor(c), models.ActionCreate, "intervention", fmt.Sprint(intervention.ID), "intervention created", c.ClientIP())
	respondCreated(c, intervention)
}

// UpdateInterventionRequest represents the partial-update request body.
type UpdateInterventionRequest struct {
	DateHeureDebut *time.Time `json:"date_heure_debut"`
	DateHeureFin   *time.Time `json:"date_heure_fin"`
	MissionID      *string    `json:"mission_id"`
	TechnicienID   *int       `json:"technicien_id"`
}

// Update handles PUT /api/v1/interventions/:id
func (h *InterventionHandler) Update(c *gin.Context) {
	id, ok := pathInt(c, "id")
	if !ok {
		respondBadRequest(c, "invalid intervention id")
		return
	}

	var req UpdateInterventionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	if err := h.checkRefs(c.Request.Context(), req.MissionID, req.TechnicienID); err != nil {
		respondError(c, err)
		return
	}

	intervention, err := h.interventions.Update(c.Request.Context(), id, repository.UpdateInterventionParams{
		DateHeureDebut: req.DateHeureDebut,
		DateHeureFin:   req.DateHeureFin,
		MissionID:      req.MissionID,
		TechnicienID:   req.TechnicienID,
	})
	if err != nil {
		respondError(c, apperr.FromDB(err, "intervention"))
		return
	}

	h.audit.Record(c.Request.Context(), middleware.CurrentActor(c), models.ActionUpdate, "intervention", fmt.Sprint(id), "intervention updated", c.ClientIP())
	respondOK(c, intervention)
}

// Delete handles DELETE /api/v1/interventions/:id
func (h *InterventionHandler) Delete(c *gin.Context) {
	id, ok := pathInt(c, "id")
	if !ok {
		respondBadRequest(c, "invalid intervention id")
		return
	}

	if err := h.interventions.Delete(c.Request.Context(), id); err != nil {
		respondError(c, apperr.FromDB(err, "intervention"))
		return
	}

	h.audit.Record(c.Request.Context(), middleware.CurrentActor(c), models.ActionDelete, "intervention", fmt.Sprint(id), "intervention deleted", c.ClientIP())
	respondMessage(c, "intervention deleted")
}

// checkRefs validates the supplied mission and technician references.
func (h *InterventionHandler) checkRefs(ctx context.Context, missionID *string, technicienID *int) error {
	if missionID != nil {
		ok, err := h.missions.Exists(ctx, *missionID)
		if err != nil {
			return apperr.Internal(err)
		}
		if !ok {
			return apperr.InvalidReference("mission_id")
		}
	}
	if technicienID != nil {
		ok, err := h.techniciens.Exists(ctx, *technicienID)
		if err != nil {
			return apperr.Internal(err)
		}
		if !ok {
			return apperr.InvalidReference("technicien_id")
		}
	}
	return nil
}
