package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/progitek/parabellum/apperr"
	"github.com/progitek/parabellum/middleware"
	"github.com/progitek/parabellum/models"
	"github.com/progitek/parabellum/repository"
	"github.com/progitek/parabellum/service"
)

// MissionStore is the slice of the mission repository the handler needs.
type MissionStore interface {
	Create(ctx context.Context, m *models.Mission) error
	GetByNum(ctx context.Context, num string) (*models.Mission, error)
	List(ctx context.Context, p repository.ListMissionsParams) ([]*models.Mission, int, error)
	Update(ctx context.Context, num string, p repository.UpdateMissionParams) (*models.Mission, error)
	Delete(ctx context.Context, num string) error
}

// ClientChecker reports whether a client row exists. Used to reject a
// dangling client_id before the insert instead of surfacing a raw FK
// violation.
type ClientChecker interface {
	Exists(ctx context.Context, id int) (bool, error)
}

// MissionHandler handles HTTP requests for missions
type MissionHandler struct {
	missions MissionStore
	clients  ClientChecker
	audit    *service.Recorder
}

// NewMissionHandler creates a new mission handler
func NewMissionHandler(missions MissionStore, clients ClientChecker, audit *service.Recorder) *MissionHandler {
	return &MissionHandler{missions: missions, clients: clients, audit: audit}
}

// List handles GET /api/v1/missions
func (h *MissionHandler) List(c *gin.Context) {
	params := repository.ListMissionsParams{
		Page:     queryInt(c, "page"),
		Limit:    queryInt(c, "limit"),
		Search:   c.Query("search"),
		ClientID: queryInt(c, "client_id"),
	}

	missions, total, err := h.missions.List(c.Request.Context(), params)
	if err != nil {
		respondError(c, apperr.FromDB(err, "missions"))
		return
	}
	respondPage(c, missions, pageOf(params.Page, params.Limit, 10, total))
}

// Get handles GET /api/v1/missions/:num
func (h *MissionHandler) Get(c *gin.Context) {
	num := c.Param("num")

	mission, err := h.missions.GetByNum(c.Request.Context(), num)
	if err != nil {
		respondError(c, apperr.FromDB(err, "mission"))
		return
	}
	respondOK(c, mission)
}

// CreateMissionRequest represents the request body for creating a mission
type CreateMissionRequest struct {
	NumIntervention    string  `json:"num_intervention" binding:"required"`
	NatureIntervention string  `json:"nature_intervention" binding:"required"`
	ObjectifDuContrat  *string `json:"objectif_du_contrat"`
	Description        *string `json:"description"`
	ClientID           int     `json:"client_id" binding:"required"`
}

// Create handles POST /api/v1/missions
func (h *MissionHandler) Create(c *gin.Context) {
	var req CreateMissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	ok, err := h.clients.Exists(c.Request.Context(), req.ClientID)
	if err != nil {
		respondError(c, apperr.Internal(err))
		return
	}
	if !ok {
		respondError(c, apperr.InvalidReference("client_id"))
		return
	}

	mission := &models.Mission{
		NumIntervention:    req.NumIntervention,
		NatureIntervention: req.NatureIntervention,
		ObjectifDuContrat:  req.ObjectifDuContrat,
		Description:        req.Description,
		ClientID:           req.ClientID,
	}
	if err := h.missions.Create(c.Request.Context(), mission); err != nil {
		respondError(c, apperr.FromDB(err, "mission"))
		return
	}

	h.audit.Record(c.Request.Context(), middleware.CurrentActor(c), models.ActionCreate, "mission", mission.NumIntervention, "mission created", c.ClientIP())
	respondCreated(c, mission)
}

// UpdateMissionRequest represents the partial-update request body.
type UpdateMissionRequest struct {
	NatureIntervention *string `json:"nature_intervention"`
	ObjectifDuContrat  *string `json:"objectif_du_contrat"`
	Description        *string `json:"description"`
	ClientID           *int    `json:"client_id"`
}

// Update handles PUT /api/v1/missions/:num. The num_intervention key
// itself is immutable.
func (h *MissionHandler) Update(c *gin.Context) {
	num := c.Param("num")

	var req UpdateMissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	if req.ClientID != nil {
		ok, err := h.clients.Exists(c.Request.Context(), *req.ClientID)
		if err != nil {
			respondError(c, apperr.Internal(err))
			return
		}
		if !ok {
			respondError(c, apperr.InvalidReference("client_id"))
			return
		}
	}

	mission, err := h.missions.Update(c.Request.Context(), num, repository.UpdateMissionParams{
		NatureIntervention: req.NatureIntervention,
		ObjectifDuContrat:  req.ObjectifDuContrat,
		Description:        req.Description,
		ClientID:           req.ClientID,
	})
	if err != nil {
		respondError(c, apperr.FromDB(err, "mission"))
		return
	}

	h.audit.Record(c.Request.Context(), middleware.CurrentActor(c), models.ActionUpdate, "mission", num, "mission updated", c.ClientIP())
	respondOK(c, mission)
}

// Delete handles DELETE /api/v1/missions/:num (admin only). Interventions
// belonging to the mission are removed in the same transaction.
func (h *MissionHandler) Delete(c *gin.Context) {
	num := c.Param("num")

	if err := h.missions.Delete(c.Request.Context(), num); err != nil {
		respondError(c, apperr.FromDB(err, "mission"))
		return
	}

	h.audit.Record(c.Request.Context(), middleware.CurrentActor(c), models.ActionDelete, "mission", num, "mission deleted", c.ClientIP())
	respondMessage(c, "mission deleted")
}
