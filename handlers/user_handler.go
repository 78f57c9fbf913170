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

// UserDirectory is the slice of the user repository the handler needs.
type UserDirectory interface {
	GetByID(ctx context.Context, id int) (*models.User, error)
	List(ctx context.Context, p repository.ListUsersParams) ([]*models.User, int, error)
	Update(ctx context.Context, id int, p repository.UpdateUserParams) (*models.User, error)
	Delete(ctx context.Context, id int) error
	RoleExists(ctx context.Context, id int) (bool, error)
	ListRoles(ctx context.Context) ([]*models.Role, error)
}

// UserHandler handles HTTP requests for users
type UserHandler struct {
	users UserDirectory
	auth  *service.AuthService
	audit *service.Recorder
}

// NewUserHandler creates a new user handler
func NewUserHandler(users UserDirectory, auth *service.AuthService, audit *service.Recorder) *UserHandler {
	return &UserHandler{users: users, auth: auth, audit: audit}
}

// List handles GET /api/v1/users
func (h *UserHandler) List(c *gin.Context) {
	params := repository.ListUsersParams{
		Page:   queryInt(c, "page"),
		Limit:  queryInt(c, "limit"),
		Search: c.Query("search"),
		Role:   c.Query("role"),
		Status: c.Query("status"),
	}

	users, total, err := h.users.List(c.Request.Context(), params)
	if err != nil {
		respondError(c, apperr.FromDB(err, "users"))
		return
	}

	respondPage(c, users, pageOf(params.Page, params.Limit, 10, total))
}

// Get handles GET /api/v1/users/:id
func (h *UserHandler) Get(c *gin.Context) {
	id, ok := pathInt(c, "id")
	if !ok {
		respondBadRequest(c, "invalid user id")
		return
	}

	user, err := h.users.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, apperr.FromDB(err, "user"))
		return
	}
	respondOK(c, user)
}

// CreateUserRequest represents the request body for creating a user
type CreateUserRequest struct {
	Nom      string `json:"nom" binding:"required"`
	Prenom   string `json:"prenom" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	RoleID   int    `json:"role_id" binding:"required"`
}

// Create handles POST /api/v1/users (admin only)
func (h *UserHandler) Create(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	ok, err := h.users.RoleExists(c.Request.Context(), req.RoleID)
	if err != nil {
		respondError(c, apperr.Internal(err))
		return
	}
	if !ok {
		respondError(c, apperr.InvalidReference("role_id"))
		return
	}

	user, err := h.auth.Register(c.Request.Context(), service.RegisterParams{
		Nom:      req.Nom,
		Prenom:   req.Prenom,
		Email:    req.Email,
		Password: req.Password,
		RoleID:   req.RoleID,
	}, c.ClientIP())
	if err != nil {
		respondError(c, err)
		return
	}

	respondCreated(c, user)
}

// UpdateUserRequest represents the partial-update request body. Absent
// fields keep their stored value.
type UpdateUserRequest struct {
	Nom         *string `json:"nom"`
	Prenom      *string `json:"prenom"`
	Email       *string `json:"email"`
	RoleID      *int    `json:"role_id"`
	Status      *string `json:"status"`
	Telephone   *string `json:"telephone"`
	Theme       *string `json:"theme"`
	DisplayName *string `json:"display_name"`
	Adresse     *string `json:"adresse"`
}

// Update handles PUT /api/v1/users/:id (admin, or the owner)
func (h *UserHandler) Update(c *gin.Context) {
	id, ok := pathInt(c, "id")
	if !ok {
		respondBadRequest(c, "invalid user id")
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	isAdmin := middleware.CurrentRole(c) == models.RoleAdministrateur
	if !isAdmin {
		// Owners may edit their profile, never their role or status.
		req.RoleID = nil
		req.Status = nil
	}

	if req.RoleID != nil {
		ok, err := h.users.RoleExists(c.Request.Context(), *req.RoleID)
		if err != nil {
			respondError(c, apperr.Internal(err))
			return
		}
		if !ok {
			respondError(c, apperr.InvalidReference("role_id"))
			return
		}
	}
	if req.Status != nil && *req.Status != models.UserStatusActive && *req.Status != models.UserStatusDisabled {
		respondBadRequest(c, "invalid status")
		return
	}

	user, err := h.users.Update(c.Request.Context(), id, repository.UpdateUserParams{
		Nom:         req.Nom,
		Prenom:      req.Prenom,
		Email:       req.Email,
		RoleID:      req.RoleID,
		Status:      req.Status,
		Telephone:   req.Telephone,
		Theme:       req.Theme,
		DisplayName: req.DisplayName,
		Adresse:     req.Adresse,
	})
	if err != nil {
		respondError(c, apperr.FromDB(err, "user"))
		return
	}

	h.audit.Record(c.Request.Context(), middleware.CurrentActor(c), models.ActionUpdate, "utilisateur", fmt.Sprint(id), "user updated", c.ClientIP())
	respondOK(c, user)
}

// Delete handles DELETE /api/v1/users/:id (admin only). Deleting the
// authenticated account is rejected regardless of role.
func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := pathInt(c, "id")
	if !ok {
		respondBadRequest(c, "invalid user id")
		return
	}

	if id == middleware.CurrentUserID(c) {
		respondBadRequest(c, "cannot delete your own account")
		return
	}

	if err := h.users.Delete(c.Request.Context(), id); err != nil {
		respondError(c, apperr.FromDB(err, "user"))
		return
	}

	h.audit.Record(c.Request.Context(), middleware.CurrentActor(c), models.ActionDelete, "utilisateur", fmt.Sprint(id), "user deleted", c.ClientIP())
	respondMessage(c, "user deleted")
}

// ListRoles handles GET /api/v1/users/roles
func (h *UserHandler) ListRoles(c *gin.Context) {
	roles, err := h.users.ListRoles(c.Request.Context())
	if err != nil {
		respondError(c, apperr.Internal(err))
		return
	}
	respondOK(c, roles)
}
