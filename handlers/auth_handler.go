package handlers

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/progitek/parabellum/apperr"
	"github.com/progitek/parabellum/middleware"
	"github.com/progitek/parabellum/models"
	"github.com/progitek/parabellum/service"
)

// AuthHandler handles HTTP requests for authentication
type AuthHandler struct {
	auth  *service.AuthService
	users middleware.UserGetter
	audit *service.Recorder
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(auth *service.AuthService, users middleware.UserGetter, audit *service.Recorder) *AuthHandler {
	return &AuthHandler{auth: auth, users: users, audit: audit}
}

// LoginRequest represents the login request body
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login handles POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	user, token, err := h.auth.Login(c.Request.Context(), req.Email, req.Password, c.ClientIP(), c.GetHeader("User-Agent"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, gin.H{
		"token": token,
		"user":  user,
	})
}

// RegisterRequest represents the registration request body
type RegisterRequest struct {
	Nom      string `json:"nom" binding:"required"`
	Prenom   string `json:"prenom" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	RoleID   int    `json:"role_id"`
}

// Register handles POST /api/v1/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	if req.RoleID == 0 {
		req.RoleID = 3 // Utilisateur
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

// Me handles GET /api/v1/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.users.GetByID(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		respondError(c, apperr.FromDB(err, "user"))
		return
	}
	respondOK(c, user)
}

// Logout handles POST /api/v1/auth/logout. Tokens are stateless; the
// only server-side effect is the audit trail.
func (h *AuthHandler) Logout(c *gin.Context) {
	actor := middleware.CurrentActor(c)
	h.audit.Record(c.Request.Context(), actor, models.ActionLogout, "utilisateur", fmt.Sprint(actor.ID), "user logged out", c.ClientIP())
	respondMessage(c, "logged out")
}

// ForgotPasswordRequest represents the forgot-password request body
type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ForgotPassword handles POST /api/v1/auth/forgot-password. The response
// is identical whether or not the email exists.
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	if err := h.auth.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		respondError(c, err)
		return
	}
	respondMessage(c, "if the account exists, a reset email has been sent")
}

// ResetPasswordRequest represents the reset-password request body
type ResetPasswordRequest struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
}

// ResetPassword handles POST /api/v1/auth/reset-password
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	if err := h.auth.ResetPassword(c.Request.Context(), req.Token, req.Password); err != nil {
		respondError(c, err)
		return
	}
	respondMessage(c, "password updated")
}

// ChangePasswordRequest represents the change-password request body
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8"`
}

// ChangePassword handles POST /api/v1/auth/change-password
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	if err := h.auth.ChangePassword(c.Request.Context(), middleware.CurrentUserID(c), req.CurrentPassword, req.NewPassword); err != nil {
		respondError(c, err)
		return
	}
	respondMessage(c, "password updated")
}
