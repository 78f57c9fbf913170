// Package middleware provides the HTTP middleware chain: token
// authentication, role authorization, per-IP rate limiting and CORS.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/progitek/parabellum/models"
	"github.com/progitek/parabellum/service"
)

// Context keys set on authenticated requests.
const (
	ctxUserID = "auth_user_id"
	ctxEmail  = "auth_email"
	ctxRole   = "auth_role"
)

// UserGetter re-fetches the token subject to confirm the account is
// still active.
type UserGetter interface {
	GetByID(ctx context.Context, id int) (*models.User, error)
}

// Auth verifies the Bearer token, re-fetches the user and rejects
// disabled accounts even when the token itself is still valid.
func Auth(users UserGetter, secret string, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			abortUnauthorized(c, "missing authorization header")
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			abortUnauthorized(c, "invalid authorization header format")
			return
		}

		claims, err := service.ParseAccessToken(parts[1], secret)
		if err != nil {
			if err == service.ErrTokenExpired {
				abortUnauthorized(c, "token expired")
				return
			}
			abortUnauthorized(c, "invalid token")
			return
		}

		user, err := users.GetByID(c.Request.Context(), claims.UserID)
		if err != nil || !user.IsActive() {
			if err != nil {
				log.Warn("token subject lookup failed", zap.Int("user_id", claims.UserID), zap.Error(err))
			}
			abortUnauthorized(c, "session is no longer valid")
			return
		}

		c.Set(ctxUserID, user.ID)
		c.Set(ctxEmail, user.Email)
		c.Set(ctxRole, user.Role)
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "UNAUTHORIZED",
			"message": message,
		},
	})
}

// CurrentUserID returns the authenticated user id, or 0.
func CurrentUserID(c *gin.Context) int {
	return c.GetInt(ctxUserID)
}

// CurrentRole returns the authenticated role label.
func CurrentRole(c *gin.Context) string {
	return c.GetString(ctxRole)
}

// CurrentActor returns the authenticated actor for audit rows.
func CurrentActor(c *gin.Context) service.Actor {
	return service.Actor{ID: c.GetInt(ctxUserID), Username: c.GetString(ctxEmail)}
}
