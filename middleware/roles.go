package middleware

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// RequireRoles allows only the listed role labels through.
func RequireRoles(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(c *gin.Context) {
		if !allowed[CurrentRole(c)] {
			abortForbidden(c)
			return
		}
		c.Next()
	}
}

// SelfOrRoles allows the listed roles, or the resource owner: a request
// whose numeric path parameter equals the authenticated user id.
func SelfOrRoles(param string, roles ...string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(c *gin.Context) {
		if allowed[CurrentRole(c)] {
			c.Next()
			return
		}
		if id, err := strconv.Atoi(c.Param(param)); err == nil && id == CurrentUserID(c) {
			c.Next()
			return
		}
		abortForbidden(c)
	}
}

func abortForbidden(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "FORBIDDEN",
			"message": "insufficient permissions",
		},
	})
}
