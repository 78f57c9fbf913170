package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/progitek/parabellum/models"
	"github.com/progitek/parabellum/service"
)

const testSecret = "test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

type stubUsers struct {
	users map[int]*models.User
}

func (s *stubUsers) GetByID(_ context.Context, id int) (*models.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return u, nil
}

func authedEngine(users ...*models.User) *gin.Engine {
	store := &stubUsers{users: map[int]*models.User{}}
	for _, u := range users {
		store.users[u.ID] = u
	}
	r := gin.New()
	r.Use(Auth(store, testSecret, zap.NewNop()))
	r.GET("/whoami", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": CurrentUserID(c), "role": CurrentRole(c)})
	})
	r.GET("/admin", RequireRoles(models.RoleAdministrateur), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	r.GET("/profile/:id", SelfOrRoles("id", models.RoleAdministrateur), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func get(r *gin.Engine, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func validToken(t *testing.T, u *models.User) string {
	t.Helper()
	token, err := service.GenerateAccessToken(u, testSecret, time.Hour)
	require.NoError(t, err)
	return token
}

func TestAuth(t *testing.T) {
	active := &models.User{ID: 1, Email: "a@b.c", Role: models.RoleUtilisateur, Status: models.UserStatusActive}

	t.Run("missing header", func(t *testing.T) {
		r := authedEngine(active)
		w := get(r, "/whoami", "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("malformed header", func(t *testing.T) {
		r := authedEngine(active)
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.Header.Set("Authorization", "Token abc")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("garbage token", func(t *testing.T) {
		r := authedEngine(active)
		w := get(r, "/whoami", "not.a.jwt")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("expired token", func(t *testing.T) {
		r := authedEngine(active)
		token, err := service.GenerateAccessToken(active, testSecret, -time.Minute)
		require.NoError(t, err)
		w := get(r, "/whoami", token)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "token expired")
	})

	t.Run("valid token sets identity", func(t *testing.T) {
		r := authedEngine(active)
		w := get(r, "/whoami", validToken(t, active))
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"id":1`)
	})

	t.Run("token for a disabled account is refused", func(t *testing.T) {
		disabled := &models.User{ID: 2, Status: models.UserStatusDisabled}
		r := authedEngine(disabled)
		// The token was issued while the account was still active.
		w := get(r, "/whoami", validToken(t, &models.User{ID: 2}))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("token for a deleted account is refused", func(t *testing.T) {
		r := authedEngine()
		w := get(r, "/whoami", validToken(t, active))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestRequireRoles(t *testing.T) {
	admin := &models.User{ID: 1, Role: models.RoleAdministrateur, Status: models.UserStatusActive}
	user := &models.User{ID: 2, Role: models.RoleUtilisateur, Status: models.UserStatusActive}
	r := authedEngine(admin, user)

	assert.Equal(t, http.StatusOK, get(r, "/admin", validToken(t, admin)).Code)
	assert.Equal(t, http.StatusForbidden, get(r, "/admin", validToken(t, user)).Code)
}

func TestSelfOrRoles(t *testing.T) {
	admin := &models.User{ID: 1, Role: models.RoleAdministrateur, Status: models.UserStatusActive}
	user := &models.User{ID: 2, Role: models.RoleUtilisateur, Status: models.UserStatusActive}
	r := authedEngine(admin, user)

	t.Run("owner allowed", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, get(r, "/profile/2", validToken(t, user)).Code)
	})

	t.Run("admin allowed on any profile", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, get(r, "/profile/2", validToken(t, admin)).Code)
	})

	t.Run("other user forbidden", func(t *testing.T) {
		assert.Equal(t, http.StatusForbidden, get(r, "/profile/1", validToken(t, user)).Code)
	})
}
