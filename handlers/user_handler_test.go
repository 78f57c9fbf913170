package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/progitek/parabellum/middleware"
	"github.com/progitek/parabellum/models"
	"github.com/progitek/parabellum/repository"
)

type fakeUserDirectory struct {
	fakeUserGetter
	roles      map[int]bool
	deleted    []int
	lastUpdate *repository.UpdateUserParams
}

func (f *fakeUserDirectory) List(_ context.Context, _ repository.ListUsersParams) ([]*models.User, int, error) {
	out := make([]*models.User, 0, len(f.users))
	for _, u := range f.users {
		out = append(out, u)
	}
	return out, len(out), nil
}

func (f *fakeUserDirectory) Update(ctx context.Context, id int, p repository.UpdateUserParams) (*models.User, error) {
	f.lastUpdate = &p
	return f.GetByID(ctx, id)
}

func (f *fakeUserDirectory) Delete(ctx context.Context, id int) error {
	if _, err := f.GetByID(ctx, id); err != nil {
		return err
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeUserDirectory) RoleExists(_ context.Context, id int) (bool, error) {
	return f.roles[id], nil
}

func (f *fakeUserDirectory) ListRoles(_ context.Context) ([]*models.Role, error) {
	return []*models.Role{{ID: 1, Libelle: models.RoleAdministrateur}}, nil
}

func newUserRoutes(t *testing.T, users ...*models.User) (*gin.Engine, *fakeUserDirectory, string) {
	t.Helper()
	r, getter := testRouter(t, users...)
	dir := &fakeUserDirectory{
		fakeUserGetter: fakeUserGetter{users: getter.users},
		roles:          map[int]bool{1: true, 2: true, 3: true},
	}
	h := NewUserHandler(dir, nil, nopRecorder())
	admin := middleware.RequireRoles(models.RoleAdministrateur)
	r.GET("/users/:id", h.Get)
	r.PUT("/users/:id", middleware.SelfOrRoles("id", models.RoleAdministrateur), h.Update)
	r.DELETE("/users/:id", admin, h.Delete)
	return r, dir, tokenFor(t, users[0])
}

func TestUserDeleteSelfRejected(t *testing.T) {
	admin := adminUser()
	r, dir, token := newUserRoutes(t, admin)

	w, envelope := doJSON(t, r, http.MethodDelete, "/users/1", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_REQUEST", errorCode(t, envelope))
	assert.Empty(t, dir.deleted)
}

func TestUserDeleteOtherByAdmin(t *testing.T) {
	admin := adminUser()
	other := plainUser(2)
	r, dir, token := newUserRoutes(t, admin, other)

	w, _ := doJSON(t, r, http.MethodDelete, "/users/2", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []int{2}, dir.deleted)
}

func TestUserDeleteForbiddenForNonAdmin(t *testing.T) {
	user := plainUser(2)
	r, dir, _ := newUserRoutes(t, user, plainUser(3))

	w, envelope := doJSON(t, r, http.MethodDelete, "/users/3", tokenFor(t, user), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "FORBIDDEN", errorCode(t, envelope))
	assert.Empty(t, dir.deleted)
}

func TestUserUpdateOwnerCannotChangeRoleOrStatus(t *testing.T) {
	user := plainUser(2)
	r, dir, _ := newUserRoutes(t, user)

	body := map[string]interface{}{
		"nom":     "Nouveau",
		"role_id": 1,
		"status":  models.UserStatusDisabled,
	}
	w, _ := doJSON(t, r, http.MethodPut, "/users/2", tokenFor(t, user), body)
	require.Equal(t, http.StatusOK, w.Code)

	require.NotNil(t, dir.lastUpdate)
	assert.NotNil(t, dir.lastUpdate.Nom)
	assert.Nil(t, dir.lastUpdate.RoleID, "owner must not escalate role")
	assert.Nil(t, dir.lastUpdate.Status, "owner must not change status")
}

func TestUserUpdateUnknownRoleRejected(t *testing.T) {
	admin := adminUser()
	r, dir, token := newUserRoutes(t, admin, plainUser(2))

	body := map[string]interface{}{"role_id": 99}
	w, envelope := doJSON(t, r, http.MethodPut, "/users/2", token, body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_REFERENCE", errorCode(t, envelope))
	assert.Nil(t, dir.lastUpdate)
}

func TestUserUpdateInvalidStatusRejected(t *testing.T) {
	admin := adminUser()
	r, dir, token := newUserRoutes(t, admin, plainUser(2))

	body := map[string]interface{}{"status": "archived"}
	w, _ := doJSON(t, r, http.MethodPut, "/users/2", token, body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Nil(t, dir.lastUpdate)
}

func TestUserGetUnknownIs404(t *testing.T) {
	admin := adminUser()
	r, _, token := newUserRoutes(t, admin)

	w, envelope := doJSON(t, r, http.MethodGet, "/users/42", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", errorCode(t, envelope))
}

func TestUnauthenticatedRequestRejected(t *testing.T) {
	admin := adminUser()
	r, _, _ := newUserRoutes(t, admin)

	w, envelope := doJSON(t, r, http.MethodGet, "/users/1", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "UNAUTHORIZED", errorCode(t, envelope))
}
