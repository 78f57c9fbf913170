package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/progitek/parabellum/middleware"
	"github.com/progitek/parabellum/models"
	"github.com/progitek/parabellum/service"
)

const testSecret = "test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

// fakeUserGetter backs the auth middleware in handler tests.
type fakeUserGetter struct {
	users map[int]*models.User
}

func (f *fakeUserGetter) GetByID(_ context.Context, id int) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return u, nil
}

// testRouter builds a gin engine whose routes run behind the real JWT
// middleware, authenticated as the given users.
func testRouter(t *testing.T, users ...*models.User) (*gin.Engine, *fakeUserGetter) {
	t.Helper()
	getter := &fakeUserGetter{users: map[int]*models.User{}}
	for _, u := range users {
		getter.users[u.ID] = u
	}
	r := gin.New()
	r.Use(middleware.Auth(getter, testSecret, zap.NewNop()))
	return r, getter
}

func tokenFor(t *testing.T, u *models.User) string {
	t.Helper()
	token, err := service.GenerateAccessToken(u, testSecret, time.Hour)
	require.NoError(t, err)
	return token
}

// doJSON performs an authenticated request and decodes the envelope.
func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	envelope := map[string]interface{}{}
	if len(w.Body.Bytes()) > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	}
	return w, envelope
}

func errorCode(t *testing.T, envelope map[string]interface{}) string {
	t.Helper()
	errBody, ok := envelope["error"].(map[string]interface{})
	require.True(t, ok, "missing error body: %v", envelope)
	code, _ := errBody["code"].(string)
	return code
}

func nopRecorder() *service.Recorder {
	return service.NewRecorder(nil, zap.NewNop())
}

func adminUser() *models.User {
	return &models.User{
		ID: 1, Email: "admin@example.com", Role: models.RoleAdministrateur,
		Status: models.UserStatusActive,
	}
}

func plainUser(id int) *models.User {
	return &models.User{
		ID: id, Email: "user@example.com", Role: models.RoleUtilisateur,
		Status: models.UserStatusActive,
	}
}
