package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/progitek/parabellum/models"
)

const testSecret = "test-secret"

func TestAccessTokenRoundTrip(t *testing.T) {
	user := &models.User{ID: 42, Email: "a@b.c", Role: models.RoleManager}

	token, err := GenerateAccessToken(user, testSecret, time.Hour)
	require.NoError(t, err)

	claims, err := ParseAccessToken(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, 42, claims.UserID)
	assert.Equal(t, "a@b.c", claims.Email)
	assert.Equal(t, models.RoleManager, claims.Role)
}

func TestAccessTokenWrongSecret(t *testing.T) {
	user := &models.User{ID: 1}
	token, err := GenerateAccessToken(user, testSecret, time.Hour)
	require.NoError(t, err)

	_, err = ParseAccessToken(token, "other-secret")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAccessTokenExpired(t *testing.T) {
	user := &models.User{ID: 1}
	token, err := GenerateAccessToken(user, testSecret, -time.Minute)
	require.NoError(t, err)

	_, err = ParseAccessToken(token, testSecret)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestResetTokenIsNotAnAccessToken(t *testing.T) {
	token, err := GeneratePasswordResetToken(7, testSecret, time.Hour)
	require.NoError(t, err)

	_, err = ParseAccessToken(token, testSecret)
	assert.ErrorIs(t, err, ErrInvalidToken)

	userID, err := ParsePasswordResetToken(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, 7, userID)
}

func TestAccessTokenIsNotAResetToken(t *testing.T) {
	user := &models.User{ID: 9}
	token, err := GenerateAccessToken(user, testSecret, time.Hour)
	require.NoError(t, err)

	_, err = ParsePasswordResetToken(token, testSecret)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
