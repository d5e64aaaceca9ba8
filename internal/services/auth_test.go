package services_test

import (
	"testing"
	"time"

	"taskify/backend/internal/config"
	"taskify/backend/internal/models"
	"taskify/backend/internal/services"

	"github.com/gofrs/uuid"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		JWTSecret:       "test-secret",
		Issuer:          "taskify-backend",
		AccessTokenTTL:  24 * time.Hour,
		RefreshTokenTTL: 7 * 24 * time.Hour,
	}
}

func TestGenerateAccessToken_ClaimsAndExpiry(t *testing.T) {
	service := services.NewTokenService(testAuthConfig())
	user := &models.User{
		ID:       uuid.Must(uuid.NewV4()),
		Username: "alice",
	}

	signed, err := service.GenerateAccessToken(user)
	require.NoError(t, err)

	token, err := jwt.Parse(signed, func(token *jwt.Token) (interface{}, error) {
		require.IsType(t, &jwt.SigningMethodHMAC{}, token.Method)
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	require.True(t, token.Valid)

	claims, ok := token.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, user.ID.String(), claims["user_id"])
	assert.Equal(t, "alice", claims["username"])
	assert.Equal(t, "taskify-backend", claims["iss"])

	exp, ok := claims["exp"].(float64)
	require.True(t, ok)
	expectedExp := time.Now().Add(24 * time.Hour).Unix()
	assert.InDelta(t, expectedExp, int64(exp), 5)
}

func TestGenerateAccessToken_RejectedWithWrongSecret(t *testing.T) {
	service := services.NewTokenService(testAuthConfig())
	user := &models.User{ID: uuid.Must(uuid.NewV4()), Username: "bob"}

	signed, err := service.GenerateAccessToken(user)
	require.NoError(t, err)

	_, err = jwt.Parse(signed, func(token *jwt.Token) (interface{}, error) {
		return []byte("some-other-secret"), nil
	})
	assert.Error(t, err)
}

func TestNewRefreshToken_Unique(t *testing.T) {
	service := services.NewTokenService(testAuthConfig())

	first, err := service.NewRefreshToken()
	require.NoError(t, err)
	second, err := service.NewRefreshToken()
	require.NoError(t, err)

	assert.NotEmpty(t, first)
	assert.NotEqual(t, first, second)
}
