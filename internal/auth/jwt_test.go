package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pbp-backend/internal/config"
	"pbp-backend/internal/models"
)

func testJWTManager() *JWTManager {
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret-key-for-testing-purposes"
	cfg.JWT.ExpirationHours = 24
	cfg.JWT.Issuer = "pbp-backend"
	return NewJWTManager(cfg)
}

func testUser() *models.User {
	return &models.User{
		ID:       42,
		Email:    "volunteer@example.org",
		Role:     "volunteer",
		IsActive: true,
	}
}

func TestGenerateAndValidateToken(t *testing.T) {
	manager := testJWTManager()

	token, err := manager.GenerateToken(testUser())
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := manager.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, 42, claims.UserID)
	assert.Equal(t, "volunteer@example.org", claims.Email)
	assert.Equal(t, "volunteer", claims.Role)
	assert.True(t, claims.IsActive)
	assert.Equal(t, "pbp-backend", claims.Issuer)
}

func TestValidateTokenWrongSecret(t *testing.T) {
	manager := testJWTManager()

	token, err := manager.GenerateToken(testUser())
	require.NoError(t, err)

	other := &config.Config{}
	other.JWT.Secret = "a-completely-different-secret"
	other.JWT.ExpirationHours = 24
	other.JWT.Issuer = "pbp-backend"

	_, err = NewJWTManager(other).ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateTokenGarbage(t *testing.T) {
	_, err := testJWTManager().ValidateToken("not.a.token")
	assert.Error(t, err)
}

func TestTempToken(t *testing.T) {
	manager := testJWTManager()

	token, err := manager.GenerateTempToken(testUser())
	require.NoError(t, err)

	claims, err := manager.ValidateTempToken(token)
	require.NoError(t, err)
	assert.Equal(t, 42, claims.UserID)
	assert.Equal(t, "2fa_pending", claims.Type)
}

func TestTempTokenRejectsFullToken(t *testing.T) {
	manager := testJWTManager()

	// A full session token must not pass as a 2FA-pending token.
	token, err := manager.GenerateToken(testUser())
	require.NoError(t, err)

	_, err = manager.ValidateTempToken(token)
	assert.Error(t, err)
}
