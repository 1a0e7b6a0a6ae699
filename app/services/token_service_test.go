package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createTestTokenService creates a token service for testing with symmetric key
func createTestTokenService() (TokenService, error) {
	return NewTokenService(
		15*time.Minute,
		7*24*time.Hour,
		"test-issuer",
		"test-audience",
		false, // useRSAKeys
		"",    // privateKeyPEM
		"",    // publicKeyPEM
		"test-secret-key-for-jwt-signing-32-chars", // secretKey
	)
}

func TestNewTokenService(t *testing.T) {
	tests := []struct {
		name        string
		useRSAKeys  bool
		secretKey   string
		expectError bool
	}{
		{
			name:        "valid symmetric key configuration",
			useRSAKeys:  false,
			secretKey:   "test-secret-key-for-jwt-signing-32-chars",
			expectError: false,
		},
		{
			name:        "missing secret key",
			useRSAKeys:  false,
			secretKey:   "",
			expectError: true,
		},
		{
			name:        "rsa requested without keys",
			useRSAKeys:  true,
			secretKey:   "",
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, err := NewTokenService(
				15*time.Minute,
				7*24*time.Hour,
				"test-issuer",
				"test-audience",
				tt.useRSAKeys,
				"",
				"",
				tt.secretKey,
			)
			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, service)
			} else {
				require.NoError(t, err)
				assert.NotNil(t, service)
			}
		})
	}
}

func TestTokenService_GenerateAndValidate(t *testing.T) {
	service, err := createTestTokenService()
	require.NoError(t, err)

	accessToken, refreshToken, err := service.GenerateTokens(42)
	require.NoError(t, err)
	assert.NotEmpty(t, accessToken)
	assert.NotEmpty(t, refreshToken)
	assert.NotEqual(t, accessToken, refreshToken)

	claims, err := service.ValidateToken(accessToken)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.ClientID)
	assert.Equal(t, "access", claims.TokenType)
	assert.NotEmpty(t, claims.TokenID)
	assert.True(t, claims.ExpiresAt.After(time.Now()))
}

func TestTokenService_ValidateInvalidToken(t *testing.T) {
	service, err := createTestTokenService()
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"empty token", ""},
		{"garbage token", "not-a-jwt"},
		{"tampered token", "eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9.e30.bogus"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := service.ValidateToken(tt.token)
			assert.Error(t, err)
			assert.Nil(t, claims)
		})
	}
}

func TestTokenService_ValidateTokenFromDifferentSecret(t *testing.T) {
	service, err := createTestTokenService()
	require.NoError(t, err)

	other, err := NewTokenService(
		15*time.Minute,
		7*24*time.Hour,
		"test-issuer",
		"test-audience",
		false,
		"",
		"",
		"a-completely-different-secret-key-here",
	)
	require.NoError(t, err)

	accessToken, _, err := other.GenerateTokens(1)
	require.NoError(t, err)

	_, err = service.ValidateToken(accessToken)
	assert.Error(t, err)
}

func TestTokenService_RefreshToken(t *testing.T) {
	service, err := createTestTokenService()
	require.NoError(t, err)

	_, refreshToken, err := service.GenerateTokens(7)
	require.NoError(t, err)

	newAccess, newRefresh, err := service.RefreshToken(refreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, newAccess)
	assert.NotEmpty(t, newRefresh)

	claims, err := service.ValidateToken(newAccess)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.ClientID)
	assert.Equal(t, "access", claims.TokenType)
}

func TestTokenService_RefreshRejectsAccessToken(t *testing.T) {
	service, err := createTestTokenService()
	require.NoError(t, err)

	accessToken, _, err := service.GenerateTokens(7)
	require.NoError(t, err)

	_, _, err = service.RefreshToken(accessToken)
	assert.Error(t, err)
}

func TestTokenService_RevokeToken(t *testing.T) {
	service, err := createTestTokenService()
	require.NoError(t, err)

	accessToken, _, err := service.GenerateTokens(9)
	require.NoError(t, err)

	claims, err := service.ValidateToken(accessToken)
	require.NoError(t, err)
	assert.False(t, service.IsTokenRevoked(claims.TokenID))

	require.NoError(t, service.RevokeToken(accessToken))
	assert.True(t, service.IsTokenRevoked(claims.TokenID))
}

func TestTokenService_AccessTokenTTL(t *testing.T) {
	service, err := createTestTokenService()
	require.NoError(t, err)

	assert.Equal(t, 15*time.Minute, service.AccessTokenTTL())
}
