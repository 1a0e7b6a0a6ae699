// Package middleware provides HTTP middleware components for the API server
package middleware

import (
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/pastepoint/pastepoint/app/dto"
	"github.com/pastepoint/pastepoint/app/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthTestSetup(t *testing.T) (services.TokenService, *fiber.App) {
	t.Helper()
	tokens, err := services.NewTokenService(
		15*time.Minute,
		7*24*time.Hour,
		"pastepoint",
		"pastepoint-api",
		false,
		"",
		"",
		"test-secret-key-for-jwt-signing-32-chars",
	)
	require.NoError(t, err)

	app := fiber.New()
	app.Get("/protected", NewAuthMiddleware(tokens).Authenticate(), func(c fiber.Ctx) error {
		clientID, _ := GetClientIDFromContext(c)
		tokenType := ""
		if claims, ok := GetTokenClaimsFromContext(c); ok {
			tokenType = claims.TokenType
		}
		return c.JSON(fiber.Map{"client_id": clientID, "token_type": tokenType})
	})

	return tokens, app
}

func TestAuthenticate_ValidToken(t *testing.T) {
	tokens, app := newAuthTestSetup(t)

	access, _, err := tokens.GenerateTokens(5)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+access)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, float64(5), body["client_id"])
	assert.Equal(t, "access", body["token_type"])
}

func TestAuthenticate_Rejections(t *testing.T) {
	_, app := newAuthTestSetup(t)

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"wrong scheme", "Basic abc"},
		{"empty bearer", "Bearer "},
		{"garbage token", "Bearer not-a-jwt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/protected", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

			var body dto.APIResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.False(t, body.Success)
			require.NotNil(t, body.Error)
			assert.NotEmpty(t, body.Error.Code)
		})
	}
}

func TestAuthenticate_RevokedToken(t *testing.T) {
	tokens, app := newAuthTestSetup(t)

	access, _, err := tokens.GenerateTokens(5)
	require.NoError(t, err)
	require.NoError(t, tokens.RevokeToken(access))

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+access)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestOptionalAuth_AllowsAnonymous(t *testing.T) {
	tokens, err := services.NewTokenService(
		15*time.Minute,
		7*24*time.Hour,
		"pastepoint",
		"pastepoint-api",
		false,
		"",
		"",
		"test-secret-key-for-jwt-signing-32-chars",
	)
	require.NoError(t, err)

	app := fiber.New()
	app.Get("/open", NewAuthMiddleware(tokens).OptionalAuth(), func(c fiber.Ctx) error {
		_, authed := GetClientIDFromContext(c)
		return c.JSON(fiber.Map{"authenticated": authed})
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/open", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, false, body["authenticated"])

	// With a valid token the client is identified.
	access, _, err := tokens.GenerateTokens(9)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/open", nil)
	req.Header.Set("Authorization", "Bearer "+access)

	resp, err = app.Test(req)
	require.NoError(t, err)

	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, true, body["authenticated"])
}
