package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIKeyService_Authenticate(t *testing.T) {
	hash1, err := HashAPIKey("first-key")
	require.NoError(t, err)
	hash2, err := HashAPIKey("second-key")
	require.NoError(t, err)

	service := NewAPIKeyService([]string{hash1, hash2})

	tests := []struct {
		name         string
		apiKey       string
		wantClientID uint
		wantErr      error
	}{
		{"first configured key", "first-key", 1, nil},
		{"second configured key", "second-key", 2, nil},
		{"unknown key", "nope", 0, ErrUnknownAPIKey},
		{"empty key", "", 0, ErrUnknownAPIKey},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clientID, err := service.Authenticate(tt.apiKey)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantClientID, clientID)
		})
	}
}

func TestAPIKeyService_NoConfiguredKeys(t *testing.T) {
	service := NewAPIKeyService(nil)

	_, err := service.Authenticate("anything")
	assert.ErrorIs(t, err, ErrUnknownAPIKey)
}
