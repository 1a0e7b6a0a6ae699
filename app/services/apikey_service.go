package services

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// ErrUnknownAPIKey is returned when a presented key matches no configured hash.
var ErrUnknownAPIKey = errors.New("unknown API key")

// APIKeyService authenticates clients by API key. Keys are never stored in
// clear text; configuration carries bcrypt hashes and the presented key is
// compared against each of them.
type APIKeyService interface {
	// Authenticate returns the client ID associated with the key.
	Authenticate(apiKey string) (uint, error)
}

// APIKeyServiceImpl implements APIKeyService against a static hash list
// loaded from configuration. Client IDs are the 1-based position of the hash
// in the configured list.
type APIKeyServiceImpl struct {
	hashedKeys []string
}

// NewAPIKeyService creates an API key service from bcrypt hashes.
func NewAPIKeyService(hashedKeys []string) *APIKeyServiceImpl {
	return &APIKeyServiceImpl{hashedKeys: hashedKeys}
}

// Authenticate implements APIKeyService.
func (s *APIKeyServiceImpl) Authenticate(apiKey string) (uint, error) {
	for i, hash := range s.hashedKeys {
		if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(apiKey)); err == nil {
			return uint(i + 1), nil
		}
	}
	return 0, ErrUnknownAPIKey
}

// HashAPIKey produces a bcrypt hash suitable for the configured key list.
// Exposed so operators can generate hashes with the same cost the service
// verifies against.
func HashAPIKey(apiKey string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(apiKey), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
