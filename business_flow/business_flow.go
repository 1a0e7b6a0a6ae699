// Package businessflow contains the business logic for the application.
package businessflow

import (
	"fmt"
	"strings"

	"github.com/pastepoint/pastepoint/config"
)

const RequestIDKey = "X-Request-ID"

// ClientMetadata holds all client-related information for audit logging and request tracking
type ClientMetadata struct {
	IPAddress  string            `json:"ip_address"`
	UserAgent  string            `json:"user_agent"`
	RequestID  string            `json:"request_id,omitempty"`
	Additional map[string]string `json:"additional,omitempty"`
}

// NewClientMetadata creates a new ClientMetadata instance with basic information
func NewClientMetadata(ipAddress, userAgent string) *ClientMetadata {
	return &ClientMetadata{
		IPAddress:  ipAddress,
		UserAgent:  userAgent,
		Additional: make(map[string]string),
	}
}

// AddAdditional adds additional custom information to the metadata
func (cm *ClientMetadata) AddAdditional(key, value string) {
	if cm.Additional == nil {
		cm.Additional = make(map[string]string)
	}
	cm.Additional[key] = value
}

// SetRequestID sets the request ID
func (cm *ClientMetadata) SetRequestID(requestID string) {
	cm.RequestID = requestID
}

// cacheKey derives a namespaced Redis key from the cache config prefix.
func cacheKey(cfg config.CacheConfig, parts ...any) string {
	key := strings.TrimSuffix(cfg.RedisPrefix, ":")
	for _, p := range parts {
		key += fmt.Sprintf(":%v", p)
	}
	return key
}
