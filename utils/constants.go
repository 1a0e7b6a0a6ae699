package utils

// contextKey is a private type so request-scoped values cannot collide with
// values placed by other packages.
type contextKey string

// Context keys populated by handlers for request-scoped metadata
const (
	RequestIDKey  contextKey = "request_id"
	UserAgentKey  contextKey = "user_agent"
	IPAddressKey  contextKey = "ip_address"
	EndpointKey   contextKey = "endpoint"
	TimeoutKey    contextKey = "timeout"
	CancelFuncKey contextKey = "cancel_func"
	ClientIDKey   contextKey = "client_id"
)

// Upload constants
const (
	// MaxPastedImageSize is the hard payload cap for a pasted image (2 MiB).
	// The comparison is strictly greater-than: a payload of exactly this size
	// is accepted.
	MaxPastedImageSize = int64(2 * 1024 * 1024)

	// PastedImageFieldName is the multipart field carrying the pasted image.
	PastedImageFieldName = "pastedImage"
)

// CORS and security constants
const (
	// CORSMaxAge is the maximum age for CORS preflight requests (24 hours)
	CORSMaxAge = 86400
)
