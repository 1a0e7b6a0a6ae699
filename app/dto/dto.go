package dto

// APIResponse is the standard envelope for API error and status responses.
// Successful pasted image uploads are the one exception; their body is the
// flat SavePastedImageResponse.
type APIResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Data    any          `json:"data,omitempty" validate:"omitempty"`
	Error   *ErrorDetail `json:"error,omitempty" validate:"omitempty"`
}

// ErrorDetail represents error details in API responses
type ErrorDetail struct {
	Code    string `json:"code"`
	Details any    `json:"details,omitempty" validate:"omitempty"`
}
