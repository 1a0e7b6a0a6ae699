package dto

// TokenRequest exchanges a configured API key for a bearer token.
type TokenRequest struct {
	APIKey string `json:"api_key" validate:"required,min=16"`
}

// RefreshTokenRequest rotates a token pair using the refresh token.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// TokenResponse carries the issued tokens.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
}
