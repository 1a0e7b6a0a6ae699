package businessflow

import (
	"context"
	"errors"

	"github.com/pastepoint/pastepoint/app/dto"
	"github.com/pastepoint/pastepoint/app/services"
)

// AuthFlow exchanges API keys for JWT token pairs.
type AuthFlow interface {
	IssueToken(ctx context.Context, req *dto.TokenRequest, metadata *ClientMetadata) (*dto.TokenResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*dto.TokenResponse, error)
}

type AuthFlowImpl struct {
	apiKeys services.APIKeyService
	tokens  services.TokenService
}

func NewAuthFlow(apiKeys services.APIKeyService, tokens services.TokenService) AuthFlow {
	return &AuthFlowImpl{apiKeys: apiKeys, tokens: tokens}
}

func (f *AuthFlowImpl) IssueToken(ctx context.Context, req *dto.TokenRequest, metadata *ClientMetadata) (*dto.TokenResponse, error) {
	if req == nil || req.APIKey == "" {
		return nil, NewBusinessError("VALIDATION_ERROR", "api_key is required", nil)
	}

	clientID, err := f.apiKeys.Authenticate(req.APIKey)
	if err != nil {
		if errors.Is(err, services.ErrUnknownAPIKey) {
			return nil, NewBusinessError("INVALID_API_KEY", "API key is not recognized", err)
		}
		return nil, err
	}

	access, refresh, err := f.tokens.GenerateTokens(clientID)
	if err != nil {
		return nil, NewBusinessError("TOKEN_GENERATION_FAILED", "Failed to generate tokens", err)
	}

	return &dto.TokenResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "Bearer",
		ExpiresIn:    int(f.tokens.AccessTokenTTL().Seconds()),
	}, nil
}

func (f *AuthFlowImpl) RefreshToken(ctx context.Context, refreshToken string) (*dto.TokenResponse, error) {
	if refreshToken == "" {
		return nil, NewBusinessError("VALIDATION_ERROR", "refresh_token is required", nil)
	}

	access, refresh, err := f.tokens.RefreshToken(refreshToken)
	if err != nil {
		return nil, NewBusinessError("INVALID_REFRESH_TOKEN", "Refresh token is invalid or expired", err)
	}

	return &dto.TokenResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "Bearer",
		ExpiresIn:    int(f.tokens.AccessTokenTTL().Seconds()),
	}, nil
}
