// Package handlers contains HTTP request handlers and presentation layer logic for the API endpoints
package handlers

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/pastepoint/pastepoint/app/dto"
	businessflow "github.com/pastepoint/pastepoint/business_flow"
	"github.com/pastepoint/pastepoint/utils"
)

// AuthHandlerInterface defines the contract for authentication handlers
type AuthHandlerInterface interface {
	IssueToken(c fiber.Ctx) error
	RefreshToken(c fiber.Ctx) error
}

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	authFlow  businessflow.AuthFlow
	validator *validator.Validate
}

// NewAuthHandler creates a new authentication handler
func NewAuthHandler(authFlow businessflow.AuthFlow) *AuthHandler {
	return &AuthHandler{
		authFlow:  authFlow,
		validator: validator.New(),
	}
}

func (h *AuthHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: &dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *AuthHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// IssueToken exchanges an API key for a JWT token pair
// @Summary Issue token
// @Description Exchange a configured API key for access and refresh tokens
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body dto.TokenRequest true "API key"
// @Success 200 {object} dto.APIResponse{data=dto.TokenResponse} "Tokens issued"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 401 {object} dto.APIResponse "Unknown API key"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/auth/token [post]
func (h *AuthHandler) IssueToken(c fiber.Ctx) error {
	var req dto.TokenRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if err := h.validator.Struct(&req); err != nil {
		var validationErrors []string
		for _, err := range err.(validator.ValidationErrors) {
			validationErrors = append(validationErrors, getValidationErrorMessage(err))
		}
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors)
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	metadata.SetRequestID(c.Get(businessflow.RequestIDKey))
	result, err := h.authFlow.IssueToken(h.createRequestContext(c, "/api/auth/token"), &req, metadata)
	if err != nil {
		if be, ok := err.(*businessflow.BusinessError); ok {
			switch be.Code {
			case "VALIDATION_ERROR":
				return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", be.Code, be.Error())
			case "INVALID_API_KEY":
				return h.ErrorResponse(c, fiber.StatusUnauthorized, "API key is not recognized", be.Code, nil)
			}
		}
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to issue token", "TOKEN_ISSUE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Tokens issued", result)
}

// RefreshToken rotates a token pair
// @Summary Refresh token
// @Description Exchange a refresh token for a new token pair
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body dto.RefreshTokenRequest true "Refresh token"
// @Success 200 {object} dto.APIResponse{data=dto.TokenResponse} "Tokens rotated"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 401 {object} dto.APIResponse "Invalid refresh token"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/auth/refresh [post]
func (h *AuthHandler) RefreshToken(c fiber.Ctx) error {
	var req dto.RefreshTokenRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if err := h.validator.Struct(&req); err != nil {
		var validationErrors []string
		for _, err := range err.(validator.ValidationErrors) {
			validationErrors = append(validationErrors, getValidationErrorMessage(err))
		}
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors)
	}

	result, err := h.authFlow.RefreshToken(h.createRequestContext(c, "/api/auth/refresh"), req.RefreshToken)
	if err != nil {
		if be, ok := err.(*businessflow.BusinessError); ok {
			switch be.Code {
			case "VALIDATION_ERROR":
				return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", be.Code, be.Error())
			case "INVALID_REFRESH_TOKEN":
				return h.ErrorResponse(c, fiber.StatusUnauthorized, "Refresh token is invalid or expired", be.Code, nil)
			}
		}
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to refresh token", "TOKEN_REFRESH_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Tokens rotated", result)
}

func (h *AuthHandler) createRequestContext(c fiber.Ctx, endpoint string) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	ctx = context.WithValue(ctx, utils.RequestIDKey, c.Get("X-Request-ID"))
	ctx = context.WithValue(ctx, utils.UserAgentKey, c.Get("User-Agent"))
	ctx = context.WithValue(ctx, utils.IPAddressKey, c.IP())
	ctx = context.WithValue(ctx, utils.EndpointKey, endpoint)
	ctx = context.WithValue(ctx, utils.CancelFuncKey, cancel)
	return ctx
}
