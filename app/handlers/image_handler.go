// Package handlers contains HTTP request handlers and presentation layer logic for the API endpoints
package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/pastepoint/pastepoint/app/dto"
	"github.com/pastepoint/pastepoint/app/middleware"
	businessflow "github.com/pastepoint/pastepoint/business_flow"
	"github.com/pastepoint/pastepoint/utils"
)

// ImageHandlerInterface defines the contract for pasted image handlers.
type ImageHandlerInterface interface {
	SavePastedImage(c fiber.Ctx) error
	Submit(c fiber.Ctx) error
	Download(c fiber.Ctx) error
	Preview(c fiber.Ctx) error
}

// ImageHandler handles pasted image requests.
type ImageHandler struct {
	flow businessflow.ImageFlow
}

// NewImageHandler creates a new image handler.
func NewImageHandler(flow businessflow.ImageFlow) *ImageHandler {
	return &ImageHandler{flow: flow}
}

func (h *ImageHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: &dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *ImageHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// SavePastedImage handles clipboard image uploads.
// The success body is flat JSON with an imageUrl field; paste clients read
// that field by name, so it is not wrapped in the standard envelope.
// @Summary Save pasted image
// @Description Save a clipboard image (png/jpg/jpeg/gif/webp/bmp, <=2MiB)
// @Tags Images
// @Accept mpfd
// @Produce json
// @Param pastedImage formData file true "Pasted image (<=2MiB)"
// @Success 200 {object} dto.SavePastedImageResponse "Upload successful"
// @Failure 400 {object} dto.APIResponse "Invalid request or file"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/images/paste/save [post]
func (h *ImageHandler) SavePastedImage(c fiber.Ctx) error {
	fileHeader, err := c.FormFile(utils.PastedImageFieldName)
	if err != nil || fileHeader == nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "pastedImage file is required", "INVALID_FILE", nil)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "invalid file", "INVALID_FILE", err.Error())
	}
	defer file.Close()

	req := dto.SavePastedImageRequest{
		OriginalFilename: fileHeader.Filename,
		FileSize:         fileHeader.Size,
		ContentType:      fileHeader.Header.Get("Content-Type"),
		File:             file,
	}
	if clientID, ok := c.Locals("client_id").(uint); ok && clientID != 0 {
		req.ClientID = &clientID
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	metadata.SetRequestID(c.Get(businessflow.RequestIDKey))
	metadata.AddAdditional("original_filename", fileHeader.Filename)
	result, err := h.flow.SavePastedImage(h.createRequestContext(c, "/api/images/paste/save"), &req, metadata)
	if err != nil {
		if be, ok := err.(*businessflow.BusinessError); ok {
			switch be.Code {
			case "INVALID_FILE":
				middleware.RecordUpload("failed", 0)
				return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid file", be.Code, be.Error())
			case "INVALID_FORMAT":
				middleware.RecordUpload("invalid_format", 0)
				return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid image format", be.Code, be.Error())
			case "FILE_TOO_LARGE":
				middleware.RecordUpload("too_large", 0)
				return h.ErrorResponse(c, fiber.StatusBadRequest, "File too large", be.Code, be.Error())
			case "INVALID_REQUEST":
				middleware.RecordUpload("failed", 0)
				return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request", be.Code, be.Error())
			}
		}
		middleware.RecordUpload("failed", 0)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to save pasted image", "UPLOAD_FAILED", nil)
	}

	middleware.RecordUpload("accepted", result.SizeBytes)
	return c.Status(fiber.StatusOK).JSON(result)
}

// Submit is a placeholder endpoint kept for client compatibility.
// @Summary Submit images
// @Description Placeholder, returns a fixed string
// @Tags Images
// @Produce plain
// @Success 200 {string} string "Submitted"
// @Router /api/images/submit [get]
func (h *ImageHandler) Submit(c fiber.Ctx) error {
	return c.SendString("Submitted")
}

// Download serves a stored image by uuid.
// @Summary Download image
// @Description Download a stored pasted image by uuid
// @Tags Images
// @Produce application/octet-stream
// @Param uuid path string true "Image UUID"
// @Success 200 {string} string "Binary file"
// @Failure 400 {object} dto.APIResponse "Invalid request"
// @Failure 404 {object} dto.APIResponse "Not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/images/{uuid} [get]
func (h *ImageHandler) Download(c fiber.Ctx) error {
	imageUUID := c.Params("uuid")
	if imageUUID == "" {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid uuid", "INVALID_UUID", nil)
	}

	filename, contentType, data, err := h.flow.DownloadPastedImage(h.createRequestContext(c, "/api/images/{uuid}"), imageUUID)
	if err != nil {
		if be, ok := err.(*businessflow.BusinessError); ok {
			switch be.Code {
			case "INVALID_UUID":
				return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid uuid", be.Code, be.Error())
			case "IMAGE_NOT_FOUND":
				return h.ErrorResponse(c, fiber.StatusNotFound, "Image not found", be.Code, be.Error())
			case "INVALID_PATH":
				return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid file path", be.Code, be.Error())
			}
		}
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to download image", "DOWNLOAD_FAILED", nil)
	}

	if contentType != "" {
		c.Set("Content-Type", contentType)
	}
	c.Set("Content-Disposition", "inline; filename="+filename)
	return c.Send(data)
}

// Preview serves a thumbnail of a stored image.
// @Summary Preview image
// @Description Return a resized thumbnail for a stored pasted image
// @Tags Images
// @Produce image/jpeg
// @Param uuid path string true "Image UUID"
// @Success 200 {string} string "Thumbnail image"
// @Failure 400 {object} dto.APIResponse "Invalid request"
// @Failure 404 {object} dto.APIResponse "Not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/images/{uuid}/preview [get]
func (h *ImageHandler) Preview(c fiber.Ctx) error {
	imageUUID := c.Params("uuid")
	if imageUUID == "" {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid uuid", "INVALID_UUID", nil)
	}

	filename, contentType, data, err := h.flow.PreviewPastedImage(h.createRequestContext(c, "/api/images/{uuid}/preview"), imageUUID)
	if err != nil {
		if be, ok := err.(*businessflow.BusinessError); ok {
			switch be.Code {
			case "INVALID_UUID":
				return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid uuid", be.Code, be.Error())
			case "IMAGE_NOT_FOUND":
				return h.ErrorResponse(c, fiber.StatusNotFound, "Image not found", be.Code, be.Error())
			case "INVALID_PATH":
				return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid file path", be.Code, be.Error())
			}
		}
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to generate preview", "PREVIEW_FAILED", nil)
	}

	if contentType != "" {
		c.Set("Content-Type", contentType)
	}
	c.Set("Content-Disposition", "inline; filename="+filename)
	return c.Send(data)
}

func (h *ImageHandler) createRequestContext(c fiber.Ctx, endpoint string) context.Context {
	return h.createRequestContextWithTimeout(c, endpoint, 30*time.Second)
}

func (h *ImageHandler) createRequestContextWithTimeout(c fiber.Ctx, endpoint string, timeout time.Duration) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	ctx = context.WithValue(ctx, utils.RequestIDKey, c.Get("X-Request-ID"))
	ctx = context.WithValue(ctx, utils.UserAgentKey, c.Get("User-Agent"))
	ctx = context.WithValue(ctx, utils.IPAddressKey, c.IP())
	ctx = context.WithValue(ctx, utils.EndpointKey, endpoint)
	ctx = context.WithValue(ctx, utils.TimeoutKey, timeout)
	ctx = context.WithValue(ctx, utils.CancelFuncKey, cancel)
	if clientID, ok := c.Locals("client_id").(uint); ok && clientID != 0 {
		ctx = context.WithValue(ctx, utils.ClientIDKey, clientID)
	}
	return ctx
}
