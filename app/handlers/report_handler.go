// Package handlers contains HTTP request handlers and presentation layer logic for the API endpoints
package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/pastepoint/pastepoint/app/dto"
	businessflow "github.com/pastepoint/pastepoint/business_flow"
	"github.com/pastepoint/pastepoint/utils"
)

// ReportHandlerInterface defines the contract for report handlers.
type ReportHandlerInterface interface {
	ExportImages(c fiber.Ctx) error
}

// ReportHandler serves operator-facing exports of stored image metadata.
type ReportHandler struct {
	flow businessflow.ReportFlow
}

// NewReportHandler creates a new report handler.
func NewReportHandler(flow businessflow.ReportFlow) *ReportHandler {
	return &ReportHandler{flow: flow}
}

func (h *ReportHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: &dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

// ExportImages exports stored image metadata as an Excel workbook.
// @Summary Export images report
// @Description Export stored image metadata as xlsx, optionally bounded by created_after/created_before (RFC3339)
// @Tags Reports
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param created_after query string false "RFC3339 lower bound"
// @Param created_before query string false "RFC3339 upper bound"
// @Success 200 {string} string "Excel file"
// @Failure 400 {object} dto.APIResponse "Invalid request"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/images/report [get]
func (h *ReportHandler) ExportImages(c fiber.Ctx) error {
	var createdAfter, createdBefore *time.Time

	if raw := c.Query("created_after"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "created_after must be RFC3339", "VALIDATION_ERROR", err.Error())
		}
		createdAfter = &t
	}
	if raw := c.Query("created_before"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "created_before must be RFC3339", "VALIDATION_ERROR", err.Error())
		}
		createdBefore = &t
	}

	filename, data, err := h.flow.ExportImagesExcel(h.createRequestContext(c, "/api/images/report"), createdAfter, createdBefore)
	if err != nil {
		if be, ok := err.(*businessflow.BusinessError); ok {
			switch be.Code {
			case "VALIDATION_ERROR":
				return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", be.Code, be.Error())
			case "EXCEL_WRITE_ERROR":
				return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to write Excel file", be.Code, nil)
			}
		}
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to export report", "REPORT_FAILED", nil)
	}

	c.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set("Content-Disposition", "attachment; filename="+filename)
	return c.Send(data)
}

func (h *ReportHandler) createRequestContext(c fiber.Ctx, endpoint string) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	ctx = context.WithValue(ctx, utils.RequestIDKey, c.Get("X-Request-ID"))
	ctx = context.WithValue(ctx, utils.UserAgentKey, c.Get("User-Agent"))
	ctx = context.WithValue(ctx, utils.IPAddressKey, c.IP())
	ctx = context.WithValue(ctx, utils.EndpointKey, endpoint)
	ctx = context.WithValue(ctx, utils.CancelFuncKey, cancel)
	return ctx
}
