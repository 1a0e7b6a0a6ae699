// Package handlers contains HTTP request handlers and presentation layer logic for the API endpoints
package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/pastepoint/pastepoint/app/dto"
	businessflow "github.com/pastepoint/pastepoint/business_flow"
	"github.com/pastepoint/pastepoint/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeImageFlow returns canned results so handler behavior can be tested in
// isolation from storage and the database.
type fakeImageFlow struct {
	saveResp *dto.SavePastedImageResponse
	saveErr  error

	downloadData []byte
	downloadErr  error

	lastRequest  *dto.SavePastedImageRequest
	lastMetadata *businessflow.ClientMetadata
}

func (f *fakeImageFlow) SavePastedImage(ctx context.Context, req *dto.SavePastedImageRequest, metadata *businessflow.ClientMetadata) (*dto.SavePastedImageResponse, error) {
	f.lastRequest = req
	f.lastMetadata = metadata
	if f.saveErr != nil {
		return nil, f.saveErr
	}
	return f.saveResp, nil
}

func (f *fakeImageFlow) DownloadPastedImage(ctx context.Context, imageUUID string) (string, string, []byte, error) {
	if f.downloadErr != nil {
		return "", "", nil, f.downloadErr
	}
	return imageUUID + ".png", "image/png", f.downloadData, nil
}

func (f *fakeImageFlow) PreviewPastedImage(ctx context.Context, imageUUID string) (string, string, []byte, error) {
	if f.downloadErr != nil {
		return "", "", nil, f.downloadErr
	}
	return "preview.jpg", "image/jpeg", f.downloadData, nil
}

func newImageTestApp(flow businessflow.ImageFlow) *fiber.App {
	app := fiber.New()
	handler := NewImageHandler(flow)
	app.Post("/api/images/paste/save", handler.SavePastedImage)
	app.Get("/api/images/submit", handler.Submit)
	app.Get("/api/images/:uuid", handler.Download)
	app.Get("/api/images/:uuid/preview", handler.Preview)
	return app
}

func multipartImageBody(t *testing.T, fieldName, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile(fieldName, filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func TestSavePastedImageHandler_Success(t *testing.T) {
	flow := &fakeImageFlow{
		saveResp: &dto.SavePastedImageResponse{
			ImageURL:  "http://localhost:8080/api/images/abc-123",
			UUID:      "abc-123",
			SizeBytes: 42,
			MimeType:  "image/png",
			CreatedAt: "2026-08-30T12:00:00Z",
		},
	}
	app := newImageTestApp(flow)

	body, contentType := multipartImageBody(t, utils.PastedImageFieldName, "pastedImage.png", []byte("fake"))
	req := httptest.NewRequest("POST", "/api/images/paste/save", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("X-Request-ID", "req-789")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	// The success body is flat JSON carrying imageUrl at the top level.
	assert.Contains(t, string(raw), `"imageUrl"`)

	var parsed map[string]any
	require.NoError(t, json.Unmarshal(raw, &parsed))
	assert.Equal(t, "http://localhost:8080/api/images/abc-123", parsed["imageUrl"])
	assert.NotContains(t, parsed, "success")

	// Handler passes the multipart metadata through to the flow.
	require.NotNil(t, flow.lastRequest)
	assert.Equal(t, "pastedImage.png", flow.lastRequest.OriginalFilename)
	assert.Equal(t, int64(4), flow.lastRequest.FileSize)

	// Client metadata carries the request ID and original filename for audit.
	require.NotNil(t, flow.lastMetadata)
	assert.Equal(t, "req-789", flow.lastMetadata.RequestID)
	assert.Equal(t, "pastedImage.png", flow.lastMetadata.Additional["original_filename"])
}

func TestSavePastedImageHandler_MissingFileField(t *testing.T) {
	app := newImageTestApp(&fakeImageFlow{})

	body, contentType := multipartImageBody(t, "wrongField", "a.png", []byte("x"))
	req := httptest.NewRequest("POST", "/api/images/paste/save", body)
	req.Header.Set("Content-Type", contentType)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var parsed dto.APIResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&parsed))
	assert.False(t, parsed.Success)
	require.NotNil(t, parsed.Error)
	assert.Equal(t, "INVALID_FILE", parsed.Error.Code)
}

func TestSavePastedImageHandler_BusinessErrors(t *testing.T) {
	tests := []struct {
		name     string
		flowErr  error
		wantCode string
	}{
		{
			name:     "file too large",
			flowErr:  businessflow.NewBusinessErrorf("FILE_TOO_LARGE", "file size exceeds the maximum of %d bytes", businessflow.ErrFileTooLarge, 2097152),
			wantCode: "FILE_TOO_LARGE",
		},
		{
			name:     "invalid format",
			flowErr:  businessflow.NewBusinessError("INVALID_FORMAT", "accepted image formats: png, jpg", businessflow.ErrInvalidFormat),
			wantCode: "INVALID_FORMAT",
		},
		{
			name:     "invalid request",
			flowErr:  businessflow.NewBusinessError("INVALID_REQUEST", "file is required", businessflow.ErrFileRequired),
			wantCode: "INVALID_REQUEST",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newImageTestApp(&fakeImageFlow{saveErr: tt.flowErr})

			body, contentType := multipartImageBody(t, utils.PastedImageFieldName, "pastedImage.png", []byte("x"))
			req := httptest.NewRequest("POST", "/api/images/paste/save", body)
			req.Header.Set("Content-Type", contentType)

			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

			var parsed dto.APIResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&parsed))
			assert.False(t, parsed.Success)
			require.NotNil(t, parsed.Error)
			assert.Equal(t, tt.wantCode, parsed.Error.Code)
		})
	}
}

func TestSavePastedImageHandler_UnexpectedFlowError(t *testing.T) {
	app := newImageTestApp(&fakeImageFlow{saveErr: assert.AnError})

	body, contentType := multipartImageBody(t, utils.PastedImageFieldName, "pastedImage.png", []byte("x"))
	req := httptest.NewRequest("POST", "/api/images/paste/save", body)
	req.Header.Set("Content-Type", contentType)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
}

func TestSubmitHandler(t *testing.T) {
	app := newImageTestApp(&fakeImageFlow{})

	resp, err := app.Test(httptest.NewRequest("GET", "/api/images/submit", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "Submitted", string(raw))
}

func TestDownloadHandler(t *testing.T) {
	content := []byte{0x89, 0x50, 0x4E, 0x47, 1, 2, 3}
	app := newImageTestApp(&fakeImageFlow{downloadData: content})

	resp, err := app.Test(httptest.NewRequest("GET", "/api/images/abc-123", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "abc-123.png")

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, content, raw)
}

func TestDownloadHandler_NotFound(t *testing.T) {
	app := newImageTestApp(&fakeImageFlow{
		downloadErr: businessflow.NewBusinessError("IMAGE_NOT_FOUND", "image not found", businessflow.ErrImageNotFound),
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/api/images/missing", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	var parsed dto.APIResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&parsed))
	require.NotNil(t, parsed.Error)
	assert.Equal(t, "IMAGE_NOT_FOUND", parsed.Error.Code)
}

func TestPreviewHandler(t *testing.T) {
	app := newImageTestApp(&fakeImageFlow{downloadData: []byte{0xFF, 0xD8, 0xFF}})

	resp, err := app.Test(httptest.NewRequest("GET", "/api/images/abc-123/preview", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/jpeg", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "preview.jpg")
}
