package clip

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/pastepoint/pastepoint/utils"
)

const defaultUploadTimeout = 30 * time.Second

// UploadResult is the server's answer for an accepted image.
type UploadResult struct {
	ImageURL  string `json:"imageUrl"`
	UUID      string `json:"uuid"`
	SizeBytes int64  `json:"sizeBytes"`
	MimeType  string `json:"mimeType"`
	CreatedAt string `json:"createdAt"`
}

type uploadErrorEnvelope struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// UploadError is a rejection from the server, carrying its error code.
type UploadError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *UploadError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("upload rejected (%s): %s", e.Code, e.Message)
	}
	return fmt.Sprintf("upload failed with status %d", e.StatusCode)
}

// Uploader posts captured clipboard images to a PastePoint server.
type Uploader struct {
	baseURL string
	client  *http.Client
	apiKey  string
}

// NewUploader builds an uploader for the given server base URL. apiKey may be
// empty when the server runs without upload authentication.
func NewUploader(baseURL, apiKey string, client *http.Client) *Uploader {
	if client == nil {
		client = &http.Client{Timeout: defaultUploadTimeout}
	}
	return &Uploader{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  client,
		apiKey:  apiKey,
	}
}

// Upload sends one image as a multipart form and returns the server's result.
func (u *Uploader) Upload(ctx context.Context, content *ImageContent) (*UploadResult, error) {
	if content == nil || len(content.RawBytes) == 0 {
		return nil, fmt.Errorf("no image content to upload")
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile(utils.PastedImageFieldName, uploadFilename(content.MimeType))
	if err != nil {
		return nil, fmt.Errorf("failed to build multipart form: %w", err)
	}
	if _, err := part.Write(content.RawBytes); err != nil {
		return nil, fmt.Errorf("failed to write image bytes: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize multipart form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.baseURL+"/api/images/paste/save", &body)
	if err != nil {
		return nil, fmt.Errorf("failed to build upload request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if u.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+u.apiKey)
	}

	resp, err := u.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upload request failed: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read upload response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		uerr := &UploadError{StatusCode: resp.StatusCode}
		var envelope uploadErrorEnvelope
		if json.Unmarshal(payload, &envelope) == nil {
			uerr.Code = envelope.Error.Code
			uerr.Message = envelope.Error.Message
		}
		return nil, uerr
	}

	var result UploadResult
	if err := json.Unmarshal(payload, &result); err != nil {
		return nil, fmt.Errorf("failed to decode upload response: %w", err)
	}
	if result.ImageURL == "" {
		return nil, fmt.Errorf("upload response missing image URL")
	}
	return &result, nil
}

// uploadFilename derives a form filename from the mime type so the server's
// extension check lines up with the content.
func uploadFilename(mimeType string) string {
	ext := ".png"
	if exts, err := mime.ExtensionsByType(mimeType); err == nil && len(exts) > 0 {
		ext = exts[len(exts)-1]
	}
	return utils.PastedImageFieldName + ext
}
