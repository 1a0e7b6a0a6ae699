package clip

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUploader_Upload(t *testing.T) {
	var gotPath, gotField, gotFilename string
	var gotBytes []byte

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path

		file, header, err := r.FormFile("pastedImage")
		require.NoError(t, err)
		defer file.Close()

		gotField = "pastedImage"
		gotFilename = header.Filename
		gotBytes, err = io.ReadAll(file)
		require.NoError(t, err)

		json.NewEncoder(w).Encode(map[string]any{
			"imageUrl":  "http://server/api/images/abc",
			"uuid":      "abc",
			"sizeBytes": header.Size,
			"mimeType":  "image/png",
			"createdAt": "2026-08-30T12:00:00Z",
		})
	}))
	defer server.Close()

	uploader := NewUploader(server.URL, "", server.Client())
	content := &ImageContent{RawBytes: []byte{0x89, 0x50, 0x4E, 0x47}, MimeType: "image/png"}

	result, err := uploader.Upload(context.Background(), content)
	require.NoError(t, err)

	assert.Equal(t, "/api/images/paste/save", gotPath)
	assert.Equal(t, "pastedImage", gotField)
	assert.Equal(t, "pastedImage.png", gotFilename)
	assert.Equal(t, content.RawBytes, gotBytes)
	assert.Equal(t, "http://server/api/images/abc", result.ImageURL)
	assert.Equal(t, "abc", result.UUID)
}

func TestUploader_UploadRejection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]any{
			"success": false,
			"message": "File too large",
			"error": map[string]any{
				"code":    "FILE_TOO_LARGE",
				"details": "file size exceeds the maximum of 2097152 bytes",
			},
		})
	}))
	defer server.Close()

	uploader := NewUploader(server.URL, "", server.Client())

	_, err := uploader.Upload(context.Background(), &ImageContent{RawBytes: []byte{1}, MimeType: "image/png"})
	require.Error(t, err)

	var uerr *UploadError
	require.ErrorAs(t, err, &uerr)
	assert.Equal(t, http.StatusBadRequest, uerr.StatusCode)
	assert.Equal(t, "FILE_TOO_LARGE", uerr.Code)
}

func TestUploader_SendsAPIKey(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(map[string]any{"imageUrl": "http://server/api/images/x"})
	}))
	defer server.Close()

	uploader := NewUploader(server.URL, "secret-key", server.Client())

	_, err := uploader.Upload(context.Background(), &ImageContent{RawBytes: []byte{1}, MimeType: "image/png"})
	require.NoError(t, err)
	assert.Equal(t, "Bearer secret-key", gotAuth)
}

func TestUploader_EmptyContent(t *testing.T) {
	uploader := NewUploader("http://unused", "", nil)

	_, err := uploader.Upload(context.Background(), nil)
	assert.Error(t, err)

	_, err = uploader.Upload(context.Background(), &ImageContent{})
	assert.Error(t, err)
}

func TestUploader_ResponseMissingURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"uuid": "abc"})
	}))
	defer server.Close()

	uploader := NewUploader(server.URL, "", server.Client())

	_, err := uploader.Upload(context.Background(), &ImageContent{RawBytes: []byte{1}, MimeType: "image/png"})
	assert.Error(t, err)
}
