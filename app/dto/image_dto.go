package dto

import "io"

// SavePastedImageRequest contains upload details passed from handler to flow.
// File is the multipart part body; FileSize is the declared part size which is
// checked before any bytes are read.
type SavePastedImageRequest struct {
	ClientID         *uint     `json:"-"`
	OriginalFilename string    `json:"-" validate:"required"`
	FileSize         int64     `json:"-" validate:"gt=0"`
	ContentType      string    `json:"-"`
	File             io.Reader `json:"-"`
}

// SavePastedImageResponse is the wire contract for a successful paste upload.
// The client reads the imageUrl field by exactly that name; the casing is
// pinned by tests on both sides.
type SavePastedImageResponse struct {
	ImageURL  string `json:"imageUrl"`
	UUID      string `json:"uuid"`
	SizeBytes int64  `json:"sizeBytes"`
	MimeType  string `json:"mimeType"`
	CreatedAt string `json:"createdAt"`
}

// PastedImageDTO describes a stored image in listing/report responses.
type PastedImageDTO struct {
	UUID             string `json:"uuid"`
	OriginalFilename string `json:"original_filename"`
	SizeBytes        int64  `json:"size_bytes"`
	MimeType         string `json:"mime_type"`
	Extension        string `json:"extension"`
	ImageURL         string `json:"imageUrl"`
	CreatedAt        string `json:"created_at"`
}
