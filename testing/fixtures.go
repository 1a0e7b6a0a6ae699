// Package testing provides test utilities and database setup for testing the image store
package testing

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"math/rand"

	"github.com/google/uuid"
	"github.com/pastepoint/pastepoint/models"
	"github.com/pastepoint/pastepoint/utils"
)

// pngPixelBase64 is a valid 1x1 PNG, decodable by image/png.
const pngPixelBase64 = "iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mP8z8BQDwAEhQGAhKmMIQAAAABJRU5ErkJggg=="

// gifPixelBase64 is a valid 1x1 GIF89a.
const gifPixelBase64 = "R0lGODlhAQABAIAAAAUEBAAAACwAAAAAAQABAAACAkQBADs="

// PNGPixel returns a fully decodable one-pixel PNG.
func PNGPixel() []byte {
	raw, err := base64.StdEncoding.DecodeString(pngPixelBase64)
	if err != nil {
		panic(err)
	}
	return raw
}

// GIFPixel returns a fully decodable one-pixel GIF.
func GIFPixel() []byte {
	raw, err := base64.StdEncoding.DecodeString(gifPixelBase64)
	if err != nil {
		panic(err)
	}
	return raw
}

// JPEGHeader returns bytes carrying the JPEG magic number followed by filler.
// Enough for signature checks, not decodable.
func JPEGHeader(totalLen int) []byte {
	return padded([]byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F'}, totalLen)
}

// WEBPHeader returns bytes carrying the RIFF/WEBP magic numbers followed by filler.
func WEBPHeader(totalLen int) []byte {
	head := append([]byte("RIFF"), 0x24, 0x00, 0x00, 0x00)
	head = append(head, []byte("WEBP")...)
	return padded(head, totalLen)
}

// BMPHeader returns bytes carrying the BMP magic number followed by filler.
func BMPHeader(totalLen int) []byte {
	return padded([]byte{0x42, 0x4D}, totalLen)
}

// PNGSized returns a blob with the PNG magic number padded with filler bytes
// up to totalLen. Useful for size-limit tests where decodability is irrelevant.
func PNGSized(totalLen int) []byte {
	return padded([]byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}, totalLen)
}

func padded(head []byte, totalLen int) []byte {
	if totalLen <= len(head) {
		return head
	}
	return append(head, bytes.Repeat([]byte{0xAB}, totalLen-len(head))...)
}

// TestFixtures provides helper methods for creating test data
type TestFixtures struct {
	DB *TestDB
}

// NewTestFixtures creates a new test fixtures instance
func NewTestFixtures(db *TestDB) *TestFixtures {
	return &TestFixtures{DB: db}
}

// CreateTestImage inserts a pasted image row with plausible defaults.
func (tf *TestFixtures) CreateTestImage(ext string) (*models.PastedImage, error) {
	id := uuid.New()
	image := &models.PastedImage{
		UUID:             id,
		OriginalFilename: fmt.Sprintf("pastedImage.%s", ext),
		StoredPath:       fmt.Sprintf("2026/08/30/%s.%s", id, ext),
		SizeBytes:        int64(rand.Intn(100000) + 100),
		MimeType:         fmt.Sprintf("image/%s", ext),
		Extension:        ext,
		ImageURL:         fmt.Sprintf("http://localhost:8080/api/images/%s", id),
		CreatedAt:        utils.UTCNow(),
		UpdatedAt:        utils.UTCNow(),
	}

	if err := tf.DB.DB.Create(image).Error; err != nil {
		return nil, fmt.Errorf("failed to create test image: %w", err)
	}
	return image, nil
}
