// Package services provides external service integrations and technical concerns like storage and tokens
package services

import (
	"bytes"
	"path/filepath"
	"strings"
)

// SignatureService decides whether file content is consistent with the format
// claimed by its filename extension. Implementations must be stateless and
// safe for concurrent use.
type SignatureService interface {
	// Matches reports true only if the filename's extension is in the
	// accepted set AND the leading bytes of content carry that extension's
	// magic-byte signature. The declared extension is never trusted alone.
	Matches(filename string, content []byte, accepted []string) bool

	// KnownFormats returns the extensions the signature table recognizes.
	KnownFormats() []string
}

// signaturePart is one fixed byte run at a fixed offset. A signature matches
// when every part matches; multi-part signatures cover container formats such
// as WEBP (RIFF....WEBP).
type signaturePart struct {
	offset int
	bytes  []byte
}

type signature []signaturePart

func (s signature) match(content []byte) bool {
	for _, part := range s {
		end := part.offset + len(part.bytes)
		if end > len(content) {
			return false
		}
		if !bytes.Equal(content[part.offset:end], part.bytes) {
			return false
		}
	}
	return true
}

// FileSignatureService implements SignatureService with a fixed table of
// recognized image formats. The table is immutable for the process lifetime.
type FileSignatureService struct {
	table map[string][]signature
}

// NewFileSignatureService creates a signature service with the default image
// format table.
func NewFileSignatureService() *FileSignatureService {
	return &FileSignatureService{table: defaultSignatureTable()}
}

func defaultSignatureTable() map[string][]signature {
	png := signature{{offset: 0, bytes: []byte{0x89, 0x50, 0x4E, 0x47}}}
	jpeg := signature{{offset: 0, bytes: []byte{0xFF, 0xD8, 0xFF}}}
	gif := signature{{offset: 0, bytes: []byte{0x47, 0x49, 0x46, 0x38}}}
	webp := signature{
		{offset: 0, bytes: []byte{0x52, 0x49, 0x46, 0x46}},
		{offset: 8, bytes: []byte{0x57, 0x45, 0x42, 0x50}},
	}
	bmp := signature{{offset: 0, bytes: []byte{0x42, 0x4D}}}

	return map[string][]signature{
		"png":  {png},
		"jpg":  {jpeg},
		"jpeg": {jpeg},
		"gif":  {gif},
		"webp": {webp},
		"bmp":  {bmp},
	}
}

// Matches implements SignatureService.
func (s *FileSignatureService) Matches(filename string, content []byte, accepted []string) bool {
	ext := normalizeExtension(filepath.Ext(filename))
	if ext == "" {
		return false
	}

	inAccepted := false
	for _, a := range accepted {
		if normalizeExtension(a) == ext {
			inAccepted = true
			break
		}
	}
	if !inAccepted {
		return false
	}

	sigs, known := s.table[ext]
	if !known {
		return false
	}
	for _, sig := range sigs {
		if sig.match(content) {
			return true
		}
	}
	return false
}

// KnownFormats implements SignatureService.
func (s *FileSignatureService) KnownFormats() []string {
	formats := make([]string, 0, len(s.table))
	for ext := range s.table {
		formats = append(formats, ext)
	}
	return formats
}

func normalizeExtension(ext string) string {
	return strings.TrimPrefix(strings.ToLower(strings.TrimSpace(ext)), ".")
}
