package services

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// StorageService persists uploaded image bytes and serves them back by the
// stored path recorded in the database. Stored paths are always relative and
// slash-separated so database rows stay portable across hosts.
type StorageService interface {
	// Save streams content to durable storage under a date-partitioned path
	// derived from objectName and returns the stored path.
	Save(ctx context.Context, objectName string, content io.Reader) (string, error)

	// Load opens previously stored content. The caller must close the reader.
	Load(ctx context.Context, storedPath string) (io.ReadCloser, error)

	// Delete removes stored content. Deleting a missing object is not an error.
	Delete(ctx context.Context, storedPath string) error
}

// LocalDiskStorage stores objects on the local filesystem under a base
// directory. Paths follow YYYY/MM/DD partitioning so retention sweeps and
// manual inspection stay tractable.
type LocalDiskStorage struct {
	baseDir string
	now     func() time.Time
}

// NewLocalDiskStorage creates a disk-backed storage service rooted at baseDir.
func NewLocalDiskStorage(baseDir string) (*LocalDiskStorage, error) {
	abs, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve storage directory: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &LocalDiskStorage{baseDir: abs, now: time.Now}, nil
}

// Save implements StorageService.
func (s *LocalDiskStorage) Save(ctx context.Context, objectName string, content io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	name := sanitizeObjectName(objectName)
	if name == "" {
		return "", fmt.Errorf("invalid object name %q", objectName)
	}

	partition := s.now().UTC().Format("2006/01/02")
	storedPath := partition + "/" + name

	fullPath := filepath.Join(s.baseDir, filepath.FromSlash(storedPath))
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return "", fmt.Errorf("failed to create partition directory: %w", err)
	}

	f, err := os.OpenFile(fullPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("failed to create object file: %w", err)
	}
	if _, err := io.Copy(f, content); err != nil {
		f.Close()
		os.Remove(fullPath)
		return "", fmt.Errorf("failed to write object content: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(fullPath)
		return "", fmt.Errorf("failed to flush object content: %w", err)
	}
	return storedPath, nil
}

// Load implements StorageService.
func (s *LocalDiskStorage) Load(ctx context.Context, storedPath string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	fullPath, err := s.resolve(storedPath)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open stored object: %w", err)
	}
	return f, nil
}

// Delete implements StorageService.
func (s *LocalDiskStorage) Delete(ctx context.Context, storedPath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	fullPath, err := s.resolve(storedPath)
	if err != nil {
		return err
	}
	if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete stored object: %w", err)
	}
	return nil
}

// resolve maps a stored path back to an absolute path and rejects anything
// that would escape the base directory.
func (s *LocalDiskStorage) resolve(storedPath string) (string, error) {
	cleaned := filepath.Clean(filepath.FromSlash(storedPath))
	if cleaned == "." || filepath.IsAbs(cleaned) || strings.HasPrefix(cleaned, "..") {
		return "", fmt.Errorf("invalid stored path %q", storedPath)
	}
	return filepath.Join(s.baseDir, cleaned), nil
}

// sanitizeObjectName strips directory components and any character outside a
// conservative allowlist so user-supplied filenames can never influence the
// on-disk layout.
func sanitizeObjectName(objectName string) string {
	base := filepath.Base(filepath.FromSlash(objectName))
	var b strings.Builder
	for _, r := range base {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == '-' || r == '_':
			b.WriteRune(r)
		}
	}
	out := strings.Trim(b.String(), ".")
	if out == "" || out == "." || out == ".." {
		return ""
	}
	return out
}
