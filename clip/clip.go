// Package clip captures images from the system clipboard and uploads them to
// a PastePoint server. Backend abstracts the platform clipboard so the watch
// and upload logic stays testable without a real display server.
package clip

import "context"

// PermissionState describes clipboard access from the platform's point of view.
type PermissionState string

const (
	// PermissionGranted means the clipboard can be read.
	PermissionGranted PermissionState = "granted"
	// PermissionPrompt means access has not been decided yet; a request may
	// resolve it either way.
	PermissionPrompt PermissionState = "prompt"
	// PermissionDenied means the clipboard must not be read.
	PermissionDenied PermissionState = "denied"
)

// ImageContent is one image captured from the clipboard.
type ImageContent struct {
	RawBytes []byte
	MimeType string
}

// Backend is the platform clipboard. Implementations must be safe for use
// from a single watcher goroutine.
type Backend interface {
	// Name returns a human-readable name for the backend.
	Name() string

	// Permission reports the current access state without prompting.
	Permission() PermissionState

	// RequestPermission resolves a prompt state. It returns the resulting
	// state, which is never PermissionPrompt.
	RequestPermission() PermissionState

	// ReadImage returns the current clipboard image, or nil when the
	// clipboard holds no image. It must not be called when permission is
	// denied.
	ReadImage() (*ImageContent, error)

	// Watch signals whenever the clipboard contents change. The channel
	// closes when ctx is done.
	Watch(ctx context.Context) <-chan struct{}
}
