package clip

import (
	"context"

	"golang.design/x/clipboard"
)

// SystemBackend reads the OS clipboard through golang.design/x/clipboard.
// On X11 this needs a running display; on macOS and Windows it talks to the
// native pasteboard directly. Image reads always yield PNG bytes because the
// underlying library re-encodes whatever bitmap format the clipboard holds.
type SystemBackend struct {
	initErr error
}

// NewSystemBackend initializes the platform clipboard. Initialization failure
// is not an error here; it surfaces as a denied permission state so callers
// follow the same code path as a user refusing access.
func NewSystemBackend() *SystemBackend {
	return &SystemBackend{initErr: clipboard.Init()}
}

// Name returns the backend name.
func (b *SystemBackend) Name() string {
	return "system"
}

// Permission reports granted when the clipboard initialized, denied otherwise.
func (b *SystemBackend) Permission() PermissionState {
	if b.initErr != nil {
		return PermissionDenied
	}
	return PermissionGranted
}

// RequestPermission retries initialization once. The platform library has no
// interactive prompt, so a failed init stays denied.
func (b *SystemBackend) RequestPermission() PermissionState {
	if b.initErr != nil {
		b.initErr = clipboard.Init()
	}
	return b.Permission()
}

// ReadImage returns the clipboard image as PNG, or nil when the clipboard
// holds no image data.
func (b *SystemBackend) ReadImage() (*ImageContent, error) {
	if b.initErr != nil {
		return nil, b.initErr
	}
	raw := clipboard.Read(clipboard.FmtImage)
	if len(raw) == 0 {
		return nil, nil
	}
	return &ImageContent{RawBytes: raw, MimeType: "image/png"}, nil
}

// Watch signals on every clipboard image change until ctx is done.
func (b *SystemBackend) Watch(ctx context.Context) <-chan struct{} {
	out := make(chan struct{}, 1)
	if b.initErr != nil {
		close(out)
		return out
	}
	ch := clipboard.Watch(ctx, clipboard.FmtImage)
	go func() {
		defer close(out)
		for range ch {
			select {
			case out <- struct{}{}:
			default:
			}
		}
	}()
	return out
}
