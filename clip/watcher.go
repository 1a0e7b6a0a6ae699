package clip

import (
	"context"
	"log/slog"
	"sync"
)

// Watcher ties a clipboard backend to an uploader: every clipboard change
// that carries an image gets posted to the server. Non-image clipboard
// contents are ignored without touching the network, and a denied permission
// state means the clipboard is never read at all.
type Watcher struct {
	backend  Backend
	uploader *Uploader
	logger   *slog.Logger

	// OnSuccess runs after each accepted upload with the public image URL.
	OnSuccess func(result *UploadResult)
	// OnError runs when an upload fails. Capture failures never reach it.
	OnError func(err error)

	wg sync.WaitGroup
}

// NewWatcher builds a watcher. logger may be nil, in which case slog's
// default logger is used.
func NewWatcher(backend Backend, uploader *Uploader, logger *slog.Logger) *Watcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{
		backend:  backend,
		uploader: uploader,
		logger:   logger,
	}
}

// Run watches the clipboard until ctx is done. It blocks; cancel the context
// to stop. In-flight uploads are waited for before Run returns.
func (w *Watcher) Run(ctx context.Context) error {
	state := w.backend.Permission()
	if state == PermissionPrompt {
		state = w.backend.RequestPermission()
	}
	if state == PermissionDenied {
		w.logger.Warn("clipboard access denied, nothing to watch",
			slog.String("backend", w.backend.Name()))
		return nil
	}

	w.logger.Info("watching clipboard for images",
		slog.String("backend", w.backend.Name()))

	events := w.backend.Watch(ctx)
	for {
		select {
		case <-ctx.Done():
			w.wg.Wait()
			return ctx.Err()
		case _, ok := <-events:
			if !ok {
				w.wg.Wait()
				return nil
			}
			w.handleChange(ctx)
		}
	}
}

// handleChange reads the clipboard once and uploads any image found. Capture
// failures are logged and swallowed so one bad read does not stop the watch.
func (w *Watcher) handleChange(ctx context.Context) {
	if w.backend.Permission() == PermissionDenied {
		return
	}

	content, err := w.backend.ReadImage()
	if err != nil {
		// Capture failures stay local to the watcher. Only upload failures
		// reach OnError.
		w.logger.Debug("clipboard read failed", slog.String("error", err.Error()))
		return
	}
	if content == nil {
		// Clipboard changed but holds no image.
		return
	}

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		result, err := w.uploader.Upload(ctx, content)
		if err != nil {
			w.logger.Error("image upload failed", slog.String("error", err.Error()))
			w.reportError(err)
			return
		}
		w.logger.Info("image uploaded",
			slog.String("url", result.ImageURL),
			slog.Int64("size_bytes", result.SizeBytes))
		if w.OnSuccess != nil {
			w.OnSuccess(result)
		}
	}()
}

func (w *Watcher) reportError(err error) {
	if w.OnError != nil {
		w.OnError(err)
	}
}
