package clip

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBackend is a scriptable clipboard for watcher tests.
type fakeBackend struct {
	permission PermissionState
	content    *ImageContent
	readErr    error
	events     chan struct{}

	readCalls int32
}

func (b *fakeBackend) Name() string { return "fake" }

func (b *fakeBackend) Permission() PermissionState { return b.permission }

func (b *fakeBackend) RequestPermission() PermissionState {
	if b.permission == PermissionPrompt {
		b.permission = PermissionGranted
	}
	return b.permission
}

func (b *fakeBackend) ReadImage() (*ImageContent, error) {
	atomic.AddInt32(&b.readCalls, 1)
	if b.readErr != nil {
		return nil, b.readErr
	}
	return b.content, nil
}

func (b *fakeBackend) Watch(ctx context.Context) <-chan struct{} {
	out := make(chan struct{})
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-b.events:
				if !ok {
					return
				}
				out <- ev
			}
		}
	}()
	return out
}

func newUploadCounterServer(t *testing.T, requests *int32) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(requests, 1)
		json.NewEncoder(w).Encode(map[string]any{"imageUrl": "http://server/api/images/ok"})
	}))
}

func TestWatcher_UploadsImageOnChange(t *testing.T) {
	var requests int32
	server := newUploadCounterServer(t, &requests)
	defer server.Close()

	backend := &fakeBackend{
		permission: PermissionGranted,
		content:    &ImageContent{RawBytes: []byte{0x89, 0x50, 0x4E, 0x47}, MimeType: "image/png"},
		events:     make(chan struct{}, 1),
	}

	watcher := NewWatcher(backend, NewUploader(server.URL, "", server.Client()), nil)

	success := make(chan *UploadResult, 1)
	watcher.OnSuccess = func(result *UploadResult) { success <- result }

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		watcher.Run(ctx)
	}()

	backend.events <- struct{}{}

	select {
	case result := <-success:
		assert.Equal(t, "http://server/api/images/ok", result.ImageURL)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for upload")
	}

	cancel()
	<-done
	assert.Equal(t, int32(1), atomic.LoadInt32(&requests))
}

func TestWatcher_NonImageContentSkipsNetwork(t *testing.T) {
	var requests int32
	server := newUploadCounterServer(t, &requests)
	defer server.Close()

	// Clipboard changes but never holds an image.
	backend := &fakeBackend{
		permission: PermissionGranted,
		content:    nil,
		events:     make(chan struct{}),
	}

	watcher := NewWatcher(backend, NewUploader(server.URL, "", server.Client()), nil)

	done := make(chan struct{})
	go func() {
		defer close(done)
		watcher.Run(context.Background())
	}()

	backend.events <- struct{}{}
	backend.events <- struct{}{}
	// Closing the event stream drains the watcher deterministically.
	close(backend.events)
	<-done

	// Both reads happened, no upload was attempted.
	assert.Equal(t, int32(2), atomic.LoadInt32(&backend.readCalls))
	assert.Equal(t, int32(0), atomic.LoadInt32(&requests))
}

func TestWatcher_ReadFailureStaysSilent(t *testing.T) {
	var requests int32
	server := newUploadCounterServer(t, &requests)
	defer server.Close()

	// Every clipboard read fails. The watcher must keep going without
	// touching the network or the error callback.
	backend := &fakeBackend{
		permission: PermissionGranted,
		readErr:    errors.New("clipboard locked by another process"),
		events:     make(chan struct{}),
	}

	watcher := NewWatcher(backend, NewUploader(server.URL, "", server.Client()), nil)

	var failures int32
	watcher.OnError = func(err error) { atomic.AddInt32(&failures, 1) }

	done := make(chan struct{})
	go func() {
		defer close(done)
		watcher.Run(context.Background())
	}()

	backend.events <- struct{}{}
	backend.events <- struct{}{}
	close(backend.events)
	<-done

	assert.Equal(t, int32(2), atomic.LoadInt32(&backend.readCalls))
	assert.Equal(t, int32(0), atomic.LoadInt32(&failures))
	assert.Equal(t, int32(0), atomic.LoadInt32(&requests))
}

func TestWatcher_DeniedPermissionNeverReads(t *testing.T) {
	backend := &fakeBackend{
		permission: PermissionDenied,
		content:    &ImageContent{RawBytes: []byte{1}, MimeType: "image/png"},
		events:     make(chan struct{}, 1),
	}

	watcher := NewWatcher(backend, NewUploader("http://unused", "", nil), nil)

	err := watcher.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(0), atomic.LoadInt32(&backend.readCalls))
}

func TestWatcher_PromptPermissionIsRequested(t *testing.T) {
	var requests int32
	server := newUploadCounterServer(t, &requests)
	defer server.Close()

	backend := &fakeBackend{
		permission: PermissionPrompt,
		content:    &ImageContent{RawBytes: []byte{0x89, 0x50, 0x4E, 0x47}, MimeType: "image/png"},
		events:     make(chan struct{}, 1),
	}

	watcher := NewWatcher(backend, NewUploader(server.URL, "", server.Client()), nil)

	success := make(chan *UploadResult, 1)
	watcher.OnSuccess = func(result *UploadResult) { success <- result }

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		watcher.Run(ctx)
	}()

	backend.events <- struct{}{}

	select {
	case <-success:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for upload")
	}

	cancel()
	<-done
	assert.Equal(t, PermissionGranted, backend.Permission())
}

func TestWatcher_UploadFailureReported(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"code": "INVALID_FORMAT"},
		})
	}))
	defer server.Close()

	backend := &fakeBackend{
		permission: PermissionGranted,
		content:    &ImageContent{RawBytes: []byte{1, 2, 3}, MimeType: "image/png"},
		events:     make(chan struct{}, 1),
	}

	watcher := NewWatcher(backend, NewUploader(server.URL, "", server.Client()), nil)

	failures := make(chan error, 1)
	watcher.OnError = func(err error) { failures <- err }

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		watcher.Run(ctx)
	}()

	backend.events <- struct{}{}

	select {
	case err := <-failures:
		var uerr *UploadError
		require.ErrorAs(t, err, &uerr)
		assert.Equal(t, "INVALID_FORMAT", uerr.Code)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for upload failure")
	}

	cancel()
	<-done
}
