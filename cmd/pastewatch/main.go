// Command pastewatch watches the system clipboard and uploads every copied
// image to a PastePoint server, printing the public URL for each one.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pastepoint/pastepoint/clip"
)

func main() {
	var (
		serverURL = flag.String("server", envOr("PASTEWATCH_SERVER", "http://localhost:8080"), "PastePoint server base URL")
		apiKey    = flag.String("api-key", envOr("PASTEWATCH_API_KEY", ""), "API key for servers with upload auth enabled")
		timeout   = flag.Duration("timeout", 30*time.Second, "per-upload HTTP timeout")
		verbose   = flag.Bool("verbose", false, "enable debug logging")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	backend := clip.NewSystemBackend()
	if backend.Permission() == clip.PermissionDenied {
		logger.Error("clipboard unavailable on this system")
		os.Exit(1)
	}

	uploader := clip.NewUploader(*serverURL, *apiKey, &http.Client{Timeout: *timeout})

	watcher := clip.NewWatcher(backend, uploader, logger)
	watcher.OnSuccess = func(result *clip.UploadResult) {
		fmt.Println(result.ImageURL)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := watcher.Run(ctx); err != nil && err != context.Canceled {
		logger.Error("watcher stopped", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
