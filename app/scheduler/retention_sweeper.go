// Package scheduler
package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/pastepoint/pastepoint/app/services"
	"github.com/pastepoint/pastepoint/config"
	"github.com/pastepoint/pastepoint/repository"
	"github.com/pastepoint/pastepoint/utils"
)

// RetentionSweeper periodically removes pasted images older than the
// configured retention age, deleting both the stored bytes and the row.
type RetentionSweeper struct {
	imageRepo repository.PastedImageRepository
	storage   services.StorageService
	cfg       config.RetentionConfig
	logger    *log.Logger
}

func NewRetentionSweeper(
	imageRepo repository.PastedImageRepository,
	storage services.StorageService,
	cfg config.RetentionConfig,
	logger *log.Logger,
) *RetentionSweeper {
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = time.Hour
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 100
	}
	if logger == nil {
		logger = log.Default()
	}
	return &RetentionSweeper{
		imageRepo: imageRepo,
		storage:   storage,
		cfg:       cfg,
		logger:    logger,
	}
}

// Start launches the sweep loop and returns a cancel function.
func (s *RetentionSweeper) Start(parent context.Context) func() {
	ctx, cancel := context.WithCancel(parent)

	go func() {
		ticker := time.NewTicker(s.cfg.SweepInterval)
		defer ticker.Stop()

		s.runOnce(ctx)

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.runOnce(ctx)
			}
		}
	}()

	return cancel
}

func (s *RetentionSweeper) runOnce(ctx context.Context) {
	cutoff := utils.UTCNowAdd(-s.cfg.MaxAge)

	removed := 0
	for {
		images, err := s.imageRepo.ListCreatedBefore(ctx, cutoff, s.cfg.BatchSize)
		if err != nil {
			s.logger.Printf("sweeper: failed to list expired images: %v", err)
			return
		}
		if len(images) == 0 {
			break
		}

		progressed := false
		for _, img := range images {
			if ctx.Err() != nil {
				return
			}
			if err := s.storage.Delete(ctx, img.StoredPath); err != nil {
				s.logger.Printf("sweeper: failed to delete stored bytes for %s: %v", img.UUID, err)
				continue
			}
			if err := s.imageRepo.Delete(ctx, img.ID); err != nil {
				s.logger.Printf("sweeper: failed to delete row for %s: %v", img.UUID, err)
				continue
			}
			removed++
			progressed = true
		}

		// A batch where nothing could be deleted would repeat forever.
		if !progressed || len(images) < s.cfg.BatchSize {
			break
		}
	}

	if removed > 0 {
		s.logger.Printf("sweeper: removed %d expired images older than %s", removed, cutoff.Format(time.RFC3339))
	}
}
