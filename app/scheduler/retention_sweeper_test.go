package scheduler

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pastepoint/pastepoint/config"
	"github.com/pastepoint/pastepoint/models"
	"github.com/pastepoint/pastepoint/utils"
	"github.com/stretchr/testify/assert"
)

type sweeperRepo struct {
	images []*models.PastedImage
}

func (r *sweeperRepo) ByID(ctx context.Context, id uint) (*models.PastedImage, error) {
	return nil, nil
}

func (r *sweeperRepo) ByFilter(ctx context.Context, filter models.PastedImageFilter, orderBy string, limit, offset int) ([]*models.PastedImage, error) {
	return nil, nil
}

func (r *sweeperRepo) Save(ctx context.Context, entity *models.PastedImage) error { return nil }

func (r *sweeperRepo) Delete(ctx context.Context, id uint) error {
	for i, img := range r.images {
		if img.ID == id {
			r.images = append(r.images[:i], r.images[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *sweeperRepo) Count(ctx context.Context, filter models.PastedImageFilter) (int64, error) {
	return int64(len(r.images)), nil
}

func (r *sweeperRepo) Exists(ctx context.Context, filter models.PastedImageFilter) (bool, error) {
	return len(r.images) > 0, nil
}

func (r *sweeperRepo) ByUUID(ctx context.Context, id string) (*models.PastedImage, error) {
	return nil, nil
}

func (r *sweeperRepo) ListCreatedBefore(ctx context.Context, cutoff time.Time, limit int) ([]*models.PastedImage, error) {
	var out []*models.PastedImage
	for _, img := range r.images {
		if img.CreatedAt.Before(cutoff) {
			out = append(out, img)
		}
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

type sweeperStorage struct {
	mu      sync.Mutex
	deleted []string
}

func (s *sweeperStorage) Save(ctx context.Context, objectName string, content io.Reader) (string, error) {
	return "", nil
}

func (s *sweeperStorage) Load(ctx context.Context, storedPath string) (io.ReadCloser, error) {
	return nil, nil
}

func (s *sweeperStorage) Delete(ctx context.Context, storedPath string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleted = append(s.deleted, storedPath)
	return nil
}

func (s *sweeperStorage) deleteCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.deleted)
}

func testImage(id uint, age time.Duration) *models.PastedImage {
	return &models.PastedImage{
		ID:         id,
		UUID:       uuid.New(),
		StoredPath: "2026/08/30/obj" + uuid.NewString(),
		CreatedAt:  utils.UTCNow().Add(-age),
	}
}

func TestRetentionSweeper_RemovesOnlyExpiredImages(t *testing.T) {
	repo := &sweeperRepo{
		images: []*models.PastedImage{
			testImage(1, 72*time.Hour),
			testImage(2, time.Minute),
			testImage(3, 48*time.Hour),
		},
	}
	storage := &sweeperStorage{}

	sweeper := NewRetentionSweeper(repo, storage, config.RetentionConfig{
		Enabled:   true,
		MaxAge:    24 * time.Hour,
		BatchSize: 10,
	}, nil)

	sweeper.runOnce(context.Background())

	// The fresh image survives, both expired ones are gone.
	assert.Len(t, repo.images, 1)
	assert.Equal(t, uint(2), repo.images[0].ID)
	assert.Equal(t, 2, storage.deleteCount())
}

func TestRetentionSweeper_NothingExpired(t *testing.T) {
	repo := &sweeperRepo{images: []*models.PastedImage{testImage(1, time.Minute)}}
	storage := &sweeperStorage{}

	sweeper := NewRetentionSweeper(repo, storage, config.RetentionConfig{
		Enabled: true,
		MaxAge:  24 * time.Hour,
	}, nil)

	sweeper.runOnce(context.Background())

	assert.Len(t, repo.images, 1)
	assert.Equal(t, 0, storage.deleteCount())
}

func TestRetentionSweeper_StartAndCancel(t *testing.T) {
	repo := &sweeperRepo{images: []*models.PastedImage{testImage(1, 48 * time.Hour)}}
	storage := &sweeperStorage{}

	sweeper := NewRetentionSweeper(repo, storage, config.RetentionConfig{
		Enabled:       true,
		MaxAge:        24 * time.Hour,
		SweepInterval: time.Hour,
	}, nil)

	cancel := sweeper.Start(context.Background())
	defer cancel()

	// The initial sweep runs before the first tick.
	assert.Eventually(t, func() bool {
		return storage.deleteCount() == 1
	}, 2*time.Second, 10*time.Millisecond)
}
