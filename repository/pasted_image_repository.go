package repository

import (
	"context"
	"time"

	"github.com/pastepoint/pastepoint/models"
	"github.com/pastepoint/pastepoint/utils"
	"gorm.io/gorm"
)

// PastedImageRepositoryImpl implements PastedImageRepository interface.
type PastedImageRepositoryImpl struct {
	*BaseRepository[models.PastedImage, models.PastedImageFilter]
}

// NewPastedImageRepository creates a new pasted image repository.
func NewPastedImageRepository(db *gorm.DB) PastedImageRepository {
	return &PastedImageRepositoryImpl{
		BaseRepository: NewBaseRepository[models.PastedImage, models.PastedImageFilter](db),
	}
}

// ByUUID retrieves a pasted image by UUID.
func (r *PastedImageRepositoryImpl) ByUUID(ctx context.Context, uuidStr string) (*models.PastedImage, error) {
	parsed, err := utils.ParseUUID(uuidStr)
	if err != nil {
		return nil, err
	}
	rows, err := r.ByFilter(ctx, models.PastedImageFilter{UUID: &parsed}, "", 1, 0)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

// ListCreatedBefore returns images older than the cutoff, oldest first.
func (r *PastedImageRepositoryImpl) ListCreatedBefore(ctx context.Context, cutoff time.Time, limit int) ([]*models.PastedImage, error) {
	return r.ByFilter(ctx, models.PastedImageFilter{CreatedBefore: &cutoff}, "id ASC", limit, 0)
}

// applyFilter applies filter criteria to a GORM query.
func (r *PastedImageRepositoryImpl) applyFilter(query *gorm.DB, filter models.PastedImageFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.UUID != nil {
		query = query.Where("uuid = ?", *filter.UUID)
	}
	if filter.ClientID != nil {
		query = query.Where("client_id = ?", *filter.ClientID)
	}
	if filter.Extension != nil {
		query = query.Where("extension = ?", *filter.Extension)
	}
	if filter.CreatedAfter != nil {
		query = query.Where("created_at > ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		query = query.Where("created_at < ?", *filter.CreatedBefore)
	}
	return query
}

// ByFilter retrieves pasted images based on filter criteria.
func (r *PastedImageRepositoryImpl) ByFilter(ctx context.Context, filter models.PastedImageFilter, orderBy string, limit, offset int) ([]*models.PastedImage, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.PastedImage{})

	query = r.applyFilter(query, filter)

	if orderBy == "" {
		orderBy = "id DESC"
	}
	query = query.Order(orderBy)

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var rows []*models.PastedImage
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Count returns number of pasted images matching filter.
func (r *PastedImageRepositoryImpl) Count(ctx context.Context, filter models.PastedImageFilter) (int64, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.PastedImage{})
	query = r.applyFilter(query, filter)
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Exists checks if any pasted image matches the filter.
func (r *PastedImageRepositoryImpl) Exists(ctx context.Context, filter models.PastedImageFilter) (bool, error) {
	c, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return c > 0, nil
}
