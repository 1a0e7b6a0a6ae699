// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"time"

	"github.com/pastepoint/pastepoint/models"
)

// RepositoryContext key for transaction in context
type contextKey string

const TxContextKey contextKey = "tx"

type Repository[T any, F any] interface {
	ByID(ctx context.Context, id uint) (*T, error)
	ByFilter(ctx context.Context, filter F, orderBy string, limit, offset int) ([]*T, error)
	Save(ctx context.Context, entity *T) error
	Delete(ctx context.Context, id uint) error
	Count(ctx context.Context, filter F) (int64, error)
	Exists(ctx context.Context, filter F) (bool, error)
}

// PastedImageRepository defines operations for stored pasted images
type PastedImageRepository interface {
	Repository[models.PastedImage, models.PastedImageFilter]
	ByUUID(ctx context.Context, uuid string) (*models.PastedImage, error)
	ListCreatedBefore(ctx context.Context, cutoff time.Time, limit int) ([]*models.PastedImage, error)
}
