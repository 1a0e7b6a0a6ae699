// Package models contains the persistent entities of the paste upload service.
package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/pastepoint/pastepoint/utils"
	"gorm.io/gorm"
)

// PastedImage represents one accepted clipboard-paste upload stored on disk.
type PastedImage struct {
	ID               uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UUID             uuid.UUID `gorm:"type:uuid;uniqueIndex;not null;default:gen_random_uuid()" json:"uuid"`
	ClientID         *uint     `gorm:"index" json:"client_id,omitempty"`
	OriginalFilename string    `gorm:"type:varchar(255);not null" json:"original_filename"`
	StoredPath       string    `gorm:"type:text;not null" json:"stored_path"`
	SizeBytes        int64     `gorm:"type:bigint;not null" json:"size_bytes"`
	MimeType         string    `gorm:"type:varchar(100);not null" json:"mime_type"`
	Extension        string    `gorm:"type:varchar(20);not null" json:"extension"`
	ImageURL         string    `gorm:"type:text;not null" json:"imageUrl"`
	CreatedAt        time.Time `gorm:"not null;default:CURRENT_TIMESTAMP;index" json:"created_at"`
	UpdatedAt        time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (PastedImage) TableName() string { return "pasted_images" }

// BeforeCreate ensures UUID and timestamps are set.
func (p *PastedImage) BeforeCreate(tx *gorm.DB) error {
	if p.UUID == uuid.Nil {
		p.UUID = uuid.New()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = utils.UTCNow()
	}
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = utils.UTCNow()
	}
	return nil
}

// PastedImageFilter represents filter criteria for pasted image queries.
type PastedImageFilter struct {
	ID            *uint      `json:"id,omitempty"`
	UUID          *uuid.UUID `json:"uuid,omitempty"`
	ClientID      *uint      `json:"client_id,omitempty"`
	Extension     *string    `json:"extension,omitempty"`
	CreatedAfter  *time.Time `json:"created_after,omitempty"`
	CreatedBefore *time.Time `json:"created_before,omitempty"`
}
