package models

import (
	"time"

	"sportfund/internal/uuid"

	"gorm.io/gorm"
)

// Base carries the columns of mutable tables. Rows are soft-deleted so
// athletes, goals and purchase requests keep their history.
type Base struct {
	ID        string         `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

// BeforeCreate assigns a UUIDv7 unless the caller supplied an ID.
func (b *Base) BeforeCreate(tx *gorm.DB) error {
	assignID(&b.ID)
	return nil
}

// AppendOnly carries the columns of history tables (feed entries, stats
// snapshots). Rows are written once and never updated or deleted.
type AppendOnly struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
}

// BeforeCreate assigns a UUIDv7 unless the caller supplied an ID.
func (r *AppendOnly) BeforeCreate(tx *gorm.DB) error {
	assignID(&r.ID)
	return nil
}

func assignID(id *string) {
	if *id == "" {
		*id = uuid.New()
	}
}
