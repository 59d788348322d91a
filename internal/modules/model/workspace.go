package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Workspace is the tenant boundary. Soft deletion hides it from every
// ownership-gated read and write but leaves its documents in place.
type Workspace struct {
	ID       uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	OwnerID  uuid.UUID  `gorm:"type:uuid;not null;index" json:"owner_id"`
	DomainID *uuid.UUID `gorm:"type:uuid;index" json:"domain_id"`
	Name     string     `gorm:"type:text;not null;default:''" json:"name"`

	CreatedAt     time.Time      `gorm:"autoCreateTime;not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"autoUpdateTime;not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
	SoftDeletedAt gorm.DeletedAt `gorm:"column:soft_deleted_at;index" swaggertype:"string" json:"-"`
}

func (Workspace) TableName() string { return "workspaces" }

func (w *Workspace) BeforeCreate(tx *gorm.DB) error {
	ensureID(&w.ID)
	return nil
}

// ensureID assigns a random UUID when the caller did not choose one.
func ensureID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}
