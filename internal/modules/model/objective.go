package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Objective struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	WorkspaceID uuid.UUID  `gorm:"type:uuid;not null;index" json:"workspace_id"`
	Title       string     `gorm:"type:text;not null;default:''" json:"title"`
	DocumentID  *uuid.UUID `gorm:"type:uuid;uniqueIndex:uq_objective_document_id" json:"document_id"`

	CreatedAt time.Time `gorm:"autoCreateTime;not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime;not null;default:CURRENT_TIMESTAMP" json:"updated_at"`

	// Objective <-> Workspace
	Workspace *Workspace `gorm:"foreignKey:WorkspaceID;references:ID;constraint:OnDelete:CASCADE,OnUpdate:CASCADE;" json:"-"`

	// Objective <-> Document (0..1)
	Document *Document `gorm:"foreignKey:DocumentID;references:ID;constraint:OnDelete:SET NULL,OnUpdate:CASCADE;" json:"-"`
}

func (Objective) TableName() string { return "objectives" }

func (o *Objective) BeforeCreate(tx *gorm.DB) error {
	ensureID(&o.ID)
	return nil
}
