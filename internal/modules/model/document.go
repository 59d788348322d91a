package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Document is the envelope: the stable identity of a document across all of
// its versions. VersionSeq is the last ordering key handed out for it.
type Document struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	WorkspaceID uuid.UUID `gorm:"type:uuid;not null;index" json:"workspace_id"`
	Title       string    `gorm:"type:text;not null;default:''" json:"title"`
	VersionSeq  int64     `gorm:"not null;default:0" json:"version_seq"`

	CreatedAt time.Time `gorm:"autoCreateTime;not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime;not null;default:CURRENT_TIMESTAMP" json:"updated_at"`

	// Document <-> Workspace
	Workspace *Workspace `gorm:"foreignKey:WorkspaceID;references:ID;constraint:OnDelete:CASCADE,OnUpdate:CASCADE;" json:"-"`
}

func (Document) TableName() string { return "documents" }

func (d *Document) BeforeCreate(tx *gorm.DB) error {
	ensureID(&d.ID)
	return nil
}

// DocumentVersion is a self-contained snapshot. VersionNumber is the ordering
// key: the row with the highest number for a document is its latest version.
type DocumentVersion struct {
	ID            uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	DocumentID    uuid.UUID         `gorm:"type:uuid;not null;index;uniqueIndex:uq_document_version_number,priority:1" json:"document_id"`
	VersionNumber int64             `gorm:"not null;uniqueIndex:uq_document_version_number,priority:2" json:"version_number"`
	Content       string            `gorm:"type:text;not null" json:"content"`
	Punchlist     *string           `gorm:"type:text" json:"punchlist"`
	Metadata      datatypes.JSONMap `gorm:"type:jsonb" swaggertype:"object" json:"metadata"`
	AuthorID      uuid.UUID         `gorm:"type:uuid;not null;index" json:"author_id"`

	// SessionID records which session produced the row. Not a foreign key:
	// session cleanup never touches history.
	SessionID *uuid.UUID `gorm:"type:uuid;index" json:"session_id"`

	CreatedAt time.Time `gorm:"autoCreateTime;not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime;not null;default:CURRENT_TIMESTAMP" json:"updated_at"`

	// DocumentVersion <-> Document
	Document *Document `gorm:"foreignKey:DocumentID;references:ID;constraint:OnDelete:CASCADE,OnUpdate:CASCADE;" json:"-"`
}

func (DocumentVersion) TableName() string { return "document_versions" }

func (v *DocumentVersion) BeforeCreate(tx *gorm.DB) error {
	ensureID(&v.ID)
	return nil
}
