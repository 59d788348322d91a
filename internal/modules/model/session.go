package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Session is a conversational session working on an objective. BoundVersionID
// points at the version it is currently revising; the pointer only ever goes
// from session to version.
type Session struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	ObjectiveID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"objective_id"`
	BoundVersionID *uuid.UUID `gorm:"type:uuid;index" json:"bound_version_id"`

	CreatedAt time.Time `gorm:"autoCreateTime;not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime;not null;default:CURRENT_TIMESTAMP" json:"updated_at"`

	// Session <-> Objective
	Objective *Objective `gorm:"foreignKey:ObjectiveID;references:ID;constraint:OnDelete:CASCADE,OnUpdate:CASCADE;" json:"-"`

	// Session -> DocumentVersion
	BoundVersion *DocumentVersion `gorm:"foreignKey:BoundVersionID;references:ID;constraint:OnDelete:SET NULL,OnUpdate:CASCADE;" json:"-"`
}

func (Session) TableName() string { return "sessions" }

func (s *Session) BeforeCreate(tx *gorm.DB) error {
	ensureID(&s.ID)
	return nil
}

// All returns every model in migration order.
func All() []interface{} {
	return []interface{}{
		&Workspace{},
		&Document{},
		&Objective{},
		&DocumentVersion{},
		&Session{},
	}
}
