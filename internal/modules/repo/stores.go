package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

var (
	// ErrDocumentAlreadyBound is returned when an objective already points at a document.
	ErrDocumentAlreadyBound = errors.New("objective already has a document")
)

// Stores groups the per-table stores bound to the same connection. Inside
// Transaction every store shares one *gorm.DB transaction handle, so the
// orchestrator can compose them without leaking partial writes.
type Stores struct {
	db *gorm.DB

	Workspaces WorkspaceRepo
	Objectives ObjectiveRepo
	Documents  DocumentRepo
	Versions   VersionRepo
	Sessions   SessionRepo
}

func NewStores(db *gorm.DB) *Stores {
	return &Stores{
		db:         db,
		Workspaces: NewWorkspaceRepo(db),
		Objectives: NewObjectiveRepo(db),
		Documents:  NewDocumentRepo(db),
		Versions:   NewVersionRepo(db),
		Sessions:   NewSessionRepo(db),
	}
}

// Transaction runs fn with stores bound to a single transaction. A non-nil
// error from fn, a panic, or a cancelled ctx rolls everything back.
func (s *Stores) Transaction(ctx context.Context, fn func(tx *Stores) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStores(tx))
	})
}
