package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/memodb-io/docledger/internal/modules/model"
	"gorm.io/gorm"
)

type SessionRepo interface {
	Create(ctx context.Context, s *model.Session) error
	Get(ctx context.Context, sessionID uuid.UUID) (*model.Session, error)
	Bind(ctx context.Context, sessionID uuid.UUID, versionID uuid.UUID) error
	ClearBindingsForDocument(ctx context.Context, documentID uuid.UUID) error
}

type sessionRepo struct{ db *gorm.DB }

func NewSessionRepo(db *gorm.DB) SessionRepo {
	return &sessionRepo{db: db}
}

func (r *sessionRepo) Create(ctx context.Context, s *model.Session) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *sessionRepo) Get(ctx context.Context, sessionID uuid.UUID) (*model.Session, error) {
	var s model.Session
	if err := r.db.WithContext(ctx).Where("id = ?", sessionID).First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

// Bind points the session at versionID. The caller must have written the
// version in the same transaction or earlier.
func (r *sessionRepo) Bind(ctx context.Context, sessionID uuid.UUID, versionID uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Model(&model.Session{}).
		Where("id = ?", sessionID).
		Updates(map[string]interface{}{
			"bound_version_id": versionID,
			"updated_at":       time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ClearBindingsForDocument unbinds every session revising one of the
// document's versions, ahead of deleting those versions.
func (r *sessionRepo) ClearBindingsForDocument(ctx context.Context, documentID uuid.UUID) error {
	versionIDs := r.db.WithContext(ctx).
		Model(&model.DocumentVersion{}).
		Select("id").
		Where("document_id = ?", documentID)

	return r.db.WithContext(ctx).
		Model(&model.Session{}).
		Where("bound_version_id IN (?)", versionIDs).
		Updates(map[string]interface{}{
			"bound_version_id": nil,
			"updated_at":       time.Now(),
		}).Error
}
