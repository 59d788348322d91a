package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/memodb-io/docledger/internal/modules/model"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type VersionRepo interface {
	Create(ctx context.Context, v *model.DocumentVersion) error
	Get(ctx context.Context, versionID uuid.UUID) (*model.DocumentVersion, error)
	GetOwned(ctx context.Context, versionID uuid.UUID, ownerID uuid.UUID) (*model.DocumentVersion, error)
	Latest(ctx context.Context, documentID uuid.UUID) (*model.DocumentVersion, error)
	LatestForDocuments(ctx context.Context, documentIDs []uuid.UUID) (map[uuid.UUID]model.DocumentVersion, error)
	ListByDocument(ctx context.Context, documentID uuid.UUID) ([]model.DocumentVersion, error)
	ListByDocumentWithCursor(ctx context.Context, documentID uuid.UUID, beforeNumber int64, limit int) ([]model.DocumentVersion, error)
	Count(ctx context.Context, documentID uuid.UUID) (int64, error)
	UpdateContent(ctx context.Context, versionID uuid.UUID, content string, metadata datatypes.JSONMap) error
	UpdatePunchlist(ctx context.Context, versionID uuid.UUID, punchlist string) error
	DeleteByDocument(ctx context.Context, documentID uuid.UUID) error
}

type versionRepo struct{ db *gorm.DB }

func NewVersionRepo(db *gorm.DB) VersionRepo {
	return &versionRepo{db: db}
}

func (r *versionRepo) Create(ctx context.Context, v *model.DocumentVersion) error {
	return r.db.WithContext(ctx).Create(v).Error
}

func (r *versionRepo) Get(ctx context.Context, versionID uuid.UUID) (*model.DocumentVersion, error) {
	var v model.DocumentVersion
	if err := r.db.WithContext(ctx).Where("id = ?", versionID).First(&v).Error; err != nil {
		return nil, err
	}
	return &v, nil
}

// GetOwned resolves version -> envelope -> workspace -> owner in one query.
func (r *versionRepo) GetOwned(ctx context.Context, versionID uuid.UUID, ownerID uuid.UUID) (*model.DocumentVersion, error) {
	var v model.DocumentVersion
	err := r.db.WithContext(ctx).
		Select("document_versions.*").
		Joins("JOIN documents ON documents.id = document_versions.document_id").
		Joins("JOIN workspaces ON workspaces.id = documents.workspace_id").
		Where("document_versions.id = ?", versionID).
		Where("workspaces.owner_id = ? AND workspaces.soft_deleted_at IS NULL", ownerID).
		First(&v).Error
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// Latest returns the version with the highest ordering key, or
// gorm.ErrRecordNotFound when the document has none.
func (r *versionRepo) Latest(ctx context.Context, documentID uuid.UUID) (*model.DocumentVersion, error) {
	var v model.DocumentVersion
	err := r.db.WithContext(ctx).
		Where("document_id = ?", documentID).
		Order("version_number DESC").
		Limit(1).
		Take(&v).Error
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// LatestForDocuments fetches the latest version of every given document in a
// single query, keyed by document id. Documents without versions are absent.
func (r *versionRepo) LatestForDocuments(ctx context.Context, documentIDs []uuid.UUID) (map[uuid.UUID]model.DocumentVersion, error) {
	out := make(map[uuid.UUID]model.DocumentVersion, len(documentIDs))
	if len(documentIDs) == 0 {
		return out, nil
	}

	latest := r.db.WithContext(ctx).
		Model(&model.DocumentVersion{}).
		Select("document_id, MAX(version_number) AS max_version").
		Where("document_id IN ?", documentIDs).
		Group("document_id")

	var items []model.DocumentVersion
	err := r.db.WithContext(ctx).
		Select("document_versions.*").
		Joins("JOIN (?) AS latest ON latest.document_id = document_versions.document_id AND latest.max_version = document_versions.version_number", latest).
		Find(&items).Error
	if err != nil {
		return nil, err
	}

	for _, v := range items {
		out[v.DocumentID] = v
	}
	return out, nil
}

func (r *versionRepo) ListByDocument(ctx context.Context, documentID uuid.UUID) ([]model.DocumentVersion, error) {
	var items []model.DocumentVersion
	err := r.db.WithContext(ctx).
		Where("document_id = ?", documentID).
		Order("version_number DESC").
		Find(&items).Error
	return items, err
}

// ListByDocumentWithCursor pages newest-first. beforeNumber <= 0 starts at
// the latest version.
func (r *versionRepo) ListByDocumentWithCursor(ctx context.Context, documentID uuid.UUID, beforeNumber int64, limit int) ([]model.DocumentVersion, error) {
	q := r.db.WithContext(ctx).Where("document_id = ?", documentID)
	if beforeNumber > 0 {
		q = q.Where("version_number < ?", beforeNumber)
	}

	var items []model.DocumentVersion
	return items, q.Order("version_number DESC").Limit(limit).Find(&items).Error
}

func (r *versionRepo) Count(ctx context.Context, documentID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.DocumentVersion{}).
		Where("document_id = ?", documentID).
		Count(&count).Error
	return count, err
}

// UpdateContent rewrites content in place. metadata is replaced only when
// non-nil. The ordering key is never touched.
func (r *versionRepo) UpdateContent(ctx context.Context, versionID uuid.UUID, content string, metadata datatypes.JSONMap) error {
	updates := map[string]interface{}{
		"content":    content,
		"updated_at": time.Now(),
	}
	if metadata != nil {
		updates["metadata"] = metadata
	}
	return r.updateFields(ctx, versionID, updates)
}

func (r *versionRepo) UpdatePunchlist(ctx context.Context, versionID uuid.UUID, punchlist string) error {
	return r.updateFields(ctx, versionID, map[string]interface{}{
		"punchlist":  punchlist,
		"updated_at": time.Now(),
	})
}

func (r *versionRepo) updateFields(ctx context.Context, versionID uuid.UUID, updates map[string]interface{}) error {
	res := r.db.WithContext(ctx).
		Model(&model.DocumentVersion{}).
		Where("id = ?", versionID).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *versionRepo) DeleteByDocument(ctx context.Context, documentID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("document_id = ?", documentID).
		Delete(&model.DocumentVersion{}).Error
}
