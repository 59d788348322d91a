package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/memodb-io/docledger/internal/modules/model"
	"gorm.io/gorm"
)

type DocumentRepo interface {
	Create(ctx context.Context, d *model.Document) error
	Get(ctx context.Context, documentID uuid.UUID) (*model.Document, error)
	GetOwned(ctx context.Context, documentID uuid.UUID, ownerID uuid.UUID) (*model.Document, error)
	ListByIDs(ctx context.Context, documentIDs []uuid.UUID) ([]model.Document, error)
	NextVersionNumber(ctx context.Context, documentID uuid.UUID) (int64, error)
	Touch(ctx context.Context, documentID uuid.UUID) error
	Delete(ctx context.Context, documentID uuid.UUID) error
}

type documentRepo struct{ db *gorm.DB }

func NewDocumentRepo(db *gorm.DB) DocumentRepo {
	return &documentRepo{db: db}
}

func (r *documentRepo) Create(ctx context.Context, d *model.Document) error {
	return r.db.WithContext(ctx).Create(d).Error
}

func (r *documentRepo) Get(ctx context.Context, documentID uuid.UUID) (*model.Document, error) {
	var d model.Document
	if err := r.db.WithContext(ctx).Where("id = ?", documentID).First(&d).Error; err != nil {
		return nil, err
	}
	return &d, nil
}

// GetOwned resolves envelope -> workspace -> owner. Soft-deleted workspaces
// and foreign owners both yield gorm.ErrRecordNotFound.
func (r *documentRepo) GetOwned(ctx context.Context, documentID uuid.UUID, ownerID uuid.UUID) (*model.Document, error) {
	var d model.Document
	err := r.db.WithContext(ctx).
		Select("documents.*").
		Joins("JOIN workspaces ON workspaces.id = documents.workspace_id").
		Where("documents.id = ?", documentID).
		Where("workspaces.owner_id = ? AND workspaces.soft_deleted_at IS NULL", ownerID).
		First(&d).Error
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *documentRepo) ListByIDs(ctx context.Context, documentIDs []uuid.UUID) ([]model.Document, error) {
	var items []model.Document
	if len(documentIDs) == 0 {
		return items, nil
	}
	return items, r.db.WithContext(ctx).Where("id IN ?", documentIDs).Find(&items).Error
}

// NextVersionNumber advances the envelope's counter and returns the new value.
// The UPDATE holds the envelope row lock until the surrounding transaction
// ends, so concurrent writers to one document are handed distinct, increasing
// numbers and observe each other's committed versions.
func (r *documentRepo) NextVersionNumber(ctx context.Context, documentID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&model.Document{}).
		Where("id = ?", documentID).
		Updates(map[string]interface{}{
			"version_seq": gorm.Expr("version_seq + 1"),
			"updated_at":  time.Now(),
		})
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		return 0, gorm.ErrRecordNotFound
	}

	var seq int64
	err := r.db.WithContext(ctx).
		Model(&model.Document{}).
		Select("version_seq").
		Where("id = ?", documentID).
		Scan(&seq).Error
	return seq, err
}

// Touch bumps updated_at after an in-place version mutation.
func (r *documentRepo) Touch(ctx context.Context, documentID uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Model(&model.Document{}).
		Where("id = ?", documentID).
		Update("updated_at", time.Now())
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *documentRepo) Delete(ctx context.Context, documentID uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", documentID).Delete(&model.Document{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
