package repo

import (
	"context"

	"github.com/google/uuid"
	"github.com/memodb-io/docledger/internal/modules/model"
	"gorm.io/gorm"
)

type WorkspaceRepo interface {
	Create(ctx context.Context, w *model.Workspace) error
	Get(ctx context.Context, workspaceID uuid.UUID) (*model.Workspace, error)
	GetOwned(ctx context.Context, workspaceID uuid.UUID, ownerID uuid.UUID) (*model.Workspace, error)
	SoftDelete(ctx context.Context, workspaceID uuid.UUID, ownerID uuid.UUID) error
}

type workspaceRepo struct{ db *gorm.DB }

func NewWorkspaceRepo(db *gorm.DB) WorkspaceRepo {
	return &workspaceRepo{db: db}
}

func (r *workspaceRepo) Create(ctx context.Context, w *model.Workspace) error {
	return r.db.WithContext(ctx).Create(w).Error
}

func (r *workspaceRepo) Get(ctx context.Context, workspaceID uuid.UUID) (*model.Workspace, error) {
	var w model.Workspace
	if err := r.db.WithContext(ctx).Where("id = ?", workspaceID).First(&w).Error; err != nil {
		return nil, err
	}
	return &w, nil
}

// GetOwned returns the workspace only if ownerID owns it and it is not soft
// deleted. Any mismatch is reported as gorm.ErrRecordNotFound.
func (r *workspaceRepo) GetOwned(ctx context.Context, workspaceID uuid.UUID, ownerID uuid.UUID) (*model.Workspace, error) {
	var w model.Workspace
	err := r.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", workspaceID, ownerID).
		First(&w).Error
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *workspaceRepo) SoftDelete(ctx context.Context, workspaceID uuid.UUID, ownerID uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", workspaceID, ownerID).
		Delete(&model.Workspace{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
