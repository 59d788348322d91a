package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/memodb-io/docledger/internal/modules/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ObjectiveRepo interface {
	Create(ctx context.Context, o *model.Objective) error
	Get(ctx context.Context, objectiveID uuid.UUID) (*model.Objective, error)
	GetForUpdate(ctx context.Context, objectiveID uuid.UUID, workspaceID uuid.UUID) (*model.Objective, error)
	GetByDocumentID(ctx context.Context, documentID uuid.UUID) (*model.Objective, error)
	SetDocumentID(ctx context.Context, objectiveID uuid.UUID, documentID uuid.UUID) error
	ClearDocumentID(ctx context.Context, documentID uuid.UUID) error
	ListWithDocuments(ctx context.Context, workspaceID uuid.UUID, objectiveID *uuid.UUID) ([]model.Objective, error)
}

type objectiveRepo struct{ db *gorm.DB }

func NewObjectiveRepo(db *gorm.DB) ObjectiveRepo {
	return &objectiveRepo{db: db}
}

func (r *objectiveRepo) Create(ctx context.Context, o *model.Objective) error {
	return r.db.WithContext(ctx).Create(o).Error
}

func (r *objectiveRepo) Get(ctx context.Context, objectiveID uuid.UUID) (*model.Objective, error) {
	var o model.Objective
	if err := r.db.WithContext(ctx).Where("id = ?", objectiveID).First(&o).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

// GetForUpdate loads the objective with a row lock so that two callers racing
// to create its first document serialise here.
func (r *objectiveRepo) GetForUpdate(ctx context.Context, objectiveID uuid.UUID, workspaceID uuid.UUID) (*model.Objective, error) {
	var o model.Objective
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ? AND workspace_id = ?", objectiveID, workspaceID).
		First(&o).Error
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *objectiveRepo) GetByDocumentID(ctx context.Context, documentID uuid.UUID) (*model.Objective, error) {
	var o model.Objective
	if err := r.db.WithContext(ctx).Where("document_id = ?", documentID).First(&o).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

// SetDocumentID binds a document to an objective that has none. It returns
// ErrDocumentAlreadyBound if another document got there first.
func (r *objectiveRepo) SetDocumentID(ctx context.Context, objectiveID uuid.UUID, documentID uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Model(&model.Objective{}).
		Where("id = ? AND document_id IS NULL", objectiveID).
		Updates(map[string]interface{}{
			"document_id": documentID,
			"updated_at":  time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrDocumentAlreadyBound
	}
	return nil
}

func (r *objectiveRepo) ClearDocumentID(ctx context.Context, documentID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&model.Objective{}).
		Where("document_id = ?", documentID).
		Updates(map[string]interface{}{
			"document_id": nil,
			"updated_at":  time.Now(),
		}).Error
}

// ListWithDocuments returns the workspace's objectives that have a bound
// document, optionally narrowed to one objective.
func (r *objectiveRepo) ListWithDocuments(ctx context.Context, workspaceID uuid.UUID, objectiveID *uuid.UUID) ([]model.Objective, error) {
	q := r.db.WithContext(ctx).
		Where("workspace_id = ? AND document_id IS NOT NULL", workspaceID)
	if objectiveID != nil {
		q = q.Where("id = ?", *objectiveID)
	}

	var items []model.Objective
	return items, q.Order("created_at ASC, id ASC").Find(&items).Error
}
