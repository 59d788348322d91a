package service

import (
	"context"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/memodb-io/docledger/internal/config"
	"github.com/memodb-io/docledger/internal/modules/model"
	"github.com/memodb-io/docledger/internal/modules/repo"
	"go.uber.org/zap"
)

// WorkspaceService registers the records the document lifecycle hangs off:
// workspaces, objectives and sessions.
type WorkspaceService interface {
	CreateWorkspace(ctx context.Context, in CreateWorkspaceInput) (*model.Workspace, error)
	DeleteWorkspace(ctx context.Context, workspaceID uuid.UUID, ownerID uuid.UUID) error
	CreateObjective(ctx context.Context, in CreateObjectiveInput) (*model.Objective, error)
	RegisterSession(ctx context.Context, in RegisterSessionInput) (*model.Session, error)
}

type workspaceService struct {
	stores *repo.Stores
	cfg    *config.Config
	log    *zap.Logger
}

func NewWorkspaceService(stores *repo.Stores, cfg *config.Config, log *zap.Logger) WorkspaceService {
	return &workspaceService{stores: stores, cfg: cfg, log: log}
}

type CreateWorkspaceInput struct {
	OwnerID  uuid.UUID `validate:"required"`
	Name     string    `validate:"required"`
	DomainID *uuid.UUID
}

func (s *workspaceService) CreateWorkspace(ctx context.Context, in CreateWorkspaceInput) (*model.Workspace, error) {
	const op = "createWorkspace"
	if err := validateInput(op, in); err != nil {
		return nil, err
	}
	if err := s.checkLength(op, "Name", in.Name); err != nil {
		return nil, err
	}

	w := &model.Workspace{OwnerID: in.OwnerID, Name: in.Name, DomainID: in.DomainID}
	if err := s.stores.Workspaces.Create(ctx, w); err != nil {
		return nil, classify(s.log, op, "workspace", err)
	}
	return w, nil
}

// DeleteWorkspace soft deletes. Documents stay in place but become
// unreachable through every ownership-gated operation.
func (s *workspaceService) DeleteWorkspace(ctx context.Context, workspaceID uuid.UUID, ownerID uuid.UUID) error {
	const op = "deleteWorkspace"
	if workspaceID == uuid.Nil || ownerID == uuid.Nil {
		return validationErr(op, "WorkspaceID and AuthorID are required")
	}
	if err := s.stores.Workspaces.SoftDelete(ctx, workspaceID, ownerID); err != nil {
		return classify(s.log, op, "workspace", err)
	}
	return nil
}

type CreateObjectiveInput struct {
	WorkspaceID uuid.UUID `validate:"required"`
	AuthorID    uuid.UUID `validate:"required"`
	Title       string    `validate:"required"`
}

func (s *workspaceService) CreateObjective(ctx context.Context, in CreateObjectiveInput) (*model.Objective, error) {
	const op = "createObjective"
	if err := validateInput(op, in); err != nil {
		return nil, err
	}
	if err := s.checkLength(op, "Title", in.Title); err != nil {
		return nil, err
	}

	o := &model.Objective{WorkspaceID: in.WorkspaceID, Title: in.Title}
	err := s.stores.Transaction(ctx, func(tx *repo.Stores) error {
		if _, err := tx.Workspaces.GetOwned(ctx, in.WorkspaceID, in.AuthorID); err != nil {
			return err
		}
		return tx.Objectives.Create(ctx, o)
	})
	if err != nil {
		return nil, classify(s.log, op, "workspace", err)
	}
	return o, nil
}

type RegisterSessionInput struct {
	ObjectiveID uuid.UUID `validate:"required"`
	AuthorID    uuid.UUID `validate:"required"`
}

func (s *workspaceService) RegisterSession(ctx context.Context, in RegisterSessionInput) (*model.Session, error) {
	const op = "registerSession"
	if err := validateInput(op, in); err != nil {
		return nil, err
	}

	sess := &model.Session{ObjectiveID: in.ObjectiveID}
	err := s.stores.Transaction(ctx, func(tx *repo.Stores) error {
		obj, err := tx.Objectives.Get(ctx, in.ObjectiveID)
		if err != nil {
			return err
		}
		if _, err := tx.Workspaces.GetOwned(ctx, obj.WorkspaceID, in.AuthorID); err != nil {
			return err
		}
		return tx.Sessions.Create(ctx, sess)
	})
	if err != nil {
		return nil, classify(s.log, op, "objective", err)
	}
	return sess, nil
}

func (s *workspaceService) checkLength(op, field, v string) error {
	if s.cfg.Document.MaxTitleLength > 0 && utf8.RuneCountInString(v) > s.cfg.Document.MaxTitleLength {
		return validationErr(op, field+" is too long")
	}
	return nil
}
