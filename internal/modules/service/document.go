package service

import (
	"context"
	"errors"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/memodb-io/docledger/internal/config"
	"github.com/memodb-io/docledger/internal/modules/model"
	"github.com/memodb-io/docledger/internal/modules/repo"
	"github.com/memodb-io/docledger/internal/pkg/paging"
	"github.com/memodb-io/docledger/internal/telemetry"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type DocumentService interface {
	CreateDocument(ctx context.Context, in CreateDocumentInput) (*DocumentWithVersion, error)
	CreateVersion(ctx context.Context, in CreateVersionInput) (*model.DocumentVersion, error)
	BindSessionToVersion(ctx context.Context, in BindSessionInput) (*BindResult, error)
	UpdateVersionContentInPlace(ctx context.Context, in UpdateContentInput) (*model.DocumentVersion, error)
	UpdateVersionPunchlistInPlace(ctx context.Context, in UpdatePunchlistInput) (*model.DocumentVersion, error)
	GetLatestVersion(ctx context.Context, documentID uuid.UUID, authorID uuid.UUID) (*model.DocumentVersion, error)
	GetVersion(ctx context.Context, versionID uuid.UUID, authorID uuid.UUID) (*model.DocumentVersion, error)
	GetDocumentByObjective(ctx context.Context, objectiveID uuid.UUID, authorID uuid.UUID) (*DocumentView, error)
	ListVersions(ctx context.Context, in ListVersionsInput) (*ListVersionsOutput, error)
	DeleteDocument(ctx context.Context, documentID uuid.UUID, authorID uuid.UUID) error
	ListWorkspaceDocuments(ctx context.Context, in ListWorkspaceDocumentsInput) ([]WorkspaceDocument, error)
	ExportVersion(ctx context.Context, in ExportInput) (*ExportResult, error)
}

type documentService struct {
	stores *repo.Stores
	events EventPublisher
	idem   IdempotencyStore
	blob   SnapshotStore
	cfg    *config.Config
	log    *zap.Logger
}

// NewDocumentService wires the orchestrator. events, idem and blob may be nil:
// events are then dropped, Idempotency-Key headers ignored and exports refused.
func NewDocumentService(stores *repo.Stores, events EventPublisher, idem IdempotencyStore, blob SnapshotStore, cfg *config.Config, log *zap.Logger) DocumentService {
	return &documentService{
		stores: stores,
		events: events,
		idem:   idem,
		blob:   blob,
		cfg:    cfg,
		log:    log,
	}
}

type DocumentWithVersion struct {
	Document *model.Document        `json:"document"`
	Version  *model.DocumentVersion `json:"version"`
}

type DocumentView struct {
	Document      *model.Document         `json:"document"`
	Versions      []model.DocumentVersion `json:"versions"`
	LatestVersion *model.DocumentVersion  `json:"latest_version"`
}

type WorkspaceDocument struct {
	Document      *model.Document        `json:"document"`
	LatestVersion *model.DocumentVersion `json:"latest_version"`
	Objective     *model.Objective       `json:"objective"`
}

// versionSeed holds the fields of a version about to be written.
type versionSeed struct {
	content   string
	punchlist *string
	metadata  map[string]interface{}
}

type CreateDocumentInput struct {
	ObjectiveID uuid.UUID `validate:"required"`
	WorkspaceID uuid.UUID `validate:"required"`
	AuthorID    uuid.UUID `validate:"required"`
	Content     string
	Title       *string
	Punchlist   *string
	Metadata    map[string]interface{}
}

func (s *documentService) CreateDocument(ctx context.Context, in CreateDocumentInput) (*DocumentWithVersion, error) {
	const op = "createDocument"
	if err := validateInput(op, in); err != nil {
		return nil, err
	}
	if err := s.checkTitle(op, in.Title); err != nil {
		return nil, err
	}

	var out *DocumentWithVersion
	var objective *model.Objective
	err := s.stores.Transaction(ctx, func(tx *repo.Stores) error {
		if _, err := tx.Workspaces.GetOwned(ctx, in.WorkspaceID, in.AuthorID); err != nil {
			return err
		}
		obj, err := tx.Objectives.GetForUpdate(ctx, in.ObjectiveID, in.WorkspaceID)
		if err != nil {
			return err
		}
		if obj.DocumentID != nil {
			return repo.ErrDocumentAlreadyBound
		}
		objective = obj

		out, err = s.insertDocumentTx(ctx, tx, obj, in.AuthorID, in.Title, versionSeed{
			content:   in.Content,
			punchlist: in.Punchlist,
			metadata:  in.Metadata,
		}, nil)
		return err
	})
	if err != nil {
		return nil, classify(s.log, op, "objective", err)
	}

	telemetry.RecordVersionCreated(ctx, "create_document")
	s.publishCreated(ctx, objective, out, nil)
	return out, nil
}

// insertDocumentTx writes envelope, version #1 and the objective pointer. The
// caller holds the objective row lock and has checked it has no document.
func (s *documentService) insertDocumentTx(ctx context.Context, tx *repo.Stores, obj *model.Objective, authorID uuid.UUID, title *string, seed versionSeed, sessionID *uuid.UUID) (*DocumentWithVersion, error) {
	doc := &model.Document{
		WorkspaceID: obj.WorkspaceID,
		Title:       obj.Title,
	}
	if title != nil && *title != "" {
		doc.Title = *title
	}
	if err := tx.Documents.Create(ctx, doc); err != nil {
		return nil, err
	}

	n, err := tx.Documents.NextVersionNumber(ctx, doc.ID)
	if err != nil {
		return nil, err
	}
	doc.VersionSeq = n

	v := &model.DocumentVersion{
		DocumentID:    doc.ID,
		VersionNumber: n,
		Content:       seed.content,
		Punchlist:     clonePunchlist(seed.punchlist),
		Metadata:      cloneMetadata(seed.metadata),
		AuthorID:      authorID,
		SessionID:     sessionID,
	}
	if err := tx.Versions.Create(ctx, v); err != nil {
		return nil, err
	}

	if err := tx.Objectives.SetDocumentID(ctx, obj.ID, doc.ID); err != nil {
		return nil, err
	}
	obj.DocumentID = &doc.ID

	return &DocumentWithVersion{Document: doc, Version: v}, nil
}

// VersionOverrides replaces fields of the previous latest version. A nil field
// inherits the previous value; a non-nil empty value clears it.
type VersionOverrides struct {
	Content   *string
	Punchlist *string
	Metadata  map[string]interface{}
}

type CreateVersionInput struct {
	DocumentID uuid.UUID `validate:"required"`
	AuthorID   uuid.UUID `validate:"required"`
	Overrides  VersionOverrides
}

func (s *documentService) CreateVersion(ctx context.Context, in CreateVersionInput) (*model.DocumentVersion, error) {
	const op = "createVersion"
	if err := validateInput(op, in); err != nil {
		return nil, err
	}

	var v *model.DocumentVersion
	var doc *model.Document
	err := s.stores.Transaction(ctx, func(tx *repo.Stores) error {
		var err error
		doc, err = tx.Documents.GetOwned(ctx, in.DocumentID, in.AuthorID)
		if err != nil {
			return err
		}
		v, err = s.appendVersionTx(ctx, tx, doc.ID, in.AuthorID, in.Overrides, nil)
		return err
	})
	if err != nil {
		return nil, classify(s.log, op, "document", err)
	}

	telemetry.RecordVersionCreated(ctx, "create_version")
	s.publish(ctx, s.cfg.RabbitMQ.RoutingKey.DocumentVersionCreated, versionEvent(doc.WorkspaceID, v))
	return v, nil
}

// appendVersionTx copies the latest version forward, applies overrides and
// inserts the result under the next ordering key. Advancing the counter first
// takes the envelope row lock, so the latest read below already sees every
// committed competitor.
func (s *documentService) appendVersionTx(ctx context.Context, tx *repo.Stores, documentID uuid.UUID, authorID uuid.UUID, o VersionOverrides, sessionID *uuid.UUID) (*model.DocumentVersion, error) {
	n, err := tx.Documents.NextVersionNumber(ctx, documentID)
	if err != nil {
		return nil, err
	}

	v := &model.DocumentVersion{
		DocumentID:    documentID,
		VersionNumber: n,
		AuthorID:      authorID,
		SessionID:     sessionID,
	}

	prev, err := tx.Versions.Latest(ctx, documentID)
	switch {
	case err == nil:
		v.Content = prev.Content
		v.Punchlist = clonePunchlist(prev.Punchlist)
		v.Metadata = cloneMetadata(prev.Metadata)
	case errors.Is(err, gorm.ErrRecordNotFound):
	default:
		return nil, err
	}

	if o.Content != nil {
		v.Content = *o.Content
	}
	if o.Punchlist != nil {
		v.Punchlist = clonePunchlist(o.Punchlist)
	}
	if o.Metadata != nil {
		v.Metadata = cloneMetadata(o.Metadata)
	}

	if err := tx.Versions.Create(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

type UpdateContentInput struct {
	VersionID uuid.UUID `validate:"required"`
	AuthorID  uuid.UUID `validate:"required"`
	Content   string
	// Metadata replaces the stored metadata when non-nil.
	Metadata map[string]interface{}
}

func (s *documentService) UpdateVersionContentInPlace(ctx context.Context, in UpdateContentInput) (*model.DocumentVersion, error) {
	const op = "updateVersionContentInPlace"
	if err := validateInput(op, in); err != nil {
		return nil, err
	}

	return s.mutateVersion(ctx, op, in.VersionID, in.AuthorID, func(tx *repo.Stores, v *model.DocumentVersion) error {
		return tx.Versions.UpdateContent(ctx, v.ID, in.Content, cloneMetadata(in.Metadata))
	})
}

type UpdatePunchlistInput struct {
	VersionID uuid.UUID `validate:"required"`
	AuthorID  uuid.UUID `validate:"required"`
	Punchlist string
}

func (s *documentService) UpdateVersionPunchlistInPlace(ctx context.Context, in UpdatePunchlistInput) (*model.DocumentVersion, error) {
	const op = "updateVersionPunchlistInPlace"
	if err := validateInput(op, in); err != nil {
		return nil, err
	}

	return s.mutateVersion(ctx, op, in.VersionID, in.AuthorID, func(tx *repo.Stores, v *model.DocumentVersion) error {
		return tx.Versions.UpdatePunchlist(ctx, v.ID, in.Punchlist)
	})
}

// mutateVersion runs an in-place edit of one version together with its
// ownership check and the envelope timestamp bump. The version is reread
// after the edit and returned as stored.
func (s *documentService) mutateVersion(ctx context.Context, op string, versionID, authorID uuid.UUID, apply func(tx *repo.Stores, v *model.DocumentVersion) error) (*model.DocumentVersion, error) {
	var v *model.DocumentVersion
	var doc *model.Document
	err := s.stores.Transaction(ctx, func(tx *repo.Stores) error {
		var err error
		v, err = tx.Versions.GetOwned(ctx, versionID, authorID)
		if err != nil {
			return err
		}
		if err := apply(tx, v); err != nil {
			return err
		}
		if err := tx.Documents.Touch(ctx, v.DocumentID); err != nil {
			return err
		}
		if v, err = tx.Versions.Get(ctx, versionID); err != nil {
			return err
		}
		doc, err = tx.Documents.Get(ctx, v.DocumentID)
		return err
	})
	if err != nil {
		return nil, classify(s.log, op, "version", err)
	}

	s.publish(ctx, s.cfg.RabbitMQ.RoutingKey.DocumentVersionUpdated, versionEvent(doc.WorkspaceID, v))
	return v, nil
}

// GetLatestVersion returns the version with the highest ordering key. A nil
// authorID skips the ownership check and is meant for trusted internal callers.
// A document without versions yields (nil, nil).
func (s *documentService) GetLatestVersion(ctx context.Context, documentID uuid.UUID, authorID uuid.UUID) (*model.DocumentVersion, error) {
	const op = "getLatestVersion"
	if documentID == uuid.Nil {
		return nil, validationErr(op, "DocumentID is required")
	}

	if _, err := s.getDocument(ctx, s.stores, documentID, authorID); err != nil {
		return nil, classify(s.log, op, "document", err)
	}

	v, err := s.stores.Versions.Latest(ctx, documentID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, classify(s.log, op, "version", err)
	}
	return v, nil
}

func (s *documentService) GetVersion(ctx context.Context, versionID uuid.UUID, authorID uuid.UUID) (*model.DocumentVersion, error) {
	const op = "getVersion"
	if versionID == uuid.Nil {
		return nil, validationErr(op, "VersionID is required")
	}

	var v *model.DocumentVersion
	var err error
	if authorID == uuid.Nil {
		v, err = s.stores.Versions.Get(ctx, versionID)
	} else {
		v, err = s.stores.Versions.GetOwned(ctx, versionID, authorID)
	}
	if err != nil {
		return nil, classify(s.log, op, "version", err)
	}
	return v, nil
}

// GetDocumentByObjective returns (nil, nil) when the objective exists but has
// no document. A missing or foreign objective is not_found.
func (s *documentService) GetDocumentByObjective(ctx context.Context, objectiveID uuid.UUID, authorID uuid.UUID) (*DocumentView, error) {
	const op = "getDocumentByObjective"
	if objectiveID == uuid.Nil {
		return nil, validationErr(op, "ObjectiveID is required")
	}

	var out *DocumentView
	err := s.stores.Transaction(ctx, func(tx *repo.Stores) error {
		obj, err := tx.Objectives.Get(ctx, objectiveID)
		if err != nil {
			return err
		}
		if authorID != uuid.Nil {
			if _, err := tx.Workspaces.GetOwned(ctx, obj.WorkspaceID, authorID); err != nil {
				return err
			}
		}
		if obj.DocumentID == nil {
			return nil
		}

		doc, err := tx.Documents.Get(ctx, *obj.DocumentID)
		if err != nil {
			return err
		}
		versions, err := tx.Versions.ListByDocument(ctx, doc.ID)
		if err != nil {
			return err
		}

		out = &DocumentView{Document: doc, Versions: versions}
		if len(versions) > 0 {
			out.LatestVersion = &versions[0]
		}
		return nil
	})
	if err != nil {
		return nil, classify(s.log, op, "objective", err)
	}
	return out, nil
}

type ListVersionsInput struct {
	DocumentID uuid.UUID `validate:"required"`
	AuthorID   uuid.UUID
	Limit      int `validate:"min=1,max=200"`
	Cursor     string
}

type ListVersionsOutput struct {
	Items      []model.DocumentVersion `json:"items"`
	NextCursor string                  `json:"next_cursor,omitempty"`
	HasMore    bool                    `json:"has_more"`
}

func (s *documentService) ListVersions(ctx context.Context, in ListVersionsInput) (*ListVersionsOutput, error) {
	const op = "listVersions"
	if err := validateInput(op, in); err != nil {
		return nil, err
	}

	var before int64
	if in.Cursor != "" {
		seq, _, err := paging.DecodeCursor(in.Cursor)
		if err != nil {
			return nil, validationErr(op, "invalid cursor")
		}
		before = seq
	}

	if _, err := s.getDocument(ctx, s.stores, in.DocumentID, in.AuthorID); err != nil {
		return nil, classify(s.log, op, "document", err)
	}

	// Query limit+1 to determine has_more
	items, err := s.stores.Versions.ListByDocumentWithCursor(ctx, in.DocumentID, before, in.Limit+1)
	if err != nil {
		return nil, classify(s.log, op, "document", err)
	}

	out := &ListVersionsOutput{Items: items}
	if len(items) > in.Limit {
		out.HasMore = true
		out.Items = items[:in.Limit]
		last := out.Items[len(out.Items)-1]
		out.NextCursor = paging.EncodeCursor(last.VersionNumber, last.ID)
	}
	return out, nil
}

// DeleteDocument removes the envelope and every version. Ownership failures
// are reported as not_found so callers cannot probe other tenants.
func (s *documentService) DeleteDocument(ctx context.Context, documentID uuid.UUID, authorID uuid.UUID) error {
	const op = "deleteDocument"
	if documentID == uuid.Nil {
		return validationErr(op, "DocumentID is required")
	}
	if authorID == uuid.Nil {
		return validationErr(op, "AuthorID is required")
	}

	var doc *model.Document
	var objectiveID *uuid.UUID
	err := s.stores.Transaction(ctx, func(tx *repo.Stores) error {
		var err error
		doc, err = tx.Documents.GetOwned(ctx, documentID, authorID)
		if err != nil {
			return err
		}

		obj, err := tx.Objectives.GetByDocumentID(ctx, doc.ID)
		switch {
		case err == nil:
			objectiveID = &obj.ID
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return err
		}

		if err := tx.Sessions.ClearBindingsForDocument(ctx, doc.ID); err != nil {
			return err
		}
		if err := tx.Versions.DeleteByDocument(ctx, doc.ID); err != nil {
			return err
		}
		if err := tx.Objectives.ClearDocumentID(ctx, doc.ID); err != nil {
			return err
		}
		return tx.Documents.Delete(ctx, doc.ID)
	})
	if err != nil {
		return classify(s.log, op, "document", err)
	}

	s.publish(ctx, s.cfg.RabbitMQ.RoutingKey.DocumentDeleted, DocumentEvent{
		WorkspaceID: doc.WorkspaceID,
		DocumentID:  doc.ID,
		ObjectiveID: objectiveID,
		AuthorID:    authorID,
	})
	return nil
}

type ListWorkspaceDocumentsInput struct {
	WorkspaceID uuid.UUID `validate:"required"`
	AuthorID    uuid.UUID `validate:"required"`
	ObjectiveID *uuid.UUID
}

// ListWorkspaceDocuments lists documents in objective creation order. Latest
// versions are fetched with one batched query regardless of result size.
func (s *documentService) ListWorkspaceDocuments(ctx context.Context, in ListWorkspaceDocumentsInput) ([]WorkspaceDocument, error) {
	const op = "listWorkspaceDocuments"
	if err := validateInput(op, in); err != nil {
		return nil, err
	}

	out := []WorkspaceDocument{}
	err := s.stores.Transaction(ctx, func(tx *repo.Stores) error {
		if _, err := tx.Workspaces.GetOwned(ctx, in.WorkspaceID, in.AuthorID); err != nil {
			return err
		}

		objectives, err := tx.Objectives.ListWithDocuments(ctx, in.WorkspaceID, in.ObjectiveID)
		if err != nil {
			return err
		}
		if len(objectives) == 0 {
			return nil
		}

		ids := make([]uuid.UUID, 0, len(objectives))
		for _, o := range objectives {
			ids = append(ids, *o.DocumentID)
		}

		docs, err := tx.Documents.ListByIDs(ctx, ids)
		if err != nil {
			return err
		}
		byID := make(map[uuid.UUID]*model.Document, len(docs))
		for i := range docs {
			byID[docs[i].ID] = &docs[i]
		}

		latest, err := tx.Versions.LatestForDocuments(ctx, ids)
		if err != nil {
			return err
		}

		for i := range objectives {
			o := &objectives[i]
			doc, ok := byID[*o.DocumentID]
			if !ok {
				continue
			}
			item := WorkspaceDocument{Document: doc, Objective: o}
			if v, ok := latest[doc.ID]; ok {
				item.LatestVersion = &v
			}
			out = append(out, item)
		}
		return nil
	})
	if err != nil {
		return nil, classify(s.log, op, "workspace", err)
	}
	return out, nil
}

// getDocument loads a document, scoped to its owner unless authorID is nil.
func (s *documentService) getDocument(ctx context.Context, stores *repo.Stores, documentID, authorID uuid.UUID) (*model.Document, error) {
	if authorID == uuid.Nil {
		return stores.Documents.Get(ctx, documentID)
	}
	return stores.Documents.GetOwned(ctx, documentID, authorID)
}

func (s *documentService) checkTitle(op string, title *string) error {
	if title == nil || s.cfg.Document.MaxTitleLength <= 0 {
		return nil
	}
	if utf8.RuneCountInString(*title) > s.cfg.Document.MaxTitleLength {
		return validationErr(op, "Title is too long")
	}
	return nil
}

func (s *documentService) presignExpire() time.Duration {
	if s.cfg.S3.PresignExpireSec <= 0 {
		return 15 * time.Minute
	}
	return time.Duration(s.cfg.S3.PresignExpireSec) * time.Second
}

func clonePunchlist(p *string) *string {
	if p == nil {
		return nil
	}
	c := *p
	return &c
}

// cloneMetadata deep-copies nested maps and slices so that versions never
// share mutable metadata.
func cloneMetadata(m map[string]interface{}) datatypes.JSONMap {
	if m == nil {
		return nil
	}
	out := make(datatypes.JSONMap, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		return map[string]interface{}(cloneMetadata(t))
	case datatypes.JSONMap:
		return cloneMetadata(t)
	case []interface{}:
		out := make([]interface{}, len(t))
		for i := range t {
			out[i] = cloneValue(t[i])
		}
		return out
	default:
		return v
	}
}
