package service

import (
	"context"
	"errors"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/memodb-io/docledger/internal/infra/cache"
	"github.com/memodb-io/docledger/internal/modules/model"
	"github.com/memodb-io/docledger/internal/modules/repo"
	"github.com/memodb-io/docledger/internal/telemetry"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// IdempotencyStore is satisfied by *cache.IdempotencyStore.
type IdempotencyStore interface {
	Reserve(ctx context.Context, scope, key string) ([]byte, bool, error)
	Complete(ctx context.Context, scope, key string, payload []byte) error
	Release(ctx context.Context, scope, key string) error
}

type BindSessionInput struct {
	SessionID   uuid.UUID `validate:"required"`
	ObjectiveID uuid.UUID `validate:"required"`
	AuthorID    uuid.UUID `validate:"required"`
	WorkspaceID uuid.UUID `validate:"required"`
	// IdempotencyKey makes client retries replay the first result instead of
	// appending another version. Empty disables replay.
	IdempotencyKey string `validate:"omitempty,max=128,printascii"`
}

type BindResult struct {
	VersionID      uuid.UUID `json:"version_id"`
	DocumentID     uuid.UUID `json:"document_id"`
	IsFirstVersion bool      `json:"is_first_version"`
	Replayed       bool      `json:"replayed"`
}

// BindSessionToVersion gives the session a version of its own to revise: the
// first version of a new document when the objective has none, otherwise a
// copy-forward of the latest one. Creation and binding commit together.
func (s *documentService) BindSessionToVersion(ctx context.Context, in BindSessionInput) (*BindResult, error) {
	const op = "bindSessionToVersion"
	if err := validateInput(op, in); err != nil {
		return nil, err
	}

	start := time.Now()
	scope := in.SessionID.String()
	useIdem := in.IdempotencyKey != "" && s.idem != nil
	if useIdem {
		// Callers that may not bind must not learn a stored result, nor that
		// the key is in use.
		if err := s.checkBindAccess(ctx, in); err != nil {
			err = classify(s.log, op, "objective", err)
			recordBind(ctx, start, "", err)
			return nil, err
		}

		payload, reserved, err := s.idem.Reserve(ctx, scope, in.IdempotencyKey)
		switch {
		case errors.Is(err, cache.ErrIdempotencyInFlight):
			err = classify(s.log, op, "session", err)
			recordBind(ctx, start, "", err)
			return nil, err
		case err != nil:
			// Redis being down must not block binding.
			s.log.Warn("idempotency reserve failed", zap.String("session_id", scope), zap.Error(err))
			useIdem = false
		case !reserved:
			var prev bindRecord
			if err := sonic.Unmarshal(payload, &prev); err != nil {
				s.log.Warn("discarding unreadable idempotency record", zap.String("session_id", scope))
				useIdem = false
				break
			}
			if !prev.matches(in) {
				err := notFoundErr(op, "objective")
				recordBind(ctx, start, "", err)
				return nil, err
			}
			out := prev.Result
			out.Replayed = true
			recordBind(ctx, start, "replayed", nil)
			return &out, nil
		}
	}

	out, objective, created, err := s.bindTx(ctx, in)
	if err != nil {
		if useIdem {
			if rErr := s.idem.Release(ctx, scope, in.IdempotencyKey); rErr != nil {
				s.log.Warn("idempotency release failed", zap.String("session_id", scope), zap.Error(rErr))
			}
		}
		err = classify(s.log, op, "objective", err)
		recordBind(ctx, start, "", err)
		return nil, err
	}

	if useIdem {
		if b, mErr := sonic.Marshal(newBindRecord(in, out)); mErr == nil {
			if cErr := s.idem.Complete(ctx, scope, in.IdempotencyKey, b); cErr != nil {
				s.log.Warn("idempotency complete failed", zap.String("session_id", scope), zap.Error(cErr))
			}
		}
	}

	telemetry.RecordVersionCreated(ctx, "bind")
	sessionID := in.SessionID
	if out.IsFirstVersion {
		recordBind(ctx, start, "first_version", nil)
		s.publishCreated(ctx, objective, created, &sessionID)
	} else {
		recordBind(ctx, start, "copy_forward", nil)
		s.publish(ctx, s.cfg.RabbitMQ.RoutingKey.DocumentVersionCreated, versionEvent(created.Document.WorkspaceID, created.Version))
	}
	return out, nil
}

// bindRecord is what an idempotency key remembers: the result and the
// request it answered.
type bindRecord struct {
	AuthorID    uuid.UUID  `json:"author_id"`
	WorkspaceID uuid.UUID  `json:"workspace_id"`
	ObjectiveID uuid.UUID  `json:"objective_id"`
	Result      BindResult `json:"result"`
}

func newBindRecord(in BindSessionInput, out *BindResult) bindRecord {
	return bindRecord{
		AuthorID:    in.AuthorID,
		WorkspaceID: in.WorkspaceID,
		ObjectiveID: in.ObjectiveID,
		Result:      *out,
	}
}

func (r bindRecord) matches(in BindSessionInput) bool {
	return r.AuthorID == in.AuthorID && r.WorkspaceID == in.WorkspaceID && r.ObjectiveID == in.ObjectiveID
}

// checkBindAccess runs the ownership and membership checks of bindTx
// without writing anything.
func (s *documentService) checkBindAccess(ctx context.Context, in BindSessionInput) error {
	const op = "bindSessionToVersion"

	if _, err := s.stores.Workspaces.GetOwned(ctx, in.WorkspaceID, in.AuthorID); err != nil {
		return err
	}
	obj, err := s.stores.Objectives.Get(ctx, in.ObjectiveID)
	if err != nil {
		return err
	}
	if obj.WorkspaceID != in.WorkspaceID {
		return notFoundErr(op, "objective")
	}

	sess, err := s.stores.Sessions.Get(ctx, in.SessionID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFoundErr(op, "session")
	}
	if err != nil {
		return err
	}
	if sess.ObjectiveID != obj.ID {
		return validationErr(op, "session does not belong to objective")
	}
	return nil
}

func (s *documentService) bindTx(ctx context.Context, in BindSessionInput) (*BindResult, *model.Objective, *DocumentWithVersion, error) {
	const op = "bindSessionToVersion"

	var (
		out     *BindResult
		obj     *model.Objective
		created *DocumentWithVersion
	)
	err := s.stores.Transaction(ctx, func(tx *repo.Stores) error {
		if _, err := tx.Workspaces.GetOwned(ctx, in.WorkspaceID, in.AuthorID); err != nil {
			return err
		}

		var err error
		obj, err = tx.Objectives.GetForUpdate(ctx, in.ObjectiveID, in.WorkspaceID)
		if err != nil {
			return err
		}

		sess, err := tx.Sessions.Get(ctx, in.SessionID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFoundErr(op, "session")
		}
		if err != nil {
			return err
		}
		if sess.ObjectiveID != obj.ID {
			return validationErr(op, "session does not belong to objective")
		}

		sessionID := in.SessionID
		if obj.DocumentID == nil {
			created, err = s.insertDocumentTx(ctx, tx, obj, in.AuthorID, nil, versionSeed{}, &sessionID)
			if err != nil {
				return err
			}
			out = &BindResult{IsFirstVersion: true}
		} else {
			doc, err := tx.Documents.Get(ctx, *obj.DocumentID)
			if err != nil {
				return err
			}
			v, err := s.appendVersionTx(ctx, tx, doc.ID, in.AuthorID, VersionOverrides{}, &sessionID)
			if err != nil {
				return err
			}
			created = &DocumentWithVersion{Document: doc, Version: v}
			out = &BindResult{}
		}
		out.VersionID = created.Version.ID
		out.DocumentID = created.Document.ID

		return tx.Sessions.Bind(ctx, in.SessionID, created.Version.ID)
	})
	if err != nil {
		return nil, nil, nil, err
	}
	return out, obj, created, nil
}

func recordBind(ctx context.Context, start time.Time, outcome string, err error) {
	if err != nil {
		outcome = string(KindOf(err))
	}
	telemetry.RecordBind(ctx, outcome, float64(time.Since(start).Microseconds())/1000)
}
