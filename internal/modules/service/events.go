package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/memodb-io/docledger/internal/modules/model"
	"github.com/memodb-io/docledger/internal/telemetry"
	"go.uber.org/zap"
)

// EventPublisher is satisfied by *mq.Publisher.
type EventPublisher interface {
	PublishJSON(ctx context.Context, exchangeName string, routingKey string, body any) error
}

// DocumentEvent is the body of every lifecycle message. Event carries the
// routing key so consumers bound with wildcards can dispatch on it.
type DocumentEvent struct {
	Event          string     `json:"event"`
	WorkspaceID    uuid.UUID  `json:"workspace_id"`
	DocumentID     uuid.UUID  `json:"document_id"`
	ObjectiveID    *uuid.UUID `json:"objective_id,omitempty"`
	VersionID      *uuid.UUID `json:"version_id,omitempty"`
	VersionNumber  int64      `json:"version_number,omitempty"`
	SessionID      *uuid.UUID `json:"session_id,omitempty"`
	AuthorID       uuid.UUID  `json:"author_id"`
	IsFirstVersion bool       `json:"is_first_version,omitempty"`
	OccurredAt     time.Time  `json:"occurred_at"`
}

func versionEvent(workspaceID uuid.UUID, v *model.DocumentVersion) DocumentEvent {
	id := v.ID
	return DocumentEvent{
		WorkspaceID:   workspaceID,
		DocumentID:    v.DocumentID,
		VersionID:     &id,
		VersionNumber: v.VersionNumber,
		SessionID:     v.SessionID,
		AuthorID:      v.AuthorID,
	}
}

func (s *documentService) publishCreated(ctx context.Context, obj *model.Objective, out *DocumentWithVersion, sessionID *uuid.UUID) {
	ev := versionEvent(out.Document.WorkspaceID, out.Version)
	objectiveID := obj.ID
	ev.ObjectiveID = &objectiveID
	ev.SessionID = sessionID
	ev.IsFirstVersion = true
	s.publish(ctx, s.cfg.RabbitMQ.RoutingKey.DocumentCreated, ev)
}

// publish runs after commit. A broker failure never undoes or fails the
// operation that produced the event; it is logged and dropped.
func (s *documentService) publish(ctx context.Context, routingKey string, ev DocumentEvent) {
	if s.events == nil || routingKey == "" {
		return
	}
	ev.Event = routingKey
	ev.OccurredAt = time.Now().UTC()

	if err := s.events.PublishJSON(ctx, s.cfg.RabbitMQ.ExchangeName.DocumentEvents, routingKey, ev); err != nil {
		telemetry.RecordEventPublishError(ctx, routingKey)
		s.log.Warn("publish document event",
			zap.String("routing_key", routingKey),
			zap.String("document_id", ev.DocumentID.String()),
			zap.Error(err))
	}
}
