package service

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"time"

	"github.com/google/uuid"
	"github.com/memodb-io/docledger/internal/infra/blob"
	"github.com/memodb-io/docledger/internal/modules/model"
	"github.com/memodb-io/docledger/internal/pkg/tokenizer"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// SnapshotStore is satisfied by *blob.S3Deps.
type SnapshotStore interface {
	UploadFileDirect(ctx context.Context, key string, content []byte, contentType string) (*blob.UploadedMeta, error)
	PresignGet(ctx context.Context, key string, expire time.Duration) (string, error)
}

type ExportInput struct {
	DocumentID uuid.UUID `validate:"required"`
	AuthorID   uuid.UUID `validate:"required"`
	// VersionID selects a specific version; nil exports the latest.
	VersionID *uuid.UUID
}

type ExportResult struct {
	Key        string    `json:"key"`
	URL        string    `json:"url"`
	ExpiresAt  time.Time `json:"expires_at"`
	MIME       string    `json:"mime"`
	SizeB      int64     `json:"size_b"`
	SHA256     string    `json:"sha256"`
	TokenCount int       `json:"token_count"`
}

type snapshotHeader struct {
	DocumentID    string                 `yaml:"document_id"`
	VersionID     string                 `yaml:"version_id"`
	VersionNumber int64                  `yaml:"version_number"`
	Title         string                 `yaml:"title"`
	AuthorID      string                 `yaml:"author_id"`
	CreatedAt     time.Time              `yaml:"created_at"`
	UpdatedAt     time.Time              `yaml:"updated_at"`
	Tokens        int                    `yaml:"tokens"`
	Punchlist     string                 `yaml:"punchlist,omitempty"`
	Metadata      map[string]interface{} `yaml:"metadata,omitempty"`
}

func (s *documentService) ExportVersion(ctx context.Context, in ExportInput) (*ExportResult, error) {
	const op = "exportVersion"
	if err := validateInput(op, in); err != nil {
		return nil, err
	}
	if s.blob == nil {
		return nil, validationErr(op, "snapshot export is not configured")
	}

	doc, err := s.stores.Documents.GetOwned(ctx, in.DocumentID, in.AuthorID)
	if err != nil {
		return nil, classify(s.log, op, "document", err)
	}

	var v *model.DocumentVersion
	if in.VersionID != nil {
		v, err = s.stores.Versions.Get(ctx, *in.VersionID)
		if err == nil && v.DocumentID != doc.ID {
			return nil, notFoundErr(op, "version")
		}
	} else {
		v, err = s.stores.Versions.Latest(ctx, doc.ID)
	}
	if err != nil {
		return nil, classify(s.log, op, "version", err)
	}

	body, tokens, err := renderSnapshot(doc, v)
	if err != nil {
		s.log.Error("render snapshot", zap.String("version_id", v.ID.String()), zap.Error(err))
		return nil, &DocumentError{Op: op, Kind: KindDatabase, Msg: "render snapshot failed"}
	}

	key := path.Join(s.cfg.Document.ExportPrefix, doc.WorkspaceID.String(), doc.ID.String(),
		fmt.Sprintf("%d-%s.md", v.VersionNumber, v.ID))

	meta, err := s.blob.UploadFileDirect(ctx, key, body, "")
	if err != nil {
		s.log.Error("upload snapshot", zap.String("key", key), zap.Error(err))
		return nil, &DocumentError{Op: op, Kind: KindDatabase, Msg: "upload snapshot failed"}
	}

	expire := s.presignExpire()
	url, err := s.blob.PresignGet(ctx, key, expire)
	if err != nil {
		s.log.Error("presign snapshot", zap.String("key", key), zap.Error(err))
		return nil, &DocumentError{Op: op, Kind: KindDatabase, Msg: "presign snapshot failed"}
	}

	return &ExportResult{
		Key:        meta.Key,
		URL:        url,
		ExpiresAt:  time.Now().Add(expire).UTC(),
		MIME:       meta.MIME,
		SizeB:      meta.SizeB,
		SHA256:     meta.SHA256,
		TokenCount: tokens,
	}, nil
}

// renderSnapshot produces Markdown with a YAML front matter block describing
// the version, followed by the raw content.
func renderSnapshot(doc *model.Document, v *model.DocumentVersion) ([]byte, int, error) {
	tokens, err := tokenizer.CountTokens(v.Content)
	if err != nil {
		return nil, 0, err
	}

	h := snapshotHeader{
		DocumentID:    doc.ID.String(),
		VersionID:     v.ID.String(),
		VersionNumber: v.VersionNumber,
		Title:         doc.Title,
		AuthorID:      v.AuthorID.String(),
		CreatedAt:     v.CreatedAt.UTC(),
		UpdatedAt:     v.UpdatedAt.UTC(),
		Tokens:        tokens,
		Metadata:      v.Metadata,
	}
	if v.Punchlist != nil {
		h.Punchlist = *v.Punchlist
	}

	front, err := yaml.Marshal(h)
	if err != nil {
		return nil, 0, err
	}

	var buf bytes.Buffer
	buf.WriteString("---\n")
	buf.Write(front)
	buf.WriteString("---\n\n")
	buf.WriteString(v.Content)
	return buf.Bytes(), tokens, nil
}
