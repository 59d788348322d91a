package repo

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/memodb-io/docledger/internal/modules/model"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB opens a private in-memory SQLite database with foreign keys
// enforced and the full schema migrated.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(model.All()...))
	return db
}

type fixture struct {
	owner     uuid.UUID
	workspace *model.Workspace
	objective *model.Objective
}

func newFixture(t *testing.T, db *gorm.DB) fixture {
	t.Helper()
	ctx := context.Background()

	f := fixture{owner: uuid.New()}
	f.workspace = &model.Workspace{OwnerID: f.owner, Name: "acme"}
	require.NoError(t, NewWorkspaceRepo(db).Create(ctx, f.workspace))

	f.objective = &model.Objective{WorkspaceID: f.workspace.ID, Title: "Q3 launch plan"}
	require.NoError(t, NewObjectiveRepo(db).Create(ctx, f.objective))
	return f
}

// createDocumentWithVersion inserts an envelope bound to the fixture objective
// plus its first version.
func createDocumentWithVersion(t *testing.T, db *gorm.DB, f fixture, content string) (*model.Document, *model.DocumentVersion) {
	t.Helper()
	ctx := context.Background()
	stores := NewStores(db)

	doc := &model.Document{WorkspaceID: f.workspace.ID, Title: f.objective.Title}
	require.NoError(t, stores.Documents.Create(ctx, doc))

	n, err := stores.Documents.NextVersionNumber(ctx, doc.ID)
	require.NoError(t, err)

	v := &model.DocumentVersion{
		DocumentID:    doc.ID,
		VersionNumber: n,
		Content:       content,
		AuthorID:      f.owner,
	}
	require.NoError(t, stores.Versions.Create(ctx, v))
	require.NoError(t, stores.Objectives.SetDocumentID(ctx, f.objective.ID, doc.ID))
	return doc, v
}
