package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/memodb-io/docledger/internal/config"
	"github.com/memodb-io/docledger/internal/infra/blob"
	"github.com/memodb-io/docledger/internal/modules/model"
	"github.com/memodb-io/docledger/internal/modules/repo"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// MockPublisher is a mock implementation of EventPublisher
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishJSON(ctx context.Context, exchange, routingKey string, body any) error {
	args := m.Called(ctx, exchange, routingKey, body)
	return args.Error(0)
}

// routingKeys returns the routing keys published so far, in order.
func (m *MockPublisher) routingKeys() []string {
	var keys []string
	for _, c := range m.Calls {
		if c.Method == "PublishJSON" {
			keys = append(keys, c.Arguments.String(2))
		}
	}
	return keys
}

// MockSnapshotStore is a mock implementation of SnapshotStore
type MockSnapshotStore struct {
	mock.Mock
}

func (m *MockSnapshotStore) UploadFileDirect(ctx context.Context, key string, content []byte, contentType string) (*blob.UploadedMeta, error) {
	args := m.Called(ctx, key, content, contentType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*blob.UploadedMeta), args.Error(1)
}

func (m *MockSnapshotStore) PresignGet(ctx context.Context, key string, expire time.Duration) (string, error) {
	args := m.Called(ctx, key, expire)
	return args.String(0), args.Error(1)
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.App.Name = "docledger-test"
	cfg.RabbitMQ.ExchangeName.DocumentEvents = "document.events"
	cfg.RabbitMQ.RoutingKey.DocumentCreated = "document.created"
	cfg.RabbitMQ.RoutingKey.DocumentVersionCreated = "document.version.created"
	cfg.RabbitMQ.RoutingKey.DocumentVersionUpdated = "document.version.updated"
	cfg.RabbitMQ.RoutingKey.DocumentDeleted = "document.deleted"
	cfg.S3.PresignExpireSec = 600
	cfg.Document.MaxTitleLength = 64
	cfg.Document.IdempotencyTTLSec = 60
	cfg.Document.ExportPrefix = "exports"
	return cfg
}

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

// testEnv is a workspace W owned by owner with one objective that has no
// document yet.
type testEnv struct {
	db        *gorm.DB
	stores    *repo.Stores
	pub       *MockPublisher
	svc       DocumentService
	ws        WorkspaceService
	owner     uuid.UUID
	workspace *model.Workspace
	objective *model.Objective
}

func newTestEnv(t *testing.T, opts ...func(*documentService)) *testEnv {
	t.Helper()
	return newTestEnvOn(t, setupTestDB(t), opts...)
}

func newTestEnvOn(t *testing.T, db *gorm.DB, opts ...func(*documentService)) *testEnv {
	t.Helper()
	ctx := context.Background()

	stores := repo.NewStores(db)
	cfg := testConfig()
	log := zap.NewNop()

	pub := &MockPublisher{}
	pub.On("PublishJSON", mock.Anything, "document.events", mock.Anything, mock.Anything).Return(nil)

	ds := &documentService{stores: stores, events: pub, cfg: cfg, log: log}
	for _, o := range opts {
		o(ds)
	}

	env := &testEnv{
		db:     db,
		stores: stores,
		pub:    pub,
		svc:    ds,
		ws:     NewWorkspaceService(stores, cfg, log),
		owner:  uuid.New(),
	}

	var err error
	env.workspace, err = env.ws.CreateWorkspace(ctx, CreateWorkspaceInput{OwnerID: env.owner, Name: "acme"})
	require.NoError(t, err)
	env.objective, err = env.ws.CreateObjective(ctx, CreateObjectiveInput{
		WorkspaceID: env.workspace.ID,
		AuthorID:    env.owner,
		Title:       "Q3 launch plan",
	})
	require.NoError(t, err)
	return env
}

func (e *testEnv) newSession(t *testing.T) uuid.UUID {
	t.Helper()
	s, err := e.ws.RegisterSession(context.Background(), RegisterSessionInput{ObjectiveID: e.objective.ID, AuthorID: e.owner})
	require.NoError(t, err)
	return s.ID
}

func (e *testEnv) createDocument(t *testing.T, content string) *DocumentWithVersion {
	t.Helper()
	out, err := e.svc.CreateDocument(context.Background(), CreateDocumentInput{
		ObjectiveID: e.objective.ID,
		WorkspaceID: e.workspace.ID,
		AuthorID:    e.owner,
		Content:     content,
	})
	require.NoError(t, err)
	return out
}

func (e *testEnv) versionCount(t *testing.T, documentID uuid.UUID) int64 {
	t.Helper()
	n, err := e.stores.Versions.Count(context.Background(), documentID)
	require.NoError(t, err)
	return n
}

func strPtr(s string) *string { return &s }
