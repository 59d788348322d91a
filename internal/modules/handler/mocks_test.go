package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/memodb-io/docledger/internal/middleware"
	"github.com/memodb-io/docledger/internal/modules/model"
	"github.com/memodb-io/docledger/internal/modules/serializer"
	"github.com/memodb-io/docledger/internal/modules/service"
	"github.com/stretchr/testify/mock"
)

// MockDocumentService is a mock implementation of DocumentService
type MockDocumentService struct {
	mock.Mock
}

func (m *MockDocumentService) CreateDocument(ctx context.Context, in service.CreateDocumentInput) (*service.DocumentWithVersion, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.DocumentWithVersion), args.Error(1)
}

func (m *MockDocumentService) CreateVersion(ctx context.Context, in service.CreateVersionInput) (*model.DocumentVersion, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DocumentVersion), args.Error(1)
}

func (m *MockDocumentService) BindSessionToVersion(ctx context.Context, in service.BindSessionInput) (*service.BindResult, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.BindResult), args.Error(1)
}

func (m *MockDocumentService) UpdateVersionContentInPlace(ctx context.Context, in service.UpdateContentInput) (*model.DocumentVersion, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DocumentVersion), args.Error(1)
}

func (m *MockDocumentService) UpdateVersionPunchlistInPlace(ctx context.Context, in service.UpdatePunchlistInput) (*model.DocumentVersion, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DocumentVersion), args.Error(1)
}

func (m *MockDocumentService) GetLatestVersion(ctx context.Context, documentID uuid.UUID, authorID uuid.UUID) (*model.DocumentVersion, error) {
	args := m.Called(ctx, documentID, authorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DocumentVersion), args.Error(1)
}

func (m *MockDocumentService) GetVersion(ctx context.Context, versionID uuid.UUID, authorID uuid.UUID) (*model.DocumentVersion, error) {
	args := m.Called(ctx, versionID, authorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DocumentVersion), args.Error(1)
}

func (m *MockDocumentService) GetDocumentByObjective(ctx context.Context, objectiveID uuid.UUID, authorID uuid.UUID) (*service.DocumentView, error) {
	args := m.Called(ctx, objectiveID, authorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.DocumentView), args.Error(1)
}

func (m *MockDocumentService) ListVersions(ctx context.Context, in service.ListVersionsInput) (*service.ListVersionsOutput, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ListVersionsOutput), args.Error(1)
}

func (m *MockDocumentService) DeleteDocument(ctx context.Context, documentID uuid.UUID, authorID uuid.UUID) error {
	args := m.Called(ctx, documentID, authorID)
	return args.Error(0)
}

func (m *MockDocumentService) ListWorkspaceDocuments(ctx context.Context, in service.ListWorkspaceDocumentsInput) ([]service.WorkspaceDocument, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]service.WorkspaceDocument), args.Error(1)
}

func (m *MockDocumentService) ExportVersion(ctx context.Context, in service.ExportInput) (*service.ExportResult, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ExportResult), args.Error(1)
}

// MockWorkspaceService is a mock implementation of WorkspaceService
type MockWorkspaceService struct {
	mock.Mock
}

func (m *MockWorkspaceService) CreateWorkspace(ctx context.Context, in service.CreateWorkspaceInput) (*model.Workspace, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Workspace), args.Error(1)
}

func (m *MockWorkspaceService) DeleteWorkspace(ctx context.Context, workspaceID uuid.UUID, ownerID uuid.UUID) error {
	args := m.Called(ctx, workspaceID, ownerID)
	return args.Error(0)
}

func (m *MockWorkspaceService) CreateObjective(ctx context.Context, in service.CreateObjectiveInput) (*model.Objective, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Objective), args.Error(1)
}

func (m *MockWorkspaceService) RegisterSession(ctx context.Context, in service.RegisterSessionInput) (*model.Session, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Session), args.Error(1)
}

func setupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

// withAuthor stands in for middleware.ServiceAuth.
func withAuthor(author uuid.UUID, h gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.AuthorIDKey, author)
		h(c)
	}
}

func doJSON(r *gin.Engine, method, path, body string, headers ...string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeResponse(w *httptest.ResponseRecorder) (serializer.Response, error) {
	var resp serializer.Response
	err := sonic.Unmarshal(w.Body.Bytes(), &resp)
	return resp, err
}

func svcErr(kind service.ErrorKind) error {
	return &service.DocumentError{Op: "test", Kind: kind, Msg: string(kind)}
}
