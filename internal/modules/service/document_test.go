package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/memodb-io/docledger/internal/modules/model"
	"github.com/memodb-io/docledger/internal/modules/repo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func TestDocumentService_CreateDocument(t *testing.T) {
	ctx := context.Background()

	t.Run("round trip through latest version", func(t *testing.T) {
		env := newTestEnv(t)
		out := env.createDocument(t, "# Plan\n\nship it")

		assert.Equal(t, env.objective.Title, out.Document.Title)
		assert.Equal(t, int64(1), out.Version.VersionNumber)

		latest, err := env.svc.GetLatestVersion(ctx, out.Document.ID, env.owner)
		require.NoError(t, err)
		require.NotNil(t, latest)
		assert.Equal(t, "# Plan\n\nship it", latest.Content)
		assert.Equal(t, out.Version.ID, latest.ID)

		obj, err := env.stores.Objectives.Get(ctx, env.objective.ID)
		require.NoError(t, err)
		require.NotNil(t, obj.DocumentID)
		assert.Equal(t, out.Document.ID, *obj.DocumentID)

		assert.Equal(t, []string{"document.created"}, env.pub.routingKeys())
	})

	t.Run("explicit title, punchlist and metadata", func(t *testing.T) {
		env := newTestEnv(t)
		out, err := env.svc.CreateDocument(ctx, CreateDocumentInput{
			ObjectiveID: env.objective.ID,
			WorkspaceID: env.workspace.ID,
			AuthorID:    env.owner,
			Content:     "body",
			Title:       strPtr("Launch brief"),
			Punchlist:   strPtr("- draft intro"),
			Metadata:    map[string]interface{}{"tone": "formal"},
		})
		require.NoError(t, err)

		assert.Equal(t, "Launch brief", out.Document.Title)
		require.NotNil(t, out.Version.Punchlist)
		assert.Equal(t, "- draft intro", *out.Version.Punchlist)
		assert.Equal(t, "formal", out.Version.Metadata["tone"])
	})

	t.Run("objective with document is a conflict", func(t *testing.T) {
		env := newTestEnv(t)
		first := env.createDocument(t, "v1")

		_, err := env.svc.CreateDocument(ctx, CreateDocumentInput{
			ObjectiveID: env.objective.ID,
			WorkspaceID: env.workspace.ID,
			AuthorID:    env.owner,
		})
		assert.ErrorIs(t, err, ErrConflict)
		assert.Equal(t, int64(1), env.versionCount(t, first.Document.ID))
	})

	t.Run("foreign workspace is not found and writes nothing", func(t *testing.T) {
		env := newTestEnv(t)
		_, err := env.svc.CreateDocument(ctx, CreateDocumentInput{
			ObjectiveID: env.objective.ID,
			WorkspaceID: env.workspace.ID,
			AuthorID:    uuid.New(),
			Content:     "x",
		})
		assert.ErrorIs(t, err, ErrNotFound)

		var count int64
		require.NoError(t, env.db.Model(&model.Document{}).Count(&count).Error)
		assert.Zero(t, count)
	})

	t.Run("objective from another workspace is not found", func(t *testing.T) {
		env := newTestEnv(t)
		other, err := env.ws.CreateWorkspace(ctx, CreateWorkspaceInput{OwnerID: env.owner, Name: "other"})
		require.NoError(t, err)

		_, err = env.svc.CreateDocument(ctx, CreateDocumentInput{
			ObjectiveID: env.objective.ID,
			WorkspaceID: other.ID,
			AuthorID:    env.owner,
		})
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("validation", func(t *testing.T) {
		env := newTestEnv(t)

		_, err := env.svc.CreateDocument(ctx, CreateDocumentInput{WorkspaceID: env.workspace.ID, AuthorID: env.owner})
		assert.ErrorIs(t, err, ErrValidation)
		assert.Contains(t, err.Error(), "ObjectiveID is required")

		long := make([]byte, 65)
		for i := range long {
			long[i] = 'a'
		}
		_, err = env.svc.CreateDocument(ctx, CreateDocumentInput{
			ObjectiveID: env.objective.ID,
			WorkspaceID: env.workspace.ID,
			AuthorID:    env.owner,
			Title:       strPtr(string(long)),
		})
		assert.ErrorIs(t, err, ErrValidation)
		assert.Empty(t, env.pub.routingKeys())
	})
}

func TestDocumentService_CreateVersion(t *testing.T) {
	ctx := context.Background()

	t.Run("copy forward without overrides", func(t *testing.T) {
		env := newTestEnv(t)
		created, err := env.svc.CreateDocument(ctx, CreateDocumentInput{
			ObjectiveID: env.objective.ID,
			WorkspaceID: env.workspace.ID,
			AuthorID:    env.owner,
			Content:     "body",
			Punchlist:   strPtr("- todo"),
			Metadata:    map[string]interface{}{"sections": []interface{}{"intro"}},
		})
		require.NoError(t, err)

		v2, err := env.svc.CreateVersion(ctx, CreateVersionInput{DocumentID: created.Document.ID, AuthorID: env.owner})
		require.NoError(t, err)

		assert.NotEqual(t, created.Version.ID, v2.ID)
		assert.Equal(t, int64(2), v2.VersionNumber)
		assert.Equal(t, "body", v2.Content)
		require.NotNil(t, v2.Punchlist)
		assert.Equal(t, "- todo", *v2.Punchlist)
		assert.Equal(t, []interface{}{"intro"}, v2.Metadata["sections"])
	})

	t.Run("overrides replace only given fields", func(t *testing.T) {
		env := newTestEnv(t)
		created := env.createDocument(t, "body")
		_, err := env.svc.UpdateVersionPunchlistInPlace(ctx, UpdatePunchlistInput{
			VersionID: created.Version.ID, AuthorID: env.owner, Punchlist: "- keep me",
		})
		require.NoError(t, err)

		v2, err := env.svc.CreateVersion(ctx, CreateVersionInput{
			DocumentID: created.Document.ID,
			AuthorID:   env.owner,
			Overrides:  VersionOverrides{Content: strPtr("rewritten")},
		})
		require.NoError(t, err)
		assert.Equal(t, "rewritten", v2.Content)
		require.NotNil(t, v2.Punchlist)
		assert.Equal(t, "- keep me", *v2.Punchlist)

		v3, err := env.svc.CreateVersion(ctx, CreateVersionInput{
			DocumentID: created.Document.ID,
			AuthorID:   env.owner,
			Overrides:  VersionOverrides{Content: strPtr("")},
		})
		require.NoError(t, err)
		assert.Equal(t, "", v3.Content, "explicit empty content is not inherited")
		assert.Equal(t, int64(3), v3.VersionNumber)
	})

	t.Run("bumps envelope updated_at", func(t *testing.T) {
		env := newTestEnv(t)
		created := env.createDocument(t, "body")
		before, err := env.stores.Documents.Get(ctx, created.Document.ID)
		require.NoError(t, err)

		_, err = env.svc.CreateVersion(ctx, CreateVersionInput{DocumentID: created.Document.ID, AuthorID: env.owner})
		require.NoError(t, err)

		after, err := env.stores.Documents.Get(ctx, created.Document.ID)
		require.NoError(t, err)
		assert.False(t, after.UpdatedAt.Before(before.UpdatedAt))
		assert.Equal(t, int64(2), after.VersionSeq)
	})

	t.Run("non owner is not found", func(t *testing.T) {
		env := newTestEnv(t)
		created := env.createDocument(t, "body")

		_, err := env.svc.CreateVersion(ctx, CreateVersionInput{DocumentID: created.Document.ID, AuthorID: uuid.New()})
		assert.ErrorIs(t, err, ErrNotFound)
		assert.Equal(t, int64(1), env.versionCount(t, created.Document.ID))
	})

	// SQLite runs with one connection, so the writers queue at the pool here.
	// TestDocumentService_CreateVersionPostgres covers the row lock.
	t.Run("concurrent writers get distinct increasing keys", func(t *testing.T) {
		env := newTestEnv(t)
		created := env.createDocument(t, "body")

		const writers = 8
		var wg sync.WaitGroup
		errs := make([]error, writers)
		for i := 0; i < writers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, errs[i] = env.svc.CreateVersion(ctx, CreateVersionInput{DocumentID: created.Document.ID, AuthorID: env.owner})
			}(i)
		}
		wg.Wait()
		for _, err := range errs {
			require.NoError(t, err)
		}

		versions, err := env.stores.Versions.ListByDocument(ctx, created.Document.ID)
		require.NoError(t, err)
		require.Len(t, versions, writers+1)
		for i, v := range versions {
			assert.Equal(t, int64(writers+1-i), v.VersionNumber)
		}

		latest, err := env.svc.GetLatestVersion(ctx, created.Document.ID, env.owner)
		require.NoError(t, err)
		assert.Equal(t, versions[0].ID, latest.ID)
	})
}

func TestDocumentService_InPlaceUpdates(t *testing.T) {
	ctx := context.Background()

	t.Run("content update keeps version count and key", func(t *testing.T) {
		env := newTestEnv(t)
		created := env.createDocument(t, "draft")

		v, err := env.svc.UpdateVersionContentInPlace(ctx, UpdateContentInput{
			VersionID: created.Version.ID,
			AuthorID:  env.owner,
			Content:   "draft, extended",
			Metadata:  map[string]interface{}{"streamed": true},
		})
		require.NoError(t, err)
		assert.Equal(t, "draft, extended", v.Content)
		assert.Equal(t, created.Version.VersionNumber, v.VersionNumber)
		assert.Equal(t, int64(1), env.versionCount(t, created.Document.ID))

		stored, err := env.svc.GetVersion(ctx, created.Version.ID, env.owner)
		require.NoError(t, err)
		assert.Equal(t, "draft, extended", stored.Content)
		assert.Equal(t, true, stored.Metadata["streamed"])

		assert.Equal(t, []string{"document.created", "document.version.updated"}, env.pub.routingKeys())
	})

	t.Run("returned version matches the stored row", func(t *testing.T) {
		env := newTestEnv(t)
		created := env.createDocument(t, "draft")

		v, err := env.svc.UpdateVersionContentInPlace(ctx, UpdateContentInput{
			VersionID: created.Version.ID, AuthorID: env.owner, Content: "draft 2",
		})
		require.NoError(t, err)
		stored, err := env.stores.Versions.Get(ctx, created.Version.ID)
		require.NoError(t, err)
		assert.True(t, v.UpdatedAt.Equal(stored.UpdatedAt), "returned %s, stored %s", v.UpdatedAt, stored.UpdatedAt)
		assert.Equal(t, stored.Content, v.Content)

		p, err := env.svc.UpdateVersionPunchlistInPlace(ctx, UpdatePunchlistInput{
			VersionID: created.Version.ID, AuthorID: env.owner, Punchlist: "- todo",
		})
		require.NoError(t, err)
		stored, err = env.stores.Versions.Get(ctx, created.Version.ID)
		require.NoError(t, err)
		assert.True(t, p.UpdatedAt.Equal(stored.UpdatedAt))
		assert.Equal(t, "draft 2", p.Content)
	})

	t.Run("nil metadata leaves metadata alone", func(t *testing.T) {
		env := newTestEnv(t)
		created, err := env.svc.CreateDocument(ctx, CreateDocumentInput{
			ObjectiveID: env.objective.ID, WorkspaceID: env.workspace.ID, AuthorID: env.owner,
			Metadata: map[string]interface{}{"k": "v"},
		})
		require.NoError(t, err)

		_, err = env.svc.UpdateVersionContentInPlace(ctx, UpdateContentInput{
			VersionID: created.Version.ID, AuthorID: env.owner, Content: "new",
		})
		require.NoError(t, err)

		stored, err := env.svc.GetVersion(ctx, created.Version.ID, env.owner)
		require.NoError(t, err)
		assert.Equal(t, "v", stored.Metadata["k"])
	})

	t.Run("punchlist update", func(t *testing.T) {
		env := newTestEnv(t)
		created := env.createDocument(t, "draft")

		v, err := env.svc.UpdateVersionPunchlistInPlace(ctx, UpdatePunchlistInput{
			VersionID: created.Version.ID, AuthorID: env.owner, Punchlist: "- [x] outline",
		})
		require.NoError(t, err)
		require.NotNil(t, v.Punchlist)
		assert.Equal(t, "- [x] outline", *v.Punchlist)
		assert.Equal(t, "draft", v.Content)
		assert.Equal(t, int64(1), env.versionCount(t, created.Document.ID))
	})

	t.Run("foreign author and unknown version are not found", func(t *testing.T) {
		env := newTestEnv(t)
		created := env.createDocument(t, "draft")

		_, err := env.svc.UpdateVersionContentInPlace(ctx, UpdateContentInput{
			VersionID: created.Version.ID, AuthorID: uuid.New(), Content: "hijack",
		})
		assert.ErrorIs(t, err, ErrNotFound)

		_, err = env.svc.UpdateVersionPunchlistInPlace(ctx, UpdatePunchlistInput{
			VersionID: uuid.New(), AuthorID: env.owner, Punchlist: "x",
		})
		assert.ErrorIs(t, err, ErrNotFound)

		stored, err := env.svc.GetVersion(ctx, created.Version.ID, uuid.Nil)
		require.NoError(t, err)
		assert.Equal(t, "draft", stored.Content)
	})
}

func TestDocumentService_GetDocumentByObjective(t *testing.T) {
	ctx := context.Background()

	t.Run("no document is nil without error", func(t *testing.T) {
		env := newTestEnv(t)
		view, err := env.svc.GetDocumentByObjective(ctx, env.objective.ID, env.owner)
		require.NoError(t, err)
		assert.Nil(t, view)

		view, err = env.svc.GetDocumentByObjective(ctx, env.objective.ID, uuid.Nil)
		require.NoError(t, err)
		assert.Nil(t, view)
	})

	t.Run("unknown objective is not found", func(t *testing.T) {
		env := newTestEnv(t)
		_, err := env.svc.GetDocumentByObjective(ctx, uuid.New(), env.owner)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("versions are newest first", func(t *testing.T) {
		env := newTestEnv(t)
		created := env.createDocument(t, "v1")
		v2, err := env.svc.CreateVersion(ctx, CreateVersionInput{
			DocumentID: created.Document.ID, AuthorID: env.owner, Overrides: VersionOverrides{Content: strPtr("v2")},
		})
		require.NoError(t, err)

		view, err := env.svc.GetDocumentByObjective(ctx, env.objective.ID, env.owner)
		require.NoError(t, err)
		require.NotNil(t, view)
		assert.Equal(t, created.Document.ID, view.Document.ID)
		require.Len(t, view.Versions, 2)
		assert.Equal(t, v2.ID, view.Versions[0].ID)
		assert.Equal(t, created.Version.ID, view.Versions[1].ID)
		require.NotNil(t, view.LatestVersion)
		assert.Equal(t, v2.ID, view.LatestVersion.ID)
	})

	t.Run("soft-deleted workspace hides the document", func(t *testing.T) {
		env := newTestEnv(t)
		env.createDocument(t, "v1")
		require.NoError(t, env.ws.DeleteWorkspace(ctx, env.workspace.ID, env.owner))

		_, err := env.svc.GetDocumentByObjective(ctx, env.objective.ID, env.owner)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestDocumentService_DeleteDocument(t *testing.T) {
	ctx := context.Background()

	t.Run("attacker gets not found and nothing changes", func(t *testing.T) {
		env := newTestEnv(t)
		created := env.createDocument(t, "keep")
		attacker := uuid.New()

		err := env.svc.DeleteDocument(ctx, created.Document.ID, attacker)
		assert.ErrorIs(t, err, ErrNotFound)
		assert.Equal(t, KindNotFound, KindOf(err))

		view, err := env.svc.GetDocumentByObjective(ctx, env.objective.ID, env.owner)
		require.NoError(t, err)
		require.NotNil(t, view)
		assert.Equal(t, created.Document.ID, view.Document.ID)
		require.Len(t, view.Versions, 1)
		assert.Equal(t, "keep", view.Versions[0].Content)
	})

	t.Run("owner delete cascades and unbinds", func(t *testing.T) {
		env := newTestEnv(t)
		sid := env.newSession(t)
		bound, err := env.svc.BindSessionToVersion(ctx, BindSessionInput{
			SessionID: sid, ObjectiveID: env.objective.ID, AuthorID: env.owner, WorkspaceID: env.workspace.ID,
		})
		require.NoError(t, err)

		require.NoError(t, env.svc.DeleteDocument(ctx, bound.DocumentID, env.owner))

		view, err := env.svc.GetDocumentByObjective(ctx, env.objective.ID, env.owner)
		require.NoError(t, err)
		assert.Nil(t, view)

		var count int64
		require.NoError(t, env.db.Model(&model.DocumentVersion{}).Where("document_id = ?", bound.DocumentID).Count(&count).Error)
		assert.Zero(t, count)

		sess, err := env.stores.Sessions.Get(ctx, sid)
		require.NoError(t, err)
		assert.Nil(t, sess.BoundVersionID)

		err = env.svc.DeleteDocument(ctx, bound.DocumentID, env.owner)
		assert.ErrorIs(t, err, ErrNotFound)

		keys := env.pub.routingKeys()
		assert.Equal(t, "document.deleted", keys[len(keys)-1])
	})

	t.Run("objective can get a new document after delete", func(t *testing.T) {
		env := newTestEnv(t)
		first := env.createDocument(t, "first")
		require.NoError(t, env.svc.DeleteDocument(ctx, first.Document.ID, env.owner))

		second := env.createDocument(t, "second")
		assert.NotEqual(t, first.Document.ID, second.Document.ID)
		assert.Equal(t, int64(1), second.Version.VersionNumber)
	})
}

func TestDocumentService_ListWorkspaceDocuments(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	first := env.createDocument(t, "a1")
	a2, err := env.svc.CreateVersion(ctx, CreateVersionInput{
		DocumentID: first.Document.ID, AuthorID: env.owner, Overrides: VersionOverrides{Content: strPtr("a2")},
	})
	require.NoError(t, err)

	second, err := env.ws.CreateObjective(ctx, CreateObjectiveInput{WorkspaceID: env.workspace.ID, AuthorID: env.owner, Title: "Hiring"})
	require.NoError(t, err)
	b, err := env.svc.CreateDocument(ctx, CreateDocumentInput{
		ObjectiveID: second.ID, WorkspaceID: env.workspace.ID, AuthorID: env.owner, Content: "b1",
	})
	require.NoError(t, err)

	_, err = env.ws.CreateObjective(ctx, CreateObjectiveInput{WorkspaceID: env.workspace.ID, AuthorID: env.owner, Title: "Empty"})
	require.NoError(t, err)

	t.Run("all documents with latest versions", func(t *testing.T) {
		items, err := env.svc.ListWorkspaceDocuments(ctx, ListWorkspaceDocumentsInput{WorkspaceID: env.workspace.ID, AuthorID: env.owner})
		require.NoError(t, err)
		require.Len(t, items, 2)

		byDoc := map[uuid.UUID]WorkspaceDocument{}
		for _, it := range items {
			byDoc[it.Document.ID] = it
		}
		assert.Equal(t, a2.ID, byDoc[first.Document.ID].LatestVersion.ID)
		assert.Equal(t, env.objective.ID, byDoc[first.Document.ID].Objective.ID)
		assert.Equal(t, b.Version.ID, byDoc[b.Document.ID].LatestVersion.ID)
		assert.Equal(t, second.ID, byDoc[b.Document.ID].Objective.ID)
	})

	t.Run("objective filter", func(t *testing.T) {
		items, err := env.svc.ListWorkspaceDocuments(ctx, ListWorkspaceDocumentsInput{
			WorkspaceID: env.workspace.ID, AuthorID: env.owner, ObjectiveID: &second.ID,
		})
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, b.Document.ID, items[0].Document.ID)
	})

	t.Run("foreign author", func(t *testing.T) {
		_, err := env.svc.ListWorkspaceDocuments(ctx, ListWorkspaceDocumentsInput{WorkspaceID: env.workspace.ID, AuthorID: uuid.New()})
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestDocumentService_ListVersions(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	created := env.createDocument(t, "v1")
	for i := 0; i < 4; i++ {
		_, err := env.svc.CreateVersion(ctx, CreateVersionInput{DocumentID: created.Document.ID, AuthorID: env.owner})
		require.NoError(t, err)
	}

	page1, err := env.svc.ListVersions(ctx, ListVersionsInput{DocumentID: created.Document.ID, AuthorID: env.owner, Limit: 3})
	require.NoError(t, err)
	require.Len(t, page1.Items, 3)
	assert.True(t, page1.HasMore)
	assert.Equal(t, int64(5), page1.Items[0].VersionNumber)
	require.NotEmpty(t, page1.NextCursor)

	page2, err := env.svc.ListVersions(ctx, ListVersionsInput{DocumentID: created.Document.ID, AuthorID: env.owner, Limit: 3, Cursor: page1.NextCursor})
	require.NoError(t, err)
	require.Len(t, page2.Items, 2)
	assert.False(t, page2.HasMore)
	assert.Empty(t, page2.NextCursor)
	assert.Equal(t, int64(1), page2.Items[1].VersionNumber)

	_, err = env.svc.ListVersions(ctx, ListVersionsInput{DocumentID: created.Document.ID, AuthorID: env.owner, Limit: 3, Cursor: "garbage!"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = env.svc.ListVersions(ctx, ListVersionsInput{DocumentID: created.Document.ID, AuthorID: env.owner, Limit: 0})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestDocumentService_PublishFailureDoesNotFail(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	failing := &MockPublisher{}
	failing.On("PublishJSON", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("broker down"))
	env.svc.(*documentService).events = failing

	out := env.createDocument(t, "still saved")
	latest, err := env.svc.GetLatestVersion(ctx, out.Document.ID, env.owner)
	require.NoError(t, err)
	assert.Equal(t, "still saved", latest.Content)
	failing.AssertNumberOfCalls(t, "PublishJSON", 1)
}

func TestDocumentService_CancelledContextRollsBack(t *testing.T) {
	env := newTestEnv(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := env.svc.CreateDocument(ctx, CreateDocumentInput{
		ObjectiveID: env.objective.ID, WorkspaceID: env.workspace.ID, AuthorID: env.owner, Content: "x",
	})
	require.Error(t, err)
	assert.Equal(t, KindDatabase, KindOf(err))

	view, err := env.svc.GetDocumentByObjective(context.Background(), env.objective.ID, env.owner)
	require.NoError(t, err)
	assert.Nil(t, view)
}

func TestClassify(t *testing.T) {
	log := zap.NewNop()

	tests := []struct {
		name string
		err  error
		want error
	}{
		{"already classified", validationErr("op", "bad"), ErrValidation},
		{"record not found", gorm.ErrRecordNotFound, ErrNotFound},
		{"unique violation", gorm.ErrDuplicatedKey, ErrConflict},
		{"objective already bound", repo.ErrDocumentAlreadyBound, ErrConflict},
		{"context cancelled", context.Canceled, ErrDatabase},
		{"anything else", errors.New("connection reset"), ErrDatabase},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := classify(log, "op", "thing", tt.err)
			assert.ErrorIs(t, err, tt.want)
			assert.NotContains(t, err.Error(), "connection reset", "driver text never leaks")
		})
	}
}
