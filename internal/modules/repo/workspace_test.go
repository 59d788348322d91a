package repo

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestWorkspaceRepo_GetOwned(t *testing.T) {
	db := setupTestDB(t)
	f := newFixture(t, db)
	r := NewWorkspaceRepo(db)
	ctx := context.Background()

	t.Run("owner sees workspace", func(t *testing.T) {
		w, err := r.GetOwned(ctx, f.workspace.ID, f.owner)
		require.NoError(t, err)
		assert.Equal(t, f.workspace.ID, w.ID)
	})

	t.Run("other user gets not found", func(t *testing.T) {
		_, err := r.GetOwned(ctx, f.workspace.ID, uuid.New())
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	})
}

func TestWorkspaceRepo_SoftDelete(t *testing.T) {
	db := setupTestDB(t)
	f := newFixture(t, db)
	r := NewWorkspaceRepo(db)
	ctx := context.Background()

	t.Run("non-owner cannot delete", func(t *testing.T) {
		err := r.SoftDelete(ctx, f.workspace.ID, uuid.New())
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	})

	t.Run("owner soft deletes and row is hidden", func(t *testing.T) {
		require.NoError(t, r.SoftDelete(ctx, f.workspace.ID, f.owner))

		_, err := r.GetOwned(ctx, f.workspace.ID, f.owner)
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

		var count int64
		require.NoError(t, db.Unscoped().Table("workspaces").Where("id = ?", f.workspace.ID).Count(&count).Error)
		assert.Equal(t, int64(1), count, "soft delete keeps the row")
	})

	t.Run("objectives survive soft delete", func(t *testing.T) {
		o, err := NewObjectiveRepo(db).Get(ctx, f.objective.ID)
		require.NoError(t, err)
		assert.Equal(t, f.workspace.ID, o.WorkspaceID)
	})
}
