package comments

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/camp-forge/internal/models"
)

func TestMemoryDeleteByCampground(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	for _, c := range []*models.Comment{
		{ID: "c1", CampgroundID: "camp-1", Text: "a"},
		{ID: "c2", CampgroundID: "camp-1", Text: "b"},
		{ID: "c3", CampgroundID: "camp-2", Text: "c"},
	} {
		_, err := repo.Create(ctx, c)
		require.NoError(t, err)
	}

	removed, err := repo.DeleteByCampground(ctx, "camp-1")
	require.NoError(t, err)
	assert.EqualValues(t, 2, removed)

	// 他のキャンプ場のコメントは残ります。
	left, err := repo.ListByCampground(ctx, "camp-2")
	require.NoError(t, err)
	require.Len(t, left, 1)

	// 既に空の場合は 0 件の正常終了です。
	removed, err = repo.DeleteByCampground(ctx, "camp-1")
	require.NoError(t, err)
	assert.EqualValues(t, 0, removed)
}

func TestMemoryUpdateImmutableFields(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	author := models.AuthorRef{ID: "alice-id", Username: "alice"}
	_, err := repo.Create(ctx, &models.Comment{ID: "c1", CampgroundID: "camp-1", Text: "before", Author: author})
	require.NoError(t, err)

	updated, err := repo.Update(ctx, &models.Comment{ID: "c1", Text: "after"})
	require.NoError(t, err)
	assert.Equal(t, "after", updated.Text)
	assert.Equal(t, author, updated.Author)
	assert.Equal(t, "camp-1", updated.CampgroundID)

	_, err = repo.Update(ctx, &models.Comment{ID: "missing", Text: "x"})
	require.ErrorIs(t, err, ErrNotFound)
}
