package jobs

import (
	"context"
	"encoding/json"
	"log"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/camp-forge/internal/models"
	"github.com/yourusername/camp-forge/internal/repositories/comments"
)

func newTestManager(t *testing.T, repo comments.Repository) *Manager {
	t.Helper()
	// クライアントもサーバーも起動しない限り Redis には接続しません。
	manager, err := NewManager("redis://127.0.0.1:6379/0", repo, log.Default())
	require.NoError(t, err)
	return manager
}

func TestHandlePurgeTask(t *testing.T) {
	repo := comments.NewMemoryRepository()
	ctx := context.Background()
	for _, c := range []*models.Comment{
		{ID: "c1", CampgroundID: "camp-1", Text: "a"},
		{ID: "c2", CampgroundID: "camp-1", Text: "b"},
		{ID: "c3", CampgroundID: "camp-2", Text: "c"},
	} {
		_, err := repo.Create(ctx, c)
		require.NoError(t, err)
	}

	manager := newTestManager(t, repo)

	body, err := json.Marshal(&PurgePayload{CampgroundID: "camp-1"})
	require.NoError(t, err)
	task := asynq.NewTask(taskTypePurgeComments, body)

	require.NoError(t, manager.handlePurgeTask(ctx, task))

	left, err := repo.ListByCampground(ctx, "camp-1")
	require.NoError(t, err)
	assert.Empty(t, left)

	left, err = repo.ListByCampground(ctx, "camp-2")
	require.NoError(t, err)
	assert.Len(t, left, 1)
}

func TestHandlePurgeTaskEmptyCampgroundIsNoop(t *testing.T) {
	repo := comments.NewMemoryRepository()
	manager := newTestManager(t, repo)

	body, err := json.Marshal(&PurgePayload{CampgroundID: "camp-1"})
	require.NoError(t, err)

	require.NoError(t, manager.handlePurgeTask(context.Background(), asynq.NewTask(taskTypePurgeComments, body)))
}

func TestHandlePurgeTaskInvalidPayload(t *testing.T) {
	manager := newTestManager(t, comments.NewMemoryRepository())

	err := manager.handlePurgeTask(context.Background(), asynq.NewTask(taskTypePurgeComments, []byte(`{}`)))
	require.Error(t, err)
}

func TestSchedulePurgeRequiresCampgroundID(t *testing.T) {
	manager := newTestManager(t, comments.NewMemoryRepository())

	err := manager.SchedulePurge(context.Background(), "")
	require.Error(t, err)
}
