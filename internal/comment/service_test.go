package comment

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/camp-forge/internal/models"
	"github.com/yourusername/camp-forge/internal/repositories/campgrounds"
	"github.com/yourusername/camp-forge/internal/repositories/comments"
)

func newTestService(t *testing.T) (*Service, *models.Campground) {
	t.Helper()
	campRepo := campgrounds.NewMemoryRepository()
	commentRepo := comments.NewMemoryRepository()

	camp, err := campRepo.Create(context.Background(), &models.Campground{
		ID:     "camp-1",
		Name:   "Lake View",
		Author: models.AuthorRef{ID: "alice-id", Username: "alice"},
	})
	require.NoError(t, err)

	return NewService(commentRepo, campRepo), camp
}

func TestServiceCreateAttachesAuthorAndCampground(t *testing.T) {
	svc, camp := newTestService(t)
	author := models.AuthorRef{ID: "bob-id", Username: "bob"}

	comment, err := svc.Create(context.Background(), camp.ID, author, Input{Text: "nice place"})
	require.NoError(t, err)
	assert.Equal(t, camp.ID, comment.CampgroundID)
	assert.Equal(t, author, comment.Author)
}

func TestServiceCreateOnMissingCampground(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Create(context.Background(), "missing",
		models.AuthorRef{ID: "bob-id", Username: "bob"}, Input{Text: "hello"})
	require.ErrorIs(t, err, ErrCampgroundNotFound)
}

func TestServiceUpdateKeepsAuthorAndCampground(t *testing.T) {
	svc, camp := newTestService(t)
	author := models.AuthorRef{ID: "bob-id", Username: "bob"}
	ctx := context.Background()

	comment, err := svc.Create(ctx, camp.ID, author, Input{Text: "first"})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, comment.ID, Input{Text: "second"})
	require.NoError(t, err)
	assert.Equal(t, "second", updated.Text)
	assert.Equal(t, author, updated.Author)
	assert.Equal(t, camp.ID, updated.CampgroundID)
}

func TestServiceDeleteMissing(t *testing.T) {
	svc, _ := newTestService(t)

	err := svc.Delete(context.Background(), "missing")
	require.ErrorIs(t, err, ErrNotFound)
}
