package comments

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/yourusername/camp-forge/internal/models"
)

// MemoryRepository はテストおよびDBなし開発用のインメモリ実装です。
type MemoryRepository struct {
	mu       sync.Mutex
	comments map[string]*models.Comment
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{comments: make(map[string]*models.Comment)}
}

func (r *MemoryRepository) Create(ctx context.Context, comment *models.Comment) (*models.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = now
	}
	comment.UpdatedAt = now
	stored := *comment
	r.comments[comment.ID] = &stored
	return comment, nil
}

func (r *MemoryRepository) FindByID(ctx context.Context, id string) (*models.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	comment, ok := r.comments[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *comment
	return &copied, nil
}

func (r *MemoryRepository) ListByCampground(ctx context.Context, campgroundID string) ([]*models.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var list []*models.Comment
	for _, comment := range r.comments {
		if comment.CampgroundID != campgroundID {
			continue
		}
		copied := *comment
		list = append(list, &copied)
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].CreatedAt.Before(list[j].CreatedAt)
	})
	return list, nil
}

func (r *MemoryRepository) Update(ctx context.Context, comment *models.Comment) (*models.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.comments[comment.ID]
	if !ok {
		return nil, ErrNotFound
	}
	current.Text = comment.Text
	current.UpdatedAt = time.Now().UTC()

	copied := *current
	return &copied, nil
}

func (r *MemoryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.comments[id]; !ok {
		return ErrNotFound
	}
	delete(r.comments, id)
	return nil
}

func (r *MemoryRepository) DeleteByCampground(ctx context.Context, campgroundID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var removed int64
	for id, comment := range r.comments {
		if comment.CampgroundID == campgroundID {
			delete(r.comments, id)
			removed++
		}
	}
	return removed, nil
}
