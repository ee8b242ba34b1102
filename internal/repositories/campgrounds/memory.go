package campgrounds

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/yourusername/camp-forge/internal/models"
)

// MemoryRepository はテストおよびDBなし開発用のインメモリ実装です。
type MemoryRepository struct {
	mu    sync.Mutex
	camps map[string]*models.Campground
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{camps: make(map[string]*models.Campground)}
}

func (r *MemoryRepository) Create(ctx context.Context, camp *models.Campground) (*models.Campground, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	if camp.CreatedAt.IsZero() {
		camp.CreatedAt = now
	}
	camp.UpdatedAt = now
	stored := *camp
	r.camps[camp.ID] = &stored
	return camp, nil
}

func (r *MemoryRepository) FindByID(ctx context.Context, id string) (*models.Campground, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	camp, ok := r.camps[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *camp
	return &copied, nil
}

func (r *MemoryRepository) List(ctx context.Context) ([]*models.Campground, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	camps := make([]*models.Campground, 0, len(r.camps))
	for _, camp := range r.camps {
		copied := *camp
		camps = append(camps, &copied)
	}
	sort.Slice(camps, func(i, j int) bool {
		return camps[i].CreatedAt.After(camps[j].CreatedAt)
	})
	return camps, nil
}

func (r *MemoryRepository) Update(ctx context.Context, camp *models.Campground) (*models.Campground, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.camps[camp.ID]
	if !ok {
		return nil, ErrNotFound
	}
	current.Name = camp.Name
	current.ImageURL = camp.ImageURL
	current.Description = camp.Description
	current.UpdatedAt = time.Now().UTC()

	copied := *current
	return &copied, nil
}

func (r *MemoryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.camps[id]; !ok {
		return ErrNotFound
	}
	delete(r.camps, id)
	return nil
}
