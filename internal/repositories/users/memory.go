package users

import (
	"context"
	"sync"
	"time"

	"github.com/yourusername/camp-forge/internal/models"
)

// MemoryRepository はテストおよびDBなし開発用のインメモリ実装です。
// 一意性チェックと挿入を同一ロック内で行うため、同時登録でも
// 同名ユーザーは高々1人しか作成されません。
type MemoryRepository struct {
	mu         sync.Mutex
	byID       map[string]*models.User
	byUsername map[string]string
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byID:       make(map[string]*models.User),
		byUsername: make(map[string]string),
	}
}

func (r *MemoryRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byUsername[user.Username]; ok {
		return nil, ErrDuplicateUsername
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	stored := *user
	r.byID[user.ID] = &stored
	r.byUsername[user.Username] = user.ID
	return user, nil
}

func (r *MemoryRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id, ok := r.byUsername[username]
	if !ok {
		return nil, ErrNotFound
	}
	u := *r.byID[id]
	return &u, nil
}

func (r *MemoryRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *u
	return &copied, nil
}
