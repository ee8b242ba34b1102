package auth

import (
	"context"
	"sync"
	"time"
)

// TokenStore はトークンと紐付けデータの保存先です。
// すべての実装は複数リクエストからの同時利用に対して安全でなければ
// なりません。
type TokenStore interface {
	Save(ctx context.Context, token string, data []byte, ttl time.Duration) error
	// Lookup は未登録・期限切れを ok=false の正常系として返します。
	// err はストア自体の障害のみを表します。
	Lookup(ctx context.Context, token string) (data []byte, ok bool, err error)
	Delete(ctx context.Context, token string) error
}

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

// MemoryTokenStore はプロセス内のインメモリ実装です。
// テストと、Redis を持たないローカル開発で使用します。
type MemoryTokenStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemoryTokenStore は MemoryTokenStore を作成します。
func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func (s *MemoryTokenStore) Save(ctx context.Context, token string, data []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := make([]byte, len(data))
	copy(copied, data)
	s.entries[token] = memoryEntry{
		data:      copied,
		expiresAt: s.now().Add(ttl),
	}
	return nil
}

func (s *MemoryTokenStore) Lookup(ctx context.Context, token string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[token]
	if !ok {
		return nil, false, nil
	}
	if s.now().After(entry.expiresAt) {
		delete(s.entries, token)
		return nil, false, nil
	}
	return entry.data, true, nil
}

func (s *MemoryTokenStore) Delete(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, token)
	return nil
}
