package auth

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "session:"

// RedisTokenStore はセッション紐付けを Redis に保存します。
// TTL は Redis 側で管理されるため、期限切れトークンは自然に消滅します。
type RedisTokenStore struct {
	rdb *redis.Client
}

// NewRedisTokenStore は RedisTokenStore を作成します。
func NewRedisTokenStore(rdb *redis.Client) *RedisTokenStore {
	return &RedisTokenStore{rdb: rdb}
}

func (s *RedisTokenStore) Save(ctx context.Context, token string, data []byte, ttl time.Duration) error {
	return s.rdb.Set(ctx, sessionKey(token), data, ttl).Err()
}

func (s *RedisTokenStore) Lookup(ctx context.Context, token string) ([]byte, bool, error) {
	data, err := s.rdb.Get(ctx, sessionKey(token)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, false, nil
		}
		return nil, false, err
	}
	return data, true, nil
}

func (s *RedisTokenStore) Delete(ctx context.Context, token string) error {
	return s.rdb.Del(ctx, sessionKey(token)).Err()
}

func sessionKey(token string) string {
	return sessionKeyPrefix + token
}
