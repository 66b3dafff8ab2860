package cache

import (
	"context"
	"path"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/redis/go-redis/v9"
)

// The redis cache implements the Cache interface using Redis as the
// backend, for deployments where several gateway instances should share
// tool-side lookups. Keys are namespaced under the given prefix:
// `/<prefix>/toolcache/<key>`.

type redisCache struct {
	client *redis.Client
	prefix string
}

// NewRedisCache returns a Cache backed by the given Redis client.
func NewRedisCache(client *redis.Client, prefix string) Cache {
	return &redisCache{
		client: client,
		prefix: prefix,
	}
}

func (m *redisCache) key(key string) string {
	return path.Join(m.prefix, "toolcache", key)
}

func (m *redisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := m.client.Get(ctx, m.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, errors.Wrap(err, "failed to get value from Redis")
	}
	return data, true, nil
}

func (m *redisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := m.client.Set(ctx, m.key(key), value, ttl).Err(); err != nil {
		return errors.Wrap(err, "failed to store value in Redis")
	}
	return nil
}

func (m *redisCache) Delete(ctx context.Context, key string) error {
	if err := m.client.Del(ctx, m.key(key)).Err(); err != nil {
		return errors.Wrap(err, "failed to delete value from Redis")
	}
	return nil
}
