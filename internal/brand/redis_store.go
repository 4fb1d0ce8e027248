package brand

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jonathan/creative-engine/internal/types"
	"github.com/redis/go-redis/v9"
)

// defaultKeyPrefix namespaces brand entries in a shared Redis.
const defaultKeyPrefix = "brand:"

// RedisStore keeps brand identities in Redis so several processes share
// one resolution per company.
type RedisStore struct {
	rdb    *redis.Client
	prefix string
}

// NewRedisStore wraps an existing client.
func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb, prefix: defaultKeyPrefix}
}

// OpenRedisStore connects to the Redis at redisURL and verifies the connection.
func OpenRedisStore(ctx context.Context, redisURL string) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return NewRedisStore(rdb), nil
}

// Get implements Store.
func (s *RedisStore) Get(ctx context.Context, key string) (types.BrandIdentity, bool, error) {
	val, err := s.rdb.Get(ctx, s.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return types.BrandIdentity{}, false, nil
	}
	if err != nil {
		return types.BrandIdentity{}, false, err
	}
	var identity types.BrandIdentity
	if err := json.Unmarshal(val, &identity); err != nil {
		return types.BrandIdentity{}, false, fmt.Errorf("failed to decode cached identity: %w", err)
	}
	return identity, true, nil
}

// Set implements Store.
func (s *RedisStore) Set(ctx context.Context, key string, identity types.BrandIdentity, ttl time.Duration) error {
	data, err := json.Marshal(identity)
	if err != nil {
		return fmt.Errorf("failed to marshal identity: %w", err)
	}
	return s.rdb.Set(ctx, s.prefix+key, data, ttl).Err()
}

// Delete implements Store.
func (s *RedisStore) Delete(ctx context.Context, key string) error {
	return s.rdb.Del(ctx, s.prefix+key).Err()
}

// Clear implements Store by deleting every key under the brand prefix.
func (s *RedisStore) Clear(ctx context.Context) error {
	iter := s.rdb.Scan(ctx, 0, s.prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := s.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

// Close closes the underlying client.
func (s *RedisStore) Close() error {
	return s.rdb.Close()
}
