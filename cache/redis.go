// cache/redis.go
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// keyPrefix namespaces every cache entry so Clear can scan-and-delete
// without touching unrelated keys.
const keyPrefix = "storefront:"

// redisEnvelope wraps the payload with its fetched-at stamp. Freshness is
// computed client-side; entries carry no server TTL because staleness must
// not evict them.
type redisEnvelope struct {
	Data      json.RawMessage `json:"data"`
	FetchedAt time.Time       `json:"fetched_at"`
}

// RedisStore is an alternative backend for deployments that want the cache
// shared across instances. Same semantics as MemoryStore.
type RedisStore struct {
	client *redis.Client
	now    func() time.Time
	window time.Duration
}

// NewRedisStore wraps an existing client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{
		client: client,
		now:    time.Now,
		window: FreshnessWindow,
	}
}

// WithClock replaces the time source. Test hook.
func (r *RedisStore) WithClock(now func() time.Time) *RedisStore {
	r.now = now
	return r
}

func (r *RedisStore) Get(ctx context.Context, key string) (json.RawMessage, bool, error) {
	data, err := r.client.Get(ctx, keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, true, nil
	}
	if err != nil {
		return nil, true, fmt.Errorf("redis get failed: %w", err)
	}

	var env redisEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, true, fmt.Errorf("unmarshal cache envelope failed: %w", err)
	}

	stale := r.now().Sub(env.FetchedAt) >= r.window
	return env.Data, stale, nil
}

func (r *RedisStore) GetMany(ctx context.Context, keys []string) (map[string]json.RawMessage, error) {
	out := make(map[string]json.RawMessage, len(keys))
	for _, key := range keys {
		value, _, err := r.Get(ctx, key)
		if err != nil {
			return nil, err
		}
		if value != nil {
			out[key] = value
		}
	}
	return out, nil
}

func (r *RedisStore) Set(ctx context.Context, key string, value json.RawMessage) error {
	env := redisEnvelope{Data: value, FetchedAt: r.now()}
	data, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal cache envelope failed: %w", err)
	}
	if err := r.client.Set(ctx, keyPrefix+key, data, 0).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (r *RedisStore) Invalidate(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, keyPrefix+key).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func (r *RedisStore) Clear(ctx context.Context) error {
	var cursor uint64
	for {
		keys, next, err := r.client.Scan(ctx, cursor, keyPrefix+"*", 100).Result()
		if err != nil {
			return fmt.Errorf("redis scan failed: %w", err)
		}
		if len(keys) > 0 {
			if err := r.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("redis delete failed: %w", err)
			}
		}
		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}
