package cache

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestRedis creates a miniredis server and a RedisStore on top of it
func setupTestRedis(t *testing.T) (*RedisStore, *time.Time) {
	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	now := time.Now()
	store := NewRedisStore(client).WithClock(func() time.Time { return now })
	return store, &now
}

func TestRedisGetAbsent(t *testing.T) {
	store, _ := setupTestRedis(t)

	value, needsRefresh, err := store.Get(context.Background(), ProductListKey())
	require.NoError(t, err)
	assert.Nil(t, value)
	assert.True(t, needsRefresh)
}

func TestRedisFreshThenStale(t *testing.T) {
	store, now := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, ProductKey("gold-ring"), json.RawMessage(`{"name":"Gold Ring"}`)))

	value, needsRefresh, err := store.Get(ctx, ProductKey("gold-ring"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"Gold Ring"}`, string(value))
	assert.False(t, needsRefresh)

	// The entry must survive past the freshness window; only the flag flips.
	*now = now.Add(FreshnessWindow + time.Second)
	value, needsRefresh, err = store.Get(ctx, ProductKey("gold-ring"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"Gold Ring"}`, string(value))
	assert.True(t, needsRefresh)
}

func TestRedisGetManyPartial(t *testing.T) {
	store, _ := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, BlobURLKey("a"), json.RawMessage(`"https://cdn/a"`)))

	got, err := store.GetMany(ctx, []string{BlobURLKey("a"), BlobURLKey("b")})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.JSONEq(t, `"https://cdn/a"`, string(got[BlobURLKey("a")]))
}

func TestRedisInvalidateAndClear(t *testing.T) {
	store, _ := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, ProductListKey(), json.RawMessage(`[]`)))
	require.NoError(t, store.Set(ctx, HeroSlidesKey(), json.RawMessage(`[]`)))

	require.NoError(t, store.Invalidate(ctx, ProductListKey()))
	value, _, err := store.Get(ctx, ProductListKey())
	require.NoError(t, err)
	assert.Nil(t, value)

	require.NoError(t, store.Clear(ctx))
	value, _, err = store.Get(ctx, HeroSlidesKey())
	require.NoError(t, err)
	assert.Nil(t, value)
}
