package cache

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryGetAbsent(t *testing.T) {
	store := NewMemoryStore()

	value, needsRefresh, err := store.Get(context.Background(), ProductListKey())
	require.NoError(t, err)
	assert.Nil(t, value)
	assert.True(t, needsRefresh)
}

func TestMemoryFreshThenStale(t *testing.T) {
	now := time.Now()
	store := NewMemoryStore().WithClock(func() time.Time { return now })
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, ProductKey("gold-ring"), json.RawMessage(`{"name":"Gold Ring"}`)))

	// Immediately after Set: value present, no refresh needed.
	value, needsRefresh, err := store.Get(ctx, ProductKey("gold-ring"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"Gold Ring"}`, string(value))
	assert.False(t, needsRefresh)

	// Past the freshness window: value still present, refresh flagged.
	now = now.Add(FreshnessWindow + time.Second)
	value, needsRefresh, err = store.Get(ctx, ProductKey("gold-ring"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"Gold Ring"}`, string(value))
	assert.True(t, needsRefresh)
}

func TestMemorySetResetsFreshness(t *testing.T) {
	now := time.Now()
	store := NewMemoryStore().WithClock(func() time.Time { return now })
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, HeroSlidesKey(), json.RawMessage(`[]`)))
	now = now.Add(FreshnessWindow + time.Minute)
	require.NoError(t, store.Set(ctx, HeroSlidesKey(), json.RawMessage(`[1]`)))

	value, needsRefresh, err := store.Get(ctx, HeroSlidesKey())
	require.NoError(t, err)
	assert.Equal(t, `[1]`, string(value))
	assert.False(t, needsRefresh)
}

func TestMemoryGetMany(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, BlobURLKey("a"), json.RawMessage(`"https://cdn/a"`)))
	require.NoError(t, store.Set(ctx, BlobURLKey("c"), json.RawMessage(`"https://cdn/c"`)))

	got, err := store.GetMany(ctx, []string{BlobURLKey("a"), BlobURLKey("b"), BlobURLKey("c")})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Contains(t, got, BlobURLKey("a"))
	assert.Contains(t, got, BlobURLKey("c"))
	assert.NotContains(t, got, BlobURLKey("b"))
}

func TestMemoryInvalidate(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, ProductListKey(), json.RawMessage(`[]`)))
	require.NoError(t, store.Invalidate(ctx, ProductListKey()))

	value, needsRefresh, err := store.Get(ctx, ProductListKey())
	require.NoError(t, err)
	assert.Nil(t, value)
	assert.True(t, needsRefresh)
}

func TestMemoryClear(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, ProductListKey(), json.RawMessage(`[]`)))
	require.NoError(t, store.Set(ctx, HeroSlidesKey(), json.RawMessage(`[]`)))
	require.NoError(t, store.Clear(ctx))

	value, _, err := store.Get(ctx, ProductListKey())
	require.NoError(t, err)
	assert.Nil(t, value)
	value, _, err = store.Get(ctx, HeroSlidesKey())
	require.NoError(t, err)
	assert.Nil(t, value)
}

func TestGetJSONSetJSON(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	type payload struct {
		Name string `json:"name"`
	}

	require.NoError(t, SetJSON(ctx, store, ProductKey("pearl"), payload{Name: "Pearl"}))

	var got payload
	ok, needsRefresh, err := GetJSON(ctx, store, ProductKey("pearl"), &got)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.False(t, needsRefresh)
	assert.Equal(t, "Pearl", got.Name)

	ok, needsRefresh, err = GetJSON(ctx, store, ProductKey("missing"), &got)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.True(t, needsRefresh)
}
