package controllers

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jewelry-commerce/cache"
)

func TestInvalidateDropsListEvenWithoutSlug(t *testing.T) {
	store := cache.NewMemoryStore()
	pc := &ProductController{Prefetcher: cache.NewPrefetcher(store, nil)}
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, cache.ProductListKey(), json.RawMessage(`[]`)))
	require.NoError(t, store.Set(ctx, cache.ProductKey("gold-ring"), json.RawMessage(`{}`)))

	// The slug may be unknown when the post-update read fails; the list
	// entry is dropped regardless.
	pc.invalidate(ctx, "")

	value, needsRefresh, err := store.Get(ctx, cache.ProductListKey())
	require.NoError(t, err)
	assert.Nil(t, value)
	assert.True(t, needsRefresh)

	// The detail entry survives until a slug is available.
	value, _, err = store.Get(ctx, cache.ProductKey("gold-ring"))
	require.NoError(t, err)
	assert.NotNil(t, value)

	pc.invalidate(ctx, "gold-ring")
	value, _, err = store.Get(ctx, cache.ProductKey("gold-ring"))
	require.NoError(t, err)
	assert.Nil(t, value)
}
