// cache/cache.go
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

// FreshnessWindow is how long a cached entry counts as fresh. Past the
// window the entry is stale: still returned, but flagged for refresh.
const FreshnessWindow = 5 * time.Minute

// Store is a freshness-tracking cache for catalog reads. Staleness never
// evicts: a stale value is returned alongside needsRefresh=true so callers
// can show last-known data while refetching in the background. Only
// Invalidate and Clear remove entries.
type Store interface {
	// Get returns the cached value (fresh or stale) and whether the caller
	// should trigger a refetch. An absent key yields (nil, true).
	Get(ctx context.Context, key string) (json.RawMessage, bool, error)
	// GetMany returns whichever of the requested keys are present. Missing
	// keys are simply absent from the map; the caller batches the fetch.
	GetMany(ctx context.Context, keys []string) (map[string]json.RawMessage, error)
	// Set overwrites the value and stamps the key as fetched now.
	Set(ctx context.Context, key string, value json.RawMessage) error
	// Invalidate removes a single key, e.g. after an admin edit.
	Invalidate(ctx context.Context, key string) error
	// Clear removes all entries unconditionally.
	Clear(ctx context.Context) error
}

// Cache keys. One namespace per entity kind.
func ProductListKey() string              { return "catalog:products" }
func ProductKey(slug string) string       { return "catalog:product:" + slug }
func VariantsKey(productID string) string { return "catalog:variants:" + productID }
func ReviewsKey(productID string) string  { return "catalog:reviews:" + productID }
func HeroSlidesKey() string               { return "catalog:hero" }
func BlobURLKey(blobID string) string     { return "catalog:blob:" + blobID }

type memoryEntry struct {
	value     json.RawMessage
	fetchedAt time.Time
}

// MemoryStore is the default in-process backend: a mutex-guarded map with
// per-key fetched-at stamps. The clock is injectable for tests.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
	window  time.Duration
}

// NewMemoryStore returns an empty in-process cache with the default
// freshness window.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
		window:  FreshnessWindow,
	}
}

// WithClock replaces the time source. Test hook.
func (m *MemoryStore) WithClock(now func() time.Time) *MemoryStore {
	m.now = now
	return m
}

func (m *MemoryStore) Get(_ context.Context, key string) (json.RawMessage, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.entries[key]
	if !ok {
		return nil, true, nil
	}
	stale := m.now().Sub(e.fetchedAt) >= m.window
	return e.value, stale, nil
}

func (m *MemoryStore) GetMany(_ context.Context, keys []string) (map[string]json.RawMessage, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]json.RawMessage, len(keys))
	for _, key := range keys {
		if e, ok := m.entries[key]; ok {
			out[key] = e.value
		}
	}
	return out, nil
}

func (m *MemoryStore) Set(_ context.Context, key string, value json.RawMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = memoryEntry{value: value, fetchedAt: m.now()}
	return nil
}

func (m *MemoryStore) Invalidate(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
	return nil
}

func (m *MemoryStore) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = make(map[string]memoryEntry)
	return nil
}

// SetJSON marshals v and stores it under key.
func SetJSON(ctx context.Context, s Store, key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal cache value: %w", err)
	}
	return s.Set(ctx, key, data)
}

// GetJSON reads key into v. ok reports whether a value was present at all;
// needsRefresh follows Store.Get semantics.
func GetJSON(ctx context.Context, s Store, key string, v interface{}) (ok bool, needsRefresh bool, err error) {
	data, needsRefresh, err := s.Get(ctx, key)
	if err != nil {
		return false, needsRefresh, err
	}
	if data == nil {
		return false, true, nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, true, fmt.Errorf("unmarshal cache value: %w", err)
	}
	return true, needsRefresh, nil
}
