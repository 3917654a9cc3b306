package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jewelry-commerce/models"
)

type fakeSource struct {
	mu            sync.Mutex
	products      []models.Product
	slides        []models.HeroSlide
	blobs         map[string]string
	productCalls  int32
	blobCalls     int32
	failProducts  bool
	failBlobs     bool
	productsDelay time.Duration
}

func (f *fakeSource) ListProducts(ctx context.Context) ([]models.Product, error) {
	atomic.AddInt32(&f.productCalls, 1)
	if f.productsDelay > 0 {
		time.Sleep(f.productsDelay)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failProducts {
		return nil, errors.New("catalog store unreachable")
	}
	return f.products, nil
}

func (f *fakeSource) GetProductBySlug(ctx context.Context, slug string) (*models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.products {
		if p.Slug == slug {
			return &p, nil
		}
	}
	return nil, ErrNotFound
}

func (f *fakeSource) ListVariants(ctx context.Context, productID string) ([]models.Variant, error) {
	return nil, nil
}

func (f *fakeSource) ListReviews(ctx context.Context, productID string) ([]models.Review, error) {
	return nil, nil
}

func (f *fakeSource) ListHeroSlides(ctx context.Context) ([]models.HeroSlide, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.slides, nil
}

func (f *fakeSource) ResolveBlobURLs(ctx context.Context, blobIDs []string) (map[string]string, error) {
	atomic.AddInt32(&f.blobCalls, 1)
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failBlobs {
		return nil, errors.New("blob store unreachable")
	}
	out := make(map[string]string, len(blobIDs))
	for _, id := range blobIDs {
		if url, ok := f.blobs[id]; ok {
			out[id] = url
		}
	}
	return out, nil
}

func catalogFixture() *fakeSource {
	return &fakeSource{
		products: []models.Product{
			{Name: "Gold Ring", Slug: "gold-ring", Images: []string{"blob-1"}},
			{Name: "Pearl Necklace", Slug: "pearl-necklace", Images: []string{"blob-2"}},
		},
		slides: []models.HeroSlide{{Title: "Summer Sale", Image: "blob-3"}},
		blobs: map[string]string{
			"blob-1": "https://cdn/blob-1",
			"blob-2": "https://cdn/blob-2",
			"blob-3": "https://cdn/blob-3",
		},
	}
}

func TestWarmUpPopulatesCache(t *testing.T) {
	src := catalogFixture()
	store := NewMemoryStore()
	p := NewPrefetcher(store, src)
	ctx := context.Background()

	require.NoError(t, p.WarmUp(ctx))

	// Everything the warm-up pass touched is now a cache hit.
	value, needsRefresh, err := store.Get(ctx, ProductListKey())
	require.NoError(t, err)
	assert.NotNil(t, value)
	assert.False(t, needsRefresh)

	urls, err := p.BlobURLs(ctx, []string{"blob-1", "blob-2"})
	require.NoError(t, err)
	assert.Equal(t, "https://cdn/blob-1", urls["blob-1"])
	assert.Equal(t, int32(1), atomic.LoadInt32(&src.blobCalls))
}

func TestProductsFetchedOncePerSession(t *testing.T) {
	src := catalogFixture()
	p := NewPrefetcher(NewMemoryStore(), src)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		products, err := p.Products(ctx)
		require.NoError(t, err)
		assert.Len(t, products, 2)
	}

	assert.Equal(t, int32(1), atomic.LoadInt32(&src.productCalls))
}

func TestConcurrentMissesCollapse(t *testing.T) {
	src := catalogFixture()
	src.productsDelay = 50 * time.Millisecond
	p := NewPrefetcher(NewMemoryStore(), src)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := p.Products(context.Background())
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&src.productCalls))
}

func TestFailedRefreshKeepsStaleValue(t *testing.T) {
	src := catalogFixture()
	now := time.Now()
	store := NewMemoryStore().WithClock(func() time.Time { return now })
	p := NewPrefetcher(store, src)
	ctx := context.Background()

	_, err := p.Products(ctx)
	require.NoError(t, err)

	// Entry goes stale and the upstream starts failing.
	now = now.Add(FreshnessWindow + time.Second)
	src.mu.Lock()
	src.failProducts = true
	src.mu.Unlock()

	products, err := p.Products(ctx)
	require.NoError(t, err)
	assert.Len(t, products, 2, "stale value must still be served")

	// Give the background refresh a moment to fail, then confirm the
	// cached value survived it.
	time.Sleep(20 * time.Millisecond)
	products, err = p.Products(ctx)
	require.NoError(t, err)
	assert.Len(t, products, 2)
}

func TestBlobURLsBatchesOnlyMisses(t *testing.T) {
	src := catalogFixture()
	store := NewMemoryStore()
	p := NewPrefetcher(store, src)
	ctx := context.Background()

	_, err := p.BlobURLs(ctx, []string{"blob-1"})
	require.NoError(t, err)

	urls, err := p.BlobURLs(ctx, []string{"blob-1", "blob-2", "blob-2"})
	require.NoError(t, err)
	assert.Len(t, urls, 2)

	// blob-1 was a hit both times; only the blob-2 miss went upstream.
	assert.Equal(t, int32(2), atomic.LoadInt32(&src.blobCalls))
}

func TestBlobURLsUpstreamFailureReturnsHits(t *testing.T) {
	src := catalogFixture()
	p := NewPrefetcher(NewMemoryStore(), src)
	ctx := context.Background()

	_, err := p.BlobURLs(ctx, []string{"blob-1"})
	require.NoError(t, err)

	src.mu.Lock()
	src.failBlobs = true
	src.mu.Unlock()

	urls, err := p.BlobURLs(ctx, []string{"blob-1", "blob-2"})
	assert.Error(t, err)
	assert.Equal(t, "https://cdn/blob-1", urls["blob-1"], "cached hit served despite upstream failure")
}

func TestProductBySlugNotFound(t *testing.T) {
	src := catalogFixture()
	p := NewPrefetcher(NewMemoryStore(), src)

	_, err := p.ProductBySlug(context.Background(), "no-such-slug")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestInvalidateForcesRefetch(t *testing.T) {
	src := catalogFixture()
	store := NewMemoryStore()
	p := NewPrefetcher(store, src)
	ctx := context.Background()

	_, err := p.Products(ctx)
	require.NoError(t, err)

	p.Invalidate(ctx, ProductListKey())

	_, err = p.Products(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&src.productCalls))
}
