// cache/prefetch.go
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log"

	"golang.org/x/sync/singleflight"

	"jewelry-commerce/models"
)

// ErrNotFound is returned by Source implementations when the entity does
// not exist upstream. Not-found is a rendered state, never cached.
var ErrNotFound = errors.New("not found")

// Source is the upstream the prefetcher reads from on a miss or refresh.
// The cache itself never issues network calls; all fetching goes through
// here.
type Source interface {
	ListProducts(ctx context.Context) ([]models.Product, error)
	GetProductBySlug(ctx context.Context, slug string) (*models.Product, error)
	ListVariants(ctx context.Context, productID string) ([]models.Variant, error)
	ListReviews(ctx context.Context, productID string) ([]models.Review, error)
	ListHeroSlides(ctx context.Context) ([]models.HeroSlide, error)
	ResolveBlobURLs(ctx context.Context, blobIDs []string) (map[string]string, error)
}

// Prefetcher fronts the cache for all storefront reads. Per-key fetches are
// collapsed through singleflight, so as long as entries stay fresh each key
// is fetched at most once per session. A failed fetch leaves any previous
// cached value untouched.
type Prefetcher struct {
	store Store
	src   Source
	sfg   singleflight.Group
}

// NewPrefetcher wires a cache backend to its upstream source.
func NewPrefetcher(store Store, src Source) *Prefetcher {
	return &Prefetcher{store: store, src: src}
}

// WarmUp runs the once-per-session pass: products, hero slides, and every
// blob URL the loaded entities reference. Errors are returned but partial
// progress is kept; whatever loaded stays cached.
func (p *Prefetcher) WarmUp(ctx context.Context) error {
	products, err := p.Products(ctx)
	if err != nil {
		return err
	}

	if _, err := p.HeroSlides(ctx); err != nil {
		return err
	}

	var blobIDs []string
	for _, prod := range products {
		blobIDs = append(blobIDs, prod.Images...)
	}
	if _, err := p.BlobURLs(ctx, blobIDs); err != nil {
		return err
	}
	return nil
}

// Products returns the full catalog, cache-first. A stale hit is returned
// immediately while a background refresh runs.
func (p *Prefetcher) Products(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	err := p.cached(ctx, ProductListKey(), &products, func(ctx context.Context) (interface{}, error) {
		return p.src.ListProducts(ctx)
	})
	return products, err
}

// ProductBySlug returns one product, cache-first.
func (p *Prefetcher) ProductBySlug(ctx context.Context, slug string) (*models.Product, error) {
	var product models.Product
	err := p.cached(ctx, ProductKey(slug), &product, func(ctx context.Context) (interface{}, error) {
		prod, err := p.src.GetProductBySlug(ctx, slug)
		if err != nil {
			return nil, err
		}
		return *prod, nil
	})
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// Variants returns the variant list for a product, cache-first.
func (p *Prefetcher) Variants(ctx context.Context, productID string) ([]models.Variant, error) {
	var variants []models.Variant
	err := p.cached(ctx, VariantsKey(productID), &variants, func(ctx context.Context) (interface{}, error) {
		return p.src.ListVariants(ctx, productID)
	})
	return variants, err
}

// Reviews returns the review list for a product, cache-first.
func (p *Prefetcher) Reviews(ctx context.Context, productID string) ([]models.Review, error) {
	var reviews []models.Review
	err := p.cached(ctx, ReviewsKey(productID), &reviews, func(ctx context.Context) (interface{}, error) {
		return p.src.ListReviews(ctx, productID)
	})
	return reviews, err
}

// HeroSlides returns the hero banner list, cache-first.
func (p *Prefetcher) HeroSlides(ctx context.Context) ([]models.HeroSlide, error) {
	var slides []models.HeroSlide
	err := p.cached(ctx, HeroSlidesKey(), &slides, func(ctx context.Context) (interface{}, error) {
		return p.src.ListHeroSlides(ctx)
	})
	return slides, err
}

// BlobURLs resolves blob ids to public URLs. Cached ids are served from the
// cache; the remainder go upstream in one batched call whose results are
// written back for subsequent readers.
func (p *Prefetcher) BlobURLs(ctx context.Context, blobIDs []string) (map[string]string, error) {
	keys := make([]string, 0, len(blobIDs))
	keyToID := make(map[string]string, len(blobIDs))
	for _, id := range blobIDs {
		key := BlobURLKey(id)
		if _, seen := keyToID[key]; seen {
			continue
		}
		keys = append(keys, key)
		keyToID[key] = id
	}

	hits, err := p.store.GetMany(ctx, keys)
	if err != nil {
		log.Printf("cache getMany error: %v", err)
		hits = nil
	}

	urls := make(map[string]string, len(blobIDs))
	var missing []string
	for _, key := range keys {
		if raw, ok := hits[key]; ok {
			var url string
			if err := unmarshalRaw(raw, &url); err == nil {
				urls[keyToID[key]] = url
				continue
			}
		}
		missing = append(missing, keyToID[key])
	}

	if len(missing) == 0 {
		return urls, nil
	}

	resolved, err := p.src.ResolveBlobURLs(ctx, missing)
	if err != nil {
		// Serve what we have; the caller retries by re-triggering the read.
		return urls, err
	}
	for id, url := range resolved {
		urls[id] = url
		if err := SetJSON(ctx, p.store, BlobURLKey(id), url); err != nil {
			log.Printf("cache set error for blob %s: %v", id, err)
		}
	}
	return urls, nil
}

// Invalidate drops a single key so the next read refetches. Called after
// admin mutations.
func (p *Prefetcher) Invalidate(ctx context.Context, key string) {
	if err := p.store.Invalidate(ctx, key); err != nil {
		log.Printf("cache invalidate error for %s: %v", key, err)
	}
}

// Clear empties the cache unconditionally.
func (p *Prefetcher) Clear(ctx context.Context) error {
	return p.store.Clear(ctx)
}

// cached reads key into out, fetching through singleflight when the entry
// is absent, and kicking off a background refresh when it is stale. Fetch
// failures on a stale entry keep the stale value.
func (p *Prefetcher) cached(ctx context.Context, key string, out interface{}, fetch func(ctx context.Context) (interface{}, error)) error {
	ok, needsRefresh, err := GetJSON(ctx, p.store, key, out)
	if err != nil {
		log.Printf("cache get error for %s: %v", key, err)
		ok = false
	}

	if ok && !needsRefresh {
		return nil
	}

	if ok && needsRefresh {
		// Stale hit: serve it now, refresh in the background.
		go func() {
			if _, err, _ := p.sfg.Do(key, p.refresh(key, fetch)); err != nil {
				log.Printf("background refresh failed for %s: %v", key, err)
			}
		}()
		return nil
	}

	// Absent: the caller has to wait for the fetch.
	v, err, _ := p.sfg.Do(key, p.refresh(key, fetch))
	if err != nil {
		return err
	}
	return roundTrip(v, out)
}

func unmarshalRaw(raw []byte, out interface{}) error {
	return json.Unmarshal(raw, out)
}

// roundTrip copies a fetched value into the caller's typed pointer via
// JSON, matching what a later cache hit would return.
func roundTrip(v interface{}, out interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

func (p *Prefetcher) refresh(key string, fetch func(ctx context.Context) (interface{}, error)) func() (interface{}, error) {
	return func() (interface{}, error) {
		ctx := context.Background()
		v, err := fetch(ctx)
		if err != nil {
			return nil, err
		}
		if err := SetJSON(ctx, p.store, key, v); err != nil {
			log.Printf("cache set error for %s: %v", key, err)
		}
		return v, nil
	}
}
