package controllers

import (
	"context"
	"sort"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"jewelry-commerce/cache"
	"jewelry-commerce/models"
	"jewelry-commerce/utils"
)

// CatalogSource is the cache.Source implementation the prefetcher reads
// through: Mongo for catalog entities, the blob service for URL resolution.
type CatalogSource struct {
	ProductCollection *mongo.Collection
	VariantCollection *mongo.Collection
	ReviewCollection  *mongo.Collection
	HeroCollection    *mongo.Collection
	BlobService       *utils.BlobService
}

// NewCatalogSource wires the catalog collections and the blob service.
func NewCatalogSource(client *mongo.Client, blobService *utils.BlobService) *CatalogSource {
	db := client.Database("jewelry")
	return &CatalogSource{
		ProductCollection: db.Collection("products"),
		VariantCollection: db.Collection("variants"),
		ReviewCollection:  db.Collection("reviews"),
		HeroCollection:    db.Collection("hero_slides"),
		BlobService:       blobService,
	}
}

// ListProducts returns active products in display order.
func (cs *CatalogSource) ListProducts(ctx context.Context) ([]models.Product, error) {
	opts := options.Find().SetSort(bson.D{{Key: "order_index", Value: 1}})
	cursor, err := cs.ProductCollection.Find(ctx, bson.M{"is_active": true}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var products []models.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// GetProductBySlug returns one active product or cache.ErrNotFound.
func (cs *CatalogSource) GetProductBySlug(ctx context.Context, slug string) (*models.Product, error) {
	var product models.Product
	err := cs.ProductCollection.FindOne(ctx, bson.M{"slug": slug, "is_active": true}).Decode(&product)
	if err == mongo.ErrNoDocuments {
		return nil, cache.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// ListVariants returns a product's variants in display order.
func (cs *CatalogSource) ListVariants(ctx context.Context, productID string) ([]models.Variant, error) {
	id, err := primitive.ObjectIDFromHex(productID)
	if err != nil {
		return nil, err
	}

	opts := options.Find().SetSort(bson.D{{Key: "order_index", Value: 1}})
	cursor, err := cs.VariantCollection.Find(ctx, bson.M{"product_id": id}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var variants []models.Variant
	if err := cursor.All(ctx, &variants); err != nil {
		return nil, err
	}
	return variants, nil
}

// ListReviews returns a product's reviews, newest first.
func (cs *CatalogSource) ListReviews(ctx context.Context, productID string) ([]models.Review, error) {
	id, err := primitive.ObjectIDFromHex(productID)
	if err != nil {
		return nil, err
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := cs.ReviewCollection.Find(ctx, bson.M{"product_id": id}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var reviews []models.Review
	if err := cursor.All(ctx, &reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}

// ListHeroSlides returns active slides in display order.
func (cs *CatalogSource) ListHeroSlides(ctx context.Context) ([]models.HeroSlide, error) {
	opts := options.Find().SetSort(bson.D{{Key: "order_index", Value: 1}})
	cursor, err := cs.HeroCollection.Find(ctx, bson.M{"is_active": true}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var slides []models.HeroSlide
	if err := cursor.All(ctx, &slides); err != nil {
		return nil, err
	}
	return slides, nil
}

// ResolveBlobURLs delegates to the blob service in one batched call.
func (cs *CatalogSource) ResolveBlobURLs(ctx context.Context, blobIDs []string) (map[string]string, error) {
	return cs.BlobService.ResolveURLs(ctx, blobIDs)
}

// DecrementStock atomically reduces stock and bumps the sold counter for a
// purchased product.
func (cs *CatalogSource) DecrementStock(ctx context.Context, productID string, quantity int) error {
	id, err := primitive.ObjectIDFromHex(productID)
	if err != nil {
		return err
	}
	_, err = cs.ProductCollection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$inc": bson.M{"stock": -quantity, "sold": quantity},
	})
	return err
}

// variantTypes returns the distinct variant types a product offers, sorted.
func variantTypes(variants []models.Variant) []string {
	seen := map[string]bool{}
	var types []string
	for _, v := range variants {
		if !seen[v.Type] {
			seen[v.Type] = true
			types = append(types, v.Type)
		}
	}
	sort.Strings(types)
	return types
}
