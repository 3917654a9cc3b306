package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"jewelry-commerce/cache"
	"jewelry-commerce/models"
)

// ProductController handles catalog requests
type ProductController struct {
	Collection *mongo.Collection
	Source     *CatalogSource
	Prefetcher *cache.Prefetcher
}

// NewProductController creates a new ProductController
func NewProductController(client *mongo.Client, source *CatalogSource, prefetcher *cache.Prefetcher) *ProductController {
	collection := client.Database("jewelry").Collection("products")
	return &ProductController{
		Collection: collection,
		Source:     source,
		Prefetcher: prefetcher,
	}
}

// GetProducts retrieves the active catalog, cache-first
func (pc *ProductController) GetProducts(w http.ResponseWriter, r *http.Request) {
	products, err := pc.Prefetcher.Products(r.Context())
	if err != nil {
		http.Error(w, "Error fetching products", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(products)
}

// GetProductBySlug retrieves a single product by its slug, cache-first
func (pc *ProductController) GetProductBySlug(w http.ResponseWriter, r *http.Request) {
	params := mux.Vars(r)
	slug := params["slug"]

	product, err := pc.Prefetcher.ProductBySlug(r.Context(), slug)
	if errors.Is(err, cache.ErrNotFound) {
		http.Error(w, "Product not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "Error fetching product", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(product)
}

// GetVariants retrieves the variant list for a product, cache-first
func (pc *ProductController) GetVariants(w http.ResponseWriter, r *http.Request) {
	params := mux.Vars(r)

	variants, err := pc.Prefetcher.Variants(r.Context(), params["id"])
	if err != nil {
		http.Error(w, "Error fetching variants", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(variants)
}

// ListAllProducts retrieves every product including inactive ones (Admin only)
func (pc *ProductController) ListAllProducts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "order_index", Value: 1}})
	cursor, err := pc.Collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		http.Error(w, "Error fetching products", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(ctx)

	var products []models.Product
	if err := cursor.All(ctx, &products); err != nil {
		http.Error(w, "Error reading products", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(products)
}

// CreateProduct handles adding a new product (Admin only)
func (pc *ProductController) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var product models.Product
	err := json.NewDecoder(r.Body).Decode(&product)
	if err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}

	if product.Name == "" {
		http.Error(w, "Product name is required", http.StatusBadRequest)
		return
	}
	if len(product.Images) == 0 {
		http.Error(w, "At least one image is required", http.StatusBadRequest)
		return
	}
	product.CreatedAt = time.Now()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	result, err := pc.Collection.InsertOne(ctx, product)
	if err != nil {
		http.Error(w, "Error creating product", http.StatusInternalServerError)
		return
	}

	pc.invalidate(ctx, product.Slug)

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(result)
}

// UpdateProduct handles updating a product (Admin only)
func (pc *ProductController) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	params := mux.Vars(r)
	id, err := primitive.ObjectIDFromHex(params["id"])
	if err != nil {
		http.Error(w, "Invalid product ID", http.StatusBadRequest)
		return
	}

	var product models.Product
	err = json.NewDecoder(r.Body).Decode(&product)
	if err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	result, err := pc.Collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": product})
	if err != nil {
		http.Error(w, "Error updating product", http.StatusInternalServerError)
		return
	}
	if result.MatchedCount == 0 {
		http.Error(w, "Product not found", http.StatusNotFound)
		return
	}

	pc.invalidate(ctx, product.Slug)

	json.NewEncoder(w).Encode(result)
}

// DeleteProduct handles deleting a product (Admin only)
func (pc *ProductController) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	params := mux.Vars(r)
	id, err := primitive.ObjectIDFromHex(params["id"])
	if err != nil {
		http.Error(w, "Invalid product ID", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var product models.Product
	if err := pc.Collection.FindOne(ctx, bson.M{"_id": id}).Decode(&product); err != nil {
		http.Error(w, "Product not found", http.StatusNotFound)
		return
	}

	result, err := pc.Collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		http.Error(w, "Error deleting product", http.StatusInternalServerError)
		return
	}

	pc.invalidate(ctx, product.Slug)

	json.NewEncoder(w).Encode(result)
}

// ToggleFlag flips one of the product display flags (Admin only)
func (pc *ProductController) ToggleFlag(w http.ResponseWriter, r *http.Request) {
	params := mux.Vars(r)
	id, err := primitive.ObjectIDFromHex(params["id"])
	if err != nil {
		http.Error(w, "Invalid product ID", http.StatusBadRequest)
		return
	}

	var toggle struct {
		Flag  string `json:"flag"` // "is_active", "is_most_popular" or "is_trending"
		Value bool   `json:"value"`
	}
	err = json.NewDecoder(r.Body).Decode(&toggle)
	if err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}

	if toggle.Flag != "is_active" && toggle.Flag != "is_most_popular" && toggle.Flag != "is_trending" {
		http.Error(w, "Invalid flag", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	result, err := pc.Collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{toggle.Flag: toggle.Value},
	})
	if err != nil {
		http.Error(w, "Error updating product", http.StatusInternalServerError)
		return
	}
	if result.MatchedCount == 0 {
		http.Error(w, "Product not found", http.StatusNotFound)
		return
	}

	// The list entry is stale no matter what; the slug lookup only decides
	// whether the detail entry can be dropped too.
	slug := ""
	var product models.Product
	if err := pc.Collection.FindOne(ctx, bson.M{"_id": id}).Decode(&product); err == nil {
		slug = product.Slug
	}
	pc.invalidate(ctx, slug)

	json.NewEncoder(w).Encode(map[string]string{"message": "Flag updated"})
}

// Reorder updates order-index fields after a drag-reorder (Admin only)
func (pc *ProductController) Reorder(w http.ResponseWriter, r *http.Request) {
	var updates []struct {
		ID         string `json:"id"`
		OrderIndex int    `json:"order_index"`
	}
	err := json.NewDecoder(r.Body).Decode(&updates)
	if err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	for _, u := range updates {
		id, err := primitive.ObjectIDFromHex(u.ID)
		if err != nil {
			http.Error(w, "Invalid product ID", http.StatusBadRequest)
			return
		}
		_, err = pc.Collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
			"$set": bson.M{"order_index": u.OrderIndex},
		})
		if err != nil {
			http.Error(w, "Error updating order", http.StatusInternalServerError)
			return
		}
	}

	pc.Prefetcher.Invalidate(ctx, cache.ProductListKey())

	json.NewEncoder(w).Encode(map[string]string{"message": "Order updated"})
}

// invalidate drops the product list entry and the slug entry so the next
// storefront read refetches.
func (pc *ProductController) invalidate(ctx context.Context, slug string) {
	pc.Prefetcher.Invalidate(ctx, cache.ProductListKey())
	if slug != "" {
		pc.Prefetcher.Invalidate(ctx, cache.ProductKey(slug))
	}
}
