package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"jewelry-commerce/cache"
	"jewelry-commerce/models"
)

// VariantController handles admin management of product variants
type VariantController struct {
	Collection *mongo.Collection
	Prefetcher *cache.Prefetcher
}

// NewVariantController creates a new VariantController
func NewVariantController(client *mongo.Client, prefetcher *cache.Prefetcher) *VariantController {
	collection := client.Database("jewelry").Collection("variants")
	return &VariantController{
		Collection: collection,
		Prefetcher: prefetcher,
	}
}

// CreateVariant adds a variant to a product (Admin only)
func (vc *VariantController) CreateVariant(w http.ResponseWriter, r *http.Request) {
	var variant models.Variant
	err := json.NewDecoder(r.Body).Decode(&variant)
	if err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}

	if variant.Type == "" || variant.Value == "" {
		http.Error(w, "Variant type and value are required", http.StatusBadRequest)
		return
	}
	if variant.ProductID.IsZero() {
		http.Error(w, "Product ID is required", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	result, err := vc.Collection.InsertOne(ctx, variant)
	if err != nil {
		http.Error(w, "Error creating variant", http.StatusInternalServerError)
		return
	}

	vc.Prefetcher.Invalidate(ctx, cache.VariantsKey(variant.ProductID.Hex()))

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(result)
}

// UpdateVariant updates a variant (Admin only)
func (vc *VariantController) UpdateVariant(w http.ResponseWriter, r *http.Request) {
	params := mux.Vars(r)
	id, err := primitive.ObjectIDFromHex(params["id"])
	if err != nil {
		http.Error(w, "Invalid variant ID", http.StatusBadRequest)
		return
	}

	var variant models.Variant
	err = json.NewDecoder(r.Body).Decode(&variant)
	if err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	result, err := vc.Collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": variant})
	if err != nil {
		http.Error(w, "Error updating variant", http.StatusInternalServerError)
		return
	}
	if result.MatchedCount == 0 {
		http.Error(w, "Variant not found", http.StatusNotFound)
		return
	}

	vc.Prefetcher.Invalidate(ctx, cache.VariantsKey(variant.ProductID.Hex()))

	json.NewEncoder(w).Encode(result)
}

// DeleteVariant deletes a variant (Admin only)
func (vc *VariantController) DeleteVariant(w http.ResponseWriter, r *http.Request) {
	params := mux.Vars(r)
	id, err := primitive.ObjectIDFromHex(params["id"])
	if err != nil {
		http.Error(w, "Invalid variant ID", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var variant models.Variant
	if err := vc.Collection.FindOne(ctx, bson.M{"_id": id}).Decode(&variant); err != nil {
		http.Error(w, "Variant not found", http.StatusNotFound)
		return
	}

	result, err := vc.Collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		http.Error(w, "Error deleting variant", http.StatusInternalServerError)
		return
	}

	vc.Prefetcher.Invalidate(ctx, cache.VariantsKey(variant.ProductID.Hex()))

	json.NewEncoder(w).Encode(result)
}
