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
	"go.mongodb.org/mongo-driver/mongo/options"

	"jewelry-commerce/cache"
	"jewelry-commerce/models"
)

// HeroController handles hero banner requests
type HeroController struct {
	Collection *mongo.Collection
	Prefetcher *cache.Prefetcher
}

// NewHeroController creates a new HeroController
func NewHeroController(client *mongo.Client, prefetcher *cache.Prefetcher) *HeroController {
	collection := client.Database("jewelry").Collection("hero_slides")
	return &HeroController{
		Collection: collection,
		Prefetcher: prefetcher,
	}
}

// GetSlides retrieves the active hero slides, cache-first
func (hc *HeroController) GetSlides(w http.ResponseWriter, r *http.Request) {
	slides, err := hc.Prefetcher.HeroSlides(r.Context())
	if err != nil {
		http.Error(w, "Error fetching hero slides", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(slides)
}

// ListAllSlides retrieves every slide including inactive ones (Admin only)
func (hc *HeroController) ListAllSlides(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "order_index", Value: 1}})
	cursor, err := hc.Collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		http.Error(w, "Error fetching hero slides", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(ctx)

	var slides []models.HeroSlide
	if err := cursor.All(ctx, &slides); err != nil {
		http.Error(w, "Error reading hero slides", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(slides)
}

// CreateSlide handles adding a new hero slide (Admin only)
func (hc *HeroController) CreateSlide(w http.ResponseWriter, r *http.Request) {
	var slide models.HeroSlide
	err := json.NewDecoder(r.Body).Decode(&slide)
	if err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}

	if slide.Image == "" {
		http.Error(w, "Slide image is required", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	result, err := hc.Collection.InsertOne(ctx, slide)
	if err != nil {
		http.Error(w, "Error creating hero slide", http.StatusInternalServerError)
		return
	}

	hc.Prefetcher.Invalidate(ctx, cache.HeroSlidesKey())

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(result)
}

// UpdateSlide handles updating a hero slide (Admin only)
func (hc *HeroController) UpdateSlide(w http.ResponseWriter, r *http.Request) {
	params := mux.Vars(r)
	id, err := primitive.ObjectIDFromHex(params["id"])
	if err != nil {
		http.Error(w, "Invalid slide ID", http.StatusBadRequest)
		return
	}

	var slide models.HeroSlide
	err = json.NewDecoder(r.Body).Decode(&slide)
	if err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	result, err := hc.Collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": slide})
	if err != nil {
		http.Error(w, "Error updating hero slide", http.StatusInternalServerError)
		return
	}
	if result.MatchedCount == 0 {
		http.Error(w, "Hero slide not found", http.StatusNotFound)
		return
	}

	hc.Prefetcher.Invalidate(ctx, cache.HeroSlidesKey())

	json.NewEncoder(w).Encode(result)
}

// DeleteSlide handles deleting a hero slide (Admin only)
func (hc *HeroController) DeleteSlide(w http.ResponseWriter, r *http.Request) {
	params := mux.Vars(r)
	id, err := primitive.ObjectIDFromHex(params["id"])
	if err != nil {
		http.Error(w, "Invalid slide ID", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	result, err := hc.Collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		http.Error(w, "Error deleting hero slide", http.StatusInternalServerError)
		return
	}

	hc.Prefetcher.Invalidate(ctx, cache.HeroSlidesKey())

	json.NewEncoder(w).Encode(result)
}

// Reorder updates slide order-index fields after a drag-reorder (Admin only)
func (hc *HeroController) Reorder(w http.ResponseWriter, r *http.Request) {
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
			http.Error(w, "Invalid slide ID", http.StatusBadRequest)
			return
		}
		_, err = hc.Collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
			"$set": bson.M{"order_index": u.OrderIndex},
		})
		if err != nil {
			http.Error(w, "Error updating order", http.StatusInternalServerError)
			return
		}
	}

	hc.Prefetcher.Invalidate(ctx, cache.HeroSlidesKey())

	json.NewEncoder(w).Encode(map[string]string{"message": "Order updated"})
}
