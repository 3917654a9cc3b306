package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"jewelry-commerce/cache"
	"jewelry-commerce/models"
)

// ReviewController handles product review requests
type ReviewController struct {
	Collection *mongo.Collection
	Prefetcher *cache.Prefetcher
}

// NewReviewController creates a new ReviewController
func NewReviewController(client *mongo.Client, prefetcher *cache.Prefetcher) *ReviewController {
	collection := client.Database("jewelry").Collection("reviews")
	return &ReviewController{
		Collection: collection,
		Prefetcher: prefetcher,
	}
}

// GetReviews retrieves the reviews for a product, cache-first
func (rc *ReviewController) GetReviews(w http.ResponseWriter, r *http.Request) {
	params := mux.Vars(r)

	reviews, err := rc.Prefetcher.Reviews(r.Context(), params["id"])
	if err != nil {
		http.Error(w, "Error fetching reviews", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(reviews)
}

// CreateReview adds a review to a product
func (rc *ReviewController) CreateReview(w http.ResponseWriter, r *http.Request) {
	params := mux.Vars(r)
	productID, err := primitive.ObjectIDFromHex(params["id"])
	if err != nil {
		http.Error(w, "Invalid product ID", http.StatusBadRequest)
		return
	}

	var review models.Review
	err = json.NewDecoder(r.Body).Decode(&review)
	if err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}

	if strings.TrimSpace(review.Comment) == "" {
		http.Error(w, "Review comment is required", http.StatusBadRequest)
		return
	}
	if review.Rating < 1 || review.Rating > 5 {
		http.Error(w, "Rating must be between 1 and 5", http.StatusBadRequest)
		return
	}

	review.ProductID = productID
	review.CreatedAt = time.Now()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	result, err := rc.Collection.InsertOne(ctx, review)
	if err != nil {
		http.Error(w, "Error creating review", http.StatusInternalServerError)
		return
	}

	rc.Prefetcher.Invalidate(ctx, cache.ReviewsKey(params["id"]))

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(result)
}
