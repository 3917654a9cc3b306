package controllers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"jewelry-commerce/cache"
	"jewelry-commerce/utils"
)

// BlobController handles blob upload-URL generation and URL resolution
type BlobController struct {
	BlobService *utils.BlobService
	Prefetcher  *cache.Prefetcher
}

// NewBlobController creates a new BlobController
func NewBlobController(blobService *utils.BlobService, prefetcher *cache.Prefetcher) *BlobController {
	return &BlobController{
		BlobService: blobService,
		Prefetcher:  prefetcher,
	}
}

// GenerateUploadURL returns a one-time upload URL (Admin only)
func (bc *BlobController) GenerateUploadURL(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	uploadURL, err := bc.BlobService.GenerateUploadURL(ctx)
	if err != nil {
		log.Printf("generate upload url failed: %v", err)
		http.Error(w, "Blob store unavailable", http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"upload_url": uploadURL})
}

// ResolveURLs resolves a batch of blob ids to public URLs, cache-first
func (bc *BlobController) ResolveURLs(w http.ResponseWriter, r *http.Request) {
	var input struct {
		IDs []string `json:"ids"`
	}
	err := json.NewDecoder(r.Body).Decode(&input)
	if err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	urls, err := bc.Prefetcher.BlobURLs(ctx, input.IDs)
	if err != nil && len(urls) == 0 {
		log.Printf("resolve blob urls failed: %v", err)
		http.Error(w, "Blob store unavailable", http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{"urls": urls})
}
