// utils/blob.go
package utils

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
)

// BlobService talks to the hosted blob store: one-time upload URL
// generation and blob-id to public-URL resolution.
type BlobService struct {
	baseURL    string
	apiToken   string
	mockMode   bool
	httpClient *http.Client
}

// NewBlobService reads blob store settings from the environment.
func NewBlobService() *BlobService {
	return &BlobService{
		baseURL:  os.Getenv("BLOB_STORE_URL"),
		apiToken: os.Getenv("BLOB_STORE_TOKEN"),
		mockMode: os.Getenv("MOCK_MODE") == "true",
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// GenerateUploadURL asks the blob store for a one-time upload URL. The
// admin UI uploads directly to it and stores the returned blob id on the
// product or slide.
func (bs *BlobService) GenerateUploadURL(ctx context.Context) (string, error) {
	if bs.mockMode {
		return fmt.Sprintf("%s/upload/%s", bs.baseURL, uuid.NewString()), nil
	}

	var resp struct {
		UploadURL string `json:"upload_url"`
	}
	if err := bs.post(ctx, "/upload-url", nil, &resp); err != nil {
		return "", fmt.Errorf("generate upload url: %w", err)
	}
	return resp.UploadURL, nil
}

// ResolveURLs resolves a batch of blob ids to publicly fetchable URLs in a
// single round trip.
func (bs *BlobService) ResolveURLs(ctx context.Context, blobIDs []string) (map[string]string, error) {
	if len(blobIDs) == 0 {
		return map[string]string{}, nil
	}

	if bs.mockMode {
		urls := make(map[string]string, len(blobIDs))
		for _, id := range blobIDs {
			urls[id] = fmt.Sprintf("%s/blob/%s", bs.baseURL, id)
		}
		return urls, nil
	}

	body := map[string]interface{}{"ids": blobIDs}
	var resp struct {
		URLs map[string]string `json:"urls"`
	}
	if err := bs.post(ctx, "/resolve", body, &resp); err != nil {
		return nil, fmt.Errorf("resolve blob urls: %w", err)
	}
	return resp.URLs, nil
}

func (bs *BlobService) post(ctx context.Context, path string, body interface{}, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, bs.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+bs.apiToken)

	resp, err := bs.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("blob store returned status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
