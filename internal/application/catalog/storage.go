package catalog

import (
	"context"
	"time"
)

// ObjectStorageService defines the interface for object storage operations
// This interface is implemented by the infrastructure layer (S3 or a stub)
type ObjectStorageService interface {
	// GenerateUploadURL generates a presigned URL for uploading a file
	// Returns the upload URL and expiration time
	GenerateUploadURL(ctx context.Context, storageKey, contentType string, expiresIn time.Duration) (string, time.Time, error)

	// GenerateDownloadURL generates a presigned URL for downloading a file
	// Returns the download URL and expiration time
	GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error)

	// DeleteObject deletes an object from storage
	DeleteObject(ctx context.Context, storageKey string) error

	// ObjectExists checks if an object exists in storage
	ObjectExists(ctx context.Context, storageKey string) (bool, error)
}

// ImageURLExpiry is how long generated image download URLs stay valid
const ImageURLExpiry = 1 * time.Hour

// UploadURLExpiry is how long generated upload URLs stay valid
const UploadURLExpiry = 15 * time.Minute

// ImageUploadResponse carries a presigned upload URL for a product or category image
type ImageUploadResponse struct {
	StorageKey string    `json:"storage_key"`
	UploadURL  string    `json:"upload_url"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// imageDownloadURL resolves a storage key to a presigned download URL.
// Returns empty string for empty keys or storage failures so that read
// paths never fail on a missing image.
func imageDownloadURL(ctx context.Context, storage ObjectStorageService, key string) string {
	if key == "" || storage == nil {
		return ""
	}
	url, _, err := storage.GenerateDownloadURL(ctx, key, ImageURLExpiry)
	if err != nil {
		return ""
	}
	return url
}
