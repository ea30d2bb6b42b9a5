package storage

import (
	"context"
	"time"

	catalogapp "github.com/piora/backend/internal/application/catalog"
)

var _ catalogapp.ObjectStorageService = (*StubObjectStorage)(nil)

// StubObjectStorage fabricates storage URLs without talking to any
// backend. Used for local development and tests where no S3 endpoint
// is available.
type StubObjectStorage struct {
	// BaseURL prefixes every generated URL.
	BaseURL string
}

// NewStubObjectStorage returns a stub with a placeholder base URL.
func NewStubObjectStorage() *StubObjectStorage {
	return &StubObjectStorage{
		BaseURL: "https://storage.invalid",
	}
}

func (s *StubObjectStorage) url(kind, storageKey string, expiresAt time.Time) string {
	return s.BaseURL + "/" + kind + "/" + storageKey + "?expires=" + expiresAt.Format(time.RFC3339)
}

func (s *StubObjectStorage) GenerateUploadURL(ctx context.Context, storageKey, contentType string, expiresIn time.Duration) (string, time.Time, error) {
	if storageKey == "" {
		return "", time.Time{}, errMissingKey
	}
	expiresAt := time.Now().Add(expiresIn)
	return s.url("upload", storageKey, expiresAt), expiresAt, nil
}

func (s *StubObjectStorage) GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error) {
	if storageKey == "" {
		return "", time.Time{}, errMissingKey
	}
	expiresAt := time.Now().Add(expiresIn)
	return s.url("download", storageKey, expiresAt), expiresAt, nil
}

// DeleteObject succeeds without touching anything.
func (s *StubObjectStorage) DeleteObject(ctx context.Context, storageKey string) error {
	if storageKey == "" {
		return errMissingKey
	}
	return nil
}

// ObjectExists answers true so the image confirmation flow keeps
// working without a real backend.
func (s *StubObjectStorage) ObjectExists(ctx context.Context, storageKey string) (bool, error) {
	if storageKey == "" {
		return false, errMissingKey
	}
	return true, nil
}
