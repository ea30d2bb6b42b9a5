package storage

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/piora/backend/internal/infrastructure/config"
)

func validStorageConfig() *config.StorageConfig {
	return &config.StorageConfig{
		Bucket:            "piora-images",
		AccessKey:         "test-key",
		SecretKey:         "test-secret",
		Endpoint:          "http://localhost:9000",
		UsePathStyle:      true,
		PresignExpiration: 15 * time.Minute,
	}
}

func TestNewS3ObjectStorage_Validation(t *testing.T) {
	t.Run("nil config", func(t *testing.T) {
		_, err := NewS3ObjectStorage(nil)
		require.Error(t, err)
	})

	t.Run("missing bucket", func(t *testing.T) {
		cfg := validStorageConfig()
		cfg.Bucket = ""
		_, err := NewS3ObjectStorage(cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "bucket is required")
	})

	t.Run("missing credentials", func(t *testing.T) {
		cfg := validStorageConfig()
		cfg.AccessKey = ""
		_, err := NewS3ObjectStorage(cfg)
		require.Error(t, err)

		cfg = validStorageConfig()
		cfg.SecretKey = ""
		_, err = NewS3ObjectStorage(cfg)
		require.Error(t, err)
	})

	t.Run("valid config", func(t *testing.T) {
		storage, err := NewS3ObjectStorage(validStorageConfig())
		require.NoError(t, err)
		assert.Equal(t, "piora-images", storage.bucket)
		assert.Equal(t, 15*time.Minute, storage.presignExpiration)
	})

	t.Run("scheme added from UseSSL", func(t *testing.T) {
		cfg := validStorageConfig()
		cfg.Endpoint = "minio.internal:9000"
		cfg.UseSSL = true
		storage, err := NewS3ObjectStorage(cfg)
		require.NoError(t, err)
		require.NotNil(t, storage)
	})

	t.Run("default presign expiration", func(t *testing.T) {
		cfg := validStorageConfig()
		cfg.PresignExpiration = 0
		storage, err := NewS3ObjectStorage(cfg)
		require.NoError(t, err)
		assert.Equal(t, 15*time.Minute, storage.presignExpiration)
	})
}

func TestS3ObjectStorageOptions(t *testing.T) {
	storage, err := NewS3ObjectStorage(validStorageConfig(),
		WithLogger(zaptest.NewLogger(t)),
		WithPresignExpiration(time.Hour),
	)
	require.NoError(t, err)
	assert.NotNil(t, storage.logger)
	assert.Equal(t, time.Hour, storage.presignExpiration)
}

func TestS3ObjectStorage_PresignedURLs(t *testing.T) {
	storage, err := NewS3ObjectStorage(validStorageConfig())
	require.NoError(t, err)
	ctx := context.Background()

	t.Run("upload URL", func(t *testing.T) {
		url, expiresAt, err := storage.GenerateUploadURL(ctx, "products/key.jpg", "image/jpeg", 15*time.Minute)
		require.NoError(t, err)
		assert.True(t, strings.Contains(url, "localhost:9000"))
		assert.True(t, strings.Contains(url, "piora-images"))
		assert.True(t, expiresAt.After(time.Now()))
		assert.True(t, expiresAt.Before(time.Now().Add(16*time.Minute)))
	})

	t.Run("upload URL rejects empty key", func(t *testing.T) {
		_, _, err := storage.GenerateUploadURL(ctx, "", "image/jpeg", 15*time.Minute)
		require.Error(t, err)
	})

	t.Run("download URL", func(t *testing.T) {
		url, expiresAt, err := storage.GenerateDownloadURL(ctx, "products/key.jpg", time.Hour)
		require.NoError(t, err)
		assert.True(t, strings.Contains(url, "products") || strings.Contains(url, "products%2Fkey.jpg"))
		assert.True(t, expiresAt.After(time.Now()))
	})

	t.Run("download URL falls back to default expiration", func(t *testing.T) {
		url, expiresAt, err := storage.GenerateDownloadURL(ctx, "products/key.jpg", 0)
		require.NoError(t, err)
		assert.NotEmpty(t, url)
		assert.True(t, expiresAt.After(time.Now()))
	})
}
