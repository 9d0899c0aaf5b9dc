// internal/adapters/storage/storage.go
package storage

import (
	"context"
	"fmt"
	"log/slog"
	"mime"
	"path/filepath"

	"github.com/ammerola/atelier-ops/internal/core/ports"
	"github.com/ammerola/atelier-ops/internal/pkg/config"
)

// New builds the blob storage selected by cfg.Storage.Driver
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (ports.BlobStorage, error) {
	switch cfg.Storage.Driver {
	case config.StorageDriverS3:
		return NewS3Storage(ctx, &S3Config{
			Region:          cfg.AWS.Region,
			Bucket:          cfg.AWS.S3Bucket,
			AccessKeyID:     cfg.AWS.AccessKeyID,
			SecretAccessKey: cfg.AWS.SecretAccessKey,
			Endpoint:        cfg.AWS.S3Endpoint,
			UsePathStyle:    cfg.AWS.UsePathStyle,
			PublicBaseURL:   cfg.Storage.PublicBaseURL,
		}, logger)
	case config.StorageDriverLocal:
		return NewLocalStorage(cfg.Storage.LocalDir, cfg.Storage.PublicBaseURL, logger)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

func contentTypeOrDefault(key, contentType string) string {
	if contentType != "" {
		return contentType
	}
	if byExt := mime.TypeByExtension(filepath.Ext(key)); byExt != "" {
		return byExt
	}
	return "application/octet-stream"
}
