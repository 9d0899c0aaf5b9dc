// internal/adapters/storage/local.go
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/ammerola/atelier-ops/internal/core/ports"
)

// LocalStorage keeps delivery files on the local filesystem. It is meant
// for development and tests without AWS.
type LocalStorage struct {
	basePath string
	baseURL  string
	logger   *slog.Logger
}

var _ ports.BlobStorage = (*LocalStorage)(nil)

// NewLocalStorage creates a new local storage client
func NewLocalStorage(basePath, publicBaseURL string, logger *slog.Logger) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &LocalStorage{
		basePath: basePath,
		baseURL:  strings.TrimRight(publicBaseURL, "/"),
		logger:   logger.With(slog.String("storage", "local")),
	}, nil
}

// Dir is the root directory files are written under
func (l *LocalStorage) Dir() string {
	return l.basePath
}

// cleanKey roots key so it cannot climb out of basePath
func cleanKey(key string) (string, error) {
	clean := filepath.ToSlash(filepath.Clean("/" + key))
	if clean == "/" {
		return "", fmt.Errorf("invalid storage key %q", key)
	}
	return strings.TrimPrefix(clean, "/"), nil
}

func (l *LocalStorage) path(key string) (string, error) {
	clean, err := cleanKey(key)
	if err != nil {
		return "", err
	}
	return filepath.Join(l.basePath, filepath.FromSlash(clean)), nil
}

// Upload writes r to basePath/key and returns its public URL
func (l *LocalStorage) Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error) {
	path, err := l.path(key)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	written, err := io.Copy(f, r)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	clean, _ := cleanKey(key)
	location := l.baseURL + "/" + clean
	l.logger.DebugContext(ctx, "file uploaded",
		slog.String("key", key),
		slog.Int64("size", written),
		slog.String("content_type", contentType))

	return location, nil
}

// Delete removes the file stored under key. A missing file is not an error.
func (l *LocalStorage) Delete(ctx context.Context, key string) error {
	path, err := l.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete file: %w", err)
	}

	l.logger.DebugContext(ctx, "file deleted", slog.String("key", key))
	return nil
}
