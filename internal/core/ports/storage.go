package ports

import (
	"context"
	"io"
)

// BlobStorage stores files under path-like keys and serves them by URL.
type BlobStorage interface {
	Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
}
