package storage

import (
	"context"
	"io"
	"time"
)

// Provider is the common interface for object storage backends.
type Provider interface {
	// Put uploads an object under the given key.
	Put(ctx context.Context, key string, body io.Reader, contentType string, size int64) error
	// Delete removes the object. Deleting a missing object is not an error.
	Delete(ctx context.Context, key string) error
	// PresignedURL returns a time-bounded direct-download URL for the
	// object. disposition is "attachment" or "inline".
	PresignedURL(ctx context.Context, key, filename, contentType, disposition string, expires time.Duration) (string, error)
}
