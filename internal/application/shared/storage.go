package shared

import (
	"context"
	"io"
)

// ObjectStore persists uploaded binary objects such as visit photos
type ObjectStore interface {
	// Put uploads body under key
	Put(ctx context.Context, key, contentType string, body io.Reader, size int64) error
	// PresignGet returns a time-limited download URL for key
	PresignGet(ctx context.Context, key string) (string, error)
}
