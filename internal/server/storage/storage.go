// Package storage defines the object store the file and profile services
// write payloads to, and its S3-compatible implementation.
package storage

import (
	"context"
	"io"
	"time"
)

// ObjectInfo describes a stored object.
type ObjectInfo struct {
	Key          string    `json:"key"`
	Size         int64     `json:"size"`
	ContentType  string    `json:"content_type,omitempty"`
	LastModified time.Time `json:"last_modified"`
}

// PutOptions control a single PutObject call. Without Overwrite an existing
// key makes the call fail with common.ErrAlreadyExists.
type PutOptions struct {
	ContentType string
	Overwrite   bool
}

// ObjectStore is the capability set the server needs from a bucket.
// Missing keys are reported as common.ErrorNotFound.
type ObjectStore interface {
	PutObject(ctx context.Context, key string, body io.Reader, size int64, opts PutOptions) error
	StatObject(ctx context.Context, key string) (*ObjectInfo, error)
	GetObject(ctx context.Context, key string) (io.ReadCloser, *ObjectInfo, error)

	// RemoveObjects deletes every key. Removing a missing key succeeds.
	RemoveObjects(ctx context.Context, keys ...string) error

	// ListObjects lists keys under prefix. limit <= 0 lists everything.
	ListObjects(ctx context.Context, prefix string, limit int) ([]ObjectInfo, error)
	ListBuckets(ctx context.Context) ([]string, error)

	// PresignGet returns a GET URL for key valid for expiry.
	PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error)
}
