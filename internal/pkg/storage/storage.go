package storage

import (
	"context"
	"errors"
	"io"
	"time"
)

var (
	// ErrMissingSigner indicates signed URL support is not configured.
	ErrMissingSigner = errors.New("storage: signed url signer not configured")
	// ErrObjectNotFound is returned when the object does not exist.
	ErrObjectNotFound = errors.New("storage: object not found")
	// ErrBucketRequired is returned when no bucket is configured.
	ErrBucketRequired = errors.New("storage: bucket is required")
)

// Storage is a bucket-bound object store used for media assets. Clients
// upload and download directly through presigned URLs.
type Storage interface {
	io.Closer

	// PresignGet returns a signed download URL for key.
	PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error)
	// PresignPut returns a signed upload URL for key.
	PresignPut(ctx context.Context, key, contentType string, expiry time.Duration) (string, error)
	// Stat returns metadata for key or ErrObjectNotFound.
	Stat(ctx context.Context, key string) (ObjectInfo, error)
}

// ObjectInfo describes object metadata.
type ObjectInfo struct {
	Key         string
	Size        int64
	ETag        string
	ContentType string
	UpdatedAt   time.Time
}
