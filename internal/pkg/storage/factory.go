package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Supported drivers.
const (
	DriverS3    = "s3"
	DriverGCS   = "gcs"
	DriverMinIO = "minio"
)

// ErrUnknownDriver indicates an unsupported storage driver.
var ErrUnknownDriver = errors.New("storage: unknown driver")

// FactoryOptions groups configuration for storage drivers. Bucket is used by
// any driver whose own options leave it empty.
type FactoryOptions struct {
	Bucket string
	S3     S3Options
	GCS    GCSOptions
	MinIO  MinIOOptions
}

// NewFromDriver constructs the media store named by driver.
func NewFromDriver(ctx context.Context, driver string, opts FactoryOptions) (Storage, error) {
	bucket := func(own string) string {
		if own != "" {
			return own
		}
		return strings.TrimSpace(opts.Bucket)
	}

	switch strings.ToLower(strings.TrimSpace(driver)) {
	case DriverS3:
		opts.S3.Bucket = bucket(opts.S3.Bucket)
		return NewS3(ctx, opts.S3)
	case DriverGCS:
		opts.GCS.Bucket = bucket(opts.GCS.Bucket)
		return NewGCS(ctx, opts.GCS)
	case DriverMinIO:
		opts.MinIO.Bucket = bucket(opts.MinIO.Bucket)
		return NewMinIO(opts.MinIO)
	default:
		return nil, fmt.Errorf("%w: %q (want %s, %s or %s)", ErrUnknownDriver, driver, DriverS3, DriverGCS, DriverMinIO)
	}
}
