package storage

import (
	"context"
	"errors"
	"net/http"
	"time"

	gcs "cloud.google.com/go/storage"
)

// GCSAdapter implements Storage using Google Cloud Storage.
type GCSAdapter struct {
	bucket         string
	client         *gcs.Client
	googleAccessID string
	privateKey     []byte
	now            func() time.Time
}

// GCSOptions configures GCS client initialization. Signing needs both
// GoogleAccessID and PrivateKey.
type GCSOptions struct {
	Bucket         string
	Client         *gcs.Client
	GoogleAccessID string
	PrivateKey     []byte
}

// NewGCS constructs a GCS adapter.
func NewGCS(ctx context.Context, opts GCSOptions) (*GCSAdapter, error) {
	if opts.Bucket == "" {
		return nil, ErrBucketRequired
	}

	client := opts.Client
	if client == nil {
		created, err := gcs.NewClient(ctx)
		if err != nil {
			return nil, err
		}
		client = created
	}

	return &GCSAdapter{
		bucket:         opts.Bucket,
		client:         client,
		googleAccessID: opts.GoogleAccessID,
		privateKey:     opts.PrivateKey,
		now:            time.Now,
	}, nil
}

func (g *GCSAdapter) sign(method, key, contentType string, expiry time.Duration) (string, error) {
	if g.googleAccessID == "" || len(g.privateKey) == 0 {
		return "", ErrMissingSigner
	}

	return gcs.SignedURL(g.bucket, key, &gcs.SignedURLOptions{
		Method:         method,
		Expires:        g.now().Add(expiry),
		GoogleAccessID: g.googleAccessID,
		PrivateKey:     g.privateKey,
		ContentType:    contentType,
		Scheme:         gcs.SigningSchemeV4,
	})
}

func (g *GCSAdapter) PresignGet(_ context.Context, key string, expiry time.Duration) (string, error) {
	return g.sign(http.MethodGet, key, "", expiry)
}

func (g *GCSAdapter) PresignPut(_ context.Context, key, contentType string, expiry time.Duration) (string, error) {
	return g.sign(http.MethodPut, key, contentType, expiry)
}

func (g *GCSAdapter) Stat(ctx context.Context, key string) (ObjectInfo, error) {
	attrs, err := g.client.Bucket(g.bucket).Object(key).Attrs(ctx)
	if errors.Is(err, gcs.ErrObjectNotExist) {
		return ObjectInfo{}, ErrObjectNotFound
	}
	if err != nil {
		return ObjectInfo{}, err
	}

	return ObjectInfo{
		Key:         attrs.Name,
		Size:        attrs.Size,
		ETag:        attrs.Etag,
		ContentType: attrs.ContentType,
		UpdatedAt:   attrs.Updated,
	}, nil
}

// Close closes the GCS client.
func (g *GCSAdapter) Close() error {
	return g.client.Close()
}
