package storage

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFromDriver_Unknown(t *testing.T) {
	s, err := NewFromDriver(context.Background(), "ftp", FactoryOptions{})
	assert.Nil(t, s)
	assert.ErrorIs(t, err, ErrUnknownDriver)
}

func TestNewFromDriver_BucketRequired(t *testing.T) {
	for _, driver := range []string{DriverS3, DriverMinIO, DriverGCS} {
		t.Run(driver, func(t *testing.T) {
			_, err := NewFromDriver(context.Background(), driver, FactoryOptions{})
			assert.ErrorIs(t, err, ErrBucketRequired)
		})
	}
}

func TestMinIO_PresignIsOffline(t *testing.T) {
	m, err := NewMinIO(MinIOOptions{
		Bucket:    "media",
		Endpoint:  "localhost:9000",
		AccessKey: "minio",
		SecretKey: "minio123",
		Region:    "us-east-1",
	})
	require.NoError(t, err)
	defer m.Close()

	got, err := m.PresignGet(context.Background(), "music/calm.mp3", 15*time.Minute)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(got, "http://localhost:9000/media/music/calm.mp3?"))
	assert.Contains(t, got, "X-Amz-Signature=")

	got, err = m.PresignPut(context.Background(), "music/new.mp3", "audio/mpeg", time.Minute)
	require.NoError(t, err)
	assert.Contains(t, got, "/media/music/new.mp3?")
}

func TestS3_PresignIsOffline(t *testing.T) {
	s, err := NewS3(context.Background(), S3Options{
		Bucket:       "media",
		Endpoint:     "http://localhost:4566",
		AccessKey:    "test",
		SecretKey:    "test",
		UsePathStyle: true,
	})
	require.NoError(t, err)

	got, err := s.PresignGet(context.Background(), "guidance/a.png", time.Hour)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(got, "http://localhost:4566/media/guidance/a.png?"))
}

func TestGCS_MissingSigner(t *testing.T) {
	g := &GCSAdapter{bucket: "media", now: time.Now}

	_, err := g.PresignGet(context.Background(), "k", time.Minute)
	assert.ErrorIs(t, err, ErrMissingSigner)
}

func TestNewFromDriver_SharedBucket(t *testing.T) {
	s, err := NewFromDriver(context.Background(), " MinIO ", FactoryOptions{
		Bucket: "shared",
		MinIO: MinIOOptions{
			Endpoint:  "localhost:9000",
			AccessKey: "minio",
			SecretKey: "minio123",
			Region:    "us-east-1",
		},
	})
	require.NoError(t, err)
	defer s.Close()

	got, err := s.PresignGet(context.Background(), "music/calm.mp3", time.Minute)
	require.NoError(t, err)
	assert.Contains(t, got, "/shared/music/calm.mp3?")
}
