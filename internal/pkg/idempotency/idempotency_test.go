package idempotency_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mindcarehq/mindcare/internal/pkg/idempotency"
	"github.com/mindcarehq/mindcare/internal/pkg/testkit"
)

func TestRedis_Do(t *testing.T) {
	client := testkit.Redis(t)
	ctx := context.Background()
	idem := idempotency.New(client, idempotency.WithRetention(time.Minute))

	calls := 0
	fn := func(context.Context) ([]byte, error) {
		calls++
		return []byte(`{"balance":30}`), nil
	}

	got, replayed, err := idem.Do(ctx, "wallet:1:abc", fn)
	require.NoError(t, err)
	assert.False(t, replayed)
	assert.JSONEq(t, `{"balance":30}`, string(got))

	got, replayed, err = idem.Do(ctx, "wallet:1:abc", fn)
	require.NoError(t, err)
	assert.True(t, replayed)
	assert.JSONEq(t, `{"balance":30}`, string(got))
	assert.Equal(t, 1, calls)

	ttl, err := client.TTL(ctx, "idempotency:wallet:1:abc").Result()
	require.NoError(t, err)
	assert.LessOrEqual(t, ttl, time.Minute)
	assert.Positive(t, ttl)
}

func TestRedis_DoFailureReleasesKey(t *testing.T) {
	client := testkit.Redis(t)
	ctx := context.Background()
	idem := idempotency.New(client)

	boom := errors.New("boom")
	_, _, err := idem.Do(ctx, "k", func(context.Context) ([]byte, error) { return nil, boom })
	require.ErrorIs(t, err, boom)

	got, replayed, err := idem.Do(ctx, "k", func(context.Context) ([]byte, error) { return []byte("ok"), nil })
	require.NoError(t, err)
	assert.False(t, replayed)
	assert.Equal(t, "ok", string(got))
}

func TestRedis_DoInProgress(t *testing.T) {
	client := testkit.Redis(t)
	ctx := context.Background()
	idem := idempotency.New(client, idempotency.WithLockDuration(time.Minute))

	started := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)

	go func() {
		_, _, err := idem.Do(ctx, "slow", func(context.Context) ([]byte, error) {
			close(started)
			<-release
			return []byte("done"), nil
		})
		done <- err
	}()

	<-started
	_, _, err := idem.Do(ctx, "slow", func(context.Context) ([]byte, error) {
		t.Error("second call must not run")
		return nil, nil
	})
	require.ErrorIs(t, err, idempotency.ErrInProgress)

	close(release)
	require.NoError(t, <-done)
}
