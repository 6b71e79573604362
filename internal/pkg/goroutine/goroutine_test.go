package goroutine

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManagerCollectsErrors(t *testing.T) {
	m := NewManager(2)
	errBoom := errors.New("boom")

	var ran atomic.Int32
	for i := range 5 {
		require.NoError(t, m.Go(context.Background(), func(context.Context) error {
			ran.Add(1)
			if i == 3 {
				return errBoom
			}
			return nil
		}))
	}

	err := m.Wait()
	assert.ErrorIs(t, err, errBoom)
	assert.Equal(t, int32(5), ran.Load())
}

func TestManagerRecoversPanic(t *testing.T) {
	m := NewManager(1)

	require.NoError(t, m.Go(context.Background(), func(context.Context) error {
		panic("kaboom")
	}))

	assert.NoError(t, m.Wait())
}

func TestManagerClosed(t *testing.T) {
	m := NewManager(1)
	require.NoError(t, m.Wait())

	err := m.Go(context.Background(), func(context.Context) error { return nil })
	assert.ErrorIs(t, err, ErrClosed)
}

func TestManagerBlocksAtCapacity(t *testing.T) {
	m := NewManager(1)
	release := make(chan struct{})

	require.NoError(t, m.Go(context.Background(), func(context.Context) error {
		<-release
		return nil
	}))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := m.Go(ctx, func(context.Context) error { return nil })
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	close(release)
	assert.NoError(t, m.Wait())
}
