// Package idempotency makes retried requests safe: the first call with a
// key runs the operation and stores its result in redis, later calls with
// the same key get the stored result back without running it again.
package idempotency

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrInProgress is returned while another call with the same key is still running.
var ErrInProgress = errors.New("idempotency: operation already in progress")

const (
	pending      = "\x00pending"
	defaultLock  = 30 * time.Second
	defaultStore = 24 * time.Hour
)

// Idempotency runs fn at most once per key while its result is retained.
type Idempotency interface {
	Do(ctx context.Context, key string, fn func(context.Context) ([]byte, error)) (result []byte, replayed bool, err error)
}

// Redis implements Idempotency with SETNX.
type Redis struct {
	client redis.UniversalClient
	prefix string
	lock   time.Duration
	keep   time.Duration
}

// Option tunes a Redis tracker.
type Option func(*Redis)

// WithLockDuration bounds how long a crashed caller can hold a key.
func WithLockDuration(d time.Duration) Option {
	return func(r *Redis) {
		if d > 0 {
			r.lock = d
		}
	}
}

// WithRetention sets how long completed results are replayed.
func WithRetention(d time.Duration) Option {
	return func(r *Redis) {
		if d > 0 {
			r.keep = d
		}
	}
}

// New returns a redis backed tracker.
func New(client redis.UniversalClient, opts ...Option) *Redis {
	r := &Redis{client: client, prefix: "idempotency:", lock: defaultLock, keep: defaultStore}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Do runs fn unless key already has a stored result. A failed fn releases the
// key so the client may retry.
func (r *Redis) Do(ctx context.Context, key string, fn func(context.Context) ([]byte, error)) ([]byte, bool, error) {
	k := r.prefix + key

	acquired, err := r.client.SetNX(ctx, k, pending, r.lock).Result()
	if err != nil {
		return nil, false, err
	}

	if !acquired {
		stored, err := r.client.Get(ctx, k).Result()
		switch {
		case errors.Is(err, redis.Nil):
			// expired between SETNX and GET
			return r.Do(ctx, key, fn)
		case err != nil:
			return nil, false, err
		case stored == pending:
			return nil, false, ErrInProgress
		default:
			return []byte(stored), true, nil
		}
	}

	result, err := fn(ctx)
	if err != nil {
		// context.WithoutCancel: the key must be released even if the request was cancelled.
		if delErr := r.client.Del(context.WithoutCancel(ctx), k).Err(); delErr != nil {
			return nil, false, errors.Join(err, delErr)
		}
		return nil, false, err
	}

	if err := r.client.Set(ctx, k, result, r.keep).Err(); err != nil {
		return nil, false, err
	}

	return result, false, nil
}
