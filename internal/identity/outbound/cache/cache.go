package cache

import (
	"context"
	"errors"
	"time"

	"github.com/mindcarehq/mindcare/internal/pkg/instrument"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/codes"
)

const keyOTPResend = "identity:otp:resend:"

type Cache struct {
	client redis.UniversalClient
	ins    instrument.Instrumentation
}

func NewCache(client redis.UniversalClient, ins instrument.Instrumentation) *Cache {
	return &Cache{client: client, ins: ins}
}

// ReserveOTPResend claims the resend window for email with SET NX. When the
// window is held it returns false and the remaining time.
func (c *Cache) ReserveOTPResend(ctx context.Context, email string, window time.Duration) (_ bool, _ time.Duration, err error) {
	ctx, span := c.ins.Tracer("identity.outbound.cache").Start(ctx, "ReserveOTPResend")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	key := keyOTPResend + email

	ok, err := c.client.SetNX(ctx, key, 1, window).Result()
	if err != nil {
		return false, 0, err
	}
	if ok {
		return true, 0, nil
	}

	left, err := c.client.PTTL(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return false, window, nil
	}
	if err != nil {
		return false, 0, err
	}
	if left <= 0 {
		// Expired between SETNX and PTTL, or stored without a TTL.
		left = window
	}

	return false, left, nil
}

// ReleaseOTPResend clears the resend window for email.
func (c *Cache) ReleaseOTPResend(ctx context.Context, email string) (err error) {
	ctx, span := c.ins.Tracer("identity.outbound.cache").Start(ctx, "ReleaseOTPResend")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	return c.client.Del(ctx, keyOTPResend+email).Err()
}
