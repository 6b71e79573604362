package messaging

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/mindcarehq/mindcare/internal/pkg/instrument"
)

// HeaderCorrelationID carries the request correlation ID across the broker.
const HeaderCorrelationID = "X-Correlation-ID"

var (
	// ErrTopicRequired is returned when the topic is empty.
	ErrTopicRequired = errors.New("messaging: topic is required")
	// ErrGroupRequired is returned when a consumer group is empty.
	ErrGroupRequired = errors.New("messaging: consumer group is required")
	// ErrHandlerRequired is returned when Subscribe is called with a nil handler.
	ErrHandlerRequired = errors.New("messaging: handler is required")
	// ErrClosed is returned after Close has been called.
	ErrClosed = errors.New("messaging: client is closed")
)

// Messaging is a broker-agnostic client.
type Messaging interface {
	io.Closer

	// Publish sends msg to topic.
	Publish(ctx context.Context, topic string, msg Message) error

	// Subscribe consumes topic as part of group and blocks until ctx is
	// done or the client is closed.
	Subscribe(ctx context.Context, topic, group string, h Handler, opts ...SubscribeOption) error
}

// Handler processes a received message.
type Handler func(ctx context.Context, msg Message) error

// Message is the unit exchanged over the broker.
type Message struct {
	ID        string
	Topic     string
	Key       []byte
	Body      []byte
	Headers   map[string]string
	Timestamp time.Time
}

type subscribeOptions struct {
	concurrency int
	maxInFlight int
}

// SubscribeOption tunes a subscription.
type SubscribeOption func(*subscribeOptions)

// WithConcurrency sets how many handlers run in parallel.
func WithConcurrency(n int) SubscribeOption {
	return func(o *subscribeOptions) {
		if n > 0 {
			o.concurrency = n
		}
	}
}

// WithMaxInFlight limits unacknowledged messages held by the client.
func WithMaxInFlight(n int) SubscribeOption {
	return func(o *subscribeOptions) {
		if n > 0 {
			o.maxInFlight = n
		}
	}
}

func newSubscribeOptions(opts ...SubscribeOption) subscribeOptions {
	o := subscribeOptions{concurrency: 1}
	for _, opt := range opts {
		opt(&o)
	}
	if o.maxInFlight < o.concurrency {
		o.maxInFlight = o.concurrency
	}
	return o
}

func validateSubscribe(topic, group string, h Handler) error {
	switch {
	case topic == "":
		return ErrTopicRequired
	case group == "":
		return ErrGroupRequired
	case h == nil:
		return ErrHandlerRequired
	}
	return nil
}

// outgoingHeaders copies msg headers and injects the correlation ID and
// trace context found in ctx.
func outgoingHeaders(ctx context.Context, headers map[string]string) map[string]string {
	out := make(map[string]string, len(headers)+3)
	for k, v := range headers {
		out[k] = v
	}
	if _, ok := out[HeaderCorrelationID]; !ok {
		if id := instrument.GetCorrelationID(ctx); id != "" {
			out[HeaderCorrelationID] = id
		}
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.MapCarrier(out))
	return out
}

// incomingContext restores the correlation ID and trace context from
// received headers.
func incomingContext(ctx context.Context, headers map[string]string) context.Context {
	if len(headers) == 0 {
		return ctx
	}
	ctx = otel.GetTextMapPropagator().Extract(ctx, propagation.MapCarrier(headers))
	if id := headerValue(headers, HeaderCorrelationID); id != "" {
		ctx = instrument.SetCorrelationID(ctx, id)
	}
	return ctx
}

// headerValue looks key up ignoring case, some brokers canonicalize names.
func headerValue(headers map[string]string, key string) string {
	if v, ok := headers[key]; ok {
		return v
	}
	for k, v := range headers {
		if strings.EqualFold(k, key) {
			return v
		}
	}
	return ""
}
