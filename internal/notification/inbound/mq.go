package inbound

import (
	"context"
	"log/slog"
	"slices"

	"github.com/mindcarehq/mindcare/internal/pkg/config"
	"github.com/mindcarehq/mindcare/internal/pkg/goroutine"
	"github.com/mindcarehq/mindcare/internal/pkg/instrument"
	"github.com/mindcarehq/mindcare/internal/pkg/messaging"
	"github.com/mindcarehq/mindcare/internal/pkg/uid"
	"github.com/mindcarehq/mindcare/internal/shared/event"
)

// RegisterMQConsumer starts one subscription per topic on the goroutine
// manager. modules.notification.consumer_names limits which topics run; an
// empty list runs all of them.
func RegisterMQConsumer(
	ctx context.Context,
	cfg config.Config,
	routine *goroutine.Manager,
	messenger messaging.Messaging,
	uuid uid.StringID,
	uc uc,
	ins instrument.Instrumentation,
) error {
	h := &MQHandler{uc: uc, uuid: uuid, ins: ins}

	enabled := cfg.GetArray("modules.notification.consumer_names")
	concurrency := cfg.GetInt("modules.notification.consumer_concurrency")
	if concurrency <= 0 {
		concurrency = 10
	}

	consumers := []struct {
		topic   string
		handler messaging.Handler
	}{
		{topic: event.TopicOTPRequested, handler: h.OTPRequested},
		{topic: event.TopicUserRegistered, handler: h.UserRegistered},
	}

	for _, c := range consumers {
		if len(enabled) > 0 && !slices.Contains(enabled, c.topic) {
			continue
		}

		err := routine.Go(ctx, func(ctx context.Context) error {
			slog.InfoContext(ctx, "running consumer", "topic", c.topic, "group", event.GroupNotification)
			return messenger.Subscribe(ctx, c.topic, event.GroupNotification, c.handler,
				messaging.WithConcurrency(concurrency),
				messaging.WithMaxInFlight(concurrency*2),
			)
		})
		if err != nil {
			return err
		}
	}

	return nil
}
