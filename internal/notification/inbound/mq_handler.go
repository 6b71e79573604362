package inbound

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/mindcarehq/mindcare/internal/notification/usecase"
	"github.com/mindcarehq/mindcare/internal/pkg/goerror"
	"github.com/mindcarehq/mindcare/internal/pkg/instrument"
	"github.com/mindcarehq/mindcare/internal/pkg/messaging"
	"github.com/mindcarehq/mindcare/internal/pkg/uid"
	"github.com/mindcarehq/mindcare/internal/shared/event"
)

// MQHandler acks malformed and invalid messages so they are not redelivered
// forever. Delivery failures are returned for the broker to retry.
type MQHandler struct {
	uc   uc
	uuid uid.StringID
	ins  instrument.Instrumentation
}

func (h *MQHandler) ensureCorrelationID(ctx context.Context) context.Context {
	if instrument.GetCorrelationID(ctx) != "" {
		return ctx
	}
	return instrument.SetCorrelationID(ctx, h.uuid.Generate())
}

// settle maps a usecase error to the broker outcome.
func settle(ctx context.Context, topic string, err error) error {
	if err == nil {
		return nil
	}

	var gerr *goerror.Error
	if errors.As(err, &gerr) && gerr.Code() == goerror.CodeInvalidInput {
		slog.WarnContext(ctx, "dropping invalid message", "topic", topic, "error", err)
		return nil
	}

	return err
}

func (h *MQHandler) OTPRequested(ctx context.Context, msg messaging.Message) error {
	ctx = h.ensureCorrelationID(ctx)

	ctx, span := h.ins.Tracer("notification.inbound.mq").Start(ctx, "OTPRequested")
	defer span.End()

	var payload event.OTPRequested
	if err := json.Unmarshal(msg.Body, &payload); err != nil {
		slog.ErrorContext(ctx, "failed to parse otp requested message", "message_id", msg.ID, "error", err)
		return nil
	}

	err := h.uc.SendOTPCode(ctx, usecase.SendOTPCodeInput{
		Email:     payload.Email,
		Code:      payload.Code,
		ExpiresAt: payload.ExpiresAt,
	})
	return settle(ctx, msg.Topic, err)
}

func (h *MQHandler) UserRegistered(ctx context.Context, msg messaging.Message) error {
	ctx = h.ensureCorrelationID(ctx)

	ctx, span := h.ins.Tracer("notification.inbound.mq").Start(ctx, "UserRegistered")
	defer span.End()

	var payload event.UserRegistered
	if err := json.Unmarshal(msg.Body, &payload); err != nil {
		slog.ErrorContext(ctx, "failed to parse user registered message", "message_id", msg.ID, "error", err)
		return nil
	}

	slog.InfoContext(ctx, "consume: user registered", "user_id", payload.UserID)

	err := h.uc.SendWelcome(ctx, usecase.SendWelcomeInput{
		UserID:   payload.UserID,
		Email:    payload.Email,
		Username: payload.Username,
	})
	return settle(ctx, msg.Topic, err)
}
