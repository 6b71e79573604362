package usecase

import (
	"context"
	"log/slog"
	"math"
	"time"

	"github.com/mindcarehq/mindcare/internal/notification/entity"
	"github.com/mindcarehq/mindcare/internal/pkg/goerror"
)

type SendOTPCodeInput struct {
	Email     string    `json:"email" validate:"required,email"`
	Code      string    `json:"code" validate:"required"`
	ExpiresAt time.Time `json:"expires_at" validate:"required"`
}

// SendOTPCode mails a registration code. A code that already expired is
// dropped without error.
func (s *Usecase) SendOTPCode(ctx context.Context, in SendOTPCodeInput) error {
	ctx, span := s.startSpan(ctx, "SendOTPCode")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	left := in.ExpiresAt.Sub(s.clock.Now())
	if left <= 0 {
		slog.WarnContext(ctx, "otp expired before it could be mailed", "email", in.Email, "expires_at", in.ExpiresAt)
		return nil
	}

	data := s.baseData(entity.TemplateOTPCode)
	data.Code = in.Code
	data.ExpiresAt = in.ExpiresAt.In(s.location()).Format("15:04 MST")
	data.ExpiresInMinutes = int(math.Ceil(left.Minutes()))

	if err := s.send(ctx, in.Email, entity.TemplateOTPCode, data); err != nil {
		slog.ErrorContext(ctx, "failed to send otp code email", "email", in.Email, "error", err)
		return goerror.NewServer(err)
	}

	slog.InfoContext(ctx, "otp code email sent", "email", in.Email)
	return nil
}
