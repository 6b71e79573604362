package usecase

import (
	"context"
	"log/slog"

	"github.com/mindcarehq/mindcare/internal/notification/entity"
	"github.com/mindcarehq/mindcare/internal/pkg/goerror"
)

type SendWelcomeInput struct {
	UserID   int64  `json:"user_id" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"required"`
}

func (s *Usecase) SendWelcome(ctx context.Context, in SendWelcomeInput) error {
	ctx, span := s.startSpan(ctx, "SendWelcome")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	data := s.baseData(entity.TemplateWelcome)
	data.Username = in.Username

	if err := s.send(ctx, in.Email, entity.TemplateWelcome, data); err != nil {
		slog.ErrorContext(ctx, "failed to send welcome email", "user_id", in.UserID, "error", err)
		return goerror.NewServer(err)
	}

	slog.InfoContext(ctx, "welcome email sent", "user_id", in.UserID)
	return nil
}
