package inbound

import (
	"context"

	"github.com/mindcarehq/mindcare/internal/notification/usecase"
)

type uc interface {
	SendOTPCode(ctx context.Context, in usecase.SendOTPCodeInput) error
	SendWelcome(ctx context.Context, in usecase.SendWelcomeInput) error
}
