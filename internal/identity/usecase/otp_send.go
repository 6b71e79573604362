package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/mindcarehq/mindcare/internal/identity/entity"
	"github.com/mindcarehq/mindcare/internal/pkg/goerror"
)

type SendOTPInput struct {
	Email string `json:"email" validate:"required,email,max=254"`
}

type SendOTPOutput struct {
	OTPToken  string
	ExpiresAt time.Time
}

// SendOTP issues a registration code for an email that has no account yet.
// The code goes out by mail; only the token is returned.
func (s *Usecase) SendOTP(ctx context.Context, in SendOTPInput) (*SendOTPOutput, error) {
	ctx, span := s.startSpan(ctx, "SendOTP")
	defer span.End()

	in.Email = normalizeEmail(in.Email)
	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	email := in.Email

	exists, err := s.repoDB.ExistsUserByEmail(ctx, email)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo check user email", "email", email, "error", err)
		return nil, goerror.NewServer(err)
	}
	if exists {
		slog.WarnContext(ctx, "otp requested for registered email", "email", email)
		return nil, goerror.NewInvalidInput(nil, "email", "Email is already associated with an account.")
	}

	release := func() {}
	if window := s.cfg.GetSecond("modules.identity.otp.resend_cooldown_seconds"); window > 0 {
		ok, left, err := s.repoCache.ReserveOTPResend(ctx, email, window)
		if err != nil {
			slog.ErrorContext(ctx, "failed to cache reserve otp resend", "email", email, "error", err)
			return nil, goerror.NewServer(err)
		}
		if !ok {
			wait := int(math.Ceil(left.Seconds()))
			if wait < 1 {
				wait = 1
			}
			return nil, goerror.NewBusiness(
				fmt.Sprintf("please wait %d seconds before requesting another OTP", wait),
				goerror.CodeTooManyRequest,
			)
		}
		release = func() { s.releaseOTPResend(ctx, email) }
	}

	code, err := s.code.Code()
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate otp code", "error", err)
		release()
		return nil, goerror.NewServer(err)
	}

	token := s.token.Generate()
	tokenHash, err := s.hmac.Hash(token)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash otp token", "error", err)
		release()
		return nil, goerror.NewServer(err)
	}

	rec := entity.EmailOTP{
		ID:        s.uid.Generate(),
		Email:     email,
		Code:      code,
		TokenHash: string(tokenHash),
		Purpose:   entity.OTPPurposeRegistration,
		CreatedAt: s.clock.Now(),
	}
	if err := s.repoDB.CreateEmailOTP(ctx, rec); err != nil {
		slog.ErrorContext(ctx, "failed to repo create email otp", "email", email, "error", err)
		release()
		return nil, goerror.NewServer(err)
	}

	expiresAt := rec.ExpiresAt(s.otpTTL())

	if err := s.repoMessaging.PublishOTPRequested(ctx, OTPRequestedEvent{
		Email:     email,
		Code:      code,
		ExpiresAt: expiresAt,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to publish otp requested", "otp_id", rec.ID, "error", err)
	}

	return &SendOTPOutput{OTPToken: token, ExpiresAt: expiresAt}, nil
}

// releaseOTPResend drops the cooldown claimed for a send that issued nothing.
func (s *Usecase) releaseOTPResend(ctx context.Context, email string) {
	if err := s.repoCache.ReleaseOTPResend(context.WithoutCancel(ctx), email); err != nil {
		slog.WarnContext(ctx, "failed to cache release otp resend", "email", email, "error", err)
	}
}
