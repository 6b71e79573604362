package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mindcarehq/mindcare/internal/identity/entity"
	"github.com/mindcarehq/mindcare/internal/pkg/goerror"
)

type VerifyOTPInput struct {
	Email string `json:"email" validate:"required,email,max=254"`
	Code  string `json:"code" validate:"required,len=6"`
}

type VerifyOTPOutput struct {
	Verified  bool
	ExpiresAt time.Time
}

var (
	errOTPNotFound    = goerror.NewInvalidInput(nil, "email", "No OTP request found for this email.")
	errOTPExpired     = goerror.NewInvalidInput(nil, "code", "OTP has expired. Please request a new one.")
	errOTPLocked      = goerror.NewInvalidInput(nil, "code", "Too many attempts. Please request a new OTP.")
	errOTPMismatch    = goerror.NewInvalidInput(nil, "code", "Incorrect OTP code.")
	errOTPStateChurns = errors.New("otp record kept changing during verification")
)

// VerifyOTP checks the latest registration code for an email. Checks run in
// order: record exists, not expired, not locked, code matches. Attempts are
// only counted on a mismatch, and both writes are conditional on the record
// still being open so concurrent calls cannot push it past the limit.
func (s *Usecase) VerifyOTP(ctx context.Context, in VerifyOTPInput) (*VerifyOTPOutput, error) {
	ctx, span := s.startSpan(ctx, "VerifyOTP")
	defer span.End()

	in.Email = normalizeEmail(in.Email)
	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	email := in.Email
	ttl := s.otpTTL()

	rec, err := s.repoDB.GetLatestEmailOTP(ctx, email, entity.OTPPurposeRegistration)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "otp not found", "email", email)
		return nil, errOTPNotFound
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get latest email otp", "email", email, "error", err)
		return nil, goerror.NewServer(err)
	}

	for range maxVerifyReclassRuns {
		if rec.IsExpired(s.clock.Now(), ttl) {
			return nil, errOTPExpired
		}

		matched := rec.Code == in.Code

		if rec.IsVerified {
			if !matched {
				return nil, errOTPMismatch
			}
			return &VerifyOTPOutput{Verified: true, ExpiresAt: rec.ExpiresAt(ttl)}, nil
		}

		if rec.IsLocked() {
			slog.WarnContext(ctx, "otp locked", "otp_id", rec.ID, "attempts", rec.Attempts)
			return nil, errOTPLocked
		}

		var applied bool
		if matched {
			applied, err = s.repoDB.MarkEmailOTPVerified(ctx, rec.ID, entity.MaxOTPAttempts)
		} else {
			applied, err = s.repoDB.IncrementEmailOTPAttempts(ctx, rec.ID, entity.MaxOTPAttempts)
		}
		if err != nil {
			slog.ErrorContext(ctx, "failed to repo update email otp", "otp_id", rec.ID, "matched", matched, "error", err)
			return nil, goerror.NewServer(err)
		}

		if applied {
			if !matched {
				return nil, errOTPMismatch
			}
			return &VerifyOTPOutput{Verified: true, ExpiresAt: rec.ExpiresAt(ttl)}, nil
		}

		// Another request changed the record first.
		rec, err = s.repoDB.GetEmailOTPByID(ctx, rec.ID)
		if errors.Is(err, goerror.ErrNotFound) {
			return nil, errOTPNotFound
		}
		if err != nil {
			slog.ErrorContext(ctx, "failed to repo get email otp", "email", email, "error", err)
			return nil, goerror.NewServer(err)
		}
	}

	slog.ErrorContext(ctx, "failed to settle otp verification", "otp_id", rec.ID)
	return nil, goerror.NewServer(fmt.Errorf("verify otp %d: %w", rec.ID, errOTPStateChurns))
}
