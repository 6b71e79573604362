package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"unicode"

	"github.com/mindcarehq/mindcare/internal/identity/entity"
	"github.com/mindcarehq/mindcare/internal/pkg/goerror"
	"github.com/mindcarehq/mindcare/internal/pkg/hash"
	"github.com/mindcarehq/mindcare/internal/pkg/validator"
)

type RegisterInput struct {
	Username string `json:"username" validate:"max=150"`
	Email    string `json:"email" validate:"omitempty,email,max=254"`
	Password string `json:"password" validate:"required,password"`
	FullName string `json:"full_name" validate:"max=150"`
	Nickname string `json:"nickname" validate:"max=50"`
	Phone    string `json:"phone" validate:"omitempty,phone"`
	Age      *int   `json:"age" validate:"omitempty,min=0,max=150"`
	Gender   string `json:"gender" validate:"max=20"`
	OTPToken string `json:"otp_token" validate:"required"`
}

type RegisterOutput struct {
	ID       int64
	Username string
	Email    string
}

var errOTPTokenInvalid = goerror.NewInvalidInput(nil, "otp_token", "The provided OTP token is invalid or expired.")

// Register consumes a verified registration OTP and creates the account
// with its profile in one transaction.
func (s *Usecase) Register(ctx context.Context, in RegisterInput) (*RegisterOutput, error) {
	ctx, span := s.startSpan(ctx, "Register")
	defer span.End()

	in.Email = normalizeEmail(in.Email)
	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	username, err := s.checkUsername(ctx, in.Username)
	if err != nil {
		return nil, err
	}

	email, err := s.checkRegisterEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}

	tokenHash, err := s.hmac.Hash(strings.TrimSpace(in.OTPToken))
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash otp token", "error", err)
		return nil, goerror.NewServer(err)
	}

	rec, err := s.repoDB.GetLatestEmailOTPByToken(ctx, string(tokenHash), email, entity.OTPPurposeRegistration)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "otp token not found", "email", email)
		return nil, errOTPTokenInvalid
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get email otp by token", "email", email, "error", err)
		return nil, goerror.NewServer(err)
	}
	if !rec.IsVerified || rec.IsExpired(s.clock.Now(), s.otpTTL()) {
		slog.WarnContext(ctx, "otp token not usable", "otp_id", rec.ID, "verified", rec.IsVerified)
		return nil, errOTPTokenInvalid
	}

	passHash, err := s.password.Hash(in.Password)
	if errors.Is(err, hash.ErrInputTooLong) {
		return nil, goerror.NewInvalidInput(nil, "password", "password is too long")
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash password", "error", err)
		return nil, goerror.NewServer(err)
	}

	phone := strings.TrimSpace(in.Phone)
	if phone != "" {
		if phone, err = validator.NormalizePhone(phone); err != nil {
			return nil, goerror.NewInvalidInput(nil, "phone", "phone must be a valid phone number")
		}
	}

	now := s.clock.Now()
	acc := entity.NewAccount{
		User: entity.User{
			ID:        s.uid.Generate(),
			Username:  username,
			Email:     email,
			Password:  string(passHash),
			Role:      entity.RoleMember,
			CreatedAt: now,
			UpdatedAt: now,
		},
		FullName: strings.TrimSpace(in.FullName),
		Nickname: strings.TrimSpace(in.Nickname),
		Phone:    phone,
		Age:      in.Age,
		Gender:   strings.TrimSpace(in.Gender),
		OTPID:    rec.ID,
	}

	err = s.repoDB.CreateAccount(ctx, acc)
	if errors.Is(err, goerror.ErrNotFound) {
		// The record was consumed by a concurrent registration.
		return nil, errOTPTokenInvalid
	}
	if errors.Is(err, goerror.ErrConflict) {
		return nil, goerror.NewBusiness("Email or username already in use", goerror.CodeConflict)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo create account", "email", email, "error", err)
		return nil, goerror.NewServer(err)
	}

	if err := s.repoMessaging.PublishUserRegistered(ctx, UserRegisteredEvent{
		UserID:   acc.User.ID,
		Email:    email,
		Username: username,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to publish user registered", "user_id", acc.User.ID, "error", err)
	}

	return &RegisterOutput{ID: acc.User.ID, Username: username, Email: email}, nil
}

func (s *Usecase) checkUsername(ctx context.Context, raw string) (string, error) {
	username := strings.TrimSpace(raw)
	if username == "" {
		return "", goerror.NewInvalidInput(nil, "username", "Username cannot be blank")
	}
	for _, r := range username {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return "", goerror.NewInvalidInput(nil, "username", "Username must be letters and numbers only")
		}
	}
	username = strings.ToLower(username)

	exists, err := s.repoDB.ExistsUserByUsername(ctx, username)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo check username", "username", username, "error", err)
		return "", goerror.NewServer(err)
	}
	if exists {
		return "", goerror.NewInvalidInput(nil, "username", "Username already exists")
	}

	return username, nil
}

func (s *Usecase) checkRegisterEmail(ctx context.Context, raw string) (string, error) {
	email := normalizeEmail(raw)
	if email == "" {
		return "", goerror.NewInvalidInput(nil, "email", "Email is required for registration.")
	}

	exists, err := s.repoDB.ExistsUserByEmail(ctx, email)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo check user email", "email", email, "error", err)
		return "", goerror.NewServer(err)
	}
	if exists {
		return "", goerror.NewInvalidInput(nil, "email", "Email already in use")
	}

	return email, nil
}
