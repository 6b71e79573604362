package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/mindcarehq/mindcare/internal/identity/entity"
	"github.com/mindcarehq/mindcare/internal/pkg/clock"
	"github.com/mindcarehq/mindcare/internal/pkg/config"
	"github.com/mindcarehq/mindcare/internal/pkg/hash"
	"github.com/mindcarehq/mindcare/internal/pkg/instrument"
	"github.com/mindcarehq/mindcare/internal/pkg/jwt"
	"github.com/mindcarehq/mindcare/internal/pkg/otp"
	"github.com/mindcarehq/mindcare/internal/pkg/uid"
	"github.com/mindcarehq/mindcare/internal/pkg/validator"
	"go.opentelemetry.io/otel/trace"
)

const (
	defaultOTPTTL        = 10 * time.Minute
	defaultRefreshTTL    = 7 * 24 * time.Hour
	maxVerifyReclassRuns = 3
)

type OTPRequestedEvent struct {
	Email     string
	Code      string
	ExpiresAt time.Time
}

type UserRegisteredEvent struct {
	UserID   int64
	Email    string
	Username string
}

type repoMessaging interface {
	PublishOTPRequested(ctx context.Context, msg OTPRequestedEvent) error
	PublishUserRegistered(ctx context.Context, msg UserRegisteredEvent) error
}

type repoCache interface {
	// ReserveOTPResend claims the cooldown window for email. When the window
	// is already held it returns false and the time left.
	ReserveOTPResend(ctx context.Context, email string, window time.Duration) (bool, time.Duration, error)
	ReleaseOTPResend(ctx context.Context, email string) error
}

type repoDB interface {
	ExistsUserByEmail(ctx context.Context, email string) (bool, error)
	ExistsUserByUsername(ctx context.Context, username string) (bool, error)
	GetUserByEmail(ctx context.Context, email string) (*entity.User, error)
	GetUserByUsername(ctx context.Context, username string) (*entity.User, error)

	CreateEmailOTP(ctx context.Context, in entity.EmailOTP) error
	GetLatestEmailOTP(ctx context.Context, email string, p entity.OTPPurpose) (*entity.EmailOTP, error)
	GetLatestEmailOTPByToken(ctx context.Context, tokenHash, email string, p entity.OTPPurpose) (*entity.EmailOTP, error)
	GetEmailOTPByID(ctx context.Context, id int64) (*entity.EmailOTP, error)
	IncrementEmailOTPAttempts(ctx context.Context, id int64, maxAttempts int) (bool, error)
	MarkEmailOTPVerified(ctx context.Context, id int64, maxAttempts int) (bool, error)

	CreateAccount(ctx context.Context, in entity.NewAccount) error

	CreateRefreshToken(ctx context.Context, in entity.RefreshToken) error
	GetUserRefreshToken(ctx context.Context, tokenHash string) (*entity.UserRefreshToken, error)
	RotateRefreshToken(ctx context.Context, ro entity.RotateRefreshToken) error
	RevokeRefreshToken(ctx context.Context, tokenHash string, userID int64) error

	GetProfile(ctx context.Context, userID int64) (*entity.Profile, error)
	UpdateProfile(ctx context.Context, userID int64, patch entity.ProfilePatch) error
}

type Usecase struct {
	repoDB        repoDB
	repoCache     repoCache
	repoMessaging repoMessaging
	validator     validator.Validator
	cfg           config.Config
	hmac          hash.Hash
	password      hash.Hash
	code          otp.Generator
	token         uid.StringID
	uid           uid.NumberID
	clock         clock.Clocker
	jwt           jwt.JWT
	ins           instrument.Instrumentation
}

type Dependency struct {
	RepoDB        repoDB
	RepoCache     repoCache
	RepoMessaging repoMessaging
	Validator     validator.Validator
	Config        config.Config
	HMAC          hash.Hash
	Password      hash.Hash
	Code          otp.Generator
	Token         uid.StringID
	UID           uid.NumberID
	Clock         clock.Clocker
	JWT           jwt.JWT
	Instrument    instrument.Instrumentation
}

func New(dep Dependency) *Usecase {
	return &Usecase{
		repoDB:        dep.RepoDB,
		repoCache:     dep.RepoCache,
		repoMessaging: dep.RepoMessaging,
		validator:     dep.Validator,
		cfg:           dep.Config,
		hmac:          dep.HMAC,
		password:      dep.Password,
		code:          dep.Code,
		token:         dep.Token,
		uid:           dep.UID,
		clock:         dep.Clock,
		jwt:           dep.JWT,
		ins:           dep.Instrument,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("identity.usecase").Start(ctx, name)
}

func (s *Usecase) otpTTL() time.Duration {
	if ttl := s.cfg.GetMinute("modules.identity.otp.ttl_minutes"); ttl > 0 {
		return ttl
	}
	return defaultOTPTTL
}

func (s *Usecase) refreshTTL() time.Duration {
	if ttl := s.cfg.GetDay("modules.identity.refresh_token_ttl_days"); ttl > 0 {
		return ttl
	}
	return defaultRefreshTTL
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
