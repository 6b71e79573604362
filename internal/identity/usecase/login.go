package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/mindcarehq/mindcare/internal/identity/entity"
	"github.com/mindcarehq/mindcare/internal/pkg/goerror"
	"github.com/mindcarehq/mindcare/internal/pkg/jwt"
)

type LoginInput struct {
	Identifier string `json:"identifier" validate:"required,max=254"`
	Password   string `json:"password" validate:"required"`
}

type LoginOutput struct {
	AccessToken          string
	AccessTokenExpiresAt time.Time
	RefreshToken         string
}

var errInvalidCredentials = goerror.NewBusiness("invalid credentials", goerror.CodeUnauthorized)

func (s *Usecase) Login(ctx context.Context, in LoginInput) (*LoginOutput, error) {
	ctx, span := s.startSpan(ctx, "Login")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	ident := strings.TrimSpace(in.Identifier)

	var (
		user *entity.User
		err  error
	)
	if strings.Contains(ident, "@") {
		user, err = s.repoDB.GetUserByEmail(ctx, normalizeEmail(ident))
	} else {
		user, err = s.repoDB.GetUserByUsername(ctx, strings.ToLower(ident))
	}
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "user account not found", "identifier", ident)
		return nil, errInvalidCredentials
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get user", "identifier", ident, "error", err)
		return nil, goerror.NewServer(err)
	}

	if !s.password.Verify(user.Password, in.Password) {
		slog.WarnContext(ctx, "password user account not match", "user_id", user.ID)
		return nil, errInvalidCredentials
	}

	return s.issueTokens(ctx, user.ID, user.Email, user.Role)
}

func (s *Usecase) issueTokens(ctx context.Context, userID int64, email string, role entity.Role) (*LoginOutput, error) {
	acToken, acExp, err := s.jwt.Generate(jwt.Subject{UserID: userID, Email: email, Role: role.Ensure().String()})
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate access jwt token", "user_id", userID, "error", err)
		return nil, goerror.NewServer(err)
	}

	refToken := s.token.Generate()
	refTokenHash, err := s.hmac.Hash(refToken)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash refresh token", "user_id", userID, "error", err)
		return nil, goerror.NewServer(err)
	}

	now := s.clock.Now()
	if err := s.repoDB.CreateRefreshToken(ctx, entity.RefreshToken{
		ID:        s.uid.Generate(),
		UserID:    userID,
		TokenHash: string(refTokenHash),
		ExpiresAt: now.Add(s.refreshTTL()),
		CreatedAt: now,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to repo create refresh token user", "user_id", userID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &LoginOutput{
		AccessToken:          acToken,
		AccessTokenExpiresAt: acExp,
		RefreshToken:         refToken,
	}, nil
}
