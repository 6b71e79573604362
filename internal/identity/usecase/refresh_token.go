package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/mindcarehq/mindcare/internal/identity/entity"
	"github.com/mindcarehq/mindcare/internal/pkg/goerror"
	"github.com/mindcarehq/mindcare/internal/pkg/jwt"
)

type RefreshTokenInput struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type RefreshTokenOutput struct {
	AccessToken          string
	AccessTokenExpiresAt time.Time
	RefreshToken         string
}

var errInvalidRefresh = goerror.NewBusiness("invalid or expired refresh token", goerror.CodeUnauthorized)

func (s *Usecase) RefreshToken(ctx context.Context, in RefreshTokenInput) (*RefreshTokenOutput, error) {
	ctx, span := s.startSpan(ctx, "RefreshToken")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	oldHash, err := s.hmac.Hash(in.RefreshToken)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash old refresh token", "error", err)
		return nil, goerror.NewServer(err)
	}

	rt, err := s.repoDB.GetUserRefreshToken(ctx, string(oldHash))
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "user refresh token not found")
		return nil, errInvalidRefresh
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get user refresh token", "error", err)
		return nil, goerror.NewServer(err)
	}

	now := s.clock.Now()
	if rt.RevokedAt != nil {
		slog.WarnContext(ctx, "refresh token is revoked", "refresh_token_id", rt.ID)
		return nil, errInvalidRefresh
	}
	if now.After(rt.ExpiresAt) {
		slog.WarnContext(ctx, "user refresh token is expired", "refresh_token_id", rt.ID)
		return nil, errInvalidRefresh
	}

	acToken, acExp, err := s.jwt.Generate(jwt.Subject{UserID: rt.UserID, Email: rt.Email, Role: rt.Role.Ensure().String()})
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate access jwt token", "user_id", rt.UserID, "error", err)
		return nil, goerror.NewServer(err)
	}

	newToken := s.token.Generate()
	newHash, err := s.hmac.Hash(newToken)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash new refresh token", "error", err)
		return nil, goerror.NewServer(err)
	}

	err = s.repoDB.RotateRefreshToken(ctx, entity.RotateRefreshToken{
		OldID:        rt.ID,
		NewID:        s.uid.Generate(),
		UserID:       rt.UserID,
		NewTokenHash: string(newHash),
		NewExpiresAt: now.Add(s.refreshTTL()),
	})
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "refresh token already rotated or revoked", "refresh_token_id", rt.ID)
		return nil, errInvalidRefresh
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo rotate refresh token", "error", err)
		return nil, goerror.NewServer(err)
	}

	return &RefreshTokenOutput{
		AccessToken:          acToken,
		AccessTokenExpiresAt: acExp,
		RefreshToken:         newToken,
	}, nil
}
