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
	"github.com/mindcarehq/mindcare/internal/pkg/validator"
)

type UpdateSettingsInput struct {
	FullName             *string `json:"full_name" validate:"omitempty,max=150"`
	Nickname             *string `json:"nickname" validate:"omitempty,max=50"`
	Phone                *string `json:"phone" validate:"omitempty,phone"`
	Age                  *int    `json:"age" validate:"omitempty,min=0,max=150"`
	Gender               *string `json:"gender" validate:"omitempty,max=20"`
	Timezone             *string `json:"timezone" validate:"omitempty,max=64"`
	NotificationsEnabled *bool   `json:"notifications_enabled"`
	PrefersDarkMode      *bool   `json:"prefers_dark_mode"`
	Language             *string `json:"language" validate:"omitempty,min=2,max=10"`
}

// UpdateSettings applies a partial profile update and returns the result.
func (s *Usecase) UpdateSettings(ctx context.Context, in UpdateSettingsInput) (*entity.Profile, error) {
	ctx, span := s.startSpan(ctx, "UpdateSettings")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	clm := jwt.GetAuth(ctx)
	if clm == nil {
		return nil, errAuthRequired
	}

	patch := entity.ProfilePatch{
		FullName:             trimPtr(in.FullName),
		Nickname:             trimPtr(in.Nickname),
		Age:                  in.Age,
		Gender:               trimPtr(in.Gender),
		NotificationsEnabled: in.NotificationsEnabled,
		PrefersDarkMode:      in.PrefersDarkMode,
		Language:             trimPtr(in.Language),
	}

	if in.Phone != nil {
		phone := strings.TrimSpace(*in.Phone)
		if phone != "" {
			e164, err := validator.NormalizePhone(phone)
			if err != nil {
				return nil, goerror.NewInvalidInput(nil, "phone", "phone must be a valid phone number")
			}
			phone = e164
		}
		patch.Phone = &phone
	}

	if in.Timezone != nil {
		tz := strings.TrimSpace(*in.Timezone)
		if _, err := time.LoadLocation(tz); err != nil || tz == "" || strings.EqualFold(tz, "local") {
			return nil, goerror.NewInvalidInput(nil, "timezone", "timezone must be a valid IANA time zone")
		}
		patch.Timezone = &tz
	}

	if !patch.IsEmpty() {
		err := s.repoDB.UpdateProfile(ctx, clm.UserID, patch)
		if errors.Is(err, goerror.ErrNotFound) {
			return nil, errAuthRequired
		}
		if err != nil {
			slog.ErrorContext(ctx, "failed to repo update profile", "user_id", clm.UserID, "error", err)
			return nil, goerror.NewServer(err)
		}
	}

	p, err := s.repoDB.GetProfile(ctx, clm.UserID)
	if errors.Is(err, goerror.ErrNotFound) {
		return nil, errAuthRequired
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get profile", "user_id", clm.UserID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return p, nil
}

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}
