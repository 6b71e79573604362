package inbound

import (
	"context"

	"github.com/mindcarehq/mindcare/internal/identity/entity"
	"github.com/mindcarehq/mindcare/internal/identity/usecase"
	"github.com/mindcarehq/mindcare/internal/pkg/router"
)

type uc interface {
	SendOTP(ctx context.Context, in usecase.SendOTPInput) (*usecase.SendOTPOutput, error)
	VerifyOTP(ctx context.Context, in usecase.VerifyOTPInput) (*usecase.VerifyOTPOutput, error)
	Register(ctx context.Context, in usecase.RegisterInput) (*usecase.RegisterOutput, error)

	Login(ctx context.Context, in usecase.LoginInput) (*usecase.LoginOutput, error)
	RefreshToken(ctx context.Context, in usecase.RefreshTokenInput) (*usecase.RefreshTokenOutput, error)
	Logout(ctx context.Context, in usecase.LogoutInput) error

	Profile(ctx context.Context) (*entity.Profile, error)
	UpdateSettings(ctx context.Context, in usecase.UpdateSettingsInput) (*entity.Profile, error)
}

func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	// Registration
	r.POST("/api/v1/identity/otp/send", end.SendOTP)
	r.POST("/api/v1/identity/otp/verify", end.VerifyOTP)
	r.POST("/api/v1/identity/register", end.Register)

	// Session
	r.POST("/api/v1/identity/login", end.Login)
	r.POST("/api/v1/identity/refresh", end.RefreshToken)
	r.POST("/api/v1/identity/logout", end.Logout) // need authenticated

	// Profile (need authenticated)
	r.GET("/api/v1/identity/profile", end.Profile)
	r.PATCH("/api/v1/identity/settings", end.UpdateSettings)
}
