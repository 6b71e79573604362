package inbound

import (
	"time"

	"github.com/mindcarehq/mindcare/internal/identity/entity"
)

type SendOTPRequest struct {
	Email string `json:"email"`
}

type SendOTPResponse struct {
	OTPToken  string    `json:"otp_token"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (SendOTPResponse) Message() string { return "OTP sent to email" }

type VerifyOTPRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

type VerifyOTPResponse struct {
	Verified  bool      `json:"verified"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (VerifyOTPResponse) Message() string { return "OTP verified" }

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
	Nickname string `json:"nickname"`
	Phone    string `json:"phone"`
	Age      *int   `json:"age"`
	Gender   string `json:"gender"`
	OTPToken string `json:"otp_token"`
}

type RegisterResponse struct {
	ID       int64  `json:"id,string"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

func (RegisterResponse) Message() string { return "Registration successful" }

func (RegisterResponse) StatusCode() int { return 201 }

type LoginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

type TokenResponse struct {
	AccessToken          string    `json:"access_token"`
	AccessTokenExpiresAt time.Time `json:"access_token_expires_at"`
	RefreshToken         string    `json:"refresh_token"`
	TokenType            string    `json:"token_type"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type ProfileResponse struct {
	ID                   int64      `json:"id,string"`
	Username             string     `json:"username"`
	Email                string     `json:"email"`
	FullName             string     `json:"full_name"`
	Nickname             string     `json:"nickname"`
	Phone                string     `json:"phone"`
	Age                  *int       `json:"age"`
	Gender               string     `json:"gender"`
	WalletMinutes        int        `json:"wallet_minutes"`
	LastMood             *int       `json:"last_mood"`
	LastMoodUpdated      *time.Time `json:"last_mood_updated"`
	MoodUpdatesCount     int        `json:"mood_updates_count"`
	MoodUpdatesDate      *string    `json:"mood_updates_date"`
	Timezone             string     `json:"timezone"`
	NotificationsEnabled bool       `json:"notifications_enabled"`
	PrefersDarkMode      bool       `json:"prefers_dark_mode"`
	Language             string     `json:"language"`
	CreatedAt            time.Time  `json:"created_at"`
}

func newProfileResponse(p *entity.Profile) ProfileResponse {
	var moodDate *string
	if p.MoodUpdatesDate != nil {
		d := p.MoodUpdatesDate.Format(time.DateOnly)
		moodDate = &d
	}

	return ProfileResponse{
		ID:                   p.UserID,
		Username:             p.Username,
		Email:                p.Email,
		FullName:             p.FullName,
		Nickname:             p.Nickname,
		Phone:                p.Phone,
		Age:                  p.Age,
		Gender:               p.Gender,
		WalletMinutes:        p.WalletMinutes,
		LastMood:             p.LastMood,
		LastMoodUpdated:      p.LastMoodUpdated,
		MoodUpdatesCount:     p.MoodUpdatesCount,
		MoodUpdatesDate:      moodDate,
		Timezone:             p.Timezone,
		NotificationsEnabled: p.NotificationsEnabled,
		PrefersDarkMode:      p.PrefersDarkMode,
		Language:             p.Language,
		CreatedAt:            p.CreatedAt,
	}
}

type UpdateSettingsRequest struct {
	FullName             *string `json:"full_name"`
	Nickname             *string `json:"nickname"`
	Phone                *string `json:"phone"`
	Age                  *int    `json:"age"`
	Gender               *string `json:"gender"`
	Timezone             *string `json:"timezone"`
	NotificationsEnabled *bool   `json:"notifications_enabled"`
	PrefersDarkMode      *bool   `json:"prefers_dark_mode"`
	Language             *string `json:"language"`
}
