package inbound

import (
	"github.com/mindcarehq/mindcare/internal/identity/usecase"
	"github.com/mindcarehq/mindcare/internal/pkg/router"
)

// HTTPEndpoint exposes HTTP handlers for registration, sessions and profile.
type HTTPEndpoint struct {
	uc uc
}

// SendOTP mails a registration code and returns the token that later
// authorizes Register.
// @Summary Send registration OTP
// @Description Mails a 6 digit code to an email without an account and returns the token that authorizes registration.
// @Tags Identity, Registration
// @Accept json
// @Produce json
// @Param request body SendOTPRequest true "Send OTP payload"
// @Success 200 {object} router.successResponse{data=SendOTPResponse} "OTP issued"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 429 {object} router.errorResponse "Resend cooldown active"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/identity/otp/send [post]
func (h *HTTPEndpoint) SendOTP(r *router.Request) (any, error) {
	var req SendOTPRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.SendOTP(r.Context(), usecase.SendOTPInput{Email: req.Email})
	if err != nil {
		return nil, err
	}

	return SendOTPResponse{OTPToken: resp.OTPToken, ExpiresAt: resp.ExpiresAt}, nil
}

// VerifyOTP checks the latest registration code for an email.
// @Summary Verify registration OTP
// @Description Checks the latest code for an email. Wrong codes count towards the attempt limit.
// @Tags Identity, Registration
// @Accept json
// @Produce json
// @Param request body VerifyOTPRequest true "Verify OTP payload"
// @Success 200 {object} router.successResponse{data=VerifyOTPResponse} "OTP verified"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 422 {object} router.errorResponse "Invalid, expired or locked code"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/identity/otp/verify [post]
func (h *HTTPEndpoint) VerifyOTP(r *router.Request) (any, error) {
	var req VerifyOTPRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.VerifyOTP(r.Context(), usecase.VerifyOTPInput{Email: req.Email, Code: req.Code})
	if err != nil {
		return nil, err
	}

	return VerifyOTPResponse{Verified: resp.Verified, ExpiresAt: resp.ExpiresAt}, nil
}

// Register creates an account from a verified OTP token.
// @Summary Register user
// @Description Consumes a verified OTP token and creates the account with its profile.
// @Tags Identity, Registration
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Registration payload"
// @Success 201 {object} router.successResponse{data=RegisterResponse} "Account created"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 409 {object} router.errorResponse "Email or username already in use"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/identity/register [post]
func (h *HTTPEndpoint) Register(r *router.Request) (any, error) {
	var req RegisterRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.Register(r.Context(), usecase.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
		Nickname: req.Nickname,
		Phone:    req.Phone,
		Age:      req.Age,
		Gender:   req.Gender,
		OTPToken: req.OTPToken,
	})
	if err != nil {
		return nil, err
	}

	return RegisterResponse{ID: resp.ID, Username: resp.Username, Email: resp.Email}, nil
}

// Login authenticates by username or email and returns tokens.
// @Summary Authenticate user
// @Description Validates credentials and returns an access token and a refresh token.
// @Tags Identity, Authentication
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login payload"
// @Success 200 {object} router.successResponse{data=TokenResponse} "Authentication result"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 401 {object} router.errorResponse "Invalid credentials"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/identity/login [post]
func (h *HTTPEndpoint) Login(r *router.Request) (any, error) {
	var req LoginRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.Login(r.Context(), usecase.LoginInput{
		Identifier: req.Identifier,
		Password:   req.Password,
	})
	if err != nil {
		return nil, err
	}

	return TokenResponse{
		AccessToken:          resp.AccessToken,
		AccessTokenExpiresAt: resp.AccessTokenExpiresAt,
		RefreshToken:         resp.RefreshToken,
		TokenType:            "Bearer",
	}, nil
}

// RefreshToken rotates a refresh token.
// @Summary Refresh access token
// @Description Exchanges a refresh token for a new access and refresh token pair. The old refresh token is revoked.
// @Tags Identity, Authentication
// @Accept json
// @Produce json
// @Param request body RefreshTokenRequest true "Refresh token payload"
// @Success 200 {object} router.successResponse{data=TokenResponse} "Token refresh result"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 401 {object} router.errorResponse "Invalid refresh token"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/identity/refresh [post]
func (h *HTTPEndpoint) RefreshToken(r *router.Request) (any, error) {
	var req RefreshTokenRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.RefreshToken(r.Context(), usecase.RefreshTokenInput{RefreshToken: req.RefreshToken})
	if err != nil {
		return nil, err
	}

	return TokenResponse{
		AccessToken:          resp.AccessToken,
		AccessTokenExpiresAt: resp.AccessTokenExpiresAt,
		RefreshToken:         resp.RefreshToken,
		TokenType:            "Bearer",
	}, nil
}

// Logout accepts an empty body.
// @Summary Logout
// @Description Revokes the given refresh token, or every refresh token of the caller when none is sent.
// @Tags Identity, Authentication
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body LogoutRequest false "Logout payload"
// @Success 204 "No Content"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 401 {object} router.errorResponse "Authentication required"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/identity/logout [post]
func (h *HTTPEndpoint) Logout(r *router.Request) (any, error) {
	var req LogoutRequest
	if r.ContentLength != 0 {
		if err := r.DecodeBody(&req); err != nil {
			return nil, err
		}
	}

	if err := h.uc.Logout(r.Context(), usecase.LogoutInput{RefreshToken: req.RefreshToken}); err != nil {
		return nil, err
	}

	return nil, nil
}

// Profile returns the caller's profile.
// @Summary Get profile
// @Description Returns the profile of the authenticated user.
// @Tags Identity, Profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} router.successResponse{data=ProfileResponse} "Profile"
// @Failure 401 {object} router.errorResponse "Authentication required"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/identity/profile [get]
func (h *HTTPEndpoint) Profile(r *router.Request) (any, error) {
	p, err := h.uc.Profile(r.Context())
	if err != nil {
		return nil, err
	}

	return newProfileResponse(p), nil
}

// UpdateSettings applies a partial profile update.
// @Summary Update settings
// @Description Updates only the profile fields present in the body.
// @Tags Identity, Profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UpdateSettingsRequest true "Settings payload"
// @Success 200 {object} router.successResponse{data=ProfileResponse} "Updated profile"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 401 {object} router.errorResponse "Authentication required"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/identity/settings [patch]
func (h *HTTPEndpoint) UpdateSettings(r *router.Request) (any, error) {
	var req UpdateSettingsRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	p, err := h.uc.UpdateSettings(r.Context(), usecase.UpdateSettingsInput{
		FullName:             req.FullName,
		Nickname:             req.Nickname,
		Phone:                req.Phone,
		Age:                  req.Age,
		Gender:               req.Gender,
		Timezone:             req.Timezone,
		NotificationsEnabled: req.NotificationsEnabled,
		PrefersDarkMode:      req.PrefersDarkMode,
		Language:             req.Language,
	})
	if err != nil {
		return nil, err
	}

	return newProfileResponse(p), nil
}
