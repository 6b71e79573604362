package inbound

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mindcarehq/mindcare/internal/identity/entity"
	"github.com/mindcarehq/mindcare/internal/identity/usecase"
	"github.com/mindcarehq/mindcare/internal/pkg/config"
	"github.com/mindcarehq/mindcare/internal/pkg/goerror"
	"github.com/mindcarehq/mindcare/internal/pkg/instrument"
	"github.com/mindcarehq/mindcare/internal/pkg/jwt"
	"github.com/mindcarehq/mindcare/internal/pkg/router"
)

var expires = time.Date(2026, 1, 1, 10, 10, 0, 0, time.UTC)

type fakeUC struct {
	sendIn     usecase.SendOTPInput
	verifyErr  error
	registerIn usecase.RegisterInput
	logoutIn   *usecase.LogoutInput
	settingsIn usecase.UpdateSettingsInput
}

func (f *fakeUC) SendOTP(_ context.Context, in usecase.SendOTPInput) (*usecase.SendOTPOutput, error) {
	f.sendIn = in
	return &usecase.SendOTPOutput{OTPToken: "tok", ExpiresAt: expires}, nil
}

func (f *fakeUC) VerifyOTP(context.Context, usecase.VerifyOTPInput) (*usecase.VerifyOTPOutput, error) {
	if f.verifyErr != nil {
		return nil, f.verifyErr
	}
	return &usecase.VerifyOTPOutput{Verified: true, ExpiresAt: expires}, nil
}

func (f *fakeUC) Register(_ context.Context, in usecase.RegisterInput) (*usecase.RegisterOutput, error) {
	f.registerIn = in
	return &usecase.RegisterOutput{ID: 42, Username: "calmriver", Email: "a@x.com"}, nil
}

func (f *fakeUC) Login(context.Context, usecase.LoginInput) (*usecase.LoginOutput, error) {
	return &usecase.LoginOutput{AccessToken: "at", AccessTokenExpiresAt: expires, RefreshToken: "rt"}, nil
}

func (f *fakeUC) RefreshToken(context.Context, usecase.RefreshTokenInput) (*usecase.RefreshTokenOutput, error) {
	return &usecase.RefreshTokenOutput{AccessToken: "at2", AccessTokenExpiresAt: expires, RefreshToken: "rt2"}, nil
}

func (f *fakeUC) Logout(_ context.Context, in usecase.LogoutInput) error {
	f.logoutIn = &in
	return nil
}

func (f *fakeUC) Profile(ctx context.Context) (*entity.Profile, error) {
	clm := jwt.GetAuth(ctx)
	return &entity.Profile{UserID: clm.UserID, Username: "calmriver", Email: clm.UserEmail, Timezone: "UTC"}, nil
}

func (f *fakeUC) UpdateSettings(ctx context.Context, in usecase.UpdateSettingsInput) (*entity.Profile, error) {
	f.settingsIn = in
	return f.Profile(ctx)
}

type fixedID string

func (f fixedID) Generate() string { return string(f) }

func setup(t *testing.T) (*router.Router, *fakeUC, string) {
	t.Helper()

	cfg, err := config.NewViperFromBytes("yaml", []byte("app:\n  name: test\n"))
	require.NoError(t, err)

	signer, err := jwt.NewHS512(jwt.Config{Secret: []byte(strings.Repeat("k", 64)), Issuer: "test", TTL: time.Hour})
	require.NoError(t, err)
	token, _, err := signer.Generate(jwt.Subject{UserID: 7, Email: "a@x.com", Role: "member"})
	require.NoError(t, err)

	r := router.NewRouter(router.Config{
		Config:     cfg,
		UUID:       fixedID("cid"),
		JWT:        signer,
		Instrument: instrument.NewNoop(),
	})
	uc := &fakeUC{}
	RegisterHTTPEndpoint(r, uc)

	return r, uc, token
}

func do(r http.Handler, method, path, body, token string) (*httptest.ResponseRecorder, map[string]any) {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, http.NoBody)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	var out map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &out)
	return rec, out
}

func TestSendOTP(t *testing.T) {
	r, uc, _ := setup(t)

	rec, out := do(r, http.MethodPost, "/api/v1/identity/otp/send", `{"email":"a@x.com"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "a@x.com", uc.sendIn.Email)
	assert.Equal(t, "OTP sent to email", out["message"])

	data := out["data"].(map[string]any)
	assert.Equal(t, "tok", data["otp_token"])
	assert.Equal(t, "2026-01-01T10:10:00Z", data["expires_at"])
}

func TestSendOTP_UnknownField(t *testing.T) {
	r, _, _ := setup(t)

	rec, _ := do(r, http.MethodPost, "/api/v1/identity/otp/send", `{"mail":"a@x.com"}`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestVerifyOTP_FieldError(t *testing.T) {
	r, uc, _ := setup(t)
	uc.verifyErr = goerror.NewInvalidInput(nil, "code", "Incorrect OTP code.")

	rec, out := do(r, http.MethodPost, "/api/v1/identity/otp/verify", `{"email":"a@x.com","code":"000000"}`, "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, map[string]any{"code": "Incorrect OTP code."}, out["error"])
}

func TestRegister(t *testing.T) {
	r, uc, _ := setup(t)

	body := `{"username":"CalmRiver","email":"a@x.com","password":"secret1","age":29,"otp_token":"tok"}`
	rec, out := do(r, http.MethodPost, "/api/v1/identity/register", body, "")
	require.Equal(t, http.StatusCreated, rec.Code)

	require.NotNil(t, uc.registerIn.Age)
	assert.Equal(t, 29, *uc.registerIn.Age)
	assert.Equal(t, "tok", uc.registerIn.OTPToken)

	data := out["data"].(map[string]any)
	assert.Equal(t, "42", data["id"])
	assert.Equal(t, "calmriver", data["username"])
}

func TestLoginAndRefresh(t *testing.T) {
	r, _, _ := setup(t)

	rec, out := do(r, http.MethodPost, "/api/v1/identity/login", `{"identifier":"a@x.com","password":"secret1"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Bearer", out["data"].(map[string]any)["token_type"])

	rec, out = do(r, http.MethodPost, "/api/v1/identity/refresh", `{"refresh_token":"rt"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "rt2", out["data"].(map[string]any)["refresh_token"])
}

func TestLogout(t *testing.T) {
	r, uc, token := setup(t)

	rec, _ := do(r, http.MethodPost, "/api/v1/identity/logout", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Nil(t, uc.logoutIn)

	rec, _ = do(r, http.MethodPost, "/api/v1/identity/logout", "", token)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	require.NotNil(t, uc.logoutIn)
	assert.Empty(t, uc.logoutIn.RefreshToken)

	rec, _ = do(r, http.MethodPost, "/api/v1/identity/logout", `{"refresh_token":"rt"}`, token)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "rt", uc.logoutIn.RefreshToken)
}

func TestProfileAndSettings(t *testing.T) {
	r, uc, token := setup(t)

	rec, out := do(r, http.MethodGet, "/api/v1/identity/profile", "", token)
	require.Equal(t, http.StatusOK, rec.Code)
	data := out["data"].(map[string]any)
	assert.Equal(t, "7", data["id"])
	assert.Nil(t, data["mood_updates_date"])

	rec, _ = do(r, http.MethodPatch, "/api/v1/identity/settings", `{"timezone":"Asia/Jakarta","prefers_dark_mode":true}`, token)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, uc.settingsIn.Timezone)
	assert.Equal(t, "Asia/Jakarta", *uc.settingsIn.Timezone)
	require.NotNil(t, uc.settingsIn.PrefersDarkMode)
	assert.True(t, *uc.settingsIn.PrefersDarkMode)
	assert.Nil(t, uc.settingsIn.FullName)
}
