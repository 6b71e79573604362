package db

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/mindcarehq/mindcare/internal/identity/entity"
	"github.com/mindcarehq/mindcare/internal/pkg/goerror"
	"github.com/mindcarehq/mindcare/internal/pkg/instrument"
	"github.com/mindcarehq/mindcare/internal/pkg/testkit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	return NewDB(testkit.Postgres(t), instrument.NewNoop())
}

func TestEmailOTPLifecycle(t *testing.T) {
	s := newTestDB(t)
	ctx := context.Background()
	t0 := time.Now().UTC().Truncate(time.Millisecond)

	older := entity.EmailOTP{ID: 1, Email: "a@x.com", Code: "111111", TokenHash: "h1", Purpose: entity.OTPPurposeRegistration, CreatedAt: t0}
	newer := entity.EmailOTP{ID: 2, Email: "a@x.com", Code: "222222", TokenHash: "h2", Purpose: entity.OTPPurposeRegistration, CreatedAt: t0.Add(time.Second)}
	require.NoError(t, s.CreateEmailOTP(ctx, older))
	require.NoError(t, s.CreateEmailOTP(ctx, newer))

	got, err := s.GetLatestEmailOTP(ctx, "a@x.com", entity.OTPPurposeRegistration)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.ID)
	assert.Equal(t, "222222", got.Code)

	_, err = s.GetLatestEmailOTP(ctx, "b@x.com", entity.OTPPurposeRegistration)
	assert.ErrorIs(t, err, goerror.ErrNotFound)

	byToken, err := s.GetLatestEmailOTPByToken(ctx, "h1", "a@x.com", entity.OTPPurposeRegistration)
	require.NoError(t, err)
	assert.Equal(t, int64(1), byToken.ID, "older record is superseded, not deleted")

	for i := 1; i <= entity.MaxOTPAttempts; i++ {
		ok, err := s.IncrementEmailOTPAttempts(ctx, 2, entity.MaxOTPAttempts)
		require.NoError(t, err)
		assert.True(t, ok)
	}
	ok, err := s.IncrementEmailOTPAttempts(ctx, 2, entity.MaxOTPAttempts)
	require.NoError(t, err)
	assert.False(t, ok, "locked record is not incremented")

	ok, err = s.MarkEmailOTPVerified(ctx, 2, entity.MaxOTPAttempts)
	require.NoError(t, err)
	assert.False(t, ok, "locked record cannot be verified")

	ok, err = s.MarkEmailOTPVerified(ctx, 1, entity.MaxOTPAttempts)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.IncrementEmailOTPAttempts(ctx, 1, entity.MaxOTPAttempts)
	require.NoError(t, err)
	assert.False(t, ok, "verified record is not incremented")

	rec, err := s.GetEmailOTPByID(ctx, 1)
	require.NoError(t, err)
	assert.True(t, rec.IsVerified)
	assert.Zero(t, rec.Attempts)
}

func TestIncrementEmailOTPAttempts_Concurrent(t *testing.T) {
	s := newTestDB(t)
	ctx := context.Background()
	require.NoError(t, s.CreateEmailOTP(ctx, entity.EmailOTP{
		ID: 9, Email: "c@x.com", Code: "123456", TokenHash: "h9", Purpose: entity.OTPPurposeRegistration, CreatedAt: time.Now(),
	}))

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		applied int
	)
	for range 25 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := s.IncrementEmailOTPAttempts(ctx, 9, entity.MaxOTPAttempts)
			assert.NoError(t, err)
			if ok {
				mu.Lock()
				applied++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	rec, err := s.GetEmailOTPByID(ctx, 9)
	require.NoError(t, err)
	assert.Equal(t, entity.MaxOTPAttempts, rec.Attempts)
	assert.Equal(t, entity.MaxOTPAttempts, applied)
}

func newAccount(id, otpID int64, username, email string) entity.NewAccount {
	now := time.Now().UTC()
	age := 30
	return entity.NewAccount{
		User: entity.User{
			ID: id, Username: username, Email: email, Password: "hash", Role: entity.RoleMember,
			CreatedAt: now, UpdatedAt: now,
		},
		FullName: "Amy River",
		Age:      &age,
		OTPID:    otpID,
	}
}

func TestCreateAccount(t *testing.T) {
	s := newTestDB(t)
	ctx := context.Background()

	require.NoError(t, s.CreateEmailOTP(ctx, entity.EmailOTP{
		ID: 1, Email: "a@x.com", Code: "123456", TokenHash: "h1", Purpose: entity.OTPPurposeRegistration, CreatedAt: time.Now(),
	}))

	err := s.CreateAccount(ctx, newAccount(100, 1, "amy", "a@x.com"))
	assert.ErrorIs(t, err, goerror.ErrNotFound, "unverified otp cannot be consumed")

	ok, err := s.MarkEmailOTPVerified(ctx, 1, entity.MaxOTPAttempts)
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, s.CreateAccount(ctx, newAccount(100, 1, "amy", "a@x.com")))

	_, err = s.GetEmailOTPByID(ctx, 1)
	assert.ErrorIs(t, err, goerror.ErrNotFound)

	err = s.CreateAccount(ctx, newAccount(101, 1, "amy2", "a2@x.com"))
	assert.ErrorIs(t, err, goerror.ErrNotFound, "consumed otp cannot be reused")

	exists, err := s.ExistsUserByEmail(ctx, "A@X.COM")
	require.NoError(t, err)
	assert.True(t, exists)

	u, err := s.GetUserByUsername(ctx, "amy")
	require.NoError(t, err)
	assert.Equal(t, entity.RoleMember, u.Role)

	p, err := s.GetProfile(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, "Amy River", p.FullName)
	assert.Equal(t, "UTC", p.Timezone)
	require.NotNil(t, p.Age)
	assert.Equal(t, 30, *p.Age)
	assert.Nil(t, p.LastMood)
}

func TestCreateAccount_ConflictKeepsOTP(t *testing.T) {
	s := newTestDB(t)
	ctx := context.Background()

	for _, id := range []int64{1, 2} {
		require.NoError(t, s.CreateEmailOTP(ctx, entity.EmailOTP{
			ID: id, Email: "a@x.com", Code: "123456", TokenHash: "h", Purpose: entity.OTPPurposeRegistration, CreatedAt: time.Now(),
		}))
		_, err := s.MarkEmailOTPVerified(ctx, id, entity.MaxOTPAttempts)
		require.NoError(t, err)
	}

	require.NoError(t, s.CreateAccount(ctx, newAccount(100, 1, "amy", "a@x.com")))

	err := s.CreateAccount(ctx, newAccount(101, 2, "amy", "other@x.com"))
	assert.ErrorIs(t, err, goerror.ErrConflict)

	_, err = s.GetEmailOTPByID(ctx, 2)
	assert.NoError(t, err, "rolled back transaction keeps the otp")
}

func TestRefreshTokens(t *testing.T) {
	s := newTestDB(t)
	ctx := context.Background()

	require.NoError(t, s.CreateEmailOTP(ctx, entity.EmailOTP{
		ID: 1, Email: "a@x.com", Code: "123456", TokenHash: "h", Purpose: entity.OTPPurposeRegistration, CreatedAt: time.Now(),
	}))
	_, err := s.MarkEmailOTPVerified(ctx, 1, entity.MaxOTPAttempts)
	require.NoError(t, err)
	require.NoError(t, s.CreateAccount(ctx, newAccount(100, 1, "amy", "a@x.com")))

	exp := time.Now().Add(time.Hour).UTC().Truncate(time.Millisecond)
	require.NoError(t, s.CreateRefreshToken(ctx, entity.RefreshToken{ID: 10, UserID: 100, TokenHash: "rt1", ExpiresAt: exp, CreatedAt: time.Now()}))

	rt, err := s.GetUserRefreshToken(ctx, "rt1")
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", rt.Email)
	assert.Nil(t, rt.RevokedAt)

	ro := entity.RotateRefreshToken{OldID: 10, NewID: 11, UserID: 100, NewTokenHash: "rt2", NewExpiresAt: exp}
	require.NoError(t, s.RotateRefreshToken(ctx, ro))
	assert.ErrorIs(t, s.RotateRefreshToken(ctx, entity.RotateRefreshToken{OldID: 10, NewID: 12, UserID: 100, NewTokenHash: "rt3", NewExpiresAt: exp}), goerror.ErrNotFound)

	old, err := s.GetUserRefreshToken(ctx, "rt1")
	require.NoError(t, err)
	assert.NotNil(t, old.RevokedAt)

	require.NoError(t, s.RevokeRefreshToken(ctx, "rt2", 100))
	cur, err := s.GetUserRefreshToken(ctx, "rt2")
	require.NoError(t, err)
	assert.NotNil(t, cur.RevokedAt)
}

func TestUpdateProfile(t *testing.T) {
	s := newTestDB(t)
	ctx := context.Background()

	require.NoError(t, s.CreateEmailOTP(ctx, entity.EmailOTP{
		ID: 1, Email: "a@x.com", Code: "123456", TokenHash: "h", Purpose: entity.OTPPurposeRegistration, CreatedAt: time.Now(),
	}))
	_, err := s.MarkEmailOTPVerified(ctx, 1, entity.MaxOTPAttempts)
	require.NoError(t, err)
	require.NoError(t, s.CreateAccount(ctx, newAccount(100, 1, "amy", "a@x.com")))

	tz, dark := "Asia/Jakarta", true
	require.NoError(t, s.UpdateProfile(ctx, 100, entity.ProfilePatch{Timezone: &tz, PrefersDarkMode: &dark}))

	p, err := s.GetProfile(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, "Asia/Jakarta", p.Timezone)
	assert.True(t, p.PrefersDarkMode)
	assert.Equal(t, "Amy River", p.FullName)

	assert.ErrorIs(t, s.UpdateProfile(ctx, 404, entity.ProfilePatch{Timezone: &tz}), goerror.ErrNotFound)
}
