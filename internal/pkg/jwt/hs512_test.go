package jwt

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWT(t *testing.T, now *time.Time) *HS512 {
	t.Helper()
	j, err := NewHS512(Config{
		Secret:    []byte(strings.Repeat("k", 64)),
		Issuer:    "mindcare",
		Audiences: []string{"mindcare-app"},
		TTL:       15 * time.Minute,
		Now:       func() time.Time { return *now },
		NewID:     func() string { return "jti-1" },
	})
	require.NoError(t, err)
	return j
}

func TestHS512RoundTrip(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	j := newTestJWT(t, &now)

	token, exp, err := j.Generate(Subject{UserID: 42, Email: "a@x.com", Role: "member"})
	require.NoError(t, err)
	assert.Equal(t, now.Add(15*time.Minute), exp)

	claims, err := j.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "a@x.com", claims.UserEmail)
	assert.Equal(t, "member", claims.Role)
	assert.Equal(t, "42", claims.Subject)
	assert.Equal(t, "jti-1", claims.ID)
}

func TestHS512Expired(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	j := newTestJWT(t, &now)

	token, _, err := j.Generate(Subject{UserID: 1})
	require.NoError(t, err)

	now = now.Add(16 * time.Minute)
	_, err = j.Verify(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestHS512RejectsTampered(t *testing.T) {
	now := time.Now()
	j := newTestJWT(t, &now)

	token, _, err := j.Generate(Subject{UserID: 1})
	require.NoError(t, err)

	_, err = j.Verify(token + "x")
	assert.Error(t, err)
}

func TestNewHS512ShortKey(t *testing.T) {
	_, err := NewHS512(Config{Secret: []byte("short")})
	assert.ErrorIs(t, err, ErrSigningKeyTooShort)
}

func TestAuthContext(t *testing.T) {
	assert.Nil(t, GetAuth(context.Background()))

	ctx := SetAuth(context.Background(), Claims{UserID: 7, Role: "admin"})
	got := GetAuth(ctx)
	require.NotNil(t, got)
	assert.Equal(t, int64(7), got.UserID)
	assert.Equal(t, "admin", got.Role)
}
