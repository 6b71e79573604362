package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEmailOTP_State(t *testing.T) {
	t0 := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	ttl := 10 * time.Minute

	tests := []struct {
		name string
		otp  EmailOTP
		now  time.Time
		want OTPState
	}{
		{"fresh", EmailOTP{CreatedAt: t0}, t0.Add(time.Minute), OTPStateCreated},
		{"exactly at ttl is not expired", EmailOTP{CreatedAt: t0}, t0.Add(ttl), OTPStateCreated},
		{"past ttl", EmailOTP{CreatedAt: t0}, t0.Add(ttl + time.Nanosecond), OTPStateExpired},
		{"locked", EmailOTP{CreatedAt: t0, Attempts: MaxOTPAttempts}, t0, OTPStateLocked},
		{"four attempts still open", EmailOTP{CreatedAt: t0, Attempts: 4}, t0, OTPStateCreated},
		{"verified", EmailOTP{CreatedAt: t0, IsVerified: true}, t0, OTPStateVerified},
		{"verified then expired", EmailOTP{CreatedAt: t0, IsVerified: true}, t0.Add(time.Hour), OTPStateExpired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.otp.State(tt.now, ttl))
		})
	}
}

func TestRole_Ensure(t *testing.T) {
	assert.Equal(t, RoleAdmin, Role("admin").Ensure())
	assert.Equal(t, RoleMember, Role("root").Ensure())
	assert.Equal(t, RoleMember, Role("").Ensure())
}
