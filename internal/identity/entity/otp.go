package entity

import "time"

// MaxOTPAttempts is the number of failed comparisons after which a record
// is locked.
const MaxOTPAttempts = 5

// EmailOTP is one issued code. Records are never updated in place except
// for Attempts and IsVerified, and are deleted only when registration
// completes.
type EmailOTP struct {
	ID         int64
	Email      string
	Code       string
	TokenHash  string
	Purpose    OTPPurpose
	Attempts   int
	IsVerified bool
	CreatedAt  time.Time
}

func (o EmailOTP) ExpiresAt(ttl time.Duration) time.Time {
	return o.CreatedAt.Add(ttl)
}

// IsExpired reports whether now is past CreatedAt + ttl.
func (o EmailOTP) IsExpired(now time.Time, ttl time.Duration) bool {
	return now.After(o.ExpiresAt(ttl))
}

func (o EmailOTP) IsLocked() bool {
	return o.Attempts >= MaxOTPAttempts
}

// OTPState is the derived lifecycle state of a record.
type OTPState int

const (
	OTPStateCreated OTPState = iota
	OTPStateLocked
	OTPStateVerified
	OTPStateExpired
)

func (s OTPState) String() string {
	switch s {
	case OTPStateLocked:
		return "LOCKED"
	case OTPStateVerified:
		return "VERIFIED"
	case OTPStateExpired:
		return "EXPIRED"
	default:
		return "CREATED"
	}
}

// State derives the lifecycle state; expiry dominates.
func (o EmailOTP) State(now time.Time, ttl time.Duration) OTPState {
	switch {
	case o.IsExpired(now, ttl):
		return OTPStateExpired
	case o.IsVerified:
		return OTPStateVerified
	case o.IsLocked():
		return OTPStateLocked
	default:
		return OTPStateCreated
	}
}
