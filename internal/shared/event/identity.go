// Package event holds the payloads modules exchange over messaging.
package event

import "time"

const (
	TopicOTPRequested   = "identity.otp.requested"
	TopicUserRegistered = "identity.user.registered"

	// GroupNotification is the consumer group of the notification module.
	GroupNotification = "notification"
)

// OTPRequested carries a freshly issued registration code to the mailer.
type OTPRequested struct {
	Email     string    `json:"email"`
	Code      string    `json:"code"`
	ExpiresAt time.Time `json:"expires_at"`
}

type UserRegistered struct {
	UserID   int64  `json:"user_id,string"`
	Email    string `json:"email"`
	Username string `json:"username"`
}
