package entity

import "time"

type User struct {
	ID        int64
	Username  string
	Email     string
	Password  string
	Role      Role
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Profile struct {
	UserID               int64
	Username             string
	Email                string
	FullName             string
	Nickname             string
	Phone                string
	Age                  *int
	Gender               string
	WalletMinutes        int
	LastMood             *int
	LastMoodUpdated      *time.Time
	MoodUpdatesCount     int
	MoodUpdatesDate      *time.Time
	Timezone             string
	NotificationsEnabled bool
	PrefersDarkMode      bool
	Language             string
	CreatedAt            time.Time
}

// NewAccount is persisted together with the consumption of OTPID.
type NewAccount struct {
	User     User
	FullName string
	Nickname string
	Phone    string
	Age      *int
	Gender   string
	OTPID    int64
}

// ProfilePatch holds only the fields to change.
type ProfilePatch struct {
	FullName             *string
	Nickname             *string
	Phone                *string
	Age                  *int
	Gender               *string
	Timezone             *string
	NotificationsEnabled *bool
	PrefersDarkMode      *bool
	Language             *string
}

func (p ProfilePatch) IsEmpty() bool {
	return p.FullName == nil && p.Nickname == nil && p.Phone == nil && p.Age == nil &&
		p.Gender == nil && p.Timezone == nil && p.NotificationsEnabled == nil &&
		p.PrefersDarkMode == nil && p.Language == nil
}

type RefreshToken struct {
	ID        int64
	UserID    int64
	TokenHash string
	ExpiresAt time.Time
	RevokedAt *time.Time
	CreatedAt time.Time
}

// UserRefreshToken joins a refresh token with the claims needed to mint a
// new access token.
type UserRefreshToken struct {
	RefreshToken
	Email string
	Role  Role
}

type RotateRefreshToken struct {
	OldID        int64
	NewID        int64
	UserID       int64
	NewTokenHash string
	NewExpiresAt time.Time
}
