// Package jwt issues and verifies the HS512 access tokens carried in the
// Authorization header, and moves verified claims through request contexts.
package jwt

import (
	"context"
	"errors"
	"time"

	libjwt "github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidSigningMethod = errors.New("jwt: invalid signing method")
	ErrSigningKeyTooShort   = errors.New("jwt: HS512 signing key must be at least 64 bytes")
	ErrTokenExpired         = errors.New("jwt: token has expired")
	ErrInvalidToken         = errors.New("jwt: invalid token")
)

// JWT generates and verifies access tokens.
type JWT interface {
	Generate(sub Subject) (token string, expiresAt time.Time, err error)
	Verify(token string) (Claims, error)
}

// Subject is the identity encoded in a token.
type Subject struct {
	UserID int64
	Email  string
	Role   string
}

// Claims are the registered claims plus the subject fields.
type Claims struct {
	libjwt.RegisteredClaims
	UserID    int64  `json:"user_id,string"`
	UserEmail string `json:"user_email"`
	Role      string `json:"role"`
}

type authKey struct{}

// SetAuth stores verified claims in ctx.
func SetAuth(ctx context.Context, c Claims) context.Context {
	return context.WithValue(ctx, authKey{}, c)
}

// GetAuth returns the claims stored by SetAuth, or nil for anonymous requests.
func GetAuth(ctx context.Context) *Claims {
	c, ok := ctx.Value(authKey{}).(Claims)
	if !ok {
		return nil
	}
	return &c
}
