package jwt

import (
	"errors"
	"strconv"
	"time"

	libjwt "github.com/golang-jwt/jwt/v5"
)

// Config configures NewHS512.
type Config struct {
	Secret    []byte
	Issuer    string
	Audiences []string
	TTL       time.Duration
	Now       func() time.Time
	// NewID returns the jti of each token.
	NewID func() string
}

// HS512 signs tokens with a shared secret.
type HS512 struct {
	cfg Config
}

// NewHS512 validates cfg and returns an HS512 implementation.
func NewHS512(cfg Config) (*HS512, error) {
	if len(cfg.Secret) < 64 {
		return nil, ErrSigningKeyTooShort
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.NewID == nil {
		cfg.NewID = func() string { return "" }
	}
	return &HS512{cfg: cfg}, nil
}

// Generate signs a token for sub that expires after the configured TTL.
func (h *HS512) Generate(sub Subject) (string, time.Time, error) {
	now := h.cfg.Now()
	exp := now.Add(h.cfg.TTL)

	token, err := libjwt.NewWithClaims(libjwt.SigningMethodHS512, Claims{
		RegisteredClaims: libjwt.RegisteredClaims{
			ID:        h.cfg.NewID(),
			Subject:   strconv.FormatInt(sub.UserID, 10),
			Issuer:    h.cfg.Issuer,
			Audience:  h.cfg.Audiences,
			IssuedAt:  libjwt.NewNumericDate(now),
			NotBefore: libjwt.NewNumericDate(now),
			ExpiresAt: libjwt.NewNumericDate(exp),
		},
		UserID:    sub.UserID,
		UserEmail: sub.Email,
		Role:      sub.Role,
	}).SignedString(h.cfg.Secret)
	if err != nil {
		return "", time.Time{}, err
	}

	return token, exp, nil
}

// Verify parses token and checks signature, issuer, audience and expiry.
func (h *HS512) Verify(token string) (Claims, error) {
	var claims Claims

	parsed, err := libjwt.ParseWithClaims(token, &claims,
		func(t *libjwt.Token) (any, error) {
			if t.Method != libjwt.SigningMethodHS512 {
				return nil, ErrInvalidSigningMethod
			}
			return h.cfg.Secret, nil
		},
		libjwt.WithIssuer(h.cfg.Issuer),
		libjwt.WithAudience(h.cfg.Audiences...),
		libjwt.WithValidMethods([]string{libjwt.SigningMethodHS512.Alg()}),
		libjwt.WithIssuedAt(),
		libjwt.WithExpirationRequired(),
		libjwt.WithTimeFunc(h.cfg.Now),
	)
	switch {
	case errors.Is(err, libjwt.ErrTokenExpired):
		return Claims{}, ErrTokenExpired
	case err != nil:
		return Claims{}, err
	case !parsed.Valid:
		return Claims{}, ErrInvalidToken
	}

	return claims, nil
}
