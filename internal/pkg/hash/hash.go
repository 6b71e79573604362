// Package hash hashes and verifies secrets such as passwords, refresh tokens
// and OTP tokens. Only the hash is persisted; callers verify by comparing the
// plaintext against the stored value.
package hash

import (
	"errors"
	"strings"
)

// ErrUnknownAlgorithm is returned when the configured password algorithm is not supported.
var ErrUnknownAlgorithm = errors.New("hash: unknown algorithm")

// ErrInputTooLong is returned when the plaintext plus pepper exceeds what the hasher accepts.
var ErrInputTooLong = errors.New("hash: input too long")

// Supported password algorithms.
const (
	AlgorithmBcrypt   = "bcrypt"
	AlgorithmArgon2id = "argon2id"
)

// Hash is implemented by every hasher in this package.
type Hash interface {
	Hash(str string) ([]byte, error)
	Verify(hashed, str string) bool
}

// PasswordConfig selects and tunes the password hasher.
type PasswordConfig struct {
	Algorithm  string
	BcryptCost int
	Pepper     string
}

// NewPassword returns the password hasher named by cfg.Algorithm.
func NewPassword(cfg PasswordConfig) (Hash, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Algorithm)) {
	case "", AlgorithmBcrypt:
		return NewBcrypt(cfg.BcryptCost, cfg.Pepper), nil
	case AlgorithmArgon2id:
		return NewArgon2id(cfg.Pepper), nil
	default:
		return nil, ErrUnknownAlgorithm
	}
}
