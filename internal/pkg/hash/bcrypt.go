package hash

import "golang.org/x/crypto/bcrypt"

// bcryptMaxBytes is the input limit of bcrypt, pepper included.
const bcryptMaxBytes = 72

// Bcrypt hashes passwords with bcrypt. The pepper is appended to the
// plaintext and must stay in configuration, never in the database.
type Bcrypt struct {
	cost   int
	pepper string
}

// NewBcrypt returns a bcrypt hasher. A cost outside bcrypt's range falls back to bcrypt.DefaultCost.
func NewBcrypt(cost int, pepper string) *Bcrypt {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Bcrypt{cost: cost, pepper: pepper}
}

// Hash hashes plaintext. It returns ErrInputTooLong when plaintext and
// pepper together exceed 72 bytes.
func (b *Bcrypt) Hash(plaintext string) ([]byte, error) {
	if len(plaintext)+len(b.pepper) > bcryptMaxBytes {
		return nil, ErrInputTooLong
	}
	return bcrypt.GenerateFromPassword([]byte(plaintext+b.pepper), b.cost)
}

// Verify reports whether plaintext matches hashed.
func (b *Bcrypt) Verify(hashed, plaintext string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plaintext+b.pepper)) == nil
}
