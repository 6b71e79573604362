package hash

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// HMACSHA256 is a keyed, deterministic hasher. It is used for lookup tokens
// where the stored hash must be queryable by equality.
type HMACSHA256 struct {
	key []byte
}

// NewHMACSHA256 creates a hasher keyed by secret.
func NewHMACSHA256(secret string) *HMACSHA256 {
	return &HMACSHA256{key: []byte(secret)}
}

// Hash returns the hex encoded HMAC of str.
func (h *HMACSHA256) Hash(str string) ([]byte, error) {
	return h.sum(str), nil
}

// Verify reports whether hashed is the HMAC of str.
func (h *HMACSHA256) Verify(hashed, str string) bool {
	return hmac.Equal([]byte(hashed), h.sum(str))
}

func (h *HMACSHA256) sum(str string) []byte {
	mac := hmac.New(sha256.New, h.key)
	mac.Write([]byte(str))
	return []byte(hex.EncodeToString(mac.Sum(nil)))
}
