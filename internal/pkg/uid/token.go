package uid

import (
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"time"
)

// Token generates 64 character hex tokens: a 6 byte millisecond timestamp
// followed by 26 random bytes. The timestamp prefix keeps tokens roughly
// sortable; the random tail makes them unguessable.
type Token struct {
	now func() time.Time
}

// NewToken returns a token generator.
func NewToken() *Token {
	return &Token{now: time.Now}
}

// Generate returns a new token.
func (t *Token) Generate() string {
	var raw [32]byte

	var ts [8]byte
	binary.BigEndian.PutUint64(ts[:], uint64(t.now().UnixMilli())) //nolint:gosec // time is after epoch
	copy(raw[:6], ts[2:])

	// crypto/rand.Read never returns an error on supported platforms.
	_, _ = rand.Read(raw[6:])

	return hex.EncodeToString(raw[:])
}
