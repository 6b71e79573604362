// Package seal encrypts small user-owned payloads at rest.
//
// Ciphertexts are bound to a Scope through AES-GCM additional data, so a
// value sealed for one owner or purpose never opens under another.
package seal

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// Purpose separates ciphertexts that share an owner.
type Purpose string

// PurposeJournalNote scopes journal entry notes.
const PurposeJournalNote Purpose = "journal.note"

// Scope is authenticated with every ciphertext.
type Scope struct {
	OwnerID int64
	Purpose Purpose
}

// Sealer encrypts and decrypts scoped payloads.
type Sealer interface {
	Seal(plaintext []byte, scope Scope) ([]byte, error)
	Open(ciphertext []byte, scope Scope) ([]byte, error)
}

var (
	// ErrInvalidKeyLength indicates the key is not 32 bytes.
	ErrInvalidKeyLength = errors.New("seal: invalid key length")
	// ErrCiphertextTooShort indicates a truncated ciphertext.
	ErrCiphertextTooShort = errors.New("seal: ciphertext too short")
	// ErrUnsupportedVersion indicates an unknown ciphertext version.
	ErrUnsupportedVersion = errors.New("seal: unsupported ciphertext version")
	// ErrOpenFailed indicates authentication failure.
	ErrOpenFailed = errors.New("seal: open failed")
)

// Layout: uint16 version | 12-byte nonce | gcm output.
const (
	version   uint16 = 1
	nonceSize        = 12
	keySize          = 32
	headerLen        = 2 + nonceSize
)

// AESGCM implements Sealer with AES-256-GCM and a single static key.
type AESGCM struct {
	aead cipher.AEAD
	rand io.Reader
}

// NewAESGCM builds a sealer from a 32-byte key.
func NewAESGCM(key []byte) (*AESGCM, error) {
	if len(key) != keySize {
		return nil, fmt.Errorf("seal: got %d bytes want %d: %w", len(key), keySize, ErrInvalidKeyLength)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("seal: aes init: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("seal: gcm init: %w", err)
	}

	return &AESGCM{aead: aead, rand: rand.Reader}, nil
}

// Seal returns an empty slice for an empty plaintext.
func (a *AESGCM) Seal(plaintext []byte, scope Scope) ([]byte, error) {
	if len(plaintext) == 0 {
		return []byte{}, nil
	}

	out := make([]byte, headerLen, headerLen+len(plaintext)+a.aead.Overhead())
	binary.BigEndian.PutUint16(out[:2], version)
	if _, err := io.ReadFull(a.rand, out[2:headerLen]); err != nil {
		return nil, fmt.Errorf("seal: nonce: %w", err)
	}

	return a.aead.Seal(out, out[2:headerLen], plaintext, scopeAAD(scope)), nil
}

func (a *AESGCM) Open(ciphertext []byte, scope Scope) ([]byte, error) {
	if len(ciphertext) == 0 {
		return []byte{}, nil
	}
	if len(ciphertext) < headerLen+a.aead.Overhead() {
		return nil, ErrCiphertextTooShort
	}
	if v := binary.BigEndian.Uint16(ciphertext[:2]); v != version {
		return nil, fmt.Errorf("seal: version %d: %w", v, ErrUnsupportedVersion)
	}

	plain, err := a.aead.Open(nil, ciphertext[2:headerLen], ciphertext[headerLen:], scopeAAD(scope))
	if err != nil {
		return nil, ErrOpenFailed
	}
	return plain, nil
}

func scopeAAD(s Scope) []byte {
	sum := sha256.Sum256(fmt.Appendf(nil, "owner=%d\npurpose=%s\n", s.OwnerID, s.Purpose))
	return sum[:]
}
