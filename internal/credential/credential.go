// Package credential creates and verifies salted password credentials.
//
// Credentials are stored as "salt_hex:hash_hex" where hash is
// PBKDF2-HMAC-SHA256(plaintext, salt). bcrypt hashes written by earlier
// deployments are still accepted, and legacy unsalted SHA-256 hex digests are
// accepted only when explicitly enabled.
package credential

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"

	"bizledger/internal/apperr"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/crypto/pbkdf2"
)

const (
	SaltSize          = 16
	KeySize           = 32
	MinIterations     = 100_000
	DefaultIterations = 260_000
)

// Store derives and checks credentials. The zero value is not usable; use New.
type Store struct {
	iterations    int
	allowUnsalted bool
}

type Option func(*Store)

// WithIterations overrides the PBKDF2 iteration count. Values below
// MinIterations are raised to MinIterations.
func WithIterations(n int) Option {
	return func(s *Store) {
		if n < MinIterations {
			n = MinIterations
		}
		s.iterations = n
	}
}

// WithLegacyUnsalted enables verification of unsalted single-pass SHA-256 digests.
func WithLegacyUnsalted(enabled bool) Option {
	return func(s *Store) {
		s.allowUnsalted = enabled
	}
}

func New(opts ...Option) *Store {
	s := &Store{iterations: DefaultIterations}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create returns a fresh "salt_hex:hash_hex" credential for plaintext.
func (s *Store) Create(plaintext string) (string, error) {
	salt := make([]byte, SaltSize)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}
	hash := s.derive(salt, plaintext)
	return hex.EncodeToString(salt) + ":" + hex.EncodeToString(hash), nil
}

// Verify reports whether plaintext matches the stored credential. It never
// panics and returns false for empty or malformed values.
func (s *Store) Verify(stored, plaintext string) bool {
	switch kind(stored) {
	case kindSalted:
		salt, want, err := parseSalted(stored)
		if err != nil {
			return false
		}
		return subtle.ConstantTimeCompare(s.derive(salt, plaintext), want) == 1
	case kindBcrypt:
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(plaintext)) == nil
	case kindUnsalted:
		if !s.allowUnsalted {
			return false
		}
		sum := sha256.Sum256([]byte(plaintext))
		want, err := hex.DecodeString(strings.ToLower(stored))
		if err != nil {
			return false
		}
		return subtle.ConstantTimeCompare(sum[:], want) == 1
	default:
		return false
	}
}

// NeedsRehash reports whether a verified credential should be replaced by a
// freshly created one (bcrypt or legacy format).
func (s *Store) NeedsRehash(stored string) bool {
	k := kind(stored)
	return k == kindBcrypt || k == kindUnsalted
}

// Validate checks the shape of a stored credential without a plaintext.
func Validate(stored string) error {
	if kind(stored) == kindMalformed {
		return apperr.ErrMalformedCredential
	}
	if kind(stored) == kindSalted {
		if _, _, err := parseSalted(stored); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) derive(salt []byte, plaintext string) []byte {
	return pbkdf2.Key([]byte(plaintext), salt, s.iterations, KeySize, sha256.New)
}

type credentialKind int

const (
	kindMalformed credentialKind = iota
	kindSalted
	kindBcrypt
	kindUnsalted
)

func kind(stored string) credentialKind {
	switch {
	case stored == "":
		return kindMalformed
	case strings.HasPrefix(stored, "$2a$"), strings.HasPrefix(stored, "$2b$"), strings.HasPrefix(stored, "$2y$"):
		return kindBcrypt
	case strings.Count(stored, ":") == 1:
		return kindSalted
	case len(stored) == sha256.Size*2 && isHex(stored):
		return kindUnsalted
	default:
		return kindMalformed
	}
}

func parseSalted(stored string) (salt, hash []byte, err error) {
	saltHex, hashHex, _ := strings.Cut(stored, ":")
	salt, err = hex.DecodeString(saltHex)
	if err != nil || len(salt) < SaltSize {
		return nil, nil, apperr.ErrMalformedCredential
	}
	hash, err = hex.DecodeString(hashHex)
	if err != nil || len(hash) != KeySize {
		return nil, nil, apperr.ErrMalformedCredential
	}
	return salt, hash, nil
}

func isHex(s string) bool {
	_, err := hex.DecodeString(s)
	return err == nil
}
