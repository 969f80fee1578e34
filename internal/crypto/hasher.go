// Package crypto provides the credential primitives: salts, password
// digests, numeric verification codes and opaque tokens.
package crypto

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/shinobitiger310/TCSS460-Group7-Credential-API-sub000/internal/errors"
)

// Hasher names supported by NewHasher.
const (
	HasherSHA256   = "sha256"
	HasherArgon2ID = "argon2id"
	HasherBcrypt   = "bcrypt"
)

// Argon2id parameters (RFC 9106 second recommended option).
const (
	argon2Time    = 1
	argon2Memory  = 64 * 1024
	argon2Threads = 4
	argon2KeyLen  = 32
)

// Hasher derives and verifies password digests against an externally
// supplied salt. Hash is deterministic for a given (password, salt) pair
// except for bcrypt, whose digest embeds its own parameters; Verify holds
// for every implementation.
type Hasher interface {
	// Name returns the identifier used to select this hasher.
	Name() string
	// Hash derives a digest from the password and salt.
	Hash(password string, salt []byte) (string, error)
	// Verify reports whether the password and salt reproduce the digest.
	// Comparison is constant-time; malformed input yields false, never a panic.
	Verify(password string, salt []byte, digest string) bool
}

// NewHasher returns the Hasher registered under name.
func NewHasher(name string) (Hasher, error) {
	switch name {
	case HasherSHA256:
		return &sha256Hasher{}, nil
	case HasherArgon2ID:
		return &argon2Hasher{}, nil
	case HasherBcrypt:
		return &bcryptHasher{}, nil
	default:
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, fmt.Sprintf("unknown password hasher %q", name))
	}
}

// sha256Hasher digests sha256(password || salt) as lowercase hex.
type sha256Hasher struct{}

func (h *sha256Hasher) Name() string { return HasherSHA256 }

func (h *sha256Hasher) Hash(password string, salt []byte) (string, error) {
	sum := sha256.Sum256(append([]byte(password), salt...))
	return hex.EncodeToString(sum[:]), nil
}

func (h *sha256Hasher) Verify(password string, salt []byte, digest string) bool {
	computed, err := h.Hash(password, salt)
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(computed), []byte(digest)) == 1
}

// argon2Hasher digests argon2id(password, salt) as lowercase hex.
type argon2Hasher struct{}

func (h *argon2Hasher) Name() string { return HasherArgon2ID }

func (h *argon2Hasher) Hash(password string, salt []byte) (string, error) {
	key := argon2.IDKey([]byte(password), salt, argon2Time, argon2Memory, argon2Threads, argon2KeyLen)
	return hex.EncodeToString(key), nil
}

func (h *argon2Hasher) Verify(password string, salt []byte, digest string) bool {
	computed, err := h.Hash(password, salt)
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(computed), []byte(digest)) == 1
}

// bcryptHasher digests bcrypt(password || hex(salt)). The salt column keeps
// its role as a per-credential pepper even though bcrypt salts internally.
type bcryptHasher struct{}

func (h *bcryptHasher) Name() string { return HasherBcrypt }

func (h *bcryptHasher) Hash(password string, salt []byte) (string, error) {
	digest, err := bcrypt.GenerateFromPassword(h.material(password, salt), bcrypt.DefaultCost)
	if err != nil {
		return "", apperrors.Wrap(err, "bcrypt hash failed")
	}
	return string(digest), nil
}

func (h *bcryptHasher) Verify(password string, salt []byte, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), h.material(password, salt)) == nil
}

func (h *bcryptHasher) material(password string, salt []byte) []byte {
	return append([]byte(password), hex.EncodeToString(salt)...)
}
