package crypto

import (
	"crypto/rand"
	"encoding/hex"
	"io"
	"math/big"

	apperrors "github.com/shinobitiger310/TCSS460-Group7-Credential-API-sub000/internal/errors"
)

const (
	// saltBytes is the raw salt size; hex-encoded salts are twice as long.
	saltBytes = 16
	// opaqueTokenBytes is the raw opaque token size; hex tokens are 64 chars.
	opaqueTokenBytes = 32
)

// ErrEntropy indicates the system entropy source failed. Callers must treat
// this as fatal for the operation; no partially filled material is returned.
var ErrEntropy = apperrors.Wrap(apperrors.ErrUnavailable, "entropy source failed")

// randSource is swapped in tests to simulate entropy failures.
var randSource io.Reader = rand.Reader

// RandomBytes returns n cryptographically random bytes.
func RandomBytes(n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(randSource, buf); err != nil {
		return nil, apperrors.Wrap(ErrEntropy, err.Error())
	}
	return buf, nil
}

// Service exposes the credential primitives as an injectable unit so use
// cases can be tested against a fixed implementation.
type Service interface {
	// NewSalt returns a fresh 32-char lowercase hex salt.
	NewSalt() (string, error)
	// HashPassword digests the password against a hex-encoded salt.
	HashPassword(password, saltHex string) (string, error)
	// VerifyPassword reports whether password and salt reproduce digest.
	// Malformed salts or digests yield false.
	VerifyPassword(password, saltHex, digest string) bool
	// NewNumericCode returns a zero-padded numeric code of the given length.
	NewNumericCode(length int) (string, error)
	// NewOpaqueToken returns a fresh 64-char lowercase hex token.
	NewOpaqueToken() (string, error)
}

type service struct {
	hasher Hasher
}

// NewService creates a crypto Service around the given password hasher.
func NewService(hasher Hasher) Service {
	return &service{hasher: hasher}
}

func (s *service) NewSalt() (string, error) {
	buf, err := RandomBytes(saltBytes)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

func (s *service) HashPassword(password, saltHex string) (string, error) {
	salt, err := hex.DecodeString(saltHex)
	if err != nil {
		return "", apperrors.Wrap(apperrors.ErrInvalidInput, "malformed salt")
	}
	return s.hasher.Hash(password, salt)
}

func (s *service) VerifyPassword(password, saltHex, digest string) bool {
	salt, err := hex.DecodeString(saltHex)
	if err != nil {
		return false
	}
	return s.hasher.Verify(password, salt, digest)
}

func (s *service) NewNumericCode(length int) (string, error) {
	if length <= 0 {
		return "", apperrors.Wrap(apperrors.ErrInvalidInput, "code length must be positive")
	}

	// Each digit is drawn independently so leading zeros are preserved.
	digits := make([]byte, length)
	for i := range digits {
		n, err := rand.Int(randSource, big.NewInt(10))
		if err != nil {
			return "", apperrors.Wrap(ErrEntropy, err.Error())
		}
		digits[i] = byte('0' + n.Int64())
	}
	return string(digits), nil
}

func (s *service) NewOpaqueToken() (string, error) {
	buf, err := RandomBytes(opaqueTokenBytes)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
