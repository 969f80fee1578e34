// Package service implements the audit entry signer.
package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"encoding/json"
	"io"

	"golang.org/x/crypto/hkdf"

	auditDomain "github.com/shinobitiger310/TCSS460-Group7-Credential-API-sub000/internal/audit/domain"
	apperrors "github.com/shinobitiger310/TCSS460-Group7-Credential-API-sub000/internal/errors"
)

// Signer signs and verifies audit entries.
type Signer interface {
	// Sign returns the HMAC-SHA256 signature over the entry's canonical
	// bytes.
	Sign(entry *auditDomain.Entry) ([]byte, error)
	// Verify recomputes the signature and compares it against the stored
	// one. Returns ErrSignatureInvalid on mismatch.
	Verify(entry *auditDomain.Entry) error
}

type hmacSigner struct {
	signingKey []byte
}

// NewSigner derives a dedicated 32-byte signing key from the application
// secret via HKDF-SHA256, so token signing and audit signing never share
// key material. The info string is versioned for future algorithm changes.
func NewSigner(secret []byte) (Signer, error) {
	if len(secret) == 0 {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "signing secret must not be empty")
	}

	info := []byte("audit-entry-signing-v1")
	reader := hkdf.New(sha256.New, secret, nil, info)

	signingKey := make([]byte, 32)
	if _, err := io.ReadFull(reader, signingKey); err != nil {
		return nil, apperrors.Wrap(err, "failed to derive audit signing key")
	}

	return &hmacSigner{signingKey: signingKey}, nil
}

// canonicalize converts an entry to its canonical byte representation.
// Format: request_id || actor_id || target_id || action || metadata ||
// created_at, with length prefixes on the variable-length fields so field
// boundaries are never ambiguous.
func (s *hmacSigner) canonicalize(entry *auditDomain.Entry) ([]byte, error) {
	buf := make([]byte, 0, 256)

	buf = append(buf, entry.RequestID[:]...)
	buf = binary.BigEndian.AppendUint64(buf, uint64(entry.ActorID))
	buf = binary.BigEndian.AppendUint64(buf, uint64(entry.TargetID))
	buf = appendLengthPrefixed(buf, []byte(entry.Action))

	if entry.Metadata != nil {
		metadataBytes, err := json.Marshal(entry.Metadata)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to marshal audit metadata")
		}
		buf = appendLengthPrefixed(buf, metadataBytes)
	} else {
		buf = appendLengthPrefixed(buf, nil)
	}

	buf = binary.BigEndian.AppendUint64(buf, uint64(entry.CreatedAt.UnixNano()))

	return buf, nil
}

// appendLengthPrefixed adds a 4-byte big-endian length prefix followed by
// the data itself.
func appendLengthPrefixed(buf []byte, data []byte) []byte {
	buf = binary.BigEndian.AppendUint32(buf, uint32(len(data)))
	return append(buf, data...)
}

func (s *hmacSigner) Sign(entry *auditDomain.Entry) ([]byte, error) {
	canonical, err := s.canonicalize(entry)
	if err != nil {
		return nil, err
	}

	mac := hmac.New(sha256.New, s.signingKey)
	mac.Write(canonical)
	return mac.Sum(nil), nil
}

func (s *hmacSigner) Verify(entry *auditDomain.Entry) error {
	expected, err := s.Sign(entry)
	if err != nil {
		return apperrors.Wrap(err, "failed to compute expected signature")
	}

	if !hmac.Equal(entry.Signature, expected) {
		return auditDomain.ErrSignatureInvalid
	}
	return nil
}
