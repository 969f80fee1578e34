package service

import (
	"crypto/rand"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	auditDomain "github.com/shinobitiger310/TCSS460-Group7-Credential-API-sub000/internal/audit/domain"
)

func newTestSigner(t *testing.T) Signer {
	t.Helper()

	secret := make([]byte, 32)
	_, err := rand.Read(secret)
	require.NoError(t, err)

	signer, err := NewSigner(secret)
	require.NoError(t, err)
	return signer
}

func testEntry() *auditDomain.Entry {
	return &auditDomain.Entry{
		ID:        uuid.Must(uuid.NewV7()),
		RequestID: uuid.Must(uuid.NewV7()),
		ActorID:   1,
		TargetID:  42,
		Action:    auditDomain.ActionUserRoleChange,
		Metadata:  map[string]any{"old_role": 1, "new_role": 2},
		CreatedAt: time.Now().UTC(),
	}
}

func TestSigner_SignAndVerify(t *testing.T) {
	signer := newTestSigner(t)
	entry := testEntry()

	signature, err := signer.Sign(entry)
	require.NoError(t, err)
	assert.Len(t, signature, 32, "HMAC-SHA256 should produce 32-byte signature")

	entry.Signature = signature

	assert.NoError(t, signer.Verify(entry))
}

func TestSigner_VerifyDetectsTampering(t *testing.T) {
	signer := newTestSigner(t)

	t.Run("Action", func(t *testing.T) {
		entry := testEntry()
		signature, err := signer.Sign(entry)
		require.NoError(t, err)
		entry.Signature = signature

		entry.Action = auditDomain.ActionUserDelete

		assert.ErrorIs(t, signer.Verify(entry), auditDomain.ErrSignatureInvalid)
	})

	t.Run("TargetID", func(t *testing.T) {
		entry := testEntry()
		signature, err := signer.Sign(entry)
		require.NoError(t, err)
		entry.Signature = signature

		entry.TargetID = 99

		assert.ErrorIs(t, signer.Verify(entry), auditDomain.ErrSignatureInvalid)
	})

	t.Run("Metadata", func(t *testing.T) {
		entry := testEntry()
		signature, err := signer.Sign(entry)
		require.NoError(t, err)
		entry.Signature = signature

		entry.Metadata["new_role"] = 5

		assert.ErrorIs(t, signer.Verify(entry), auditDomain.ErrSignatureInvalid)
	})

	t.Run("Timestamp", func(t *testing.T) {
		entry := testEntry()
		signature, err := signer.Sign(entry)
		require.NoError(t, err)
		entry.Signature = signature

		entry.CreatedAt = entry.CreatedAt.Add(time.Second)

		assert.ErrorIs(t, signer.Verify(entry), auditDomain.ErrSignatureInvalid)
	})
}

func TestSigner_NilMetadataIsCanonical(t *testing.T) {
	signer := newTestSigner(t)

	entry := testEntry()
	entry.Metadata = nil

	signature, err := signer.Sign(entry)
	require.NoError(t, err)
	entry.Signature = signature

	assert.NoError(t, signer.Verify(entry))
}

func TestSigner_DifferentSecretsDisagree(t *testing.T) {
	first := newTestSigner(t)
	second := newTestSigner(t)

	entry := testEntry()
	signature, err := first.Sign(entry)
	require.NoError(t, err)
	entry.Signature = signature

	assert.ErrorIs(t, second.Verify(entry), auditDomain.ErrSignatureInvalid)
}

func TestNewSigner_EmptySecret(t *testing.T) {
	_, err := NewSigner(nil)
	assert.Error(t, err)
}
