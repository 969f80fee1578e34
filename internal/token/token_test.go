package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shinobitiger310/TCSS460-Group7-Credential-API-sub000/internal/clock"
)

const (
	testSecret    = "test-secret-key"
	testAccessTTL = 336 * time.Hour
	testResetTTL  = 15 * time.Minute
)

func newTestService(t *testing.T) (Service, *clock.Fixed) {
	t.Helper()
	clk := clock.NewFixed(time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC))
	svc, err := NewService(testSecret, testAccessTTL, testResetTTL, clk)
	require.NoError(t, err)
	return svc, clk
}

func TestNewService_EmptySecret(t *testing.T) {
	svc, err := NewService("", testAccessTTL, testResetTTL, clock.New())
	assert.Nil(t, svc)
	assert.Error(t, err)
}

func TestMintAccess_RoundTrip(t *testing.T) {
	svc, clk := newTestService(t)

	tokenString, err := svc.MintAccess(42, "user@example.com", 3)
	require.NoError(t, err)
	require.NotEmpty(t, tokenString)

	claims, err := svc.VerifyAccess(tokenString)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.ID)
	assert.Equal(t, "user@example.com", claims.Email)
	assert.Equal(t, 3, claims.Role)
	assert.Equal(t, clk.Now().Unix(), claims.IssuedAt.Unix())
	assert.Equal(t, clk.Now().Add(testAccessTTL).Unix(), claims.ExpiresAt.Unix())
}

func TestMintReset_RoundTrip(t *testing.T) {
	svc, _ := newTestService(t)

	tokenString, err := svc.MintReset(7, "user@example.com")
	require.NoError(t, err)

	claims, err := svc.VerifyReset(tokenString)
	require.NoError(t, err)
	assert.Equal(t, int64(7), claims.ID)
	assert.Equal(t, "user@example.com", claims.Email)
	assert.Equal(t, TypePasswordReset, claims.Type)
}

func TestVerifyAccess_ExpiryBoundary(t *testing.T) {
	svc, clk := newTestService(t)

	tokenString, err := svc.MintAccess(1, "user@example.com", 1)
	require.NoError(t, err)

	t.Run("one second before expiry is valid", func(t *testing.T) {
		clk.Instant = clk.Instant.Add(testAccessTTL - time.Second)
		_, err := svc.VerifyAccess(tokenString)
		assert.NoError(t, err)
	})

	t.Run("exactly at expiry is expired", func(t *testing.T) {
		clk.Advance(time.Second)
		_, err := svc.VerifyAccess(tokenString)
		assert.ErrorIs(t, err, ErrTokenExpired)
	})

	t.Run("after expiry is expired", func(t *testing.T) {
		clk.Advance(time.Hour)
		_, err := svc.VerifyAccess(tokenString)
		assert.ErrorIs(t, err, ErrTokenExpired)
	})
}

func TestVerifyReset_Expiry(t *testing.T) {
	svc, clk := newTestService(t)

	tokenString, err := svc.MintReset(1, "user@example.com")
	require.NoError(t, err)

	clk.Advance(testResetTTL + time.Second)
	_, err = svc.VerifyReset(tokenString)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestTokenKinds_NeverInterchange(t *testing.T) {
	svc, _ := newTestService(t)

	accessToken, err := svc.MintAccess(42, "user@example.com", 2)
	require.NoError(t, err)
	resetToken, err := svc.MintReset(42, "user@example.com")
	require.NoError(t, err)

	t.Run("reset token rejected as access token", func(t *testing.T) {
		claims, err := svc.VerifyAccess(resetToken)
		assert.Nil(t, claims)
		assert.ErrorIs(t, err, ErrTokenInvalid)
	})

	t.Run("access token rejected as reset token", func(t *testing.T) {
		claims, err := svc.VerifyReset(accessToken)
		assert.Nil(t, claims)
		assert.ErrorIs(t, err, ErrTokenInvalid)
	})
}

func TestVerifyAccess_Errors(t *testing.T) {
	svc, clk := newTestService(t)

	t.Run("empty token", func(t *testing.T) {
		_, err := svc.VerifyAccess("")
		assert.ErrorIs(t, err, ErrTokenMissing)
	})

	t.Run("garbage token", func(t *testing.T) {
		_, err := svc.VerifyAccess("not.a.jwt")
		assert.ErrorIs(t, err, ErrTokenInvalid)
	})

	t.Run("tampered payload", func(t *testing.T) {
		tokenString, err := svc.MintAccess(1, "user@example.com", 1)
		require.NoError(t, err)

		tampered := tokenString[:len(tokenString)-4] + "xxxx"
		_, err = svc.VerifyAccess(tampered)
		assert.ErrorIs(t, err, ErrTokenInvalid)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other, err := NewService("another-secret", testAccessTTL, testResetTTL, clk)
		require.NoError(t, err)

		tokenString, err := other.MintAccess(1, "user@example.com", 1)
		require.NoError(t, err)

		_, err = svc.VerifyAccess(tokenString)
		assert.ErrorIs(t, err, ErrTokenInvalid)
	})

	t.Run("unsigned token rejected", func(t *testing.T) {
		unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, &AccessClaims{
			ID:    1,
			Email: "user@example.com",
			Role:  1,
		}).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = svc.VerifyAccess(unsigned)
		assert.ErrorIs(t, err, ErrTokenInvalid)
	})
}

func TestExtract(t *testing.T) {
	tests := []struct {
		name          string
		authorization string
		legacy        string
		want          string
		wantErr       error
	}{
		{
			name:          "bearer header",
			authorization: "Bearer abc123",
			want:          "abc123",
		},
		{
			name:          "bearer is case-insensitive",
			authorization: "bEaReR abc123",
			want:          "abc123",
		},
		{
			name:   "legacy header",
			legacy: "legacy456",
			want:   "legacy456",
		},
		{
			name:          "bearer wins over legacy",
			authorization: "Bearer abc123",
			legacy:        "legacy456",
			want:          "abc123",
		},
		{
			name:          "blank bearer falls back to legacy",
			authorization: "Bearer   ",
			legacy:        "legacy456",
			want:          "legacy456",
		},
		{
			name:    "nothing supplied",
			wantErr: ErrTokenMissing,
		},
		{
			name:          "non-bearer authorization alone",
			authorization: "Basic dXNlcjpwYXNz",
			wantErr:       ErrTokenMissing,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Extract(tt.authorization, tt.legacy)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
