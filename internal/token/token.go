// Package token mints and verifies the signed tokens issued by the service:
// long-lived access tokens and short-lived password reset tokens. Both are
// HMAC-SHA256 JWTs; the two kinds never interchange.
package token

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/shinobitiger310/TCSS460-Group7-Credential-API-sub000/internal/clock"
	apperrors "github.com/shinobitiger310/TCSS460-Group7-Credential-API-sub000/internal/errors"
)

// TypePasswordReset is the claim value that marks password reset tokens.
const TypePasswordReset = "password_reset"

// LegacyHeader is the pre-Bearer header older clients still send.
const LegacyHeader = "x-access-token"

var (
	// ErrTokenMissing indicates no token was supplied.
	ErrTokenMissing = apperrors.Wrap(apperrors.ErrUnauthorized, "token missing")

	// ErrTokenInvalid indicates the token failed signature, shape or kind checks.
	ErrTokenInvalid = apperrors.Wrap(apperrors.ErrUnauthorized, "token invalid")

	// ErrTokenExpired indicates a well-formed token past its expiry.
	ErrTokenExpired = apperrors.Wrap(apperrors.ErrUnauthorized, "token expired")
)

// AccessClaims identify an authenticated account.
type AccessClaims struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Role  int    `json:"role"`
	jwt.RegisteredClaims
}

// ResetClaims authorize a single password reset flow.
type ResetClaims struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Type  string `json:"type"`
	jwt.RegisteredClaims
}

// Service mints and verifies tokens.
type Service interface {
	// MintAccess issues an access token for the account.
	MintAccess(id int64, email string, role int) (string, error)
	// MintReset issues a password reset token for the account.
	MintReset(id int64, email string) (string, error)
	// VerifyAccess validates an access token and returns its claims.
	VerifyAccess(tokenString string) (*AccessClaims, error)
	// VerifyReset validates a password reset token and returns its claims.
	VerifyReset(tokenString string) (*ResetClaims, error)
}

type service struct {
	secret    []byte
	accessTTL time.Duration
	resetTTL  time.Duration
	clock     clock.Clock
}

// NewService creates a token Service. The secret must be non-empty; the
// caller is expected to refuse startup otherwise.
func NewService(secret string, accessTTL, resetTTL time.Duration, clk clock.Clock) (Service, error) {
	if secret == "" {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "jwt secret must not be empty")
	}
	return &service{
		secret:    []byte(secret),
		accessTTL: accessTTL,
		resetTTL:  resetTTL,
		clock:     clk,
	}, nil
}

func (s *service) MintAccess(id int64, email string, role int) (string, error) {
	now := s.clock.Now()
	claims := &AccessClaims{
		ID:    id,
		Email: email,
		Role:  role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTTL)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", apperrors.Wrap(err, "failed to sign access token")
	}
	return signed, nil
}

func (s *service) MintReset(id int64, email string) (string, error) {
	now := s.clock.Now()
	claims := &ResetClaims{
		ID:    id,
		Email: email,
		Type:  TypePasswordReset,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.resetTTL)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", apperrors.Wrap(err, "failed to sign reset token")
	}
	return signed, nil
}

func (s *service) VerifyAccess(tokenString string) (*AccessClaims, error) {
	if tokenString == "" {
		return nil, ErrTokenMissing
	}

	claims := &AccessClaims{}
	if err := s.parse(tokenString, claims); err != nil {
		return nil, err
	}

	// A reset token parsed into AccessClaims carries no role; reject it so
	// the kinds never interchange.
	if claims.ID <= 0 || claims.Email == "" || claims.Role < 1 || claims.Role > 5 {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

func (s *service) VerifyReset(tokenString string) (*ResetClaims, error) {
	if tokenString == "" {
		return nil, ErrTokenMissing
	}

	claims := &ResetClaims{}
	if err := s.parse(tokenString, claims); err != nil {
		return nil, err
	}

	if claims.ID <= 0 || claims.Email == "" || claims.Type != TypePasswordReset {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

func (s *service) parse(tokenString string, claims jwt.Claims) error {
	_, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.clock.Now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return ErrTokenExpired
		}
		return ErrTokenInvalid
	}
	return nil
}

// Extract pulls the raw token out of the request headers. The Bearer
// Authorization header wins; the legacy x-access-token header is honored
// for older clients.
func Extract(authorization, legacy string) (string, error) {
	const prefix = "bearer "
	if len(authorization) > len(prefix) && strings.EqualFold(authorization[:len(prefix)], prefix) {
		if token := strings.TrimSpace(authorization[len(prefix):]); token != "" {
			return token, nil
		}
	}
	if token := strings.TrimSpace(legacy); token != "" {
		return token, nil
	}
	return "", ErrTokenMissing
}
