// Package domain defines the email and phone verification entities.
package domain

import "time"

// EmailTokenLength is the hex length of an email verification token.
const EmailTokenLength = 64

// PhoneCodeLength is the digit count of a phone verification code.
const PhoneCodeLength = 6

// EmailVerification is a pending email confirmation. At most one live row
// exists per account; confirming consumes it.
type EmailVerification struct {
	ID        int64
	AccountID int64
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Expired reports whether the token is past its expiry at the given instant.
// The boundary itself counts as expired.
func (v *EmailVerification) Expired(now time.Time) bool {
	return !now.Before(v.ExpiresAt)
}

// PhoneVerification is a pending phone confirmation. Wrong guesses are
// counted; the row locks after too many.
type PhoneVerification struct {
	ID        int64
	AccountID int64
	Code      string
	Attempts  int
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Expired reports whether the code is past its expiry at the given instant.
func (v *PhoneVerification) Expired(now time.Time) bool {
	return !now.Before(v.ExpiresAt)
}
