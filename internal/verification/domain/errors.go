package domain

import (
	apperrors "github.com/shinobitiger310/TCSS460-Group7-Credential-API-sub000/internal/errors"
)

var (
	// ErrInvalidToken indicates an email verification token that matches no
	// outstanding row.
	ErrInvalidToken = apperrors.WithCode(
		apperrors.ErrInvalidInput, "InvalidToken", "Invalid or unknown token")

	// ErrTokenExpired indicates an email verification token past its expiry.
	ErrTokenExpired = apperrors.WithCode(
		apperrors.ErrExpired, "Expired", "Token expired")

	// ErrCodeExpired indicates a phone verification code past its expiry.
	ErrCodeExpired = apperrors.WithCode(
		apperrors.ErrExpired, "Expired", "Code expired")

	// ErrNoCode indicates no phone code is outstanding for the account.
	ErrNoCode = apperrors.WithCode(
		apperrors.ErrNotFound, "NoCode", "No code outstanding")

	// ErrTooManyAttempts indicates the phone code is locked out after too
	// many wrong guesses.
	ErrTooManyAttempts = apperrors.WithCode(
		apperrors.ErrInvalidInput, "TooManyAttempts", "Too many attempts")

	// ErrNoPhone indicates the account has no phone number to verify.
	ErrNoPhone = apperrors.WithCode(
		apperrors.ErrInvalidInput, "NoPhone", "Account has no phone number")
)
