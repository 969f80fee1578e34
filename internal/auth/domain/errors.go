// Package domain defines the credential engine's domain errors.
package domain

import (
	apperrors "github.com/shinobitiger310/TCSS460-Group7-Credential-API-sub000/internal/errors"
)

var (
	// ErrInvalidCredentials covers unknown email and wrong password alike so
	// responses never reveal which one failed.
	ErrInvalidCredentials = apperrors.WithCode(
		apperrors.ErrUnauthorized, "InvalidCredentials", "Invalid credentials")

	// ErrPasswordReuse indicates the new password matches the current one.
	ErrPasswordReuse = apperrors.WithCode(
		apperrors.ErrInvalidInput, "PasswordReuse", "New password must be different from the old password")

	// ErrInvalidResetToken indicates an invalid, expired or mistyped password
	// reset token.
	ErrInvalidResetToken = apperrors.WithCode(
		apperrors.ErrUnauthorized, "InvalidResetToken", "Invalid or expired reset token")
)
