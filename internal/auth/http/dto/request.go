// Package dto defines request and response shapes for the auth endpoints.
package dto

import (
	validation "github.com/jellydator/validation"
)

// LoginRequest carries the login credentials.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate checks the login payload. Password content is not policed here;
// the engine compares whatever was supplied.
func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required.Error("email is required")),
		validation.Field(&r.Password, validation.Required.Error("password is required")),
	)
}

// ChangePasswordRequest carries an authenticated password change.
type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

// Validate checks presence; strength rules live in the use case.
func (r ChangePasswordRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.OldPassword, validation.Required.Error("oldPassword is required")),
		validation.Field(&r.NewPassword, validation.Required.Error("newPassword is required")),
	)
}

// ResetRequestRequest starts the password reset flow.
type ResetRequestRequest struct {
	Email string `json:"email"`
}

// Validate checks presence only; unknown emails still get the generic reply.
func (r ResetRequestRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required.Error("email is required")),
	)
}

// ResetPasswordRequest consumes a reset token.
type ResetPasswordRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

// Validate checks presence; token verification and strength rules live in
// the use case.
func (r ResetPasswordRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Token, validation.Required.Error("token is required")),
		validation.Field(&r.Password, validation.Required.Error("password is required")),
	)
}
