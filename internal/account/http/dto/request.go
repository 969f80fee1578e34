package dto

import (
	validation "github.com/jellydator/validation"
)

// ResetUserPasswordRequest contains the new password for an admin-initiated
// password reset. Strength rules are enforced by the use case.
type ResetUserPasswordRequest struct {
	Password string `json:"password"`
}

// Validate checks if the reset password request is valid.
func (r *ResetUserPasswordRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Password, validation.Required),
	)
}

// ChangeUserRoleRequest contains the new role for a role change.
type ChangeUserRoleRequest struct {
	Role int `json:"role"`
}

// Validate checks if the change role request is valid.
func (r *ChangeUserRoleRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Role, validation.Required),
	)
}
