package domain

import (
	"github.com/shinobitiger310/TCSS460-Group7-Credential-API-sub000/internal/errors"
)

// Domain-specific errors for account operations. Each carries the API error
// code surfaced in the response envelope.
var (
	// ErrAccountNotFound indicates the requested account does not exist or
	// has been soft deleted.
	ErrAccountNotFound = errors.WithCode(errors.ErrNotFound, "NotFound", "Account not found")

	// ErrDuplicateEmail indicates another account already uses the email.
	ErrDuplicateEmail = errors.WithCode(errors.ErrConflict, "DuplicateUser", "Email already registered")

	// ErrDuplicateUsername indicates another account already uses the username.
	ErrDuplicateUsername = errors.WithCode(errors.ErrConflict, "DuplicateUser", "Username already taken")

	// ErrDuplicatePhone indicates another account already uses the phone number.
	ErrDuplicatePhone = errors.WithCode(errors.ErrConflict, "DuplicateUser", "Phone number already registered")

	// ErrInvalidRole indicates a role outside the hierarchy.
	ErrInvalidRole = errors.WithCode(errors.ErrInvalidInput, "ValidationError", "Invalid role")

	// ErrInsufficientRole indicates the caller does not strictly dominate
	// the target account.
	ErrInsufficientRole = errors.WithCode(errors.ErrForbidden, "InsufficientRole", "Insufficient role to manage this account")

	// ErrRoleTooHigh indicates an attempt to assign a role above the caller's own.
	ErrRoleTooHigh = errors.WithCode(errors.ErrForbidden, "InsufficientRole", "Cannot assign a role above your own")

	// ErrSelfDelete indicates an account tried to delete itself.
	ErrSelfDelete = errors.WithCode(errors.ErrForbidden, "Forbidden", "Cannot delete your own account")

	// ErrSelfRoleChange indicates an account tried to change its own role.
	// Rejected as invalid input rather than a hierarchy failure.
	ErrSelfRoleChange = errors.WithCode(errors.ErrInvalidInput, "ValidationError", "Cannot change your own role")

	// ErrMissingFields indicates a partial update carried no recognized fields.
	ErrMissingFields = errors.WithCode(errors.ErrInvalidInput, "MissingFields", "No valid fields to update")

	// ErrAccountSuspended indicates the account is suspended and may not log in.
	ErrAccountSuspended = errors.WithCode(errors.ErrForbidden, "AccountSuspended", "Account is suspended")

	// ErrAccountLocked indicates the account is locked and may not log in.
	ErrAccountLocked = errors.WithCode(errors.ErrLocked, "AccountLocked", "Account is locked")
)
