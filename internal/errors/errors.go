// Package errors provides standardized domain errors that express business intent
// rather than infrastructure details. These errors should be used by use cases
// and mapped to appropriate HTTP status codes by handlers.
package errors

import (
	"errors"
	"fmt"
	"time"
)

// Standard domain errors that can be used across all domain modules.
var (
	// ErrNotFound indicates the requested resource does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates a conflict with existing data (e.g., duplicate key).
	ErrConflict = errors.New("conflict")

	// ErrInvalidInput indicates the input data is invalid or fails validation.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnauthorized indicates the request lacks valid authentication credentials.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden indicates the authenticated user doesn't have permission.
	ErrForbidden = errors.New("forbidden")

	// ErrLocked indicates the resource is locked and cannot be used until unlocked.
	ErrLocked = errors.New("locked")

	// ErrExpired indicates the resource existed but its validity window has passed.
	ErrExpired = errors.New("expired")

	// ErrRateLimited indicates the caller must wait before retrying the operation.
	ErrRateLimited = errors.New("rate limited")

	// ErrUnavailable indicates a dependency (database, mail relay) failed.
	ErrUnavailable = errors.New("unavailable")
)

// CodedError attaches the API error code surfaced to clients. Domain
// packages declare their errors with WithCode so the HTTP boundary can map
// them without importing every domain.
type CodedError struct {
	Code    string
	Message string
	err     error
}

// WithCode wraps a sentinel with the API error code and human message used
// at the HTTP boundary.
func WithCode(err error, code, message string) error {
	return &CodedError{Code: code, Message: message, err: err}
}

func (e *CodedError) Error() string {
	return fmt.Sprintf("%s: %v", e.Message, e.err)
}

// Unwrap exposes the underlying sentinel so Is keeps working.
func (e *CodedError) Unwrap() error {
	return e.err
}

// RateLimitedError reports a throttled operation together with the wait
// hint surfaced as retryAfter.
type RateLimitedError struct {
	RetryAfter time.Duration
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("rate limited: retry after %s", e.RetryAfter)
}

// Unwrap ties the typed error to the ErrRateLimited sentinel.
func (e *RateLimitedError) Unwrap() error {
	return ErrRateLimited
}

// InvalidCodeError reports a wrong verification code and how many attempts
// remain before lockout.
type InvalidCodeError struct {
	Remaining int
}

func (e *InvalidCodeError) Error() string {
	return fmt.Sprintf("invalid code: %d attempt(s) remaining", e.Remaining)
}

// Unwrap ties the typed error to the ErrInvalidInput sentinel.
func (e *InvalidCodeError) Unwrap() error {
	return ErrInvalidInput
}

// New creates a new error with the given message.
// This is a convenience wrapper around errors.New for consistency.
func New(message string) error {
	return errors.New(message)
}

// Wrap wraps an error with additional context while preserving the error chain.
// Use this to add context at each layer without losing the original error type.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted context while preserving the error chain.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether any error in err's tree matches target.
// This is a convenience wrapper around errors.Is.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's tree that matches target.
// This is a convenience wrapper around errors.As.
func As(err error, target any) bool {
	return errors.As(err, target)
}
