// Package usecase implements the credential engine: registration, login,
// password change and the password reset flow.
package usecase

import (
	"context"
	"time"

	accountDomain "github.com/shinobitiger310/TCSS460-Group7-Credential-API-sub000/internal/account/domain"
)

// AccountRepository is the slice of account persistence the credential
// engine needs.
type AccountRepository interface {
	Create(ctx context.Context, account *accountDomain.Account) (int64, error)
	GetByID(ctx context.Context, id int64) (*accountDomain.Account, error)
	GetByEmail(ctx context.Context, email string) (*accountDomain.Account, error)
}

// CredentialRepository defines credential persistence operations.
type CredentialRepository interface {
	Get(ctx context.Context, accountID int64) (*accountDomain.Credential, error)
	GetByAccountEmail(ctx context.Context, email string) (*accountDomain.Account, *accountDomain.Credential, error)
	Set(ctx context.Context, accountID int64, salt, hash string) error
}

// EmailVerificationRepository issues the verification row created alongside
// a fresh registration.
type EmailVerificationRepository interface {
	UpsertEmail(ctx context.Context, accountID int64, token string, expiresAt time.Time) error
}

// Mailer delivers credential-related mail. Implementations live in the
// notification package.
type Mailer interface {
	SendEmailVerification(ctx context.Context, to, name, token string) error
	SendPasswordReset(ctx context.Context, to, name, token string) error
}

// RegisterInput contains the self-service registration fields. Role and
// status are never taken from the caller.
type RegisterInput struct {
	Email     string `json:"email"`
	Username  string `json:"username"`
	Password  string `json:"password"`
	FirstName string `json:"firstname"`
	LastName  string `json:"lastname"`
	Phone     string `json:"phone"`
}

// AuthOutput is the result of a successful register or login.
type AuthOutput struct {
	Account     *accountDomain.Account
	AccessToken string

	// VerificationToken is echoed on registration in development mode only.
	VerificationToken string
}

// ResetRequestOutput is the fixed-shape reply to a password reset request.
type ResetRequestOutput struct {
	Message string

	// ResetToken is echoed in development mode only, and only when a token
	// was actually minted.
	ResetToken string
}

// UseCase defines the credential engine operations.
type UseCase interface {
	// Register creates a pending account with role User and issues an
	// access token.
	Register(ctx context.Context, input RegisterInput) (*AuthOutput, error)

	// Login verifies a password and issues an access token.
	Login(ctx context.Context, email, password string) (*AuthOutput, error)

	// ChangePassword replaces the caller's password after verifying the old
	// one.
	ChangePassword(ctx context.Context, accountID int64, oldPassword, newPassword string) error

	// RequestPasswordReset mints and mails a reset token. The reply is
	// identical whether or not the email is known.
	RequestPasswordReset(ctx context.Context, email string) (*ResetRequestOutput, error)

	// ResetPassword consumes a reset token and sets a new password.
	ResetPassword(ctx context.Context, tokenString, newPassword string) error
}
