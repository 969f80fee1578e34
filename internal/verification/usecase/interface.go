package usecase

import (
	"context"
	"time"

	accountDomain "github.com/shinobitiger310/TCSS460-Group7-Credential-API-sub000/internal/account/domain"
	"github.com/shinobitiger310/TCSS460-Group7-Credential-API-sub000/internal/verification/domain"
)

// Repository is the verification persistence the usecase needs.
type Repository interface {
	UpsertEmail(ctx context.Context, accountID int64, token string, expiresAt time.Time) error
	GetEmail(ctx context.Context, accountID int64) (*domain.EmailVerification, error)
	GetEmailByToken(ctx context.Context, token string) (*domain.EmailVerification, error)
	DeleteEmail(ctx context.Context, accountID int64) error

	UpsertPhone(ctx context.Context, accountID int64, code string, expiresAt time.Time) error
	GetPhone(ctx context.Context, accountID int64) (*domain.PhoneVerification, error)
	GetPhoneForUpdate(ctx context.Context, accountID int64) (*domain.PhoneVerification, error)
	IncrementAttempts(ctx context.Context, id int64) error
	DeletePhone(ctx context.Context, accountID int64) error

	CountExpired(ctx context.Context, olderThan time.Time) (int64, error)
	DeleteExpired(ctx context.Context, olderThan time.Time) (int64, error)
}

// AccountRepository is the slice of account persistence the usecase needs.
type AccountRepository interface {
	GetByID(ctx context.Context, id int64) (*accountDomain.Account, error)
	UpdateFields(ctx context.Context, id int64, fields accountDomain.UpdateFields) error
}

// Mailer delivers verification mail.
type Mailer interface {
	SendEmailVerification(ctx context.Context, to, name, token string) error
}

// SMSGateway delivers verification codes by SMS.
type SMSGateway interface {
	Send(ctx context.Context, phone, carrier, message string) error
}

// SendOutput is the result of a send operation. ExpiresIn is a human
// readable validity hint for freshly issued tokens. Token and Code are
// echoed in development mode only.
type SendOutput struct {
	Message   string
	ExpiresIn string
	Token     string
	Code      string
}

// UseCase defines the verification engine operations.
type UseCase interface {
	// SendEmail issues (or reissues) an email verification token and mails
	// the confirmation link. Idempotent for already-verified accounts.
	SendEmail(ctx context.Context, accountID int64) (*SendOutput, error)

	// ConfirmEmail consumes a token, marks the email verified and promotes
	// pending accounts to active.
	ConfirmEmail(ctx context.Context, token string) error

	// SendPhone issues (or reissues) a phone verification code and texts it
	// via the carrier gateway. Idempotent for already-verified accounts.
	SendPhone(ctx context.Context, accountID int64, carrier string) (*SendOutput, error)

	// VerifyPhone checks a code against the outstanding row, counting wrong
	// guesses.
	VerifyPhone(ctx context.Context, accountID int64, code string) error

	// CountExpired reports how many rows CleanExpired would remove, for dry
	// runs.
	CountExpired(ctx context.Context, olderThan time.Time) (int64, error)

	// CleanExpired removes expired verification rows and reports the count.
	CleanExpired(ctx context.Context, olderThan time.Time) (int64, error)
}
