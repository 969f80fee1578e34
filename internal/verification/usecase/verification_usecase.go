// Package usecase implements the email and phone verification engine.
package usecase

import (
	"context"
	"crypto/subtle"
	"fmt"
	"log/slog"
	"strings"
	"time"

	accountDomain "github.com/shinobitiger310/TCSS460-Group7-Credential-API-sub000/internal/account/domain"
	"github.com/shinobitiger310/TCSS460-Group7-Credential-API-sub000/internal/clock"
	"github.com/shinobitiger310/TCSS460-Group7-Credential-API-sub000/internal/crypto"
	"github.com/shinobitiger310/TCSS460-Group7-Credential-API-sub000/internal/database"
	apperrors "github.com/shinobitiger310/TCSS460-Group7-Credential-API-sub000/internal/errors"
	"github.com/shinobitiger310/TCSS460-Group7-Credential-API-sub000/internal/verification/domain"
)

const (
	emailVerifiedMessage = "Email already verified"
	emailSentMessage     = "Verification email sent"
	phoneVerifiedMessage = "Phone already verified"
	phoneSentMessage     = "Verification code sent"
)

// Config carries the verification engine settings.
type Config struct {
	// DevMode echoes tokens and codes in responses.
	DevMode bool
	// EmailResendWindow is the minimum interval between email sends.
	EmailResendWindow time.Duration
	// EmailTokenTTL is the lifetime of email verification tokens.
	EmailTokenTTL time.Duration
	// PhoneResendWindow is the minimum interval between code sends.
	PhoneResendWindow time.Duration
	// PhoneCodeTTL is the lifetime of phone verification codes.
	PhoneCodeTTL time.Duration
	// PhoneMaxAttempts caps wrong guesses per code.
	PhoneMaxAttempts int
}

// VerificationUseCase implements the verification engine.
type VerificationUseCase struct {
	txManager     database.TxManager
	repo          Repository
	accountRepo   AccountRepository
	cryptoService crypto.Service
	mailer        Mailer
	smsGateway    SMSGateway
	clock         clock.Clock
	config        Config
	logger        *slog.Logger
}

// NewVerificationUseCase creates a new verification use case.
func NewVerificationUseCase(
	txManager database.TxManager,
	repo Repository,
	accountRepo AccountRepository,
	cryptoService crypto.Service,
	mailer Mailer,
	smsGateway SMSGateway,
	clk clock.Clock,
	config Config,
	logger *slog.Logger,
) *VerificationUseCase {
	return &VerificationUseCase{
		txManager:     txManager,
		repo:          repo,
		accountRepo:   accountRepo,
		cryptoService: cryptoService,
		mailer:        mailer,
		smsGateway:    smsGateway,
		clock:         clk,
		config:        config,
		logger:        logger,
	}
}

// SendEmail issues a fresh email verification token unless the account is
// already verified or a token was issued inside the resend window.
func (uc *VerificationUseCase) SendEmail(ctx context.Context, accountID int64) (*SendOutput, error) {
	account, err := uc.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if account.EmailVerified {
		return &SendOutput{Message: emailVerifiedMessage}, nil
	}

	if err := uc.checkResendWindow(ctx, accountID, channelEmail); err != nil {
		return nil, err
	}

	token, err := uc.cryptoService.NewOpaqueToken()
	if err != nil {
		return nil, err
	}

	expiresAt := uc.clock.Now().Add(uc.config.EmailTokenTTL)
	if err := uc.repo.UpsertEmail(ctx, accountID, token, expiresAt); err != nil {
		return nil, err
	}

	// Delivery failure never undoes the stored token.
	if err := uc.mailer.SendEmailVerification(ctx, account.Email, account.FirstName, token); err != nil {
		uc.logger.Warn("failed to send verification email",
			slog.Int64("account_id", accountID),
			slog.Any("error", err))
	}

	uc.logger.Info("verification email issued", slog.Int64("account_id", accountID))

	output := &SendOutput{Message: emailSentMessage, ExpiresIn: formatTTL(uc.config.EmailTokenTTL)}
	if uc.config.DevMode {
		output.Token = token
	}
	return output, nil
}

// ConfirmEmail consumes a verification token: the email is marked verified,
// pending accounts are promoted to active, and the row is deleted so the
// token cannot be replayed.
func (uc *VerificationUseCase) ConfirmEmail(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return domain.ErrInvalidToken
	}

	verification, err := uc.repo.GetEmailByToken(ctx, token)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return domain.ErrInvalidToken
		}
		return err
	}
	if verification.Expired(uc.clock.Now()) {
		return domain.ErrTokenExpired
	}

	err = uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		account, err := uc.accountRepo.GetByID(ctx, verification.AccountID)
		if err != nil {
			return err
		}

		verified := true
		status := accountDomain.StatusActive
		fields := accountDomain.UpdateFields{EmailVerified: &verified}
		if account.Status == accountDomain.StatusPending {
			fields.Status = &status
		}

		if err := uc.accountRepo.UpdateFields(ctx, verification.AccountID, fields); err != nil {
			return err
		}
		return uc.repo.DeleteEmail(ctx, verification.AccountID)
	})
	if err != nil {
		return err
	}

	uc.logger.Info("email verified", slog.Int64("account_id", verification.AccountID))
	return nil
}

// SendPhone issues a fresh phone verification code unless the account is
// already verified or a code was issued inside the resend window.
func (uc *VerificationUseCase) SendPhone(
	ctx context.Context,
	accountID int64,
	carrier string,
) (*SendOutput, error) {
	account, err := uc.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if account.Phone == "" {
		return nil, domain.ErrNoPhone
	}
	if account.PhoneVerified {
		return &SendOutput{Message: phoneVerifiedMessage}, nil
	}

	if err := uc.checkResendWindow(ctx, accountID, channelPhone); err != nil {
		return nil, err
	}

	code, err := uc.cryptoService.NewNumericCode(domain.PhoneCodeLength)
	if err != nil {
		return nil, err
	}

	expiresAt := uc.clock.Now().Add(uc.config.PhoneCodeTTL)
	if err := uc.repo.UpsertPhone(ctx, accountID, code, expiresAt); err != nil {
		return nil, err
	}

	message := "Your verification code is " + code
	if err := uc.smsGateway.Send(ctx, account.Phone, carrier, message); err != nil {
		uc.logger.Warn("failed to send verification code",
			slog.Int64("account_id", accountID),
			slog.Any("error", err))
	}

	uc.logger.Info("verification code issued", slog.Int64("account_id", accountID))

	output := &SendOutput{Message: phoneSentMessage}
	if uc.config.DevMode {
		output.Code = code
	}
	return output, nil
}

// VerifyPhone checks a code against the outstanding row under a row lock.
// A wrong guess increments the attempt counter and that increment commits
// even though the call fails.
func (uc *VerificationUseCase) VerifyPhone(ctx context.Context, accountID int64, code string) error {
	var verifyErr error

	err := uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		verification, err := uc.repo.GetPhoneForUpdate(ctx, accountID)
		if err != nil {
			if apperrors.Is(err, apperrors.ErrNotFound) {
				return domain.ErrNoCode
			}
			return err
		}

		// Check order matters: an expired row never reveals lockout state,
		// and a locked row rejects even the correct code.
		if verification.Expired(uc.clock.Now()) {
			verifyErr = domain.ErrCodeExpired
			return nil
		}
		if verification.Attempts >= uc.config.PhoneMaxAttempts {
			verifyErr = domain.ErrTooManyAttempts
			return nil
		}

		if subtle.ConstantTimeCompare([]byte(verification.Code), []byte(code)) != 1 {
			if err := uc.repo.IncrementAttempts(ctx, verification.ID); err != nil {
				return err
			}
			// The guess that exhausts the allowance reports lockout, not
			// another invalid-code with zero remaining.
			if verification.Attempts+1 >= uc.config.PhoneMaxAttempts {
				verifyErr = domain.ErrTooManyAttempts
				return nil
			}
			verifyErr = &apperrors.InvalidCodeError{
				Remaining: uc.config.PhoneMaxAttempts - verification.Attempts - 1,
			}
			return nil
		}

		verified := true
		fields := accountDomain.UpdateFields{PhoneVerified: &verified}
		if err := uc.accountRepo.UpdateFields(ctx, accountID, fields); err != nil {
			return err
		}
		return uc.repo.DeletePhone(ctx, accountID)
	})
	if err != nil {
		return err
	}
	if verifyErr != nil {
		return verifyErr
	}

	uc.logger.Info("phone verified", slog.Int64("account_id", accountID))
	return nil
}

// CountExpired reports how many rows CleanExpired would remove.
func (uc *VerificationUseCase) CountExpired(ctx context.Context, olderThan time.Time) (int64, error) {
	return uc.repo.CountExpired(ctx, olderThan)
}

// CleanExpired removes expired verification rows.
func (uc *VerificationUseCase) CleanExpired(ctx context.Context, olderThan time.Time) (int64, error) {
	return uc.repo.DeleteExpired(ctx, olderThan)
}

type channel int

const (
	channelEmail channel = iota
	channelPhone
)

// checkResendWindow rejects a send when the outstanding row is younger than
// the channel's resend window.
func (uc *VerificationUseCase) checkResendWindow(
	ctx context.Context,
	accountID int64,
	ch channel,
) error {
	var (
		createdAt time.Time
		window    time.Duration
	)

	switch ch {
	case channelEmail:
		window = uc.config.EmailResendWindow
		existing, err := uc.repo.GetEmail(ctx, accountID)
		if err != nil {
			if apperrors.Is(err, apperrors.ErrNotFound) {
				return nil
			}
			return err
		}
		createdAt = existing.CreatedAt
	case channelPhone:
		window = uc.config.PhoneResendWindow
		existing, err := uc.repo.GetPhone(ctx, accountID)
		if err != nil {
			if apperrors.Is(err, apperrors.ErrNotFound) {
				return nil
			}
			return err
		}
		createdAt = existing.CreatedAt
	}

	nextAllowed := createdAt.Add(window)
	now := uc.clock.Now()
	if now.Before(nextAllowed) {
		return &apperrors.RateLimitedError{RetryAfter: nextAllowed.Sub(now)}
	}
	return nil
}

// formatTTL renders a validity window for API responses, such as "48 hours"
// or "15 minutes".
func formatTTL(ttl time.Duration) string {
	if hours := int(ttl.Hours()); hours >= 1 {
		if hours == 1 {
			return "1 hour"
		}
		return fmt.Sprintf("%d hours", hours)
	}
	if minutes := int(ttl.Minutes()); minutes != 1 {
		return fmt.Sprintf("%d minutes", minutes)
	}
	return "1 minute"
}
