package usecase

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	validation "github.com/jellydator/validation"

	accountDomain "github.com/shinobitiger310/TCSS460-Group7-Credential-API-sub000/internal/account/domain"
	"github.com/shinobitiger310/TCSS460-Group7-Credential-API-sub000/internal/auth/domain"
	"github.com/shinobitiger310/TCSS460-Group7-Credential-API-sub000/internal/clock"
	"github.com/shinobitiger310/TCSS460-Group7-Credential-API-sub000/internal/crypto"
	"github.com/shinobitiger310/TCSS460-Group7-Credential-API-sub000/internal/database"
	apperrors "github.com/shinobitiger310/TCSS460-Group7-Credential-API-sub000/internal/errors"
	"github.com/shinobitiger310/TCSS460-Group7-Credential-API-sub000/internal/token"
	appValidation "github.com/shinobitiger310/TCSS460-Group7-Credential-API-sub000/internal/validation"
)

// resetRequestMessage is returned for every reset request so responses never
// reveal whether an email is registered.
const resetRequestMessage = "If the email exists and is verified, a reset link will be sent."

// Config carries the credential engine settings.
type Config struct {
	// DevMode echoes verification and reset tokens in responses.
	DevMode bool
	// EmailTokenTTL is the lifetime of registration verification tokens.
	EmailTokenTTL time.Duration
	// ResetRequestWindow is the minimum interval between reset requests for
	// the same account.
	ResetRequestWindow time.Duration
}

// AuthUseCase implements the credential engine.
type AuthUseCase struct {
	txManager      database.TxManager
	accountRepo    AccountRepository
	credentialRepo CredentialRepository
	emailVerRepo   EmailVerificationRepository
	cryptoService  crypto.Service
	tokenService   token.Service
	mailer         Mailer
	clock          clock.Clock
	config         Config
	logger         *slog.Logger

	// resetRequests tracks the last reset request per account for the
	// in-memory throttle window.
	resetRequests sync.Map // map[int64]time.Time

	// dummySalt equalizes timing for logins against unknown emails.
	dummySalt string
}

// NewAuthUseCase creates a new AuthUseCase.
func NewAuthUseCase(
	txManager database.TxManager,
	accountRepo AccountRepository,
	credentialRepo CredentialRepository,
	emailVerRepo EmailVerificationRepository,
	cryptoService crypto.Service,
	tokenService token.Service,
	mailer Mailer,
	clk clock.Clock,
	config Config,
	logger *slog.Logger,
) (*AuthUseCase, error) {
	dummySalt, err := cryptoService.NewSalt()
	if err != nil {
		return nil, err
	}

	return &AuthUseCase{
		txManager:      txManager,
		accountRepo:    accountRepo,
		credentialRepo: credentialRepo,
		emailVerRepo:   emailVerRepo,
		cryptoService:  cryptoService,
		tokenService:   tokenService,
		mailer:         mailer,
		clock:          clk,
		config:         config,
		logger:         logger,
		dummySalt:      dummySalt,
	}, nil
}

// passwordRules is the strength policy shared by every password-accepting
// operation.
var passwordRules = []validation.Rule{
	validation.Required.Error("password is required"),
	validation.Length(8, 128).Error("password must be between 8 and 128 characters"),
	appValidation.PasswordStrength{
		MinLength:     8,
		RequireUpper:  true,
		RequireLower:  true,
		RequireNumber: true,
	},
}

func (uc *AuthUseCase) validateRegisterInput(input RegisterInput) error {
	err := validation.ValidateStruct(&input,
		validation.Field(&input.Email,
			validation.Required.Error("email is required"),
			appValidation.NotBlank,
			appValidation.Email,
			validation.Length(5, 255).Error("email must be between 5 and 255 characters"),
		),
		validation.Field(&input.Username,
			validation.Required.Error("username is required"),
			appValidation.Username,
		),
		validation.Field(&input.Password, passwordRules...),
		validation.Field(&input.FirstName,
			validation.Required.Error("firstname is required"),
			appValidation.NotBlank,
			validation.Length(1, 255).Error("firstname must be between 1 and 255 characters"),
		),
		validation.Field(&input.LastName,
			validation.Required.Error("lastname is required"),
			appValidation.NotBlank,
			validation.Length(1, 255).Error("lastname must be between 1 and 255 characters"),
		),
		validation.Field(&input.Phone, validation.When(input.Phone != "", appValidation.Phone)),
	)
	return appValidation.WrapValidationError(err)
}

// Register creates a pending account with role User and issues an access
// token. An email verification row is written in the same transaction; the
// mail itself goes out after commit so delivery failures never roll back the
// account.
func (uc *AuthUseCase) Register(ctx context.Context, input RegisterInput) (*AuthOutput, error) {
	if err := uc.validateRegisterInput(input); err != nil {
		return nil, err
	}

	salt, err := uc.cryptoService.NewSalt()
	if err != nil {
		return nil, err
	}
	hash, err := uc.cryptoService.HashPassword(input.Password, salt)
	if err != nil {
		return nil, err
	}
	verificationToken, err := uc.cryptoService.NewOpaqueToken()
	if err != nil {
		return nil, err
	}

	account := &accountDomain.Account{
		Email:     strings.TrimSpace(strings.ToLower(input.Email)),
		Username:  strings.TrimSpace(strings.ToLower(input.Username)),
		FirstName: strings.TrimSpace(input.FirstName),
		LastName:  strings.TrimSpace(input.LastName),
		Phone:     strings.TrimSpace(input.Phone),
		Role:      accountDomain.RoleUser,
		Status:    accountDomain.StatusPending,
	}

	expiresAt := uc.clock.Now().Add(uc.config.EmailTokenTTL)
	err = uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		if _, err := uc.accountRepo.Create(ctx, account); err != nil {
			return err
		}
		if err := uc.credentialRepo.Set(ctx, account.ID, salt, hash); err != nil {
			return err
		}
		return uc.emailVerRepo.UpsertEmail(ctx, account.ID, verificationToken, expiresAt)
	})
	if err != nil {
		return nil, err
	}

	accessToken, err := uc.tokenService.MintAccess(account.ID, account.Email, int(account.Role))
	if err != nil {
		return nil, err
	}

	if err := uc.mailer.SendEmailVerification(ctx, account.Email, account.FirstName, verificationToken); err != nil {
		uc.logger.Warn("failed to send verification email",
			"account_id", account.ID, "error", err)
	}

	account, err = uc.accountRepo.GetByID(ctx, account.ID)
	if err != nil {
		return nil, err
	}

	output := &AuthOutput{Account: account, AccessToken: accessToken}
	if uc.config.DevMode {
		output.VerificationToken = verificationToken
	}
	return output, nil
}

// Login verifies a password and issues an access token. Unknown emails and
// wrong passwords are indistinguishable in both message and timing.
func (uc *AuthUseCase) Login(ctx context.Context, email, password string) (*AuthOutput, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	account, credential, err := uc.credentialRepo.GetByAccountEmail(ctx, email)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			// Burn a hash so unknown emails cost the same as bad passwords.
			_, _ = uc.cryptoService.HashPassword(password, uc.dummySalt)
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	switch account.Status {
	case accountDomain.StatusSuspended:
		return nil, accountDomain.ErrAccountSuspended
	case accountDomain.StatusLocked:
		return nil, accountDomain.ErrAccountLocked
	case accountDomain.StatusDeleted:
		// Deleted accounts behave exactly like unknown ones.
		_, _ = uc.cryptoService.HashPassword(password, uc.dummySalt)
		return nil, domain.ErrInvalidCredentials
	}

	if !uc.cryptoService.VerifyPassword(password, credential.Salt, credential.Hash) {
		return nil, domain.ErrInvalidCredentials
	}

	accessToken, err := uc.tokenService.MintAccess(account.ID, account.Email, int(account.Role))
	if err != nil {
		return nil, err
	}

	return &AuthOutput{Account: account, AccessToken: accessToken}, nil
}

// ChangePassword replaces the caller's password after verifying the old one.
func (uc *AuthUseCase) ChangePassword(ctx context.Context, accountID int64, oldPassword, newPassword string) error {
	credential, err := uc.credentialRepo.Get(ctx, accountID)
	if err != nil {
		return err
	}

	if !uc.cryptoService.VerifyPassword(oldPassword, credential.Salt, credential.Hash) {
		return domain.ErrInvalidCredentials
	}
	if uc.cryptoService.VerifyPassword(newPassword, credential.Salt, credential.Hash) {
		return domain.ErrPasswordReuse
	}
	if err := validation.Validate(newPassword, passwordRules...); err != nil {
		return appValidation.WrapValidationError(err)
	}

	salt, err := uc.cryptoService.NewSalt()
	if err != nil {
		return err
	}
	hash, err := uc.cryptoService.HashPassword(newPassword, salt)
	if err != nil {
		return err
	}

	return uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		return uc.credentialRepo.Set(ctx, accountID, salt, hash)
	})
}

// RequestPasswordReset mints and mails a reset token. Every outcome returns
// the same body; skips are only logged.
func (uc *AuthUseCase) RequestPasswordReset(ctx context.Context, email string) (*ResetRequestOutput, error) {
	output := &ResetRequestOutput{Message: resetRequestMessage}
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return output, nil
	}

	account, err := uc.accountRepo.GetByEmail(ctx, email)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			uc.logger.Debug("reset request for unknown email")
			return output, nil
		}
		return nil, err
	}

	if !account.EmailVerified {
		uc.logger.Debug("reset request for unverified email", "account_id", account.ID)
		return output, nil
	}
	switch account.Status {
	case accountDomain.StatusSuspended, accountDomain.StatusLocked, accountDomain.StatusDeleted:
		uc.logger.Debug("reset request for inactive account",
			"account_id", account.ID, "status", string(account.Status))
		return output, nil
	}

	if !uc.allowResetRequest(account.ID) {
		uc.logger.Debug("reset request throttled", "account_id", account.ID)
		return output, nil
	}

	resetToken, err := uc.tokenService.MintReset(account.ID, account.Email)
	if err != nil {
		return nil, err
	}

	if err := uc.mailer.SendPasswordReset(ctx, account.Email, account.FirstName, resetToken); err != nil {
		uc.logger.Warn("failed to send reset email", "account_id", account.ID, "error", err)
	}

	if uc.config.DevMode {
		output.ResetToken = resetToken
	}
	return output, nil
}

// allowResetRequest records a reset request and reports whether it falls
// outside the per-account throttle window.
func (uc *AuthUseCase) allowResetRequest(accountID int64) bool {
	now := uc.clock.Now()
	if last, ok := uc.resetRequests.Load(accountID); ok {
		if now.Sub(last.(time.Time)) < uc.config.ResetRequestWindow {
			return false
		}
	}
	uc.resetRequests.Store(accountID, now)
	return true
}

// ResetPassword consumes a reset token and sets a new password. The token is
// single-use only through its short expiry.
func (uc *AuthUseCase) ResetPassword(ctx context.Context, tokenString, newPassword string) error {
	claims, err := uc.tokenService.VerifyReset(tokenString)
	if err != nil {
		return domain.ErrInvalidResetToken
	}

	account, err := uc.accountRepo.GetByID(ctx, claims.ID)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return domain.ErrInvalidResetToken
		}
		return err
	}
	if account.IsDeleted() {
		return domain.ErrInvalidResetToken
	}

	if err := validation.Validate(newPassword, passwordRules...); err != nil {
		return appValidation.WrapValidationError(err)
	}

	salt, err := uc.cryptoService.NewSalt()
	if err != nil {
		return err
	}
	hash, err := uc.cryptoService.HashPassword(newPassword, salt)
	if err != nil {
		return err
	}

	return uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		return uc.credentialRepo.Set(ctx, account.ID, salt, hash)
	})
}
