package usecase

import (
	"context"
	"strings"

	validation "github.com/jellydator/validation"

	"github.com/shinobitiger310/TCSS460-Group7-Credential-API-sub000/internal/account/domain"
	"github.com/shinobitiger310/TCSS460-Group7-Credential-API-sub000/internal/crypto"
	"github.com/shinobitiger310/TCSS460-Group7-Credential-API-sub000/internal/database"
	apperrors "github.com/shinobitiger310/TCSS460-Group7-Credential-API-sub000/internal/errors"
	appValidation "github.com/shinobitiger310/TCSS460-Group7-Credential-API-sub000/internal/validation"
)

// CreateAccountInput contains the input data for admin account creation.
type CreateAccountInput struct {
	Email     string `json:"email"`
	Username  string `json:"username"`
	Password  string `json:"password"`
	FirstName string `json:"firstname"`
	LastName  string `json:"lastname"`
	Phone     string `json:"phone"`
	Role      int    `json:"role"`
}

// UpdateAccountInput contains the partial update data for admin edits. Nil
// fields are left untouched. Only lifecycle status and verification flags
// are admin-editable.
type UpdateAccountInput struct {
	Status        *string `json:"accountStatus"`
	EmailVerified *bool   `json:"emailVerified"`
	PhoneVerified *bool   `json:"phoneVerified"`
}

// Empty reports whether the patch carries no changes.
func (i UpdateAccountInput) Empty() bool {
	return i.Status == nil && i.EmailVerified == nil && i.PhoneVerified == nil
}

// AccountUseCase handles account management business logic.
type AccountUseCase struct {
	txManager      database.TxManager
	accountRepo    AccountRepository
	credentialRepo CredentialRepository
	cryptoService  crypto.Service
}

// NewAccountUseCase creates a new AccountUseCase.
func NewAccountUseCase(
	txManager database.TxManager,
	accountRepo AccountRepository,
	credentialRepo CredentialRepository,
	cryptoService crypto.Service,
) *AccountUseCase {
	return &AccountUseCase{
		txManager:      txManager,
		accountRepo:    accountRepo,
		credentialRepo: credentialRepo,
		cryptoService:  cryptoService,
	}
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

func (uc *AccountUseCase) validateCreateInput(input CreateAccountInput) error {
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

func (uc *AccountUseCase) validateUpdateInput(input UpdateAccountInput) error {
	if input.Empty() {
		return domain.ErrMissingFields
	}
	if input.Status != nil && !domain.Status(*input.Status).Valid() {
		return apperrors.Wrap(apperrors.ErrInvalidInput, "invalid status")
	}
	return nil
}

// GetSelf returns the caller's own account.
func (uc *AccountUseCase) GetSelf(ctx context.Context, accountID int64) (*domain.Account, error) {
	return uc.accountRepo.GetByID(ctx, accountID)
}

// Create provisions an account on behalf of an admin. Admin-created accounts
// start active with a verified email so they can log in immediately.
func (uc *AccountUseCase) Create(
	ctx context.Context,
	caller *domain.Account,
	input CreateAccountInput,
) (*domain.Account, error) {
	if err := uc.validateCreateInput(input); err != nil {
		return nil, err
	}

	role := domain.Role(input.Role)
	if input.Role == 0 {
		role = domain.RoleUser
	}
	if !role.Valid() {
		return nil, domain.ErrInvalidRole
	}
	if !caller.Role.CanAssign(role) {
		return nil, domain.ErrRoleTooHigh
	}

	salt, err := uc.cryptoService.NewSalt()
	if err != nil {
		return nil, err
	}
	hash, err := uc.cryptoService.HashPassword(input.Password, salt)
	if err != nil {
		return nil, err
	}

	account := &domain.Account{
		Email:         strings.TrimSpace(strings.ToLower(input.Email)),
		Username:      strings.TrimSpace(strings.ToLower(input.Username)),
		FirstName:     strings.TrimSpace(input.FirstName),
		LastName:      strings.TrimSpace(input.LastName),
		Phone:         strings.TrimSpace(input.Phone),
		Role:          role,
		Status:        domain.StatusActive,
		EmailVerified: true,
	}

	err = uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		if _, err := uc.accountRepo.Create(ctx, account); err != nil {
			return err
		}
		return uc.credentialRepo.Set(ctx, account.ID, salt, hash)
	})
	if err != nil {
		return nil, err
	}

	account, err = uc.accountRepo.GetByID(ctx, account.ID)
	if err != nil {
		return nil, err
	}
	return account, nil
}

// List returns a page of accounts matching the filters, newest first.
func (uc *AccountUseCase) List(
	ctx context.Context,
	filters domain.ListFilters,
	page, limit int,
) (*Page, error) {
	if filters.Status != nil && !filters.Status.Valid() {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "invalid status filter")
	}
	if filters.Role != nil && !filters.Role.Valid() {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "invalid role filter")
	}

	accounts, err := uc.accountRepo.List(ctx, filters, (page-1)*limit, limit)
	if err != nil {
		return nil, err
	}
	count, err := uc.accountRepo.Count(ctx, filters)
	if err != nil {
		return nil, err
	}
	return newPage(accounts, page, limit, count), nil
}

// Search returns a page of accounts matching the query over the given
// fields, newest first.
func (uc *AccountUseCase) Search(
	ctx context.Context,
	search string,
	fields []string,
	page, limit int,
) (*Page, error) {
	search = strings.TrimSpace(search)
	if search == "" {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "search query is required")
	}
	for _, field := range fields {
		if !domain.ValidSearchField(field) {
			return nil, apperrors.Wrapf(apperrors.ErrInvalidInput, "unknown search field %q", field)
		}
	}

	accounts, err := uc.accountRepo.Search(ctx, search, fields, (page-1)*limit, limit)
	if err != nil {
		return nil, err
	}
	count, err := uc.accountRepo.SearchCount(ctx, search, fields)
	if err != nil {
		return nil, err
	}
	return newPage(accounts, page, limit, count), nil
}

// Get returns an account by ID.
func (uc *AccountUseCase) Get(ctx context.Context, id int64) (*domain.Account, error) {
	return uc.accountRepo.GetByID(ctx, id)
}

// Update applies a partial update to a dominated account.
func (uc *AccountUseCase) Update(
	ctx context.Context,
	caller *domain.Account,
	targetID int64,
	input UpdateAccountInput,
) (*domain.Account, error) {
	if err := uc.validateUpdateInput(input); err != nil {
		return nil, err
	}

	fields := domain.UpdateFields{
		EmailVerified: input.EmailVerified,
		PhoneVerified: input.PhoneVerified,
	}
	if input.Status != nil {
		status := domain.Status(*input.Status)
		fields.Status = &status
	}

	err := uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		target, err := uc.accountRepo.GetByIDForUpdate(ctx, targetID)
		if err != nil {
			return err
		}
		if !caller.Role.CanManage(target.Role) {
			return domain.ErrInsufficientRole
		}
		return uc.accountRepo.UpdateFields(ctx, targetID, fields)
	})
	if err != nil {
		return nil, err
	}

	return uc.accountRepo.GetByID(ctx, targetID)
}

// ResetPassword sets a new password on a dominated account.
func (uc *AccountUseCase) ResetPassword(
	ctx context.Context,
	caller *domain.Account,
	targetID int64,
	newPassword string,
) error {
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
		target, err := uc.accountRepo.GetByIDForUpdate(ctx, targetID)
		if err != nil {
			return err
		}
		if !caller.Role.CanManage(target.Role) {
			return domain.ErrInsufficientRole
		}
		return uc.credentialRepo.Set(ctx, targetID, salt, hash)
	})
}

// Delete soft deletes a dominated account. Self-deletion is rejected.
func (uc *AccountUseCase) Delete(ctx context.Context, caller *domain.Account, targetID int64) error {
	if caller.ID == targetID {
		return domain.ErrSelfDelete
	}

	return uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		target, err := uc.accountRepo.GetByIDForUpdate(ctx, targetID)
		if err != nil {
			return err
		}
		if !caller.Role.CanManage(target.Role) {
			return domain.ErrInsufficientRole
		}
		return uc.accountRepo.SoftDelete(ctx, targetID)
	})
}

// ChangeRole moves a dominated account to a role the caller may assign.
// Self role changes are rejected.
func (uc *AccountUseCase) ChangeRole(
	ctx context.Context,
	caller *domain.Account,
	targetID int64,
	newRole int,
) (*domain.Account, error) {
	if caller.ID == targetID {
		return nil, domain.ErrSelfRoleChange
	}

	role := domain.Role(newRole)
	if !role.Valid() {
		return nil, domain.ErrInvalidRole
	}
	if !caller.Role.CanAssign(role) {
		return nil, domain.ErrRoleTooHigh
	}

	err := uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		target, err := uc.accountRepo.GetByIDForUpdate(ctx, targetID)
		if err != nil {
			return err
		}
		if !caller.Role.CanManage(target.Role) {
			return domain.ErrInsufficientRole
		}
		return uc.accountRepo.UpdateRole(ctx, targetID, role)
	})
	if err != nil {
		return nil, err
	}

	return uc.accountRepo.GetByID(ctx, targetID)
}

// DashboardStats aggregates account statistics.
func (uc *AccountUseCase) DashboardStats(ctx context.Context) (*domain.DashboardCounts, error) {
	return uc.accountRepo.DashboardCounts(ctx)
}

func newPage(accounts []*domain.Account, page, limit int, count int64) *Page {
	totalPages := int((count + int64(limit) - 1) / int64(limit))
	return &Page{
		Accounts:   accounts,
		Page:       page,
		Limit:      limit,
		TotalCount: count,
		TotalPages: totalPages,
	}
}
