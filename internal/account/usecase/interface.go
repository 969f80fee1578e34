// Package usecase implements the account business logic: self service,
// admin management and the role hierarchy rules.
package usecase

import (
	"context"

	"github.com/shinobitiger310/TCSS460-Group7-Credential-API-sub000/internal/account/domain"
)

// AccountRepository defines account persistence operations.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Account, error)
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)
	GetByIDForUpdate(ctx context.Context, id int64) (*domain.Account, error)
	UpdateFields(ctx context.Context, id int64, fields domain.UpdateFields) error
	UpdateRole(ctx context.Context, id int64, role domain.Role) error
	SoftDelete(ctx context.Context, id int64) error
	List(ctx context.Context, filters domain.ListFilters, offset, limit int) ([]*domain.Account, error)
	Count(ctx context.Context, filters domain.ListFilters) (int64, error)
	Search(ctx context.Context, search string, fields []string, offset, limit int) ([]*domain.Account, error)
	SearchCount(ctx context.Context, search string, fields []string) (int64, error)
	DashboardCounts(ctx context.Context) (*domain.DashboardCounts, error)
}

// CredentialRepository defines credential persistence operations.
type CredentialRepository interface {
	Get(ctx context.Context, accountID int64) (*domain.Credential, error)
	GetByAccountEmail(ctx context.Context, email string) (*domain.Account, *domain.Credential, error)
	Set(ctx context.Context, accountID int64, salt, hash string) error
}

// Page is one page of accounts plus the pagination envelope.
type Page struct {
	Accounts   []*domain.Account
	Page       int
	Limit      int
	TotalCount int64
	TotalPages int
}

// UseCase defines the account business logic operations.
type UseCase interface {
	// GetSelf returns the caller's own account.
	GetSelf(ctx context.Context, accountID int64) (*domain.Account, error)

	// Create provisions an account on behalf of an admin. The account
	// starts active with a verified email.
	Create(ctx context.Context, caller *domain.Account, input CreateAccountInput) (*domain.Account, error)

	// List returns a page of accounts matching the filters, newest first.
	List(ctx context.Context, filters domain.ListFilters, page, limit int) (*Page, error)

	// Search returns a page of accounts matching the query over the given
	// fields, newest first.
	Search(ctx context.Context, search string, fields []string, page, limit int) (*Page, error)

	// Get returns an account by ID.
	Get(ctx context.Context, id int64) (*domain.Account, error)

	// Update applies a partial update to a dominated account.
	Update(ctx context.Context, caller *domain.Account, targetID int64, input UpdateAccountInput) (*domain.Account, error)

	// ResetPassword sets a new password on a dominated account.
	ResetPassword(ctx context.Context, caller *domain.Account, targetID int64, newPassword string) error

	// Delete soft deletes a dominated account. Self-deletion is rejected.
	Delete(ctx context.Context, caller *domain.Account, targetID int64) error

	// ChangeRole moves a dominated account to a role the caller may assign.
	// Self role changes are rejected.
	ChangeRole(ctx context.Context, caller *domain.Account, targetID int64, newRole int) (*domain.Account, error)

	// DashboardStats aggregates account statistics.
	DashboardStats(ctx context.Context) (*domain.DashboardCounts, error)
}
