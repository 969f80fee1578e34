package usecase

import (
	"context"
	"time"

	"github.com/shinobitiger310/TCSS460-Group7-Credential-API-sub000/internal/account/domain"
	"github.com/shinobitiger310/TCSS460-Group7-Credential-API-sub000/internal/metrics"
)

// accountUseCaseWithMetrics decorates UseCase with metrics instrumentation.
type accountUseCaseWithMetrics struct {
	next    UseCase
	metrics metrics.BusinessMetrics
}

// NewUseCaseWithMetrics wraps an account UseCase with metrics recording.
func NewUseCaseWithMetrics(useCase UseCase, m metrics.BusinessMetrics) UseCase {
	return &accountUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (d *accountUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	d.metrics.RecordOperation(ctx, "account", operation, status)
	d.metrics.RecordDuration(ctx, "account", operation, time.Since(start), status)
}

func (d *accountUseCaseWithMetrics) GetSelf(ctx context.Context, accountID int64) (*domain.Account, error) {
	start := time.Now()
	account, err := d.next.GetSelf(ctx, accountID)
	d.record(ctx, "get_self", start, err)
	return account, err
}

func (d *accountUseCaseWithMetrics) Create(
	ctx context.Context,
	caller *domain.Account,
	input CreateAccountInput,
) (*domain.Account, error) {
	start := time.Now()
	account, err := d.next.Create(ctx, caller, input)
	d.record(ctx, "create", start, err)
	return account, err
}

func (d *accountUseCaseWithMetrics) List(
	ctx context.Context,
	filters domain.ListFilters,
	page, limit int,
) (*Page, error) {
	start := time.Now()
	result, err := d.next.List(ctx, filters, page, limit)
	d.record(ctx, "list", start, err)
	return result, err
}

func (d *accountUseCaseWithMetrics) Search(
	ctx context.Context,
	search string,
	fields []string,
	page, limit int,
) (*Page, error) {
	start := time.Now()
	result, err := d.next.Search(ctx, search, fields, page, limit)
	d.record(ctx, "search", start, err)
	return result, err
}

func (d *accountUseCaseWithMetrics) Get(ctx context.Context, id int64) (*domain.Account, error) {
	start := time.Now()
	account, err := d.next.Get(ctx, id)
	d.record(ctx, "get", start, err)
	return account, err
}

func (d *accountUseCaseWithMetrics) Update(
	ctx context.Context,
	caller *domain.Account,
	targetID int64,
	input UpdateAccountInput,
) (*domain.Account, error) {
	start := time.Now()
	account, err := d.next.Update(ctx, caller, targetID, input)
	d.record(ctx, "update", start, err)
	return account, err
}

func (d *accountUseCaseWithMetrics) ResetPassword(
	ctx context.Context,
	caller *domain.Account,
	targetID int64,
	newPassword string,
) error {
	start := time.Now()
	err := d.next.ResetPassword(ctx, caller, targetID, newPassword)
	d.record(ctx, "reset_password", start, err)
	return err
}

func (d *accountUseCaseWithMetrics) Delete(ctx context.Context, caller *domain.Account, targetID int64) error {
	start := time.Now()
	err := d.next.Delete(ctx, caller, targetID)
	d.record(ctx, "delete", start, err)
	return err
}

func (d *accountUseCaseWithMetrics) ChangeRole(
	ctx context.Context,
	caller *domain.Account,
	targetID int64,
	newRole int,
) (*domain.Account, error) {
	start := time.Now()
	account, err := d.next.ChangeRole(ctx, caller, targetID, newRole)
	d.record(ctx, "change_role", start, err)
	return account, err
}

func (d *accountUseCaseWithMetrics) DashboardStats(ctx context.Context) (*domain.DashboardCounts, error) {
	start := time.Now()
	counts, err := d.next.DashboardStats(ctx)
	d.record(ctx, "dashboard_stats", start, err)
	return counts, err
}
