package commands

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	accountDomain "github.com/shinobitiger310/TCSS460-Group7-Credential-API-sub000/internal/account/domain"
	accountUsecase "github.com/shinobitiger310/TCSS460-Group7-Credential-API-sub000/internal/account/usecase"
	auditDomain "github.com/shinobitiger310/TCSS460-Group7-Credential-API-sub000/internal/audit/domain"
	auditUsecase "github.com/shinobitiger310/TCSS460-Group7-Credential-API-sub000/internal/audit/usecase"
	verificationUsecase "github.com/shinobitiger310/TCSS460-Group7-Credential-API-sub000/internal/verification/usecase"
)

type mockAuditUseCase struct {
	mock.Mock
}

func (m *mockAuditUseCase) Record(ctx context.Context, input auditUsecase.RecordInput) error {
	args := m.Called(ctx, input)
	return args.Error(0)
}

func (m *mockAuditUseCase) List(
	ctx context.Context,
	offset, limit int,
	createdAtFrom, createdAtTo *time.Time,
) ([]*auditDomain.Entry, error) {
	args := m.Called(ctx, offset, limit, createdAtFrom, createdAtTo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*auditDomain.Entry), args.Error(1)
}

func (m *mockAuditUseCase) VerifyBatch(
	ctx context.Context,
	startTime, endTime time.Time,
) (*auditUsecase.VerificationReport, error) {
	args := m.Called(ctx, startTime, endTime)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auditUsecase.VerificationReport), args.Error(1)
}

func (m *mockAuditUseCase) CountOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockAuditUseCase) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

type mockVerificationUseCase struct {
	mock.Mock
}

func (m *mockVerificationUseCase) SendEmail(ctx context.Context, accountID int64) (*verificationUsecase.SendOutput, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*verificationUsecase.SendOutput), args.Error(1)
}

func (m *mockVerificationUseCase) ConfirmEmail(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *mockVerificationUseCase) SendPhone(
	ctx context.Context,
	accountID int64,
	carrier string,
) (*verificationUsecase.SendOutput, error) {
	args := m.Called(ctx, accountID, carrier)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*verificationUsecase.SendOutput), args.Error(1)
}

func (m *mockVerificationUseCase) VerifyPhone(ctx context.Context, accountID int64, code string) error {
	args := m.Called(ctx, accountID, code)
	return args.Error(0)
}

func (m *mockVerificationUseCase) CountExpired(ctx context.Context, olderThan time.Time) (int64, error) {
	args := m.Called(ctx, olderThan)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockVerificationUseCase) CleanExpired(ctx context.Context, olderThan time.Time) (int64, error) {
	args := m.Called(ctx, olderThan)
	return args.Get(0).(int64), args.Error(1)
}

type mockAccountUseCase struct {
	mock.Mock
}

func (m *mockAccountUseCase) GetSelf(ctx context.Context, accountID int64) (*accountDomain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accountDomain.Account), args.Error(1)
}

func (m *mockAccountUseCase) Create(
	ctx context.Context,
	caller *accountDomain.Account,
	input accountUsecase.CreateAccountInput,
) (*accountDomain.Account, error) {
	args := m.Called(ctx, caller, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accountDomain.Account), args.Error(1)
}

func (m *mockAccountUseCase) List(
	ctx context.Context,
	filters accountDomain.ListFilters,
	page, limit int,
) (*accountUsecase.Page, error) {
	args := m.Called(ctx, filters, page, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accountUsecase.Page), args.Error(1)
}

func (m *mockAccountUseCase) Search(
	ctx context.Context,
	search string,
	fields []string,
	page, limit int,
) (*accountUsecase.Page, error) {
	args := m.Called(ctx, search, fields, page, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accountUsecase.Page), args.Error(1)
}

func (m *mockAccountUseCase) Get(ctx context.Context, id int64) (*accountDomain.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accountDomain.Account), args.Error(1)
}

func (m *mockAccountUseCase) Update(
	ctx context.Context,
	caller *accountDomain.Account,
	targetID int64,
	input accountUsecase.UpdateAccountInput,
) (*accountDomain.Account, error) {
	args := m.Called(ctx, caller, targetID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accountDomain.Account), args.Error(1)
}

func (m *mockAccountUseCase) ResetPassword(
	ctx context.Context,
	caller *accountDomain.Account,
	targetID int64,
	newPassword string,
) error {
	args := m.Called(ctx, caller, targetID, newPassword)
	return args.Error(0)
}

func (m *mockAccountUseCase) Delete(ctx context.Context, caller *accountDomain.Account, targetID int64) error {
	args := m.Called(ctx, caller, targetID)
	return args.Error(0)
}

func (m *mockAccountUseCase) ChangeRole(
	ctx context.Context,
	caller *accountDomain.Account,
	targetID int64,
	newRole int,
) (*accountDomain.Account, error) {
	args := m.Called(ctx, caller, targetID, newRole)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accountDomain.Account), args.Error(1)
}

func (m *mockAccountUseCase) DashboardStats(ctx context.Context) (*accountDomain.DashboardCounts, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accountDomain.DashboardCounts), args.Error(1)
}
