package usecase

import (
	"context"
	"io"
	"testing"
	"time"

	"log/slog"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/shinobitiger310/TCSS460-Group7-Credential-API-sub000/internal/account/domain"
	auditDomain "github.com/shinobitiger310/TCSS460-Group7-Credential-API-sub000/internal/audit/domain"
	auditUseCase "github.com/shinobitiger310/TCSS460-Group7-Credential-API-sub000/internal/audit/usecase"
	apperrors "github.com/shinobitiger310/TCSS460-Group7-Credential-API-sub000/internal/errors"
)

type mockInnerUseCase struct {
	mock.Mock
}

func (m *mockInnerUseCase) GetSelf(ctx context.Context, accountID int64) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *mockInnerUseCase) Create(
	ctx context.Context,
	caller *domain.Account,
	input CreateAccountInput,
) (*domain.Account, error) {
	args := m.Called(ctx, caller, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *mockInnerUseCase) List(
	ctx context.Context,
	filters domain.ListFilters,
	page, limit int,
) (*Page, error) {
	args := m.Called(ctx, filters, page, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Page), args.Error(1)
}

func (m *mockInnerUseCase) Search(
	ctx context.Context,
	search string,
	fields []string,
	page, limit int,
) (*Page, error) {
	args := m.Called(ctx, search, fields, page, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Page), args.Error(1)
}

func (m *mockInnerUseCase) Get(ctx context.Context, id int64) (*domain.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *mockInnerUseCase) Update(
	ctx context.Context,
	caller *domain.Account,
	targetID int64,
	input UpdateAccountInput,
) (*domain.Account, error) {
	args := m.Called(ctx, caller, targetID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *mockInnerUseCase) ResetPassword(
	ctx context.Context,
	caller *domain.Account,
	targetID int64,
	newPassword string,
) error {
	args := m.Called(ctx, caller, targetID, newPassword)
	return args.Error(0)
}

func (m *mockInnerUseCase) Delete(ctx context.Context, caller *domain.Account, targetID int64) error {
	args := m.Called(ctx, caller, targetID)
	return args.Error(0)
}

func (m *mockInnerUseCase) ChangeRole(
	ctx context.Context,
	caller *domain.Account,
	targetID int64,
	newRole int,
) (*domain.Account, error) {
	args := m.Called(ctx, caller, targetID, newRole)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *mockInnerUseCase) DashboardStats(ctx context.Context) (*domain.DashboardCounts, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DashboardCounts), args.Error(1)
}

type mockAuditUseCase struct {
	mock.Mock
}

func (m *mockAuditUseCase) Record(ctx context.Context, input auditUseCase.RecordInput) error {
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
) (*auditUseCase.VerificationReport, error) {
	args := m.Called(ctx, startTime, endTime)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auditUseCase.VerificationReport), args.Error(1)
}

func (m *mockAuditUseCase) CountOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockAuditUseCase) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

func newAuditedUseCase(t *testing.T) (UseCase, *mockInnerUseCase, *mockAuditUseCase) {
	t.Helper()

	inner := &mockInnerUseCase{}
	audit := &mockAuditUseCase{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return NewUseCaseWithAudit(inner, audit, logger), inner, audit
}

func auditCaller() *domain.Account {
	return &domain.Account{ID: 1, Email: "admin@example.com", Role: domain.RoleAdmin}
}

func TestAuditDecorator_Delete(t *testing.T) {
	t.Run("RecordsEntry", func(t *testing.T) {
		uc, inner, audit := newAuditedUseCase(t)
		caller := auditCaller()
		requestID := uuid.Must(uuid.NewV7())
		ctx := auditUseCase.WithRequestID(context.Background(), requestID)

		inner.On("Delete", ctx, caller, int64(42)).Return(nil).Once()
		audit.On("Record", ctx, mock.MatchedBy(func(input auditUseCase.RecordInput) bool {
			return input.RequestID == requestID &&
				input.ActorID == 1 &&
				input.TargetID == 42 &&
				input.Action == auditDomain.ActionUserDelete
		})).Return(nil).Once()

		err := uc.Delete(ctx, caller, 42)

		assert.NoError(t, err)
		audit.AssertExpectations(t)
	})

	t.Run("FailedOperationIsNotRecorded", func(t *testing.T) {
		uc, inner, audit := newAuditedUseCase(t)
		caller := auditCaller()
		ctx := context.Background()

		inner.On("Delete", ctx, caller, int64(42)).Return(domain.ErrInsufficientRole).Once()

		err := uc.Delete(ctx, caller, 42)

		assert.ErrorIs(t, err, domain.ErrInsufficientRole)
		audit.AssertNotCalled(t, "Record", mock.Anything, mock.Anything)
	})

	t.Run("RecordFailureIsSoft", func(t *testing.T) {
		uc, inner, audit := newAuditedUseCase(t)
		caller := auditCaller()
		ctx := context.Background()

		inner.On("Delete", ctx, caller, int64(42)).Return(nil).Once()
		audit.On("Record", ctx, mock.Anything).Return(apperrors.New("db down")).Once()

		err := uc.Delete(ctx, caller, 42)

		assert.NoError(t, err)
	})
}

func TestAuditDecorator_ChangeRole(t *testing.T) {
	uc, inner, audit := newAuditedUseCase(t)
	caller := auditCaller()
	ctx := context.Background()
	updated := &domain.Account{ID: 42, Role: domain.RoleModerator}

	inner.On("ChangeRole", ctx, caller, int64(42), 2).Return(updated, nil).Once()
	audit.On("Record", ctx, mock.MatchedBy(func(input auditUseCase.RecordInput) bool {
		return input.Action == auditDomain.ActionUserRoleChange &&
			input.Metadata["new_role"] == 2
	})).Return(nil).Once()

	account, err := uc.ChangeRole(ctx, caller, 42, 2)

	assert.NoError(t, err)
	assert.Equal(t, updated, account)
	audit.AssertExpectations(t)
}

func TestAuditDecorator_ReadsPassThrough(t *testing.T) {
	uc, inner, audit := newAuditedUseCase(t)
	ctx := context.Background()
	account := &domain.Account{ID: 7}

	inner.On("Get", ctx, int64(7)).Return(account, nil).Once()

	got, err := uc.Get(ctx, 7)

	assert.NoError(t, err)
	assert.Equal(t, account, got)
	audit.AssertNotCalled(t, "Record", mock.Anything, mock.Anything)
}
