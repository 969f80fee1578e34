package usecase

import (
	"context"
	"log/slog"

	"github.com/shinobitiger310/TCSS460-Group7-Credential-API-sub000/internal/account/domain"
	auditDomain "github.com/shinobitiger310/TCSS460-Group7-Credential-API-sub000/internal/audit/domain"
	auditUseCase "github.com/shinobitiger310/TCSS460-Group7-Credential-API-sub000/internal/audit/usecase"
)

// accountUseCaseWithAudit decorates UseCase so every successful admin
// mutation leaves an audit entry. Recording failures are logged and never
// fail the operation itself.
type accountUseCaseWithAudit struct {
	next   UseCase
	audit  auditUseCase.UseCase
	logger *slog.Logger
}

// NewUseCaseWithAudit wraps an account UseCase with audit recording.
func NewUseCaseWithAudit(useCase UseCase, audit auditUseCase.UseCase, logger *slog.Logger) UseCase {
	return &accountUseCaseWithAudit{
		next:   useCase,
		audit:  audit,
		logger: logger,
	}
}

func (d *accountUseCaseWithAudit) record(
	ctx context.Context,
	actorID, targetID int64,
	action auditDomain.Action,
	metadata map[string]any,
) {
	err := d.audit.Record(ctx, auditUseCase.RecordInput{
		RequestID: auditUseCase.RequestIDFromContext(ctx),
		ActorID:   actorID,
		TargetID:  targetID,
		Action:    action,
		Metadata:  metadata,
	})
	if err != nil {
		d.logger.Warn("failed to record audit entry",
			slog.String("action", string(action)),
			slog.Int64("actor_id", actorID),
			slog.Int64("target_id", targetID),
			slog.Any("error", err))
	}
}

func (d *accountUseCaseWithAudit) GetSelf(ctx context.Context, accountID int64) (*domain.Account, error) {
	return d.next.GetSelf(ctx, accountID)
}

func (d *accountUseCaseWithAudit) Create(
	ctx context.Context,
	caller *domain.Account,
	input CreateAccountInput,
) (*domain.Account, error) {
	account, err := d.next.Create(ctx, caller, input)
	if err != nil {
		return nil, err
	}
	d.record(ctx, caller.ID, account.ID, auditDomain.ActionUserCreate, map[string]any{
		"email": account.Email,
		"role":  int(account.Role),
	})
	return account, nil
}

func (d *accountUseCaseWithAudit) List(
	ctx context.Context,
	filters domain.ListFilters,
	page, limit int,
) (*Page, error) {
	return d.next.List(ctx, filters, page, limit)
}

func (d *accountUseCaseWithAudit) Search(
	ctx context.Context,
	search string,
	fields []string,
	page, limit int,
) (*Page, error) {
	return d.next.Search(ctx, search, fields, page, limit)
}

func (d *accountUseCaseWithAudit) Get(ctx context.Context, id int64) (*domain.Account, error) {
	return d.next.Get(ctx, id)
}

func (d *accountUseCaseWithAudit) Update(
	ctx context.Context,
	caller *domain.Account,
	targetID int64,
	input UpdateAccountInput,
) (*domain.Account, error) {
	account, err := d.next.Update(ctx, caller, targetID, input)
	if err != nil {
		return nil, err
	}

	metadata := map[string]any{}
	if input.Status != nil {
		metadata["status"] = *input.Status
	}
	if input.EmailVerified != nil {
		metadata["email_verified"] = *input.EmailVerified
	}
	if input.PhoneVerified != nil {
		metadata["phone_verified"] = *input.PhoneVerified
	}
	d.record(ctx, caller.ID, targetID, auditDomain.ActionUserUpdate, metadata)
	return account, nil
}

func (d *accountUseCaseWithAudit) ResetPassword(
	ctx context.Context,
	caller *domain.Account,
	targetID int64,
	newPassword string,
) error {
	if err := d.next.ResetPassword(ctx, caller, targetID, newPassword); err != nil {
		return err
	}
	d.record(ctx, caller.ID, targetID, auditDomain.ActionUserPasswordReset, nil)
	return nil
}

func (d *accountUseCaseWithAudit) Delete(ctx context.Context, caller *domain.Account, targetID int64) error {
	if err := d.next.Delete(ctx, caller, targetID); err != nil {
		return err
	}
	d.record(ctx, caller.ID, targetID, auditDomain.ActionUserDelete, nil)
	return nil
}

func (d *accountUseCaseWithAudit) ChangeRole(
	ctx context.Context,
	caller *domain.Account,
	targetID int64,
	newRole int,
) (*domain.Account, error) {
	account, err := d.next.ChangeRole(ctx, caller, targetID, newRole)
	if err != nil {
		return nil, err
	}
	d.record(ctx, caller.ID, targetID, auditDomain.ActionUserRoleChange, map[string]any{
		"new_role": newRole,
	})
	return account, nil
}

func (d *accountUseCaseWithAudit) DashboardStats(ctx context.Context) (*domain.DashboardCounts, error) {
	return d.next.DashboardStats(ctx)
}
