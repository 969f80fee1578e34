// Package usecase implements the admin audit trail.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/shinobitiger310/TCSS460-Group7-Credential-API-sub000/internal/audit/domain"
	"github.com/shinobitiger310/TCSS460-Group7-Credential-API-sub000/internal/audit/service"
	"github.com/shinobitiger310/TCSS460-Group7-Credential-API-sub000/internal/clock"
	apperrors "github.com/shinobitiger310/TCSS460-Group7-Credential-API-sub000/internal/errors"
)

// verifyBatchSize is how many entries a verification pass loads at once.
const verifyBatchSize = 500

// AuditUseCase implements the audit trail.
type AuditUseCase struct {
	repo   Repository
	signer service.Signer
	clock  clock.Clock
}

// NewAuditUseCase creates a new audit use case.
func NewAuditUseCase(repo Repository, signer service.Signer, clk clock.Clock) *AuditUseCase {
	return &AuditUseCase{
		repo:   repo,
		signer: signer,
		clock:  clk,
	}
}

// Record signs and persists one audit entry with a fresh UUIDv7 identifier.
func (uc *AuditUseCase) Record(ctx context.Context, input RecordInput) error {
	entry := &domain.Entry{
		ID:        uuid.Must(uuid.NewV7()),
		RequestID: input.RequestID,
		ActorID:   input.ActorID,
		TargetID:  input.TargetID,
		Action:    input.Action,
		Metadata:  input.Metadata,
		CreatedAt: uc.clock.Now(),
	}

	signature, err := uc.signer.Sign(entry)
	if err != nil {
		return apperrors.Wrap(err, "failed to sign audit entry")
	}
	entry.Signature = signature

	if err := uc.repo.Create(ctx, entry); err != nil {
		return apperrors.Wrap(err, "failed to record audit entry")
	}
	return nil
}

// List retrieves entries newest first.
func (uc *AuditUseCase) List(
	ctx context.Context,
	offset, limit int,
	createdAtFrom, createdAtTo *time.Time,
) ([]*domain.Entry, error) {
	entries, err := uc.repo.List(ctx, offset, limit, createdAtFrom, createdAtTo)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list audit entries")
	}
	return entries, nil
}

// VerifyBatch walks the stored entries in the time range page by page and
// recomputes every signature.
func (uc *AuditUseCase) VerifyBatch(
	ctx context.Context,
	startTime, endTime time.Time,
) (*VerificationReport, error) {
	report := &VerificationReport{}

	for offset := 0; ; offset += verifyBatchSize {
		entries, err := uc.repo.List(ctx, offset, verifyBatchSize, &startTime, &endTime)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to load audit entries for verification")
		}
		if len(entries) == 0 {
			break
		}

		for _, entry := range entries {
			report.TotalChecked++

			if len(entry.Signature) == 0 {
				report.UnsignedCount++
				continue
			}

			if err := uc.signer.Verify(entry); err != nil {
				report.InvalidCount++
				report.InvalidIDs = append(report.InvalidIDs, entry.ID)
				continue
			}
			report.ValidCount++
		}

		if len(entries) < verifyBatchSize {
			break
		}
	}

	return report, nil
}

// CountOlderThan reports how many entries DeleteOlderThan would prune, for
// dry runs.
func (uc *AuditUseCase) CountOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	count, err := uc.repo.CountOlderThan(ctx, cutoff)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to count audit entries")
	}
	return count, nil
}

// DeleteOlderThan prunes entries created before the cutoff.
func (uc *AuditUseCase) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	count, err := uc.repo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to delete audit entries")
	}
	return count, nil
}
