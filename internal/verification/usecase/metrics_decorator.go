package usecase

import (
	"context"
	"time"

	"github.com/shinobitiger310/TCSS460-Group7-Credential-API-sub000/internal/metrics"
)

// verificationUseCaseWithMetrics decorates UseCase with metrics instrumentation.
type verificationUseCaseWithMetrics struct {
	next    UseCase
	metrics metrics.BusinessMetrics
}

// NewUseCaseWithMetrics wraps a verification UseCase with metrics recording.
func NewUseCaseWithMetrics(useCase UseCase, m metrics.BusinessMetrics) UseCase {
	return &verificationUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (d *verificationUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	d.metrics.RecordOperation(ctx, "verification", operation, status)
	d.metrics.RecordDuration(ctx, "verification", operation, time.Since(start), status)
}

func (d *verificationUseCaseWithMetrics) SendEmail(ctx context.Context, accountID int64) (*SendOutput, error) {
	start := time.Now()
	output, err := d.next.SendEmail(ctx, accountID)
	d.record(ctx, "send_email", start, err)
	return output, err
}

func (d *verificationUseCaseWithMetrics) ConfirmEmail(ctx context.Context, token string) error {
	start := time.Now()
	err := d.next.ConfirmEmail(ctx, token)
	d.record(ctx, "confirm_email", start, err)
	return err
}

func (d *verificationUseCaseWithMetrics) SendPhone(
	ctx context.Context,
	accountID int64,
	carrier string,
) (*SendOutput, error) {
	start := time.Now()
	output, err := d.next.SendPhone(ctx, accountID, carrier)
	d.record(ctx, "send_phone", start, err)
	return output, err
}

func (d *verificationUseCaseWithMetrics) VerifyPhone(ctx context.Context, accountID int64, code string) error {
	start := time.Now()
	err := d.next.VerifyPhone(ctx, accountID, code)
	d.record(ctx, "verify_phone", start, err)
	return err
}

func (d *verificationUseCaseWithMetrics) CountExpired(ctx context.Context, olderThan time.Time) (int64, error) {
	return d.next.CountExpired(ctx, olderThan)
}

func (d *verificationUseCaseWithMetrics) CleanExpired(ctx context.Context, olderThan time.Time) (int64, error) {
	start := time.Now()
	count, err := d.next.CleanExpired(ctx, olderThan)
	d.record(ctx, "clean_expired", start, err)
	return count, err
}
