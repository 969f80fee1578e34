package usecase

import (
	"context"
	"time"

	"github.com/shinobitiger310/TCSS460-Group7-Credential-API-sub000/internal/metrics"
)

// authUseCaseWithMetrics decorates UseCase with metrics instrumentation.
type authUseCaseWithMetrics struct {
	next    UseCase
	metrics metrics.BusinessMetrics
}

// NewUseCaseWithMetrics wraps a credential engine UseCase with metrics
// recording.
func NewUseCaseWithMetrics(useCase UseCase, m metrics.BusinessMetrics) UseCase {
	return &authUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (d *authUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	d.metrics.RecordOperation(ctx, "auth", operation, status)
	d.metrics.RecordDuration(ctx, "auth", operation, time.Since(start), status)
}

func (d *authUseCaseWithMetrics) Register(ctx context.Context, input RegisterInput) (*AuthOutput, error) {
	start := time.Now()
	output, err := d.next.Register(ctx, input)
	d.record(ctx, "register", start, err)
	return output, err
}

func (d *authUseCaseWithMetrics) Login(ctx context.Context, email, password string) (*AuthOutput, error) {
	start := time.Now()
	output, err := d.next.Login(ctx, email, password)
	d.record(ctx, "login", start, err)
	return output, err
}

func (d *authUseCaseWithMetrics) ChangePassword(
	ctx context.Context,
	accountID int64,
	oldPassword, newPassword string,
) error {
	start := time.Now()
	err := d.next.ChangePassword(ctx, accountID, oldPassword, newPassword)
	d.record(ctx, "change_password", start, err)
	return err
}

func (d *authUseCaseWithMetrics) RequestPasswordReset(ctx context.Context, email string) (*ResetRequestOutput, error) {
	start := time.Now()
	output, err := d.next.RequestPasswordReset(ctx, email)
	d.record(ctx, "request_password_reset", start, err)
	return output, err
}

func (d *authUseCaseWithMetrics) ResetPassword(ctx context.Context, tokenString, newPassword string) error {
	start := time.Now()
	err := d.next.ResetPassword(ctx, tokenString, newPassword)
	d.record(ctx, "reset_password", start, err)
	return err
}
