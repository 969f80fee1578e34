package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	verificationUsecase "github.com/shinobitiger310/TCSS460-Group7-Credential-API-sub000/internal/verification/usecase"
)

// RunCleanVerifications deletes expired email and phone verification rows.
// With days > 0 only rows that expired more than that many days ago are
// removed. Supports dry-run mode to preview the deletion count and both
// text/JSON output formats.
//
// Requirements: Database must be migrated and accessible.
func RunCleanVerifications(
	ctx context.Context,
	verificationUseCase verificationUsecase.UseCase,
	logger *slog.Logger,
	writer io.Writer,
	days int,
	dryRun bool,
	format string,
) error {
	if days < 0 {
		return fmt.Errorf("days must not be negative, got: %d", days)
	}

	logger.Info("cleaning expired verifications",
		slog.Int("days", days),
		slog.Bool("dry_run", dryRun),
	)

	cutoff := time.Now().AddDate(0, 0, -days)

	var count int64
	var err error
	if dryRun {
		count, err = verificationUseCase.CountExpired(ctx, cutoff)
	} else {
		count, err = verificationUseCase.CleanExpired(ctx, cutoff)
	}
	if err != nil {
		return fmt.Errorf("failed to clean expired verifications: %w", err)
	}

	if format == "json" {
		if err := outputCleanJSON(writer, count, days, dryRun); err != nil {
			return fmt.Errorf("failed to output JSON: %w", err)
		}
	} else {
		outputCleanVerificationsText(writer, count, dryRun)
	}

	logger.Info("cleanup completed",
		slog.Int64("count", count),
		slog.Int("days", days),
		slog.Bool("dry_run", dryRun),
	)

	return nil
}

// outputCleanVerificationsText outputs the result in human-readable text format.
func outputCleanVerificationsText(writer io.Writer, count int64, dryRun bool) {
	if dryRun {
		_, _ = fmt.Fprintf(writer, "Dry-run mode: Would delete %d expired verification row(s)\n", count)
	} else {
		_, _ = fmt.Fprintf(writer, "Successfully deleted %d expired verification row(s)\n", count)
	}
}
