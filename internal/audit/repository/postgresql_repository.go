// Package repository implements audit trail persistence.
//
// Provides PostgreSQL and MySQL implementations with transaction support
// via database.GetTx(). Entries are append-only; the only delete path is
// age-based pruning.
package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/shinobitiger310/TCSS460-Group7-Credential-API-sub000/internal/audit/domain"
	"github.com/shinobitiger310/TCSS460-Group7-Credential-API-sub000/internal/database"
	apperrors "github.com/shinobitiger310/TCSS460-Group7-Credential-API-sub000/internal/errors"
)

// PostgreSQLRepository implements audit persistence for PostgreSQL.
type PostgreSQLRepository struct {
	db *sql.DB
}

// NewPostgreSQLRepository creates a new PostgreSQL audit repository.
func NewPostgreSQLRepository(db *sql.DB) *PostgreSQLRepository {
	return &PostgreSQLRepository{db: db}
}

// Create inserts a new audit entry. Nil metadata is stored as NULL.
func (r *PostgreSQLRepository) Create(ctx context.Context, entry *domain.Entry) error {
	querier := database.GetTx(ctx, r.db)

	var metadataJSON []byte
	var err error
	if entry.Metadata != nil {
		metadataJSON, err = json.Marshal(entry.Metadata)
		if err != nil {
			return apperrors.Wrap(err, "failed to marshal audit metadata")
		}
	}

	query := `INSERT INTO audit_entries
				(id, request_id, actor_id, target_id, action, metadata, signature, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err = querier.ExecContext(
		ctx,
		query,
		entry.ID,
		entry.RequestID,
		entry.ActorID,
		entry.TargetID,
		string(entry.Action),
		metadataJSON,
		entry.Signature,
		entry.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create audit entry")
	}
	return nil
}

// List retrieves audit entries, newest first, with pagination and optional
// inclusive time bounds (nil means unbounded).
func (r *PostgreSQLRepository) List(
	ctx context.Context,
	offset, limit int,
	createdAtFrom, createdAtTo *time.Time,
) ([]*domain.Entry, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, request_id, actor_id, target_id, action, metadata, signature, created_at
			  FROM audit_entries WHERE 1=1`
	args := make([]any, 0, 4)
	add := func(clause string, value any) {
		args = append(args, value)
		query += clause
	}

	if createdAtFrom != nil {
		add(` AND created_at >= $`+itoa(len(args)+1), *createdAtFrom)
	}
	if createdAtTo != nil {
		add(` AND created_at <= $`+itoa(len(args)+1), *createdAtTo)
	}
	add(` ORDER BY created_at DESC, id DESC LIMIT $`+itoa(len(args)+1), limit)
	add(` OFFSET $`+itoa(len(args)+1), offset)

	rows, err := querier.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list audit entries")
	}
	defer func() {
		_ = rows.Close()
	}()

	return collectEntries(rows)
}

// CountOlderThan reports how many entries a DeleteOlderThan with the same
// cutoff would remove.
func (r *PostgreSQLRepository) CountOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT COUNT(*) FROM audit_entries WHERE created_at < $1`

	var count int64
	if err := querier.QueryRowContext(ctx, query, cutoff).Scan(&count); err != nil {
		return 0, apperrors.Wrap(err, "failed to count audit entries")
	}
	return count, nil
}

// DeleteOlderThan removes entries created before the cutoff and reports how
// many were deleted.
func (r *PostgreSQLRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	querier := database.GetTx(ctx, r.db)

	query := `DELETE FROM audit_entries WHERE created_at < $1`

	result, err := querier.ExecContext(ctx, query, cutoff)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to delete audit entries")
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to delete audit entries")
	}
	return affected, nil
}
