package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/shinobitiger310/TCSS460-Group7-Credential-API-sub000/internal/audit/domain"
	"github.com/shinobitiger310/TCSS460-Group7-Credential-API-sub000/internal/database"
	apperrors "github.com/shinobitiger310/TCSS460-Group7-Credential-API-sub000/internal/errors"
)

// MySQLRepository implements audit persistence for MySQL. UUIDs are stored
// as BINARY(16).
type MySQLRepository struct {
	db *sql.DB
}

// NewMySQLRepository creates a new MySQL audit repository.
func NewMySQLRepository(db *sql.DB) *MySQLRepository {
	return &MySQLRepository{db: db}
}

// Create inserts a new audit entry. Nil metadata is stored as NULL.
func (r *MySQLRepository) Create(ctx context.Context, entry *domain.Entry) error {
	querier := database.GetTx(ctx, r.db)

	var metadataJSON []byte
	var err error
	if entry.Metadata != nil {
		metadataJSON, err = json.Marshal(entry.Metadata)
		if err != nil {
			return apperrors.Wrap(err, "failed to marshal audit metadata")
		}
	}

	id, err := entry.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal audit entry id")
	}
	requestID, err := entry.RequestID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal audit entry request_id")
	}

	query := `INSERT INTO audit_entries
				(id, request_id, actor_id, target_id, action, metadata, signature, created_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
		requestID,
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
func (r *MySQLRepository) List(
	ctx context.Context,
	offset, limit int,
	createdAtFrom, createdAtTo *time.Time,
) ([]*domain.Entry, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, request_id, actor_id, target_id, action, metadata, signature, created_at
			  FROM audit_entries WHERE 1=1`
	args := make([]any, 0, 4)

	if createdAtFrom != nil {
		query += ` AND created_at >= ?`
		args = append(args, *createdAtFrom)
	}
	if createdAtTo != nil {
		query += ` AND created_at <= ?`
		args = append(args, *createdAtTo)
	}
	query += ` ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	rows, err := querier.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list audit entries")
	}
	defer func() {
		_ = rows.Close()
	}()

	entries := make([]*domain.Entry, 0)
	for rows.Next() {
		var (
			entry        domain.Entry
			idBytes      []byte
			requestBytes []byte
			action       string
			metadataJSON []byte
		)

		err := rows.Scan(
			&idBytes,
			&requestBytes,
			&entry.ActorID,
			&entry.TargetID,
			&action,
			&metadataJSON,
			&entry.Signature,
			&entry.CreatedAt,
		)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan audit entry")
		}

		if entry.ID, err = uuid.FromBytes(idBytes); err != nil {
			return nil, apperrors.Wrap(err, "failed to parse audit entry id")
		}
		if entry.RequestID, err = uuid.FromBytes(requestBytes); err != nil {
			return nil, apperrors.Wrap(err, "failed to parse audit entry request_id")
		}

		entry.Action = domain.Action(action)
		if metadataJSON != nil {
			if err := json.Unmarshal(metadataJSON, &entry.Metadata); err != nil {
				return nil, apperrors.Wrap(err, "failed to unmarshal audit metadata")
			}
		}

		entries = append(entries, &entry)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate audit entries")
	}
	return entries, nil
}

// CountOlderThan reports how many entries a DeleteOlderThan with the same
// cutoff would remove.
func (r *MySQLRepository) CountOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT COUNT(*) FROM audit_entries WHERE created_at < ?`

	var count int64
	if err := querier.QueryRowContext(ctx, query, cutoff).Scan(&count); err != nil {
		return 0, apperrors.Wrap(err, "failed to count audit entries")
	}
	return count, nil
}

// DeleteOlderThan removes entries created before the cutoff and reports how
// many were deleted.
func (r *MySQLRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	querier := database.GetTx(ctx, r.db)

	query := `DELETE FROM audit_entries WHERE created_at < ?`

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
