// Package repository implements persistence for email and phone
// verification rows.
//
// One live row per account per channel: upserts replace the outstanding
// token or code in place. The phone verify flow reads its row with
// SELECT ... FOR UPDATE so the attempt counter never races.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/shinobitiger310/TCSS460-Group7-Credential-API-sub000/internal/database"
	apperrors "github.com/shinobitiger310/TCSS460-Group7-Credential-API-sub000/internal/errors"
	"github.com/shinobitiger310/TCSS460-Group7-Credential-API-sub000/internal/verification/domain"
)

// PostgreSQLRepository implements verification persistence for PostgreSQL.
type PostgreSQLRepository struct {
	db *sql.DB
}

// NewPostgreSQLRepository creates a new PostgreSQL verification repository.
func NewPostgreSQLRepository(db *sql.DB) *PostgreSQLRepository {
	return &PostgreSQLRepository{db: db}
}

// UpsertEmail replaces the account's outstanding email token, restarting the
// expiry and resend windows.
func (r *PostgreSQLRepository) UpsertEmail(
	ctx context.Context,
	accountID int64,
	token string,
	expiresAt time.Time,
) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO email_verifications (account_id, token, expires_at, created_at)
			  VALUES ($1, $2, $3, NOW())
			  ON CONFLICT (account_id) DO UPDATE
			  SET token = EXCLUDED.token,
				  expires_at = EXCLUDED.expires_at,
				  created_at = NOW()`

	if _, err := querier.ExecContext(ctx, query, accountID, token, expiresAt); err != nil {
		return apperrors.Wrap(err, "failed to upsert email verification")
	}
	return nil
}

// GetEmail retrieves the account's outstanding email verification row.
func (r *PostgreSQLRepository) GetEmail(
	ctx context.Context,
	accountID int64,
) (*domain.EmailVerification, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, account_id, token, expires_at, created_at
			  FROM email_verifications WHERE account_id = $1`

	verification, err := scanEmailVerification(querier.QueryRowContext(ctx, query, accountID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.Wrap(apperrors.ErrNotFound, "email verification not found")
		}
		return nil, apperrors.Wrap(err, "failed to get email verification")
	}
	return verification, nil
}

// GetEmailByToken retrieves an email verification row by its token.
func (r *PostgreSQLRepository) GetEmailByToken(
	ctx context.Context,
	token string,
) (*domain.EmailVerification, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, account_id, token, expires_at, created_at
			  FROM email_verifications WHERE token = $1`

	verification, err := scanEmailVerification(querier.QueryRowContext(ctx, query, token))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.Wrap(apperrors.ErrNotFound, "email verification not found")
		}
		return nil, apperrors.Wrap(err, "failed to get email verification by token")
	}
	return verification, nil
}

// DeleteEmail removes the account's outstanding email verification row.
func (r *PostgreSQLRepository) DeleteEmail(ctx context.Context, accountID int64) error {
	querier := database.GetTx(ctx, r.db)

	query := `DELETE FROM email_verifications WHERE account_id = $1`

	if _, err := querier.ExecContext(ctx, query, accountID); err != nil {
		return apperrors.Wrap(err, "failed to delete email verification")
	}
	return nil
}

// UpsertPhone replaces the account's outstanding phone code, resetting the
// attempt counter.
func (r *PostgreSQLRepository) UpsertPhone(
	ctx context.Context,
	accountID int64,
	code string,
	expiresAt time.Time,
) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO phone_verifications (account_id, code, attempts, expires_at, created_at)
			  VALUES ($1, $2, 0, $3, NOW())
			  ON CONFLICT (account_id) DO UPDATE
			  SET code = EXCLUDED.code,
				  attempts = 0,
				  expires_at = EXCLUDED.expires_at,
				  created_at = NOW()`

	if _, err := querier.ExecContext(ctx, query, accountID, code, expiresAt); err != nil {
		return apperrors.Wrap(err, "failed to upsert phone verification")
	}
	return nil
}

// GetPhone retrieves the account's outstanding phone verification row.
func (r *PostgreSQLRepository) GetPhone(
	ctx context.Context,
	accountID int64,
) (*domain.PhoneVerification, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, account_id, code, attempts, expires_at, created_at
			  FROM phone_verifications WHERE account_id = $1`

	verification, err := scanPhoneVerification(querier.QueryRowContext(ctx, query, accountID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.Wrap(apperrors.ErrNotFound, "phone verification not found")
		}
		return nil, apperrors.Wrap(err, "failed to get phone verification")
	}
	return verification, nil
}

// GetPhoneForUpdate retrieves the account's phone verification row with a
// row lock. Must run inside a transaction.
func (r *PostgreSQLRepository) GetPhoneForUpdate(
	ctx context.Context,
	accountID int64,
) (*domain.PhoneVerification, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, account_id, code, attempts, expires_at, created_at
			  FROM phone_verifications WHERE account_id = $1 FOR UPDATE`

	verification, err := scanPhoneVerification(querier.QueryRowContext(ctx, query, accountID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.Wrap(apperrors.ErrNotFound, "phone verification not found")
		}
		return nil, apperrors.Wrap(err, "failed to lock phone verification")
	}
	return verification, nil
}

// IncrementAttempts bumps the wrong-guess counter on a phone row.
func (r *PostgreSQLRepository) IncrementAttempts(ctx context.Context, id int64) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE phone_verifications SET attempts = attempts + 1 WHERE id = $1`

	result, err := querier.ExecContext(ctx, query, id)
	if err != nil {
		return apperrors.Wrap(err, "failed to increment attempts")
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to increment attempts")
	}
	if affected == 0 {
		return apperrors.Wrap(apperrors.ErrNotFound, "phone verification not found")
	}
	return nil
}

// DeletePhone removes the account's outstanding phone verification row.
func (r *PostgreSQLRepository) DeletePhone(ctx context.Context, accountID int64) error {
	querier := database.GetTx(ctx, r.db)

	query := `DELETE FROM phone_verifications WHERE account_id = $1`

	if _, err := querier.ExecContext(ctx, query, accountID); err != nil {
		return apperrors.Wrap(err, "failed to delete phone verification")
	}
	return nil
}

// CountExpired reports how many rows a DeleteExpired with the same instant
// would remove.
func (r *PostgreSQLRepository) CountExpired(ctx context.Context, olderThan time.Time) (int64, error) {
	querier := database.GetTx(ctx, r.db)

	var total int64
	for _, query := range []string{
		`SELECT COUNT(*) FROM email_verifications WHERE expires_at <= $1`,
		`SELECT COUNT(*) FROM phone_verifications WHERE expires_at <= $1`,
	} {
		var count int64
		if err := querier.QueryRowContext(ctx, query, olderThan).Scan(&count); err != nil {
			return total, apperrors.Wrap(err, "failed to count expired verifications")
		}
		total += count
	}
	return total, nil
}

// DeleteExpired removes email and phone rows whose expiry is at or before
// the given instant and reports how many were deleted.
func (r *PostgreSQLRepository) DeleteExpired(ctx context.Context, olderThan time.Time) (int64, error) {
	querier := database.GetTx(ctx, r.db)

	var total int64
	for _, query := range []string{
		`DELETE FROM email_verifications WHERE expires_at <= $1`,
		`DELETE FROM phone_verifications WHERE expires_at <= $1`,
	} {
		result, err := querier.ExecContext(ctx, query, olderThan)
		if err != nil {
			return total, apperrors.Wrap(err, "failed to delete expired verifications")
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return total, apperrors.Wrap(err, "failed to delete expired verifications")
		}
		total += affected
	}
	return total, nil
}
