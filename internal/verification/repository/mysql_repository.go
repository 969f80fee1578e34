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

// MySQLRepository implements verification persistence for MySQL.
type MySQLRepository struct {
	db *sql.DB
}

// NewMySQLRepository creates a new MySQL verification repository.
func NewMySQLRepository(db *sql.DB) *MySQLRepository {
	return &MySQLRepository{db: db}
}

// UpsertEmail replaces the account's outstanding email token, restarting the
// expiry and resend windows.
func (r *MySQLRepository) UpsertEmail(
	ctx context.Context,
	accountID int64,
	token string,
	expiresAt time.Time,
) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO email_verifications (account_id, token, expires_at, created_at)
			  VALUES (?, ?, ?, NOW())
			  ON DUPLICATE KEY UPDATE
				  token = VALUES(token),
				  expires_at = VALUES(expires_at),
				  created_at = NOW()`

	if _, err := querier.ExecContext(ctx, query, accountID, token, expiresAt); err != nil {
		return apperrors.Wrap(err, "failed to upsert email verification")
	}
	return nil
}

// GetEmail retrieves the account's outstanding email verification row.
func (r *MySQLRepository) GetEmail(
	ctx context.Context,
	accountID int64,
) (*domain.EmailVerification, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, account_id, token, expires_at, created_at
			  FROM email_verifications WHERE account_id = ?`

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
func (r *MySQLRepository) GetEmailByToken(
	ctx context.Context,
	token string,
) (*domain.EmailVerification, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, account_id, token, expires_at, created_at
			  FROM email_verifications WHERE token = ?`

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
func (r *MySQLRepository) DeleteEmail(ctx context.Context, accountID int64) error {
	querier := database.GetTx(ctx, r.db)

	query := `DELETE FROM email_verifications WHERE account_id = ?`

	if _, err := querier.ExecContext(ctx, query, accountID); err != nil {
		return apperrors.Wrap(err, "failed to delete email verification")
	}
	return nil
}

// UpsertPhone replaces the account's outstanding phone code, resetting the
// attempt counter.
func (r *MySQLRepository) UpsertPhone(
	ctx context.Context,
	accountID int64,
	code string,
	expiresAt time.Time,
) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO phone_verifications (account_id, code, attempts, expires_at, created_at)
			  VALUES (?, ?, 0, ?, NOW())
			  ON DUPLICATE KEY UPDATE
				  code = VALUES(code),
				  attempts = 0,
				  expires_at = VALUES(expires_at),
				  created_at = NOW()`

	if _, err := querier.ExecContext(ctx, query, accountID, code, expiresAt); err != nil {
		return apperrors.Wrap(err, "failed to upsert phone verification")
	}
	return nil
}

// GetPhone retrieves the account's outstanding phone verification row.
func (r *MySQLRepository) GetPhone(
	ctx context.Context,
	accountID int64,
) (*domain.PhoneVerification, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, account_id, code, attempts, expires_at, created_at
			  FROM phone_verifications WHERE account_id = ?`

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
func (r *MySQLRepository) GetPhoneForUpdate(
	ctx context.Context,
	accountID int64,
) (*domain.PhoneVerification, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, account_id, code, attempts, expires_at, created_at
			  FROM phone_verifications WHERE account_id = ? FOR UPDATE`

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
func (r *MySQLRepository) IncrementAttempts(ctx context.Context, id int64) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE phone_verifications SET attempts = attempts + 1 WHERE id = ?`

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
func (r *MySQLRepository) DeletePhone(ctx context.Context, accountID int64) error {
	querier := database.GetTx(ctx, r.db)

	query := `DELETE FROM phone_verifications WHERE account_id = ?`

	if _, err := querier.ExecContext(ctx, query, accountID); err != nil {
		return apperrors.Wrap(err, "failed to delete phone verification")
	}
	return nil
}

// CountExpired reports how many rows a DeleteExpired with the same instant
// would remove.
func (r *MySQLRepository) CountExpired(ctx context.Context, olderThan time.Time) (int64, error) {
	querier := database.GetTx(ctx, r.db)

	var total int64
	for _, query := range []string{
		`SELECT COUNT(*) FROM email_verifications WHERE expires_at <= ?`,
		`SELECT COUNT(*) FROM phone_verifications WHERE expires_at <= ?`,
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
func (r *MySQLRepository) DeleteExpired(ctx context.Context, olderThan time.Time) (int64, error) {
	querier := database.GetTx(ctx, r.db)

	var total int64
	for _, query := range []string{
		`DELETE FROM email_verifications WHERE expires_at <= ?`,
		`DELETE FROM phone_verifications WHERE expires_at <= ?`,
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
