package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/shinobitiger310/TCSS460-Group7-Credential-API-sub000/internal/account/domain"
	"github.com/shinobitiger310/TCSS460-Group7-Credential-API-sub000/internal/database"
	apperrors "github.com/shinobitiger310/TCSS460-Group7-Credential-API-sub000/internal/errors"
)

// MySQLCredentialRepository implements credential persistence for MySQL.
type MySQLCredentialRepository struct {
	db *sql.DB
}

// NewMySQLCredentialRepository creates a new MySQL credential repository.
func NewMySQLCredentialRepository(db *sql.DB) *MySQLCredentialRepository {
	return &MySQLCredentialRepository{db: db}
}

// Get retrieves the credential for an account.
func (r *MySQLCredentialRepository) Get(ctx context.Context, accountID int64) (*domain.Credential, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT account_id, salt, hash, updated_at
			  FROM account_credentials WHERE account_id = ?`

	var credential domain.Credential
	err := querier.QueryRowContext(ctx, query, accountID).Scan(
		&credential.AccountID,
		&credential.Salt,
		&credential.Hash,
		&credential.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get credential")
	}
	return &credential, nil
}

// GetByAccountEmail retrieves an account together with its credential in a
// single round trip, for the login path. Soft-deleted accounts are excluded.
func (r *MySQLCredentialRepository) GetByAccountEmail(
	ctx context.Context,
	email string,
) (*domain.Account, *domain.Credential, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT a.` + joinAccountColumns() + `,
				c.account_id, c.salt, c.hash, c.updated_at
			  FROM accounts a
			  JOIN account_credentials c ON c.account_id = a.id
			  WHERE a.email = ? AND a.deleted_at IS NULL`

	return scanAccountWithCredential(querier.QueryRowContext(ctx, query, email))
}

// Set upserts the credential for an account and bumps updated_at on both
// the credential row and the account itself.
func (r *MySQLCredentialRepository) Set(ctx context.Context, accountID int64, salt, hash string) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO account_credentials (account_id, salt, hash, updated_at)
			  VALUES (?, ?, ?, NOW())
			  ON DUPLICATE KEY UPDATE salt = VALUES(salt), hash = VALUES(hash), updated_at = NOW()`

	if _, err := querier.ExecContext(ctx, query, accountID, salt, hash); err != nil {
		return apperrors.Wrap(err, "failed to set credential")
	}

	accountQuery := `UPDATE accounts SET updated_at = NOW() WHERE id = ? AND deleted_at IS NULL`
	if _, err := querier.ExecContext(ctx, accountQuery, accountID); err != nil {
		return apperrors.Wrap(err, "failed to touch account")
	}
	return nil
}
