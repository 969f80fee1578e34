package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/shinobitiger310/TCSS460-Group7-Credential-API-sub000/internal/account/domain"
	"github.com/shinobitiger310/TCSS460-Group7-Credential-API-sub000/internal/database"
	apperrors "github.com/shinobitiger310/TCSS460-Group7-Credential-API-sub000/internal/errors"
)

// PostgreSQLCredentialRepository implements credential persistence for PostgreSQL.
type PostgreSQLCredentialRepository struct {
	db *sql.DB
}

// NewPostgreSQLCredentialRepository creates a new PostgreSQL credential repository.
func NewPostgreSQLCredentialRepository(db *sql.DB) *PostgreSQLCredentialRepository {
	return &PostgreSQLCredentialRepository{db: db}
}

// Get retrieves the credential for an account.
func (r *PostgreSQLCredentialRepository) Get(ctx context.Context, accountID int64) (*domain.Credential, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT account_id, salt, hash, updated_at
			  FROM account_credentials WHERE account_id = $1`

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
func (r *PostgreSQLCredentialRepository) GetByAccountEmail(
	ctx context.Context,
	email string,
) (*domain.Account, *domain.Credential, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT a.` + joinAccountColumns() + `,
				c.account_id, c.salt, c.hash, c.updated_at
			  FROM accounts a
			  JOIN account_credentials c ON c.account_id = a.id
			  WHERE a.email = $1 AND a.deleted_at IS NULL`

	return scanAccountWithCredential(querier.QueryRowContext(ctx, query, email))
}

// Set upserts the credential for an account and bumps updated_at on both
// the credential row and the account itself.
func (r *PostgreSQLCredentialRepository) Set(ctx context.Context, accountID int64, salt, hash string) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO account_credentials (account_id, salt, hash, updated_at)
			  VALUES ($1, $2, $3, NOW())
			  ON CONFLICT (account_id)
			  DO UPDATE SET salt = EXCLUDED.salt, hash = EXCLUDED.hash, updated_at = NOW()`

	if _, err := querier.ExecContext(ctx, query, accountID, salt, hash); err != nil {
		return apperrors.Wrap(err, "failed to set credential")
	}

	accountQuery := `UPDATE accounts SET updated_at = NOW() WHERE id = $1 AND deleted_at IS NULL`
	if _, err := querier.ExecContext(ctx, accountQuery, accountID); err != nil {
		return apperrors.Wrap(err, "failed to touch account")
	}
	return nil
}

// joinAccountColumns prefixes accountColumns for aliased joins.
func joinAccountColumns() string {
	return `id, a.email, a.username, a.first_name, a.last_name, a.phone, a.role, a.status,
	a.email_verified, a.phone_verified, a.created_at, a.updated_at, a.deleted_at`
}

// scanAccountWithCredential reads an account row followed by its credential columns.
func scanAccountWithCredential(row rowScanner) (*domain.Account, *domain.Credential, error) {
	var (
		account    domain.Account
		credential domain.Credential
		phone      sql.NullString
		role       int
		status     string
		deletedAt  sql.NullTime
	)

	err := row.Scan(
		&account.ID,
		&account.Email,
		&account.Username,
		&account.FirstName,
		&account.LastName,
		&phone,
		&role,
		&status,
		&account.EmailVerified,
		&account.PhoneVerified,
		&account.CreatedAt,
		&account.UpdatedAt,
		&deletedAt,
		&credential.AccountID,
		&credential.Salt,
		&credential.Hash,
		&credential.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, domain.ErrAccountNotFound
		}
		return nil, nil, apperrors.Wrap(err, "failed to get account with credential")
	}

	account.Phone = phone.String
	account.Role = domain.Role(role)
	account.Status = domain.Status(status)
	if deletedAt.Valid {
		t := deletedAt.Time
		account.DeletedAt = &t
	}
	return &account, &credential, nil
}
