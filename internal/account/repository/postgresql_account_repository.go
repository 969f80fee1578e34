// Package repository implements data persistence for accounts and credentials.
//
// Provides PostgreSQL and MySQL implementations with transaction support via
// database.GetTx(). Row locks for read-modify-write flows use SELECT ... FOR UPDATE.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/shinobitiger310/TCSS460-Group7-Credential-API-sub000/internal/account/domain"
	"github.com/shinobitiger310/TCSS460-Group7-Credential-API-sub000/internal/database"
	apperrors "github.com/shinobitiger310/TCSS460-Group7-Credential-API-sub000/internal/errors"
)

const accountColumns = `id, email, username, first_name, last_name, phone, role, status,
	email_verified, phone_verified, created_at, updated_at, deleted_at`

// PostgreSQLAccountRepository implements account persistence for PostgreSQL.
type PostgreSQLAccountRepository struct {
	db *sql.DB
}

// NewPostgreSQLAccountRepository creates a new PostgreSQL account repository.
func NewPostgreSQLAccountRepository(db *sql.DB) *PostgreSQLAccountRepository {
	return &PostgreSQLAccountRepository{db: db}
}

// Create inserts a new account and returns its generated ID.
func (r *PostgreSQLAccountRepository) Create(ctx context.Context, account *domain.Account) (int64, error) {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO accounts (email, username, first_name, last_name, phone, role, status,
				email_verified, phone_verified, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
			  RETURNING id`

	var id int64
	err := querier.QueryRowContext(
		ctx,
		query,
		account.Email,
		account.Username,
		account.FirstName,
		account.LastName,
		nullableString(account.Phone),
		int(account.Role),
		string(account.Status),
		account.EmailVerified,
		account.PhoneVerified,
	).Scan(&id)
	if err != nil {
		if dup := postgresDuplicateError(err); dup != nil {
			return 0, dup
		}
		return 0, apperrors.Wrap(err, "failed to create account")
	}

	account.ID = id
	return id, nil
}

// GetByID retrieves an account by ID, excluding soft-deleted rows.
func (r *PostgreSQLAccountRepository) GetByID(ctx context.Context, id int64) (*domain.Account, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1 AND deleted_at IS NULL`

	account, err := scanAccount(querier.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get account by id")
	}
	return account, nil
}

// GetByEmail retrieves an account by email, excluding soft-deleted rows.
func (r *PostgreSQLAccountRepository) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + accountColumns + ` FROM accounts WHERE email = $1 AND deleted_at IS NULL`

	account, err := scanAccount(querier.QueryRowContext(ctx, query, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get account by email")
	}
	return account, nil
}

// GetByIDForUpdate retrieves an account by ID and locks the row for the
// duration of the surrounding transaction.
func (r *PostgreSQLAccountRepository) GetByIDForUpdate(ctx context.Context, id int64) (*domain.Account, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + accountColumns + ` FROM accounts
			  WHERE id = $1 AND deleted_at IS NULL FOR UPDATE`

	account, err := scanAccount(querier.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, apperrors.Wrap(err, "failed to lock account")
	}
	return account, nil
}

// UpdateFields applies a partial update and bumps updated_at.
func (r *PostgreSQLAccountRepository) UpdateFields(
	ctx context.Context,
	id int64,
	fields domain.UpdateFields,
) error {
	if fields.Empty() {
		return nil
	}
	querier := database.GetTx(ctx, r.db)

	set := make([]string, 0, 4)
	args := make([]any, 0, 5)
	add := func(column string, value any) {
		args = append(args, value)
		set = append(set, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if fields.Status != nil {
		add("status", string(*fields.Status))
	}
	if fields.EmailVerified != nil {
		add("email_verified", *fields.EmailVerified)
	}
	if fields.PhoneVerified != nil {
		add("phone_verified", *fields.PhoneVerified)
	}
	set = append(set, "updated_at = NOW()")

	args = append(args, id)
	query := fmt.Sprintf(
		"UPDATE accounts SET %s WHERE id = $%d AND deleted_at IS NULL",
		strings.Join(set, ", "),
		len(args),
	)

	result, err := querier.ExecContext(ctx, query, args...)
	if err != nil {
		if dup := postgresDuplicateError(err); dup != nil {
			return dup
		}
		return apperrors.Wrap(err, "failed to update account")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to update account")
	}
	if affected == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

// UpdateRole changes an account's role and bumps updated_at.
func (r *PostgreSQLAccountRepository) UpdateRole(ctx context.Context, id int64, role domain.Role) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE accounts SET role = $1, updated_at = NOW()
			  WHERE id = $2 AND deleted_at IS NULL`

	result, err := querier.ExecContext(ctx, query, int(role), id)
	if err != nil {
		return apperrors.Wrap(err, "failed to update account role")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to update account role")
	}
	if affected == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

// SoftDelete marks the account deleted. Repeating the call reports
// ErrAccountNotFound since the row no longer matches.
func (r *PostgreSQLAccountRepository) SoftDelete(ctx context.Context, id int64) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE accounts SET deleted_at = NOW(), status = $1, updated_at = NOW()
			  WHERE id = $2 AND deleted_at IS NULL`

	result, err := querier.ExecContext(ctx, query, string(domain.StatusDeleted), id)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete account")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to delete account")
	}
	if affected == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

// List retrieves accounts matching the filters, ordered newest first.
func (r *PostgreSQLAccountRepository) List(
	ctx context.Context,
	filters domain.ListFilters,
	offset, limit int,
) ([]*domain.Account, error) {
	querier := database.GetTx(ctx, r.db)

	where, args := postgresListWhere(filters)
	query := fmt.Sprintf(`SELECT %s FROM accounts
			  WHERE %s
			  ORDER BY created_at DESC, id DESC
			  LIMIT $%d OFFSET $%d`,
		accountColumns, where, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := querier.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list accounts")
	}
	defer func() { _ = rows.Close() }()

	return collectAccounts(rows)
}

// Count returns the number of live accounts matching the filters.
func (r *PostgreSQLAccountRepository) Count(ctx context.Context, filters domain.ListFilters) (int64, error) {
	querier := database.GetTx(ctx, r.db)

	where, args := postgresListWhere(filters)
	query := fmt.Sprintf(`SELECT COUNT(*) FROM accounts WHERE %s`, where)

	var count int64
	if err := querier.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, apperrors.Wrap(err, "failed to count accounts")
	}
	return count, nil
}

// postgresListWhere builds the WHERE clause shared by List and Count.
func postgresListWhere(filters domain.ListFilters) (string, []any) {
	where := []string{"deleted_at IS NULL"}
	args := make([]any, 0, 2)
	if filters.Status != nil {
		args = append(args, string(*filters.Status))
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	if filters.Role != nil {
		args = append(args, int(*filters.Role))
		where = append(where, fmt.Sprintf("role = $%d", len(args)))
	}
	return strings.Join(where, " AND "), args
}

// Search retrieves accounts whose requested fields contain the query,
// case-insensitively, ordered newest first. An empty field set searches
// email, username, and both name columns.
func (r *PostgreSQLAccountRepository) Search(
	ctx context.Context,
	search string,
	fields []string,
	offset, limit int,
) ([]*domain.Account, error) {
	querier := database.GetTx(ctx, r.db)

	query := fmt.Sprintf(`SELECT %s FROM accounts
			  WHERE deleted_at IS NULL AND (%s)
			  ORDER BY created_at DESC, id DESC
			  LIMIT $2 OFFSET $3`,
		accountColumns, postgresSearchClause(fields))

	rows, err := querier.QueryContext(ctx, query, likePattern(search), limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to search accounts")
	}
	defer func() { _ = rows.Close() }()

	return collectAccounts(rows)
}

// SearchCount returns the number of live accounts matching the query.
func (r *PostgreSQLAccountRepository) SearchCount(
	ctx context.Context,
	search string,
	fields []string,
) (int64, error) {
	querier := database.GetTx(ctx, r.db)

	query := fmt.Sprintf(`SELECT COUNT(*) FROM accounts
			  WHERE deleted_at IS NULL AND (%s)`, postgresSearchClause(fields))

	var count int64
	if err := querier.QueryRowContext(ctx, query, likePattern(search)).Scan(&count); err != nil {
		return 0, apperrors.Wrap(err, "failed to count matching accounts")
	}
	return count, nil
}

// postgresSearchClause ORs ILIKE conditions over the requested columns.
func postgresSearchClause(fields []string) string {
	conds := make([]string, 0, len(searchColumns(fields)))
	for _, column := range searchColumns(fields) {
		conds = append(conds, column+" ILIKE $1")
	}
	return strings.Join(conds, " OR ")
}

// DashboardCounts aggregates account statistics for the admin dashboard.
func (r *PostgreSQLAccountRepository) DashboardCounts(ctx context.Context) (*domain.DashboardCounts, error) {
	querier := database.GetTx(ctx, r.db)

	counts := &domain.DashboardCounts{
		ByStatus: make(map[domain.Status]int64),
		ByRole:   make(map[domain.Role]int64),
	}

	err := querier.QueryRowContext(ctx, `
		SELECT COUNT(*),
			   COUNT(*) FILTER (WHERE email_verified),
			   COUNT(*) FILTER (WHERE created_at >= NOW() - INTERVAL '7 days')
		FROM accounts WHERE deleted_at IS NULL`,
	).Scan(&counts.TotalAccounts, &counts.EmailVerified, &counts.RecentAccounts)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to aggregate account counts")
	}

	statusRows, err := querier.QueryContext(ctx,
		`SELECT status, COUNT(*) FROM accounts WHERE deleted_at IS NULL GROUP BY status`)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to aggregate status counts")
	}
	defer func() { _ = statusRows.Close() }()

	for statusRows.Next() {
		var status string
		var count int64
		if err := statusRows.Scan(&status, &count); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan status count")
		}
		counts.ByStatus[domain.Status(status)] = count
	}
	if err := statusRows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to aggregate status counts")
	}

	roleRows, err := querier.QueryContext(ctx,
		`SELECT role, COUNT(*) FROM accounts WHERE deleted_at IS NULL GROUP BY role`)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to aggregate role counts")
	}
	defer func() { _ = roleRows.Close() }()

	for roleRows.Next() {
		var role int
		var count int64
		if err := roleRows.Scan(&role, &count); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan role count")
		}
		counts.ByRole[domain.Role(role)] = count
	}
	if err := roleRows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to aggregate role counts")
	}

	return counts, nil
}

// postgresDuplicateError maps unique violations to the duplicated field.
func postgresDuplicateError(err error) error {
	if err == nil {
		return nil
	}
	msg := strings.ToLower(err.Error())
	if !strings.Contains(msg, "duplicate key") && !strings.Contains(msg, "unique constraint") {
		return nil
	}
	if strings.Contains(msg, "phone") {
		return domain.ErrDuplicatePhone
	}
	if strings.Contains(msg, "username") {
		return domain.ErrDuplicateUsername
	}
	return domain.ErrDuplicateEmail
}
