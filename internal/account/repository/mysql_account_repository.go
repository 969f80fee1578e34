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

// MySQLAccountRepository implements account persistence for MySQL.
type MySQLAccountRepository struct {
	db *sql.DB
}

// NewMySQLAccountRepository creates a new MySQL account repository.
func NewMySQLAccountRepository(db *sql.DB) *MySQLAccountRepository {
	return &MySQLAccountRepository{db: db}
}

// Create inserts a new account and returns its generated ID.
func (r *MySQLAccountRepository) Create(ctx context.Context, account *domain.Account) (int64, error) {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO accounts (email, username, first_name, last_name, phone, role, status,
				email_verified, phone_verified, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, NOW(), NOW())`

	result, err := querier.ExecContext(
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
	)
	if err != nil {
		if dup := mysqlDuplicateError(err); dup != nil {
			return 0, dup
		}
		return 0, apperrors.Wrap(err, "failed to create account")
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to read generated account id")
	}

	account.ID = id
	return id, nil
}

// GetByID retrieves an account by ID, excluding soft-deleted rows.
func (r *MySQLAccountRepository) GetByID(ctx context.Context, id int64) (*domain.Account, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = ? AND deleted_at IS NULL`

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
func (r *MySQLAccountRepository) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + accountColumns + ` FROM accounts WHERE email = ? AND deleted_at IS NULL`

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
func (r *MySQLAccountRepository) GetByIDForUpdate(ctx context.Context, id int64) (*domain.Account, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + accountColumns + ` FROM accounts
			  WHERE id = ? AND deleted_at IS NULL FOR UPDATE`

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
//
// MySQL reports changed rows rather than matched rows, so a no-op update
// falls back to an existence check before reporting not found.
func (r *MySQLAccountRepository) UpdateFields(
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
		set = append(set, column+" = ?")
		args = append(args, value)
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
		"UPDATE accounts SET %s WHERE id = ? AND deleted_at IS NULL",
		strings.Join(set, ", "),
	)

	result, err := querier.ExecContext(ctx, query, args...)
	if err != nil {
		if dup := mysqlDuplicateError(err); dup != nil {
			return dup
		}
		return apperrors.Wrap(err, "failed to update account")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to update account")
	}
	if affected == 0 {
		return r.checkExists(ctx, querier, id)
	}
	return nil
}

// UpdateRole changes an account's role and bumps updated_at.
func (r *MySQLAccountRepository) UpdateRole(ctx context.Context, id int64, role domain.Role) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE accounts SET role = ?, updated_at = NOW()
			  WHERE id = ? AND deleted_at IS NULL`

	result, err := querier.ExecContext(ctx, query, int(role), id)
	if err != nil {
		return apperrors.Wrap(err, "failed to update account role")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to update account role")
	}
	if affected == 0 {
		return r.checkExists(ctx, querier, id)
	}
	return nil
}

// SoftDelete marks the account deleted. Repeating the call reports
// ErrAccountNotFound since the row no longer matches.
func (r *MySQLAccountRepository) SoftDelete(ctx context.Context, id int64) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE accounts SET deleted_at = NOW(), status = ?, updated_at = NOW()
			  WHERE id = ? AND deleted_at IS NULL`

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
func (r *MySQLAccountRepository) List(
	ctx context.Context,
	filters domain.ListFilters,
	offset, limit int,
) ([]*domain.Account, error) {
	querier := database.GetTx(ctx, r.db)

	where, args := mysqlListWhere(filters)
	query := fmt.Sprintf(`SELECT %s FROM accounts
			  WHERE %s
			  ORDER BY created_at DESC, id DESC
			  LIMIT ? OFFSET ?`, accountColumns, where)
	args = append(args, limit, offset)

	rows, err := querier.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list accounts")
	}
	defer func() { _ = rows.Close() }()

	return collectAccounts(rows)
}

// Count returns the number of live accounts matching the filters.
func (r *MySQLAccountRepository) Count(ctx context.Context, filters domain.ListFilters) (int64, error) {
	querier := database.GetTx(ctx, r.db)

	where, args := mysqlListWhere(filters)
	query := fmt.Sprintf(`SELECT COUNT(*) FROM accounts WHERE %s`, where)

	var count int64
	if err := querier.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, apperrors.Wrap(err, "failed to count accounts")
	}
	return count, nil
}

// mysqlListWhere builds the WHERE clause shared by List and Count.
func mysqlListWhere(filters domain.ListFilters) (string, []any) {
	where := []string{"deleted_at IS NULL"}
	args := make([]any, 0, 2)
	if filters.Status != nil {
		where = append(where, "status = ?")
		args = append(args, string(*filters.Status))
	}
	if filters.Role != nil {
		where = append(where, "role = ?")
		args = append(args, int(*filters.Role))
	}
	return strings.Join(where, " AND "), args
}

// Search retrieves accounts whose requested fields contain the query,
// case-insensitively, ordered newest first. An empty field set searches
// email, username, and both name columns.
func (r *MySQLAccountRepository) Search(
	ctx context.Context,
	search string,
	fields []string,
	offset, limit int,
) ([]*domain.Account, error) {
	querier := database.GetTx(ctx, r.db)

	clause, args := mysqlSearchClause(fields, search)
	query := fmt.Sprintf(`SELECT %s FROM accounts
			  WHERE deleted_at IS NULL AND (%s)
			  ORDER BY created_at DESC, id DESC
			  LIMIT ? OFFSET ?`, accountColumns, clause)
	args = append(args, limit, offset)

	rows, err := querier.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to search accounts")
	}
	defer func() { _ = rows.Close() }()

	return collectAccounts(rows)
}

// SearchCount returns the number of live accounts matching the query.
func (r *MySQLAccountRepository) SearchCount(
	ctx context.Context,
	search string,
	fields []string,
) (int64, error) {
	querier := database.GetTx(ctx, r.db)

	clause, args := mysqlSearchClause(fields, search)
	query := fmt.Sprintf(`SELECT COUNT(*) FROM accounts
			  WHERE deleted_at IS NULL AND (%s)`, clause)

	var count int64
	if err := querier.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, apperrors.Wrap(err, "failed to count matching accounts")
	}
	return count, nil
}

// mysqlSearchClause ORs LIKE conditions over the requested columns.
func mysqlSearchClause(fields []string, search string) (string, []any) {
	columns := searchColumns(fields)
	conds := make([]string, 0, len(columns))
	args := make([]any, 0, len(columns))
	for _, column := range columns {
		conds = append(conds, "LOWER("+column+") LIKE LOWER(?)")
		args = append(args, likePattern(search))
	}
	return strings.Join(conds, " OR "), args
}

// DashboardCounts aggregates account statistics for the admin dashboard.
func (r *MySQLAccountRepository) DashboardCounts(ctx context.Context) (*domain.DashboardCounts, error) {
	querier := database.GetTx(ctx, r.db)

	counts := &domain.DashboardCounts{
		ByStatus: make(map[domain.Status]int64),
		ByRole:   make(map[domain.Role]int64),
	}

	err := querier.QueryRowContext(ctx, `
		SELECT COUNT(*),
			   COALESCE(SUM(CASE WHEN email_verified THEN 1 ELSE 0 END), 0),
			   COALESCE(SUM(CASE WHEN created_at >= NOW() - INTERVAL 7 DAY THEN 1 ELSE 0 END), 0)
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

// checkExists distinguishes "row unchanged" from "row missing" after a
// zero-affected update.
func (r *MySQLAccountRepository) checkExists(ctx context.Context, querier database.Querier, id int64) error {
	var one int
	err := querier.QueryRowContext(ctx,
		`SELECT 1 FROM accounts WHERE id = ? AND deleted_at IS NULL`, id).Scan(&one)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrAccountNotFound
		}
		return apperrors.Wrap(err, "failed to check account existence")
	}
	return nil
}

// mysqlDuplicateError maps unique violations to the duplicated field.
func mysqlDuplicateError(err error) error {
	if err == nil {
		return nil
	}
	msg := strings.ToLower(err.Error())
	// MySQL: "Error 1062 (23000): Duplicate entry 'x' for key 'accounts.email'"
	if !strings.Contains(msg, "duplicate entry") {
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
