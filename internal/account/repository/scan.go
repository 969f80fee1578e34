package repository

import (
	"database/sql"

	"github.com/shinobitiger310/TCSS460-Group7-Credential-API-sub000/internal/account/domain"
	apperrors "github.com/shinobitiger310/TCSS460-Group7-Credential-API-sub000/internal/errors"
)

// rowScanner matches both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanAccount reads one row in accountColumns order.
func scanAccount(row rowScanner) (*domain.Account, error) {
	var (
		account   domain.Account
		phone     sql.NullString
		role      int
		status    string
		deletedAt sql.NullTime
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
	)
	if err != nil {
		return nil, err
	}

	account.Phone = phone.String
	account.Role = domain.Role(role)
	account.Status = domain.Status(status)
	if deletedAt.Valid {
		t := deletedAt.Time
		account.DeletedAt = &t
	}
	return &account, nil
}

func collectAccounts(rows *sql.Rows) ([]*domain.Account, error) {
	accounts := make([]*domain.Account, 0)
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan account")
		}
		accounts = append(accounts, account)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate accounts")
	}
	return accounts, nil
}

// nullableString stores empty strings as NULL so optional unique columns
// (phone) don't collide on the empty value.
func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func likePattern(s string) string {
	return "%" + s + "%"
}

// searchColumns maps API field names to their columns. Unknown names are
// skipped; an empty or fully unknown set searches all four columns.
func searchColumns(fields []string) []string {
	byName := map[string]string{
		"firstname": "first_name",
		"lastname":  "last_name",
		"username":  "username",
		"email":     "email",
	}
	columns := make([]string, 0, len(fields))
	for _, field := range fields {
		if column, ok := byName[field]; ok {
			columns = append(columns, column)
		}
	}
	if len(columns) == 0 {
		return []string{"email", "username", "first_name", "last_name"}
	}
	return columns
}
