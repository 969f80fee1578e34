package repository

import (
	"github.com/shinobitiger310/TCSS460-Group7-Credential-API-sub000/internal/verification/domain"
)

// rowScanner matches both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanEmailVerification(row rowScanner) (*domain.EmailVerification, error) {
	var verification domain.EmailVerification
	err := row.Scan(
		&verification.ID,
		&verification.AccountID,
		&verification.Token,
		&verification.ExpiresAt,
		&verification.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &verification, nil
}

func scanPhoneVerification(row rowScanner) (*domain.PhoneVerification, error) {
	var verification domain.PhoneVerification
	err := row.Scan(
		&verification.ID,
		&verification.AccountID,
		&verification.Code,
		&verification.Attempts,
		&verification.ExpiresAt,
		&verification.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &verification, nil
}
