package domain

import (
	apperrors "github.com/shinobitiger310/TCSS460-Group7-Credential-API-sub000/internal/errors"
)

// ErrSignatureInvalid indicates an entry whose stored signature does not
// match its recomputed one.
var ErrSignatureInvalid = apperrors.New("audit entry signature invalid")
