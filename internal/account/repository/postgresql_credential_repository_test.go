package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shinobitiger310/TCSS460-Group7-Credential-API-sub000/internal/account/domain"
	"github.com/shinobitiger310/TCSS460-Group7-Credential-API-sub000/internal/testutil"
)

func TestPostgreSQLCredentialRepository_SetAndGet(t *testing.T) {
	db := testutil.SetupPostgresDB(t)
	defer testutil.TeardownDB(t, db)
	defer testutil.CleanupPostgresDB(t, db)

	repo := NewPostgreSQLCredentialRepository(db)
	ctx := context.Background()

	accountID := testutil.CreateTestAccount(t, db, "postgres", "holly@example.com")

	err := repo.Set(ctx, accountID, "aabbccdd", "digest-one")
	assert.NoError(t, err)

	credential, err := repo.Get(ctx, accountID)
	assert.NoError(t, err)
	assert.Equal(t, accountID, credential.AccountID)
	assert.Equal(t, "aabbccdd", credential.Salt)
	assert.Equal(t, "digest-one", credential.Hash)
	assert.False(t, credential.UpdatedAt.IsZero())

	// Set is an upsert: a second call replaces the stored digest.
	err = repo.Set(ctx, accountID, "eeff0011", "digest-two")
	assert.NoError(t, err)

	credential, err = repo.Get(ctx, accountID)
	require.NoError(t, err)
	assert.Equal(t, "eeff0011", credential.Salt)
	assert.Equal(t, "digest-two", credential.Hash)
}

func TestPostgreSQLCredentialRepository_Set_TouchesAccount(t *testing.T) {
	db := testutil.SetupPostgresDB(t)
	defer testutil.TeardownDB(t, db)
	defer testutil.CleanupPostgresDB(t, db)

	repo := NewPostgreSQLCredentialRepository(db)
	ctx := context.Background()

	accountID := testutil.CreateTestAccount(t, db, "postgres", "jane@example.com")

	stale := time.Now().Add(-time.Hour)
	_, err := db.ExecContext(ctx,
		`UPDATE accounts SET updated_at = $1 WHERE id = $2`, stale, accountID)
	require.NoError(t, err)

	err = repo.Set(ctx, accountID, "aabbccdd", "digest")
	require.NoError(t, err)

	var updatedAt time.Time
	err = db.QueryRowContext(ctx,
		`SELECT updated_at FROM accounts WHERE id = $1`, accountID).Scan(&updatedAt)
	require.NoError(t, err)
	assert.True(t, updatedAt.After(stale), "account updated_at must move with a credential change")
}

func TestPostgreSQLCredentialRepository_Get_NotFound(t *testing.T) {
	db := testutil.SetupPostgresDB(t)
	defer testutil.TeardownDB(t, db)
	defer testutil.CleanupPostgresDB(t, db)

	repo := NewPostgreSQLCredentialRepository(db)

	credential, err := repo.Get(context.Background(), 999999)
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)
	assert.Nil(t, credential)
}

func TestPostgreSQLCredentialRepository_GetByAccountEmail(t *testing.T) {
	db := testutil.SetupPostgresDB(t)
	defer testutil.TeardownDB(t, db)
	defer testutil.CleanupPostgresDB(t, db)

	repo := NewPostgreSQLCredentialRepository(db)
	ctx := context.Background()

	accountID := testutil.CreateTestAccount(t, db, "postgres", "iris@example.com")
	testutil.CreateTestCredential(t, db, "postgres", accountID, "00112233", "digest")

	account, credential, err := repo.GetByAccountEmail(ctx, "iris@example.com")
	assert.NoError(t, err)
	assert.Equal(t, accountID, account.ID)
	assert.Equal(t, "iris@example.com", account.Email)
	assert.Equal(t, accountID, credential.AccountID)
	assert.Equal(t, "00112233", credential.Salt)
	assert.Equal(t, "digest", credential.Hash)

	// An account without a stored credential does not match the join.
	testutil.CreateTestAccount(t, db, "postgres", "orphan@example.com")
	_, _, err = repo.GetByAccountEmail(ctx, "orphan@example.com")
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)

	_, _, err = repo.GetByAccountEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)
}
