package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shinobitiger310/TCSS460-Group7-Credential-API-sub000/internal/audit/domain"
	"github.com/shinobitiger310/TCSS460-Group7-Credential-API-sub000/internal/testutil"
)

func TestMySQLRepository_CreateAndList(t *testing.T) {
	db := testutil.SetupMySQLDB(t)
	defer testutil.TeardownDB(t, db)
	defer testutil.CleanupMySQLDB(t, db)

	repo := NewMySQLRepository(db)
	ctx := context.Background()

	entry := newTestEntry(domain.ActionUserCreate, time.Now().UTC().Truncate(time.Microsecond))
	err := repo.Create(ctx, entry)
	assert.NoError(t, err)

	entries, err := repo.List(ctx, 0, 10, nil, nil)
	assert.NoError(t, err)
	require.Len(t, entries, 1)

	// UUIDs survive the BINARY(16) round trip.
	got := entries[0]
	assert.Equal(t, entry.ID, got.ID)
	assert.Equal(t, entry.RequestID, got.RequestID)
	assert.Equal(t, entry.ActorID, got.ActorID)
	assert.Equal(t, entry.TargetID, got.TargetID)
	assert.Equal(t, domain.ActionUserCreate, got.Action)
	assert.Equal(t, "Moderator", got.Metadata["role"])
	assert.Equal(t, []byte("test-signature"), got.Signature)
}

func TestMySQLRepository_Retention(t *testing.T) {
	db := testutil.SetupMySQLDB(t)
	defer testutil.TeardownDB(t, db)
	defer testutil.CleanupMySQLDB(t, db)

	repo := NewMySQLRepository(db)
	ctx := context.Background()

	old := newTestEntry(domain.ActionUserCreate, time.Now().UTC().Add(-48*time.Hour))
	recent := newTestEntry(domain.ActionUserUpdate, time.Now().UTC())
	require.NoError(t, repo.Create(ctx, old))
	require.NoError(t, repo.Create(ctx, recent))

	cutoff := time.Now().UTC().Add(-24 * time.Hour)

	count, err := repo.CountOlderThan(ctx, cutoff)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), count)

	deleted, err := repo.DeleteOlderThan(ctx, cutoff)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	entries, err := repo.List(ctx, 0, 10, nil, nil)
	assert.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, recent.ID, entries[0].ID)
}
