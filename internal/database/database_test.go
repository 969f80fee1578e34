package database

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnect(t *testing.T) {
	db, _, err := sqlmock.NewWithDSN("connect_test_dsn")
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	connected, err := Connect(Config{
		Driver:             "sqlmock",
		ConnectionString:   "connect_test_dsn",
		MaxOpenConnections: 10,
		MaxIdleConnections: 5,
		ConnMaxLifetime:    time.Hour,
	})
	assert.NoError(t, err)
	require.NotNil(t, connected)
	defer func() { _ = connected.Close() }()

	stats := connected.Stats()
	assert.Equal(t, 10, stats.MaxOpenConnections)
}

func TestConnect_UnknownDriver(t *testing.T) {
	db, err := Connect(Config{
		Driver:             "invalid",
		ConnectionString:   "invalid",
		MaxOpenConnections: 10,
		MaxIdleConnections: 5,
		ConnMaxLifetime:    time.Hour,
	})
	assert.Error(t, err)
	assert.Nil(t, db)
	assert.Contains(t, err.Error(), "sql: unknown driver")
}
