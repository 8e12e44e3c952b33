package database_test

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"employeehub/internal/pkg/database"
)

func TestSetup_AppliesPoolSettings(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectPing()

	require.NoError(t, database.Setup(context.Background(), db))
	assert.Equal(t, database.MaxOpenConns, db.Stats().MaxOpenConnections)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetup_PingFailure(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectPing().WillReturnError(errors.New("connection refused"))

	err = database.Setup(context.Background(), db)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed initial DB ping")
	assert.Contains(t, err.Error(), "connection refused")
}
