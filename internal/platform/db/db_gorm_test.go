package db

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type probe struct {
	ID   uint `gorm:"primaryKey"`
	Name string
}

// TestNewOpener_Drivers verifies driver selection.
func TestNewOpener_Drivers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		driver  string
		wantErr bool
	}{
		{DriverSQLite, false},
		{DriverPostgres, false},
		{"mysql", true},
		{"", true},
	}

	for _, tt := range tests {
		t.Run(tt.driver, func(t *testing.T) {
			opener, err := NewOpener(tt.driver)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, opener)
				return
			}
			assert.NoError(t, err)
			assert.NotNil(t, opener)
		})
	}
}

// TestConnectWithRetry_SuccessOnFirstTry verifies the DB is returned without retrying.
func TestConnectWithRetry_SuccessOnFirstTry(t *testing.T) {
	t.Parallel()

	mockDB := &gorm.DB{}
	attempts := 0
	opener := func(dsn string) (*gorm.DB, error) {
		attempts++
		assert.Equal(t, "test-dsn", dsn)
		return mockDB, nil
	}

	db, err := ConnectWithRetry("test-dsn", 5*time.Second, opener)

	require.NoError(t, err)
	assert.Same(t, mockDB, db)
	assert.Equal(t, 1, attempts)
}

// TestConnectWithRetry_RetriesOnFailure verifies a transient failure is retried.
func TestConnectWithRetry_RetriesOnFailure(t *testing.T) {
	// Not parallel: waits one retry interval.
	mockDB := &gorm.DB{}
	attempts := 0
	opener := func(dsn string) (*gorm.DB, error) {
		attempts++
		if attempts < 2 {
			return nil, errors.New("connection refused")
		}
		return mockDB, nil
	}

	db, err := ConnectWithRetry("test-dsn", 5*time.Second, opener)

	require.NoError(t, err)
	assert.Same(t, mockDB, db)
	assert.Equal(t, 2, attempts)
}

// TestConnectWithRetry_Timeout verifies the last error is returned once the deadline passes.
func TestConnectWithRetry_Timeout(t *testing.T) {
	t.Parallel()

	attempts := 0
	opener := func(dsn string) (*gorm.DB, error) {
		attempts++
		return nil, errors.New("connection refused")
	}

	_, err := ConnectWithRetry("test-dsn", 100*time.Millisecond, opener)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
	assert.Equal(t, 1, attempts)
}

// TestOpenDB_SQLiteMemory verifies the sqlite path connects and migrates.
func TestOpenDB_SQLiteMemory(t *testing.T) {
	t.Parallel()

	db, err := OpenDB(Config{Driver: DriverSQLite, DSN: ":memory:", ConnectTimeout: time.Second, MaxOpenConns: 1}, &probe{})
	require.NoError(t, err)

	require.NoError(t, db.Create(&probe{Name: "x"}).Error)
	var n int64
	require.NoError(t, db.Model(&probe{}).Count(&n).Error)
	assert.Equal(t, int64(1), n)
}

func TestOpenDB_UnknownDriver(t *testing.T) {
	t.Parallel()

	_, err := OpenDB(Config{Driver: "oracle", DSN: "x"})
	assert.Error(t, err)
}
