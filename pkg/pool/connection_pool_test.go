// SPDX-FileCopyrightText: 2025 Jon Thor Kristinsson
// SPDX-License-Identifier: Apache-2.0

package pool

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jontk/reservation/pkg/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPoolConfig(t *testing.T) {
	config := DefaultPoolConfig()

	require.NotNil(t, config)
	assert.Equal(t, 5, config.MaxConnections)
	assert.Equal(t, 5, config.MaxIdleConnections)
	assert.Equal(t, 30*time.Minute, config.ConnMaxLifetime)
	assert.Equal(t, 5*time.Minute, config.ConnMaxIdleTime)
}

func TestOpenAppliesLimits(t *testing.T) {
	config := &PoolConfig{MaxConnections: 3, MaxIdleConnections: 2}
	db, err := Open("host=localhost port=5432 user=test dbname=test sslmode=disable", config, logging.NoOpLogger{})
	require.NoError(t, err)
	defer db.Close()

	stats := db.Stats()
	assert.Equal(t, 3, stats.MaxOpenConns)
	assert.Equal(t, int64(0), stats.UseCount)

	db.Conn()
	assert.Equal(t, int64(1), db.Stats().UseCount)
}

func TestConnectionManagerTracksHealthCheckResult(t *testing.T) {
	db, err := Open("host=localhost port=5432 user=test dbname=test sslmode=disable", nil, logging.NoOpLogger{})
	require.NoError(t, err)
	defer db.Close()

	calls := 0
	wantErr := errors.New("database unreachable")
	cm := NewConnectionManager(db, func(ctx context.Context, pool *DB) error {
		calls++
		if calls == 1 {
			return nil
		}
		return wantErr
	}, logging.NoOpLogger{})
	cm.checkInterval = 5 * time.Millisecond

	assert.True(t, cm.Healthy())

	cm.Start()
	defer cm.Stop()

	assert.Eventually(t, func() bool {
		return !cm.Healthy()
	}, 200*time.Millisecond, 5*time.Millisecond)
}

func TestConnectionManagerDefaultsToPing(t *testing.T) {
	db, err := Open("host=localhost port=5432 user=test dbname=test sslmode=disable", nil, logging.NoOpLogger{})
	require.NoError(t, err)
	defer db.Close()

	cm := NewConnectionManager(db, nil, logging.NoOpLogger{})
	assert.NotNil(t, cm)
}
