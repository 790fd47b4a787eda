// SPDX-FileCopyrightText: 2025 Jon Thor Kristinsson
// SPDX-License-Identifier: Apache-2.0

// Package pool provides database connection pooling for the reservation service.
package pool

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	_ "github.com/lib/pq"

	"github.com/jontk/reservation/pkg/logging"
)

// PoolConfig holds configuration for the database connection pool.
type PoolConfig struct {
	// MaxConnections caps the number of open connections to the
	// database.
	MaxConnections int

	// MaxIdleConnections caps how many idle connections are kept warm.
	MaxIdleConnections int

	// ConnMaxLifetime recycles a connection after it has been open this
	// long, regardless of idle state.
	ConnMaxLifetime time.Duration

	// ConnMaxIdleTime closes a connection that has been idle this long.
	ConnMaxIdleTime time.Duration
}

// DefaultPoolConfig returns a pool configuration with a default of 5
// max connections.
func DefaultPoolConfig() *PoolConfig {
	return &PoolConfig{
		MaxConnections:     5,
		MaxIdleConnections: 5,
		ConnMaxLifetime:    30 * time.Minute,
		ConnMaxIdleTime:    5 * time.Minute,
	}
}

// DB wraps a *sql.DB with usage statistics and a health-check routine,
// presenting a single pooled database handle shared by every
// reservation-manager operation.
type DB struct {
	sqlDB   *sql.DB
	config  *PoolConfig
	logger  logging.Logger
	created time.Time

	mu       sync.RWMutex
	useCount int64
}

// Open creates the pool and applies the configured limits to the
// underlying *sql.DB. It does not itself verify connectivity; callers
// that need a fail-fast startup check should call Ping.
func Open(dsn string, config *PoolConfig, logger logging.Logger) (*DB, error) {
	if config == nil {
		config = DefaultPoolConfig()
	}
	if logger == nil {
		logger = logging.NoOpLogger{}
	}

	sqlDB, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	sqlDB.SetMaxOpenConns(config.MaxConnections)
	sqlDB.SetMaxIdleConns(config.MaxIdleConnections)
	sqlDB.SetConnMaxLifetime(config.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(config.ConnMaxIdleTime)

	return &DB{
		sqlDB:   sqlDB,
		config:  config,
		logger:  logger,
		created: time.Now(),
	}, nil
}

// Ping verifies the pool can reach the database, used at startup to
// fail fast rather than on the first client request.
func (p *DB) Ping(ctx context.Context) error {
	return p.sqlDB.PingContext(ctx)
}

// Conn returns the underlying *sql.DB for use by the reservation
// manager. database/sql already pools connections
// internally; this wrapper exists to apply limits uniformly and track
// usage/health centrally.
func (p *DB) Conn() *sql.DB {
	atomic.AddInt64(&p.useCount, 1)
	return p.sqlDB
}

// Stats returns statistics about the pool.
func (p *DB) Stats() PoolStats {
	dbStats := p.sqlDB.Stats()
	return PoolStats{
		Created:        p.created,
		UseCount:       atomic.LoadInt64(&p.useCount),
		OpenConns:      dbStats.OpenConnections,
		InUseConns:     dbStats.InUse,
		IdleConns:      dbStats.Idle,
		WaitCount:      dbStats.WaitCount,
		WaitDuration:   dbStats.WaitDuration,
		MaxOpenConns:   dbStats.MaxOpenConnections,
	}
}

// Close closes the pool.
func (p *DB) Close() error {
	p.logger.Info("closing database connection pool")
	return p.sqlDB.Close()
}

// PoolStats contains statistics about the connection pool.
type PoolStats struct {
	Created        time.Time
	UseCount       int64
	OpenConns      int
	InUseConns     int
	IdleConns      int
	WaitCount      int64
	WaitDuration   time.Duration
	MaxOpenConns   int
}

// HealthCheckFunc reports whether the pool is currently healthy.
type HealthCheckFunc func(ctx context.Context, db *DB) error

// ConnectionManager runs a periodic health check against the pool, a
// liveness probe suited to a long-lived database pool.
type ConnectionManager struct {
	pool            *DB
	healthCheckFunc HealthCheckFunc
	checkInterval   time.Duration
	ctx             context.Context
	cancel          context.CancelFunc
	wg              sync.WaitGroup
	logger          logging.Logger

	mu      sync.RWMutex
	healthy bool
}

// NewConnectionManager creates a connection manager for pool. A nil
// healthCheckFunc defaults to DB.Ping.
func NewConnectionManager(pool *DB, healthCheckFunc HealthCheckFunc, logger logging.Logger) *ConnectionManager {
	ctx, cancel := context.WithCancel(context.Background())

	if logger == nil {
		logger = logging.NoOpLogger{}
	}
	if healthCheckFunc == nil {
		healthCheckFunc = func(ctx context.Context, db *DB) error {
			return db.Ping(ctx)
		}
	}

	return &ConnectionManager{
		pool:            pool,
		healthCheckFunc: healthCheckFunc,
		checkInterval:   30 * time.Second,
		ctx:             ctx,
		cancel:          cancel,
		logger:          logger,
		healthy:         true,
	}
}

// Start begins the periodic health-check routine.
func (cm *ConnectionManager) Start() {
	cm.wg.Add(1)
	go cm.healthCheckRoutine()
}

// Stop stops the health-check routine and waits for it to exit.
func (cm *ConnectionManager) Stop() {
	cm.cancel()
	cm.wg.Wait()
}

func (cm *ConnectionManager) healthCheckRoutine() {
	defer cm.wg.Done()

	ticker := time.NewTicker(cm.checkInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			err := cm.healthCheckFunc(cm.ctx, cm.pool)
			cm.mu.Lock()
			cm.healthy = err == nil
			cm.mu.Unlock()
			if err != nil {
				cm.logger.Warn("database health check failed", "error", err)
			}
		case <-cm.ctx.Done():
			return
		}
	}
}

// Healthy reports the result of the most recent health check.
func (cm *ConnectionManager) Healthy() bool {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return cm.healthy
}
