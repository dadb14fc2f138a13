// Reelgate - Subscription Video Backend
// Copyright 2026 Reelgate Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelgate/reelgate

// Package database is the transactional Data Store Gateway. It wraps an
// embedded DuckDB database and exposes the domain operations: customer
// directory, session admission, subscription management, watch history,
// search, and the recommendation candidate queries. Every mutating operation
// runs inside a single transaction, committed on success and rolled back on
// any failure.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"

	"github.com/reelgate/reelgate/internal/config"
	"github.com/reelgate/reelgate/internal/logging"
)

// DB wraps the DuckDB connection and provides data access methods
type DB struct {
	conn *sql.DB
	cfg  *config.DatabaseConfig

	// Per-customer write locks serializing the sign-in check-then-increment.
	// DuckDB has no row-level SELECT FOR UPDATE, so concurrent sign-ins for
	// the same account are serialized in-process; the conditional UPDATE
	// keeps the session cap correct even across processes.
	customerLocks sync.Map
}

// New creates a new database connection and initializes the schema
func New(cfg *config.DatabaseConfig) (*DB, error) {
	numThreads := cfg.Threads
	if numThreads <= 0 {
		numThreads = runtime.NumCPU()
	}

	// Ensure parent directory exists for database file
	// Use 0750 permissions (owner: rwx, group: rx, other: none) per gosec G301
	if cfg.Path != ":memory:" {
		dbDir := filepath.Dir(cfg.Path)
		if dbDir != "" && dbDir != "." {
			if err := os.MkdirAll(dbDir, 0o750); err != nil {
				return nil, fmt.Errorf("failed to create database directory %s: %w", dbDir, err)
			}
		}
	}

	// Disable auto-install/auto-load of extensions to prevent hangs in
	// restricted network environments; nothing here needs them.
	connStr := fmt.Sprintf("%s?access_mode=read_write&threads=%d&max_memory=%s&autoinstall_known_extensions=false&autoload_known_extensions=false",
		cfg.Path, numThreads, cfg.MaxMemory)

	conn, err := sql.Open("duckdb", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db := &DB{
		conn: conn,
		cfg:  cfg,
	}

	if err := db.configureConnectionPool(); err != nil {
		closeQuietly(conn)
		return nil, fmt.Errorf("failed to configure connection pool: %w", err)
	}

	if err := db.initialize(); err != nil {
		closeQuietly(conn)
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return db, nil
}

// configureConnectionPool sets connection pool parameters
func (db *DB) configureConnectionPool() error {
	db.conn.SetMaxOpenConns(runtime.NumCPU())
	db.conn.SetMaxIdleConns(2)
	db.conn.SetConnMaxLifetime(time.Hour)
	db.conn.SetConnMaxIdleTime(5 * time.Minute)
	return nil
}

// initialize creates tables, indexes, and reference data
func (db *DB) initialize() error {
	if err := db.createTables(); err != nil {
		return err
	}

	if err := db.createIndexes(); err != nil {
		return err
	}

	if err := db.seedPlans(); err != nil {
		return err
	}

	if db.cfg != nil && db.cfg.SeedSampleCatalog {
		if err := db.SeedSampleCatalog(context.Background()); err != nil {
			logging.Warn().Err(err).Msg("Failed to seed sample catalog")
		}
	}

	return nil
}

// Conn returns the underlying SQL database connection.
// This is used by packages that need direct database access, such as the
// recommendation engine's candidate sources.
func (db *DB) Conn() *sql.DB {
	return db.conn
}

// Checkpoint flushes the write-ahead log into the main database file.
// Called periodically by the storage maintenance service so crash recovery
// never replays a long WAL.
func (db *DB) Checkpoint(ctx context.Context) error {
	if _, err := db.conn.ExecContext(ctx, "CHECKPOINT"); err != nil {
		return fmt.Errorf("failed to checkpoint database: %w", err)
	}
	return nil
}

// Close closes the database connection. A CHECKPOINT is forced first to flush
// the WAL to the main database file so the next startup replays nothing.
func (db *DB) Close() error {
	if db.conn == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if _, err := db.conn.ExecContext(ctx, "CHECKPOINT"); err != nil {
		// Best effort - the WAL replays on next open if this fails
		logging.Warn().Err(err).Msg("Failed to checkpoint database before close")
	}

	return db.conn.Close()
}

// Ping checks if the database connection is alive
func (db *DB) Ping(ctx context.Context) error {
	if db.conn == nil {
		return fmt.Errorf("database connection is nil")
	}
	return db.conn.PingContext(ctx)
}

// acquireCustomerLock acquires a per-customer mutex lock
func (db *DB) acquireCustomerLock(customerID string) *sync.Mutex {
	muInterface, _ := db.customerLocks.LoadOrStore(customerID, &sync.Mutex{})
	mu, ok := muInterface.(*sync.Mutex)
	if !ok {
		mu = &sync.Mutex{}
		db.customerLocks.Store(customerID, mu)
	}
	mu.Lock()
	return mu
}

// releaseCustomerLock releases the per-customer mutex lock
func (db *DB) releaseCustomerLock(mu *sync.Mutex) {
	mu.Unlock()
}
