package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"swapBook/internal/ports"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// Store implements ports.EventStream and ports.ReadModelStore on a single
// SQLite database. The append-only event log, the denormalized trade
// table and the projection cursor share one file so that the cursor can
// advance in the same transaction as the read-model write.
type Store struct {
	db       *sql.DB
	logger   ports.Logger
	appended chan struct{}
}

// Config holds configuration for the SQLite store.
type Config struct {
	DBPath string
	Logger ports.Logger
}

// New opens the database at the configured path (creating it if needed)
// and bootstraps the schema.
func New(cfg Config) (*Store, error) {
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required for SQLite store")
	}
	dbPath := cfg.DBPath
	if dbPath == "" {
		dbPath = "./data/trade_store.db" // Default path
	}

	// Create data directory if it doesn't exist
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		err = fmt.Errorf("failed to create data directory '%s': %w", filepath.Dir(dbPath), err)
		cfg.Logger.Error(context.Background(), err, "SQLite store initialization failed")
		return nil, err
	}

	// Open database connection
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000") // WAL mode for better concurrency
	if err != nil {
		err = fmt.Errorf("failed to open database at '%s': %w", dbPath, err)
		cfg.Logger.Error(context.Background(), err, "SQLite store initialization failed")
		return nil, err
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		db.Close() // Close the connection if ping fails
		err = fmt.Errorf("failed to ping database at '%s': %w", dbPath, err)
		cfg.Logger.Error(context.Background(), err, "SQLite store initialization failed")
		return nil, err
	}

	// Set connection pool settings (important for SQLite)
	db.SetMaxOpenConns(1) // SQLite handles concurrency internally, but Go driver benefits from limiting connections
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	cfg.Logger.Info(context.Background(), "SQLite database connection established", map[string]interface{}{"path": dbPath})

	store := &Store{
		db:       db,
		logger:   cfg.Logger,
		appended: make(chan struct{}, 1),
	}

	if err := store.initializeSchema(context.Background()); err != nil {
		db.Close()
		err = fmt.Errorf("failed to initialize database schema: %w", err)
		cfg.Logger.Error(context.Background(), err, "SQLite store initialization failed")
		return nil, err
	}
	cfg.Logger.Info(context.Background(), "Database schema initialized/verified")

	return store, nil
}

// initializeSchema creates tables if they don't exist.
// NOTE: This is a basic approach. A proper migration tool is recommended for production.
func (s *Store) initializeSchema(ctx context.Context) error {
	const schema = `
	CREATE TABLE IF NOT EXISTS trade_events (
		stream_id   TEXT NOT NULL,
		version     INTEGER NOT NULL,
		kind        TEXT NOT NULL,
		payload     TEXT NOT NULL,
		actor_id    TEXT NOT NULL,
		occurred_at TIMESTAMP NOT NULL,
		PRIMARY KEY (stream_id, version)
	);

	CREATE TABLE IF NOT EXISTS trades (
		id                  TEXT PRIMARY KEY,
		counterparty        TEXT NOT NULL,
		effective_date      TIMESTAMP NOT NULL,
		maturity_date       TIMESTAMP NOT NULL,
		notional_amount     TEXT NOT NULL,
		notional_currency   TEXT NOT NULL,
		trade_date          TIMESTAMP NOT NULL,
		booked_by           TEXT NOT NULL,
		npv                 TEXT DEFAULT NULL,
		is_cancelled        INTEGER NOT NULL DEFAULT 0,
		cancellation_reason TEXT DEFAULT NULL,
		created_at          TIMESTAMP NOT NULL,
		updated_at          TIMESTAMP NOT NULL,
		leg1                TEXT DEFAULT NULL,
		leg2                TEXT DEFAULT NULL
	);

	CREATE TABLE IF NOT EXISTS projection_cursor (
		stream_id    TEXT PRIMARY KEY,
		last_version INTEGER NOT NULL
	);
	-- Add indexes for common lookups
	CREATE INDEX IF NOT EXISTS idx_trades_booked_by ON trades (booked_by, is_cancelled);
	CREATE INDEX IF NOT EXISTS idx_trades_trade_date ON trades (trade_date);
	`
	_, err := s.db.ExecContext(ctx, schema)
	if err != nil {
		return fmt.Errorf("failed to execute schema initialization: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		s.logger.Info(context.Background(), "Closing SQLite database connection")
		return s.db.Close()
	}
	return nil
}
