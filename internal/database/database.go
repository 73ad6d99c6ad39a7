package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
)

// DB owns the single connection to the SQLite store. All repositories are
// methods on this type; the connection pool is capped at one so the store
// serializes every read-check-then-write sequence.
type DB struct {
	*sql.DB
	path      string
	logger    *zerolog.Logger
	closeOnce sync.Once
}

func NewDB(path string, logger *zerolog.Logger) (*DB, error) {
	if path != ":memory:" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	conn, err := sql.Open("sqlite3", path+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Single connection, single in-flight transaction.
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db := &DB{DB: conn, path: path, logger: logger}
	if err := db.createTables(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	logger.Info().Str("path", path).Msg("database initialized")
	return db, nil
}

func (db *DB) createTables() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS customers (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            last_name TEXT NOT NULL,
            first_name TEXT NOT NULL,
            email TEXT UNIQUE NOT NULL,
            phone TEXT,
            city TEXT,
            created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
        )`,
		`CREATE TABLE IF NOT EXISTS resources (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            name TEXT NOT NULL,
            kind TEXT NOT NULL DEFAULT 'product' CHECK(kind IN ('product', 'space')),
            category TEXT,
            unit_price NUMERIC NOT NULL CHECK(unit_price > 0),
            stock INTEGER NOT NULL DEFAULT 0 CHECK(stock >= 0),
            capacity INTEGER NOT NULL DEFAULT 0,
            created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
        )`,
		`CREATE TABLE IF NOT EXISTS transactions (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            customer_id INTEGER NOT NULL,
            resource_id INTEGER NOT NULL,
            quantity INTEGER NOT NULL CHECK(quantity > 0),
            unit_price NUMERIC NOT NULL CHECK(unit_price > 0),
            total_amount NUMERIC NOT NULL,
            recorded_at DATETIME NOT NULL,
            start_hour INTEGER NOT NULL DEFAULT 0,
            status TEXT NOT NULL DEFAULT 'confirmed'
                CHECK(status IN ('confirmed', 'pending', 'cancelled', 'completed')),
            FOREIGN KEY (customer_id) REFERENCES customers(id),
            FOREIGN KEY (resource_id) REFERENCES resources(id)
        )`,

		`CREATE INDEX IF NOT EXISTS idx_customers_email ON customers(email)`,
		`CREATE INDEX IF NOT EXISTS idx_resources_category ON resources(category)`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_customer_id ON transactions(customer_id)`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_resource_id ON transactions(resource_id)`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_recorded_at ON transactions(recorded_at)`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_status ON transactions(status)`,
	}

	for _, query := range queries {
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("error executing query %s: %w", query, err)
		}
	}
	return nil
}

// RunInTransaction executes fn inside a single transaction: commit on nil
// error, rollback otherwise. The original error from fn is returned
// unchanged so callers can branch on it.
func (db *DB) RunInTransaction(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Close releases the connection. Safe to call more than once.
func (db *DB) Close() error {
	var err error
	db.closeOnce.Do(func() {
		err = db.DB.Close()
	})
	return err
}
