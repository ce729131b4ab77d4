package db

import (
	"fmt"
	"log/slog"
	"strings"

	_ "github.com/glebarez/go-sqlite"
	"github.com/jmoiron/sqlx"
)

// MemoryDSN opens a private in-memory database.
const MemoryDSN = ":memory:"

// Connect opens the SQLite database at dsn and verifies the connection.
// Foreign keys and a busy timeout are enabled on every pooled connection, and
// transactions take the write lock at BEGIN so concurrent writers queue on
// busy_timeout instead of failing on lock upgrade.
func Connect(dsn string) (*sqlx.DB, error) {
	pool, err := sqlx.Open("sqlite", withPragmas(dsn))
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	// Each connection to :memory: is a separate database.
	if strings.HasPrefix(dsn, MemoryDSN) {
		pool.SetMaxOpenConns(1)
	}

	if err := pool.Ping(); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return pool, nil
}

func withPragmas(dsn string) string {
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_txlock=immediate"
}

// InitializeDB creates the readers and books tables if they do not exist.
func InitializeDB(db *sqlx.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS readers (
		id TEXT NOT NULL PRIMARY KEY,
		username TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		fullname TEXT NOT NULL DEFAULT '',
		password_hash TEXT NOT NULL,
		books TEXT NOT NULL DEFAULT '[]'
	);

	CREATE TABLE IF NOT EXISTS books (
		id TEXT NOT NULL PRIMARY KEY,
		user_id TEXT NOT NULL REFERENCES readers(id),
		title TEXT NOT NULL,
		author TEXT NOT NULL,
		comment TEXT NOT NULL DEFAULT '',
		done BOOLEAN NOT NULL DEFAULT 0,
		started_at DATETIME NOT NULL,
		finished_at DATETIME
	);

	CREATE INDEX IF NOT EXISTS idx_books_user_id ON books(user_id);`

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	slog.Debug("DB schema verified")
	return nil
}

// Open connects to dsn and ensures the schema exists.
func Open(dsn string) (*sqlx.DB, error) {
	pool, err := Connect(dsn)
	if err != nil {
		return nil, err
	}
	if err := InitializeDB(pool); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}
