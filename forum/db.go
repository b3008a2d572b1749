// forum/db.go
package forum

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "modernc.org/sqlite"
)

// The Postgres slot table. value is the whole serialized collection.
const pgSchema = `
CREATE TABLE IF NOT EXISTS storage_slots (
    key TEXT PRIMARY KEY,
    value JSONB NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS storage_slots (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL,
    updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);
`

// PostgresBackend stores the slot as a row in Postgres.
type PostgresBackend struct {
	pool *pgxpool.Pool
	key  string
}

func NewPostgresBackend(ctx context.Context, connectionString string) (*PostgresBackend, error) {
	pool, err := pgxpool.New(ctx, connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	b := &PostgresBackend{pool: pool, key: SlotKey}
	if err := b.CreateTables(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return b, nil
}

func (b *PostgresBackend) CreateTables(ctx context.Context) error {
	if _, err := b.pool.Exec(ctx, pgSchema); err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}
	return nil
}

func (b *PostgresBackend) Load(ctx context.Context) ([]byte, error) {
	var value string
	query := `SELECT value::text FROM storage_slots WHERE key = $1`
	err := b.pool.QueryRow(ctx, query, b.key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load slot %s: %w", b.key, err)
	}
	return []byte(value), nil
}

func (b *PostgresBackend) Save(ctx context.Context, data []byte) error {
	query := `
        INSERT INTO storage_slots (key, value, updated_at)
        VALUES ($1, $2::jsonb, NOW())
        ON CONFLICT (key) DO UPDATE SET
            value = EXCLUDED.value,
            updated_at = EXCLUDED.updated_at;
    `
	if _, err := b.pool.Exec(ctx, query, b.key, string(data)); err != nil {
		return fmt.Errorf("failed to save slot %s: %w", b.key, err)
	}
	return nil
}

func (b *PostgresBackend) Close() error {
	b.pool.Close()
	return nil
}

// SQLiteBackend stores the slot as a row in a local SQLite file.
type SQLiteBackend struct {
	db  *sql.DB
	key string
}

// NewSQLiteBackend opens path, which may be ":memory:".
func NewSQLiteBackend(path string) (*SQLiteBackend, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// every connection to ":memory:" is a separate database
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	return &SQLiteBackend{db: db, key: SlotKey}, nil
}

func (b *SQLiteBackend) Load(ctx context.Context) ([]byte, error) {
	var value string
	err := b.db.QueryRowContext(ctx, `SELECT value FROM storage_slots WHERE key = ?`, b.key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load slot %s: %w", b.key, err)
	}
	return []byte(value), nil
}

func (b *SQLiteBackend) Save(ctx context.Context, data []byte) error {
	query := `
        INSERT INTO storage_slots (key, value, updated_at)
        VALUES (?, ?, CURRENT_TIMESTAMP)
        ON CONFLICT (key) DO UPDATE SET
            value = excluded.value,
            updated_at = excluded.updated_at;
    `
	if _, err := b.db.ExecContext(ctx, query, b.key, string(data)); err != nil {
		return fmt.Errorf("failed to save slot %s: %w", b.key, err)
	}
	return nil
}

func (b *SQLiteBackend) Close() error {
	return b.db.Close()
}
