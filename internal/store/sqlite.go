package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/sk-py/maildraft/internal/model"
)

// collectionKey is the fixed key the whole record collection is stored
// under.
const collectionKey = "emails"

// SQLiteBackend implements Backend on a local SQLite database. The
// collection lives as a single JSON value in a key-value table, so a
// save is always a whole-collection replacement.
type SQLiteBackend struct {
	db *sqlx.DB
}

// NewSQLiteBackend opens (or creates) a SQLite database at dbPath,
// enables WAL mode, and creates the schema if needed.
func NewSQLiteBackend(dbPath string) (*SQLiteBackend, error) {
	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS kv (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating kv table: %w", err)
	}

	return &SQLiteBackend{db: db}, nil
}

// Load reads the collection stored under the fixed key. A missing row
// yields an empty collection.
func (b *SQLiteBackend) Load(ctx context.Context) ([]model.MailRecord, error) {
	var value string
	err := b.db.GetContext(ctx, &value,
		"SELECT value FROM kv WHERE key = ?", collectionKey)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %q: %w", collectionKey, err)
	}

	var records []model.MailRecord
	if err := json.Unmarshal([]byte(value), &records); err != nil {
		return nil, fmt.Errorf("decoding %q: %w", collectionKey, err)
	}
	return records, nil
}

// Save replaces the stored collection with the given records.
func (b *SQLiteBackend) Save(ctx context.Context, records []model.MailRecord) error {
	if records == nil {
		records = []model.MailRecord{}
	}
	value, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encoding %q: %w", collectionKey, err)
	}

	_, err = b.db.ExecContext(ctx, `
		INSERT INTO kv (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		collectionKey, string(value),
	)
	if err != nil {
		return fmt.Errorf("writing %q: %w", collectionKey, err)
	}
	return nil
}

// Close closes the underlying database connection.
func (b *SQLiteBackend) Close() error {
	return b.db.Close()
}
