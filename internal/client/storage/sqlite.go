package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/avdeyev/SettlementKeeper/internal/errors"
	"github.com/avdeyev/SettlementKeeper/internal/models"
)

const documentKey = "document"

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS documents (
    key TEXT PRIMARY KEY,
    value BLOB NOT NULL,
    updated_at INTEGER NOT NULL
);
`

// SQLiteBackend persists the document as a single row in a sqlite
// key/value table. It is the sturdier alternative to FileBackend for
// devices where a half-written JSON file would be fatal.
type SQLiteBackend struct {
	db *sql.DB
}

// NewSQLiteBackend opens (and if needed creates) the database at path.
func NewSQLiteBackend(path string) (*SQLiteBackend, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &SQLiteBackend{db: db}, nil
}

func (b *SQLiteBackend) LoadRaw() (any, error) {
	var value []byte
	err := b.db.QueryRow(`SELECT value FROM documents WHERE key = ?`, documentKey).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load document: %w", err)
	}
	var raw any
	if err := json.Unmarshal(value, &raw); err != nil {
		return nil, errors.NewUnrecoverableFormat("persisted row is not valid JSON")
	}
	return raw, nil
}

func (b *SQLiteBackend) Save(doc *models.Document) error {
	value, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	_, err = b.db.Exec(`
		INSERT INTO documents (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, documentKey, value, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("save document: %w", err)
	}
	return nil
}

func (b *SQLiteBackend) Close() error {
	return b.db.Close()
}
