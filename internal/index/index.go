// Package index provides a SQLite-backed index of the latest generated
// item set. The serve-mode API and MCP tools query it instead of
// re-reading the generated JSON documents.
package index

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/emelz/wardrobe/internal/models"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS items (
	person       TEXT NOT NULL,
	id           TEXT NOT NULL,
	title        TEXT NOT NULL DEFAULT '',
	category     TEXT NOT NULL DEFAULT '',
	filename     TEXT NOT NULL DEFAULT '',
	slug         TEXT NOT NULL DEFAULT '',
	thumbnail    TEXT NOT NULL DEFAULT '',
	image        TEXT NOT NULL DEFAULT '',
	notes        TEXT NOT NULL DEFAULT '',
	tags         TEXT NOT NULL DEFAULT '[]',
	created_date INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (person, id)
);

CREATE INDEX IF NOT EXISTS idx_items_category ON items(person, category);
`

// ItemIndex defines the read/replace operations the API and MCP layers
// depend on. Consumers take this interface rather than *DB so tests can
// substitute fakes.
type ItemIndex interface {
	ReplaceAll(person string, items []models.Item) error
	List(person, category string) ([]models.Item, error)
	Get(person, id string) (*models.Item, error)
	Search(person, query string, limit int) ([]models.Item, error)
	Categories(person string) ([]string, error)
	Close() error
}

// Verify *DB satisfies ItemIndex at compile time.
var _ ItemIndex = (*DB)(nil)

// DB wraps a sql.DB with item index operations.
type DB struct {
	conn *sql.DB
}

// Open opens (or creates) the SQLite database and applies the schema.
func Open(dsn string) (*DB, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("index: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("index: ping: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("index: apply schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}
