package index

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/emelz/wardrobe/internal/apperr"
	"github.com/emelz/wardrobe/internal/models"
)

// ReplaceAll swaps out a person's indexed items for the given set in a
// single transaction. Generation calls this after every run, so the
// index always mirrors the latest document.
func (db *DB) ReplaceAll(person string, items []models.Item) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	if _, err := tx.Exec(`DELETE FROM items WHERE person = ?`, person); err != nil {
		return fmt.Errorf("index: clear items: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO items (person, id, title, category, filename, slug, thumbnail, image, notes, tags, created_date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("index: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, it := range items {
		tagsJSON, _ := json.Marshal(it.Tags)
		_, err := stmt.Exec(person, it.ID, it.Title, it.Category, it.Filename,
			it.Slug, it.Thumbnail, it.Image, it.Notes, string(tagsJSON), int64(it.CreatedDate))
		if err != nil {
			return fmt.Errorf("index: insert item %s: %w", it.ID, err)
		}
	}

	return tx.Commit()
}

const itemColumns = `person, id, title, category, filename, slug, thumbnail, image, notes, tags, created_date`

// List returns a person's items, optionally filtered by category,
// ordered by category then title. An empty person matches everyone.
func (db *DB) List(person, category string) ([]models.Item, error) {
	rows, err := db.conn.Query(`
		SELECT `+itemColumns+` FROM items
		WHERE (? = '' OR person = ?) AND (? = '' OR category = ?)
		ORDER BY category, title
	`, person, person, category, category)
	if err != nil {
		return nil, fmt.Errorf("index: list: %w", err)
	}
	defer rows.Close()
	return scanItems(rows)
}

// Get returns one item by id; apperr.ErrNotFound when absent.
func (db *DB) Get(person, id string) (*models.Item, error) {
	row := db.conn.QueryRow(`
		SELECT `+itemColumns+` FROM items
		WHERE (? = '' OR person = ?) AND id = ?
	`, person, person, id)

	it, err := scanItem(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.ErrNotFound
		}
		return nil, fmt.Errorf("index: get %s: %w", id, err)
	}
	return it, nil
}

// Search matches query as a substring of title, notes, or tags.
func (db *DB) Search(person, query string, limit int) ([]models.Item, error) {
	if limit <= 0 {
		limit = 50
	}
	like := "%" + query + "%"
	rows, err := db.conn.Query(`
		SELECT `+itemColumns+` FROM items
		WHERE (? = '' OR person = ?)
		  AND (title LIKE ? OR notes LIKE ? OR tags LIKE ?)
		ORDER BY category, title
		LIMIT ?
	`, person, person, like, like, like, limit)
	if err != nil {
		return nil, fmt.Errorf("index: search: %w", err)
	}
	defer rows.Close()
	return scanItems(rows)
}

// Categories returns a person's distinct categories, sorted.
func (db *DB) Categories(person string) ([]string, error) {
	rows, err := db.conn.Query(`
		SELECT DISTINCT category FROM items
		WHERE (? = '' OR person = ?)
		ORDER BY category
	`, person, person)
	if err != nil {
		return nil, fmt.Errorf("index: categories: %w", err)
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(r rowScanner) (*models.Item, error) {
	var it models.Item
	var person, tagsJSON string
	var created int64
	err := r.Scan(&person, &it.ID, &it.Title, &it.Category, &it.Filename,
		&it.Slug, &it.Thumbnail, &it.Image, &it.Notes, &tagsJSON, &created)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(tagsJSON), &it.Tags); err != nil {
		it.Tags = nil
	}
	it.CreatedDate = models.Epoch(created)
	return &it, nil
}

func scanItems(rows *sql.Rows) ([]models.Item, error) {
	out := []models.Item{}
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *it)
	}
	return out, rows.Err()
}
