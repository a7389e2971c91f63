// Package drafts persists unsubmitted article drafts in a local sqlite
// database, so an authoring session survives restarts without touching the
// hub API.
package drafts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/ArjunDangle/RAK-Knowledge-Hub-sub000/internal/doc"
)

// ErrNotFound is returned when no draft exists for an id.
var ErrNotFound = errors.New("draft not found")

// Draft is one locally saved article.
type Draft struct {
	ID        string
	Title     string
	Body      *doc.Document
	UpdatedAt time.Time
}

// Store is a sqlite-backed draft store.
type Store struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS drafts (
	id         TEXT PRIMARY KEY,
	title      TEXT NOT NULL,
	body       TEXT NOT NULL,
	updated_at TIMESTAMP NOT NULL
);
`

// Open opens (creating if needed) the draft database at path. Use ":memory:"
// for an ephemeral store.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open draft db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create draft schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save inserts or replaces a draft.
func (s *Store) Save(ctx context.Context, d Draft) error {
	if d.Body == nil {
		return fmt.Errorf("save draft %s: empty body", d.ID)
	}
	body, err := d.Body.JSON()
	if err != nil {
		return fmt.Errorf("save draft %s: %w", d.ID, err)
	}
	updated := d.UpdatedAt
	if updated.IsZero() {
		updated = time.Now().UTC()
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO drafts (id, title, body, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET title = excluded.title, body = excluded.body, updated_at = excluded.updated_at`,
		d.ID, d.Title, string(body), updated)
	if err != nil {
		return fmt.Errorf("save draft %s: %w", d.ID, err)
	}
	return nil
}

// Get loads one draft.
func (s *Store) Get(ctx context.Context, id string) (Draft, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, title, body, updated_at FROM drafts WHERE id = ?`, id)

	var d Draft
	var body string
	if err := row.Scan(&d.ID, &d.Title, &body, &d.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Draft{}, ErrNotFound
		}
		return Draft{}, fmt.Errorf("get draft %s: %w", id, err)
	}
	parsed, err := doc.FromJSON([]byte(body))
	if err != nil {
		return Draft{}, fmt.Errorf("get draft %s: %w", id, err)
	}
	d.Body = parsed
	return d, nil
}

// List returns draft metadata, newest first. Bodies are not loaded.
func (s *Store) List(ctx context.Context) ([]Draft, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, updated_at FROM drafts ORDER BY updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list drafts: %w", err)
	}
	defer rows.Close()

	var out []Draft
	for rows.Next() {
		var d Draft
		if err := rows.Scan(&d.ID, &d.Title, &d.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan draft row: %w", err)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list drafts: %w", err)
	}
	return out, nil
}

// Delete removes a draft. Deleting a missing draft returns ErrNotFound.
func (s *Store) Delete(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM drafts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete draft %s: %w", id, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete draft %s: %w", id, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
