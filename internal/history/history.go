// Package history keeps a SQLite log of past captures so repeated runs
// against the same page can report whether its content changed.
package history

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/pagesnap/pagesnap/internal/logging"
)

//go:embed schema.sql
var schemaFS embed.FS

// timeLayout keeps fractional seconds fixed-width so the string ordering in
// ORDER BY created_at matches chronological ordering.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// ErrNotFound is returned when a record id or url key has no row.
var ErrNotFound = errors.New("history: record not found")

// Config controls where the history database lives.
type Config struct {
	// Dir is the directory holding captures.db. Created if missing.
	Dir string `json:"dir,omitempty"`
}

// Record is one capture attempt as stored.
type Record struct {
	ID            string    `json:"id"`
	URL           string    `json:"url"`
	URLKey        string    `json:"url_key"`
	OutputPath    string    `json:"output_path"`
	Width         int       `json:"width"`
	Height        int       `json:"height"`
	BudgetMS      int       `json:"budget_ms"`
	Title         string    `json:"title,omitempty"`
	ContentHash   string    `json:"content_hash,omitempty"`
	HTML          string    `json:"-"`
	Changed       bool      `json:"changed"`
	CharsInserted int       `json:"chars_inserted,omitempty"`
	CharsDeleted  int       `json:"chars_deleted,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// Store implements the capture history on SQLite.
type Store struct {
	db     *sql.DB
	logger logging.Logger
}

// NewStore opens (creating if necessary) the history database under cfg.Dir
// and applies the schema.
func NewStore(logger logging.Logger, cfg Config) (*Store, error) {
	if cfg.Dir == "" {
		return nil, errors.New("history: empty directory")
	}

	if err := os.MkdirAll(cfg.Dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	dbPath := filepath.Join(cfg.Dir, "captures.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := applySchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	if logger != nil {
		logger.Info("history store initialized", logging.Field{Key: "path", Value: dbPath})
	}

	return &Store{db: db, logger: logger}, nil
}

// applySchema applies the schema and sets appropriate pragmas.
func applySchema(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL",   // Write-Ahead Logging for better concurrency
		"PRAGMA synchronous=NORMAL", // Balance between safety and performance
		"PRAGMA foreign_keys=ON",    // Enable foreign key constraints
		"PRAGMA busy_timeout=5000",  // Wait up to 5 seconds on locked database
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to set pragma %q: %w", pragma, err)
		}
	}

	schemaSQL, err := schemaFS.ReadFile("schema.sql")
	if err != nil {
		return fmt.Errorf("failed to read schema.sql: %w", err)
	}

	if _, err := db.Exec(string(schemaSQL)); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}

	return nil
}

// Record inserts rec, assigning an ID and timestamp when absent, and returns
// the stored record.
func (s *Store) Record(ctx context.Context, rec *Record) (*Record, error) {
	if rec == nil {
		return nil, errors.New("history: nil record")
	}
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO captures (
			id, url, url_key, output_path, width, height, budget_ms,
			title, content_hash, html, changed, chars_inserted, chars_deleted, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.URL, rec.URLKey, rec.OutputPath, rec.Width, rec.Height, rec.BudgetMS,
		rec.Title, rec.ContentHash, rec.HTML, boolToInt(rec.Changed), rec.CharsInserted, rec.CharsDeleted,
		rec.CreatedAt.Format(timeLayout),
	)
	if err != nil {
		return nil, fmt.Errorf("insert capture: %w", err)
	}

	return rec, nil
}

// LastByKey returns the most recent record for a normalized URL key, or
// ErrNotFound.
func (s *Store) LastByKey(ctx context.Context, key string) (*Record, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, url, url_key, output_path, width, height, budget_ms,
		       title, content_hash, html, changed, chars_inserted, chars_deleted, created_at
		FROM captures
		WHERE url_key = ?
		ORDER BY created_at DESC
		LIMIT 1`, key)

	return scanRecord(row)
}

// Get returns a record by id, or ErrNotFound.
func (s *Store) Get(ctx context.Context, id string) (*Record, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, url, url_key, output_path, width, height, budget_ms,
		       title, content_hash, html, changed, chars_inserted, chars_deleted, created_at
		FROM captures
		WHERE id = ?`, id)

	return scanRecord(row)
}

// List returns up to limit records, newest first. limit <= 0 means 100.
func (s *Store) List(ctx context.Context, limit int) ([]*Record, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, url, url_key, output_path, width, height, budget_ms,
		       title, content_hash, html, changed, chars_inserted, chars_deleted, created_at
		FROM captures
		ORDER BY created_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list captures: %w", err)
	}
	defer rows.Close()

	var out []*Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*Record, error) {
	var rec Record
	var changed int
	var createdAt string

	err := row.Scan(
		&rec.ID, &rec.URL, &rec.URLKey, &rec.OutputPath, &rec.Width, &rec.Height, &rec.BudgetMS,
		&rec.Title, &rec.ContentHash, &rec.HTML, &changed, &rec.CharsInserted, &rec.CharsDeleted, &createdAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan capture: %w", err)
	}

	rec.Changed = changed != 0
	if t, perr := time.Parse(timeLayout, createdAt); perr == nil {
		rec.CreatedAt = t
	}
	return &rec, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
