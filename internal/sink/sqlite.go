// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sink

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/paper-sync/pkg/types"
)

// SQLiteSink persists records to a local SQLite database, one row per
// paper keyed by arXiv ID. Re-syncing a paper replaces its row.
type SQLiteSink struct {
	db   *sql.DB
	stmt *sql.Stmt
}

// NewSQLite opens or creates the database at cfg.Path and ensures the
// schema exists.
func NewSQLite(cfg types.SQLiteConfig) (*SQLiteSink, error) {
	if dir := filepath.Dir(cfg.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", cfg.Path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening database %s: %w", cfg.Path, err)
	}

	const schema = `CREATE TABLE IF NOT EXISTS papers (
		arxiv_id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		authors TEXT NOT NULL,
		abstract TEXT NOT NULL,
		url TEXT NOT NULL,
		pdf_url TEXT,
		published TEXT NOT NULL,
		updated TEXT,
		categories TEXT,
		keywords TEXT,
		github_url TEXT,
		synced_at TEXT NOT NULL
	)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	stmt, err := db.Prepare(`INSERT OR REPLACE INTO papers
		(arxiv_id, title, authors, abstract, url, pdf_url, published, updated, categories, keywords, github_url, synced_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("preparing insert: %w", err)
	}

	return &SQLiteSink{db: db, stmt: stmt}, nil
}

// Name returns the sink identifier.
func (s *SQLiteSink) Name() string { return "sqlite" }

// Write inserts or replaces the row for the record's arXiv ID.
func (s *SQLiteSink) Write(ctx context.Context, r *types.PaperRecord) error {
	authors, err := encodeList(r.Authors)
	if err != nil {
		return err
	}
	categories, err := encodeList(r.Categories)
	if err != nil {
		return err
	}
	keywords, err := encodeList(r.Keywords)
	if err != nil {
		return err
	}

	_, err = s.stmt.ExecContext(ctx,
		r.ArxivID,
		r.Title,
		authors,
		r.Abstract,
		r.URL,
		r.PDFURL,
		r.Published.Format(time.RFC3339),
		formatOptionalTime(r.Updated),
		categories,
		keywords,
		r.GitHubURL,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting %s: %w", r.ArxivID, err)
	}
	return nil
}

// Close releases the prepared statement and the database connection.
func (s *SQLiteSink) Close() error {
	s.stmt.Close()
	return s.db.Close()
}

// encodeList stores a string slice as a JSON array so multi-value fields
// survive round-trips without a separator convention.
func encodeList(values []string) (string, error) {
	if len(values) == 0 {
		return "[]", nil
	}
	data, err := json.Marshal(values)
	if err != nil {
		return "", fmt.Errorf("encoding list: %w", err)
	}
	return string(data), nil
}
