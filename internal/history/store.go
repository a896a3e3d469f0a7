// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history persists a log of executed searches in a SQLite file.
// It is a write-behind audit trail for the CLI: nothing in the search
// path reads it back, so engine calls stay independent and uncached.
package history

import (
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/metasearch/pkg/types"
)

const schema = `
CREATE TABLE IF NOT EXISTS searches (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	engine_id   TEXT NOT NULL,
	query       TEXT NOT NULL,
	total_items INTEGER NOT NULL,
	failed      INTEGER NOT NULL,
	error_info  TEXT,
	created_at  TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_searches_created_at ON searches(created_at);
`

// Entry is one logged search.
type Entry struct {
	ID         int64
	EngineID   string
	Query      string
	TotalItems int
	Failed     bool
	ErrorInfo  string
	CreatedAt  time.Time
}

// Store manages the history SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the history database at path and ensures the
// schema exists.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening history database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating history schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }

// RecordSearch logs the outcome of one engine's search.
func (s *Store) RecordSearch(q types.Query, rs types.ResultSet) error {
	errorInfo := ""
	if rs.Error != nil {
		errorInfo = rs.Error.Info
	}
	_, err := s.db.Exec(
		`INSERT INTO searches (engine_id, query, total_items, failed, error_info, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		rs.EngineID, describeQuery(q), rs.TotalItems, rs.Failed, errorInfo, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("recording search: %w", err)
	}
	return nil
}

// Recent returns the most recent entries, newest first.
func (s *Store) Recent(limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.Query(
		`SELECT id, engine_id, query, total_items, failed, error_info, created_at
		 FROM searches ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying history: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.EngineID, &e.Query, &e.TotalItems, &e.Failed, &e.ErrorInfo, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning history row: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// describeQuery renders a query as one readable line for the log.
func describeQuery(q types.Query) string {
	if len(q.Fields) > 0 {
		parts := make([]string, 0, len(q.Fields))
		for k, v := range q.Fields {
			parts = append(parts, k+"="+v)
		}
		sort.Strings(parts)
		return strings.Join(parts, " ")
	}
	if q.SearchField != "" {
		return q.SearchField + ":" + q.Keywords
	}
	if q.SemanticField != "" {
		return q.SemanticField + ":" + q.Keywords
	}
	return q.Keywords
}
