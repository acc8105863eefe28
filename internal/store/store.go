// Package store provides SQLite persistence for the dashboard's query history.
//
// The hot-news panel itself persists nothing. Only the host records the
// queries a user picked from a headline or typed by hand.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// Query origins.
const (
	OriginPick   = "pick"
	OriginManual = "manual"
)

// Store handles SQLite persistence. Safe for concurrent use.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// Query is one recorded search query.
type Query struct {
	ID        int64
	Text      string
	Origin    string // OriginPick or OriginManual
	SourceID  string // active source filter when recorded
	ItemURL   string // article the title came from, picks only
	CreatedAt time.Time
}

// Open opens (and migrates) the database at dbPath. ":memory:" uses a
// single shared-cache connection.
func Open(dbPath string) (*Store, error) {
	connStr := dbPath
	if dbPath == ":memory:" {
		connStr = "file::memory:?cache=shared"
	}

	db, err := sql.Open("sqlite", connStr)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if dbPath != ":memory:" {
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("enable WAL mode: %w", err)
		}
	}

	s := &Store{db: db}
	if err := s.createTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}
	return s, nil
}

func (s *Store) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS queries (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		query TEXT NOT NULL,
		origin TEXT NOT NULL,
		source_id TEXT,
		item_url TEXT,
		created_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_queries_created ON queries(created_at DESC);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("execute schema: %w", err)
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

// RecordQuery stores q and returns its id. The text is stored verbatim;
// only an all-blank query is rejected. A zero CreatedAt means now.
func (s *Store) RecordQuery(q Query) (int64, error) {
	if strings.TrimSpace(q.Text) == "" {
		return 0, errors.New("record query: empty query")
	}
	if q.Origin == "" {
		q.Origin = OriginManual
	}
	if q.CreatedAt.IsZero() {
		q.CreatedAt = time.Now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(
		`INSERT INTO queries (query, origin, source_id, item_url, created_at) VALUES (?, ?, ?, ?, ?)`,
		q.Text, q.Origin, q.SourceID, q.ItemURL, q.CreatedAt.UTC(),
	)
	if err != nil {
		return 0, fmt.Errorf("record query: %w", err)
	}
	return res.LastInsertId()
}

// RecentQueries returns up to limit queries, newest first.
func (s *Store) RecentQueries(limit int) ([]Query, error) {
	if limit <= 0 {
		return nil, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT id, query, origin, COALESCE(source_id, ''), COALESCE(item_url, ''), created_at
		FROM queries
		ORDER BY created_at DESC, id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("recent queries: %w", err)
	}
	defer rows.Close()

	var out []Query
	for rows.Next() {
		var q Query
		if err := rows.Scan(&q.ID, &q.Text, &q.Origin, &q.SourceID, &q.ItemURL, &q.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan query: %w", err)
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

// CountQueries returns how many queries of the given origin exist.
// An empty origin counts all of them.
func (s *Store) CountQueries(origin string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int
	var err error
	if origin == "" {
		err = s.db.QueryRow(`SELECT COUNT(*) FROM queries`).Scan(&n)
	} else {
		err = s.db.QueryRow(`SELECT COUNT(*) FROM queries WHERE origin = ?`, origin).Scan(&n)
	}
	return n, err
}

// DeleteBefore removes queries older than cutoff and returns how many.
func (s *Store) DeleteBefore(cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(`DELETE FROM queries WHERE created_at < ?`, cutoff.UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
