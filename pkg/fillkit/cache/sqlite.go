package cache

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// SQLiteStore persists expanded sources to SQLite, so grammars survive
// process restarts.
type SQLiteStore struct {
	db     *sql.DB
	mu     sync.RWMutex
	closed bool
}

// NewSQLiteStore opens (or creates) a store at path.
// Use ":memory:" for a throwaway database.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if path == ":memory:" {
		// every pooled connection would get its own empty database
		db.SetMaxOpenConns(1)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS expansions (
			key TEXT PRIMARY KEY,
			pattern TEXT NOT NULL,
			source TEXT NOT NULL,
			flags TEXT NOT NULL,
			created TEXT NOT NULL
		)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create table: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Save implements Store.
func (s *SQLiteStore) Save(entry Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}

	created := entry.Created
	if created.IsZero() {
		created = time.Now().UTC()
	}

	_, err := s.db.Exec(`
		INSERT INTO expansions (key, pattern, source, flags, created)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			pattern = excluded.pattern,
			source = excluded.source,
			flags = excluded.flags
	`, entry.Key, entry.Pattern, entry.Source, entry.Flags, created.Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("save expansion: %w", err)
	}
	return nil
}

// Load implements Store.
func (s *SQLiteStore) Load(key string) (Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return Entry{}, ErrStoreClosed
	}

	e := Entry{Key: key}
	var created string
	err := s.db.QueryRow(`
		SELECT pattern, source, flags, created FROM expansions
		WHERE key = ?
	`, key).Scan(&e.Pattern, &e.Source, &e.Flags, &created)

	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, ErrNotFound
	}
	if err != nil {
		return Entry{}, fmt.Errorf("load expansion: %w", err)
	}
	e.Created, _ = time.Parse(time.RFC3339Nano, created)
	return e, nil
}

// List implements Store.
func (s *SQLiteStore) List() ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrStoreClosed
	}

	rows, err := s.db.Query(`
		SELECT key, pattern, source, flags, created
		FROM expansions
		ORDER BY created, key
	`)
	if err != nil {
		return nil, fmt.Errorf("list expansions: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var created string
		if err := rows.Scan(&e.Key, &e.Pattern, &e.Source, &e.Flags, &created); err != nil {
			return nil, fmt.Errorf("scan expansion: %w", err)
		}
		e.Created, _ = time.Parse(time.RFC3339Nano, created)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate expansions: %w", err)
	}
	return entries, nil
}

// Delete implements Store.
func (s *SQLiteStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}

	if _, err := s.db.Exec(`DELETE FROM expansions WHERE key = ?`, key); err != nil {
		return fmt.Errorf("delete expansion: %w", err)
	}
	return nil
}

// Close implements Store.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}
