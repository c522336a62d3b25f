// Package cache persists compiled MIPS output keyed by a hash of the
// source text, so a driver invocation over an unchanged file can skip
// re-running the pipeline. Backed by database/sql over a local sqlite3
// file, the same storage pattern the pack's database-tooling package
// reaches for (a driver import plus sql.Open against a DSN).
package cache

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// Store wraps a sqlite3-backed table of source-hash -> generated MIPS text.
type Store struct {
	db *sql.DB
}

// Open creates (or reuses) the sqlite3 database at path and ensures the
// cache table exists.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("cache: open %s: %w", path, err)
	}
	const schema = `CREATE TABLE IF NOT EXISTS compiled (
		source_hash TEXT PRIMARY KEY,
		mips_text   TEXT NOT NULL
	)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("cache: create schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Hash returns the cache key for a given source text.
func Hash(src string) string {
	sum := sha256.Sum256([]byte(src))
	return hex.EncodeToString(sum[:])
}

// Lookup returns the cached MIPS text for hash, if present.
func (s *Store) Lookup(hash string) (string, bool, error) {
	var text string
	err := s.db.QueryRow(`SELECT mips_text FROM compiled WHERE source_hash = ?`, hash).Scan(&text)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("cache: lookup %s: %w", hash, err)
	}
	return text, true, nil
}

// Store saves the MIPS text generated for hash, overwriting any prior entry.
func (s *Store) Store(hash, mipsText string) error {
	_, err := s.db.Exec(
		`INSERT INTO compiled (source_hash, mips_text) VALUES (?, ?)
		 ON CONFLICT(source_hash) DO UPDATE SET mips_text = excluded.mips_text`,
		hash, mipsText,
	)
	if err != nil {
		return fmt.Errorf("cache: store %s: %w", hash, err)
	}
	return nil
}
