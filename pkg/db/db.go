// Package db provides the persistence layer used by the conversion pipeline.
// It wraps a SQLite database caching resolved release years so repeated runs
// over the same playlist do not re-pay the MusicBrainz rate limit. The
// package is intentionally small; callers are expected to open a single DB
// instance using New and reuse it for all operations. The token exchange
// never touches this store.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// DB wraps a sql.DB connection and exposes the year cache helpers.
type DB struct {
	*sql.DB
}

// New opens the SQLite database located at path. If the file does not exist
// it is created along with the required schema. The returned DB value wraps
// the sql.DB connection for use by the rest of the application.
func New(path string) (*DB, error) {
	d, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS release_years (
			artist TEXT NOT NULL,
			title TEXT NOT NULL,
			year INTEGER NOT NULL,
			source TEXT NOT NULL,
			looked_up_at TIMESTAMP,
			PRIMARY KEY(artist, title)
		)`,
	}
	// Errors here likely mean the database file is not writable.
	for _, s := range stmts {
		if _, err := d.Exec(s); err != nil {
			d.Close()
			return nil, fmt.Errorf("init db: %w", err)
		}
	}
	return &DB{d}, nil
}

// GetYear returns the cached release year for a song. ok is false when the
// song has not been looked up before.
func (db *DB) GetYear(ctx context.Context, artist, title string) (int, bool, error) {
	var year int
	err := db.QueryRowContext(ctx, `SELECT year FROM release_years WHERE artist=? AND title=?`, artist, title).Scan(&year)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return year, true, nil
}

// SaveYear stores the resolved year for a song. An existing entry for the
// same artist and title is replaced so better lookups win over fallbacks.
func (db *DB) SaveYear(ctx context.Context, artist, title string, year int, source string) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO release_years(artist, title, year, source, looked_up_at) VALUES(?, ?, ?, ?, ?)
		 ON CONFLICT(artist, title) DO UPDATE SET year=excluded.year, source=excluded.source, looked_up_at=excluded.looked_up_at`,
		artist, title, year, source, time.Now())
	return err
}

// YearEntry is one cached lookup result.
type YearEntry struct {
	Artist string
	Title  string
	Year   int
	Source string
}

// ListYears returns all cached entries ordered by artist and title. It is
// used by tooling to inspect the cache contents.
func (db *DB) ListYears(ctx context.Context) ([]YearEntry, error) {
	rows, err := db.QueryContext(ctx, `SELECT artist, title, year, source FROM release_years ORDER BY artist, title`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []YearEntry
	for rows.Next() {
		var e YearEntry
		if err := rows.Scan(&e.Artist, &e.Title, &e.Year, &e.Source); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	// rows.Err returns the first error encountered while iterating.
	return entries, rows.Err()
}
