// Package store is the persistence gateway: idempotent merges of models,
// categories and options into SQLite, with price-change history appended
// on every real price transition.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS models (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	code TEXT NOT NULL UNIQUE,
	name TEXT NOT NULL,
	family TEXT NOT NULL DEFAULT '',
	base_price REAL NOT NULL DEFAULT 0,
	year INTEGER NOT NULL DEFAULT 0,
	technical_data TEXT NOT NULL DEFAULT '{}',
	standard_equipment TEXT NOT NULL DEFAULT '[]',
	stat_options INTEGER NOT NULL DEFAULT 0,
	stat_color_ext INTEGER NOT NULL DEFAULT 0,
	stat_color_int INTEGER NOT NULL DEFAULT 0,
	stat_wheels INTEGER NOT NULL DEFAULT 0,
	stat_seats INTEGER NOT NULL DEFAULT 0,
	stat_packs INTEGER NOT NULL DEFAULT 0,
	stat_hoods INTEGER NOT NULL DEFAULT 0,
	stat_total INTEGER NOT NULL DEFAULT 0,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS categories (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	parent_name TEXT NOT NULL DEFAULT '',
	sub_category TEXT NOT NULL DEFAULT '',
	slug TEXT NOT NULL,
	UNIQUE(name, parent_name, sub_category)
);

CREATE TABLE IF NOT EXISTS options (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	model_id INTEGER NOT NULL REFERENCES models(id) ON DELETE CASCADE,
	category_id INTEGER REFERENCES categories(id),
	code TEXT NOT NULL,
	name TEXT NOT NULL,
	local_name TEXT NOT NULL DEFAULT '',
	description TEXT NOT NULL DEFAULT '',
	price REAL,
	is_standard INTEGER NOT NULL DEFAULT 0,
	is_exclusive INTEGER NOT NULL DEFAULT 0,
	option_type TEXT NOT NULL,
	sub_category TEXT NOT NULL DEFAULT '',
	image_ref TEXT NOT NULL DEFAULT '',
	display_order INTEGER NOT NULL DEFAULT 0,
	UNIQUE(model_id, code)
);

CREATE TABLE IF NOT EXISTS price_history (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	option_id INTEGER NOT NULL REFERENCES options(id) ON DELETE CASCADE,
	old_price REAL NOT NULL,
	new_price REAL NOT NULL,
	changed_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_options_model ON options(model_id);
CREATE INDEX IF NOT EXISTS idx_history_option ON price_history(option_id);
`

// Store wraps the SQLite connection.
type Store struct {
	db *sql.DB
}

// Open creates the database file (and its directory) if needed and
// initializes the schema. SQLite works best with a single connection, so
// the pool is pinned to one.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}
