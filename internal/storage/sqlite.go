package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

type DB struct {
	db *sql.DB
}

func NewDB(path string) (*DB, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &DB{db: db}, nil
}

func (d *DB) Close() error {
	return d.db.Close()
}

func (d *DB) Migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS polls (
		sha TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		author TEXT NOT NULL,
		active INTEGER NOT NULL,
		createdate INTEGER NOT NULL,
		maxvoters INTEGER NOT NULL,
		question TEXT NOT NULL,
		number_of_options INTEGER NOT NULL,
		options TEXT NOT NULL,
		data TEXT NOT NULL,
		votes TEXT NOT NULL,
		image_ids TEXT NOT NULL,
		saved_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_polls_author ON polls(author);

	CREATE TABLE IF NOT EXISTS settings (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		view_answer INTEGER NOT NULL,
		remember_last_vote INTEGER NOT NULL,
		play_vote_sound INTEGER NOT NULL,
		use_image INTEGER NOT NULL,
		image_height INTEGER NOT NULL,
		image_width INTEGER NOT NULL
	);
	`

	if _, err := d.db.Exec(schema); err != nil {
		return fmt.Errorf("execute schema: %w", err)
	}
	return nil
}

func (d *DB) DB() *sql.DB {
	return d.db
}
