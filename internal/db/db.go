package db

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS table_prefs (
    screen         TEXT PRIMARY KEY,
    sort_key       TEXT NOT NULL DEFAULT '',
    sort_desc      INTEGER NOT NULL DEFAULT 0 CHECK(sort_desc IN (0,1)),
    active_column  TEXT NOT NULL DEFAULT '',
    hidden_columns TEXT NOT NULL DEFAULT '[]',
    updated_at     TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ','now'))
);

CREATE TABLE IF NOT EXISTS export_history (
    id         INTEGER PRIMARY KEY,
    screen     TEXT NOT NULL,
    format     TEXT NOT NULL CHECK(format IN ('csv','json','pdf')),
    path       TEXT NOT NULL,
    row_count  INTEGER NOT NULL DEFAULT 0,
    created_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ','now'))
);

CREATE INDEX IF NOT EXISTS idx_export_history_created_at ON export_history(created_at DESC);
`

// Open opens or creates the SQLite database and initializes the schema.
func Open(dbPath string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return db, nil
}
