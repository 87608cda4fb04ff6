package db

import (
	"database/sql"
	"fmt"
	"time"
)

// ExportRecord is one file written by an export.
type ExportRecord struct {
	ID        int64
	Screen    string
	Format    string
	Path      string
	RowCount  int
	CreatedAt time.Time
}

// RecordExport appends an export to the history.
func RecordExport(db *sql.DB, rec ExportRecord) (int64, error) {
	result, err := db.Exec(`
		INSERT INTO export_history (screen, format, path, row_count)
		VALUES (?, ?, ?, ?)
	`, rec.Screen, rec.Format, rec.Path, rec.RowCount)
	if err != nil {
		return 0, fmt.Errorf("failed to record export: %w", err)
	}
	return result.LastInsertId()
}

// RecentExports returns the newest exports first.
func RecentExports(db *sql.DB, limit int) ([]ExportRecord, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := db.Query(`
		SELECT id, screen, format, path, row_count, created_at
		FROM export_history
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []ExportRecord
	for rows.Next() {
		var rec ExportRecord
		var createdAt string
		if err := rows.Scan(&rec.ID, &rec.Screen, &rec.Format, &rec.Path, &rec.RowCount, &createdAt); err != nil {
			return nil, err
		}
		if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
			rec.CreatedAt = t
		}
		results = append(results, rec)
	}
	return results, rows.Err()
}

// LastExport returns the most recent export, or false if there is none.
func LastExport(db *sql.DB) (ExportRecord, bool, error) {
	recs, err := RecentExports(db, 1)
	if err != nil || len(recs) == 0 {
		return ExportRecord{}, false, err
	}
	return recs[0], true, nil
}
