package db

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// TablePrefs stores per-screen table preferences.
type TablePrefs struct {
	SortKey       string
	SortDesc      bool
	ActiveColumn  string
	HiddenColumns []string
}

// GetTablePrefs returns the saved preferences for screen, or zero prefs if none exist.
func GetTablePrefs(db *sql.DB, screen string) (TablePrefs, error) {
	var prefs TablePrefs
	var sortDesc int
	var hidden string
	err := db.QueryRow(`
		SELECT sort_key, sort_desc, active_column, hidden_columns
		FROM table_prefs
		WHERE screen = ?
	`, screen).Scan(&prefs.SortKey, &sortDesc, &prefs.ActiveColumn, &hidden)
	if errors.Is(err, sql.ErrNoRows) {
		return TablePrefs{}, nil
	}
	if err != nil {
		return TablePrefs{}, fmt.Errorf("failed to load prefs for %s: %w", screen, err)
	}
	prefs.SortDesc = sortDesc == 1
	if hidden != "" {
		if err := json.Unmarshal([]byte(hidden), &prefs.HiddenColumns); err != nil {
			return TablePrefs{}, fmt.Errorf("failed to decode hidden columns for %s: %w", screen, err)
		}
	}
	return prefs, nil
}

// SaveTablePrefs upserts the preferences for screen.
func SaveTablePrefs(db *sql.DB, screen string, prefs TablePrefs) error {
	hidden := prefs.HiddenColumns
	if hidden == nil {
		hidden = []string{}
	}
	data, err := json.Marshal(hidden)
	if err != nil {
		return fmt.Errorf("failed to encode hidden columns: %w", err)
	}
	_, err = db.Exec(`
		INSERT INTO table_prefs (screen, sort_key, sort_desc, active_column, hidden_columns)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(screen) DO UPDATE SET
			sort_key = excluded.sort_key,
			sort_desc = excluded.sort_desc,
			active_column = excluded.active_column,
			hidden_columns = excluded.hidden_columns,
			updated_at = strftime('%Y-%m-%dT%H:%M:%fZ','now')
	`, screen, prefs.SortKey, boolToInt(prefs.SortDesc), prefs.ActiveColumn, string(data))
	if err != nil {
		return fmt.Errorf("failed to save prefs for %s: %w", screen, err)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
