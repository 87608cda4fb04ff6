// Package export serializes collections to CSV or JSON and writes report files to disk.
package export

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Column maps a record to one CSV cell.
type Column[T any] struct {
	Header string
	Value  func(T) string
}

// CSV writes a header row and one row per item. Every cell is wrapped in
// double quotes, inner quotes are doubled and every row ends with "\n".
func CSV[T any](w io.Writer, cols []Column[T], items []T) error {
	bw := bufio.NewWriter(w)
	header := make([]string, len(cols))
	for i, c := range cols {
		header[i] = c.Header
	}
	if err := writeRow(bw, header); err != nil {
		return err
	}
	row := make([]string, len(cols))
	for _, item := range items {
		for i, c := range cols {
			row[i] = c.Value(item)
		}
		if err := writeRow(bw, row); err != nil {
			return err
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

func writeRow(w *bufio.Writer, cells []string) error {
	for i, cell := range cells {
		if i > 0 {
			if err := w.WriteByte(','); err != nil {
				return fmt.Errorf("write csv: %w", err)
			}
		}
		if _, err := w.WriteString(quote(cell)); err != nil {
			return fmt.Errorf("write csv: %w", err)
		}
	}
	if err := w.WriteByte('\n'); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// JSON writes items as an indented JSON array. A nil slice is written as [].
func JSON[T any](w io.Writer, items []T) error {
	if items == nil {
		items = []T{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(items); err != nil {
		return fmt.Errorf("write json: %w", err)
	}
	return nil
}

// DatedFilename returns "<prefix>-<YYYY-MM-DD>.<ext>".
func DatedFilename(prefix, ext string, day time.Time) string {
	return fmt.Sprintf("%s-%s.%s", prefix, day.Format("2006-01-02"), strings.TrimPrefix(ext, "."))
}

// RangeFilename returns "<prefix>-<start>-to-<end>.<ext>".
func RangeFilename(prefix, start, end, ext string) string {
	return fmt.Sprintf("%s-%s-to-%s.%s", prefix, start, end, strings.TrimPrefix(ext, "."))
}

// Save writes data to dir/name, creating dir if needed, and returns the full path.
func Save(dir, name string, data []byte) (string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}
	path := filepath.Join(dir, filepath.Base(name))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write export: %w", err)
	}
	return path, nil
}
