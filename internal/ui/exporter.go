package ui

import (
	"bytes"
	"database/sql"
	"io"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"bizdash/internal/db"
	"bizdash/internal/export"
	"bizdash/internal/model"
)

// exporter writes export files into the export directory and records them in the history.
type exporter struct {
	db     *sql.DB
	dir    string
	clock  func() time.Time
	logger *zap.Logger
}

func (e *exporter) now() time.Time {
	if e.clock == nil {
		return time.Now()
	}
	return e.clock()
}

// write renders a file in the command goroutine and saves it.
func (e *exporter) write(screen model.Screen, format, name string, rows int, render func(io.Writer) error) tea.Cmd {
	return func() tea.Msg {
		var buf bytes.Buffer
		if err := render(&buf); err != nil {
			return model.ExportedMsg{Err: err}
		}
		return e.store(screen, format, name, rows, buf.Bytes())
	}
}

// save writes an already rendered payload, such as a report downloaded from the server.
func (e *exporter) save(screen model.Screen, format, name string, rows int, data []byte) tea.Cmd {
	return func() tea.Msg {
		return e.store(screen, format, name, rows, data)
	}
}

func (e *exporter) store(screen model.Screen, format, name string, rows int, data []byte) model.ExportedMsg {
	path, err := export.Save(e.dir, name, data)
	if err != nil {
		e.logger.Error("export failed", zap.String("file", name), zap.Error(err))
		return model.ExportedMsg{Err: err}
	}
	e.logger.Info("exported",
		zap.String("screen", screen.Key()),
		zap.String("format", format),
		zap.String("path", path),
		zap.Int("rows", rows),
	)
	if e.db != nil {
		if _, err := db.RecordExport(e.db, db.ExportRecord{Screen: screen.Key(), Format: format, Path: path, RowCount: rows}); err != nil {
			e.logger.Warn("record export", zap.Error(err))
		}
	}
	return model.ExportedMsg{Path: path, Rows: rows}
}
