package ui

import (
	"context"
	"database/sql"
	"time"

	"go.uber.org/zap"

	"bizdash/internal/api"
	"bizdash/internal/model"
	"bizdash/internal/resources"
	"bizdash/internal/util"
)

// Deps is everything the screens share.
type Deps struct {
	Resources *resources.Set
	// DB is the local store for table preferences and export history. Optional.
	DB        *sql.DB
	ExportDir string
	Formatter util.Formatter
	Logger    *zap.Logger
	// Now overrides the clock for export filenames and report defaults.
	Now func() time.Time
}

// reportSource is the read-only reporting API.
type reportSource interface {
	HMRC(ctx context.Context, start, end string) (model.HMRCReport, error)
	DownloadHMRC(ctx context.Context, start, end, format string) (api.Blob, error)
	Overview(ctx context.Context) (model.FinancialOverview, error)
}

func (d Deps) logger() *zap.Logger {
	if d.Logger == nil {
		return zap.NewNop()
	}
	return d.Logger
}

func (d Deps) now() time.Time {
	if d.Now == nil {
		return time.Now()
	}
	return d.Now()
}

func (d Deps) exporter() *exporter {
	return &exporter{db: d.DB, dir: d.ExportDir, clock: d.Now, logger: d.logger()}
}
