package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"bizdash/cmd"
	"bizdash/internal/api"
	"bizdash/internal/db"
	"bizdash/internal/logging"
	"bizdash/internal/resources"
	"bizdash/internal/ui"
	"bizdash/internal/util"
)

// version is set at build time via -ldflags
var version = "dev"

func main() {
	config, err := cmd.ParseFlags(version)
	if errors.Is(err, cmd.ErrVersion) {
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(config.LogMode, config.LogFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open log: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	formatter, err := util.NewFormatter(config.Locale, config.Currency)
	if err != nil {
		logger.Warn("falling back to en-GB/GBP formatting", zap.Error(err))
		formatter = util.DefaultFormatter()
	}

	database, err := db.Open(config.DBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open database: %v\n", err)
		os.Exit(1)
	}
	defer database.Close()

	client, err := api.NewClient(config.BaseURL, config.Tokens,
		api.WithTimeout(config.Timeout),
		api.WithLogger(logger.Named("api")),
		api.WithUserAgent("bizdash/"+version),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stop()

	set := resources.New(client)
	app := ui.New(ctx, ui.Deps{
		Resources: set,
		DB:        database,
		ExportDir: config.ExportDir,
		Formatter: formatter,
		Logger:    logger.Named("ui"),
	})

	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))

	stopRelay := ui.ForwardChanges(p, set)
	defer stopRelay()

	logger.Info("starting", zap.String("version", version), zap.String("api", config.BaseURL))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		logger.Error("program exited", zap.Error(err))
		fmt.Fprintf(os.Stderr, "Error running app: %v\n", err)
		os.Exit(1)
	}
}
