package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"bizdash/internal/model"
)

// screenModel is one tab of the dashboard.
type screenModel interface {
	Screen() model.Screen
	Title() string
	// Mount starts the screen's initial fetch.
	Mount(ctx context.Context) tea.Cmd
	// Unmount discards transient state.
	Unmount()
	Update(ctx context.Context, msg tea.Msg) tea.Cmd
	View(width, height int) string
	Mode() model.Mode
	Help() []string
}
