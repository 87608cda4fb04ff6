package ui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"bizdash/internal/db"
	"bizdash/internal/model"
	"bizdash/internal/util"
)

// Model is the root Bubble Tea model.
type Model struct {
	ctx    context.Context
	deps   Deps
	logger *zap.Logger

	screens []screenModel
	current int
	// mountCtx is cancelled when the current screen is unmounted.
	mountCtx context.Context
	cancel   context.CancelFunc
	initCmd  tea.Cmd
	gState   GState

	width  int
	height int

	error       string
	info        string
	lastExport  *db.ExportRecord
	showingHelp bool

	keys KeyMap
}

// New creates the root model and starts mounting the first screen. Screen
// fetches are cancelled when ctx is done.
func New(ctx context.Context, deps Deps) Model {
	m := Model{
		ctx:    ctx,
		deps:   deps,
		logger: deps.logger(),
		screens: []screenModel{
			newOverviewScreen(deps),
			newCustomersScreen(deps),
			newMaterialsScreen(deps),
			newTimeEntriesScreen(deps),
			newReportsScreen(deps),
		},
		current: int(model.ScreenOverview),
		gState:  GStateIdle,
		keys:    DefaultKeyMap(),
	}
	m.lastExport = m.loadLastExport()
	m.initCmd = m.mount()
	return m
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return m.initCmd
}

func (m *Model) screen() screenModel {
	return m.screens[m.current]
}

func (m *Model) mount() tea.Cmd {
	m.mountCtx, m.cancel = context.WithCancel(m.ctx)
	s := m.screen()
	m.logger.Debug("mount screen", zap.String("screen", s.Screen().Key()))
	return s.Mount(m.mountCtx)
}

func (m *Model) switchTo(i int) tea.Cmd {
	if i < 0 || i >= len(m.screens) || i == m.current {
		return nil
	}
	m.unmount()
	m.current = i
	m.error = ""
	m.info = ""
	return m.mount()
}

func (m *Model) unmount() {
	if m.cancel != nil {
		m.cancel()
	}
	m.screen().Unmount()
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.unmount()
			return m, tea.Quit
		}

		if m.showingHelp {
			if msg.String() == "esc" || msg.String() == "?" {
				m.showingHelp = false
			}
			return m, nil
		}

		if m.screen().Mode() != model.ModeNav {
			return m, m.screen().Update(m.screenCtx(), msg)
		}
		return m.handleNavMode(msg)

	case model.ChangedMsg:
		// A view model notified its subscribers; the next View call reads the new snapshot.
		return m, nil

	case model.ErrorMsg:
		m.error = msg.Err.Error()
		return m, nil

	case spinner.TickMsg:
		return m, m.screen().Update(m.screenCtx(), msg)

	case model.CollectionLoadedMsg:
		return m, m.route(msg.Screen, msg)
	case model.SavedMsg:
		return m, m.route(msg.Screen, msg)
	case model.DeletedMsg:
		return m, m.route(msg.Screen, msg)
	case model.ImportedMsg:
		return m, m.route(msg.Screen, msg)
	case model.ImportBannerExpiredMsg:
		return m, m.route(msg.Screen, msg)
	case model.ReportLoadedMsg:
		return m, m.route(model.ScreenReports, msg)
	case model.OverviewLoadedMsg:
		return m, m.route(model.ScreenOverview, msg)

	case model.ExportedMsg:
		if msg.Err != nil {
			m.error = "Export failed: " + errorText(msg.Err)
		} else {
			m.error = ""
			m.info = fmt.Sprintf("Exported %d rows to %s", msg.Rows, msg.Path)
			m.lastExport = m.loadLastExport()
		}
		return m, m.route(model.ScreenReports, msg)
	}

	return m, nil
}

// route delivers a screen-tagged message to the screen it belongs to.
func (m *Model) route(screen model.Screen, msg tea.Msg) tea.Cmd {
	i := int(screen)
	if i < 0 || i >= len(m.screens) {
		return nil
	}
	if i != m.current {
		// The screen was unmounted after the command started.
		return nil
	}
	return m.screens[i].Update(m.screenCtx(), msg)
}

func (m *Model) screenCtx() context.Context {
	if m.mountCtx == nil {
		return m.ctx
	}
	return m.mountCtx
}

func (m *Model) loadLastExport() *db.ExportRecord {
	if m.deps.DB == nil {
		return nil
	}
	rec, ok, err := db.LastExport(m.deps.DB)
	if err != nil {
		m.logger.Warn("load last export", zap.Error(err))
		return nil
	}
	if !ok {
		return nil
	}
	return &rec
}

// handleNavMode handles navigation mode input.
func (m Model) handleNavMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Top) {
		if m.gState == GStateFirstG {
			m.gState = GStateIdle
			if t, ok := m.screen().(tabled); ok {
				t.activeTable().JumpToTop()
			}
			return m, nil
		}
		m.gState = GStateFirstG
		return m, nil
	}
	m.gState = GStateIdle

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.unmount()
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showingHelp = true
		return m, nil
	case key.Matches(msg, m.keys.PrevTab):
		return m, m.switchTo((m.current - 1 + len(m.screens)) % len(m.screens))
	case key.Matches(msg, m.keys.NextTab):
		return m, m.switchTo((m.current + 1) % len(m.screens))
	}

	if n, err := strconv.Atoi(msg.String()); err == nil && n >= 1 && n <= len(m.screens) {
		return m, m.switchTo(n - 1)
	}

	m.info = ""
	return m, m.screen().Update(m.screenCtx(), msg)
}

// View renders the UI.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	if m.showingHelp {
		return RenderFullHelp(m.width, m.height)
	}

	s := m.screen()
	status := m.statusText()
	if t, ok := s.(tabled); ok {
		status = t.activeTable().TableMeta() + "  ·  " + status
	}
	header := renderHeader([]string{s.Title()}, status, m.width)
	tabs := renderTabs(m.screens, m.current, m.width)
	footer := RenderHelp(s, m.width)

	var banners []string
	if m.error != "" {
		banners = append(banners, ErrorStyle.Width(m.width).Render("Error: "+m.error))
	}
	if m.info != "" {
		banners = append(banners, SuccessStyle.Width(m.width).Render(m.info))
	}

	contentHeight := m.height - lipgloss.Height(header) - lipgloss.Height(tabs) - lipgloss.Height(footer) - len(banners)
	contentHeight = max(contentHeight, 1)
	content := lipgloss.NewStyle().
		Width(m.width).
		Height(contentHeight).
		MaxHeight(contentHeight).
		Render(s.View(m.width, contentHeight))

	parts := append([]string{header, tabs}, banners...)
	parts = append(parts, content, footer)
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) statusText() string {
	if m.lastExport == nil {
		return time.Now().Format("Mon 02 Jan")
	}
	return fmt.Sprintf("last export %s  ·  %s", util.FormatRelative(m.lastExport.CreatedAt), time.Now().Format("Mon 02 Jan"))
}

func renderTabs(screens []screenModel, current int, width int) string {
	var tabStrings []string
	for i, s := range screens {
		tabStyle := lipgloss.NewStyle().
			Padding(0, 2).
			Foreground(ColorMuted)

		if i == current {
			tabStyle = tabStyle.
				Foreground(ColorText).
				Bold(true).
				Underline(true)
		}

		tabStrings = append(tabStrings, tabStyle.Render(fmt.Sprintf("%d %s", i+1, s.Title())))
	}

	tabBar := lipgloss.JoinHorizontal(lipgloss.Left, tabStrings...)
	return lipgloss.NewStyle().
		Width(width).
		Padding(0, 2).
		BorderBottom(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(ColorMuted).
		Render(tabBar)
}

func renderHeader(breadcrumbParts []string, status string, width int) string {
	title := HeaderStyle.Render("bizdash")

	var breadcrumb string
	if len(breadcrumbParts) > 0 {
		separator := BreadcrumbStyle.Render(" › ")
		parts := make([]string, len(breadcrumbParts))
		for i, part := range breadcrumbParts {
			if i == len(breadcrumbParts)-1 {
				parts[i] = BreadcrumbActiveStyle.Render(part)
			} else {
				parts[i] = BreadcrumbStyle.Render(part)
			}
		}
		breadcrumb = separator + strings.Join(parts, separator)
	}

	left := "  " + title + breadcrumb
	right := BreadcrumbStyle.Render(status) + "  "

	padding := max(width-lipgloss.Width(left)-lipgloss.Width(right), 0)

	headerContent := left + strings.Repeat(" ", padding) + right
	return TitleStyle.Width(width).Render(headerContent)
}
