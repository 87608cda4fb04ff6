package ui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"bizdash/internal/model"
	"bizdash/internal/util"
)

// overviewScreen shows the financial overview and the current quarter's R&D position.
type overviewScreen struct {
	reports   reportSource
	formatter util.Formatter
	logger    *zap.Logger
	clock     func() time.Time

	seq      int
	overview *model.FinancialOverview
	quarter  *model.HMRCReport
	loading  bool
	err      error

	monthly *table[model.MonthlyTotal]
	spinner spinner.Model
	keys    KeyMap
}

func newOverviewScreen(deps Deps) *overviewScreen {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = HelpKeyStyle

	f := deps.Formatter
	return &overviewScreen{
		reports:   deps.Resources.Reports,
		formatter: f,
		logger:    deps.logger(),
		clock:     deps.now,
		spinner:   sp,
		keys:      DefaultKeyMap(),
		monthly: newTable(func(m model.MonthlyTotal) string { return m.Month },
			tableColumn[model.MonthlyTotal]{key: "month", label: "month", width: 10, value: func(m model.MonthlyTotal) string { return m.Month }},
			tableColumn[model.MonthlyTotal]{
				key: "revenue", label: "revenue", width: 14,
				value:  func(m model.MonthlyTotal) string { return sortableNumber(m.Revenue) },
				render: func(m model.MonthlyTotal) string { return f.Currency(m.Revenue) },
			},
			tableColumn[model.MonthlyTotal]{
				key: "expenses", label: "expenses", width: 14,
				value:  func(m model.MonthlyTotal) string { return sortableNumber(m.Expenses) },
				render: func(m model.MonthlyTotal) string { return f.Currency(m.Expenses) },
			},
			tableColumn[model.MonthlyTotal]{
				key: "net", label: "net", width: 14,
				value:  func(m model.MonthlyTotal) string { return sortableNumber(m.Revenue - m.Expenses) },
				render: func(m model.MonthlyTotal) string { return f.Currency(m.Revenue - m.Expenses) },
			},
		),
	}
}

func (s *overviewScreen) Screen() model.Screen { return model.ScreenOverview }
func (s *overviewScreen) Title() string        { return "Overview" }

func (s *overviewScreen) activeTable() tableController {
	return s.monthly
}

func (s *overviewScreen) Mount(ctx context.Context) tea.Cmd {
	return s.fetch(ctx)
}

func (s *overviewScreen) Unmount() {
	s.seq++
	s.overview = nil
	s.quarter = nil
	s.loading = false
	s.err = nil
	s.monthly.SetRows(nil)
}

func (s *overviewScreen) Mode() model.Mode { return model.ModeNav }

// fetch loads the overview and the current quarter's HMRC summary together.
// A failed quarter summary is logged and leaves the R&D card empty.
func (s *overviewScreen) fetch(ctx context.Context) tea.Cmd {
	s.seq++
	seq := s.seq
	s.loading = true
	start, end := util.CalendarQuarter(s.clock())
	return tea.Batch(s.spinner.Tick, func() tea.Msg {
		var (
			overview model.FinancialOverview
			quarter  *model.HMRCReport
		)
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			overview, err = s.reports.Overview(gctx)
			return err
		})
		g.Go(func() error {
			report, err := s.reports.HMRC(gctx, start, end)
			if err != nil {
				s.logger.Warn("quarter hmrc summary", zap.String("start", start), zap.Error(err))
				return nil
			}
			quarter = &report
			return nil
		})
		err := g.Wait()
		return model.OverviewLoadedMsg{Seq: seq, Overview: overview, Quarter: quarter, Err: err}
	})
}

func (s *overviewScreen) Update(ctx context.Context, msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if s.loading {
			var cmd tea.Cmd
			s.spinner, cmd = s.spinner.Update(msg)
			return cmd
		}
		return nil

	case model.OverviewLoadedMsg:
		if msg.Seq != s.seq {
			return nil
		}
		s.loading = false
		if msg.Err != nil {
			s.err = msg.Err
			return nil
		}
		s.err = nil
		overview := msg.Overview
		s.overview = &overview
		s.quarter = msg.Quarter
		s.monthly.SetRows(overview.Monthly)
		return nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, s.keys.Down):
			s.monthly.MoveDown()
		case key.Matches(msg, s.keys.Up):
			s.monthly.MoveUp()
		case key.Matches(msg, s.keys.Bottom):
			s.monthly.JumpToBottom()
		case key.Matches(msg, s.keys.Refresh):
			return s.fetch(ctx)
		}
	}
	return nil
}

func (s *overviewScreen) View(width, height int) string {
	var lines []string
	switch {
	case s.loading:
		lines = append(lines, StatusBarStyle.Render(s.spinner.View()+" Loading overview…"))
	case s.err != nil:
		lines = append(lines, ErrorStyle.Render("Failed to fetch financial overview  ·  "+errorText(s.err)+"  ·  press r to retry"))
	}
	if s.overview == nil {
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	o := s.overview
	f := s.formatter
	if o.Period != "" {
		lines = append(lines, StatusBarStyle.Render("Period: "+o.Period))
	}
	lines = append(lines,
		renderCardRow(width,
			card("Revenue", f.Currency(o.Revenue)),
			card("Expenses", f.Currency(o.Expenses)),
			card("Profit", signedMoney(o.Profit, f.Currency(o.Profit))),
		),
		renderCardRow(width,
			card("Outstanding", f.Currency(o.OutstandingInvoices)),
			card("Cash", f.Currency(o.CashBalance)),
			s.quarterCard(),
		),
	)

	used := lipgloss.Height(lipgloss.JoinVertical(lipgloss.Left, lines...))
	body := s.monthly.View(width, max(4, height-used), "    No monthly figures yet.", "")
	return lipgloss.JoinVertical(lipgloss.Left, append(lines, body)...)
}

func (s *overviewScreen) quarterCard() string {
	if s.quarter == nil {
		return card("R&D this quarter", util.Placeholder)
	}
	return card("R&D this quarter", s.formatter.Currency(s.quarter.EstimatedCredit))
}

func (s *overviewScreen) Help() []string {
	return []string{helpKey("j/k", "navigate"), helpKey("r", "refresh")}
}

func card(label, value string) string {
	return CardStyle.Render(HelpDescStyle.Render(label) + "\n" + CardValueStyle.Render(value))
}

// renderCardRow lays cards side by side, wrapping onto further rows when width runs out.
func renderCardRow(width int, cards ...string) string {
	var rows []string
	var row []string
	used := 0
	for _, c := range cards {
		w := lipgloss.Width(c)
		if len(row) > 0 && used+w > width {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
			row, used = nil, 0
		}
		row = append(row, c)
		used += w
	}
	if len(row) > 0 {
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
