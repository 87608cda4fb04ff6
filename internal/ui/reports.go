package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"bizdash/internal/api"
	"bizdash/internal/export"
	"bizdash/internal/model"
	"bizdash/internal/util"
)

// reportsScreen shows the HMRC R&D tax credit summary for a date range.
type reportsScreen struct {
	reports   reportSource
	exporter  *exporter
	formatter util.Formatter
	logger    *zap.Logger

	seq         int
	start, end  string
	report      *model.HMRCReport
	loading     bool
	err         error
	downloading string

	editing  bool
	from, to textinput.Model
	projects *table[model.ProjectSpend]

	spinner spinner.Model
	keys    KeyMap
	info    string
}

func newReportsScreen(deps Deps) *reportsScreen {
	from := textinput.New()
	from.Prompt = "From: "
	from.Placeholder = "YYYY-MM-DD"
	to := textinput.New()
	to.Prompt = "To: "
	to.Placeholder = "YYYY-MM-DD"

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = HelpKeyStyle

	s := &reportsScreen{
		reports:   deps.Resources.Reports,
		exporter:  deps.exporter(),
		formatter: deps.Formatter,
		logger:    deps.logger(),
		from:      from,
		to:        to,
		spinner:   sp,
		keys:      DefaultKeyMap(),
		projects: newTable(func(p model.ProjectSpend) string { return p.Project },
			tableColumn[model.ProjectSpend]{key: "project", label: "project", width: 28, value: func(p model.ProjectSpend) string { return p.Project }},
			tableColumn[model.ProjectSpend]{
				key: "hours", label: "qualifying hours", width: 16,
				value:  func(p model.ProjectSpend) string { return sortableNumber(p.QualifyingHours) },
				render: func(p model.ProjectSpend) string { return util.FormatHours(p.QualifyingHours) },
			},
			tableColumn[model.ProjectSpend]{
				key: "spend", label: "expenditure", width: 14,
				value:  func(p model.ProjectSpend) string { return sortableNumber(p.Expenditure) },
				render: func(p model.ProjectSpend) string { return deps.Formatter.Currency(p.Expenditure) },
			},
		),
	}
	s.start, s.end = util.FiscalYear(deps.now())
	return s
}

func (s *reportsScreen) Screen() model.Screen { return model.ScreenReports }
func (s *reportsScreen) Title() string        { return "HMRC R&D" }
func (s *reportsScreen) activeTable() tableController {
	return s.projects
}

func (s *reportsScreen) Mount(ctx context.Context) tea.Cmd {
	return s.fetch(ctx)
}

func (s *reportsScreen) Unmount() {
	s.seq++
	s.report = nil
	s.loading = false
	s.err = nil
	s.downloading = ""
	s.editing = false
	s.info = ""
	s.projects.SetRows(nil)
}

func (s *reportsScreen) Mode() model.Mode {
	if s.editing {
		return model.ModeSearch
	}
	return model.ModeNav
}

func (s *reportsScreen) fetch(ctx context.Context) tea.Cmd {
	s.seq++
	seq, start, end := s.seq, s.start, s.end
	s.loading = true
	return tea.Batch(s.spinner.Tick, func() tea.Msg {
		report, err := s.reports.HMRC(ctx, start, end)
		return model.ReportLoadedMsg{Seq: seq, Report: report, Err: err}
	})
}

func (s *reportsScreen) download(ctx context.Context, format string) tea.Cmd {
	if s.downloading != "" {
		return nil
	}
	s.downloading = format
	start, end := s.start, s.end
	rows := len(s.projects.Rows())
	name := export.RangeFilename("hmrc-rd-report", start, end, format)
	return tea.Batch(s.spinner.Tick, func() tea.Msg {
		blob, err := s.reports.DownloadHMRC(ctx, start, end, format)
		if err != nil {
			s.logger.Warn("report download failed", zap.String("format", format), zap.Int("status", api.StatusCode(err)), zap.Error(err))
			return model.ExportedMsg{Err: err}
		}
		return s.exporter.store(model.ScreenReports, format, name, rows, blob.Data)
	})
}

func (s *reportsScreen) Update(ctx context.Context, msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if s.loading || s.downloading != "" {
			var cmd tea.Cmd
			s.spinner, cmd = s.spinner.Update(msg)
			return cmd
		}
		return nil

	case model.ReportLoadedMsg:
		if msg.Seq != s.seq {
			return nil
		}
		s.loading = false
		if msg.Err != nil {
			s.err = msg.Err
			return nil
		}
		s.err = nil
		report := msg.Report
		s.report = &report
		s.projects.SetRows(report.Projects)
		return nil

	case model.ExportedMsg:
		s.downloading = ""
		return nil

	case tea.KeyMsg:
		if s.editing {
			return s.handleRangeKey(ctx, msg)
		}
		return s.handleNavKey(ctx, msg)
	}
	return nil
}

func (s *reportsScreen) handleNavKey(ctx context.Context, msg tea.KeyMsg) tea.Cmd {
	s.info = ""
	switch {
	case key.Matches(msg, s.keys.Down):
		s.projects.MoveDown()
	case key.Matches(msg, s.keys.Up):
		s.projects.MoveUp()
	case key.Matches(msg, s.keys.Bottom):
		s.projects.JumpToBottom()
	case key.Matches(msg, s.keys.NextColumn):
		s.projects.NextColumn()
	case key.Matches(msg, s.keys.PrevColumn):
		s.projects.PrevColumn()
	case key.Matches(msg, s.keys.SortAsc):
		s.projects.SortActiveColumn(false)
	case key.Matches(msg, s.keys.SortDesc):
		s.projects.SortActiveColumn(true)
	case key.Matches(msg, s.keys.Refresh):
		return s.fetch(ctx)
	case key.Matches(msg, s.keys.DateRange):
		s.from.SetValue(s.start)
		s.to.SetValue(s.end)
		s.to.Blur()
		s.editing = true
		return s.from.Focus()
	case key.Matches(msg, s.keys.ExportCSV):
		return s.download(ctx, "csv")
	case msg.String() == "p":
		return s.download(ctx, "pdf")
	}
	return nil
}

func (s *reportsScreen) handleRangeKey(ctx context.Context, msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "tab", "shift+tab":
		if s.from.Focused() {
			s.from.Blur()
			return s.to.Focus()
		}
		s.to.Blur()
		return s.from.Focus()
	case "esc":
		s.editing = false
		s.from.Blur()
		s.to.Blur()
		return nil
	case "enter":
		start, err := util.ParseDateInput(s.from.Value())
		if err != nil || start == "" {
			s.info = "From: " + errNotADate.Error()
			return nil
		}
		end, err := util.ParseDateInput(s.to.Value())
		if err != nil || end == "" {
			s.info = "To: " + errNotADate.Error()
			return nil
		}
		if end < start {
			s.info = "End date is before start date"
			return nil
		}
		s.start, s.end = start, end
		s.editing = false
		s.from.Blur()
		s.to.Blur()
		return s.fetch(ctx)
	}
	var cmd tea.Cmd
	if s.from.Focused() {
		s.from, cmd = s.from.Update(msg)
	} else {
		s.to, cmd = s.to.Update(msg)
	}
	return cmd
}

func (s *reportsScreen) View(width, height int) string {
	lines := []string{StatusBarStyle.Render("Period: " + rangeLabel(s.start, s.end))}
	switch {
	case s.loading:
		lines = append(lines, StatusBarStyle.Render(s.spinner.View()+" Loading HMRC report…"))
	case s.err != nil:
		lines = append(lines, ErrorStyle.Render("Failed to fetch HMRC report  ·  "+errorText(s.err)+"  ·  press r to retry"))
	}
	if s.downloading != "" {
		lines = append(lines, StatusBarStyle.Render(fmt.Sprintf("%s Downloading %s…", s.spinner.View(), s.downloading)))
	}
	if s.editing {
		lines = append(lines, SearchStyle.Render(s.from.View()+"   "+s.to.View()))
	}
	if s.info != "" {
		lines = append(lines, ErrorStyle.Render(s.info))
	}

	if s.report == nil {
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	r := s.report
	f := s.formatter
	lines = append(lines,
		renderCardRow(width,
			card("Total hours", f.Number(r.TotalHours, 1)+"h"),
			card("Qualifying hours", f.Number(r.QualifyingHours, 1)+"h"),
			card("Estimated credit", f.Currency(r.EstimatedCredit)),
		),
		renderCardRow(width,
			card("Staff costs", f.Currency(r.StaffCosts)),
			card("Materials", f.Currency(r.MaterialCosts)),
			card("Subcontractors", f.Currency(r.SubcontractorCosts)),
		),
		renderCardRow(width,
			card("Qualifying spend", f.Currency(r.QualifyingExpenditure)),
			card("Enhanced spend", f.Currency(r.EnhancedExpenditure)),
		),
	)

	used := lipgloss.Height(lipgloss.JoinVertical(lipgloss.Left, lines...))
	body := s.projects.View(width, max(4, height-used), "    No qualifying projects in this period.", "")
	return lipgloss.JoinVertical(lipgloss.Left, append(lines, body)...)
}

func (s *reportsScreen) Help() []string {
	if s.editing {
		return []string{helpKey("tab", "switch"), helpKey("enter", "apply"), helpKey("esc", "cancel")}
	}
	return []string{
		helpKey("j/k", "navigate"),
		helpKey("f", "date range"),
		helpKey("x", "download csv"),
		helpKey("p", "download pdf"),
		helpKey("r", "refresh"),
	}
}
