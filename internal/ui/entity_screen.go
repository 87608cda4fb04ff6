package ui

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"bizdash/internal/db"
	"bizdash/internal/entity"
	"bizdash/internal/export"
	"bizdash/internal/model"
	"bizdash/internal/resources"
	"bizdash/internal/util"
)

type inputMode int

const (
	inputNone inputMode = iota
	inputSearch
	inputImport
	inputRange
)

// entityScreen renders one managed collection: a table, a search box,
// a create/edit form and a delete prompt.
type entityScreen[T entity.Record, D any] struct {
	screen model.Screen
	title  string
	mgr    *entity.Manager[T, D]

	table  *table[T]
	fields []fieldSpec[D]
	form   *formView[D]

	input      inputMode
	search     textinput.Model
	importPath textinput.Model
	rangeFrom  textinput.Model
	rangeTo    textinput.Model
	dateRange  *resources.DateRange

	csvColumns   []export.Column[T]
	exportPrefix string
	exporter     *exporter
	summary      func([]T) string

	prefsDB     *sql.DB
	logger      *zap.Logger
	spinner     spinner.Model
	keys        KeyMap
	formKeys    FormKeyMap
	confirmKeys ConfirmKeyMap
	info        string
}

type entityScreenConfig[T entity.Record, D any] struct {
	screen       model.Screen
	title        string
	mgr          *entity.Manager[T, D]
	columns      []tableColumn[T]
	fields       []fieldSpec[D]
	csvColumns   []export.Column[T]
	exportPrefix string
	dateRange    *resources.DateRange
	summary      func([]T) string
}

func newEntityScreen[T entity.Record, D any](cfg entityScreenConfig[T, D], deps Deps) *entityScreen[T, D] {
	search := textinput.New()
	search.Placeholder = "Search " + strings.ToLower(cfg.title)
	search.Prompt = "/ "

	importPath := textinput.New()
	importPath.Placeholder = "path/to/" + cfg.exportPrefix + ".csv"
	importPath.Prompt = "Import CSV: "
	importPath.CharLimit = 512

	rangeFrom := textinput.New()
	rangeFrom.Placeholder = "start (YYYY-MM-DD)"
	rangeFrom.Prompt = "From: "
	rangeTo := textinput.New()
	rangeTo.Placeholder = "end (YYYY-MM-DD)"
	rangeTo.Prompt = "To: "

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = HelpKeyStyle

	s := &entityScreen[T, D]{
		screen:       cfg.screen,
		title:        cfg.title,
		mgr:          cfg.mgr,
		table:        newTable(func(item T) string { return item.RecordID() }, cfg.columns...),
		fields:       cfg.fields,
		search:       search,
		importPath:   importPath,
		rangeFrom:    rangeFrom,
		rangeTo:      rangeTo,
		dateRange:    cfg.dateRange,
		csvColumns:   cfg.csvColumns,
		exportPrefix: cfg.exportPrefix,
		exporter:     deps.exporter(),
		summary:      cfg.summary,
		prefsDB:      deps.DB,
		logger:       deps.logger(),
		spinner:      sp,
		keys:         DefaultKeyMap(),
		formKeys:     DefaultFormKeyMap(),
		confirmKeys:  DefaultConfirmKeyMap(),
	}
	s.table.ApplyPrefs(loadTablePrefs(s.prefsDB, s.screen, s.logger))
	return s
}

func (s *entityScreen[T, D]) Screen() model.Screen { return s.screen }
func (s *entityScreen[T, D]) Title() string        { return s.title }

func (s *entityScreen[T, D]) activeTable() tableController {
	return s.table
}

func (s *entityScreen[T, D]) Mount(ctx context.Context) tea.Cmd {
	return tea.Batch(s.spinner.Tick, func() tea.Msg {
		return model.CollectionLoadedMsg{Screen: s.screen, Err: s.mgr.Mount(ctx)}
	})
}

func (s *entityScreen[T, D]) Unmount() {
	s.mgr.Unmount()
	s.form = nil
	s.input = inputNone
	s.search.SetValue("")
	s.info = ""
}

func (s *entityScreen[T, D]) Mode() model.Mode {
	switch {
	case s.mgr.Form.IsOpen():
		return model.ModeInsert
	case s.mgr.Deletion.IsConfirming():
		return model.ModeConfirm
	case s.input != inputNone:
		return model.ModeSearch
	default:
		return model.ModeNav
	}
}

func (s *entityScreen[T, D]) sync() {
	s.table.SetRows(s.mgr.List.Visible())
	if !s.mgr.Form.IsOpen() {
		s.form = nil
	}
}

func (s *entityScreen[T, D]) refreshCmd(ctx context.Context) tea.Cmd {
	return tea.Batch(s.spinner.Tick, func() tea.Msg {
		if s.mgr.List.Snapshot().Err != nil {
			return model.CollectionLoadedMsg{Screen: s.screen, Err: s.mgr.List.Retry(ctx)}
		}
		return model.CollectionLoadedMsg{Screen: s.screen, Err: s.mgr.Refresh(ctx)}
	})
}

func (s *entityScreen[T, D]) Update(ctx context.Context, msg tea.Msg) tea.Cmd {
	defer s.sync()

	switch msg := msg.(type) {
	case spinner.TickMsg:
		if s.busy() {
			var cmd tea.Cmd
			s.spinner, cmd = s.spinner.Update(msg)
			return cmd
		}
		return nil

	case model.SavedMsg:
		if msg.Err == nil {
			s.form = nil
			s.info = fmt.Sprintf("%s saved", capitalize(s.mgr.Singular()))
		}
		return nil

	case model.DeletedMsg:
		if msg.Err == nil {
			s.info = fmt.Sprintf("Deleted %s", msg.Name)
		}
		return nil

	case model.ImportedMsg:
		if s.mgr.Importer == nil {
			return nil
		}
		seq := s.mgr.Importer.Snapshot().Seq
		return tea.Tick(entity.BannerTimeout, func(time.Time) tea.Msg {
			return model.ImportBannerExpiredMsg{Screen: s.screen, Seq: seq}
		})

	case model.ImportBannerExpiredMsg:
		if s.mgr.Importer != nil {
			s.mgr.Importer.Dismiss(msg.Seq)
		}
		return nil

	case tea.KeyMsg:
		s.sync()
		switch s.Mode() {
		case model.ModeInsert:
			return s.handleFormKey(ctx, msg)
		case model.ModeConfirm:
			return s.handleConfirmKey(ctx, msg)
		case model.ModeSearch:
			return s.handleInputKey(ctx, msg)
		default:
			return s.handleNavKey(ctx, msg)
		}
	}
	return nil
}

func (s *entityScreen[T, D]) busy() bool {
	if s.mgr.List.Snapshot().Status == entity.StatusLoading {
		return true
	}
	if s.mgr.Form.Snapshot().Submitting || s.mgr.Deletion.Snapshot().Busy {
		return true
	}
	return s.mgr.Importer != nil && s.mgr.Importer.Snapshot().Busy
}

func (s *entityScreen[T, D]) handleNavKey(ctx context.Context, msg tea.KeyMsg) tea.Cmd {
	s.info = ""
	switch {
	case key.Matches(msg, s.keys.Down):
		s.table.MoveDown()
	case key.Matches(msg, s.keys.Up):
		s.table.MoveUp()
	case key.Matches(msg, s.keys.Bottom):
		s.table.JumpToBottom()
	case key.Matches(msg, s.keys.HalfPageDown):
		s.table.HalfPageDown(s.table.viewportHeight)
	case key.Matches(msg, s.keys.HalfPageUp):
		s.table.HalfPageUp(s.table.viewportHeight)

	case key.Matches(msg, s.keys.NextColumn):
		s.table.NextColumn()
		s.persistPrefs()
	case key.Matches(msg, s.keys.PrevColumn):
		s.table.PrevColumn()
		s.persistPrefs()
	case key.Matches(msg, s.keys.SortAsc):
		s.table.SortActiveColumn(false)
		s.info = "Sorted ascending"
		s.persistPrefs()
	case key.Matches(msg, s.keys.SortDesc):
		s.table.SortActiveColumn(true)
		s.info = "Sorted descending"
		s.persistPrefs()
	case key.Matches(msg, s.keys.HideColumn):
		if s.table.HideActiveColumn() {
			s.info = "Column hidden"
			s.persistPrefs()
		} else {
			s.info = "Cannot hide last visible column"
		}
	case key.Matches(msg, s.keys.ShowColumns):
		s.table.ShowAllColumns()
		s.info = "All columns shown"
		s.persistPrefs()

	case key.Matches(msg, s.keys.Search):
		s.input = inputSearch
		s.search.SetValue(s.mgr.List.Term())
		s.search.CursorEnd()
		return s.search.Focus()

	case key.Matches(msg, s.keys.Refresh):
		return s.refreshCmd(ctx)

	case key.Matches(msg, s.keys.Add):
		if err := s.mgr.OpenCreate(); err != nil {
			s.info = errorText(err)
			return nil
		}
		s.form = newFormView(s.fields, s.mgr.Form.Snapshot().Draft)

	case key.Matches(msg, s.keys.Edit):
		item, ok := s.table.Selected()
		if !ok {
			return nil
		}
		if err := s.mgr.OpenEdit(item); err != nil {
			s.info = errorText(err)
			return nil
		}
		s.form = newFormView(s.fields, s.mgr.Form.Snapshot().Draft)

	case key.Matches(msg, s.keys.Delete):
		item, ok := s.table.Selected()
		if !ok {
			return nil
		}
		if err := s.mgr.RequestDelete(item); err != nil {
			s.info = errorText(err)
		}

	case key.Matches(msg, s.keys.Import):
		if s.mgr.Importer == nil {
			return nil
		}
		s.input = inputImport
		return s.importPath.Focus()

	case key.Matches(msg, s.keys.DateRange):
		if s.dateRange == nil {
			return nil
		}
		start, end := s.dateRange.Bounds()
		s.rangeFrom.SetValue(start)
		s.rangeTo.SetValue(end)
		s.rangeTo.Blur()
		s.input = inputRange
		return s.rangeFrom.Focus()

	case key.Matches(msg, s.keys.ExportCSV):
		rows := s.table.Rows()
		name := export.DatedFilename(s.exportPrefix, "csv", s.exporter.now())
		return s.exporter.write(s.screen, "csv", name, len(rows), func(w io.Writer) error {
			return export.CSV(w, s.csvColumns, rows)
		})

	case key.Matches(msg, s.keys.ExportJSON):
		rows := s.table.Rows()
		name := export.DatedFilename(s.exportPrefix, "json", s.exporter.now())
		return s.exporter.write(s.screen, "json", name, len(rows), func(w io.Writer) error {
			return export.JSON(w, rows)
		})
	}
	return nil
}

func (s *entityScreen[T, D]) handleFormKey(ctx context.Context, msg tea.KeyMsg) tea.Cmd {
	st := s.mgr.Form.Snapshot()
	if st.Submitting {
		return nil
	}
	if s.form == nil {
		s.form = newFormView(s.fields, st.Draft)
	}
	switch {
	case key.Matches(msg, s.formKeys.Cancel):
		s.mgr.Form.Cancel()
		s.form = nil
		return nil
	case key.Matches(msg, s.formKeys.Save):
		draft, err := s.form.Draft(st.Draft)
		if err != nil {
			s.mgr.Form.Fail(err)
			return nil
		}
		s.mgr.Form.SetDraft(draft)
		op := "create"
		if _, ok := entity.EditID(st.Mode); ok {
			op = "update"
		}
		return tea.Batch(s.spinner.Tick, func() tea.Msg {
			return model.SavedMsg{Screen: s.screen, Operation: op, Err: s.mgr.Form.Submit(ctx)}
		})
	}
	return s.form.Update(msg, s.formKeys)
}

func (s *entityScreen[T, D]) handleConfirmKey(ctx context.Context, msg tea.KeyMsg) tea.Cmd {
	st := s.mgr.Deletion.Snapshot()
	if st.Busy {
		return nil
	}
	switch {
	case key.Matches(msg, s.confirmKeys.Confirm):
		name := s.mgr.Label(st.Candidate)
		return tea.Batch(s.spinner.Tick, func() tea.Msg {
			return model.DeletedMsg{Screen: s.screen, Name: name, Err: s.mgr.Deletion.Confirm(ctx)}
		})
	case key.Matches(msg, s.confirmKeys.Cancel):
		s.mgr.Deletion.Cancel()
	}
	return nil
}

func (s *entityScreen[T, D]) handleInputKey(ctx context.Context, msg tea.KeyMsg) tea.Cmd {
	switch s.input {
	case inputSearch:
		switch msg.String() {
		case "enter":
			s.input = inputNone
			s.search.Blur()
			return nil
		case "esc":
			s.input = inputNone
			s.search.Blur()
			s.search.SetValue("")
			s.mgr.List.SetTerm("")
			return nil
		}
		var cmd tea.Cmd
		s.search, cmd = s.search.Update(msg)
		s.mgr.List.SetTerm(s.search.Value())
		return cmd

	case inputImport:
		switch msg.String() {
		case "enter":
			path := strings.TrimSpace(s.importPath.Value())
			s.input = inputNone
			s.importPath.Blur()
			s.importPath.SetValue("")
			if path == "" {
				return nil
			}
			return tea.Batch(s.spinner.Tick, func() tea.Msg {
				err := s.mgr.Importer.ImportFile(ctx, path)
				return model.ImportedMsg{Screen: s.screen, Result: s.mgr.Importer.Snapshot().Result, Err: err}
			})
		case "esc":
			s.input = inputNone
			s.importPath.Blur()
			s.importPath.SetValue("")
			return nil
		}
		var cmd tea.Cmd
		s.importPath, cmd = s.importPath.Update(msg)
		return cmd

	case inputRange:
		switch msg.String() {
		case "tab", "shift+tab":
			if s.rangeFrom.Focused() {
				s.rangeFrom.Blur()
				return s.rangeTo.Focus()
			}
			s.rangeTo.Blur()
			return s.rangeFrom.Focus()
		case "esc":
			s.input = inputNone
			s.rangeFrom.Blur()
			s.rangeTo.Blur()
			return nil
		case "enter":
			return s.applyRange(ctx)
		}
		var cmd tea.Cmd
		if s.rangeFrom.Focused() {
			s.rangeFrom, cmd = s.rangeFrom.Update(msg)
		} else {
			s.rangeTo, cmd = s.rangeTo.Update(msg)
		}
		return cmd
	}
	return nil
}

func (s *entityScreen[T, D]) applyRange(ctx context.Context) tea.Cmd {
	start, err := util.ParseDateInput(s.rangeFrom.Value())
	if err != nil {
		s.info = "From: " + errNotADate.Error()
		return nil
	}
	end, err := util.ParseDateInput(s.rangeTo.Value())
	if err != nil {
		s.info = "To: " + errNotADate.Error()
		return nil
	}
	if err := s.dateRange.Set(start, end); err != nil {
		s.info = errorText(err)
		return nil
	}
	s.input = inputNone
	s.rangeFrom.Blur()
	s.rangeTo.Blur()
	s.info = rangeLabel(start, end)
	return s.refreshCmd(ctx)
}

func rangeLabel(start, end string) string {
	switch {
	case start == "" && end == "":
		return "All dates"
	case start == "":
		return "Up to " + util.FormatDate(end)
	case end == "":
		return "From " + util.FormatDate(start)
	default:
		return util.FormatDate(start) + " – " + util.FormatDate(end)
	}
}

func (s *entityScreen[T, D]) persistPrefs() {
	saveTablePrefs(s.prefsDB, s.screen, s.table.Prefs(), s.logger)
}

func (s *entityScreen[T, D]) View(width, height int) string {
	s.sync()

	if st := s.mgr.Form.Snapshot(); st.Open {
		if s.form == nil {
			s.form = newFormView(s.fields, st.Draft)
		}
		title := "New " + s.mgr.Singular()
		if _, ok := entity.EditID(st.Mode); ok {
			title = "Edit " + s.mgr.Singular()
		}
		return s.form.View(width, height, title, st)
	}

	var top []string
	list := s.mgr.List.Snapshot()
	switch {
	case list.Status == entity.StatusLoading:
		top = append(top, StatusBarStyle.Render(s.spinner.View()+" Loading "+s.mgr.Resource()+"…"))
	case list.Err != nil:
		text := list.Err.Error()
		if detail := errorText(errors.Unwrap(list.Err)); detail != "" {
			text += "  ·  " + detail
		}
		top = append(top, ErrorStyle.Render(text+"  ·  press r to retry"))
	}
	if s.mgr.Importer != nil {
		if banner := renderImportBanner(s.mgr.Importer.Snapshot(), s.spinner.View()); banner != "" {
			top = append(top, banner)
		}
	}
	if s.dateRange != nil {
		start, end := s.dateRange.Bounds()
		top = append(top, StatusBarStyle.Render("Range: "+rangeLabel(start, end)))
	}
	switch s.input {
	case inputSearch:
		top = append(top, SearchStyle.Render(s.search.View()))
	case inputImport:
		top = append(top, SearchStyle.Render(s.importPath.View()))
	case inputRange:
		top = append(top, SearchStyle.Render(s.rangeFrom.View()+"   "+s.rangeTo.View()))
	default:
		if list.Term != "" {
			top = append(top, StatusBarStyle.Render(fmt.Sprintf("search: %q  (%d of %d)", list.Term, len(list.Visible), len(list.Items))))
		}
	}
	if s.info != "" {
		top = append(top, SuccessStyle.Render(s.info))
	}

	tableHeight := max(4, height-len(top))
	summary := ""
	if s.summary != nil {
		summary = s.summary(s.table.Rows())
	}
	body := s.table.View(width, tableHeight, s.emptyMessage(list), summary)

	if st := s.mgr.Deletion.Snapshot(); st.Confirming {
		body = lipgloss.Place(width, tableHeight, lipgloss.Center, lipgloss.Center, s.renderConfirm(st))
	}

	return lipgloss.JoinVertical(lipgloss.Left, append(top, body)...)
}

func (s *entityScreen[T, D]) emptyMessage(list entity.ListState[T]) string {
	switch {
	case !list.Loaded:
		return ""
	case list.Term != "":
		return fmt.Sprintf("    No %s match %q.", s.mgr.Resource(), list.Term)
	default:
		return fmt.Sprintf("    No %s yet.\n    Press  a  to add one.", s.mgr.Resource())
	}
}

func (s *entityScreen[T, D]) renderConfirm(st entity.DeletionState[T]) string {
	lines := []string{LabelStyle.Render(s.mgr.Prompt()), ""}
	switch {
	case st.Busy:
		lines = append(lines, StatusBarStyle.Render(s.spinner.View()+" Deleting…"))
	case st.Err != nil:
		lines = append(lines, ErrorStyle.Render(errorText(st.Err)), "")
		fallthrough
	default:
		lines = append(lines, helpKey("y", "delete")+"  "+helpKey("n/esc", "cancel"))
	}
	return ModalStyle.Render(strings.Join(lines, "\n"))
}

func renderImportBanner(st entity.ImportState, spin string) string {
	switch {
	case st.Busy:
		return StatusBarStyle.Render(spin + " Importing…")
	case st.Err != nil:
		return ErrorStyle.Render("Import failed: " + errorText(st.Err))
	case st.Result != nil:
		msg := st.Result.Message
		if st.Result.Imported != nil {
			msg += fmt.Sprintf("  ·  imported %d", *st.Result.Imported)
		}
		if st.Result.Skipped != nil {
			msg += fmt.Sprintf("  ·  skipped %d", *st.Result.Skipped)
		}
		out := SuccessStyle.Render(msg)
		for _, e := range st.Result.Errors {
			out += "\n" + ErrorStyle.Render("  "+e)
		}
		return out
	}
	return ""
}

func (s *entityScreen[T, D]) Help() []string {
	switch s.Mode() {
	case model.ModeInsert:
		return []string{
			helpKey("tab", "next field"),
			helpKey("shift+tab", "prev field"),
			helpKey("ctrl+s", "save"),
			helpKey("esc", "cancel"),
		}
	case model.ModeConfirm:
		return []string{helpKey("y", "delete"), helpKey("n/esc", "cancel")}
	case model.ModeSearch:
		if s.input == inputRange {
			return []string{helpKey("tab", "switch"), helpKey("enter", "apply"), helpKey("esc", "cancel")}
		}
		return []string{helpKey("enter", "keep"), helpKey("esc", "clear")}
	}
	keys := []string{
		helpKey("j/k", "navigate"),
		helpKey("/", "search"),
		helpKey("a", "add"),
		helpKey("e", "edit"),
		helpKey("d", "delete"),
		helpKey("s/S", "sort"),
		helpKey("x/X", "export"),
	}
	if s.mgr.Importer != nil {
		keys = append(keys, helpKey("i", "import"))
	}
	if s.dateRange != nil {
		keys = append(keys, helpKey("f", "date range"))
	}
	return append(keys, helpKey("r", "refresh"))
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func loadTablePrefs(conn *sql.DB, screen model.Screen, logger *zap.Logger) db.TablePrefs {
	if conn == nil {
		return db.TablePrefs{}
	}
	prefs, err := db.GetTablePrefs(conn, screen.Key())
	if err != nil {
		logger.Warn("load table prefs", zap.String("screen", screen.Key()), zap.Error(err))
	}
	return prefs
}

func saveTablePrefs(conn *sql.DB, screen model.Screen, prefs db.TablePrefs, logger *zap.Logger) {
	if conn == nil {
		return
	}
	if err := db.SaveTablePrefs(conn, screen.Key(), prefs); err != nil {
		logger.Warn("save table prefs", zap.String("screen", screen.Key()), zap.Error(err))
	}
}
