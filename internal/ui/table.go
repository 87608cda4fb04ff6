package ui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"bizdash/internal/db"
	"bizdash/internal/util"
)

type tableColumn[T any] struct {
	key    string
	label  string
	width  int
	hidden bool
	// value is the sortable text of a cell.
	value func(T) string
	// render overrides the displayed text; defaults to value.
	render func(T) string
}

// table is a scrollable, sortable grid over the visible rows of a list.
type table[T any] struct {
	allRows []T
	rows    []T
	cursor  int
	offset  int

	viewportHeight int

	columns      []tableColumn[T]
	activeColumn int
	sortKey      string
	sortDesc     bool

	id func(T) string
}

func newTable[T any](id func(T) string, columns ...tableColumn[T]) *table[T] {
	return &table[T]{columns: columns, id: id}
}

// SetRows replaces the rows and keeps the cursor on the same record when it survives.
func (t *table[T]) SetRows(rows []T) {
	selected := ""
	if item, ok := t.Selected(); ok {
		selected = t.id(item)
	}
	t.allRows = rows
	t.rebuild()
	if selected == "" {
		return
	}
	for i, r := range t.rows {
		if t.id(r) == selected {
			t.cursor = i
			t.scrollToCursor()
			return
		}
	}
}

func (t *table[T]) ApplyPrefs(prefs db.TablePrefs) {
	if prefs.SortKey != "" && t.columnIndex(prefs.SortKey) >= 0 {
		t.sortKey = prefs.SortKey
		t.sortDesc = prefs.SortDesc
	}
	hidden := make(map[string]bool, len(prefs.HiddenColumns))
	for _, c := range prefs.HiddenColumns {
		hidden[c] = true
	}
	for i := range t.columns {
		t.columns[i].hidden = hidden[t.columns[i].key]
	}
	if idx := t.columnIndex(prefs.ActiveColumn); idx >= 0 {
		t.activeColumn = idx
	}
	t.ensureVisibleActiveColumn()
	t.rebuild()
}

func (t *table[T]) Prefs() db.TablePrefs {
	var hidden []string
	for _, c := range t.columns {
		if c.hidden {
			hidden = append(hidden, c.key)
		}
	}
	return db.TablePrefs{
		SortKey:       t.sortKey,
		SortDesc:      t.sortDesc,
		HiddenColumns: hidden,
		ActiveColumn:  t.columns[t.activeColumn].key,
	}
}

func (t *table[T]) columnIndex(key string) int {
	if key == "" {
		return -1
	}
	for i, c := range t.columns {
		if c.key == key {
			return i
		}
	}
	return -1
}

func (t *table[T]) rebuild() {
	rows := append([]T(nil), t.allRows...)

	if idx := t.columnIndex(t.sortKey); idx >= 0 {
		value := t.columns[idx].value
		sort.SliceStable(rows, func(i, j int) bool {
			left := strings.ToLower(value(rows[i]))
			right := strings.ToLower(value(rows[j]))
			if t.sortDesc {
				return left > right
			}
			return left < right
		})
	}

	t.rows = rows
	t.clampCursor()
}

func (t *table[T]) clampCursor() {
	if len(t.rows) == 0 {
		t.cursor = 0
		t.offset = 0
		return
	}
	if t.cursor >= len(t.rows) {
		t.cursor = len(t.rows) - 1
	}
	if t.cursor < 0 {
		t.cursor = 0
	}
	if t.offset > t.cursor {
		t.offset = t.cursor
	}
}

// Selected returns the record under the cursor.
func (t *table[T]) Selected() (T, bool) {
	if t.cursor < 0 || t.cursor >= len(t.rows) {
		var zero T
		return zero, false
	}
	return t.rows[t.cursor], true
}

// Rows returns the rows in display order.
func (t *table[T]) Rows() []T {
	return t.rows
}

func (t *table[T]) visibleColumnIndexes() []int {
	var idxs []int
	for i, c := range t.columns {
		if !c.hidden {
			idxs = append(idxs, i)
		}
	}
	return idxs
}

func (t *table[T]) ensureVisibleActiveColumn() {
	if !t.columns[t.activeColumn].hidden {
		return
	}
	for i := range t.columns {
		if !t.columns[i].hidden {
			t.activeColumn = i
			return
		}
	}
	t.columns[0].hidden = false
	t.activeColumn = 0
}

func (t *table[T]) NextColumn() {
	start := t.activeColumn
	for {
		t.activeColumn = (t.activeColumn + 1) % len(t.columns)
		if !t.columns[t.activeColumn].hidden || t.activeColumn == start {
			return
		}
	}
}

func (t *table[T]) PrevColumn() {
	start := t.activeColumn
	for {
		t.activeColumn--
		if t.activeColumn < 0 {
			t.activeColumn = len(t.columns) - 1
		}
		if !t.columns[t.activeColumn].hidden || t.activeColumn == start {
			return
		}
	}
}

func (t *table[T]) SortActiveColumn(desc bool) {
	t.sortKey = t.columns[t.activeColumn].key
	t.sortDesc = desc
	t.rebuild()
}

func (t *table[T]) HideActiveColumn() bool {
	if len(t.visibleColumnIndexes()) <= 1 {
		return false
	}
	t.columns[t.activeColumn].hidden = true
	t.ensureVisibleActiveColumn()
	return true
}

func (t *table[T]) ShowAllColumns() {
	for i := range t.columns {
		t.columns[i].hidden = false
	}
}

func (t *table[T]) TableMeta() string {
	col := strings.ToUpper(t.columns[t.activeColumn].label)
	parts := []string{fmt.Sprintf("col %s", col)}
	if idx := t.columnIndex(t.sortKey); idx >= 0 {
		order := "asc"
		if t.sortDesc {
			order = "desc"
		}
		parts = append(parts, fmt.Sprintf("sort %s %s", strings.ToUpper(t.columns[idx].label), order))
	}
	return strings.Join(parts, "  ·  ")
}

// View renders the grid. summary is appended to the status line.
func (t *table[T]) View(width, height int, emptyMsg, summary string) string {
	if len(t.rows) == 0 {
		return EmptyStateStyle.
			Width(width).
			Height(height).
			Render(emptyMsg)
	}

	visible := t.visibleColumnIndexes()
	widths := make([]int, 0, len(visible))
	headers := make([]string, 0, len(visible))
	totalFixed := 0
	for _, idx := range visible {
		col := t.columns[idx]
		label := strings.ToUpper(col.label)
		if idx == t.activeColumn {
			label = "[" + label + "]"
		}
		if t.sortKey == col.key {
			if t.sortDesc {
				label += " ↓"
			} else {
				label += " ↑"
			}
		}
		cellWidth := max(col.width+2, lipgloss.Width(label)+2)
		totalFixed += cellWidth
		widths = append(widths, cellWidth)
		headers = append(headers, label)
	}
	if extra := width - totalFixed - 2; extra > 0 && len(widths) > 0 {
		widths[len(widths)-1] += extra
	}

	header := renderTableRow(headers, widths, TableHeaderStyle)
	divider := renderTableDivider(widths)

	visibleHeight := max(1, height-3)
	t.viewportHeight = visibleHeight
	t.scrollToCursor()

	var rows []string
	for i := t.offset; i < len(t.rows) && i < t.offset+visibleHeight; i++ {
		row := t.rows[i]
		style := NormalRowStyle
		if i == t.cursor {
			style = SelectedRowStyle
		}

		cells := make([]string, 0, len(visible))
		for _, idx := range visible {
			col := t.columns[idx]
			render := col.render
			if render == nil {
				render = col.value
			}
			text := render(row)
			if text == "" {
				text = util.Placeholder
			}
			cells = append(cells, util.TruncateString(text, col.width))
		}
		rows = append(rows, renderTableRow(cells, widths, style))
	}

	rowPos := fmt.Sprintf("  ·  row %d/%d", t.cursor+1, len(t.rows))
	if summary != "" {
		summary = "  ·  " + summary
	}
	status := StatusBarStyle.Render(fmt.Sprintf("%d rows%s%s  ·  %s", len(t.rows), rowPos, summary, t.TableMeta()))

	content := lipgloss.JoinVertical(
		lipgloss.Left,
		header,
		divider,
		strings.Join(rows, "\n"),
	)
	spacerHeight := max(0, height-lipgloss.Height(content)-lipgloss.Height(status))
	spacer := lipgloss.NewStyle().Height(spacerHeight).Render("")

	return lipgloss.JoinVertical(lipgloss.Left, content, spacer, status)
}

func renderTableRow(cells []string, widths []int, style lipgloss.Style) string {
	parts := make([]string, 0, len(cells))
	for i, cell := range cells {
		if i >= len(widths) {
			continue
		}
		parts = append(parts, style.Width(widths[i]).MaxWidth(widths[i]).Render(cell))
	}
	return lipgloss.JoinHorizontal(lipgloss.Left, parts...)
}

func renderTableDivider(widths []int) string {
	total := 0
	for _, w := range widths {
		total += w
	}
	return TableDividerStyle.Render(strings.Repeat("─", total))
}

func (t *table[T]) scrollToCursor() {
	vh := t.viewportHeight
	if vh == 0 {
		vh = 10
	}
	if t.cursor < t.offset {
		t.offset = t.cursor
	}
	if t.cursor >= t.offset+vh {
		t.offset = t.cursor - vh + 1
	}
}

// MoveDown moves the cursor down.
func (t *table[T]) MoveDown() {
	if t.cursor < len(t.rows)-1 {
		t.cursor++
		t.scrollToCursor()
	}
}

// MoveUp moves the cursor up.
func (t *table[T]) MoveUp() {
	if t.cursor > 0 {
		t.cursor--
		t.scrollToCursor()
	}
}

// JumpToTop jumps to the first item.
func (t *table[T]) JumpToTop() {
	t.cursor = 0
	t.offset = 0
}

// JumpToBottom jumps to the last item.
func (t *table[T]) JumpToBottom() {
	if len(t.rows) > 0 {
		t.cursor = len(t.rows) - 1
		t.scrollToCursor()
	}
}

// HalfPageDown moves down half a page.
func (t *table[T]) HalfPageDown(pageSize int) {
	t.cursor = min(t.cursor+pageSize/2, len(t.rows)-1)
	t.clampCursor()
	t.scrollToCursor()
}

// HalfPageUp moves up half a page.
func (t *table[T]) HalfPageUp(pageSize int) {
	t.cursor = max(t.cursor-pageSize/2, 0)
	t.scrollToCursor()
}
