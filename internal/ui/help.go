package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"bizdash/internal/model"
)

// RenderHelp renders the context-sensitive help footer for s.
func RenderHelp(s screenModel, width int) string {
	keys := s.Help()
	if s.Mode() == model.ModeNav {
		keys = append(keys,
			helpKey("1-5/h/l", "tabs"),
			helpKey("?", "help"),
			helpKey("q", "quit"),
		)
	}
	return renderHelpLine(keys, width)
}

func helpKey(key, desc string) string {
	return HelpKeyStyle.Render(key) + " " + HelpDescStyle.Render(desc)
}

func renderHelpLine(keys []string, width int) string {
	line := strings.Join(keys, "  ")
	return FooterStyle.Width(width).Render(line)
}

// RenderFullHelp renders the full help screen.
func RenderFullHelp(width, height int) string {
	content := lipgloss.NewStyle().
		Width(width-4).
		Height(height-6).
		Padding(1, 2)

	sections := []string{
		titleSection("Navigation"),
		helpSection([]helpItem{
			{"1-5", "Overview, Customers, Materials, Time Entries, HMRC R&D"},
			{"h / ← , l / →", "Previous / next tab"},
			{"j / ↓", "Move down"},
			{"k / ↑", "Move up"},
			{"gg", "Jump to top"},
			{"G", "Jump to bottom"},
			{"ctrl+d / ctrl+u", "Half page down / up"},
			{"tab / shift+tab", "Cycle active column"},
			{"s / S", "Sort active column asc/desc"},
			{"c / C", "Hide active column / show all"},
			{"r", "Refresh"},
			{"q", "Quit"},
			{"?", "Toggle help"},
		}),
		titleSection("Customers, Materials, Time Entries"),
		helpSection([]helpItem{
			{"/", "Search (enter keeps, esc clears)"},
			{"a", "Add"},
			{"e / enter", "Edit selected"},
			{"d", "Delete selected (y confirms)"},
			{"i", "Import CSV (customers, materials)"},
			{"f", "Date range (time entries)"},
			{"x / X", "Export visible rows as CSV / JSON"},
		}),
		titleSection("HMRC R&D Report"),
		helpSection([]helpItem{
			{"f", "Change period"},
			{"x", "Download CSV"},
			{"p", "Download PDF"},
		}),
		titleSection("Forms"),
		helpSection([]helpItem{
			{"tab / ↓", "Next field"},
			{"shift+tab / ↑", "Previous field"},
			{"ctrl+s", "Save"},
			{"esc", "Cancel"},
		}),
	}

	helpText := content.Render(strings.Join(sections, "\n\n"))

	return lipgloss.JoinVertical(
		lipgloss.Left,
		TitleStyle.Width(width).Render("Help"),
		helpText,
		FooterStyle.Width(width).Render(HelpKeyStyle.Render("esc")+" "+HelpDescStyle.Render("close help")),
	)
}

type helpItem struct {
	key  string
	desc string
}

func titleSection(title string) string {
	return LabelStyle.Render(title)
}

func helpSection(items []helpItem) string {
	var lines []string
	for _, item := range items {
		lines = append(lines, "  "+HelpKeyStyle.Render(item.key)+" - "+HelpDescStyle.Render(item.desc))
	}
	return strings.Join(lines, "\n")
}
