package ui

import "github.com/charmbracelet/lipgloss"

// Palette. Slate greys with a steel-blue accent; green and red are reserved for money.
var (
	ColorBase    = lipgloss.Color("#1B1F27")
	ColorSurface = lipgloss.Color("#262C37")
	ColorMuted   = lipgloss.Color("#7A8494")
	ColorText    = lipgloss.Color("#D8DEE9")
	ColorAccent  = lipgloss.Color("#88A9C9")
	ColorGreen   = lipgloss.Color("#A3BE8C")
	ColorRed     = lipgloss.Color("#E07A7A")
	ColorYellow  = lipgloss.Color("#EBCB8B")
)

func fg(c lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(c)
}

func boxed(border lipgloss.Border, c lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().BorderStyle(border).BorderForeground(c)
}

// Chrome
var (
	HeaderStyle           = fg(ColorAccent).Bold(true).Padding(0, 1)
	TitleStyle            = HeaderStyle.BorderStyle(lipgloss.NormalBorder()).BorderBottom(true).BorderForeground(ColorMuted)
	FooterStyle           = fg(ColorMuted).Padding(0, 1).BorderStyle(lipgloss.NormalBorder()).BorderTop(true).BorderForeground(ColorMuted)
	BreadcrumbStyle       = fg(ColorMuted)
	BreadcrumbActiveStyle = fg(ColorAccent)
	StatusBarStyle        = fg(ColorMuted).Padding(0, 1)
	SearchStyle           = fg(ColorText).Padding(0, 1)
	HelpKeyStyle          = fg(ColorAccent)
	HelpDescStyle         = fg(ColorMuted)
	LabelStyle            = fg(ColorAccent).Bold(true)
)

// Tables
var (
	TableHeaderStyle  = fg(ColorAccent).Bold(true).Padding(0, 1).Background(ColorSurface)
	TableDividerStyle = fg(ColorSurface)
	SelectedRowStyle  = fg(ColorBase).Background(ColorAccent).Padding(0, 1)
	NormalRowStyle    = fg(ColorText).Padding(0, 1)
	EmptyStateStyle   = fg(ColorMuted).Italic(true).Padding(2, 4)
)

// Feedback banners
var (
	ErrorStyle   = fg(ColorRed).Padding(0, 1)
	WarningStyle = fg(ColorYellow)
	SuccessStyle = fg(ColorGreen).Padding(0, 1)
)

// Panels, forms and the delete prompt
var (
	BorderStyle       = boxed(lipgloss.NormalBorder(), ColorMuted).Padding(0, 1)
	ActiveBorderStyle = boxed(lipgloss.NormalBorder(), ColorAccent).Padding(0, 1)
	PanelStyle        = boxed(lipgloss.NormalBorder(), ColorMuted).Padding(1, 2)
	ModalStyle        = boxed(lipgloss.RoundedBorder(), ColorRed).Padding(1, 3)
)

// Summary cards and money
var (
	CardStyle      = boxed(lipgloss.RoundedBorder(), ColorMuted).Padding(0, 2).Width(24)
	CardValueStyle = fg(ColorText).Bold(true)
	LossStyle      = fg(ColorRed)
)

// signedMoney renders a formatted amount, in red when the amount is a loss.
func signedMoney(amount float64, formatted string) string {
	if amount < 0 {
		return LossStyle.Render(formatted)
	}
	return formatted
}
