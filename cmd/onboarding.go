package cmd

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"bizdash/internal/ui"
)

// onboardingResult is what the setup screens captured.
type onboardingResult struct {
	BaseURL  string
	Token    string
	Canceled bool
}

type onboardingStep int

const (
	stepURL onboardingStep = iota
	stepToken
	stepDone
)

type onboardingModel struct {
	step       onboardingStep
	configDir  string
	urlInput   textinput.Model
	tokenInput textinput.Model
	result     onboardingResult
	status     string
	problem    string
	width      int
	height     int
}

// Onboarding reuses the dashboard palette; only the step tabs are local.
var (
	obTabsStyle = lipgloss.NewStyle().
			Padding(0, 2).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(ui.ColorMuted)
	obTabInactive = ui.HelpDescStyle.Padding(0, 2)
	obTabActive   = lipgloss.NewStyle().Foreground(ui.ColorText).Bold(true).Underline(true).Padding(0, 2)
	obWarnStyle   = ui.ErrorStyle.UnsetPadding()
)

func newOnboardingInput(placeholder, prompt string) textinput.Model {
	in := textinput.New()
	in.Placeholder = placeholder
	in.CharLimit = 500
	in.Prompt = prompt
	in.TextStyle = lipgloss.NewStyle().Foreground(ui.ColorText)
	in.PlaceholderStyle = lipgloss.NewStyle().Foreground(ui.ColorMuted)
	in.Cursor.Style = lipgloss.NewStyle().Foreground(ui.ColorText).Background(ui.ColorAccent)
	return in
}

func newOnboardingModel(configDir, baseURL string) onboardingModel {
	urlIn := newOnboardingInput("https://dash.example.com/api", "url> ")
	urlIn.SetValue(strings.TrimSpace(baseURL))
	urlIn.Focus()

	tokenIn := newOnboardingInput("Paste API token here (optional)", "token> ")
	tokenIn.EchoMode = textinput.EchoPassword
	tokenIn.EchoCharacter = '•'

	return onboardingModel{
		step:       stepURL,
		configDir:  configDir,
		urlInput:   urlIn,
		tokenInput: tokenIn,
	}
}

// validBaseURL reports why raw cannot be used as the API base URL.
func validBaseURL(raw string) string {
	if raw == "" {
		return "Enter the dashboard API URL."
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "URL must start with http:// or https://"
	}
	return ""
}

func (m onboardingModel) Init() tea.Cmd { return textinput.Blink }

func (m onboardingModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.result = onboardingResult{Canceled: true}
			m.status = "Setup canceled."
			m.step = stepDone
			return m, tea.Quit
		}
		switch m.step {
		case stepURL:
			switch msg.String() {
			case "enter":
				raw := strings.TrimRight(strings.TrimSpace(m.urlInput.Value()), "/")
				if problem := validBaseURL(raw); problem != "" {
					m.problem = problem
					return m, nil
				}
				m.problem = ""
				m.result.BaseURL = raw
				m.urlInput.Blur()
				m.step = stepToken
				return m, m.tokenInput.Focus()
			case "esc":
				m.result = onboardingResult{Canceled: true}
				m.status = "Setup canceled."
				m.step = stepDone
				return m, tea.Quit
			}
			var cmd tea.Cmd
			m.urlInput, cmd = m.urlInput.Update(msg)
			return m, cmd
		case stepToken:
			switch msg.String() {
			case "enter":
				token := strings.TrimSpace(m.tokenInput.Value())
				if token == "" {
					m.status = "No token entered. Requests will be sent unauthenticated."
				} else {
					m.result.Token = token
					m.status = "API token saved."
				}
				m.step = stepDone
				return m, tea.Quit
			case "esc":
				m.status = "Skipped token setup. Requests will be sent unauthenticated."
				m.step = stepDone
				return m, tea.Quit
			case "shift+tab":
				m.tokenInput.Blur()
				m.step = stepURL
				return m, m.urlInput.Focus()
			}
			var cmd tea.Cmd
			m.tokenInput, cmd = m.tokenInput.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

func (m onboardingModel) View() string {
	width := m.width
	height := m.height
	if width <= 0 {
		width = 100
	}
	if height <= 0 {
		height = 28
	}

	header := m.renderHeader(width)
	tabs := m.renderTabs(width)
	footer := m.renderFooter(width)

	contentHeight := max(height-6, 8)
	content := m.renderContent(width, contentHeight)
	view := lipgloss.JoinVertical(lipgloss.Left, header, tabs, content, footer)

	return lipgloss.NewStyle().
		Foreground(ui.ColorText).
		Width(width).
		Height(height).
		Render(view)
}

func (m onboardingModel) renderHeader(width int) string {
	left := "  " + ui.LabelStyle.Render("bizdash") + " " + ui.HelpDescStyle.Render("› Setup")
	right := ui.HelpDescStyle.Render(time.Now().Format("Mon 02 Jan")) + "  "
	padding := max(width-lipgloss.Width(left)-lipgloss.Width(right), 0)
	return ui.TitleStyle.Width(width).Render(left + strings.Repeat(" ", padding) + right)
}

func (m onboardingModel) renderTabs(width int) string {
	urlTab := obTabInactive.Render("API URL")
	tokenTab := obTabInactive.Render("API Token")
	if m.step == stepURL {
		urlTab = obTabActive.Render("API URL")
	}
	if m.step == stepToken {
		tokenTab = obTabActive.Render("API Token")
	}
	return obTabsStyle.Width(width).Render(lipgloss.JoinHorizontal(lipgloss.Left, "  ", urlTab, tokenTab))
}

func (m onboardingModel) renderFooter(width int) string {
	switch m.step {
	case stepURL:
		return ui.FooterStyle.Width(width).Render("enter continue  esc cancel")
	case stepToken:
		return ui.FooterStyle.Width(width).Render("enter save  esc skip  shift+tab back")
	default:
		return ui.FooterStyle.Width(width).Render("Setup complete")
	}
}

func (m onboardingModel) renderContent(width, height int) string {
	cardWidth := min(92, width-6)
	if cardWidth < 40 {
		cardWidth = width - 2
	}

	var body string
	switch m.step {
	case stepURL:
		input := ui.ActiveBorderStyle.Width(max(30, cardWidth-14)).Render(m.urlInput.View())
		lines := []string{
			ui.LabelStyle.Render("Where is your dashboard API?"),
			"",
			ui.HelpDescStyle.Render("The base URL every request is sent to, including any /api prefix."),
			"",
			ui.LabelStyle.Render("API URL"),
			input,
		}
		if m.problem != "" {
			lines = append(lines, "", obWarnStyle.Render(m.problem))
		}
		lines = append(lines, "",
			ui.HelpDescStyle.Render("Saved to "+filepath.Join(m.configDir, "config.toml")),
		)
		body = lipgloss.JoinVertical(lipgloss.Left, lines...)
	case stepToken:
		input := ui.ActiveBorderStyle.Width(max(30, cardWidth-14)).Render(m.tokenInput.View())
		body = lipgloss.JoinVertical(
			lipgloss.Left,
			ui.LabelStyle.Render("API token"),
			"",
			ui.HelpDescStyle.Render("Sent as a bearer token on every request."),
			ui.HelpDescStyle.Render("Stored owner-only in "+filepath.Join(m.configDir, "token")),
			ui.HelpDescStyle.Render("BIZDASH_TOKEN or --token take precedence over the stored token."),
			"",
			input,
			"",
			ui.HelpDescStyle.Render("Press Enter to save, Esc to skip."),
		)
	default:
		msg := ui.HelpDescStyle.Render(m.status)
		if m.result.Canceled || m.result.Token == "" {
			msg = obWarnStyle.Render(m.status)
		}
		body = lipgloss.JoinVertical(lipgloss.Left, ui.LabelStyle.Render("Onboarding Complete"), "", msg)
	}

	card := ui.PanelStyle.Width(cardWidth).Render(body)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Top, card)
}

func runOnboarding(configDir, baseURL string) (onboardingResult, error) {
	model := newOnboardingModel(configDir, baseURL)
	prog := tea.NewProgram(model, tea.WithAltScreen())
	finalModel, err := prog.Run()
	if err != nil {
		return onboardingResult{}, fmt.Errorf("onboarding tui failed: %w", err)
	}
	m, ok := finalModel.(onboardingModel)
	if !ok {
		return onboardingResult{}, fmt.Errorf("unexpected onboarding model type")
	}
	return m.result, nil
}
