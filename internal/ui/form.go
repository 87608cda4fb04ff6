package ui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"bizdash/internal/entity"
	"bizdash/internal/util"
)

// fieldSpec binds one text input to a draft field.
type fieldSpec[D any] struct {
	label       string
	placeholder string
	required    bool
	charLimit   int
	get         func(D) string
	// set parses raw input into the draft.
	set func(*D, string) error
}

// formView renders a draft as a column of text inputs.
type formView[D any] struct {
	fields  []fieldSpec[D]
	inputs  []textinput.Model
	focused int
}

func newFormView[D any](fields []fieldSpec[D], draft D) *formView[D] {
	inputs := make([]textinput.Model, len(fields))
	for i, f := range fields {
		in := textinput.New()
		in.Placeholder = f.placeholder
		in.CharLimit = f.charLimit
		if in.CharLimit == 0 {
			in.CharLimit = 200
		}
		in.SetValue(f.get(draft))
		inputs[i] = in
	}
	if len(inputs) > 0 {
		inputs[0].Focus()
	}
	return &formView[D]{fields: fields, inputs: inputs}
}

// Update moves focus or forwards the key to the focused input.
func (f *formView[D]) Update(msg tea.KeyMsg, keys FormKeyMap) tea.Cmd {
	switch {
	case key.Matches(msg, keys.NextField):
		f.focus((f.focused + 1) % len(f.inputs))
		return nil
	case key.Matches(msg, keys.PrevField):
		f.focus((f.focused - 1 + len(f.inputs)) % len(f.inputs))
		return nil
	}
	var cmd tea.Cmd
	f.inputs[f.focused], cmd = f.inputs[f.focused].Update(msg)
	return cmd
}

func (f *formView[D]) focus(i int) {
	f.inputs[f.focused].Blur()
	f.focused = i
	f.inputs[f.focused].Focus()
}

// Draft applies every input to base. Parse failures are reported as *entity.ValidationError.
func (f *formView[D]) Draft(base D) (D, error) {
	draft := base
	for i, field := range f.fields {
		raw := strings.TrimSpace(f.inputs[i].Value())
		if err := field.set(&draft, raw); err != nil {
			f.focus(i)
			return base, &entity.ValidationError{Field: field.label, Message: field.label + ": " + err.Error()}
		}
	}
	return draft, nil
}

func (f *formView[D]) View(width, height int, title string, st entity.FormState[D]) string {
	parts := []string{LabelStyle.Render(title), ""}
	for i, field := range f.fields {
		label := field.label
		if field.required {
			label += " *"
		}
		parts = append(parts, renderFormField(label, f.inputs[i], i == f.focused))
	}

	switch {
	case st.Submitting:
		parts = append(parts, "", StatusBarStyle.Render("Saving…"))
	case st.Err != nil:
		parts = append(parts, "", ErrorStyle.Render(errorText(st.Err)))
	}

	return PanelStyle.
		Width(max(20, width-4)).
		Height(max(5, height-4)).
		Render(strings.Join(parts, "\n"))
}

func renderFormField(label string, input textinput.Model, focused bool) string {
	style := BorderStyle
	if focused {
		style = ActiveBorderStyle
	}
	return style.Render(lipgloss.JoinVertical(lipgloss.Left, LabelStyle.Render(label), input.View()))
}

// Field parsers

func parseAmount(raw string) (float64, error) {
	if raw == "" {
		return 0, nil
	}
	raw = strings.NewReplacer(",", "", "£", "", "$", "").Replace(raw)
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, errNotANumber
	}
	return v, nil
}

func parseYesNo(raw string) (bool, error) {
	switch strings.ToLower(raw) {
	case "", "n", "no", "false", "0":
		return false, nil
	case "y", "yes", "true", "1":
		return true, nil
	}
	return false, errNotYesNo
}

func parseDate(raw string) (string, error) {
	iso, err := util.ParseDateInput(raw)
	if err != nil {
		return "", errNotADate
	}
	return iso, nil
}

func formatAmount(v float64) string {
	if v == 0 {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
