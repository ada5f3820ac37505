package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Harsh-BH/fieldtools/internal/domain"
)

var (
	formTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	labelStyle     = lipgloss.NewStyle().Width(12)
	focusedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	helpStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

type formField struct {
	label       string
	placeholder string
	set         func(*domain.RawFields, string)
}

var formFields = []formField{
	{"ID", "blank = generated", func(r *domain.RawFields, v string) { r.ID = v }},
	{"Tech", "technician name", func(r *domain.RawFields, v string) { r.TechName = v }},
	{"Address", "service address", func(r *domain.RawFields, v string) { r.Address = v }},
	{"Issue", "reported issue", func(r *domain.RawFields, v string) { r.Issue = v }},
	{"Resolution", "what was done", func(r *domain.RawFields, v string) { r.Resolution = v }},
	{"Signal", "Good / Fair / Bad", func(r *domain.RawFields, v string) { r.Signal = v }},
	{"Start", "YYYY-MM-DD HH:MM (blank = now)", func(r *domain.RawFields, v string) { r.StartTime = v }},
	{"End", "YYYY-MM-DD HH:MM (blank = now)", func(r *domain.RawFields, v string) { r.EndTime = v }},
}

// formModel collects every job field before anything is submitted; the
// caller turns the finished form into a single CreateJob call.
type formModel struct {
	inputs    []textinput.Model
	focus     int
	submitted bool
	cancelled bool
}

func newFormModel() formModel {
	m := formModel{inputs: make([]textinput.Model, len(formFields))}
	for i, f := range formFields {
		in := textinput.New()
		in.Placeholder = f.placeholder
		in.Prompt = ""
		in.CharLimit = 256
		in.Width = 40
		m.inputs[i] = in
	}
	m.inputs[0].Focus()
	return m
}

func (m formModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m formModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "ctrl+c", "esc":
			m.cancelled = true
			return m, tea.Quit
		case "enter":
			if m.focus == len(m.inputs)-1 {
				m.submitted = true
				return m, tea.Quit
			}
			cmd := m.move(1)
			return m, cmd
		case "tab", "down":
			cmd := m.move(1)
			return m, cmd
		case "shift+tab", "up":
			cmd := m.move(-1)
			return m, cmd
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

// move shifts focus by delta, wrapping at either end.
func (m *formModel) move(delta int) tea.Cmd {
	m.inputs[m.focus].Blur()
	m.focus = (m.focus + delta + len(m.inputs)) % len(m.inputs)
	return m.inputs[m.focus].Focus()
}

func (m formModel) View() string {
	var b strings.Builder
	b.WriteString(formTitleStyle.Render("New field job"))
	b.WriteString("\n\n")
	for i, f := range formFields {
		label := labelStyle.Render(f.label)
		if i == m.focus {
			label = focusedStyle.Render(labelStyle.Render(f.label))
		}
		fmt.Fprintf(&b, "%s %s\n", label, m.inputs[i].View())
	}
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("tab/shift+tab move • enter on End saves • esc cancels"))
	b.WriteString("\n")
	return b.String()
}

// Fields returns the form contents.
func (m formModel) Fields() domain.RawFields {
	var raw domain.RawFields
	for i, f := range formFields {
		f.set(&raw, m.inputs[i].Value())
	}
	return raw
}

// RunForm shows the entry form on the terminal and returns the entered
// fields. ok is false when the user cancels.
func RunForm(ctx context.Context, in io.Reader, out io.Writer) (raw domain.RawFields, ok bool, err error) {
	program := tea.NewProgram(newFormModel(),
		tea.WithContext(ctx),
		tea.WithInput(in),
		tea.WithOutput(out),
	)
	final, err := program.Run()
	if err != nil {
		return domain.RawFields{}, false, fmt.Errorf("entry form: %w", err)
	}
	m := final.(formModel)
	if !m.submitted {
		return domain.RawFields{}, false, nil
	}
	return m.Fields(), true, nil
}
