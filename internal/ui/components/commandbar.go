package components

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// CommandBarModel is the colon-prefixed command prompt. The leading
// colon stays part of the value so the parser sees exactly what the
// user typed.
type CommandBarModel struct {
	input  textinput.Model
	width  int
	active bool
}

func NewCommandBar() *CommandBarModel {
	ti := textinput.New()
	ti.Placeholder = "connect | disconnect | repos | logs | quit"
	ti.CharLimit = 128
	ti.Prompt = ""

	return &CommandBarModel{input: ti}
}

func (m *CommandBarModel) SetWidth(width int) {
	m.width = width
	if width > 4 {
		m.input.Width = width - 4
	}
}

func (m *CommandBarModel) Activate() {
	m.active = true
	m.input.SetValue(":")
	m.input.CursorEnd()
	m.input.Focus()
}

func (m *CommandBarModel) Deactivate() {
	m.active = false
	m.input.Blur()
	m.input.Reset()
}

func (m *CommandBarModel) IsActive() bool {
	return m.active
}

func (m *CommandBarModel) Value() string {
	return m.input.Value()
}

func (m *CommandBarModel) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return cmd
}

func (m *CommandBarModel) View() string {
	if !m.active {
		return ""
	}

	style := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#F9FAFB")).
		Background(lipgloss.Color("#111827")).
		Border(lipgloss.NormalBorder(), true, false, false, false).
		BorderForeground(lipgloss.Color("#7C3AED")).
		Width(m.width)

	return style.Render(" " + m.input.View())
}
