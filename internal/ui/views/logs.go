package views

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/aforsberg/qadeck/internal/logger"
)

type LogsViewModel struct {
	width  int
	height int
	offset int
	active bool
	logs   []logger.LogEntry
}

func NewLogsView() *LogsViewModel {
	return &LogsViewModel{}
}

func (m *LogsViewModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *LogsViewModel) Activate() {
	m.active = true
	m.logs = logger.GetLogs()
	m.offset = 0
	if len(m.logs) > m.visibleLines() {
		m.offset = len(m.logs) - m.visibleLines()
	}
}

func (m *LogsViewModel) Deactivate() {
	m.active = false
	m.offset = 0
}

func (m *LogsViewModel) IsActive() bool {
	return m.active
}

func (m *LogsViewModel) visibleLines() int {
	if m.height <= 8 {
		return 1
	}
	return m.height - 8
}

func (m *LogsViewModel) maxOffset() int {
	max := len(m.logs) - m.visibleLines()
	if max < 0 {
		return 0
	}
	return max
}

func (m *LogsViewModel) Update(msg tea.Msg) tea.Cmd {
	if !m.active {
		return nil
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if m.offset > 0 {
				m.offset--
			}
		case "down", "j":
			if m.offset < m.maxOffset() {
				m.offset++
			}
		case "pgup":
			m.offset -= m.visibleLines()
			if m.offset < 0 {
				m.offset = 0
			}
		case "pgdown":
			m.offset += m.visibleLines()
			if m.offset > m.maxOffset() {
				m.offset = m.maxOffset()
			}
		case "g", "home":
			m.offset = 0
		case "G", "end":
			m.offset = m.maxOffset()
		}
	}

	return nil
}

func (m *LogsViewModel) View() string {
	if !m.active {
		return ""
	}

	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#7C3AED")).
		Bold(true).
		Padding(1, 0)

	b.WriteString(titleStyle.Render(fmt.Sprintf("Session Logs (%d entries)", len(m.logs))))
	b.WriteString("\n\n")

	if len(m.logs) == 0 {
		emptyStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
		b.WriteString(emptyStyle.Render("No log entries yet."))
		b.WriteString("\n")
		return b.String()
	}

	end := m.offset + m.visibleLines()
	if end > len(m.logs) {
		end = len(m.logs)
	}

	lineStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#F9FAFB"))
	timeStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))

	for _, entry := range m.logs[m.offset:end] {
		b.WriteString(timeStyle.Render(entry.Timestamp.Format("15:04:05")))
		b.WriteString(" ")
		line := entry.Message
		if m.width > 12 && len(line) > m.width-12 {
			line = line[:m.width-12]
		}
		b.WriteString(lineStyle.Render(line))
		b.WriteString("\n")
	}

	return b.String()
}
