package views

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/aforsberg/qadeck/internal/domain"
)

// ConnectionViewModel renders the GitHub connection panel: either the
// connect prompt or the established account and repository summary.
type ConnectionViewModel struct {
	width      int
	height     int
	conn       *domain.Connection
	connecting bool
}

func NewConnectionView() *ConnectionViewModel {
	return &ConnectionViewModel{}
}

func (m *ConnectionViewModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *ConnectionViewModel) SetConnection(conn *domain.Connection) {
	m.conn = conn
	m.connecting = false
}

func (m *ConnectionViewModel) SetConnecting(connecting bool) {
	m.connecting = connecting
}

func (m *ConnectionViewModel) IsConnecting() bool {
	return m.connecting
}

func (m *ConnectionViewModel) Update(msg tea.Msg) tea.Cmd {
	return nil
}

func (m *ConnectionViewModel) View() string {
	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#7C3AED")).
		Bold(true).
		Padding(1, 0)
	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	valueStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#F9FAFB"))
	okStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981")).Bold(true)

	b.WriteString(titleStyle.Render("GitHub"))
	b.WriteString("\n\n")

	if m.connecting {
		b.WriteString(valueStyle.Render("Connecting to GitHub..."))
		b.WriteString("\n\n")
		b.WriteString(labelStyle.Render("Complete the authorization in your browser."))
		b.WriteString("\n")
		return b.String()
	}

	if m.conn == nil {
		b.WriteString(labelStyle.Render("Sync your QA workspace with GitHub to collaborate at source."))
		b.WriteString("\n\n")
		b.WriteString(valueStyle.Render("Not connected."))
		b.WriteString("\n\n")
		b.WriteString(labelStyle.Render("Press "))
		b.WriteString(valueStyle.Render("c"))
		b.WriteString(labelStyle.Render(" to connect to GitHub."))
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(okStyle.Render("● Connected"))
	b.WriteString("\n\n")

	b.WriteString(labelStyle.Render("Account      "))
	b.WriteString(valueStyle.Render(m.conn.Username))
	b.WriteString("\n")

	b.WriteString(labelStyle.Render("Repositories "))
	b.WriteString(valueStyle.Render(fmt.Sprintf("%d available", len(m.conn.Repositories))))
	b.WriteString("\n")

	if repo := m.conn.Repository(m.conn.SelectedRepo); repo != nil {
		b.WriteString(labelStyle.Render("Selected     "))
		b.WriteString(valueStyle.Render(repo.FullName))
		if repo.Private {
			b.WriteString(labelStyle.Render(" (private)"))
		}
		b.WriteString("\n")

		if repo.DefaultBranch != "" {
			b.WriteString(labelStyle.Render("Branch       "))
			b.WriteString(valueStyle.Render(repo.DefaultBranch))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(labelStyle.Render("Press "))
	b.WriteString(valueStyle.Render("r"))
	b.WriteString(labelStyle.Render(" to browse repositories, "))
	b.WriteString(valueStyle.Render("d"))
	b.WriteString(labelStyle.Render(" to disconnect."))
	b.WriteString("\n")

	return b.String()
}
