package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type TopBarModel struct {
	width        int
	currentView  string
	account      string
	selectedRepo string
	repoCount    int
	shortcuts    []string
}

var (
	barStyle       = lipgloss.NewStyle().Padding(0, 1)
	appNameStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	valueStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	shortcutStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("33")).Bold(true)
	shortcutDescSt = lipgloss.NewStyle().Foreground(lipgloss.Color("246"))
)

func NewTopBar() *TopBarModel {
	return &TopBarModel{currentView: "Connection"}
}

func (m *TopBarModel) SetWidth(width int) {
	m.width = width
}

func (m *TopBarModel) SetView(view string) {
	m.currentView = view
}

func (m *TopBarModel) SetAccount(account string) {
	m.account = account
}

func (m *TopBarModel) SetRepoContext(selected string, count int) {
	m.selectedRepo = selected
	m.repoCount = count
}

func (m *TopBarModel) SetShortcuts(shortcuts []string) {
	m.shortcuts = shortcuts
}

func (m *TopBarModel) View() string {
	var left strings.Builder
	left.WriteString(appNameStyle.Render("qadeck"))
	left.WriteString("  ")
	left.WriteString(valueStyle.Render(m.currentView))

	if m.account != "" {
		left.WriteString("  ")
		left.WriteString(shortcutDescSt.Render("as "))
		left.WriteString(valueStyle.Render(m.account))
	}
	if m.selectedRepo != "" {
		left.WriteString("  ")
		left.WriteString(valueStyle.Render(m.selectedRepo))
		left.WriteString(shortcutDescSt.Render(fmt.Sprintf(" (%d repos)", m.repoCount)))
	}

	var right strings.Builder
	for i, shortcut := range m.shortcuts {
		if i > 0 {
			right.WriteString("  ")
		}
		parts := strings.SplitN(shortcut, ":", 2)
		if len(parts) == 2 {
			right.WriteString(shortcutStyle.Render(parts[0]))
			right.WriteString(shortcutDescSt.Render(" " + parts[1]))
		} else {
			right.WriteString(shortcutDescSt.Render(shortcut))
		}
	}

	leftStr := left.String()
	rightStr := right.String()
	gap := m.width - lipgloss.Width(leftStr) - lipgloss.Width(rightStr) - 2
	if gap < 1 {
		gap = 1
	}

	return barStyle.Render(leftStr + strings.Repeat(" ", gap) + rightStr)
}
