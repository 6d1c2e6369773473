package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/aforsberg/qadeck/internal/domain"
)

type CloneProtocol int

const (
	CloneHTTPS CloneProtocol = iota
	CloneSSH
	CloneCLI
)

func (p CloneProtocol) String() string {
	switch p {
	case CloneSSH:
		return "SSH"
	case CloneCLI:
		return "GitHub CLI"
	default:
		return "HTTPS"
	}
}

type RepoItem struct {
	repo domain.Repository
}

func (i RepoItem) FilterValue() string { return i.repo.FullName }
func (i RepoItem) Title() string {
	badge := ""
	if i.repo.Private {
		badge = " [private]"
	}
	return i.repo.FullName + badge
}
func (i RepoItem) Description() string {
	if i.repo.Description != "" {
		return i.repo.Description
	}
	return i.repo.CloneURL
}

// ReposViewModel lists the connection's repositories and exposes the
// clone command for the selected one.
type ReposViewModel struct {
	list     list.Model
	protocol CloneProtocol
	selected string
	width    int
	height   int
}

func NewReposView() *ReposViewModel {
	l := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Repositories"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)

	return &ReposViewModel{list: l}
}

func (m *ReposViewModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height-7)
}

func (m *ReposViewModel) SetRepositories(repos []domain.Repository, selected string) {
	items := make([]list.Item, len(repos))
	for i, repo := range repos {
		items[i] = RepoItem{repo: repo}
	}
	m.list.SetItems(items)
	m.selected = selected
}

func (m *ReposViewModel) SetSelected(fullName string) {
	m.selected = fullName
}

func (m *ReposViewModel) HighlightedRepo() *domain.Repository {
	item, ok := m.list.SelectedItem().(RepoItem)
	if !ok {
		return nil
	}
	repo := item.repo
	return &repo
}

func (m *ReposViewModel) CycleProtocol() {
	m.protocol = (m.protocol + 1) % 3
}

func (m *ReposViewModel) Protocol() CloneProtocol {
	return m.protocol
}

// CloneCommand renders the clone invocation for the highlighted
// repository under the current protocol.
func (m *ReposViewModel) CloneCommand() string {
	repo := m.HighlightedRepo()
	if repo == nil {
		return ""
	}

	switch m.protocol {
	case CloneSSH:
		return fmt.Sprintf("git clone %s", repo.SSHURL)
	case CloneCLI:
		return fmt.Sprintf("gh repo clone %s", repo.FullName)
	default:
		return fmt.Sprintf("git clone %s", repo.CloneURL)
	}
}

func (m *ReposViewModel) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return cmd
}

func (m *ReposViewModel) View() string {
	var b strings.Builder

	b.WriteString(m.list.View())
	b.WriteString("\n")

	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	valueStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#F9FAFB"))
	cmdStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#F9FAFB")).
		Background(lipgloss.Color("#1F2937")).
		Padding(0, 1)

	if m.selected != "" {
		b.WriteString(labelStyle.Render("Selected: "))
		b.WriteString(valueStyle.Render(m.selected))
		b.WriteString("\n")
	}

	if cloneCmd := m.CloneCommand(); cloneCmd != "" {
		b.WriteString(labelStyle.Render(fmt.Sprintf("Clone (%s, tab to switch): ", m.protocol)))
		b.WriteString(cmdStyle.Render(cloneCmd))
		b.WriteString(labelStyle.Render("  y to copy"))
		b.WriteString("\n")
	}

	return b.String()
}
