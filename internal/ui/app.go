package ui

import (
	"context"
	"fmt"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/aforsberg/qadeck/internal/connect"
	"github.com/aforsberg/qadeck/internal/domain"
	"github.com/aforsberg/qadeck/internal/logger"
	"github.com/aforsberg/qadeck/internal/ui/components"
	"github.com/aforsberg/qadeck/internal/ui/views"
)

type ViewState int

const (
	ViewConnection ViewState = iota
	ViewRepos
)

type ConnectedMsg struct {
	conn     *domain.Connection
	restored bool
}

type DisconnectedMsg struct{}

type RepoSelectedMsg struct {
	repo *domain.Repository
}

type ErrorMsg struct {
	err error
}

type SuccessMsg struct {
	message string
}

type Model struct {
	state          ViewState
	width          int
	height         int
	topBar         *components.TopBarModel
	statusBar      *components.StatusBarModel
	commandBar     *components.CommandBarModel
	connectionView *views.ConnectionViewModel
	reposView      *views.ReposViewModel
	logsView       *views.LogsViewModel
	orchestrator   *connect.Orchestrator
	ctx            context.Context
}

func NewModel(orchestrator *connect.Orchestrator) Model {
	return Model{
		state:          ViewConnection,
		topBar:         components.NewTopBar(),
		statusBar:      components.NewStatusBar(),
		commandBar:     components.NewCommandBar(),
		connectionView: views.NewConnectionView(),
		reposView:      views.NewReposView(),
		logsView:       views.NewLogsView(),
		orchestrator:   orchestrator,
		ctx:            context.Background(),
	}
}

func (m Model) Init() tea.Cmd {
	return m.hydrate()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.topBar.SetWidth(msg.Width)
		m.statusBar.SetWidth(msg.Width)
		m.commandBar.SetWidth(msg.Width)
		m.connectionView.SetSize(msg.Width, msg.Height)
		m.reposView.SetSize(msg.Width, msg.Height)
		m.logsView.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case ConnectedMsg:
		m.applyConnection(msg.conn)
		m.connectionView.SetConnecting(false)
		if msg.restored {
			m.statusBar.SetMessage(fmt.Sprintf("Restored connection as %s", msg.conn.Username), false)
		} else {
			m.statusBar.SetMessage(fmt.Sprintf("Connected to GitHub as %s. Found %d repositories.",
				msg.conn.Username, len(msg.conn.Repositories)), false)
		}
		return m, nil

	case DisconnectedMsg:
		m.applyConnection(nil)
		m.statusBar.SetMessage("GitHub integration has been disconnected.", false)
		return m, nil

	case RepoSelectedMsg:
		m.reposView.SetSelected(msg.repo.FullName)
		if conn := m.orchestrator.Connection(); conn != nil {
			m.topBar.SetRepoContext(msg.repo.FullName, len(conn.Repositories))
		}
		m.statusBar.SetMessage(fmt.Sprintf("Selected repository %s", msg.repo.FullName), false)
		return m, nil

	case ErrorMsg:
		m.connectionView.SetConnecting(false)
		m.statusBar.SetMessage(msg.err.Error(), true)
		return m, nil

	case SuccessMsg:
		m.statusBar.SetMessage(msg.message, false)
		return m, nil
	}

	switch m.state {
	case ViewConnection:
		cmd = m.connectionView.Update(msg)
	case ViewRepos:
		cmd = m.reposView.Update(msg)
	}

	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if m.commandBar.IsActive() {
		switch key {
		case "enter":
			return m.handleCommand()
		case "esc":
			m.commandBar.Deactivate()
			return m, nil
		default:
			return m, m.commandBar.Update(msg)
		}
	}

	if m.logsView.IsActive() {
		switch key {
		case "esc", "q":
			m.logsView.Deactivate()
			return m, nil
		default:
			return m, m.logsView.Update(msg)
		}
	}

	switch key {
	case ":":
		m.commandBar.Activate()
		return m, nil
	case "q", "ctrl+c":
		return m, tea.Quit
	case "l":
		m.logsView.Activate()
		return m, nil
	case "c":
		return m.startConnect()
	case "d":
		return m, m.disconnect()
	case "r":
		if m.orchestrator.Connected() {
			m.switchView(ViewRepos)
		}
		return m, nil
	case "esc":
		if m.state == ViewRepos {
			m.switchView(ViewConnection)
		}
		return m, nil
	case "enter":
		if m.state == ViewRepos {
			return m, m.selectHighlightedRepo()
		}
		return m, nil
	case "tab":
		if m.state == ViewRepos {
			m.reposView.CycleProtocol()
		}
		return m, nil
	case "y":
		if m.state == ViewRepos {
			return m, m.copyCloneCommand()
		}
		return m, nil
	}

	switch m.state {
	case ViewConnection:
		return m, m.connectionView.Update(msg)
	case ViewRepos:
		return m, m.reposView.Update(msg)
	}
	return m, nil
}

func (m Model) handleCommand() (tea.Model, tea.Cmd) {
	input := m.commandBar.Value()
	m.commandBar.Deactivate()

	command := ParseCommand(input)
	logger.Log("UI: Executing command %q", input)

	switch command.Type {
	case CommandQuit:
		return m, tea.Quit
	case CommandConnect:
		return m.startConnect()
	case CommandDisconnect:
		return m, m.disconnect()
	case CommandRepos:
		if m.orchestrator.Connected() {
			m.switchView(ViewRepos)
		} else {
			m.statusBar.SetMessage("Not connected to GitHub.", true)
		}
		return m, nil
	case CommandLogs:
		m.logsView.Activate()
		return m, nil
	case CommandHelp:
		m.statusBar.SetMessage("c connect  d disconnect  r repos  l logs  q quit", false)
		return m, nil
	default:
		m.statusBar.SetMessage(fmt.Sprintf("Unknown command: %s", input), true)
		return m, nil
	}
}

func (m *Model) switchView(state ViewState) {
	m.state = state
	switch state {
	case ViewConnection:
		m.topBar.SetView("Connection")
		m.topBar.SetShortcuts([]string{"c:connect", "d:disconnect", "r:repos", "l:logs", "q:quit"})
	case ViewRepos:
		m.topBar.SetView("Repositories")
		m.topBar.SetShortcuts([]string{"enter:select", "tab:protocol", "y:copy", "esc:back"})
	}
}

func (m *Model) applyConnection(conn *domain.Connection) {
	m.connectionView.SetConnection(conn)
	if conn == nil {
		m.topBar.SetAccount("")
		m.topBar.SetRepoContext("", 0)
		m.reposView.SetRepositories(nil, "")
		if m.state == ViewRepos {
			m.switchView(ViewConnection)
		}
		return
	}

	m.topBar.SetAccount(conn.Username)
	m.topBar.SetRepoContext(conn.SelectedRepo, len(conn.Repositories))
	m.reposView.SetRepositories(conn.Repositories, conn.SelectedRepo)
}

func (m Model) startConnect() (tea.Model, tea.Cmd) {
	if m.connectionView.IsConnecting() {
		return m, nil
	}
	m.connectionView.SetConnecting(true)
	m.statusBar.SetMessage("Waiting for GitHub authorization in your browser...", false)
	return m, m.runConnect()
}

func (m Model) hydrate() tea.Cmd {
	return func() tea.Msg {
		if err := m.orchestrator.Hydrate(); err != nil {
			return ErrorMsg{err: err}
		}
		if conn := m.orchestrator.Connection(); conn != nil {
			return ConnectedMsg{conn: conn, restored: true}
		}
		return nil
	}
}

func (m Model) runConnect() tea.Cmd {
	return func() tea.Msg {
		conn, err := m.orchestrator.Connect(m.ctx)
		if err != nil {
			return ErrorMsg{err: err}
		}
		return ConnectedMsg{conn: conn}
	}
}

func (m Model) disconnect() tea.Cmd {
	return func() tea.Msg {
		if err := m.orchestrator.Disconnect(); err != nil {
			return ErrorMsg{err: err}
		}
		return DisconnectedMsg{}
	}
}

func (m Model) selectHighlightedRepo() tea.Cmd {
	repo := m.reposView.HighlightedRepo()
	if repo == nil {
		return nil
	}
	return func() tea.Msg {
		selected, err := m.orchestrator.SwitchRepository(repo.FullName)
		if err != nil {
			return ErrorMsg{err: err}
		}
		return RepoSelectedMsg{repo: selected}
	}
}

func (m Model) copyCloneCommand() tea.Cmd {
	cloneCmd := m.reposView.CloneCommand()
	if cloneCmd == "" {
		return nil
	}
	return func() tea.Msg {
		if err := clipboard.WriteAll(cloneCmd); err != nil {
			return ErrorMsg{err: fmt.Errorf("failed to copy clone command: %w", err)}
		}
		return SuccessMsg{message: "Clone command copied to clipboard."}
	}
}

func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var content string
	if m.logsView.IsActive() {
		content = m.logsView.View()
	} else {
		switch m.state {
		case ViewConnection:
			content = m.connectionView.View()
		case ViewRepos:
			content = m.reposView.View()
		}
	}

	topBar := m.topBar.View()
	statusBar := m.statusBar.View()
	commandBar := m.commandBar.View()

	if commandBar != "" {
		return topBar + "\n" + content + "\n" + commandBar
	}

	return topBar + "\n" + content + "\n" + statusBar
}
