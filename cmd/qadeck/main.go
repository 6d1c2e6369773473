package main

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/aforsberg/qadeck/internal/config"
	"github.com/aforsberg/qadeck/internal/connect"
	"github.com/aforsberg/qadeck/internal/logger"
	"github.com/aforsberg/qadeck/internal/storage"
	"github.com/aforsberg/qadeck/internal/ui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	initLogger()
	defer logger.Close()

	cfg := config.LoadClient()

	connections, err := storage.NewLocalConnectionStore()
	if err != nil {
		return err
	}
	sessions := storage.NewSessionStore()

	orchestrator := connect.NewOrchestrator(cfg, sessions, connections)

	p := tea.NewProgram(ui.NewModel(orchestrator), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("failed to run UI: %w", err)
	}

	return nil
}

func initLogger() {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		logger.EnsureInit()
		return
	}

	logDir := filepath.Join(homeDir, ".qadeck")
	if err := os.MkdirAll(logDir, 0700); err != nil {
		logger.EnsureInit()
		return
	}

	if err := logger.Init(filepath.Join(logDir, "qadeck.log")); err != nil {
		logger.EnsureInit()
	}
}
