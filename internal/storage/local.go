package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/aforsberg/qadeck/internal/domain"
	"github.com/aforsberg/qadeck/internal/logger"
)

const (
	configDir      = ".qadeck"
	connectionFile = "connection.json"
)

// LocalConnectionStore keeps the durable connection record in a JSON
// file under the user's home directory. Anything unreadable or failing
// the connection validity check hydrates as absent.
type LocalConnectionStore struct {
	path string
	mu   sync.RWMutex
}

func NewLocalConnectionStore() (*LocalConnectionStore, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}

	path := filepath.Join(homeDir, configDir, connectionFile)
	store := &LocalConnectionStore{path: path}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	return store, nil
}

func (s *LocalConnectionStore) Load() (*domain.Connection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	logger.LogFileOpen(s.path)
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		logger.LogError("LOAD_CONNECTION", s.path, err)
		return nil, fmt.Errorf("failed to read connection file: %w", err)
	}

	var conn domain.Connection
	if err := json.Unmarshal(data, &conn); err != nil {
		logger.LogError("UNMARSHAL_CONNECTION", s.path, err)
		return nil, nil
	}

	if !conn.Valid() {
		logger.Log("Stored connection is incomplete, treating as absent")
		return nil, nil
	}

	logger.Log("Connection loaded for %s with %d repositories", conn.Username, len(conn.Repositories))
	return &conn, nil
}

func (s *LocalConnectionStore) Save(conn *domain.Connection) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(conn, "", "  ")
	if err != nil {
		logger.LogError("MARSHAL_CONNECTION", s.path, err)
		return fmt.Errorf("failed to marshal connection: %w", err)
	}

	logger.LogFileWrite(s.path)
	if err := os.WriteFile(s.path, data, 0600); err != nil {
		logger.LogError("SAVE_CONNECTION", s.path, err)
		return fmt.Errorf("failed to write connection file: %w", err)
	}

	logger.Log("Connection saved for %s", conn.Username)
	return nil
}

func (s *LocalConnectionStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		logger.LogError("CLEAR_CONNECTION", s.path, err)
		return fmt.Errorf("failed to remove connection file: %w", err)
	}

	logger.Log("Connection cleared")
	return nil
}
