package storage

import (
	"sync"

	"github.com/aforsberg/qadeck/internal/domain"
	"github.com/aforsberg/qadeck/internal/logger"
)

// SessionStore is the in-memory analog of session-scoped browser
// storage: it outlives a single callback request but not the process.
type SessionStore struct {
	mu      sync.Mutex
	session domain.AuthorizationSession
}

func NewSessionStore() *SessionStore {
	return &SessionStore{}
}

// Begin starts a new authorization session, discarding any previous
// state and pending installation id.
func (s *SessionStore) Begin(state string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session.State != "" {
		logger.Log("Replacing previous authorization session")
	}
	s.session = domain.AuthorizationSession{State: state}
}

func (s *SessionStore) State() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session.State
}

func (s *SessionStore) SetInstallationID(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session.InstallationID = id
}

func (s *SessionStore) InstallationID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session.InstallationID
}

func (s *SessionStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = domain.AuthorizationSession{}
}
