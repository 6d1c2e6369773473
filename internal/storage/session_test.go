package storage

import "testing"

func TestBeginReplacesPreviousSession(t *testing.T) {
	store := NewSessionStore()

	store.Begin("first-state")
	store.SetInstallationID("42")

	store.Begin("second-state")

	if store.State() != "second-state" {
		t.Errorf("Expected state second-state, got %s", store.State())
	}
	if store.InstallationID() != "" {
		t.Errorf("Expected installation id to be reset, got %s", store.InstallationID())
	}
}

func TestInstallationID(t *testing.T) {
	store := NewSessionStore()
	store.Begin("state")

	if store.InstallationID() != "" {
		t.Errorf("Expected empty installation id, got %s", store.InstallationID())
	}

	store.SetInstallationID("99")
	if store.InstallationID() != "99" {
		t.Errorf("Expected installation id 99, got %s", store.InstallationID())
	}
}

func TestClear(t *testing.T) {
	store := NewSessionStore()
	store.Begin("state")
	store.SetInstallationID("42")

	store.Clear()
	store.Clear()

	if store.State() != "" || store.InstallationID() != "" {
		t.Errorf("Expected empty session after clear, got state=%s installation=%s",
			store.State(), store.InstallationID())
	}
}
