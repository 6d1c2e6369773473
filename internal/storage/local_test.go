package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aforsberg/qadeck/internal/domain"
)

func testConnection() *domain.Connection {
	return &domain.Connection{
		AccessToken: "gho_test123",
		Username:    "octocat",
		Repositories: []domain.Repository{
			{
				ID:            1,
				Name:          "qa-suite",
				FullName:      "octocat/qa-suite",
				CloneURL:      "https://github.com/octocat/qa-suite.git",
				SSHURL:        "git@github.com:octocat/qa-suite.git",
				HTMLURL:       "https://github.com/octocat/qa-suite",
				Private:       true,
				DefaultBranch: "main",
			},
			{
				ID:            2,
				Name:          "fixtures",
				FullName:      "octocat/fixtures",
				CloneURL:      "https://github.com/octocat/fixtures.git",
				SSHURL:        "git@github.com:octocat/fixtures.git",
				HTMLURL:       "https://github.com/octocat/fixtures",
				DefaultBranch: "master",
			},
		},
		SelectedRepo: "octocat/qa-suite",
	}
}

func newTestStore(t *testing.T) *LocalConnectionStore {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	store, err := NewLocalConnectionStore()
	if err != nil {
		t.Fatalf("Failed to create connection store: %v", err)
	}
	return store
}

func TestConnectionRoundTrip(t *testing.T) {
	store := newTestStore(t)
	want := testConnection()

	if err := store.Save(want); err != nil {
		t.Fatalf("Failed to save connection: %v", err)
	}

	got, err := store.Load()
	if err != nil {
		t.Fatalf("Failed to load connection: %v", err)
	}
	if got == nil {
		t.Fatal("Expected connection, got nil")
	}

	if got.AccessToken != want.AccessToken {
		t.Errorf("Expected token %s, got %s", want.AccessToken, got.AccessToken)
	}
	if got.Username != want.Username {
		t.Errorf("Expected username %s, got %s", want.Username, got.Username)
	}
	if got.SelectedRepo != want.SelectedRepo {
		t.Errorf("Expected selected repo %s, got %s", want.SelectedRepo, got.SelectedRepo)
	}
	if len(got.Repositories) != len(want.Repositories) {
		t.Fatalf("Expected %d repositories, got %d", len(want.Repositories), len(got.Repositories))
	}
	for i := range want.Repositories {
		if got.Repositories[i] != want.Repositories[i] {
			t.Errorf("Repository %d changed across round trip: %+v != %+v",
				i, got.Repositories[i], want.Repositories[i])
		}
	}
}

func TestLoadMissingFile(t *testing.T) {
	store := newTestStore(t)

	conn, err := store.Load()
	if err != nil {
		t.Fatalf("Expected no error for missing file, got %v", err)
	}
	if conn != nil {
		t.Errorf("Expected absent connection, got %+v", conn)
	}
}

func TestLoadCorruptFile(t *testing.T) {
	store := newTestStore(t)

	path := filepath.Join(os.Getenv("HOME"), configDir, connectionFile)
	if err := os.WriteFile(path, []byte("{not json"), 0600); err != nil {
		t.Fatalf("Failed to write corrupt file: %v", err)
	}

	conn, err := store.Load()
	if err != nil {
		t.Fatalf("Expected corrupt file to hydrate as absent, got error %v", err)
	}
	if conn != nil {
		t.Errorf("Expected absent connection for corrupt file, got %+v", conn)
	}
}

func TestLoadPartialConnection(t *testing.T) {
	store := newTestStore(t)

	partial := testConnection()
	partial.AccessToken = ""
	if err := store.Save(partial); err != nil {
		t.Fatalf("Failed to save partial connection: %v", err)
	}

	conn, err := store.Load()
	if err != nil {
		t.Fatalf("Expected no error for partial connection, got %v", err)
	}
	if conn != nil {
		t.Errorf("Expected partial connection to hydrate as absent, got %+v", conn)
	}
}

func TestLoadUnknownSelectedRepo(t *testing.T) {
	store := newTestStore(t)

	conn := testConnection()
	conn.SelectedRepo = "octocat/does-not-exist"
	if err := store.Save(conn); err != nil {
		t.Fatalf("Failed to save connection: %v", err)
	}

	got, err := store.Load()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if got != nil {
		t.Errorf("Expected connection with dangling selection to hydrate as absent, got %+v", got)
	}
}

func TestClearIsIdempotent(t *testing.T) {
	store := newTestStore(t)

	if err := store.Save(testConnection()); err != nil {
		t.Fatalf("Failed to save connection: %v", err)
	}

	if err := store.Clear(); err != nil {
		t.Fatalf("First clear failed: %v", err)
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("Second clear failed: %v", err)
	}

	conn, err := store.Load()
	if err != nil {
		t.Fatalf("Unexpected error after clear: %v", err)
	}
	if conn != nil {
		t.Errorf("Expected no connection after clear, got %+v", conn)
	}
}
