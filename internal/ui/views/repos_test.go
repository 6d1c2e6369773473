package views

import (
	"testing"

	"github.com/aforsberg/qadeck/internal/domain"
)

func testRepos() []domain.Repository {
	return []domain.Repository{
		{
			ID:       1,
			Name:     "qa-suite",
			FullName: "octocat/qa-suite",
			CloneURL: "https://github.com/octocat/qa-suite.git",
			SSHURL:   "git@github.com:octocat/qa-suite.git",
			Private:  true,
		},
	}
}

func TestCloneCommandPerProtocol(t *testing.T) {
	m := NewReposView()
	m.SetRepositories(testRepos(), "octocat/qa-suite")

	if got := m.CloneCommand(); got != "git clone https://github.com/octocat/qa-suite.git" {
		t.Errorf("Unexpected HTTPS clone command: %s", got)
	}

	m.CycleProtocol()
	if got := m.CloneCommand(); got != "git clone git@github.com:octocat/qa-suite.git" {
		t.Errorf("Unexpected SSH clone command: %s", got)
	}

	m.CycleProtocol()
	if got := m.CloneCommand(); got != "gh repo clone octocat/qa-suite" {
		t.Errorf("Unexpected CLI clone command: %s", got)
	}

	m.CycleProtocol()
	if m.Protocol() != CloneHTTPS {
		t.Errorf("Expected protocol to cycle back to HTTPS, got %v", m.Protocol())
	}
}

func TestCloneCommandWithoutRepositories(t *testing.T) {
	m := NewReposView()
	if got := m.CloneCommand(); got != "" {
		t.Errorf("Expected empty clone command, got %s", got)
	}
}

func TestRepoItemTitle(t *testing.T) {
	item := RepoItem{repo: testRepos()[0]}
	if item.Title() != "octocat/qa-suite [private]" {
		t.Errorf("Unexpected title: %s", item.Title())
	}
	if item.FilterValue() != "octocat/qa-suite" {
		t.Errorf("Unexpected filter value: %s", item.FilterValue())
	}
}
