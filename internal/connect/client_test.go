package connect

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestBrokerClientConfig(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("Failed to decode request: %v", err)
		}
		if body["action"] != "get_client_id" {
			t.Errorf("Expected get_client_id action, got %s", body["action"])
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"client_id":"Iv1.remote","app_slug":"qadeck-sync"}`))
	}))
	defer srv.Close()

	c := NewBrokerClient(srv.URL)
	cfg, err := c.ClientConfig(context.Background())
	if err != nil {
		t.Fatalf("Failed to fetch client config: %v", err)
	}
	if cfg.ClientID != "Iv1.remote" || cfg.AppSlug != "qadeck-sync" {
		t.Errorf("Unexpected client config: %+v", cfg)
	}
}

func TestBrokerClientExchange(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("Failed to decode request: %v", err)
		}
		if body["code"] != "abc123" || body["installation_id"] != "42" {
			t.Errorf("Unexpected exchange request: %v", body)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"gho_exchanged","user":{"login":"octocat"},"repositories":[{"id":1,"full_name":"octocat/qa-suite"}]}`))
	}))
	defer srv.Close()

	c := NewBrokerClient(srv.URL)
	result, err := c.Exchange(context.Background(), "abc123", "42")
	if err != nil {
		t.Fatalf("Exchange failed: %v", err)
	}
	if result.AccessToken != "gho_exchanged" {
		t.Errorf("Expected exchanged token, got %s", result.AccessToken)
	}
	if result.User.Login != "octocat" {
		t.Errorf("Expected user octocat, got %s", result.User.Login)
	}
	if len(result.Repositories) != 1 || result.Repositories[0].FullName != "octocat/qa-suite" {
		t.Errorf("Unexpected repositories: %+v", result.Repositories)
	}
}

func TestBrokerClientOmitsEmptyInstallation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if _, present := body["installation_id"]; present {
			t.Error("Expected installation_id to be omitted when empty")
		}
		w.Write([]byte(`{"access_token":"gho_exchanged"}`))
	}))
	defer srv.Close()

	c := NewBrokerClient(srv.URL)
	if _, err := c.Exchange(context.Background(), "abc123", ""); err != nil {
		t.Fatalf("Exchange failed: %v", err)
	}
}

func TestBrokerClientSurfacesBrokerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"The code passed is incorrect or expired."}`))
	}))
	defer srv.Close()

	c := NewBrokerClient(srv.URL)
	_, err := c.Exchange(context.Background(), "stale", "")
	if err == nil {
		t.Fatal("Expected an error from the broker")
	}
	if !strings.Contains(err.Error(), "The code passed is incorrect or expired.") {
		t.Errorf("Expected broker error text, got %v", err)
	}
}
