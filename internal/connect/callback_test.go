package connect

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aforsberg/qadeck/internal/storage"
)

func newTestListener() (*CallbackListener, *storage.SessionStore) {
	sessions := storage.NewSessionStore()
	return NewCallbackListener("127.0.0.1:0", sessions), sessions
}

func callback(l *CallbackListener, query string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, callbackPath+query, nil)
	w := httptest.NewRecorder()
	l.handleCallback(w, req)
	return w
}

func receiveOne(t *testing.T, l *CallbackListener) Message {
	t.Helper()
	select {
	case msg := <-l.Messages():
		return msg
	default:
		t.Fatal("Expected a message, channel was empty")
		return Message{}
	}
}

func assertNoMoreMessages(t *testing.T, l *CallbackListener) {
	t.Helper()
	select {
	case msg := <-l.Messages():
		t.Fatalf("Expected no further messages, got %+v", msg)
	default:
	}
}

func TestCallbackOAuthSuccess(t *testing.T) {
	l, _ := newTestListener()

	w := callback(l, "?code=abc123&state=xyz")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	msg := receiveOne(t, l)
	if msg.Type != MessageOAuthSuccess {
		t.Errorf("Expected %s message, got %s", MessageOAuthSuccess, msg.Type)
	}
	if msg.Code != "abc123" || msg.State != "xyz" {
		t.Errorf("Unexpected code/state: %s/%s", msg.Code, msg.State)
	}
	if msg.RawQuery != "?code=abc123&state=xyz" {
		t.Errorf("Expected raw query to be preserved, got %s", msg.RawQuery)
	}
	assertNoMoreMessages(t, l)
}

func TestCallbackInstallationComplete(t *testing.T) {
	l, sessions := newTestListener()
	sessions.Begin("xyz")

	w := callback(l, "?setup_action=install&installation_id=99")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	if sessions.InstallationID() != "99" {
		t.Errorf("Expected installation id 99 in session store, got %s", sessions.InstallationID())
	}

	msg := receiveOne(t, l)
	if msg.Type != MessageInstallationComplete {
		t.Errorf("Expected %s message, got %s", MessageInstallationComplete, msg.Type)
	}
	if msg.InstallationID != "99" {
		t.Errorf("Expected installation id 99, got %s", msg.InstallationID)
	}
}

func TestCallbackProviderError(t *testing.T) {
	l, _ := newTestListener()

	callback(l, "?error=access_denied&error_description=The+user+denied+the+request")

	msg := receiveOne(t, l)
	if msg.Type != MessageOAuthError {
		t.Errorf("Expected %s message, got %s", MessageOAuthError, msg.Type)
	}
	if msg.Err != "The user denied the request" {
		t.Errorf("Expected error description, got %s", msg.Err)
	}
}

func TestCallbackErrorWithoutDescription(t *testing.T) {
	l, _ := newTestListener()

	callback(l, "?error=access_denied")

	msg := receiveOne(t, l)
	if msg.Err != "access_denied" {
		t.Errorf("Expected raw error code as fallback, got %s", msg.Err)
	}
}

func TestCallbackInstallationTakesPrecedence(t *testing.T) {
	l, sessions := newTestListener()
	sessions.Begin("xyz")

	callback(l, "?setup_action=install&installation_id=7&code=abc&state=xyz")

	msg := receiveOne(t, l)
	if msg.Type != MessageInstallationComplete {
		t.Errorf("Expected installation message to win, got %s", msg.Type)
	}
	assertNoMoreMessages(t, l)
}

func TestCallbackUnrecognizedRedirects(t *testing.T) {
	l, _ := newTestListener()

	w := callback(l, "")
	if w.Code != http.StatusFound {
		t.Errorf("Expected redirect for unrecognized load, got %d", w.Code)
	}
	assertNoMoreMessages(t, l)
}

func TestListenerStartIsIdempotent(t *testing.T) {
	l, _ := newTestListener()

	if err := l.Start(); err != nil {
		t.Fatalf("Failed to start listener: %v", err)
	}
	defer l.Close()

	origin := l.Origin()
	if origin == "" {
		t.Fatal("Expected a non-empty origin after start")
	}

	if err := l.Start(); err != nil {
		t.Fatalf("Second start failed: %v", err)
	}
	if l.Origin() != origin {
		t.Errorf("Expected origin to be stable, got %s then %s", origin, l.Origin())
	}
	if l.RedirectURL() != origin+callbackPath {
		t.Errorf("Unexpected redirect URL: %s", l.RedirectURL())
	}
}
