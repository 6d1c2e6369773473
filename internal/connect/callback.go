package connect

import (
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/aforsberg/qadeck/internal/domain"
	"github.com/aforsberg/qadeck/internal/logger"
)

const callbackPath = "/github/callback"

// CallbackListener is the loopback analog of the callback popup page:
// the identity provider redirects the user's browser here, and the
// handler translates the query parameters into either a session-store
// write (installation leg) or a typed message (OAuth leg).
type CallbackListener struct {
	addr     string
	sessions domain.SessionStore
	messages chan Message

	mu      sync.Mutex
	ln      net.Listener
	srv     *http.Server
	origin  string
	started bool
}

func NewCallbackListener(addr string, sessions domain.SessionStore) *CallbackListener {
	return &CallbackListener{
		addr:     addr,
		sessions: sessions,
		messages: make(chan Message, 8),
	}
}

// Start binds the loopback listener. Calling Start on a running
// listener is a no-op so repeated connect attempts reuse the port.
func (l *CallbackListener) Start() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.started {
		return nil
	}

	ln, err := net.Listen("tcp", l.addr)
	if err != nil {
		return fmt.Errorf("failed to start callback listener on %s: %w", l.addr, err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", l.handleHome)
	mux.HandleFunc(callbackPath, l.handleCallback)

	l.ln = ln
	l.origin = "http://" + ln.Addr().String()
	l.srv = &http.Server{
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	l.started = true

	go func() {
		if err := l.srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			logger.LogError("CALLBACK_LISTENER", l.origin, err)
		}
	}()

	logger.Log("Callback listener started at %s", l.origin)
	return nil
}

func (l *CallbackListener) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.started {
		return nil
	}
	l.started = false
	return l.srv.Close()
}

func (l *CallbackListener) Origin() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.origin
}

func (l *CallbackListener) RedirectURL() string {
	return l.Origin() + callbackPath
}

func (l *CallbackListener) Messages() <-chan Message {
	return l.messages
}

// handleCallback evaluates the redirect parameters in strict
// precedence order: installation completion, provider error, OAuth
// code, then unrecognized loads.
func (l *CallbackListener) handleCallback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	origin := "http://" + r.Host

	switch {
	case q.Get("setup_action") != "" && q.Get("installation_id") != "":
		id := q.Get("installation_id")
		l.sessions.SetInstallationID(id)
		l.post(Message{
			Type:           MessageInstallationComplete,
			Origin:         origin,
			InstallationID: id,
		})
		logger.Log("Callback: app installation %s recorded", id)
		renderClosePage(w, "GitHub App installed", "You can close this window and return to the terminal.")

	case q.Get("error") != "":
		text := q.Get("error_description")
		if text == "" {
			text = q.Get("error")
		}
		l.post(Message{Type: MessageOAuthError, Origin: origin, Err: text})
		logger.Log("Callback: provider reported error: %s", text)
		renderClosePage(w, "Authorization failed", "You can close this window and try again from the terminal.")

	case q.Get("code") != "" && q.Get("state") != "":
		l.post(Message{
			Type:     MessageOAuthSuccess,
			Origin:   origin,
			Code:     q.Get("code"),
			State:    q.Get("state"),
			RawQuery: "?" + r.URL.RawQuery,
		})
		logger.Log("Callback: authorization code received")
		renderClosePage(w, "Authorization complete", "You can close this window and return to the terminal.")

	default:
		http.Redirect(w, r, "/", http.StatusFound)
	}
}

func (l *CallbackListener) handleHome(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html")
	_, _ = fmt.Fprint(w, `<html>
<head><title>qadeck</title></head>
<body style="font-family: sans-serif; text-align: center; padding: 50px;">
	<h1>qadeck</h1>
	<p>This window is only used during GitHub authorization. Return to the terminal.</p>
</body>
</html>`)
}

// post hands a message to the orchestrator without ever blocking the
// redirect response.
func (l *CallbackListener) post(msg Message) {
	select {
	case l.messages <- msg:
	default:
		logger.Log("Callback: dropping %s message, no consumer ready", msg.Type)
	}
}

func renderClosePage(w http.ResponseWriter, title, detail string) {
	w.Header().Set("Content-Type", "text/html")
	_, _ = fmt.Fprintf(w, `<html>
<head><title>%s</title></head>
<body style="font-family: sans-serif; text-align: center; padding: 50px;">
	<h1>%s</h1>
	<p>%s</p>
	<script>setTimeout(function() { window.close(); }, 1000);</script>
</body>
</html>`, title, title, detail)
}
