package connect

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/browser"
	"golang.org/x/oauth2"

	"github.com/aforsberg/qadeck/internal/broker"
	"github.com/aforsberg/qadeck/internal/config"
	"github.com/aforsberg/qadeck/internal/domain"
	"github.com/aforsberg/qadeck/internal/logger"
)

type brokerAPI interface {
	ClientConfig(ctx context.Context) (*ClientConfig, error)

	Exchange(ctx context.Context, code, installationID string) (*broker.ExchangeResponse, error)
}

type callbackEndpoint interface {
	Start() error

	Close() error

	Origin() string

	RedirectURL() string

	Messages() <-chan Message
}

// Orchestrator drives the two-stage GitHub authorization handshake:
// app installation first, then the OAuth token grant, each completed
// by the callback listener in the user's browser.
type Orchestrator struct {
	cfg         *config.Client
	sessions    domain.SessionStore
	connections domain.ConnectionStore
	broker      brokerAPI
	listener    callbackEndpoint
	openURL     func(string) error

	pollInterval time.Duration
	waitTimeout  time.Duration

	mu   sync.RWMutex
	conn *domain.Connection
}

func NewOrchestrator(cfg *config.Client, sessions domain.SessionStore, connections domain.ConnectionStore) *Orchestrator {
	return &Orchestrator{
		cfg:          cfg,
		sessions:     sessions,
		connections:  connections,
		broker:       NewBrokerClient(cfg.BrokerURL),
		listener:     NewCallbackListener(cfg.CallbackAddr, sessions),
		openURL:      browser.OpenURL,
		pollInterval: 500 * time.Millisecond,
		waitTimeout:  5 * time.Minute,
	}
}

// Hydrate restores a previously persisted connection. Incomplete or
// corrupt stored data simply leaves the orchestrator disconnected.
func (o *Orchestrator) Hydrate() error {
	conn, err := o.connections.Load()
	if err != nil {
		return fmt.Errorf("failed to restore connection: %w", err)
	}

	o.mu.Lock()
	o.conn = conn
	o.mu.Unlock()

	if conn != nil {
		logger.Log("Restored GitHub connection for %s", conn.Username)
	}
	return nil
}

func (o *Orchestrator) Connected() bool {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.conn != nil
}

func (o *Orchestrator) Connection() *domain.Connection {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.conn
}

// Connect runs the full handshake and returns the established
// connection. A failure never disturbs a previously established
// connection.
func (o *Orchestrator) Connect(ctx context.Context) (*domain.Connection, error) {
	clientID, appSlug, err := o.resolveClientConfig(ctx)
	if err != nil {
		return nil, err
	}

	state := uuid.NewString()
	o.sessions.Begin(state)

	if err := o.listener.Start(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConnectionFailed, err)
	}

	installationID := ""
	if appSlug != "" {
		installURL := fmt.Sprintf("%s/apps/%s/installations/new?state=%s",
			o.cfg.ProviderURL, appSlug, url.QueryEscape(state))

		logger.Log("Opening GitHub App installation page")
		if err := o.openURL(installURL); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBrowserBlocked, err)
		}

		installationID, err = o.awaitInstallation(ctx)
		if err != nil {
			return nil, err
		}
		logger.Log("App installation %s completed", installationID)
	}

	authURL := o.authorizeURL(clientID, state)
	logger.Log("Opening GitHub authorization page")
	if err := o.openURL(authURL); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBrowserBlocked, err)
	}

	return o.awaitAuthorization(ctx, installationID)
}

// Disconnect drops the in-memory and persisted connection. Safe to
// call repeatedly.
func (o *Orchestrator) Disconnect() error {
	o.mu.Lock()
	o.conn = nil
	o.mu.Unlock()

	o.sessions.Clear()

	if err := o.connections.Clear(); err != nil {
		return fmt.Errorf("failed to disconnect: %w", err)
	}

	logger.Log("GitHub connection removed")
	return nil
}

// SwitchRepository selects among the already fetched repositories.
// No provider call is made.
func (o *Orchestrator) SwitchRepository(fullName string) (*domain.Repository, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.conn == nil {
		return nil, ErrNotConnected
	}

	repo := o.conn.Repository(fullName)
	if repo == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownRepository, fullName)
	}

	o.conn.SelectedRepo = fullName
	if err := o.connections.Save(o.conn); err != nil {
		return nil, err
	}

	logger.Log("Selected repository %s", fullName)
	return repo, nil
}

func (o *Orchestrator) resolveClientConfig(ctx context.Context) (clientID, appSlug string, err error) {
	clientID = o.cfg.ClientID
	appSlug = o.cfg.AppSlug

	if clientID == "" || appSlug == "" {
		remote, err := o.broker.ClientConfig(ctx)
		if err != nil {
			if clientID == "" {
				return "", "", fmt.Errorf("%w: %v", ErrNotConfigured, err)
			}
			logger.LogError("CLIENT_CONFIG", o.cfg.BrokerURL, err)
		} else {
			if clientID == "" {
				clientID = remote.ClientID
			}
			if appSlug == "" {
				appSlug = remote.AppSlug
			}
		}
	}

	if clientID == "" {
		return "", "", ErrNotConfigured
	}
	return clientID, appSlug, nil
}

// awaitInstallation watches for the installation identifier the
// callback controller writes into the session store. The wait is
// bounded; an expired attempt is reported as incomplete, not as a
// provider failure.
func (o *Orchestrator) awaitInstallation(ctx context.Context) (string, error) {
	ticker := time.NewTicker(o.pollInterval)
	defer ticker.Stop()
	deadline := time.After(o.waitTimeout)

	for {
		select {
		case <-ctx.Done():
			return "", ErrInstallationIncomplete

		case <-deadline:
			if id := o.sessions.InstallationID(); id != "" {
				return id, nil
			}
			return "", ErrInstallationIncomplete

		case <-ticker.C:
			if id := o.sessions.InstallationID(); id != "" {
				return id, nil
			}

		case msg := <-o.listener.Messages():
			if msg.Origin != o.listener.Origin() {
				logger.Log("Ignoring message from unexpected origin %s", msg.Origin)
				continue
			}
			switch msg.Type {
			case MessageInstallationComplete:
				return msg.InstallationID, nil
			case MessageOAuthError:
				return "", authorizationError(msg.Err)
			}
		}
	}
}

// awaitAuthorization waits for the OAuth leg to complete. Messages
// from a different origin are ignored unconditionally, and a state
// mismatch drops the message without touching connection state. An
// expired wait first drains any message that beat the deadline, the
// same way the installation wait re-checks the session store.
func (o *Orchestrator) awaitAuthorization(ctx context.Context, installationID string) (*domain.Connection, error) {
	deadline := time.After(o.waitTimeout)

	for {
		select {
		case <-ctx.Done():
			return nil, ErrAuthorizationClosed

		case <-deadline:
			return o.drainAuthorization(ctx, installationID)

		case msg := <-o.listener.Messages():
			conn, done, err := o.handleAuthorizationMessage(ctx, msg, installationID)
			if done {
				return conn, err
			}
		}
	}
}

// drainAuthorization consumes messages already buffered at deadline
// expiry so a completed authorization is never reported as closed.
func (o *Orchestrator) drainAuthorization(ctx context.Context, installationID string) (*domain.Connection, error) {
	for {
		select {
		case msg := <-o.listener.Messages():
			conn, done, err := o.handleAuthorizationMessage(ctx, msg, installationID)
			if done {
				return conn, err
			}
		default:
			return nil, ErrAuthorizationClosed
		}
	}
}

func (o *Orchestrator) handleAuthorizationMessage(ctx context.Context, msg Message, installationID string) (*domain.Connection, bool, error) {
	if msg.Origin != o.listener.Origin() {
		logger.Log("Ignoring message from unexpected origin %s", msg.Origin)
		return nil, false, nil
	}

	switch msg.Type {
	case MessageOAuthError:
		err := authorizationError(msg.Err)
		return nil, true, err

	case MessageOAuthSuccess:
		if msg.State != o.sessions.State() {
			logger.Log("State mismatch on OAuth callback, dropping message")
			return nil, false, nil
		}
		conn, err := o.completeExchange(ctx, msg, installationID)
		return conn, true, err
	}

	return nil, false, nil
}

func (o *Orchestrator) completeExchange(ctx context.Context, msg Message, installationID string) (*domain.Connection, error) {
	if installationID == "" {
		installationID = o.sessions.InstallationID()
	}
	if installationID == "" {
		// The provider may append the installation id to the OAuth
		// redirect itself.
		if q, err := url.ParseQuery(strings.TrimPrefix(msg.RawQuery, "?")); err == nil {
			installationID = q.Get("installation_id")
		}
	}

	result, err := o.broker.Exchange(ctx, msg.Code, installationID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConnectionFailed, err)
	}

	conn := &domain.Connection{
		AccessToken:  result.AccessToken,
		Username:     result.User.Login,
		Repositories: result.Repositories,
	}
	if len(conn.Repositories) > 0 {
		conn.SelectedRepo = conn.Repositories[0].FullName
	}

	if err := o.connections.Save(conn); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConnectionFailed, err)
	}

	o.mu.Lock()
	o.conn = conn
	o.mu.Unlock()
	o.sessions.Clear()

	logger.Log("Connected to GitHub as %s with %d repositories", conn.Username, len(conn.Repositories))
	return conn, nil
}

func (o *Orchestrator) authorizeURL(clientID, state string) string {
	conf := &oauth2.Config{
		ClientID:    clientID,
		RedirectURL: o.listener.RedirectURL(),
		Scopes:      []string{"repo"},
		Endpoint: oauth2.Endpoint{
			AuthURL: o.cfg.ProviderURL + "/login/oauth/authorize",
		},
	}
	return conf.AuthCodeURL(state)
}

func authorizationError(text string) error {
	if text == "" {
		return ErrAuthorizationFailed
	}
	return fmt.Errorf("%w: %s", ErrAuthorizationFailed, text)
}
