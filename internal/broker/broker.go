package broker

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	gh "github.com/google/go-github/v57/github"

	"github.com/aforsberg/qadeck/internal/config"
	"github.com/aforsberg/qadeck/internal/domain"
	"github.com/aforsberg/qadeck/internal/logger"
	"github.com/aforsberg/qadeck/internal/provider/common"
	"github.com/aforsberg/qadeck/internal/provider/github"
)

const actionGetClientID = "get_client_id"

var ErrCredentialsNotConfigured = errors.New("GitHub OAuth credentials not configured")

// Handler is the stateless authorization broker. Every request is a
// self-contained POST; nothing is persisted between calls.
type Handler struct {
	cfg        *config.Broker
	httpClient *http.Client
}

func New(cfg *config.Broker) *Handler {
	return &Handler{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

type request struct {
	Action         string `json:"action,omitempty"`
	Code           string `json:"code,omitempty"`
	InstallationID string `json:"installation_id,omitempty"`
}

type clientIDResponse struct {
	ClientID string `json:"client_id"`
	AppSlug  string `json:"app_slug,omitempty"`
}

// ExchangeResponse is the normalized payload returned to the caller on
// a successful token exchange.
type ExchangeResponse struct {
	AccessToken  string              `json:"access_token"`
	User         domain.Account      `json:"user"`
	Repositories []domain.Repository `json:"repositories"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	writeCORSHeaders(w)

	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST, OPTIONS")
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
		return
	}

	var req request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("failed to decode request body: %w", err))
		return
	}

	if req.Action == actionGetClientID {
		writeJSON(w, http.StatusOK, clientIDResponse{
			ClientID: h.cfg.ClientID,
			AppSlug:  h.cfg.AppSlug,
		})
		return
	}

	payload, err := h.exchange(r.Context(), req)
	if err != nil {
		logger.LogError("TOKEN_EXCHANGE", req.InstallationID, err)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, payload)
}

func (h *Handler) exchange(ctx context.Context, req request) (*ExchangeResponse, error) {
	if req.Code == "" {
		return nil, errors.New("authorization code is required")
	}

	if h.cfg.ClientID == "" || h.cfg.ClientSecret == "" {
		return nil, ErrCredentialsNotConfigured
	}

	accessToken, err := h.exchangeCode(ctx, req.Code)
	if err != nil {
		return nil, err
	}
	logger.Log("Obtained access token for code exchange")

	client := github.NewClient(accessToken)
	if h.cfg.APIBaseURL != "" {
		if err := client.SetBaseURL(h.cfg.APIBaseURL); err != nil {
			return nil, err
		}
	}

	user, err := client.AuthenticatedUser(ctx)
	if err != nil {
		return nil, err
	}
	logger.Log("Fetched user %s", user.GetLogin())

	repos, err := h.resolveRepositories(ctx, client, req.InstallationID)
	if err != nil {
		return nil, err
	}
	logger.Log("Resolved %d repositories", len(repos))

	payload := &ExchangeResponse{
		AccessToken: accessToken,
		User: domain.Account{
			Login:     common.GetString(user.Login),
			Name:      common.GetString(user.Name),
			AvatarURL: common.GetString(user.AvatarURL),
		},
		Repositories: make([]domain.Repository, 0, len(repos)),
	}
	for _, repo := range repos {
		payload.Repositories = append(payload.Repositories, toRepository(repo))
	}

	return payload, nil
}

type tokenResponse struct {
	AccessToken      string `json:"access_token"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// exchangeCode trades the authorization code for an access token. The
// provider reports some failures as an error field inside a 200 body,
// so both paths are checked.
func (h *Handler) exchangeCode(ctx context.Context, code string) (string, error) {
	body, err := json.Marshal(map[string]string{
		"client_id":     h.cfg.ClientID,
		"client_secret": h.cfg.ClientSecret,
		"code":          code,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal token request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.cfg.TokenURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build token request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to exchange code for token: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		text, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		logger.LogError("TOKEN_ENDPOINT", resp.Status, errors.New(string(text)))
		return "", fmt.Errorf("token exchange failed with status %d", resp.StatusCode)
	}

	var token tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return "", fmt.Errorf("failed to decode token response: %w", err)
	}

	if token.Error != "" {
		if token.ErrorDescription != "" {
			return "", errors.New(token.ErrorDescription)
		}
		return "", errors.New(token.Error)
	}

	if token.AccessToken == "" {
		return "", errors.New("token response missing access token")
	}

	return token.AccessToken, nil
}

// resolveRepositories walks the fallback chain: explicit installation,
// then the user's installations of the app, then the general repo
// listing. The chain short-circuits on the first non-empty result.
func (h *Handler) resolveRepositories(ctx context.Context, client *github.Client, installationID string) ([]*gh.Repository, error) {
	instID := int64(0)
	if installationID != "" {
		var err error
		instID, err = strconv.ParseInt(installationID, 10, 64)
		if err != nil {
			logger.LogError("PARSE_INSTALLATION_ID", installationID, err)
			instID = 0
		}
	}

	if instID == 0 {
		installations, err := client.ListInstallations(ctx)
		if err != nil {
			logger.LogError("LIST_INSTALLATIONS", "", err)
		} else if len(installations) > 0 {
			chosen := installations[0]
			if h.cfg.AppSlug != "" {
				for _, inst := range installations {
					if inst.GetAppSlug() == h.cfg.AppSlug {
						chosen = inst
						break
					}
				}
			}
			instID = chosen.GetID()
		}
	}

	var repos []*gh.Repository
	if instID != 0 {
		var err error
		repos, err = client.ListInstallationRepositories(ctx, instID)
		if err != nil {
			logger.LogError("LIST_INSTALLATION_REPOS", strconv.FormatInt(instID, 10), err)
			repos = nil
		}
	}

	if len(repos) > 0 {
		return repos, nil
	}

	return client.ListUserRepositories(ctx)
}

func toRepository(repo *gh.Repository) domain.Repository {
	updatedAt := ""
	if repo.UpdatedAt != nil {
		updatedAt = repo.UpdatedAt.Format(time.RFC3339)
	}

	return domain.Repository{
		ID:            common.GetInt64(repo.ID),
		Name:          common.GetString(repo.Name),
		FullName:      common.GetString(repo.FullName),
		CloneURL:      common.GetString(repo.CloneURL),
		SSHURL:        common.GetString(repo.SSHURL),
		HTMLURL:       common.GetString(repo.HTMLURL),
		Private:       common.GetBool(repo.Private),
		Description:   common.GetString(repo.Description),
		UpdatedAt:     updatedAt,
		DefaultBranch: common.GetString(repo.DefaultBranch),
	}
}

func writeCORSHeaders(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Headers", "authorization, x-client-info, apikey, content-type")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
}
