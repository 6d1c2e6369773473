package connect

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/aforsberg/qadeck/internal/broker"
)

// ClientConfig is the public identity configuration served by the
// broker's get_client_id action.
type ClientConfig struct {
	ClientID string `json:"client_id"`
	AppSlug  string `json:"app_slug"`
}

// BrokerClient talks to the authorization broker over HTTP. The broker
// is the only party holding the client secret; this client never sees
// it.
type BrokerClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewBrokerClient(baseURL string) *BrokerClient {
	return &BrokerClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

func (c *BrokerClient) ClientConfig(ctx context.Context) (*ClientConfig, error) {
	var cfg ClientConfig
	if err := c.post(ctx, map[string]string{"action": "get_client_id"}, &cfg); err != nil {
		return nil, fmt.Errorf("failed to fetch client configuration: %w", err)
	}
	return &cfg, nil
}

func (c *BrokerClient) Exchange(ctx context.Context, code, installationID string) (*broker.ExchangeResponse, error) {
	body := map[string]string{"code": code}
	if installationID != "" {
		body["installation_id"] = installationID
	}

	var result broker.ExchangeResponse
	if err := c.post(ctx, body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *BrokerClient) post(ctx context.Context, body interface{}, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal broker request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build broker request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach authorization broker: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var brokerErr struct {
			Error string `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&brokerErr); err == nil && brokerErr.Error != "" {
			return fmt.Errorf("broker rejected request: %s", brokerErr.Error)
		}
		return fmt.Errorf("broker returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode broker response: %w", err)
	}
	return nil
}
