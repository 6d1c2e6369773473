package config

import (
	"os"

	"github.com/joho/godotenv"
)

const (
	defaultBrokerURL    = "http://127.0.0.1:8787"
	defaultCallbackAddr = "127.0.0.1:8788"
	defaultPort         = "8787"

	defaultProviderURL = "https://github.com"
	defaultTokenURL    = "https://github.com/login/oauth/access_token"
)

// Client holds the workspace-side configuration. It deliberately has
// no field for the OAuth client secret; the secret lives only in the
// broker's environment.
type Client struct {
	ClientID     string
	AppSlug      string
	BrokerURL    string
	CallbackAddr string
	ProviderURL  string
}

func LoadClient() *Client {
	_ = godotenv.Load()

	return &Client{
		ClientID:     os.Getenv("QADECK_GITHUB_CLIENT_ID"),
		AppSlug:      os.Getenv("QADECK_GITHUB_APP_SLUG"),
		BrokerURL:    getEnv("QADECK_BROKER_URL", defaultBrokerURL),
		CallbackAddr: getEnv("QADECK_CALLBACK_ADDR", defaultCallbackAddr),
		ProviderURL:  getEnv("QADECK_PROVIDER_URL", defaultProviderURL),
	}
}

// Broker holds the server-side configuration. Missing credentials are
// not fatal at load time; the request handler reports them as a
// configuration error so the process can still answer get_client_id.
type Broker struct {
	ClientID     string
	ClientSecret string
	AppSlug      string
	Port         string
	TokenURL     string
	APIBaseURL   string
}

func LoadBroker() *Broker {
	_ = godotenv.Load()

	return &Broker{
		ClientID:     os.Getenv("GITHUB_CLIENT_ID"),
		ClientSecret: os.Getenv("GITHUB_CLIENT_SECRET"),
		AppSlug:      os.Getenv("GITHUB_APP_SLUG"),
		Port:         getEnv("PORT", defaultPort),
		TokenURL:     getEnv("GITHUB_TOKEN_URL", defaultTokenURL),
		APIBaseURL:   os.Getenv("GITHUB_API_BASE_URL"),
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return fallback
}
