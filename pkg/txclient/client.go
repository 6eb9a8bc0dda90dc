// Package txclient provides the main entry point for creating transactional API clients
package txclient

import (
	"fmt"
	"os"
	"strings"

	"github.com/txapi-io/txapi-client/internal/client"
	"github.com/txapi-io/txapi-client/internal/constants"
	"github.com/txapi-io/txapi-client/pkg/txapi"
)

// New creates a new API client from the given configuration.
func New(config *txapi.Config) (txapi.Client, error) {
	if config == nil {
		return nil, txapi.ErrConfigRequired
	}

	if config.Endpoint == "" {
		return nil, txapi.ErrEndpointRequired
	}

	// Normalize the endpoint
	endpoint := strings.TrimSuffix(config.Endpoint, "/")
	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		endpoint = "https://" + endpoint
	}

	config.Endpoint = endpoint

	// Use the internal client implementation
	cli, err := client.New(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create new client: %w", err)
	}

	return cli, nil
}

// NewWithEndpoint creates a new client with just an endpoint (no auth).
func NewWithEndpoint(endpoint string) (txapi.Client, error) {
	return New(&txapi.Config{
		Endpoint: endpoint,
	})
}

// NewWithAPIKey creates a new client with an endpoint and API key.
func NewWithAPIKey(endpoint, key string) (txapi.Client, error) {
	return New(&txapi.Config{
		Endpoint: endpoint,
		APIKey:   key,
	})
}

// NewFromEnv creates a new client configured from the TXAPI_ENDPOINT and
// TXAPI_API_KEY environment variables. When the key variable is set it
// is re-read on every request, so rotated credentials are picked up
// without rebuilding the client; when it is unset the client runs
// anonymously.
func NewFromEnv() (txapi.Client, error) {
	endpoint := os.Getenv(constants.EnvEndpoint)
	if endpoint == "" {
		return nil, fmt.Errorf("environment variable %s: %w", constants.EnvEndpoint, txapi.ErrEndpointRequired)
	}

	config := &txapi.Config{Endpoint: endpoint}
	if os.Getenv(constants.EnvAPIKey) != "" {
		config.APIKeyEnv = constants.EnvAPIKey
	}

	return New(config)
}
