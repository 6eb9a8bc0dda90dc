package client

import (
	"context"
	"fmt"
	"strings"

	"github.com/txapi-io/txapi-client/internal/auth"
	"github.com/txapi-io/txapi-client/internal/constants"
	txhttp "github.com/txapi-io/txapi-client/internal/http"
	"github.com/txapi-io/txapi-client/pkg/txapi"
)

// Client implements txapi.Client. It owns the transport, the session
// manager, the request core, and the registry of collections and
// endpoints mounted on them.
type Client struct {
	transport *txhttp.Client
	core      *core
	registry  *txapi.Registry
	sessions  *SessionsClient
}

// New creates a new client from the given configuration. The endpoint
// is the only required field; everything else has working defaults.
// The built-in session module is registered under "session", which
// therefore cannot be used as a collection name.
func New(config *txapi.Config) (*Client, error) {
	if config == nil {
		return nil, txapi.ErrConfigRequired
	}

	if config.Endpoint == "" {
		return nil, txapi.ErrEndpointRequired
	}

	transport := txhttp.NewClient(config.Endpoint, createKeyProvider(config), createHTTPClientOptions(config)...)
	sessions := NewSessionsClient(transport)
	requestCore := newCore(transport, sessions, config.Logger)

	registry := txapi.NewRegistry("", requestCore)
	if err := registry.Register("session", sessions); err != nil {
		return nil, fmt.Errorf("registering session module: %w", err)
	}

	return &Client{
		transport: transport,
		core:      requestCore,
		registry:  registry,
		sessions:  sessions,
	}, nil
}

// createKeyProvider resolves the credential source in precedence order:
// literal key first, then named environment variable, then anonymous
// access.
func createKeyProvider(config *txapi.Config) auth.Provider {
	switch {
	case config.APIKey != "":
		return &auth.StaticKey{Value: config.APIKey}
	case config.APIKeyEnv != "":
		return &auth.EnvKey{Variable: config.APIKeyEnv}
	default:
		return nil
	}
}

// createHTTPClientOptions converts the public configuration into
// transport options, filling retry backoff bounds with defaults when
// retries are enabled without them.
func createHTTPClientOptions(config *txapi.Config) []txhttp.Option {
	opts := []txhttp.Option{}

	if config.Logger != nil {
		opts = append(opts, txhttp.WithLogger(config.Logger))
	}

	if config.Debug {
		opts = append(opts, txhttp.WithDebug(true))
	}

	if config.UserAgent != "" {
		opts = append(opts, txhttp.WithUserAgent(config.UserAgent))
	}

	if config.HTTPTimeout > 0 {
		opts = append(opts, txhttp.WithTimeout(config.HTTPTimeout))
	}

	if config.RetryMax > 0 {
		waitMin := config.RetryWaitMin
		if waitMin <= 0 {
			waitMin = constants.DefaultRetryWaitMin
		}

		waitMax := config.RetryWaitMax
		if waitMax <= 0 {
			waitMax = constants.DefaultRetryWaitMax
		}

		opts = append(opts, txhttp.WithRetryConfig(config.RetryMax, waitMin, waitMax))
	}

	if config.Interceptors != nil {
		opts = append(opts, txhttp.WithInterceptors(config.Interceptors))
	}

	return opts
}

// Sessions implements txapi.Client.Sessions.
func (c *Client) Sessions() txapi.SessionsClient {
	return c.sessions
}

// AddCollection implements txapi.Client.AddCollection.
func (c *Client) AddCollection(name string, path ...string) (txapi.CollectionClient, error) {
	basePath := "/" + name

	if len(path) > 0 {
		if custom := strings.Trim(path[0], "/"); custom != "" {
			basePath = "/" + custom
		}
	}

	collection := NewCollectionClient(name, basePath, c.core)
	if err := c.registry.Register(name, collection); err != nil {
		return nil, err
	}

	return collection, nil
}

// Collection implements txapi.Client.Collection.
func (c *Client) Collection(name string) (txapi.CollectionClient, error) {
	mod, err := c.registry.Module(name)
	if err != nil {
		return nil, err
	}

	collection, ok := mod.(txapi.CollectionClient)
	if !ok {
		return nil, fmt.Errorf("module %q: %w", name, txapi.ErrNotCollection)
	}

	return collection, nil
}

// Register implements txapi.Client.Register.
func (c *Client) Register(name string, mod txapi.Module) error {
	return c.registry.Register(name, mod)
}

// RegisterEndpoint implements txapi.Client.RegisterEndpoint.
func (c *Client) RegisterEndpoint(name, path, method string) (*txapi.Endpoint, error) {
	return c.registry.RegisterEndpoint(name, path, method)
}

// Module implements txapi.Client.Module.
func (c *Client) Module(name string) (txapi.Module, error) {
	return c.registry.Module(name)
}

// Endpoint implements txapi.Client.Endpoint.
func (c *Client) Endpoint(name string) (*txapi.Endpoint, error) {
	return c.registry.Endpoint(name)
}

// Actions implements txapi.Client.Actions.
func (c *Client) Actions() map[string]string {
	return c.registry.Actions()
}

// BasePath implements txapi.Client.BasePath.
func (c *Client) BasePath() string {
	return c.registry.BasePath()
}

// Do implements txapi.Client.Do.
func (c *Client) Do(ctx context.Context, method, path string, args txapi.Args, session string) (*txapi.Envelope, error) {
	return c.core.Do(ctx, method, path, args, session)
}
