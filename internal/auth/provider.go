// Package auth resolves the API key attached to outgoing requests.
package auth

import (
	"context"
	"fmt"
	"os"

	"github.com/txapi-io/txapi-client/pkg/txapi"
)

// Provider yields the API key for a request. Implementations resolve
// the key per call, so rotated credentials are picked up without
// rebuilding the client.
type Provider interface {
	Key(ctx context.Context) (string, error)
}

// StaticKey serves a fixed key.
type StaticKey struct {
	Value string
}

// Key returns the configured key.
func (s StaticKey) Key(_ context.Context) (string, error) {
	return s.Value, nil
}

// EnvKey reads the key from an environment variable on every call.
type EnvKey struct {
	Variable string
}

// Key returns the variable's current value, or an error when it is
// unset or empty.
func (e EnvKey) Key(_ context.Context) (string, error) {
	value := os.Getenv(e.Variable)
	if value == "" {
		return "", fmt.Errorf("environment variable %s: %w", e.Variable, txapi.ErrAPIKeyRequired)
	}

	return value, nil
}

// Chain tries providers in order and serves the first non-empty key.
type Chain struct {
	Providers []Provider
}

// Key walks the chain. When every provider fails, the last failure is
// returned; an empty chain reports ErrAPIKeyRequired.
func (c Chain) Key(ctx context.Context) (string, error) {
	var lastErr error

	for _, provider := range c.Providers {
		key, err := provider.Key(ctx)
		if err != nil {
			lastErr = err

			continue
		}

		if key != "" {
			return key, nil
		}
	}

	if lastErr != nil {
		return "", lastErr
	}

	return "", txapi.ErrAPIKeyRequired
}
