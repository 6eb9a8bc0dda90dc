package client

import (
	"context"
	"fmt"
	"net/url"

	"github.com/txapi-io/txapi-client/internal/constants"
	txhttp "github.com/txapi-io/txapi-client/internal/http"
	"github.com/txapi-io/txapi-client/pkg/txapi"
)

// SessionsClient implements txapi.SessionsClient. Session operations
// talk to the transport directly: wrapping them in the request core
// would recurse into session acquisition.
type SessionsClient struct {
	transport *txhttp.Client
}

// NewSessionsClient creates a new sessions client.
func NewSessionsClient(transport *txhttp.Client) *SessionsClient {
	return &SessionsClient{transport: transport}
}

// BasePath implements txapi.Module.BasePath.
func (c *SessionsClient) BasePath() string {
	return "/session"
}

// Actions implements txapi.Module.Actions. The keys mirror the
// backend's session routes rather than the Go method names.
func (c *SessionsClient) Actions() map[string]string {
	return map[string]string{
		"get":      "/session/new",
		"save":     "/session/save/{session}",
		"rollback": "/session/rollback/{session}",
	}
}

// Acquire implements txapi.SessionsClient.Acquire.
func (c *SessionsClient) Acquire(ctx context.Context) (string, error) {
	env, err := c.call(ctx, "/session/new", nil)
	if err != nil {
		return "", fmt.Errorf("acquiring session: %w", err)
	}

	id, err := env.SessionID()
	if err != nil {
		return "", fmt.Errorf("acquiring session: %w", err)
	}

	return id, nil
}

// Commit implements txapi.SessionsClient.Commit. The returned envelope
// carries the backend's summary of persisted changes.
func (c *SessionsClient) Commit(ctx context.Context, session string) (*txapi.Envelope, error) {
	env, err := c.call(ctx, "/session/save/"+url.PathEscape(session), nil)
	if err != nil {
		return nil, fmt.Errorf("committing session %s: %w", session, err)
	}

	return env, nil
}

// Rollback implements txapi.SessionsClient.Rollback. The returned
// envelope carries the backend's summary of discarded changes. When
// closeSession is false the session survives for further calls.
func (c *SessionsClient) Rollback(ctx context.Context, session string, closeSession bool) (*txapi.Envelope, error) {
	closeValue := constants.SessionCloseNo
	if closeSession {
		closeValue = constants.SessionCloseYes
	}

	query := url.Values{}
	query.Set("close", closeValue)

	env, err := c.call(ctx, "/session/rollback/"+url.PathEscape(session), query)
	if err != nil {
		return nil, fmt.Errorf("rolling back session %s: %w", session, err)
	}

	return env, nil
}

// call performs one session operation. All of them are GETs in the
// backend's route table. Unsuccessful envelopes surface as APIFailure
// because a failed session operation leaves the caller nothing to act
// on.
func (c *SessionsClient) call(ctx context.Context, path string, query url.Values) (*txapi.Envelope, error) {
	resp, err := c.transport.Get(ctx, path, query)
	if err != nil {
		return nil, err
	}

	env, err := decodeEnvelope(resp)
	if err != nil {
		return nil, err
	}

	if !env.Success {
		return nil, txapi.FailureFromInfo(env.Info)
	}

	return env, nil
}
