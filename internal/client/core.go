package client

import (
	"context"
	"encoding/json"
	"fmt"
	"mime"
	"net/http"

	txhttp "github.com/txapi-io/txapi-client/internal/http"
	"github.com/txapi-io/txapi-client/pkg/txapi"
)

// core implements txapi.Requester. It wraps every collection and
// endpoint call in the session lifecycle the backend expects: calls
// without a session id run inside a temporary session that the core
// acquires first and commits or rolls back afterwards, calls with an
// explicit id join that session and leave its fate to the caller.
type core struct {
	transport *txhttp.Client
	sessions  *SessionsClient
	logger    txapi.Logger
}

func newCore(transport *txhttp.Client, sessions *SessionsClient, logger txapi.Logger) *core {
	return &core{
		transport: transport,
		sessions:  sessions,
		logger:    logger,
	}
}

// Do implements txapi.Requester.Do.
func (c *core) Do(ctx context.Context, method, path string, args txapi.Args, session string) (*txapi.Envelope, error) {
	if _, ok := args[txapi.ReservedSessionKey]; ok {
		return nil, fmt.Errorf("argument %q: %w", txapi.ReservedSessionKey, txapi.ErrReservedArgument)
	}

	temporary := session == ""
	if temporary {
		acquired, err := c.sessions.Acquire(ctx)
		if err != nil {
			return nil, err
		}

		session = acquired
	}

	resp, err := c.transport.Do(ctx, buildRequest(method, path, args, session))
	if err != nil {
		// The exchange failed somewhere between here and the backend, so
		// the session's state is unknown and no finalization is attempted.
		// The backend reaps sessions left idle this way.
		if temporary && c.logger != nil {
			c.logger.Warn("abandoning session after transport failure", map[string]interface{}{
				"session": session,
			})
		}

		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}

	env, err := decodeEnvelope(resp)
	if err != nil {
		if temporary {
			return nil, c.rollbackAfterError(ctx, session, err)
		}

		return nil, err
	}

	if temporary {
		if err := c.finalize(ctx, session, env.Success); err != nil {
			return nil, err
		}
	}

	return env, nil
}

// finalize closes a temporary session according to the backend's own
// verdict on the call: commit on success, rollback on failure. The
// failed envelope itself still travels back to the caller as data.
func (c *core) finalize(ctx context.Context, session string, success bool) error {
	if success {
		_, err := c.sessions.Commit(ctx, session)

		return err
	}

	_, err := c.sessions.Rollback(ctx, session, true)

	return err
}

// rollbackAfterError discards a temporary session after an undecodable
// response. The protocol error stays first in the chain; a rollback
// failure is appended as detail.
func (c *core) rollbackAfterError(ctx context.Context, session string, primary error) error {
	if _, err := c.sessions.Rollback(ctx, session, true); err != nil {
		return fmt.Errorf("%w (rollback of session %s also failed: %v)", primary, session, err)
	}

	return primary
}

// buildRequest lays arguments out the way the backend reads them: GET
// carries everything in the query string, other methods carry control
// keys in the query string and model fields in the JSON body. The
// session id always travels as a query parameter.
func buildRequest(method, path string, args txapi.Args, session string) *txhttp.Request {
	req := &txhttp.Request{Method: method, Path: path}

	if method == http.MethodGet {
		query := txapi.Values(args)
		query.Set(txapi.ReservedSessionKey, session)
		req.Query = query

		return req
	}

	control, model := txapi.Partition(args)
	control.Set(txapi.ReservedSessionKey, session)
	req.Query = control

	if len(model) > 0 {
		req.Body = model
	}

	return req
}

// decodeEnvelope parses a response into the wire envelope. A response
// that does not declare JSON or does not decode is a protocol error
// carrying the offending status and content type.
func decodeEnvelope(resp *txhttp.Response) (*txapi.Envelope, error) {
	mediaType, _, err := mime.ParseMediaType(resp.ContentType)
	if err != nil || mediaType != "application/json" {
		return nil, &txapi.ProtocolError{
			StatusCode:  resp.StatusCode,
			ContentType: resp.ContentType,
			Err:         txapi.ErrUnexpectedContentType,
		}
	}

	env := &txapi.Envelope{}
	if err := json.Unmarshal(resp.Body, env); err != nil {
		return nil, &txapi.ProtocolError{
			StatusCode:  resp.StatusCode,
			ContentType: resp.ContentType,
			Err:         fmt.Errorf("decoding envelope: %w", err),
		}
	}

	return env, nil
}
