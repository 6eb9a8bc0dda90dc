package client

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/txapi-io/txapi-client/pkg/txapi"
)

// CollectionClient implements txapi.CollectionClient for one registered
// collection. It holds no state beyond its mount point: every call is
// routed through the shared request core, which owns the session
// lifecycle.
type CollectionClient struct {
	name      string
	basePath  string
	requester txapi.Requester
}

// NewCollectionClient creates a client for the collection mounted at
// basePath. All calls go through requester.
func NewCollectionClient(name, basePath string, requester txapi.Requester) *CollectionClient {
	return &CollectionClient{
		name:      name,
		basePath:  basePath,
		requester: requester,
	}
}

// Name returns the registered name of the collection.
func (c *CollectionClient) Name() string {
	return c.name
}

// BasePath implements txapi.Module.BasePath.
func (c *CollectionClient) BasePath() string {
	return c.basePath
}

// Actions implements txapi.Module.Actions.
func (c *CollectionClient) Actions() map[string]string {
	return map[string]string{
		"listIds":     c.basePath + "/",
		"listDetails": c.basePath + "/details",
		"create":      c.basePath + "/",
		"read":        c.basePath + "/{id}",
		"update":      c.basePath + "/{id}",
		"delete":      c.basePath + "/{id}",
	}
}

// ListIDs implements txapi.CollectionClient.ListIDs.
func (c *CollectionClient) ListIDs(ctx context.Context, opts *txapi.ListOptions, session string) (*txapi.Envelope, error) {
	env, err := c.requester.Do(ctx, http.MethodGet, c.basePath+"/", opts.ToArgs(), session)
	if err != nil {
		return nil, fmt.Errorf("listing %s ids: %w", c.name, err)
	}

	return env, nil
}

// ListDetails implements txapi.CollectionClient.ListDetails.
func (c *CollectionClient) ListDetails(ctx context.Context, opts *txapi.ListOptions, session string) (*txapi.Envelope, error) {
	env, err := c.requester.Do(ctx, http.MethodGet, c.basePath+"/details", opts.ToArgs(), session)
	if err != nil {
		return nil, fmt.Errorf("listing %s details: %w", c.name, err)
	}

	return env, nil
}

// Create implements txapi.CollectionClient.Create.
func (c *CollectionClient) Create(ctx context.Context, args txapi.Args, session string) (*txapi.Envelope, error) {
	env, err := c.requester.Do(ctx, http.MethodPost, c.basePath+"/", args, session)
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", c.name, err)
	}

	return env, nil
}

// Get implements txapi.CollectionClient.Get.
func (c *CollectionClient) Get(ctx context.Context, id int, session string) (*txapi.Envelope, error) {
	recordPath, err := c.recordPath(id)
	if err != nil {
		return nil, err
	}

	env, err := c.requester.Do(ctx, http.MethodGet, recordPath, nil, session)
	if err != nil {
		return nil, fmt.Errorf("getting %s %d: %w", c.name, id, err)
	}

	return env, nil
}

// Update implements txapi.CollectionClient.Update.
func (c *CollectionClient) Update(ctx context.Context, id int, args txapi.Args, session string) (*txapi.Envelope, error) {
	recordPath, err := c.recordPath(id)
	if err != nil {
		return nil, err
	}

	env, err := c.requester.Do(ctx, http.MethodPost, recordPath, args, session)
	if err != nil {
		return nil, fmt.Errorf("updating %s %d: %w", c.name, id, err)
	}

	return env, nil
}

// Delete implements txapi.CollectionClient.Delete.
func (c *CollectionClient) Delete(ctx context.Context, id int, session string) (*txapi.Envelope, error) {
	recordPath, err := c.recordPath(id)
	if err != nil {
		return nil, err
	}

	env, err := c.requester.Do(ctx, http.MethodDelete, recordPath, nil, session)
	if err != nil {
		return nil, fmt.Errorf("deleting %s %d: %w", c.name, id, err)
	}

	return env, nil
}

// recordPath builds the URL of one record. Ids are validated here so a
// zero value never reaches the backend, where it would route to the
// collection listing instead.
func (c *CollectionClient) recordPath(id int) (string, error) {
	if id <= 0 {
		return "", fmt.Errorf("%s id %d: %w", c.name, id, txapi.ErrMissingID)
	}

	return c.basePath + "/" + strconv.Itoa(id), nil
}
