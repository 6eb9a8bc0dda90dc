// Package http implements the transport under the client: request
// construction, credentials, interceptors, retries, and response
// capture. It stays protocol-agnostic: any received HTTP response is
// returned as data, whatever its status code, because the backend
// ships its envelope on error statuses too. Errors are reserved for
// requests that could not be built, sent, or read.
package http

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-retryablehttp"

	"github.com/txapi-io/txapi-client/internal/auth"
	"github.com/txapi-io/txapi-client/internal/constants"
	"github.com/txapi-io/txapi-client/pkg/txapi"
)

// Request describes one HTTP call to the backend.
type Request struct {
	Method  string
	Path    string
	Query   url.Values
	Body    any
	Headers map[string]string
}

// Response is a received HTTP response with its body fully read.
type Response struct {
	StatusCode  int
	Headers     http.Header
	ContentType string
	Body        []byte
}

// Client issues HTTP requests against a single backend base URL.
type Client struct {
	baseURL      string
	provider     auth.Provider
	rc           *retryablehttp.Client
	logger       txapi.Logger
	debug        bool
	userAgent    string
	interceptors *txapi.InterceptorChain
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger used for debug output.
func WithLogger(logger txapi.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithDebug enables request and response logging.
func WithDebug(debug bool) Option {
	return func(c *Client) {
		c.debug = debug
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.rc.HTTPClient.Timeout = timeout
	}
}

// WithRetryConfig enables retries on connection failures, 429s, and
// 5xx responses.
func WithRetryConfig(maxRetries int, waitMin, waitMax time.Duration) Option {
	return func(c *Client) {
		c.rc.RetryMax = maxRetries
		c.rc.RetryWaitMin = waitMin
		c.rc.RetryWaitMax = waitMax
	}
}

// WithInterceptors attaches an interceptor chain to every request.
func WithInterceptors(chain *txapi.InterceptorChain) Option {
	return func(c *Client) {
		c.interceptors = chain
	}
}

// NewClient creates a transport for baseURL. The provider resolves the
// API key per request; a nil provider sends unauthenticated requests.
// Retries are disabled until WithRetryConfig enables them.
func NewClient(baseURL string, provider auth.Provider, opts ...Option) *Client {
	rc := retryablehttp.NewClient()
	rc.RetryMax = constants.DefaultRetryMax
	rc.RetryWaitMin = constants.DefaultRetryWaitMin
	rc.RetryWaitMax = constants.DefaultRetryWaitMax
	rc.HTTPClient.Timeout = constants.DefaultHTTPTimeout
	rc.Logger = nil

	// Exhausted retries must still hand the last response back instead
	// of swallowing it, so error statuses keep carrying the envelope.
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler

	client := &Client{
		baseURL:   baseURL,
		provider:  provider,
		rc:        rc,
		userAgent: constants.DefaultUserAgent,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// Do executes req and returns the response, whatever its status code.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	fullURL := c.baseURL + req.Path
	if len(req.Query) > 0 {
		fullURL += "?" + req.Query.Encode()
	}

	var bodyBytes []byte

	if req.Body != nil {
		data, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}

		bodyBytes = data
	}

	headers, err := c.requestHeaders(ctx, req, bodyBytes)
	if err != nil {
		return nil, err
	}

	ireq := &txapi.Request{
		Method:   req.Method,
		Path:     req.Path,
		Headers:  headers,
		Body:     bodyBytes,
		Metadata: map[string]interface{}{},
	}

	if c.interceptors != nil {
		err = c.interceptors.ExecuteRequestInterceptors(ctx, ireq)
		if err != nil {
			return nil, err
		}
	}

	if ireq.Headers.Get(constants.HeaderRequestID) == "" {
		ireq.Headers.Set(constants.HeaderRequestID, uuid.NewString())
	}

	hreq, err := retryablehttp.NewRequestWithContext(ctx, req.Method, fullURL, ireq.Body)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}

	for key, values := range ireq.Headers {
		for _, value := range values {
			hreq.Header.Add(key, value)
		}
	}

	if c.debug && c.logger != nil {
		c.logger.Debug("HTTP Request", map[string]interface{}{
			"method": req.Method,
			"url":    fullURL,
		})
	}

	httpResp, err := c.rc.Do(hreq)
	if err != nil {
		c.notifyResponseError(ctx, ireq, err)

		return nil, fmt.Errorf("executing request: %w", err)
	}

	defer func() {
		_ = httpResp.Body.Close()
	}()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	if c.debug && c.logger != nil {
		c.logger.Debug("HTTP Response", map[string]interface{}{
			"method":      req.Method,
			"url":         fullURL,
			"status_code": httpResp.StatusCode,
		})
	}

	if c.interceptors != nil {
		iresp := &txapi.Response{
			StatusCode: httpResp.StatusCode,
			Headers:    httpResp.Header,
			Body:       body,
		}

		err = c.interceptors.ExecuteResponseInterceptors(ctx, ireq, iresp)
		if err != nil {
			return nil, err
		}
	}

	return &Response{
		StatusCode:  httpResp.StatusCode,
		Headers:     httpResp.Header,
		ContentType: httpResp.Header.Get("Content-Type"),
		Body:        body,
	}, nil
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodGet, Path: path, Query: query})
}

// Post performs a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body any) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPost, Path: path, Body: body})
}

// Put performs a PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body any) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPut, Path: path, Body: body})
}

// Patch performs a PATCH request with a JSON body.
func (c *Client) Patch(ctx context.Context, path string, body any) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPatch, Path: path, Body: body})
}

// Delete performs a DELETE request.
func (c *Client) Delete(ctx context.Context, path string, query url.Values) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodDelete, Path: path, Query: query})
}

// BaseURL returns the backend base URL the client targets.
func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) requestHeaders(ctx context.Context, req *Request, body []byte) (http.Header, error) {
	headers := http.Header{}
	headers.Set("Accept", "application/json")

	if c.userAgent != "" {
		headers.Set("User-Agent", c.userAgent)
	}

	if body != nil {
		headers.Set("Content-Type", "application/json")
	}

	if c.provider != nil {
		key, err := c.provider.Key(ctx)
		if err != nil {
			return nil, fmt.Errorf("resolving API key: %w", err)
		}

		if key != "" {
			headers.Set(constants.HeaderAPIKey, key)
		}
	}

	for key, value := range req.Headers {
		headers.Set(key, value)
	}

	return headers, nil
}

// notifyResponseError gives response interceptors a look at transport
// failures. Interceptor errors are dropped here, the transport failure
// is the one worth reporting.
func (c *Client) notifyResponseError(ctx context.Context, req *txapi.Request, cause error) {
	if c.interceptors == nil {
		return
	}

	_ = c.interceptors.ExecuteResponseInterceptors(ctx, req, &txapi.Response{Error: cause})
}
