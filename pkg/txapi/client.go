package txapi

import (
	"context"
	"time"
)

// Backend behavior documented for callers. The client does not enforce
// these values; the backend does.
const (
	// DefaultPage is the page the backend serves when _page is omitted.
	DefaultPage = 1

	// DefaultPageLength is the page size the backend serves when
	// _pagelength is omitted.
	DefaultPageLength = 100

	// MaxPageLength is the page size the backend caps _pagelength at.
	MaxPageLength = 1000

	// DefaultSortBy is the field the backend orders by when _sortby is
	// omitted.
	DefaultSortBy = "id"

	// SessionInactivityTimeout is how long the backend keeps an idle
	// session before rolling it back and reaping it.
	SessionInactivityTimeout = 30 * time.Minute
)

// Module is anything mountable in a client's resource tree: it knows
// the URL it is rooted at and describes the operations it offers.
type Module interface {
	// BasePath returns the URL path the module is rooted at.
	BasePath() string

	// Actions returns a directory of operation names to URL templates.
	Actions() map[string]string
}

// Requester executes one orchestrated API call: session resolution,
// argument routing, the HTTP exchange, and session finalization.
type Requester interface {
	Do(ctx context.Context, method, path string, args Args, session string) (*Envelope, error)
}

// SessionsClient manages backend transaction sessions. It is stateless:
// the backend is the sole authority on which sessions exist, and reaps
// abandoned ones after SessionInactivityTimeout.
type SessionsClient interface {
	Module

	// Acquire opens a new session and returns its id.
	Acquire(ctx context.Context) (string, error)

	// Commit persists all changes in the session and closes it.
	Commit(ctx context.Context, session string) (*Envelope, error)

	// Rollback discards all changes in the session. When close is false
	// the session stays open for further use.
	Rollback(ctx context.Context, session string, close bool) (*Envelope, error)
}

// CollectionClient provides the CRUD surface of one registered
// collection. Every method takes a session id; "" runs the call in a
// temporary session committed or rolled back around it, while a
// non-empty id joins an explicit session the caller finishes through
// SessionsClient.
type CollectionClient interface {
	Module

	// ListIDs fetches a page of record references (ids and links).
	ListIDs(ctx context.Context, opts *ListOptions, session string) (*Envelope, error)

	// ListDetails fetches a page of full records.
	ListDetails(ctx context.Context, opts *ListOptions, session string) (*Envelope, error)

	// Create inserts a new record built from the model arguments.
	Create(ctx context.Context, args Args, session string) (*Envelope, error)

	// Get fetches one record by id.
	Get(ctx context.Context, id int, session string) (*Envelope, error)

	// Update applies the model arguments to one record.
	Update(ctx context.Context, id int, args Args, session string) (*Envelope, error)

	// Delete removes one record.
	Delete(ctx context.Context, id int, session string) (*Envelope, error)
}

// Client is the root of a typed API client: a registry of collections,
// endpoints, and nested modules sharing one session authority and one
// transport.
type Client interface {
	// Sessions returns the shared session manager.
	Sessions() SessionsClient

	// AddCollection registers a generic collection under name, rooted at
	// path (default "/<name>"), and returns it.
	AddCollection(name string, path ...string) (CollectionClient, error)

	// Collection returns the registered collection with the given name.
	Collection(name string) (CollectionClient, error)

	// Register mounts a module under name.
	Register(name string, mod Module) error

	// RegisterEndpoint registers a single custom operation. Path defaults
	// to "/<name>" and method defaults to GET.
	RegisterEndpoint(name, path, method string) (*Endpoint, error)

	// Module returns the registered module with the given name.
	Module(name string) (Module, error)

	// Endpoint returns the registered endpoint with the given name.
	Endpoint(name string) (*Endpoint, error)

	// Actions returns the client's operation directory.
	Actions() map[string]string

	// BasePath returns the root path of the client's resource tree.
	BasePath() string

	// Do executes one orchestrated call against an arbitrary path.
	Do(ctx context.Context, method, path string, args Args, session string) (*Envelope, error)
}

// Logger interface for logging.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Config represents client configuration for building a txapi.Client.
//
// # Credentials
//
// The backend authenticates requests through the X-API-KEY header. The
// concrete client resolves the key in precedence order:
//  1. APIKey: if set, it is sent as-is on every request.
//  2. APIKeyEnv: if set, the named environment variable is read when a
//     request needs the key, so rotated keys are picked up without
//     rebuilding the client.
//  3. Neither: requests are sent without authentication.
//
// # Timeouts and retries
//
// Per-request deadlines should generally be controlled via the context
// passed to client methods; HTTPTimeout bounds a single HTTP exchange.
// Retries are disabled by default because a retried write could repeat
// inside a fresh backend session. Setting RetryMax > 0 opts in, with
// backoff between RetryWaitMin and RetryWaitMax.
type Config struct {
	// Endpoint: base URL of the API (e.g., "https://api.example.com").
	// txclient.New normalizes this value by trimming a trailing slash and
	// adding "https://" if no scheme is present.
	Endpoint string

	// APIKey: credential sent in the X-API-KEY header.
	APIKey string

	// APIKeyEnv: name of an environment variable to read the API key
	// from when APIKey is empty.
	APIKeyEnv string

	// UserAgent: overrides the default User-Agent header sent by the client.
	UserAgent string

	// HTTPTimeout: timeout for a single HTTP exchange. Defaults to 30s.
	HTTPTimeout time.Duration

	// RetryMax: maximum number of retries for transient transport
	// failures. Zero disables retries.
	RetryMax int

	// RetryWaitMin: minimum backoff between retries. Applied when RetryMax > 0.
	RetryWaitMin time.Duration

	// RetryWaitMax: maximum backoff between retries. Applied when RetryMax > 0.
	RetryWaitMax time.Duration

	// Debug: enables verbose HTTP request/response logging when a Logger
	// is provided.
	Debug bool

	// Logger: optional structured logger used by the HTTP layer.
	Logger Logger

	// Interceptors: optional request/response interceptor chain applied
	// by the transport around every HTTP exchange.
	Interceptors *InterceptorChain
}
