package txapi

import (
	"context"
	"fmt"
	"net/http"
	"path"
	"strings"
	"unicode"
)

// Endpoint is a single registered operation outside the collection CRUD
// set: a name bound to a path and method, invokable through the
// client's request core.
type Endpoint struct {
	Name   string
	Path   string
	Method string

	requester Requester
}

// NewEndpoint binds a named operation to a requester.
func NewEndpoint(name, endpointPath, method string, requester Requester) *Endpoint {
	return &Endpoint{
		Name:      name,
		Path:      endpointPath,
		Method:    method,
		requester: requester,
	}
}

// Call executes the endpoint with the given arguments and session.
func (e *Endpoint) Call(ctx context.Context, args Args, session string) (*Envelope, error) {
	return e.requester.Do(ctx, e.Method, e.Path, args, session)
}

// Registry is one node of a client's resource tree: named modules and
// endpoints mounted under a base path, plus a directory of the actions
// they offer. Registration happens at setup time; afterwards a node is
// read-only and safe to share across goroutines.
//
// Registry satisfies Module, so prebuilt sub-registries can be mounted
// on another registry.
type Registry struct {
	basePath  string
	requester Requester
	modules   map[string]Module
	endpoints map[string]*Endpoint
	actions   map[string]string
}

// NewRegistry creates a registry node rooted at basePath. Endpoints
// registered on the node route their calls through requester.
func NewRegistry(basePath string, requester Requester) *Registry {
	return &Registry{
		basePath:  basePath,
		requester: requester,
		modules:   make(map[string]Module),
		endpoints: make(map[string]*Endpoint),
		actions:   make(map[string]string),
	}
}

// Register mounts a module under name. The first registration of a name
// wins: a later attempt fails with ErrNameTaken and leaves the existing
// entry intact.
func (r *Registry) Register(name string, mod Module) error {
	if mod == nil {
		return fmt.Errorf("registering %q: %w", name, ErrNilModule)
	}

	err := validateName(name)
	if err != nil {
		return err
	}

	if r.taken(name) {
		return fmt.Errorf("registering %q: %w", name, ErrNameTaken)
	}

	r.modules[name] = mod
	r.actions[name] = mod.BasePath()

	return nil
}

// RegisterEndpoint registers a single custom operation under name.
// The path defaults to "/<name>", the method to GET; the path is
// resolved against the node's base path. Collision rules match
// Register.
func (r *Registry) RegisterEndpoint(name, endpointPath, method string) (*Endpoint, error) {
	err := validateName(name)
	if err != nil {
		return nil, err
	}

	if r.taken(name) {
		return nil, fmt.Errorf("registering %q: %w", name, ErrNameTaken)
	}

	if endpointPath == "" {
		endpointPath = "/" + name
	}

	if method == "" {
		method = http.MethodGet
	}

	endpoint := NewEndpoint(name, joinPath(r.basePath, endpointPath), strings.ToUpper(method), r.requester)
	r.endpoints[name] = endpoint
	r.actions[name] = endpoint.Path

	return endpoint, nil
}

// Module returns the module registered under name.
func (r *Registry) Module(name string) (Module, error) {
	mod, ok := r.modules[name]
	if !ok {
		return nil, fmt.Errorf("module %q: %w", name, ErrNotRegistered)
	}

	return mod, nil
}

// Endpoint returns the endpoint registered under name.
func (r *Registry) Endpoint(name string) (*Endpoint, error) {
	endpoint, ok := r.endpoints[name]
	if !ok {
		return nil, fmt.Errorf("endpoint %q: %w", name, ErrNotRegistered)
	}

	return endpoint, nil
}

// Actions returns a copy of the node's action directory.
func (r *Registry) Actions() map[string]string {
	actions := make(map[string]string, len(r.actions))
	for name, target := range r.actions {
		actions[name] = target
	}

	return actions
}

// BasePath returns the path the node is rooted at.
func (r *Registry) BasePath() string {
	return r.basePath
}

func (r *Registry) taken(name string) bool {
	_, isModule := r.modules[name]
	_, isEndpoint := r.endpoints[name]

	return isModule || isEndpoint
}

func validateName(name string) error {
	if name == "" || strings.ContainsFunc(name, unicode.IsSpace) {
		return fmt.Errorf("name %q: %w", name, ErrInvalidName)
	}

	return nil
}

func joinPath(base, endpointPath string) string {
	joined := path.Join(base, endpointPath)
	if !strings.HasPrefix(joined, "/") {
		joined = "/" + joined
	}

	return joined
}
