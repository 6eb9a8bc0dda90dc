package txapi

import (
	"errors"
	"fmt"
)

// Backend status codes carried in Info.Code. The backend reuses HTTP
// status codes for its envelope-level codes.
const (
	CodeOK           = 200
	CodeCreated      = 201
	CodeBadRequest   = 400
	CodeUnauthorized = 401
	CodeNotFound     = 404
	CodeConflict     = 409
	CodeServerError  = 500
)

// APIFailure represents a response the backend marked unsuccessful.
// Collection traffic returns such responses as data; direct session
// operations and probes surface them as this error.
type APIFailure struct {
	Code    int    `json:"code"    yaml:"code"`
	Message string `json:"message" yaml:"message"`
}

// Error implements the error interface.
func (e *APIFailure) Error() string {
	return fmt.Sprintf("%s (code: %d)", e.Message, e.Code)
}

// FailureFromInfo builds an APIFailure from a response status block.
func FailureFromInfo(info Info) *APIFailure {
	return &APIFailure{Code: info.Code, Message: info.Message}
}

// ProtocolError reports a response that does not carry a decodable JSON
// envelope. Err is ErrUnexpectedContentType when the declared content
// type is not JSON, or the decode error when the body is malformed.
type ProtocolError struct {
	StatusCode  int
	ContentType string
	Err         error
}

// Error implements the error interface.
func (e *ProtocolError) Error() string {
	return fmt.Sprintf("protocol error (status %d, content type %q): %v", e.StatusCode, e.ContentType, e.Err)
}

// Unwrap exposes the underlying cause.
func (e *ProtocolError) Unwrap() error {
	return e.Err
}

// Usage errors, raised before any network activity.
var (
	ErrReservedArgument = errors.New("argument _session is reserved for the client")
	ErrMissingID        = errors.New("record id is required")
	ErrInvalidName      = errors.New("name must be non-empty and contain no whitespace")
	ErrNameTaken        = errors.New("name already registered")
	ErrNilModule        = errors.New("module is required")
	ErrNotRegistered    = errors.New("not registered")
	ErrNotCollection    = errors.New("registered module is not a collection")
)

// Configuration errors.
var (
	ErrConfigRequired   = errors.New("config is required")
	ErrEndpointRequired = errors.New("endpoint is required")
	ErrAPIKeyRequired   = errors.New("API key is required")
)

// Protocol and response errors.
var (
	ErrUnexpectedContentType = errors.New("unexpected content type")
	ErrNoSessionID           = errors.New("response carries no session id")
	ErrNoMorePages           = errors.New("no more pages")
)

// IsNotFound checks if the error reports a missing record.
func IsNotFound(err error) bool {
	return failureCode(err) == CodeNotFound
}

// IsUnauthorized checks if the error reports rejected credentials.
func IsUnauthorized(err error) bool {
	return failureCode(err) == CodeUnauthorized
}

// IsConflict checks if the error reports a uniqueness conflict.
func IsConflict(err error) bool {
	return failureCode(err) == CodeConflict
}

func failureCode(err error) int {
	failure := &APIFailure{}
	if errors.As(err, &failure) {
		return failure.Code
	}

	return 0
}
