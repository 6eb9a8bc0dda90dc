package constants

import "errors"

// CLI configuration errors.
var (
	ErrNoEndpointConfigured = errors.New("no endpoint configured, run 'txapi login' or set TXAPI_ENDPOINT")
	ErrUnknownConfigKey     = errors.New("unknown configuration key")
	ErrUnknownOutputFormat  = errors.New("unknown output format")
)

// CLI argument errors.
var (
	ErrInvalidRecordID = errors.New("record id must be a positive integer")
	ErrInvalidKeyValue = errors.New("expected key=value")
	ErrFieldRequired   = errors.New("at least one --field is required")
)
