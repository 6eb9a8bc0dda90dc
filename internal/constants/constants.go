package constants

import "time"

// File and directory permissions.
const (
	// ConfigDirPerm is the permission for configuration directories.
	ConfigDirPerm = 0750

	// ConfigFilePerm is the permission for configuration files.
	ConfigFilePerm = 0600
)

// HTTP and network timeouts.
const (
	// DefaultHTTPTimeout is the default timeout for HTTP requests.
	DefaultHTTPTimeout = 30 * time.Second
)

// Retry defaults. Retries are disabled unless a caller opts in; the wait
// bounds apply once a positive retry count is configured.
const (
	// DefaultRetryMax is the default maximum number of retries.
	DefaultRetryMax = 0

	// DefaultRetryWaitMin is the minimum wait time between retries.
	DefaultRetryWaitMin = 1 * time.Second

	// DefaultRetryWaitMax is the maximum wait time between retries.
	DefaultRetryWaitMax = 10 * time.Second
)

// Header names used on the wire.
const (
	// HeaderAPIKey carries the API key expected by the backend.
	HeaderAPIKey = "X-API-KEY"

	// HeaderRequestID carries the per-request correlation id.
	HeaderRequestID = "X-Request-ID"
)

// Client identification.
const (
	// DefaultUserAgent is the User-Agent sent when none is configured.
	DefaultUserAgent = "txapi-client-go"
)

// Environment variable names.
const (
	// EnvPrefix is the prefix for all CLI environment variables.
	EnvPrefix = "TXAPI"

	// EnvAPIKey names the variable holding the default API key.
	EnvAPIKey = "TXAPI_API_KEY"

	// EnvEndpoint names the variable holding the default endpoint.
	EnvEndpoint = "TXAPI_ENDPOINT"
)

// Session wire values.
const (
	// SessionCloseYes closes the session on rollback.
	SessionCloseYes = "y"

	// SessionCloseNo keeps the session open on rollback.
	SessionCloseNo = "n"
)

// Configuration file location.
const (
	// ConfigDirName is the directory under the user home holding CLI state.
	ConfigDirName = ".txapi"

	// ConfigFileName is the config file basename, without extension.
	ConfigFileName = "config"

	// ConfigFileType is the config file format understood by viper.
	ConfigFileType = "yml"
)

// Output format constants.
const (
	// FormatTable for tabular output format.
	FormatTable = "table"

	// FormatJSON for JSON output format.
	FormatJSON = "json"

	// FormatYAML for YAML output format.
	FormatYAML = "yaml"
)

// Boolean string constants.
const (
	// BooleanTrue string representation.
	BooleanTrue = "true"

	// BooleanFalse string representation.
	BooleanFalse = "false"
)

// Validation and parsing limits.
const (
	// MinimumArgumentCount is the minimum number of command line arguments.
	MinimumArgumentCount = 2

	// KeyValueSplitParts is the number of parts when splitting key=value strings.
	KeyValueSplitParts = 2

	// JSONIndentSize is the number of spaces for JSON indentation.
	JSONIndentSize = 2
)
