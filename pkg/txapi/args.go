package txapi

import (
	"fmt"
	"net/url"
	"strconv"
)

// Args is the flat argument bag accepted by every request-issuing
// operation. Control keys steer paging and filtering; every other key
// names a model field of the target collection.
type Args map[string]any

// Control keys recognized by the backend.
const (
	// ControlPage selects the result page of a list call.
	ControlPage = "_page"

	// ControlPageLength sets the number of records per page of a list call.
	ControlPageLength = "_pagelength"

	// ControlQuery carries free-text match criteria for a list call.
	ControlQuery = "_query"

	// ControlSortBy names the model field list results are ordered by.
	ControlSortBy = "_sortby"

	// ReservedSessionKey carries the session id on the wire. The client
	// injects it on every request; argument bags that already contain it
	// fail with ErrReservedArgument before any network activity.
	ReservedSessionKey = "_session"
)

// IsControlKey reports whether key belongs to the fixed control set.
func IsControlKey(key string) bool {
	switch key {
	case ControlPage, ControlPageLength, ControlQuery, ControlSortBy, ReservedSessionKey:
		return true
	default:
		return false
	}
}

// Partition splits args into control query parameters and model fields.
// Every key of the input lands in exactly one of the outputs, and
// neither output shares memory with the input map.
func Partition(args Args) (url.Values, Args) {
	control := url.Values{}
	model := make(Args, len(args))

	for key, value := range args {
		if IsControlKey(key) {
			control.Set(key, FormatValue(value))
		} else {
			model[key] = value
		}
	}

	return control, model
}

// Values stringifies every key of args into query parameters. GET
// requests use this form, because the backend reads model filters from
// the query string.
func Values(args Args) url.Values {
	values := url.Values{}
	for key, value := range args {
		values.Set(key, FormatValue(value))
	}

	return values
}

// FormatValue renders an argument value as a query parameter.
func FormatValue(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(value)
	}
}
