package narou

import (
	"errors"
	"fmt"
)

var (
	ErrMissingElement  = errors.New("missing element")
	ErrUnsafeXML       = errors.New("unsafe XML construct")
	ErrNotAtom         = errors.New("not an Atom feed")
	ErrBadTimestamp    = errors.New("invalid ISO-8601 timestamp")
	ErrBadEntryID      = errors.New("invalid entry id")
	ErrUnexpectedShape = errors.New("unexpected response shape")
)

// ConfigurationError reports an invalid client option, such as a proxy URL
// with the wrong scheme or without a host. It is returned before any request
// is made.
type ConfigurationError struct {
	Field string
	Value string
	Err   error
}

func (e *ConfigurationError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("invalid %s: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("invalid %s %q: %v", e.Field, e.Value, e.Err)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// TransportError reports a failed round trip. StatusCode is zero when the
// request never produced a response (connection failure, timeout,
// cancellation); Err is nil for a plain non-2xx status.
type TransportError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("GET %s: HTTP error: %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("GET %s: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// DecodeError reports a response body that could not be turned into a record.
type DecodeError struct {
	Resource string
	Err      error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decoding %s: %v", e.Resource, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

func missing(path string) error {
	return fmt.Errorf("%w: %s", ErrMissingElement, path)
}
