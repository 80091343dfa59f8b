package monitor

import (
	"errors"
	"fmt"
)

// ErrBodyTruncated marks a page whose body was cut at http_config.max_body_bytes.
var ErrBodyTruncated = errors.New("response body exceeded max_body_bytes")

// FetchErrorKind classifies why a page could not be checked.
type FetchErrorKind string

const (
	FetchErrorTransport FetchErrorKind = "transport"
	FetchErrorTimeout   FetchErrorKind = "timeout"
	FetchErrorStatus    FetchErrorKind = "status"
	FetchErrorRead      FetchErrorKind = "read"
)

// FetchError is returned by the page checker for any failed poll.
type FetchError struct {
	Kind       FetchErrorKind
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	switch e.Kind {
	case FetchErrorStatus:
		return fmt.Sprintf("unexpected status %d from %s", e.StatusCode, e.URL)
	case FetchErrorTimeout:
		return fmt.Sprintf("request to %s timed out: %v", e.URL, e.Err)
	default:
		return fmt.Sprintf("%s error for %s: %v", e.Kind, e.URL, e.Err)
	}
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
