package backend

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind classifies a failed backend call.
type ErrorKind string

const (
	// KindTransport covers network failures: unreachable host, DNS, timeouts.
	KindTransport ErrorKind = "transport"
	// KindBackend is a non-2xx answer from the backend.
	KindBackend ErrorKind = "backend"
	// KindDecode means the body could not be parsed.
	KindDecode ErrorKind = "decode"
	// KindUnavailable means the endpoint does not exist on this backend.
	KindUnavailable ErrorKind = "unavailable"
)

// APIError is returned by every Client method on failure.
type APIError struct {
	Kind       ErrorKind
	StatusCode int
	Message    string
	Err        error
}

func (e *APIError) Error() string { return e.Message }

func (e *APIError) Unwrap() error { return e.Err }

// KindOf returns the kind of a backend error. Errors that did not come from
// the client are treated as transport failures.
func KindOf(err error) ErrorKind {
	if err == nil {
		return ""
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return KindTransport
}

// IsUnavailable reports whether err means "feature not available".
func IsUnavailable(err error) bool { return KindOf(err) == KindUnavailable }

// IsTransport reports whether err is a connectivity failure.
func IsTransport(err error) bool { return err != nil && KindOf(err) == KindTransport }

// statusMessage is the fallback when an error body carries no detail.
func statusMessage(code int) string {
	return fmt.Sprintf("HTTP %d: %s", code, http.StatusText(code))
}
