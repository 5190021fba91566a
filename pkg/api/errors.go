package api

import (
	"errors"
	"fmt"
)

// ErrTransport is matched by every error the client returns for a failed
// call: non-2xx responses, network failures and undecodable bodies.
var ErrTransport = errors.New("api request failed")

// Error describes a failed API call.
type Error struct {
	// Op is the HTTP method of the failed call.
	Op string

	// URL is the final request URL.
	URL string

	// StatusCode is the HTTP status, or 0 when no response was received.
	StatusCode int

	// Body is the raw response body, when one was read.
	Body string

	// Err is the underlying cause, if any.
	Err error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s %s", e.Op, e.URL)
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s: status %d", msg, e.StatusCode)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	if e.Body != "" {
		msg = fmt.Sprintf("%s: %s", msg, truncate(e.Body, 500))
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports ErrTransport for every *Error.
func (e *Error) Is(target error) bool {
	return target == ErrTransport
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
