package api

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// maxErrorBody caps how much of a failed response body is kept in a ServerError
const maxErrorBody = 512

// NetworkError reports a request that never produced an HTTP response:
// connection failures, timeouts and cancellation.
type NetworkError struct {
	Op  string
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// Timeout reports whether the request ran out of time
func (e *NetworkError) Timeout() bool {
	if errors.Is(e.Err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(e.Err, &ne) && ne.Timeout()
}

// ServerError reports a response the client could not accept: a non-2xx
// status or a body that is not the expected JSON.
type ServerError struct {
	Op         string
	URL        string
	StatusCode int
	Body       string
	Err        error // decode failure, nil for plain status errors
}

func (e *ServerError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s %s: status %d: %v", e.Op, e.URL, e.StatusCode, e.Err)
	}
	if e.Body != "" {
		return fmt.Sprintf("%s %s: status %d: %s", e.Op, e.URL, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("%s %s: status %d", e.Op, e.URL, e.StatusCode)
}

func (e *ServerError) Unwrap() error { return e.Err }

// Temporary reports whether repeating the request might succeed
func (e *ServerError) Temporary() bool {
	return e.Err == nil && e.StatusCode >= 500
}

// IsNetworkError reports whether err carries a NetworkError
func IsNetworkError(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne)
}

// IsServerError reports whether err carries a ServerError
func IsServerError(err error) bool {
	var se *ServerError
	return errors.As(err, &se)
}

func truncateBody(b []byte) string {
	if len(b) > maxErrorBody {
		return string(b[:maxErrorBody]) + "..."
	}
	return string(b)
}
