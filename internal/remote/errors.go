package remote

import (
	"context"
	"errors"
	"fmt"
	"net"
)

var (
	// ErrUnauthorized is returned when the API rejects the bearer token. The
	// session has already been ended when a caller sees it.
	ErrUnauthorized = errors.New("remote: unauthorized")
	ErrNotFound     = errors.New("remote: not found")
)

// TransportError is a failure to reach the API or read its response.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("remote %s: transport: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Timeout reports whether the request ran out of time.
func (e *TransportError) Timeout() bool {
	if errors.Is(e.Err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(e.Err, &netErr) && netErr.Timeout()
}

// APIError is a response the API marked as failed, either with a non-2xx
// status or with success:false in the body.
type APIError struct {
	Op         string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("remote %s: api error (status %d)", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("remote %s: api error (status %d): %s", e.Op, e.StatusCode, e.Message)
}

// DecodeError is a response body that does not match the expected schema.
type DecodeError struct {
	Op  string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("remote %s: decode: %v", e.Op, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }
