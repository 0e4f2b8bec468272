// Package errors provides the error taxonomy of the client SDK and the
// classification used by retry policies.
package errors

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/threatintel/client/internal/types"
)

// ErrorCategory determines how errors should be handled by retry logic.
type ErrorCategory int

const (
	// Recoverable errors may be retried with exponential backoff.
	// Examples: 500 Internal Server Error, network timeouts, connection failures.
	Recoverable ErrorCategory = iota

	// Irrecoverable errors should fail immediately without retry.
	// Examples: failed authentication, 400 Bad Request, 404 Not Found.
	Irrecoverable
)

// String returns a human-readable representation of the error category.
func (c ErrorCategory) String() string {
	switch c {
	case Recoverable:
		return "Recoverable"
	case Irrecoverable:
		return "Irrecoverable"
	default:
		return fmt.Sprintf("Unknown(%d)", int(c))
	}
}

// Classified is implemented by every error type of this package.
type Classified interface {
	error
	Category() ErrorCategory
}

// TransportError is a network-level failure: DNS, connection refused,
// deadline exceeded. The core never retries it.
type TransportError struct {
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport: %s %s: %v", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Category implements Classified. Caller cancellation is not worth retrying.
func (e *TransportError) Category() ErrorCategory {
	if stderrors.Is(e.Err, context.Canceled) {
		return Irrecoverable
	}
	return Recoverable
}

// AuthenticationError reports a failed identity exchange: a non-201 token
// response or a malformed token payload.
type AuthenticationError struct {
	StatusCode int                  // 0 when the failure was not an HTTP status
	Payload    *types.ErrorResponse // parsed error body, when present
	Err        error
}

func (e *AuthenticationError) Error() string {
	switch {
	case e.StatusCode > 0 && e.Err != nil:
		return fmt.Sprintf("authentication failed (%d): %v", e.StatusCode, e.Err)
	case e.StatusCode > 0:
		return fmt.Sprintf("authentication failed (%d)%s", e.StatusCode, firstMessage(e.Payload))
	case e.Err != nil:
		return fmt.Sprintf("authentication failed: %v", e.Err)
	default:
		return "authentication failed"
	}
}

func (e *AuthenticationError) Unwrap() error { return e.Err }

// Category implements Classified.
func (e *AuthenticationError) Category() ErrorCategory { return Irrecoverable }

// UnexpectedStatusError is returned by endpoint calls that received a status
// their contract does not accept.
type UnexpectedStatusError struct {
	Op         string
	StatusCode int
	Payload    *types.ErrorResponse
}

func (e *UnexpectedStatusError) Error() string {
	return fmt.Sprintf("%s: API call failed with status code %d%s", e.Op, e.StatusCode, firstMessage(e.Payload))
}

// Category implements Classified.
func (e *UnexpectedStatusError) Category() ErrorCategory {
	return getHTTPErrorCategory(e.StatusCode)
}

// TraceID returns the server trace id when the payload carried one.
func (e *UnexpectedStatusError) TraceID() string {
	if e.Payload == nil {
		return ""
	}
	return e.Payload.Meta.TraceID
}

// CategoryOf returns the category of the first Classified error in err's
// chain. Unclassified errors report ok=false.
func CategoryOf(err error) (ErrorCategory, bool) {
	var c Classified
	if stderrors.As(err, &c) {
		return c.Category(), true
	}
	return Irrecoverable, false
}

// IsRecoverable returns true if err may succeed when retried.
func IsRecoverable(err error) bool {
	c, ok := CategoryOf(err)
	return ok && c == Recoverable
}

// IsIrrecoverable returns true if err is classified as not worth retrying.
func IsIrrecoverable(err error) bool {
	c, ok := CategoryOf(err)
	return ok && c == Irrecoverable
}

func firstMessage(p *types.ErrorResponse) string {
	if p == nil || len(p.Errors) == 0 {
		return ""
	}
	return fmt.Sprintf(": (%d) %s", p.Errors[0].Code, p.Errors[0].Message)
}
