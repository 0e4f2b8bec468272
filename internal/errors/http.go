package errors

import "github.com/threatintel/client/internal/types"

// getHTTPErrorCategory maps HTTP status codes to error categories.
//   - 4xx client errors (except 408 and 429) are irrecoverable
//   - 5xx server errors are recoverable
func getHTTPErrorCategory(statusCode int) ErrorCategory {
	switch {
	case statusCode >= 400 && statusCode < 500:
		switch statusCode {
		case 408, 429:
			return Recoverable
		default:
			return Irrecoverable
		}
	case statusCode >= 500 && statusCode < 600:
		return Recoverable
	default:
		// Unexpected status codes - be conservative and retry
		return Recoverable
	}
}

// NewUnexpectedStatus builds an UnexpectedStatusError, parsing body as the
// API error payload when possible.
func NewUnexpectedStatus(op string, statusCode int, body []byte) *UnexpectedStatusError {
	return &UnexpectedStatusError{
		Op:         op,
		StatusCode: statusCode,
		Payload:    types.ParseErrorResponse(body),
	}
}

// NewTransportError wraps a network-level failure.
func NewTransportError(method, url string, err error) *TransportError {
	return &TransportError{Method: method, URL: url, Err: err}
}
