package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPErrorCategory(t *testing.T) {
	t.Parallel()
	cases := map[int]ErrorCategory{
		http.StatusBadRequest:          Irrecoverable,
		http.StatusUnauthorized:        Irrecoverable,
		http.StatusNotFound:            Irrecoverable,
		http.StatusRequestTimeout:      Recoverable,
		http.StatusTooManyRequests:     Recoverable,
		http.StatusInternalServerError: Recoverable,
		http.StatusBadGateway:          Recoverable,
		http.StatusNotModified:         Recoverable,
	}
	for status, want := range cases {
		assert.Equal(t, want, getHTTPErrorCategory(status), "status %d", status)
	}
}

func TestUnexpectedStatusError(t *testing.T) {
	t.Parallel()
	err := NewUnexpectedStatus("query actors", 400, []byte(`{"meta":{"trace_id":"tr"},"errors":[{"code":400,"message":"invalid filter"}]}`))
	assert.Equal(t, "query actors: API call failed with status code 400: (400) invalid filter", err.Error())
	assert.Equal(t, "tr", err.TraceID())
	assert.True(t, IsIrrecoverable(err))

	bare := NewUnexpectedStatus("get reports", 503, []byte("Service Unavailable"))
	assert.Nil(t, bare.Payload)
	assert.Equal(t, "", bare.TraceID())
	assert.Equal(t, "get reports: API call failed with status code 503", bare.Error())
	assert.True(t, IsRecoverable(fmt.Errorf("wrapped: %w", bare)))
}

func TestTransportErrorCategory(t *testing.T) {
	t.Parallel()
	timeout := NewTransportError("GET", "https://x/y", context.DeadlineExceeded)
	assert.True(t, IsRecoverable(timeout))
	assert.True(t, stderrors.Is(timeout, context.DeadlineExceeded))
	assert.Contains(t, timeout.Error(), "GET https://x/y")

	canceled := NewTransportError("GET", "https://x/y", context.Canceled)
	assert.True(t, IsIrrecoverable(canceled))
}

func TestAuthenticationError(t *testing.T) {
	t.Parallel()
	inner := stderrors.New("dial tcp: refused")
	err := &AuthenticationError{Err: inner}
	assert.True(t, stderrors.Is(err, inner))
	assert.True(t, IsIrrecoverable(err))
	assert.Equal(t, "authentication failed: dial tcp: refused", err.Error())

	withStatus := &AuthenticationError{StatusCode: 401}
	assert.Equal(t, "authentication failed (401)", withStatus.Error())
}

func TestUnclassifiedErrors(t *testing.T) {
	t.Parallel()
	plain := stderrors.New("plain")
	_, ok := CategoryOf(plain)
	assert.False(t, ok)
	assert.False(t, IsRecoverable(plain))
	assert.False(t, IsIrrecoverable(plain))
	assert.Equal(t, "Recoverable", Recoverable.String())
	assert.Equal(t, "Irrecoverable", Irrecoverable.String())
}
