package transport

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	interrors "github.com/threatintel/client/internal/errors"
)

// scriptedRequester answers with queued statuses (200 once exhausted) and
// records the headers of every request.
type scriptedRequester struct {
	mu       sync.Mutex
	statuses []int
	headers  []map[string]string
	status   func(req Request) int
}

func (s *scriptedRequester) Do(_ context.Context, req Request) (*Response, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.headers = append(s.headers, req.Headers)
	code := http.StatusOK
	switch {
	case s.status != nil:
		code = s.status(req)
	case len(s.statuses) > 0:
		code = s.statuses[0]
		s.statuses = s.statuses[1:]
	}
	return &Response{StatusCode: code, Header: http.Header{}, Body: []byte(fmt.Sprintf(`{"code":%d}`, code))}, nil
}

func (s *scriptedRequester) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.headers)
}

// countingAuth issues "token-N" on the Nth call.
type countingAuth struct {
	n   atomic.Int32
	err error
}

func (c *countingAuth) Authenticate(context.Context) (AuthorizationHeader, error) {
	n := c.n.Add(1)
	if c.err != nil {
		return nil, c.err
	}
	return AuthorizationHeader{HeaderAuthorization: fmt.Sprintf("bearer token-%d", n)}, nil
}

func TestAuthenticated_AuthenticatesLazilyOnce(t *testing.T) {
	t.Parallel()
	next := &scriptedRequester{}
	auth := &countingAuth{}
	a := NewAuthenticated(next, auth, nil)

	assert.False(t, a.Authorized())
	assert.EqualValues(t, 0, auth.n.Load())

	for i := 0; i < 3; i++ {
		resp, err := Get(context.Background(), a, "/x", nil, nil)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	}
	assert.EqualValues(t, 1, auth.n.Load())
	assert.True(t, a.Authorized())
	for _, h := range next.headers {
		assert.Equal(t, "bearer token-1", h[HeaderAuthorization])
	}
}

func TestAuthenticated_RetriesOnceAfterUnauthorized(t *testing.T) {
	t.Parallel()
	for _, first := range []int{http.StatusUnauthorized, http.StatusForbidden} {
		next := &scriptedRequester{statuses: []int{first, http.StatusOK}}
		auth := &countingAuth{}
		a := NewAuthenticated(next, auth, nil)

		resp, err := Get(context.Background(), a, "/x", nil, nil)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, 2, next.calls(), "status %d", first)
		assert.EqualValues(t, 2, auth.n.Load(), "status %d", first)
		assert.Equal(t, "bearer token-1", next.headers[0][HeaderAuthorization])
		assert.Equal(t, "bearer token-2", next.headers[1][HeaderAuthorization])
	}
}

func TestAuthenticated_ReturnsSecondRejectionUnmodified(t *testing.T) {
	t.Parallel()
	next := &scriptedRequester{statuses: []int{http.StatusUnauthorized, http.StatusUnauthorized}}
	auth := &countingAuth{}
	a := NewAuthenticated(next, auth, nil)

	resp, err := Get(context.Background(), a, "/x", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, `{"code":401}`, string(resp.Body))
	assert.Equal(t, 2, next.calls())
	assert.EqualValues(t, 2, auth.n.Load())
}

func TestAuthenticated_OtherErrorsAreNotRetried(t *testing.T) {
	t.Parallel()
	next := &scriptedRequester{statuses: []int{http.StatusInternalServerError}}
	auth := &countingAuth{}
	a := NewAuthenticated(next, auth, nil)

	resp, err := Get(context.Background(), a, "/x", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, 1, next.calls())
	assert.EqualValues(t, 1, auth.n.Load())
}

func TestAuthenticated_AuthenticatorFailureSendsNothing(t *testing.T) {
	t.Parallel()
	next := &scriptedRequester{}
	boom := errors.New("token endpoint unreachable")
	a := NewAuthenticated(next, &countingAuth{err: boom}, nil)

	_, err := Get(context.Background(), a, "/x", nil, nil)
	var authErr *interrors.AuthenticationError
	require.True(t, errors.As(err, &authErr), "got %v", err)
	assert.True(t, errors.Is(err, boom))
	assert.Equal(t, 0, next.calls())
	assert.False(t, a.Authorized())
}

func TestAuthenticated_AuthenticationErrorPassesThrough(t *testing.T) {
	t.Parallel()
	want := &interrors.AuthenticationError{StatusCode: http.StatusBadRequest}
	a := NewAuthenticated(&scriptedRequester{}, &countingAuth{err: want}, nil)

	_, err := Get(context.Background(), a, "/x", nil, nil)
	var got *interrors.AuthenticationError
	require.True(t, errors.As(err, &got))
	assert.Same(t, want, got)
	assert.True(t, interrors.IsIrrecoverable(err))
}

func TestAuthenticated_EmptyHeaderIsAnError(t *testing.T) {
	t.Parallel()
	empty := AuthenticatorFunc(func(context.Context) (AuthorizationHeader, error) { return AuthorizationHeader{}, nil })
	_, err := Get(context.Background(), NewAuthenticated(&scriptedRequester{}, empty, nil), "/x", nil, nil)
	var authErr *interrors.AuthenticationError
	assert.True(t, errors.As(err, &authErr))
}

func TestAuthenticated_AuthorizationOverridesCallHeaders(t *testing.T) {
	t.Parallel()
	next := &scriptedRequester{}
	a := NewAuthenticated(next, &countingAuth{}, nil)

	_, err := Get(context.Background(), a, "/x", nil, map[string]string{
		"authorization": "bearer forged",
		"Accept":        "application/zip",
	})
	require.NoError(t, err)
	h := next.headers[0]
	assert.Equal(t, "bearer token-1", h[HeaderAuthorization])
	assert.Equal(t, "application/zip", h["Accept"])
	assert.Len(t, h, 2)
}

func TestAuthenticated_Invalidate(t *testing.T) {
	t.Parallel()
	next := &scriptedRequester{}
	auth := &countingAuth{}
	a := NewAuthenticated(next, auth, nil)

	_, err := Get(context.Background(), a, "/x", nil, nil)
	require.NoError(t, err)
	a.Invalidate()
	assert.False(t, a.Authorized())
	_, err = Get(context.Background(), a, "/x", nil, nil)
	require.NoError(t, err)
	assert.EqualValues(t, 2, auth.n.Load())
	assert.Equal(t, "bearer token-2", next.headers[1][HeaderAuthorization])
}

func TestAuthenticated_ConcurrentRejectionsShareOneRefresh(t *testing.T) {
	t.Parallel()
	next := &scriptedRequester{status: func(req Request) int {
		if req.Headers[HeaderAuthorization] == "bearer token-1" {
			return http.StatusUnauthorized
		}
		return http.StatusOK
	}}
	auth := &countingAuth{}
	a := NewAuthenticated(next, auth, nil)

	const workers = 16
	var wg sync.WaitGroup
	codes := make([]int, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			resp, err := Get(context.Background(), a, "/x", nil, nil)
			if err == nil {
				codes[i] = resp.StatusCode
			}
		}(i)
	}
	wg.Wait()

	for _, c := range codes {
		assert.Equal(t, http.StatusOK, c)
	}
	assert.EqualValues(t, 2, auth.n.Load())
}

func TestAuthenticated_CallIDSharedAcrossRetry(t *testing.T) {
	t.Parallel()
	var ids []string
	next := RequesterFunc(func(ctx context.Context, req Request) (*Response, error) {
		id, _ := CallID(ctx)
		ids = append(ids, id)
		code := http.StatusOK
		if len(ids) == 1 {
			code = http.StatusUnauthorized
		}
		return &Response{StatusCode: code}, nil
	})
	a := NewAuthenticated(next, &countingAuth{}, nil)

	_, err := Get(WithCallID(context.Background(), "call-1"), a, "/x", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"call-1", "call-1"}, ids)
}

func TestNewAuthenticated_PanicsOnNil(t *testing.T) {
	t.Parallel()
	assert.Panics(t, func() { NewAuthenticated(nil, &countingAuth{}, nil) })
	assert.Panics(t, func() { NewAuthenticated(&scriptedRequester{}, nil, nil) })
}
