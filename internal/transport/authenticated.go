package transport

import (
	"context"
	"errors"
	"maps"
	"net/http"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	interrors "github.com/threatintel/client/internal/errors"
	"github.com/threatintel/client/internal/metrics"
)

// Authenticated attaches a cached authorization header to every request and
// re-authenticates once when a request is rejected with 401 or 403.
//
// The cache starts empty and is filled by the first request. Reads,
// invalidation and refills are serialized by mu, and the authenticator runs
// under the lock so concurrent callers rejected with the same stale header
// share a single refresh.
type Authenticated struct {
	next Requester
	auth Authenticator
	log  *zerolog.Logger

	mu     sync.Mutex
	header AuthorizationHeader
}

// NewAuthenticated wraps next. logger may be nil.
func NewAuthenticated(next Requester, auth Authenticator, logger *zerolog.Logger) *Authenticated {
	if next == nil {
		panic("transport: next requester cannot be nil")
	}
	if auth == nil {
		panic("transport: authenticator cannot be nil")
	}
	if logger == nil {
		logger = &log.Logger
	}
	return &Authenticated{next: next, auth: auth, log: logger}
}

// Do sends req with the cached authorization header, authenticating first if
// nothing is cached. A 401/403 triggers one re-authentication and one retry;
// the retry's response is returned whatever its status.
func (a *Authenticated) Do(ctx context.Context, req Request) (*Response, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, callID := ensureCallID(ctx)

	header, err := a.authorization(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := a.send(ctx, req, header)
	if err != nil {
		return nil, err
	}
	if !isAuthFailure(resp.StatusCode) {
		return resp, nil
	}

	a.log.Info().
		Str("call_id", callID).
		Str("path", req.Path).
		Int("status_code", resp.StatusCode).
		Msg("request unauthorized, reauthenticating")
	metrics.ReauthenticationsTotal.Inc()

	header, err = a.reauthenticate(ctx, header)
	if err != nil {
		return nil, err
	}
	return a.send(ctx, req, header)
}

// Invalidate drops the cached header; the next request authenticates again.
func (a *Authenticated) Invalidate() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.header = nil
}

// Authorized reports whether a header is currently cached.
func (a *Authenticated) Authorized() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.header != nil
}

func (a *Authenticated) authorization(ctx context.Context) (AuthorizationHeader, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.header != nil {
		return a.header, nil
	}
	return a.authenticateLocked(ctx)
}

// reauthenticate replaces stale. When another caller already replaced it,
// the newer header is reused instead of authenticating again.
func (a *Authenticated) reauthenticate(ctx context.Context, stale AuthorizationHeader) (AuthorizationHeader, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.header != nil && !maps.Equal(a.header, stale) {
		return a.header, nil
	}
	a.header = nil
	return a.authenticateLocked(ctx)
}

func (a *Authenticated) authenticateLocked(ctx context.Context) (AuthorizationHeader, error) {
	header, err := a.auth.Authenticate(ctx)
	metrics.ObserveAuthentication(err)
	if err != nil {
		var authErr *interrors.AuthenticationError
		if errors.As(err, &authErr) {
			return nil, err
		}
		return nil, &interrors.AuthenticationError{Err: err}
	}
	if len(header) == 0 {
		return nil, &interrors.AuthenticationError{Err: errors.New("authenticator returned no header")}
	}
	a.header = header.Clone()
	return a.header, nil
}

// send attaches header to req; authorization values win over per-call ones.
func (a *Authenticated) send(ctx context.Context, req Request, header AuthorizationHeader) (*Response, error) {
	req.Headers = MergeHeaders(req.Headers, header)
	return a.next.Do(ctx, req)
}

func isAuthFailure(status int) bool {
	return status == http.StatusUnauthorized || status == http.StatusForbidden
}
