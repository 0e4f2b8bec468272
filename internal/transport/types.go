package transport

import (
	"context"
	"net/http"
	"net/url"
	"time"
)

const (
	DefaultConnectTimeout = 15 * time.Second
	DefaultReadTimeout    = 120 * time.Second
)

// Timeouts is the (connect, read) pair applied to a request.
type Timeouts struct {
	Connect time.Duration
	Read    time.Duration
}

// DefaultTimeouts returns the pair used when a caller supplies none.
func DefaultTimeouts() Timeouts {
	return Timeouts{Connect: DefaultConnectTimeout, Read: DefaultReadTimeout}
}

// withDefaults fills unset fields from DefaultTimeouts.
func (t Timeouts) withDefaults() Timeouts {
	if t.Connect <= 0 {
		t.Connect = DefaultConnectTimeout
	}
	if t.Read <= 0 {
		t.Read = DefaultReadTimeout
	}
	return t
}

// total bounds a single attempt end to end.
func (t Timeouts) total() time.Duration { return t.Connect + t.Read }

// Request describes one logical call. Path is relative to the base URL.
// At most one of Form and JSON should be set.
type Request struct {
	Method   string
	Path     string
	Query    url.Values
	Form     url.Values
	JSON     any
	Headers  map[string]string
	Timeouts *Timeouts
}

// Response is a fully buffered HTTP response. The transport does not retain it.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Requester sends a Request and returns the raw Response. Status codes are
// not interpreted; only network-level failures are returned as errors.
type Requester interface {
	Do(ctx context.Context, req Request) (*Response, error)
}

// RequesterFunc adapts a function to a Requester.
type RequesterFunc func(ctx context.Context, req Request) (*Response, error)

// Do implements Requester.
func (f RequesterFunc) Do(ctx context.Context, req Request) (*Response, error) { return f(ctx, req) }

// Get is shorthand for a GET Request.
func Get(ctx context.Context, rq Requester, path string, query url.Values, headers map[string]string) (*Response, error) {
	return rq.Do(ctx, Request{Method: http.MethodGet, Path: path, Query: query, Headers: headers})
}

// PostForm is shorthand for a form-encoded POST Request.
func PostForm(ctx context.Context, rq Requester, path string, form url.Values, headers map[string]string) (*Response, error) {
	return rq.Do(ctx, Request{Method: http.MethodPost, Path: path, Form: form, Headers: headers})
}

// PostJSON is shorthand for a JSON POST Request.
func PostJSON(ctx context.Context, rq Requester, path string, body any, headers map[string]string) (*Response, error) {
	return rq.Do(ctx, Request{Method: http.MethodPost, Path: path, JSON: body, Headers: headers})
}

// MergeHeaders returns base overlaid with extra; extra wins on collision.
// Neither input is modified.
func MergeHeaders(base, extra map[string]string) map[string]string {
	out := make(map[string]string, len(base)+len(extra))
	for k, v := range base {
		out[http.CanonicalHeaderKey(k)] = v
	}
	for k, v := range extra {
		out[http.CanonicalHeaderKey(k)] = v
	}
	return out
}
