package client

// Functional options that configure the Client during construction.

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/threatintel/client/internal/transport"
)

// Option configures a Client during construction.
//
// Options are applied before any transport is built, so every option affects
// both the token exchange and the API calls.
type Option func(*Client) error

// WithTimeouts sets the default connect and read timeouts. A zero value keeps
// the corresponding default (15s connect, 120s read).
func WithTimeouts(connect, read time.Duration) Option {
	return func(c *Client) error {
		if connect < 0 || read < 0 {
			return fmt.Errorf("timeouts must not be negative")
		}
		if connect > 0 {
			c.timeouts.Connect = connect
		}
		if read > 0 {
			c.timeouts.Read = read
		}
		return nil
	}
}

// WithDefaultHeaders adds headers sent on every request. Per-call headers
// and the authorization header take precedence. May be given more than once.
func WithDefaultHeaders(headers map[string]string) Option {
	return func(c *Client) error {
		c.headers = transport.MergeHeaders(c.headers, headers)
		return nil
	}
}

// WithUserAgent replaces DefaultUserAgent.
func WithUserAgent(ua string) Option {
	return func(c *Client) error {
		ua = strings.TrimSpace(ua)
		if ua == "" {
			return fmt.Errorf("user agent cannot be empty")
		}
		c.userAgent = ua
		return nil
	}
}

// WithHTTPTransport replaces the HTTP transport. Connect and read timeouts
// are then only enforced through the per-call deadline, and Close leaves
// rt's connections alone.
func WithHTTPTransport(rt http.RoundTripper) Option {
	return func(c *Client) error {
		if rt == nil {
			return fmt.Errorf("http transport cannot be nil")
		}
		c.rt = rt
		return nil
	}
}

// WithDebugLogging dumps each request/response pair at debug level when
// enabled is true. Authorization headers, token exchanges and access_token
// fields are redacted; other response bodies are not, so do not enable this
// in production. An explicit value overrides INTEL_DEBUG/DEBUG.
func WithDebugLogging(enabled bool) Option {
	return func(c *Client) error {
		c.debug = enabled
		return nil
	}
}

// WithLogger routes the client's logs to logger instead of the global
// zerolog logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) error {
		c.log = &logger
		return nil
	}
}
