// Package client is a typed client for the threat-intelligence REST API.
//
// A Client authenticates with OAuth2 client credentials on first use, caches
// the bearer header and re-authenticates once when the API answers 401 or
// 403. All calls are synchronous and honour context cancellation.
package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync/atomic"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/threatintel/client/internal/api"
	"github.com/threatintel/client/internal/auth"
	"github.com/threatintel/client/internal/transport"
)

// DefaultUserAgent is sent unless WithUserAgent overrides it.
const DefaultUserAgent = "threatintel-go-client/1.0"

// --------------------------------------------------------------------
// Client core
// --------------------------------------------------------------------

// Client calls the intel endpoints through an authenticated transport. It is
// safe for concurrent use; Close releases idle connections it owns.
type Client struct {
	baseURL string

	// Settings collected from options before the transports are built.
	timeouts   transport.Timeouts
	headers    map[string]string
	userAgent  string
	rt         http.RoundTripper
	debug      bool
	log        *zerolog.Logger
	ownedHTTP  *http.Transport // nil when the caller supplied the RoundTripper
	api        *transport.Base
	authed     *transport.Authenticated
	closedOnce uint32
}

// New constructs a Client that authenticates with clientID and clientSecret
// against baseURL's token endpoint.
func New(baseURL, clientID, clientSecret string, opts ...Option) (*Client, error) {
	c, err := newClient(baseURL, opts)
	if err != nil {
		return nil, err
	}
	tokenBase, err := c.newBase()
	if err != nil {
		return nil, err
	}
	authenticator, err := auth.NewOAuth2ClientCredentials(tokenBase, clientID, clientSecret, c.log)
	if err != nil {
		return nil, err
	}
	if err := c.wire(authenticator); err != nil {
		return nil, err
	}
	return c, nil
}

// NewWithAuthenticator constructs a Client that obtains its authorization
// header from authenticator.
func NewWithAuthenticator(baseURL string, authenticator Authenticator, opts ...Option) (*Client, error) {
	if authenticator == nil {
		return nil, errors.New("authenticator cannot be nil")
	}
	c, err := newClient(baseURL, opts)
	if err != nil {
		return nil, err
	}
	if err := c.wire(authenticator); err != nil {
		return nil, err
	}
	return c, nil
}

// NewWithToken constructs a Client that sends a pre-issued bearer token.
func NewWithToken(baseURL, token string, opts ...Option) (*Client, error) {
	authenticator, err := auth.NewStaticToken(token)
	if err != nil {
		return nil, err
	}
	return NewWithAuthenticator(baseURL, authenticator, opts...)
}

// NewFromConfig constructs a Client from cfg. opts are applied after the
// settings derived from cfg and so take precedence.
func NewFromConfig(cfg *Config, opts ...Option) (*Client, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	timeouts := cfg.Timeouts()
	base := []Option{WithTimeouts(timeouts.Connect, timeouts.Read)}
	if cfg.Debug {
		base = append(base, WithDebugLogging(true))
	}
	if cfg.UserAgent != "" {
		base = append(base, WithUserAgent(cfg.UserAgent))
	}
	return New(cfg.BaseURL, cfg.ClientID, cfg.ClientSecret, append(base, opts...)...)
}

func newClient(baseURL string, opts []Option) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, errors.New("baseURL cannot be empty")
	}
	c := &Client{
		baseURL:   baseURL,
		timeouts:  transport.DefaultTimeouts(),
		userAgent: DefaultUserAgent,
		log:       &log.Logger,
		debug:     debugLoggingRequested(), // WithDebugLogging overrides
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, fmt.Errorf("apply option: %w", err)
		}
	}

	if c.rt == nil {
		c.ownedHTTP = transport.NewHTTPTransport(c.timeouts)
		c.rt = c.ownedHTTP
	}
	if c.debug {
		c.rt = transport.NewDebugRoundTripper(c.rt, c.log)
	}
	return c, nil
}

// newBase builds an unauthenticated transport sharing the client's settings.
func (c *Client) newBase() (*transport.Base, error) {
	headers := transport.MergeHeaders(map[string]string{"User-Agent": c.userAgent}, c.headers)
	return transport.NewBase(transport.BaseConfig{
		BaseURL:        c.baseURL,
		DefaultHeaders: headers,
		Timeouts:       c.timeouts,
		RoundTripper:   c.rt,
		Logger:         c.log,
	})
}

func (c *Client) wire(authenticator Authenticator) error {
	b, err := c.newBase()
	if err != nil {
		return err
	}
	c.api = b
	c.authed = transport.NewAuthenticated(b, authenticator, c.log)
	return nil
}

// BaseURL returns the normalized API root.
func (c *Client) BaseURL() string { return c.api.BaseURL() }

// Requester exposes the authenticated transport for endpoints this package
// does not wrap.
func (c *Client) Requester() transport.Requester { return c.authed }

// Invalidate drops the cached authorization so the next call authenticates.
func (c *Client) Invalidate() { c.authed.Invalidate() }

// Close releases idle connections held by a client-owned HTTP transport.
// Safe to call multiple times.
func (c *Client) Close() error {
	if !atomic.CompareAndSwapUint32(&c.closedOnce, 0, 1) {
		return nil
	}
	if c.ownedHTTP != nil {
		c.ownedHTTP.CloseIdleConnections()
	}
	return nil
}

func (c *Client) withLogger(ctx context.Context) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return c.log.WithContext(ctx)
}

// --------------------------------------------------------------------
// Actor operations - delegated to internal/api
// --------------------------------------------------------------------

// QueryActorIDs lists the IDs of actors matching q.
func (c *Client) QueryActorIDs(ctx context.Context, q ActorQuery) (*Response[string], error) {
	return api.QueryActorIDs(c.withLogger(ctx), c.authed, q)
}

// QueryActors lists actors matching q.
func (c *Client) QueryActors(ctx context.Context, q ActorQuery) (*Response[Actor], error) {
	return api.QueryActors(c.withLogger(ctx), c.authed, q)
}

// GetActors fetches actors by ID.
func (c *Client) GetActors(ctx context.Context, q EntitiesQuery) (*Response[Actor], error) {
	return api.GetActors(c.withLogger(ctx), c.authed, q)
}

// --------------------------------------------------------------------
// Indicator operations - delegated to internal/api
// --------------------------------------------------------------------

// QueryIndicatorIDs lists the IDs of indicators matching q.
func (c *Client) QueryIndicatorIDs(ctx context.Context, q IndicatorQuery) (*Response[string], error) {
	return api.QueryIndicatorIDs(c.withLogger(ctx), c.authed, q)
}

// QueryIndicators lists indicators matching q. With q.DeepPagination set,
// pass Response.NextPageParams to IndicatorQueryFromValues to walk the
// full result set.
func (c *Client) QueryIndicators(ctx context.Context, q IndicatorQuery) (*Response[Indicator], error) {
	return api.QueryIndicators(c.withLogger(ctx), c.authed, q)
}

// GetIndicators fetches indicators by ID.
func (c *Client) GetIndicators(ctx context.Context, ids []string) (*Response[Indicator], error) {
	return api.GetIndicators(c.withLogger(ctx), c.authed, ids)
}

// --------------------------------------------------------------------
// Report operations - delegated to internal/api
// --------------------------------------------------------------------

// QueryReportIDs lists the IDs of reports matching q.
func (c *Client) QueryReportIDs(ctx context.Context, q ReportQuery) (*Response[string], error) {
	return api.QueryReportIDs(c.withLogger(ctx), c.authed, q)
}

// QueryReports lists reports matching q.
func (c *Client) QueryReports(ctx context.Context, q ReportQuery) (*Response[Report], error) {
	return api.QueryReports(c.withLogger(ctx), c.authed, q)
}

// GetReports fetches reports by ID.
func (c *Client) GetReports(ctx context.Context, q EntitiesQuery) (*Response[Report], error) {
	return api.GetReports(c.withLogger(ctx), c.authed, q)
}

// GetReportPDF downloads a report's PDF. Returns ErrNotFound when the report
// has none.
func (c *Client) GetReportPDF(ctx context.Context, reportID string) (*Download, error) {
	return api.GetReportPDF(c.withLogger(ctx), c.authed, reportID)
}

// --------------------------------------------------------------------
// Rule operations - delegated to internal/api
// --------------------------------------------------------------------

// GetLatestRuleFile downloads the newest file of a rule set. Returns
// ErrNotModified when req's validators still match.
func (c *Client) GetLatestRuleFile(ctx context.Context, req RuleFileRequest) (*Download, error) {
	return api.GetLatestRuleFile(c.withLogger(ctx), c.authed, req)
}
