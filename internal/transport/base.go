package transport

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	interrors "github.com/threatintel/client/internal/errors"
	"github.com/threatintel/client/internal/metrics"
)

// BaseConfig configures a Base transport.
type BaseConfig struct {
	// BaseURL is the API root, e.g. https://api.example.com. A trailing
	// slash is dropped.
	BaseURL string

	// DefaultHeaders are sent on every request unless overridden per call.
	DefaultHeaders map[string]string

	// Timeouts is the default pair; zero fields use DefaultTimeouts.
	Timeouts Timeouts

	// RoundTripper overrides the HTTP transport. When nil one is built
	// from Timeouts.
	RoundTripper http.RoundTripper

	// Logger defaults to the global zerolog logger.
	Logger *zerolog.Logger
}

// Base issues raw HTTP requests against a fixed base URL.
type Base struct {
	baseURL  string
	headers  map[string]string
	timeouts Timeouts
	rc       *resty.Client
	log      *zerolog.Logger
}

// NewBase validates cfg and constructs a Base transport.
func NewBase(cfg BaseConfig) (*Base, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("transport: base url cannot be empty")
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("transport: invalid base url %q: %w", cfg.BaseURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("transport: base url %q must be absolute", cfg.BaseURL)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = &log.Logger
	}
	timeouts := cfg.Timeouts.withDefaults()
	rt := cfg.RoundTripper
	if rt == nil {
		rt = NewHTTPTransport(timeouts)
	}

	rc := resty.NewWithClient(&http.Client{Transport: rt}).
		SetLogger(restyLogger{logger}).
		SetBaseURL(baseURL)

	return &Base{
		baseURL:  baseURL,
		headers:  MergeHeaders(nil, cfg.DefaultHeaders),
		timeouts: timeouts,
		rc:       rc,
		log:      logger,
	}, nil
}

// NewHTTPTransport builds an *http.Transport whose dial and TLS handshake are
// bounded by t.Connect and whose wait for response headers is bounded by
// t.Read.
func NewHTTPTransport(t Timeouts) *http.Transport {
	t = t.withDefaults()
	dialer := &net.Dialer{
		Timeout:   t.Connect,
		KeepAlive: 30 * time.Second,
	}
	return &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   t.Connect,
		ResponseHeaderTimeout: t.Read,
		ExpectContinueTimeout: 1 * time.Second,
	}
}

// BaseURL returns the normalized base URL.
func (b *Base) BaseURL() string { return b.baseURL }

// URL resolves path against the base URL.
func (b *Base) URL(path string) string {
	if path == "" {
		return b.baseURL
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return b.baseURL + path
}

// Do sends req and returns the buffered response. Only network-level
// failures are returned as errors, as *errors.TransportError.
func (b *Base) Do(ctx context.Context, req Request) (*Response, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, callID := ensureCallID(ctx)

	method := strings.ToUpper(strings.TrimSpace(req.Method))
	if method == "" {
		method = http.MethodGet
	}
	timeouts := b.timeouts
	if req.Timeouts != nil {
		timeouts = req.Timeouts.withDefaults()
	}
	ctx, cancel := context.WithTimeout(ctx, timeouts.total())
	defer cancel()

	target := b.URL(req.Path)
	r := b.rc.R().
		SetContext(ctx).
		SetHeaders(MergeHeaders(b.headers, req.Headers))
	if len(req.Query) > 0 {
		r.SetQueryParamsFromValues(req.Query)
	}
	if req.Form != nil {
		r.SetFormDataFromValues(req.Form)
	}
	if req.JSON != nil {
		r.SetBody(req.JSON)
	}

	b.log.Debug().
		Str("call_id", callID).
		Str("method", method).
		Str("url", target).
		Dur("timeout", timeouts.total()).
		Msg("sending request")

	start := time.Now()
	resp, err := r.Execute(method, target)
	elapsed := time.Since(start)
	if err != nil {
		metrics.TransportErrorsTotal.WithLabelValues(method).Inc()
		b.log.Debug().
			Err(err).
			Str("call_id", callID).
			Str("method", method).
			Str("url", target).
			Dur("elapsed", elapsed).
			Msg("request failed")
		return nil, interrors.NewTransportError(method, target, err)
	}

	metrics.ObserveRequest(method, resp.StatusCode())
	b.log.Debug().
		Str("call_id", callID).
		Str("method", method).
		Str("url", target).
		Int("status_code", resp.StatusCode()).
		Dur("elapsed", elapsed).
		Msg("received response")

	return &Response{
		StatusCode: resp.StatusCode(),
		Header:     resp.Header(),
		Body:       resp.Body(),
	}, nil
}

// restyLogger routes resty's internal logging to zerolog.
type restyLogger struct{ l *zerolog.Logger }

func (r restyLogger) Errorf(format string, v ...interface{}) {
	r.l.Error().Str("component", "resty").Msgf(format, v...)
}

func (r restyLogger) Warnf(format string, v ...interface{}) {
	r.l.Warn().Str("component", "resty").Msgf(format, v...)
}

func (r restyLogger) Debugf(format string, v ...interface{}) {
	r.l.Debug().Str("component", "resty").Msgf(format, v...)
}
