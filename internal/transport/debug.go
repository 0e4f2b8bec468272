package transport

import (
	"net/http"
	"net/http/httputil"
	"regexp"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const redacted = "REDACTED"

var accessTokenField = regexp.MustCompile(`("access_token"\s*:\s*)"[^"]*"`)

// debugTransport dumps every request/response pair at debug level.
//
// Authorization headers are redacted. Form-encoded exchanges (token calls)
// are dumped without either body, and access_token fields in other
// response bodies are masked. Other bodies are logged as is, so keep this
// out of production.
type debugTransport struct {
	base http.RoundTripper
	log  *zerolog.Logger
}

// NewDebugRoundTripper wraps base with request/response dumping. A nil base
// means http.DefaultTransport and a nil logger the global zerolog logger.
func NewDebugRoundTripper(base http.RoundTripper, logger *zerolog.Logger) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}
	if logger == nil {
		logger = &log.Logger
	}
	return &debugTransport{base: base, log: logger}
}

func (dt *debugTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	dumpReq := req.Clone(req.Context())
	if dumpReq.Header.Get(HeaderAuthorization) != "" {
		dumpReq.Header.Set(HeaderAuthorization, redacted)
	}
	credentialExchange := strings.HasPrefix(req.Header.Get("Content-Type"), "application/x-www-form-urlencoded")
	withBody := !credentialExchange
	if withBody && req.Body != nil && req.GetBody == nil {
		withBody = false
	}
	if withBody && req.GetBody != nil {
		body, err := req.GetBody()
		if err == nil {
			dumpReq.Body = body
		}
	}
	if reqDump, err := httputil.DumpRequestOut(dumpReq, withBody); err == nil {
		dt.log.Debug().Str("method", req.Method).Str("url", req.URL.String()).Str("request_dump", string(reqDump)).Msg("HTTP request")
	}

	resp, err := dt.base.RoundTrip(req)
	if err != nil {
		dt.log.Error().Err(err).Str("method", req.Method).Str("url", req.URL.String()).Msg("HTTP request failed")
		return nil, err
	}

	if respDump, err := httputil.DumpResponse(resp, !credentialExchange); err == nil {
		dump := accessTokenField.ReplaceAllString(string(respDump), `${1}"`+redacted+`"`)
		dt.log.Debug().Str("method", req.Method).Str("url", req.URL.String()).Int("status_code", resp.StatusCode).Str("response_dump", dump).Msg("HTTP response")
	}
	return resp, nil
}
