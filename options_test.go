package client

import (
	"context"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/threatintel/client/internal/mock"
	"github.com/threatintel/client/internal/transport"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

func TestWithTimeouts(t *testing.T) {
	c := &Client{timeouts: transport.DefaultTimeouts()}
	require.NoError(t, WithTimeouts(2*time.Second, 0)(c))
	assert.Equal(t, 2*time.Second, c.timeouts.Connect)
	assert.Equal(t, transport.DefaultReadTimeout, c.timeouts.Read)
	assert.Error(t, WithTimeouts(-1, 0)(c))
}

func TestWithUserAgentAndHeaders(t *testing.T) {
	c, srv := newMockClient(t,
		WithUserAgent("intel-sync/2.0"),
		WithDefaultHeaders(map[string]string{"X-Tenant": "a"}),
		WithDefaultHeaders(map[string]string{"x-tenant": "b", "X-Env": "test"}),
	)
	_, err := c.QueryActorIDs(context.Background(), ActorQuery{})
	require.NoError(t, err)

	reqs := srv.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "intel-sync/2.0", reqs[0].Header.Get("User-Agent"))
	assert.Equal(t, "b", reqs[0].Header.Get("X-Tenant"))
	assert.Equal(t, "test", reqs[0].Header.Get("X-Env"))

	assert.Error(t, WithUserAgent(" ")(&Client{}))
}

func TestWithHTTPTransport(t *testing.T) {
	srv := mock.NewServer()
	defer srv.Close()

	var calls atomic.Int32
	rt := roundTripFunc(func(r *http.Request) (*http.Response, error) {
		calls.Add(1)
		return http.DefaultTransport.RoundTrip(r)
	})
	c, err := New(srv.URL, mock.ClientID, mock.ClientSecret, WithHTTPTransport(rt))
	require.NoError(t, err)
	assert.Nil(t, c.ownedHTTP)

	_, err = c.QueryActors(context.Background(), ActorQuery{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, calls.Load(), "token call and API call")

	assert.Error(t, WithHTTPTransport(nil)(&Client{}))
}

func TestWithLoggerAndDebugLogging(t *testing.T) {
	var buf lockedBuffer
	logger := zerolog.New(&buf).Level(zerolog.DebugLevel)
	c, _ := newMockClient(t, WithLogger(logger), WithDebugLogging(true))
	assert.True(t, c.debug)

	_, err := c.QueryActorIDs(context.Background(), ActorQuery{})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "HTTP request")
	assert.Contains(t, out, "generated access token")
	assert.NotContains(t, out, mock.ClientSecret)
	assert.NotContains(t, out, "bearer token-1")
	assert.NotContains(t, out, "token-1", "issued token must not reach the log")
}

func TestNew_AutoEnableDebugViaEnv(t *testing.T) {
	t.Setenv("INTEL_DEBUG", "true")
	c, err := NewWithToken("http://example.com", "tok")
	require.NoError(t, err)
	assert.True(t, c.debug, "expected debug logging when INTEL_DEBUG=true")
}

func TestWithDebugLogging_ExplicitFalseOverridesEnv(t *testing.T) {
	t.Setenv("INTEL_DEBUG", "true")
	c, err := NewWithToken("http://example.com", "tok", WithDebugLogging(false))
	require.NoError(t, err)
	assert.False(t, c.debug)
	_, wrapped := c.rt.(*http.Transport)
	assert.True(t, wrapped, "transport must not be wrapped for debug dumps")
}
