package transport

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDebugRoundTripper_RedactsSecrets(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"access_token":"abc"}`))
	}))
	defer srv.Close()

	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.DebugLevel)
	b, err := NewBase(BaseConfig{
		BaseURL:      srv.URL,
		RoundTripper: NewDebugRoundTripper(nil, &logger),
		Logger:       &logger,
	})
	require.NoError(t, err)

	_, err = PostForm(context.Background(), b, "/oauth2/token",
		map[string][]string{"client_secret": {"s3cret"}},
		map[string]string{HeaderAuthorization: "bearer live-token"})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "HTTP request")
	assert.Contains(t, out, "HTTP response")
	assert.Contains(t, out, redacted)
	assert.False(t, strings.Contains(out, "s3cret"), "form body must not be logged")
	assert.False(t, strings.Contains(out, "live-token"), "authorization must not be logged")
	assert.False(t, strings.Contains(out, "abc"), "issued token must not be logged")
}

func TestDebugRoundTripper_MasksAccessTokenInJSONBodies(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token": "minted-value","resources":["kept-value"]}`))
	}))
	defer srv.Close()

	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.DebugLevel)
	b, err := NewBase(BaseConfig{
		BaseURL:      srv.URL,
		RoundTripper: NewDebugRoundTripper(nil, &logger),
		Logger:       &logger,
	})
	require.NoError(t, err)

	resp, err := Get(context.Background(), b, "/intel/queries/actors/v1", nil, nil)
	require.NoError(t, err)
	assert.Contains(t, string(resp.Body), "minted-value", "caller still sees the real body")

	out := buf.String()
	assert.NotContains(t, out, "minted-value")
	assert.Contains(t, out, "kept-value")
	assert.Contains(t, out, redacted)
}
