package api

import (
	"io"
	"net/http"
	"testing"

	"github.com/threatintel/client/internal/transport"
)

func newBase(t *testing.T, baseURL string) *transport.Base {
	t.Helper()
	b, err := transport.NewBase(transport.BaseConfig{BaseURL: baseURL})
	if err != nil {
		t.Fatalf("NewBase: %v", err)
	}
	return b
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

const errorBody = `{"meta":{"trace_id":"tr-1","query_time":0.01},"errors":[{"code":400,"message":"bad filter"}]}`
