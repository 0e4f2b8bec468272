package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	interrors "github.com/threatintel/client/internal/errors"
	"github.com/threatintel/client/internal/types"
)

func TestQueryActorIDs_EncodesQueryAndDropsFields(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != actorsQueriesPath {
			t.Errorf("path = %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("limit") != "5" || q.Get("filter") != "name:'bear'" {
			t.Errorf("unexpected query %v", q)
		}
		if q.Has("fields") || q.Has("offset") {
			t.Errorf("fields/offset should be omitted: %v", q)
		}
		writeJSON(w, http.StatusOK, `{"meta":{"trace_id":"t","pagination":{"limit":5,"offset":0,"total":2}},"resources":["1","2"]}`)
	}))
	defer srv.Close()

	resp, err := QueryActorIDs(context.Background(), newBase(t, srv.URL), types.ActorQuery{
		Limit:  5,
		Filter: "name:'bear'",
		Fields: []string{"name"},
	})
	if err != nil {
		t.Fatalf("QueryActorIDs: %v", err)
	}
	if len(resp.Resources) != 2 || resp.Resources[0] != "1" {
		t.Fatalf("unexpected resources %v", resp.Resources)
	}
	if resp.Meta.Pagination == nil || resp.Meta.Pagination.Total != 2 {
		t.Fatalf("unexpected pagination %+v", resp.Meta.Pagination)
	}
}

func TestQueryActors_DecodesActors(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query()["fields"]; len(got) != 2 {
			t.Errorf("fields = %v", got)
		}
		writeJSON(w, http.StatusOK, `{"meta":{},"resources":[{"id":42,"name":"FANCY BEAR","slug":"fancy-bear","first_activity_date":1420070400}]}`)
	}))
	defer srv.Close()

	resp, err := QueryActors(context.Background(), newBase(t, srv.URL), types.ActorQuery{Fields: []string{"name", "slug"}})
	if err != nil {
		t.Fatalf("QueryActors: %v", err)
	}
	a := resp.Resources[0]
	if a.ID != 42 || a.Slug != "fancy-bear" {
		t.Fatalf("unexpected actor %+v", a)
	}
	if a.FirstActivity == nil || a.FirstActivity.Year() != 2015 {
		t.Fatalf("unexpected first activity %v", a.FirstActivity)
	}
}

func TestGetActors_RepeatsIDs(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != actorsEntitiesPath {
			t.Errorf("path = %s", r.URL.Path)
		}
		if ids := r.URL.Query()["ids"]; len(ids) != 2 || ids[1] != "b" {
			t.Errorf("ids = %v", ids)
		}
		writeJSON(w, http.StatusOK, `{"meta":{},"resources":[]}`)
	}))
	defer srv.Close()

	resp, err := GetActors(context.Background(), newBase(t, srv.URL), types.EntitiesQuery{IDs: []string{"a", "b"}})
	if err != nil {
		t.Fatalf("GetActors: %v", err)
	}
	if resp.Resources == nil {
		t.Fatal("resources should be empty, not nil")
	}
}

func TestGetActors_RequiresIDs(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	}))
	defer srv.Close()
	if _, err := GetActors(context.Background(), newBase(t, srv.URL), types.EntitiesQuery{}); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestQueryActors_UnexpectedStatus(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadRequest, errorBody)
	}))
	defer srv.Close()

	_, err := QueryActors(context.Background(), newBase(t, srv.URL), types.ActorQuery{})
	var se *interrors.UnexpectedStatusError
	if !errors.As(err, &se) {
		t.Fatalf("expected UnexpectedStatusError, got %v", err)
	}
	if se.StatusCode != http.StatusBadRequest || se.TraceID() != "tr-1" {
		t.Fatalf("unexpected error %+v", se)
	}
	if interrors.IsRecoverable(err) {
		t.Fatal("400 should not be recoverable")
	}
}

func TestQueryActors_CanceledContext(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()
	if _, err := QueryActors(ctx, newBase(t, srv.URL), types.ActorQuery{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
