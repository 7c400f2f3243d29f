package wirecraft

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newBackend(t *testing.T, routes map[string]string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := routes[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error": "not found"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestHTTPFetcher(t *testing.T) {
	srv := newBackend(t, map[string]string{
		"/api/world":           `{"0,0,0": "line", "1,0,0": "gone"}`,
		"/api/structures/line": `{"points": [[0,0,0],[10,0,0]], "edges": [[0,1]]}`,
	})
	f := NewHTTPFetcher(srv.URL + "/")

	world, err := f.FetchWorld(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(world) != 2 || world["0,0,0"] != "line" {
		t.Errorf("world = %v", world)
	}

	tmpl, err := f.FetchStructure(context.Background(), "line")
	if err != nil {
		t.Fatal(err)
	}
	if tmpl.PointCount() != 2 || tmpl.EdgeCount() != 1 {
		t.Errorf("template has %d points %d edges", tmpl.PointCount(), tmpl.EdgeCount())
	}

	_, err = f.FetchStructure(context.Background(), "gone")
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Errorf("missing structure: err = %v", err)
	}
}

func TestHTTPFetcherErrors(t *testing.T) {
	srv := newBackend(t, map[string]string{
		"/api/structures/oops":  `{"error": "template exploded"}`,
		"/api/structures/junk":  `not json`,
		"/api/structures/wrong": `{"points": [[0,0,0]], "edges": [[0,3]]}`,
	})
	f := NewHTTPFetcher(srv.URL)

	if _, err := f.FetchStructure(context.Background(), "oops"); err == nil || !strings.Contains(err.Error(), "template exploded") {
		t.Errorf("error field: err = %v", err)
	}
	if _, err := f.FetchStructure(context.Background(), "junk"); err == nil {
		t.Error("junk body accepted")
	}
	if _, err := f.FetchStructure(context.Background(), "wrong"); !errors.Is(err, ErrInvalidTemplate) {
		t.Errorf("bad edge: err = %v", err)
	}
}

func TestSessionLoadOverHTTP(t *testing.T) {
	srv := newBackend(t, map[string]string{
		"/api/world":           `{"0,0,0": "line", "0,1,0": "line"}`,
		"/api/structures/line": `{"points": [[0,0,0],[10,0,0]], "edges": [[0,1]]}`,
	})
	s := newTestSession(t, nil)
	if err := s.Load(context.Background(), NewHTTPFetcher(srv.URL)); err != nil {
		t.Fatal(err)
	}
	st := s.State()
	if st.Structures != 2 || st.Points != 4 || st.Edges != 2 {
		t.Errorf("state = %+v", st)
	}
	if st.Selected != "line" {
		t.Errorf("selected = %q", st.Selected)
	}
}
