package http

import (
	stdhttp "net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
)

func header(k string) func(stdhttp.Handler) stdhttp.Handler {
	return func(next stdhttp.Handler) stdhttp.Handler {
		return stdhttp.HandlerFunc(func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
			w.Header().Set(k, "1")
			next.ServeHTTP(w, r)
		})
	}
}

func TestAdaptChi_GroupRouteAndMux(t *testing.T) {
	t.Parallel()

	r := AdaptChi(chi.NewRouter())
	r.Use(header("X-Root"))
	r.Get("/root", func(w stdhttp.ResponseWriter, _ *stdhttp.Request) { _, _ = w.Write([]byte("root")) })
	r.Group(func(g Router) {
		g.Use(header("X-Group"))
		g.Post("/g", func(w stdhttp.ResponseWriter, _ *stdhttp.Request) { w.WriteHeader(stdhttp.StatusAccepted) })
	})
	r.Route("/v1", func(sr Router) {
		sr.Use(header("X-Route"))
		if sr.Mux() == nil {
			t.Fatal("route Mux() returned nil")
		}
		sr.Handle("/raw", stdhttp.HandlerFunc(func(w stdhttp.ResponseWriter, _ *stdhttp.Request) {
			_, _ = w.Write([]byte("raw"))
		}))
	})

	cases := []struct {
		method, path string
		code         int
		hdr          string
		noHdr        string
	}{
		{stdhttp.MethodGet, "/root", 200, "X-Root", "X-Group"},
		{stdhttp.MethodPost, "/g", 202, "X-Group", "X-Route"},
		{stdhttp.MethodGet, "/v1/raw", 200, "X-Route", "X-Group"},
		{stdhttp.MethodPost, "/root", 405, "X-Root", ""},
	}
	for _, c := range cases {
		rr := httptest.NewRecorder()
		r.Mux().ServeHTTP(rr, httptest.NewRequest(c.method, c.path, nil))
		if rr.Code != c.code {
			t.Fatalf("%s %s: code %d, want %d", c.method, c.path, rr.Code, c.code)
		}
		if rr.Header().Get(c.hdr) != "1" {
			t.Fatalf("%s %s: missing %s", c.method, c.path, c.hdr)
		}
		if c.noHdr != "" && rr.Header().Get(c.noHdr) != "" {
			t.Fatalf("%s %s: unexpected %s", c.method, c.path, c.noHdr)
		}
	}
}
