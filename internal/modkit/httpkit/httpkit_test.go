package httpkit_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"ballotaudit/internal/modkit/httpkit"
	perr "ballotaudit/internal/platform/errors"
	phttp "ballotaudit/internal/platform/net/http"

	"github.com/go-chi/chi/v5"
)

type echoIn struct {
	Msg string `json:"msg" validate:"required,max=8"`
}

func newRouter() httpkit.Router { return phttp.AdaptChi(chi.NewRouter()) }

func serve(r httpkit.Router, method, path, body string) (*httptest.ResponseRecorder, httpkit.Envelope) {
	rr := httptest.NewRecorder()
	r.Mux().ServeHTTP(rr, httptest.NewRequest(method, path, strings.NewReader(body)))
	var env httpkit.Envelope
	_ = json.Unmarshal(rr.Body.Bytes(), &env)
	return rr, env
}

func TestGetAndParam(t *testing.T) {
	r := newRouter()
	httpkit.Get(r, "/items/{id}", func(req *http.Request) (any, error) {
		id := httpkit.Param(req, "id")
		switch id {
		case "missing":
			return nil, perr.ErrNotFound
		case "raw":
			return httpkit.Response{Status: http.StatusAccepted, Body: "later"}, nil
		}
		return map[string]string{"id": id}, nil
	})

	cases := []struct {
		path string
		code int
	}{
		{"/items/abc", 200},
		{"/items/raw", 202},
		{"/items/missing", 404},
	}
	for _, c := range cases {
		rr, env := serve(r, http.MethodGet, c.path, "")
		if rr.Code != c.code || env.StatusCode != c.code {
			t.Fatalf("%s: code %d env %d, want %d", c.path, rr.Code, env.StatusCode, c.code)
		}
	}
	_, env := serve(r, http.MethodGet, "/items/abc", "")
	if m, ok := env.Data.(map[string]any); !ok || m["id"] != "abc" {
		t.Fatalf("data = %#v", env.Data)
	}
}

func TestPostJSON(t *testing.T) {
	r := newRouter()
	h := func(_ *http.Request, in echoIn) (any, error) { return in, nil }
	httpkit.PostJSON(r, "/echo", h)
	httpkit.PostJSON(r, "/tiny", h, httpkit.BodyOptions{MaxBytes: 8})

	cases := []struct {
		path, body string
		code       int
		field      string
	}{
		{"/echo", `{"msg":"hi"}`, 200, ""},
		{"/echo", `{"msg":""}`, 400, "msg"},
		{"/echo", `{"msg":"waytoolongmsg"}`, 400, "msg"},
		{"/tiny", `{"msg":"hi"}`, 400, ""},
	}
	for _, c := range cases {
		rr, env := serve(r, http.MethodPost, c.path, c.body)
		if rr.Code != c.code {
			t.Fatalf("%s %s: code %d, want %d (%s)", c.path, c.body, rr.Code, c.code, rr.Body.String())
		}
		if env.Field != c.field {
			t.Fatalf("%s %s: field %q, want %q", c.path, c.body, env.Field, c.field)
		}
	}
}

func TestMountAPIAndStack(t *testing.T) {
	r := newRouter()
	httpkit.MountAPI(r, "/v1/", httpkit.CommonStack(httpkit.StackOptions{}), func(api httpkit.Router) {
		httpkit.Get(api, "/ping", func(*http.Request) (any, error) { return "pong", nil })
		httpkit.Get(api, "/panic", func(*http.Request) (any, error) { panic("boom") })
	})

	rr, env := serve(r, http.MethodGet, "/api/v1/ping/", "")
	if rr.Code != 200 || env.Data != "pong" {
		t.Fatalf("ping: %d %+v", rr.Code, env)
	}
	if env.RequestID == "" || rr.Header().Get("Cache-Control") == "" {
		t.Fatalf("stack did not run: request_id=%q headers=%v", env.RequestID, rr.Header())
	}

	rr, env = serve(r, http.MethodGet, "/api/v1/panic", "")
	if rr.Code != http.StatusInternalServerError || env.Code != perr.ErrorCodePanic {
		t.Fatalf("panic: %d %+v", rr.Code, env)
	}
}
