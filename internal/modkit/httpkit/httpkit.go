// Package httpkit is the handler and routing surface modules mount against.
// Modules import it instead of internal/platform/net/http
package httpkit

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	phttp "ballotaudit/internal/platform/net/http"
	"ballotaudit/internal/platform/net/http/bind"
)

type (
	// Envelope is the transport envelope every JSON reply is wrapped in
	Envelope = phttp.Envelope

	// Response is a return-style handler result
	Response = phttp.Response

	// Handler is the platform handler type
	Handler = phttp.Handler

	// Router is the platform router seam
	Router = phttp.Router

	// BodyOptions tune JSON body parsing
	BodyOptions = bind.JSONOptions
)

// OK returns a 200 response
func OK(data any) Response { return phttp.OK(data) }

// Error returns a response that maps err to a status and envelope
func Error(err error) Response { return phttp.Error(err) }

// Call adapts a handler that takes no JSON body. A returned Response is
// written as is; anything else is wrapped in a 200 envelope
func Call(fn func(*http.Request) (any, error)) Handler {
	return phttp.Handle(func(r *http.Request) phttp.Response {
		out, err := fn(r)
		if err != nil {
			return phttp.Error(err)
		}
		if resp, ok := out.(phttp.Response); ok {
			return resp
		}
		return phttp.OK(out)
	})
}

// Get mounts a body-less handler under GET
func Get(r Router, path string, h func(*http.Request) (any, error)) {
	r.Get(path, Call(h))
}

// PostJSON mounts a handler whose body is bound and validated into T
func PostJSON[T any](r Router, path string, h func(*http.Request, T) (any, error), opts ...BodyOptions) {
	r.Post(path, phttp.JSONHandler(h, opts...))
}

// Param returns the named path parameter
func Param(r *http.Request, name string) string {
	return chi.URLParam(r, name)
}
