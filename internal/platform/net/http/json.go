package http

import (
	"net/http"

	"ballotaudit/internal/platform/net/http/bind"
)

// JSONHandler binds and validates the body into T before calling fn.
// A returned Response is written as is, anything else is wrapped in a 200 envelope
func JSONHandler[T any](fn func(*http.Request, T) (any, error), opts ...bind.JSONOptions) Handler {
	return Handle(func(r *http.Request) Response {
		in, err := bind.ParseJSON[T](r, opts...)
		if err != nil {
			return Error(err)
		}
		out, err := fn(r, in)
		if err != nil {
			return Error(err)
		}
		if resp, ok := out.(Response); ok {
			return resp
		}
		return OK(out)
	})
}
