// Package middleware holds the chi wrappers and in house middlewares the
// API runs behind
package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"ballotaudit/internal/platform/logger"
	pnet "ballotaudit/internal/platform/net"
)

// SlowRequest marks requests at or above it as warn
var SlowRequest = 500 * time.Millisecond

// AccessLog puts the request id on the logging context and logs every
// request once it is done. Request bodies are never logged, and the
// route pattern is logged instead of the path so ballot hashes in
// /ballots/spoiled/{hash} stay out of the logs
func AccessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := logger.WithRequest(r.Context(), pnet.RequestID(r.Context()))
		r = r.WithContext(ctx)

		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		elapsed := time.Since(start)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		log := logger.C(ctx)
		evt := log.Info()
		if status >= http.StatusInternalServerError {
			evt = log.Error()
		} else if elapsed >= SlowRequest {
			evt = log.Warn()
		}
		evt.Str("method", r.Method).
			Str("route", routeOf(r)).
			Int("status", status).
			Int("bytes", ww.BytesWritten()).
			Dur("elapsed", elapsed).
			Msg("request done")
	})
}

// routeOf is the matched chi pattern, or "unmatched" for 404s and requests
// served before routing
func routeOf(r *http.Request) string {
	if rc := chi.RouteContext(r.Context()); rc != nil {
		if p := rc.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}
