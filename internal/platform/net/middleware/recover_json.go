package middleware

import (
	"encoding/json"
	"net/http"
	"runtime/debug"

	perr "ballotaudit/internal/platform/errors"
	"ballotaudit/internal/platform/logger"
	pnet "ballotaudit/internal/platform/net"
	phttp "ballotaudit/internal/platform/net/http"
)

// RecoverJSON turns a panic into a JSON 500 and logs the stack
func RecoverJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			v := recover()
			if v == nil {
				return
			}
			if v == http.ErrAbortHandler {
				panic(v)
			}
			reqID := pnet.RequestID(r.Context())
			logger.C(r.Context()).Error().
				Interface("panic", v).
				Bytes("stack", debug.Stack()).
				Str("path", r.URL.Path).
				Msg("panic recovered")

			if reqID != "" {
				w.Header().Set("X-Request-ID", reqID)
			}
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
			w.WriteHeader(http.StatusInternalServerError)
			_ = json.NewEncoder(w).Encode(phttp.ErrorEnvelope(perr.New(perr.ErrorCodePanic, "internal error"), reqID))
		}()
		next.ServeHTTP(w, r)
	})
}
