package httpkit

import (
	"compress/flate"
	"net/http"
	"time"

	"ballotaudit/internal/platform/net/middleware"
)

// StackOptions tune CommonStack
type StackOptions struct {
	// Timeout bounds a request, default 30s. Batch verification is the slow path
	Timeout time.Duration
	// AllowedOrigins feeds CORS, default any
	AllowedOrigins []string
}

// CommonStack is the middleware every API route runs behind
func CommonStack(o StackOptions) []func(http.Handler) http.Handler {
	if o.Timeout <= 0 {
		o.Timeout = 30 * time.Second
	}
	return []func(http.Handler) http.Handler{
		middleware.RequestID(),
		middleware.RealIP(),
		middleware.AccessLog,
		middleware.RecoverJSON,
		middleware.NoCache(),
		middleware.CORS(middleware.CORSOptions{AllowedOrigins: o.AllowedOrigins}),
		middleware.Compress(flate.BestSpeed),
		middleware.StripSlashes(),
		middleware.Timeout(o.Timeout),
	}
}
