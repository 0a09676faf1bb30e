// Package api assembles the HTTP API: shared routes at the root and the
// modules under /api/v1
package api

import (
	"context"
	"time"

	"ballotaudit/internal/modkit"
	"ballotaudit/internal/modkit/httpkit"
	"ballotaudit/internal/modkit/swaggerkit"
	"ballotaudit/internal/platform/config"
	"ballotaudit/internal/platform/logger"
	"ballotaudit/internal/platform/metrics"
	phttp "ballotaudit/internal/platform/net/http"
	"ballotaudit/internal/platform/net/middleware"
	"ballotaudit/internal/platform/store"

	"ballotaudit/internal/services/api/docs"
	metamod "ballotaudit/internal/services/api/meta/module"
	verifiermod "ballotaudit/internal/services/verifier/module"
)

// Options are the API options
type Options struct {
	// Config is the root view; modules read their own prefixes from it
	Config  config.Conf
	Store   *store.Store
	Logger  *logger.Logger
	Metrics *metrics.Metrics

	EnableSwagger  bool
	EnableProfiler bool
	AllowedOrigins []string
	Timeout        time.Duration
}

// Mount builds every module, prepares their storage and mounts them on r.
// r must not have routes yet since root middleware is added here
func Mount(ctx context.Context, r httpkit.Router, opt Options) error {
	deps := modkit.Deps{
		Log:     opt.Logger,
		Cfg:     opt.Config,
		Metrics: opt.Metrics,
	}
	if opt.Store != nil {
		deps.PG = opt.Store.PG
		deps.CH = opt.Store.CH
	}

	verifier, err := verifiermod.New(deps)
	if err != nil {
		return err
	}
	if err := verifier.Ensure(ctx); err != nil {
		return err
	}

	doc, err := swaggerkit.Doc(docs.OpenAPI, "/api/v1")
	if err != nil {
		return err
	}

	r.Use(middleware.Heartbeat("/health"))
	if opt.Metrics != nil {
		r.Handle("/metrics", opt.Metrics.Handler())
	}
	swaggerkit.Mount(r, opt.EnableSwagger, swaggerkit.DocsPath, doc)
	phttp.MountProfiler(r, "/debug", opt.EnableProfiler)

	stack := httpkit.CommonStack(httpkit.StackOptions{
		Timeout:        opt.Timeout,
		AllowedOrigins: opt.AllowedOrigins,
	})
	httpkit.MountAPI(r, "v1", stack, func(v1 httpkit.Router) {
		modkit.MountAll(v1, metamod.New(deps), verifier)
	})
	return nil
}
