// Command ballotaudit-api serves ballot verification over HTTP
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ballotaudit/internal/core/version"
	"ballotaudit/internal/platform/config"
	"ballotaudit/internal/platform/logger"
	"ballotaudit/internal/platform/metrics"
	phttp "ballotaudit/internal/platform/net/http"
	"ballotaudit/internal/platform/store"

	"ballotaudit/internal/services/api"
	metamod "ballotaudit/internal/services/api/meta/module"
)

func main() {
	root := config.New()
	apiCfg := root.Prefix("CORE_API_")
	verCfg := root.Prefix("VERIFIER_")
	pgCfg := root.Prefix("SERVICE_PGSQL_")
	chCfg := root.Prefix("SERVICE_CLICKHOUSE_")

	opt := logger.FromEnv()
	if opt.Service == "" {
		opt.Service = metamod.ServiceName
	}
	logger.Init(opt)
	l := logger.Get()
	l.Info().Str("build", version.Info(metamod.ServiceName).String()).Msg("starting")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	usePG := verCfg.MayEnum("LEDGER", "memory", "memory", "pg") == "pg"
	useCH := verCfg.MayBool("EVENTS", false)

	cfg := store.Config{AppName: metamod.ServiceName}
	if usePG {
		cfg.PG = store.PGConfig{
			Enabled:   true,
			URL:       pgCfg.MustString("DBURL"),
			MaxConns:  int32(pgCfg.MayInt("MAX_CONNS", 4)),
			SlowQuery: pgCfg.MayDuration("SLOW_QUERY", 200*time.Millisecond),
			LogSQL:    pgCfg.MayBool("LOG_SQL", false),

			StatementTimeout: pgCfg.MayDuration("STATEMENT_TIMEOUT", 5*time.Second),
		}
	}
	if useCH {
		cfg.CH = store.CHConfig{
			Enabled:     true,
			URL:         chCfg.MustString("DBURL"),
			DialTimeout: chCfg.MayDuration("DIAL_TIMEOUT", 5*time.Second),
		}
	}

	st, err := store.Open(ctx, cfg, store.WithLogger(*l))
	if err != nil {
		l.Fatal().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()
	if err := st.Guard(ctx); err != nil {
		l.Fatal().Err(err).Msg("store not reachable")
	}

	srv := phttp.NewServer(apiCfg)
	err = api.Mount(ctx, srv.Router(), api.Options{
		Config:         root,
		Store:          st,
		Logger:         l,
		Metrics:        metrics.New(nil),
		EnableSwagger:  apiCfg.MayBool("SWAGGER", true),
		EnableProfiler: apiCfg.MayBool("PROFILER", false),
		AllowedOrigins: apiCfg.MayCSV("CORS_ORIGINS", nil),
		Timeout:        apiCfg.MayDuration("REQUEST_TIMEOUT", 30*time.Second),
	})
	if err != nil {
		l.Fatal().Err(err).Msg("api.Mount failed")
	}

	if err := srv.Run(ctx); err != nil {
		l.Error().Err(err).Msg("http server stopped")
		return
	}
	l.Info().Msg("bye")
}
