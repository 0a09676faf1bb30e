// Package module wires the verifier into the API: engine, ledger, event
// sink and routes under /ballots
package module

import (
	"context"
	"fmt"

	"ballotaudit/internal/adapters/crypto/reference"
	"ballotaudit/internal/core/render"
	"ballotaudit/internal/core/verify"
	modkit "ballotaudit/internal/modkit"
	"ballotaudit/internal/modkit/httpkit"
	"ballotaudit/internal/modkit/repokit"
	"ballotaudit/internal/platform/logger"
	"ballotaudit/internal/platform/net/middleware"
	"ballotaudit/internal/services/verifier/domain"
	verifierhttp "ballotaudit/internal/services/verifier/http"
	"ballotaudit/internal/services/verifier/repo"
	"ballotaudit/internal/services/verifier/service"
)

// Ledger backends accepted by VERIFIER_LEDGER
const (
	LedgerMemory = "memory"
	LedgerPG     = "pg"
)

// Settings is the VERIFIER_ view of the config
type Settings struct {
	MaxBodyBytes int64
	BatchLimit   int
	BatchWorkers int
	Ledger       string
	Events       bool
	MaxInflight  int
}

// SettingsFrom reads VERIFIER_* from deps.Cfg
func SettingsFrom(d modkit.Deps) Settings {
	c := d.Cfg.Prefix("VERIFIER_")
	return Settings{
		MaxBodyBytes: c.MayBytes("MAX_BODY_BYTES", 1<<20),
		BatchLimit:   c.MayInt("BATCH_LIMIT", service.DefaultBatchLimit),
		BatchWorkers: c.MayInt("BATCH_WORKERS", service.DefaultBatchWorkers),
		Ledger:       c.MayEnum("LEDGER", LedgerMemory, LedgerMemory, LedgerPG),
		Events:       c.MayBool("EVENTS", false),
		MaxInflight:  c.MayInt("MAX_INFLIGHT", 0),
	}
}

// Module implements modkit.Module
type Module struct {
	b   modkit.Built
	set Settings
	svc *service.Svc
	log *logger.Logger

	pg   repokit.TxRunner
	sink *repo.ClickhouseSink
}

var _ modkit.Module = (*Module)(nil)

// New builds the verifier from deps. VERIFIER_LEDGER=pg needs deps.PG and
// VERIFIER_EVENTS needs deps.CH
func New(deps modkit.Deps, opts ...modkit.Option) (*Module, error) {
	set := SettingsFrom(deps)
	base := []modkit.Option{
		modkit.WithName("verifier"),
		modkit.WithPrefix("/ballots"),
	}
	if set.MaxInflight > 0 {
		base = append(base, modkit.WithMiddlewares(middleware.Throttle(set.MaxInflight)))
	}
	b := modkit.Build(append(base, opts...)...)

	m := &Module{b: b, set: set, log: deps.Logger(b.Name)}

	var engOpts []verify.Option
	engOpts = append(engOpts, verify.WithLogger(deps.Logger("verify")))
	if deps.Metrics != nil {
		engOpts = append(engOpts, verify.WithMetrics(deps.Metrics))
	}
	engine := verify.New(reference.New(), engOpts...)

	var ledger domain.Ledger
	switch set.Ledger {
	case LedgerPG:
		if deps.PG == nil {
			return nil, fmt.Errorf("verifier: ledger %q needs postgres", set.Ledger)
		}
		m.pg = deps.PG
		ledger = repokit.MustBind(repo.NewPG(), repokit.Queryer(deps.PG))
	default:
		ledger = repo.NewMemory()
	}

	renderer, err := render.New()
	if err != nil {
		return nil, fmt.Errorf("verifier: %w", err)
	}

	svcOpts := []service.Option{
		service.WithLogger(m.log),
		service.WithRenderer(renderer),
		service.WithBatch(set.BatchLimit, set.BatchWorkers),
	}
	if deps.Metrics != nil {
		svcOpts = append(svcOpts, service.WithLedgerMetrics(deps.Metrics))
	}
	if set.Events {
		if deps.CH == nil {
			return nil, fmt.Errorf("verifier: events need clickhouse")
		}
		m.sink = repo.NewClickhouseSink(deps.CH)
		svcOpts = append(svcOpts, service.WithEvents(m.sink))
	}

	m.svc = service.New(engine, ledger, svcOpts...)
	return m, nil
}

// Ensure creates the tables of the enabled backends
func (m *Module) Ensure(ctx context.Context) error {
	if m.pg != nil {
		err := repokit.WithTx(ctx, m.pg, func(q repokit.Queryer) error {
			return repo.EnsureLedger(ctx, q)
		})
		if err != nil {
			return err
		}
	}
	if m.sink != nil {
		if err := m.sink.Ensure(ctx); err != nil {
			return err
		}
	}
	m.log.Info().
		Str("ledger", m.set.Ledger).
		Bool("events", m.sink != nil).
		Msg("verifier storage ready")
	return nil
}

// MountRoutes implements modkit.Module
func (m *Module) MountRoutes(r httpkit.Router) {
	m.b.Mount(r, func(sub httpkit.Router) {
		verifierhttp.Register(sub, m.svc, verifierhttp.Options{MaxBodyBytes: m.set.MaxBodyBytes})
	})
}

// Name implements modkit.Module
func (m *Module) Name() string { return m.b.Name }

// Ports returns the verifier service port
func (m *Module) Ports() any { return domain.ServicePort(m.svc) }
