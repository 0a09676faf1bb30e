// Package module wires meta endpoints into the API using a tiny module
package module

import (
	"time"

	modkit "ballotaudit/internal/modkit"
	"ballotaudit/internal/modkit/httpkit"
	"ballotaudit/internal/platform/store"

	metahttp "ballotaudit/internal/services/api/meta/http"
)

// ServiceName is reported by /meta/health and /meta/version
const ServiceName = "ballotaudit-api"

// Module implements the modkit.Module interface
type Module struct {
	b         modkit.Built
	deps      metahttp.Deps
	startedAt time.Time
}

var _ modkit.Module = (*Module)(nil)

// New constructs a meta module with the provided dependencies and options
func New(deps modkit.Deps, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("meta"),
		modkit.WithPrefix("/meta"),
	}, opts...)...)

	m := &Module{b: b, startedAt: time.Now()}
	m.deps = metahttp.Deps{
		ServiceName:  ServiceName,
		StartedAt:    m.startedAt,
		ReadyTimeout: deps.Cfg.MayDuration("CORE_API_READY_TIMEOUT", 2*time.Second),
	}
	if p, ok := deps.PG.(store.Pinger); ok {
		m.deps.PG = p
	}
	if p, ok := deps.CH.(store.Pinger); ok {
		m.deps.CH = p
	}
	return m
}

// MountRoutes implements the modkit.Module interface
func (m *Module) MountRoutes(r httpkit.Router) {
	m.b.Mount(r, func(sub httpkit.Router) { metahttp.Register(sub, m.deps) })
}

// Name implements the modkit.Module interface
func (m *Module) Name() string { return m.b.Name }

// Ports implements the modkit.Module interface
func (m *Module) Ports() any { return nil }
