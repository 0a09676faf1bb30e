// Package http provides meta endpoints
package http

import (
	stdctx "context"
	"net/http"
	"time"

	"ballotaudit/internal/core/ballot"
	"ballotaudit/internal/core/ballotid"
	"ballotaudit/internal/core/render"
	"ballotaudit/internal/core/version"
	"ballotaudit/internal/modkit/httpkit"
	"ballotaudit/internal/platform/store"

	"golang.org/x/sync/errgroup"
)

// Deps are the handler dependencies. Nil stores report as skipped
type Deps struct {
	ServiceName string
	StartedAt   time.Time
	PG          store.Pinger
	CH          store.Pinger
	// ReadyTimeout bounds each dependency ping, default 2s
	ReadyTimeout time.Duration
}

type handlers struct {
	deps Deps
}

// Register mounts the meta routes
func Register(r httpkit.Router, d Deps) {
	if d.ReadyTimeout <= 0 {
		d.ReadyTimeout = 2 * time.Second
	}
	h := &handlers{deps: d}

	httpkit.Get(r, "/health", h.health)
	httpkit.Get(r, "/ready", h.ready)
	httpkit.Get(r, "/version", h.version)
	httpkit.Get(r, "/engine", h.engine)
}

// HealthResponse is the health payload
type HealthResponse struct {
	OK      bool   `json:"ok"       example:"true"`
	Service string `json:"service"  example:"ballotaudit-api"`
	Started string `json:"started"  example:"2026-10-01T08:00:00Z"`
	Uptime  int64  `json:"uptime"   example:"300"`
	Now     string `json:"now"      example:"2026-10-01T08:05:00Z"`
}

// ReadyCheck describes a single dependency check
type ReadyCheck struct {
	Name   string `json:"name"   example:"pg"`
	Status string `json:"status" example:"ok"` // ok fail skipped
	Error  string `json:"error,omitempty" example:"dial tcp 127.0.0.1:5432: connect: connection refused"`
}

// ReadyResponse summarizes readiness
type ReadyResponse struct {
	Status string       `json:"status" example:"ok"` // ok fail
	Checks []ReadyCheck `json:"checks"`
	Now    string       `json:"now"    example:"2026-10-01T08:05:00Z"`
}

// EngineResponse lists what this build can verify
type EngineResponse struct {
	BallotKinds []ballot.Kind     `json:"ballot_kinds"`
	HashSchemes []ballotid.Scheme `json:"hash_schemes"`
	Locales     []string          `json:"locales"`
	Build       version.BuildInfo `json:"build"`
}

// @Summary Health check
// @Tags Meta
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /meta/health [get]
func (h *handlers) health(_ *http.Request) (any, error) {
	now := time.Now().UTC()
	return HealthResponse{
		OK:      true,
		Service: h.deps.ServiceName,
		Started: h.deps.StartedAt.UTC().Format(time.RFC3339),
		Uptime:  int64(now.Sub(h.deps.StartedAt) / time.Second),
		Now:     now.Format(time.RFC3339),
	}, nil
}

// @Summary Readiness probe with dependency checks
// @Description Skipped stores do not fail readiness; a failing ping answers 503
// @Tags Meta
// @Produce json
// @Success 200 {object} ReadyResponse
// @Failure 503 {object} ReadyResponse
// @Router /meta/ready [get]
func (h *handlers) ready(r *http.Request) (any, error) {
	backends := []struct {
		name string
		p    store.Pinger
	}{{"pg", h.deps.PG}, {"ch", h.deps.CH}}

	out := ReadyResponse{Status: "ok", Checks: make([]ReadyCheck, len(backends))}
	var g errgroup.Group
	for i, b := range backends {
		out.Checks[i] = ReadyCheck{Name: b.name, Status: "skipped"}
		if b.p == nil {
			continue
		}
		g.Go(func() error {
			ctx, cancel := stdctx.WithTimeout(r.Context(), h.deps.ReadyTimeout)
			defer cancel()
			if err := b.p.Ping(ctx); err != nil {
				out.Checks[i].Status, out.Checks[i].Error = "fail", err.Error()
				return nil
			}
			out.Checks[i].Status = "ok"
			return nil
		})
	}
	_ = g.Wait()
	out.Now = time.Now().UTC().Format(time.RFC3339)

	for _, c := range out.Checks {
		if c.Status == "fail" {
			out.Status = "fail"
			return httpkit.Response{Status: http.StatusServiceUnavailable, Body: out}, nil
		}
	}
	return out, nil
}

// @Summary Build and version info
// @Tags Meta
// @Produce json
// @Success 200 {object} version.BuildInfo
// @Router /meta/version [get]
func (h *handlers) version(_ *http.Request) (any, error) {
	return version.Info(h.deps.ServiceName), nil
}

// @Summary Supported ballot kinds, hash schemes and diagnostic locales
// @Tags Meta
// @Produce json
// @Success 200 {object} EngineResponse
// @Router /meta/engine [get]
func (h *handlers) engine(_ *http.Request) (any, error) {
	locales := make([]string, 0, len(render.Supported))
	for _, t := range render.Supported {
		locales = append(locales, t.String())
	}
	return EngineResponse{
		BallotKinds: []ballot.Kind{ballot.KindSingle, ballot.KindMulti},
		HashSchemes: []ballotid.Scheme{ballotid.SchemePrimary, ballotid.SchemeLegacy, ballotid.SchemeMulti},
		Locales:     locales,
		Build:       version.Info(h.deps.ServiceName),
	}, nil
}
