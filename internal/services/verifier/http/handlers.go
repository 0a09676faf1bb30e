// Package http provides http transport for the verifier
package http

import (
	stdhttp "net/http"

	"ballotaudit/internal/core/render"
	"ballotaudit/internal/modkit/httpkit"
	"ballotaudit/internal/services/verifier/domain"
)

// Options tune request parsing
type Options struct {
	// MaxBodyBytes bounds every request body; zero keeps the bind default
	MaxBodyBytes int64
}

// Register mounts the verifier endpoints on the given router
func Register(r httpkit.Router, s domain.ServicePort, opt Options) {
	h := &handlers{svc: s}
	body := httpkit.BodyOptions{MaxBytes: opt.MaxBodyBytes}

	httpkit.PostJSON(r, "/verify", h.verify, body)
	httpkit.PostJSON(r, "/verify/batch", h.batch, body)
	httpkit.Get(r, "/sample", h.sample)
	httpkit.Get(r, "/spoiled/{hash}", h.spoiled)
}

type handlers struct{ svc domain.ServicePort }

// @Summary Verify an auditable ballot
// @Description Decodes the ballot, checks its id and voter signature and records it as spoiled
// @Tags Ballots
// @Accept json
// @Produce json
// @Param Accept-Language header string false "Language for rendered diagnostics when lang is empty"
// @Param payload body domain.VerifyRequest true "Ballot and claimed id"
// @Success 200 {object} domain.VerifyResponse
// @Failure 400 {object} httpkit.Envelope "malformed ballot"
// @Failure 422 {object} httpkit.Envelope "ballot cannot be decoded"
// @Router /ballots/verify [post]
func (h *handlers) verify(r *stdhttp.Request, in domain.VerifyRequest) (any, error) {
	in.Lang = langOf(r, in.Lang)
	return h.svc.Verify(r.Context(), in)
}

// @Summary Verify many auditable ballots
// @Tags Ballots
// @Accept json
// @Produce json
// @Param payload body domain.BatchRequest true "Ballots"
// @Success 200 {object} domain.BatchResponse
// @Router /ballots/verify/batch [post]
func (h *handlers) batch(r *stdhttp.Request, in domain.BatchRequest) (any, error) {
	for i := range in.Items {
		in.Items[i].Lang = langOf(r, in.Items[i].Lang)
	}
	return h.svc.VerifyBatch(r.Context(), in)
}

// @Summary Sample auditable ballot
// @Tags Ballots
// @Produce json
// @Success 200 {object} domain.SampleResponse
// @Router /ballots/sample [get]
func (h *handlers) sample(r *stdhttp.Request) (any, error) {
	return h.svc.Sample(r.Context())
}

// @Summary Spoiled ballot lookup
// @Tags Ballots
// @Produce json
// @Param hash path string true "Ballot hash"
// @Success 200 {object} domain.SpoiledResponse
// @Router /ballots/spoiled/{hash} [get]
func (h *handlers) spoiled(r *stdhttp.Request) (any, error) {
	return h.svc.Spoiled(r.Context(), httpkit.Param(r, "hash"))
}

// langOf prefers the body field and falls back to Accept-Language
func langOf(r *stdhttp.Request, lang string) string {
	if lang != "" {
		return lang
	}
	if al := r.Header.Get("Accept-Language"); al != "" {
		return render.Match(al)
	}
	return ""
}
