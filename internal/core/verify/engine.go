// Package verify runs the auditable ballot verification pipeline:
// parse, hash, signature check and decode. A decoded ballot is spoiled and
// must never be cast; callers that keep state record it as such
package verify

import (
	"context"
	"time"

	"ballotaudit/internal/core/ballot"
	"ballotaudit/internal/core/ballotid"
	"ballotaudit/internal/core/decoder"
	"ballotaudit/internal/core/plaintext"
	"ballotaudit/internal/core/primitives"
	"ballotaudit/internal/core/signature"
	"ballotaudit/internal/platform/logger"
)

// Recorder receives verification measurements; implementations must be
// safe for concurrent use
type Recorder interface {
	ObserveVerification(kind ballot.Kind, result Result, took time.Duration)
	ObserveSignature(status signature.Status)
	ObserveDiagnostic(kind plaintext.Kind)
}

// Result labels a finished verification for metrics and logs
type Result string

const (
	ResultMatch    Result = "match"
	ResultMismatch Result = "mismatch"
	ResultFailed   Result = "failed"
)

type nopRecorder struct{}

func (nopRecorder) ObserveVerification(ballot.Kind, Result, time.Duration) {}
func (nopRecorder) ObserveSignature(signature.Status) {}
func (nopRecorder) ObserveDiagnostic(plaintext.Kind) {}

// Engine holds no per-ballot state and is safe for concurrent use
type Engine struct {
	resolver ballotid.Resolver
	verifier signature.Verifier
	decoder  decoder.Decoder

	log *logger.Logger
	now func() time.Time
	rec Recorder
}

// Option configures an Engine
type Option func(*Engine)

// WithLogger sets the engine logger
func WithLogger(l *logger.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithMetrics sets the measurement sink
func WithMetrics(r Recorder) Option {
	return func(e *Engine) {
		if r != nil {
			e.rec = r
		}
	}
}

// New builds an engine over p
func New(p primitives.Primitives, opts ...Option) *Engine {
	e := &Engine{
		log: logger.Named("verify"),
		now: time.Now,
		rec: nopRecorder{},
	}
	for _, o := range opts {
		o(e)
	}
	e.resolver = ballotid.Resolver{P: p}
	e.verifier = signature.Verifier{P: p, Log: e.log}
	e.decoder = decoder.Decoder{P: p}
	return e
}

// Verify parses raw and checks it against the claimed Ballot ID
func (e *Engine) Verify(ctx context.Context, raw []byte, claimed string) (Outcome, error) {
	r, err := e.Prepare(ctx, raw)
	if err != nil {
		return Outcome{}, err
	}
	return r.Check(claimed), nil
}

// VerifyBallot is Verify for an already parsed ballot
func (e *Engine) VerifyBallot(ctx context.Context, b ballot.AuditableBallot, claimed string) (Outcome, error) {
	r, err := e.PrepareBallot(ctx, b)
	if err != nil {
		return Outcome{}, err
	}
	return r.Check(claimed), nil
}

// Prepare parses raw and runs every claim independent stage. The returned
// run can be checked against any number of claimed ids
func (e *Engine) Prepare(ctx context.Context, raw []byte) (*Run, error) {
	start := e.now()
	if err := ctx.Err(); err != nil {
		return nil, e.fail(start, "", StageParse, err)
	}
	b, err := ballot.Parse(raw)
	if err != nil {
		return nil, e.fail(start, "", StageParse, err)
	}
	return e.prepare(ctx, start, b)
}

// PrepareBallot is Prepare for an already parsed ballot
func (e *Engine) PrepareBallot(ctx context.Context, b ballot.AuditableBallot) (*Run, error) {
	return e.prepare(ctx, e.now(), b)
}

func (e *Engine) prepare(ctx context.Context, start time.Time, b ballot.AuditableBallot) (*Run, error) {
	r := newRun(e, b, start)
	log := e.log.With().Str("run_id", r.id.String()).Str("kind", string(b.Kind())).Logger()
	log.Debug().Stringer("state", r.state).Msg("ballot parsed")

	if err := ctx.Err(); err != nil {
		return nil, e.fail(start, b.Kind(), StageHash, err)
	}
	h, err := e.resolver.Resolve(ctx, b)
	if err != nil {
		return nil, e.fail(start, b.Kind(), StageHash, err)
	}
	r.hash = h
	r.state = StateHashResolved
	log = log.With().Str("ballot_hash", h.Primary).Logger()
	log.Debug().Stringer("state", r.state).Msg("ballot hash resolved")

	if sig, pk := b.SignatureMaterial(); sig != "" && pk != "" {
		if err := ctx.Err(); err != nil {
			return nil, e.fail(start, b.Kind(), StageSignature, err)
		}
		r.signature = e.verifier.Verify(ctx, h.Primary, electionID(b), b)
		r.state = StateSignatureChecked
		log.Debug().Stringer("state", r.state).Stringer("signature", r.signature).Msg("voter signature checked")
	}
	e.rec.ObserveSignature(r.signature)

	if err := ctx.Err(); err != nil {
		return nil, e.fail(start, b.Kind(), StageDecode, err)
	}
	contests, err := e.decoder.Decode(ctx, b)
	if err != nil {
		return nil, e.fail(start, b.Kind(), StageDecode, err)
	}
	r.contests = contests
	r.state = StateDecoded

	n := 0
	for _, c := range contests {
		for _, d := range c.Diagnostics {
			e.rec.ObserveDiagnostic(d.Kind)
			n++
		}
	}
	log.Debug().Stringer("state", r.state).Int("contests", len(contests)).Int("diagnostics", n).Msg("ballot decoded")
	return r, nil
}

func (e *Engine) fail(start time.Time, kind ballot.Kind, stage Stage, err error) error {
	e.rec.ObserveVerification(kind, ResultFailed, e.now().Sub(start))
	e.log.Warn().Err(err).Str("stage", string(stage)).Stringer("state", StateFailed).Msg("verification failed")
	return &EngineError{Stage: stage, Err: err}
}

func electionID(b ballot.AuditableBallot) string {
	if cfg := b.Config(); cfg != nil {
		return cfg.ElectionID
	}
	return ""
}
