// Package service runs verifications for the http layer: it drives the
// engine, keeps the spoiled-ballot ledger, emits events and renders
// diagnostics
package service

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"ballotaudit/internal/core/render"
	"ballotaudit/internal/core/verify"
	perr "ballotaudit/internal/platform/errors"
	"ballotaudit/internal/platform/logger"
	"ballotaudit/internal/services/verifier/domain"
	"ballotaudit/internal/services/verifier/repo"
)

// Service defines the service contract for the verifier
type Service interface{ domain.ServicePort }

// LedgerMetrics counts ledger writes that failed
type LedgerMetrics interface{ IncLedgerError() }

// Defaults for the batch endpoint
const (
	DefaultBatchLimit   = 50
	DefaultBatchWorkers = 4
)

// Svc implements Service
type Svc struct {
	engine   *verify.Engine
	ledger   domain.Ledger
	events   domain.EventSink
	renderer *render.Renderer
	metrics  LedgerMetrics
	log      *logger.Logger

	batchLimit int
	workers    int

	sampleOnce sync.Once
	sample     domain.SampleResponse
}

var _ Service = (*Svc)(nil)

// Option configures Svc
type Option func(*Svc)

// WithEvents sets the event sink; the default logs events at debug
func WithEvents(s domain.EventSink) Option { return func(v *Svc) { v.events = s } }

// WithRenderer enables rendered diagnostics in responses
func WithRenderer(r *render.Renderer) Option { return func(v *Svc) { v.renderer = r } }

// WithLedgerMetrics counts failed ledger writes
func WithLedgerMetrics(m LedgerMetrics) Option { return func(v *Svc) { v.metrics = m } }

// WithLogger overrides the service logger
func WithLogger(l *logger.Logger) Option { return func(v *Svc) { v.log = l } }

// WithBatch bounds the batch endpoint; zero keeps the default
func WithBatch(limit, workers int) Option {
	return func(v *Svc) {
		if limit > 0 {
			v.batchLimit = limit
		}
		if workers > 0 {
			v.workers = workers
		}
	}
}

// New builds the verifier service
func New(engine *verify.Engine, ledger domain.Ledger, opts ...Option) *Svc {
	if engine == nil {
		panic("verifier.Service requires a non nil engine")
	}
	if ledger == nil {
		panic("verifier.Service requires a non nil ledger")
	}
	s := &Svc{
		engine:     engine,
		ledger:     ledger,
		log:        logger.Named("verifier"),
		batchLimit: DefaultBatchLimit,
		workers:    DefaultBatchWorkers,
	}
	for _, o := range opts {
		o(s)
	}
	if s.events == nil {
		s.events = repo.LogSink{Log: s.log}
	}
	if s.metrics == nil {
		s.metrics = nopMetrics{}
	}
	return s
}

// Verify checks one ballot. The ledger and the event sink are best effort:
// their failures are logged and never fail the verification
func (s *Svc) Verify(ctx context.Context, in domain.VerifyRequest) (domain.VerifyResponse, error) {
	run, err := s.engine.Prepare(ctx, in.Ballot)
	if err != nil {
		return domain.VerifyResponse{}, toPerr(err)
	}
	out := run.Check(in.BallotID)

	s.remember(ctx, out)

	resp := domain.VerifyResponse{Outcome: out}
	if !out.BallotIDMatches && !in.IncludeUnverified {
		resp.Outcome.Contests = nil
		resp.Withheld = true
	}
	if in.Lang != "" && s.renderer != nil {
		resp.Lang = render.Match(in.Lang)
		for _, c := range resp.Outcome.Contests {
			if len(c.Diagnostics) == 0 {
				continue
			}
			if resp.Messages == nil {
				resp.Messages = make(map[string][]string)
			}
			resp.Messages[c.ContestID] = s.renderer.RenderAll(resp.Lang, c)
		}
	}
	return resp, nil
}

// VerifyBatch runs every item concurrently. Item failures are reported per
// item; only a cancelled context fails the whole batch
func (s *Svc) VerifyBatch(ctx context.Context, in domain.BatchRequest) (domain.BatchResponse, error) {
	if len(in.Items) > s.batchLimit {
		return domain.BatchResponse{}, perr.WithField(
			perr.Newf(perr.ErrorCodeValidation, "batch holds %d items, limit is %d", len(in.Items), s.batchLimit),
			"items",
		)
	}

	items := make([]domain.BatchItem, len(in.Items))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, req := range in.Items {
		g.Go(func() error {
			items[i].Index = i
			resp, err := s.Verify(gctx, req)
			if err != nil {
				w := perr.WireFrom(err)
				items[i].Error = &w
				return ctx.Err()
			}
			items[i].Result = &resp
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return domain.BatchResponse{}, err
	}

	out := domain.BatchResponse{Items: items}
	for _, it := range items {
		switch {
		case it.Error != nil:
			out.Failed++
		case it.Result.Outcome.BallotIDMatches:
			out.Matched++
		default:
			out.Mismatched++
		}
	}
	return out, nil
}

// Sample returns the built-in sample ballot and the id it verifies against
func (s *Svc) Sample(ctx context.Context) (domain.SampleResponse, error) {
	if err := ctx.Err(); err != nil {
		return domain.SampleResponse{}, perr.Wrap(err, perr.ErrorCodeUnavailable, "sample")
	}
	s.sampleOnce.Do(func() {
		raw, id := verify.SampleArtifact()
		s.sample = domain.SampleResponse{Ballot: raw, BallotID: id}
	})
	return s.sample, nil
}

// Spoiled reports whether ballotHash was ever decoded by this service
func (s *Svc) Spoiled(ctx context.Context, ballotHash string) (domain.SpoiledResponse, error) {
	ballotHash = strings.TrimSpace(ballotHash)
	if ballotHash == "" {
		return domain.SpoiledResponse{}, perr.WithField(perr.InvalidArgf("ballot hash is required"), "hash")
	}
	rec, ok, err := s.ledger.Lookup(ctx, ballotHash)
	if err != nil {
		if _, coded := perr.As(err); coded {
			return domain.SpoiledResponse{}, err
		}
		return domain.SpoiledResponse{}, perr.Wrap(err, perr.ErrorCodeDB, "spoiled ledger lookup")
	}
	if !ok {
		return domain.SpoiledResponse{BallotHash: ballotHash}, nil
	}
	first, last := rec.FirstSeen, rec.LastSeen
	return domain.SpoiledResponse{
		BallotHash: rec.BallotHash,
		Spoiled:    true,
		ElectionID: rec.ElectionID,
		FirstSeen:  &first,
		LastSeen:   &last,
		Count:      rec.AuditCount,
	}, nil
}

// remember records a decoded ballot as spoiled and emits its event
func (s *Svc) remember(ctx context.Context, out verify.Outcome) {
	log := s.log.With().
		Str("run_id", out.RunID).
		Str("election_id", out.ElectionID).
		Str("ballot_hash", out.PrimaryHash).
		Logger()

	for _, h := range ledgerKeys(out) {
		if err := s.ledger.Record(ctx, h, out.ElectionID, out.VerifiedAt); err != nil {
			s.metrics.IncLedgerError()
			log.Warn().Err(err).Str("key", h).Msg("spoiled ledger write failed")
		}
	}

	ev := domain.Event{
		EventID:     uuid.NewString(),
		At:          out.VerifiedAt,
		ElectionID:  out.ElectionID,
		BallotHash:  out.PrimaryHash,
		Kind:        string(out.Kind),
		IDMatches:   out.BallotIDMatches,
		Signature:   out.Signature.String(),
		Contests:    len(out.Contests),
		Diagnostics: out.Diagnostics(),
	}
	if err := s.events.Emit(ctx, ev); err != nil {
		log.Warn().Err(err).Msg("verification event dropped")
	}
}

// ledgerKeys are the ids a decoded ballot is recorded under. They never
// depend on the id that was claimed
func ledgerKeys(out verify.Outcome) []string {
	keys := make([]string, 0, 2)
	if out.PrimaryHash != "" {
		keys = append(keys, out.PrimaryHash)
	}
	if out.LegacyHash != "" && out.LegacyHash != out.PrimaryHash {
		keys = append(keys, out.LegacyHash)
	}
	return keys
}

// toPerr maps engine failures onto transport error codes
func toPerr(err error) error {
	var ee *verify.EngineError
	if !errors.As(err, &ee) {
		return perr.Wrap(err, perr.ErrorCodeUnknown, "verification failed")
	}
	if verify.IsCanceled(ee) {
		return perr.Wrap(ee, perr.ErrorCodeUnavailable, "verification canceled")
	}
	switch ee.Stage {
	case verify.StageParse:
		return perr.Wrap(ee, perr.ErrorCodeValidation, "ballot cannot be parsed")
	case verify.StageDecode:
		return perr.Wrap(ee, perr.ErrorCodeInvalidArgument, "ballot cannot be decoded")
	default:
		return perr.Wrap(ee, perr.ErrorCodeUnknown, "verification failed")
	}
}

type nopMetrics struct{}

func (nopMetrics) IncLedgerError() {}
