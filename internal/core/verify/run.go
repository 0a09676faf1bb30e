package verify

import (
	"time"

	"github.com/google/uuid"

	"ballotaudit/internal/core/ballot"
	"ballotaudit/internal/core/ballotid"
	"ballotaudit/internal/core/plaintext"
	"ballotaudit/internal/core/signature"
)

// State is the position of a run in the pipeline
type State int

const (
	StateParsed State = iota + 1
	StateHashResolved
	StateSignatureChecked
	StateDecoded
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateParsed:
		return "parsed"
	case StateHashResolved:
		return "hash_resolved"
	case StateSignatureChecked:
		return "signature_checked"
	case StateDecoded:
		return "decoded"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Run is a prepared verification: the ballot is parsed, hashed and decoded.
// A Run is not safe for concurrent Check calls
type Run struct {
	engine    *Engine
	id        uuid.UUID
	started   time.Time
	ballot    ballot.AuditableBallot
	hash      ballotid.Hash
	signature signature.Status
	contests  []plaintext.Contest
	state     State
	observed  bool
}

func newRun(e *Engine, b ballot.AuditableBallot, start time.Time) *Run {
	return &Run{engine: e, id: uuid.New(), started: start, ballot: b, state: StateParsed}
}

// ID identifies the run in logs and outcomes
func (r *Run) ID() uuid.UUID { return r.id }

// State reports how far the run got
func (r *Run) State() State { return r.state }

// Ballot returns the parsed ballot
func (r *Run) Ballot() ballot.AuditableBallot { return r.ballot }

// Hash returns every Ballot ID of the ballot
func (r *Run) Hash() ballotid.Hash { return r.hash }

// Check compares claimed with the resolved Ballot ID. Nothing is parsed,
// hashed or decoded again, so checking a corrected id is cheap
func (r *Run) Check(claimed string) Outcome {
	scheme, ok := r.hash.Match(claimed)
	hash := r.hash.Primary
	if !ok {
		scheme = r.hash.Scheme
	} else if scheme == ballotid.SchemeLegacy {
		hash = r.hash.Legacy
	}

	r.state = StateDone
	e := r.engine
	result := ResultMismatch
	if ok {
		result = ResultMatch
	}
	// metrics count runs, not checks: the first verdict and its duration
	if !r.observed {
		r.observed = true
		e.rec.ObserveVerification(r.ballot.Kind(), result, e.now().Sub(r.started))
	}
	e.log.Debug().
		Str("run_id", r.id.String()).
		Str("ballot_hash", hash).
		Str("scheme", string(scheme)).
		Bool("ballot_id_matches", ok).
		Stringer("state", r.state).
		Msg("ballot id checked")

	return Outcome{
		RunID:           r.id.String(),
		Kind:            r.ballot.Kind(),
		ElectionID:      electionID(r.ballot),
		BallotHash:      hash,
		HashScheme:      scheme,
		PrimaryHash:     r.hash.Primary,
		LegacyHash:      r.hash.Legacy,
		BallotIDMatches: ok,
		Signature:       r.signature,
		Contests:        cloneContests(r.contests),
		Spoiled:         true,
		VerifiedAt:      e.now().UTC(),
	}
}

func cloneContests(in []plaintext.Contest) []plaintext.Contest {
	out := make([]plaintext.Contest, len(in))
	for i, c := range in {
		c.Choices = append([]plaintext.Choice(nil), c.Choices...)
		c.Diagnostics = append([]plaintext.Diagnostic{}, c.Diagnostics...)
		out[i] = c
	}
	return out
}
