package verify

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ballotaudit/internal/core/ballot"
	"ballotaudit/internal/core/ballotid"
	"ballotaudit/internal/core/plaintext"
	"ballotaudit/internal/core/signature"
)

// Outcome is the result of checking a prepared ballot against a claimed id.
// When BallotIDMatches is false the contests must be treated as unverified
// and not shown to the voter as their selections
type Outcome struct {
	RunID           string              `json:"run_id"`
	Kind            ballot.Kind         `json:"kind"`
	ElectionID      string              `json:"election_id"`
	BallotHash      string              `json:"ballot_hash"`
	HashScheme      ballotid.Scheme     `json:"hash_scheme"`
	// PrimaryHash and LegacyHash are every id the ballot is known by,
	// whichever one the claim matched. LegacyHash is empty for multi ballots
	PrimaryHash     string              `json:"primary_hash"`
	LegacyHash      string              `json:"legacy_hash,omitempty"`
	BallotIDMatches bool                `json:"ballot_id_matches"`
	Signature       signature.Status    `json:"signature"`
	Contests        []plaintext.Contest `json:"contests"`
	// Spoiled is always true: a decoded ballot cannot be cast
	Spoiled    bool      `json:"spoiled"`
	VerifiedAt time.Time `json:"verified_at"`
}

// Diagnostics counts the diagnostics over every contest
func (o Outcome) Diagnostics() int {
	n := 0
	for _, c := range o.Contests {
		n += len(c.Diagnostics)
	}
	return n
}

// Stage names the pipeline step an EngineError came from
type Stage string

const (
	StageParse     Stage = "parse"
	StageHash      Stage = "hash"
	StageSignature Stage = "signature"
	StageDecode    Stage = "decode"
)

// EngineError aborts a verification. Err is a *ballot.ParseError, a
// *decoder.DecodeError, a hashing failure or a context error
type EngineError struct {
	Stage Stage
	Err   error
}

func (e *EngineError) Error() string { return fmt.Sprintf("verify: %s: %v", e.Stage, e.Err) }

func (e *EngineError) Unwrap() error { return e.Err }

// IsCanceled reports whether err stopped a verification through its context
func IsCanceled(err error) bool {
	var ee *EngineError
	if !errors.As(err, &ee) {
		return false
	}
	return errors.Is(ee.Err, context.Canceled) || errors.Is(ee.Err, context.DeadlineExceeded)
}
