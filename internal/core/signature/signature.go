// Package signature classifies the optional voter signature of a ballot
package signature

import (
	"context"
	"encoding/json"
	"fmt"

	"ballotaudit/internal/core/ballot"
	"ballotaudit/internal/core/primitives"
	"ballotaudit/internal/platform/logger"
)

// Status is the tri-state result of a signature check. It is never an error
type Status int

const (
	Absent Status = iota
	Valid
	Invalid
)

func (s Status) String() string {
	switch s {
	case Absent:
		return "absent"
	case Valid:
		return "valid"
	case Invalid:
		return "invalid"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// MarshalJSON encodes the status as its name
func (s Status) MarshalJSON() ([]byte, error) { return json.Marshal(s.String()) }

// UnmarshalJSON accepts the names produced by MarshalJSON
func (s *Status) UnmarshalJSON(b []byte) error {
	var name string
	if err := json.Unmarshal(b, &name); err != nil {
		return err
	}
	switch name {
	case "absent":
		*s = Absent
	case "valid":
		*s = Valid
	case "invalid":
		*s = Invalid
	default:
		return fmt.Errorf("signature: unknown status %q", name)
	}
	return nil
}

// Verifier checks voter signatures through the primitives port
type Verifier struct {
	P primitives.Primitives
	// Log receives adapter failures at debug; nil uses the root logger
	Log *logger.Logger
}

// Verify returns Absent unless both signature and key are present. Any
// adapter failure, including a malformed key, is Invalid
func (v Verifier) Verify(ctx context.Context, hash, electionID string, b ballot.AuditableBallot) Status {
	sig, pk := b.SignatureMaterial()
	if sig == "" || pk == "" {
		return Absent
	}

	var err error
	switch b.(type) {
	case *ballot.SingleContestBallot:
		err = v.P.VerifyBallotSignature(ctx, hash, electionID, sig, pk)
	case *ballot.MultiContestBallot:
		err = v.P.VerifyMultiBallotSignature(ctx, hash, electionID, sig, pk)
	default:
		err = fmt.Errorf("unsupported ballot %T", b)
	}
	if err != nil {
		v.log().Debug().Err(err).Str("ballot_hash", hash).Str("kind", string(b.Kind())).Msg("voter signature rejected")
		return Invalid
	}
	return Valid
}

func (v Verifier) log() *logger.Logger {
	if v.Log != nil {
		return v.Log
	}
	return logger.Named("signature")
}
