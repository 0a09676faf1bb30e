// Package ballotid computes the canonical Ballot ID of an auditable ballot and
// compares it with the identifier a voter typed in. Comparison is byte exact:
// no trimming and no case folding
package ballotid

import (
	"context"
	"fmt"

	"ballotaudit/internal/core/ballot"
	"ballotaudit/internal/core/primitives"
)

// Scheme names the hash function that produced a Ballot ID
type Scheme string

const (
	SchemePrimary Scheme = "primary"
	SchemeLegacy  Scheme = "legacy"
	SchemeMulti   Scheme = "multi"
)

// Hash holds every identifier a ballot can legitimately be known by
type Hash struct {
	Primary string
	// Legacy is empty for multi-contest ballots
	Legacy string
	// Scheme is the scheme of Primary
	Scheme Scheme
}

// Match checks claimed against the primary hash, then the legacy one
func (h Hash) Match(claimed string) (Scheme, bool) {
	if Matches(h.Primary, claimed) {
		return h.Scheme, true
	}
	if h.Legacy != "" && Matches(h.Legacy, claimed) {
		return SchemeLegacy, true
	}
	return "", false
}

// Matches is the Ballot ID comparison
func Matches(resolved, claimed string) bool {
	return resolved != "" && resolved == claimed
}

// Resolver hashes ballots through the primitives port
type Resolver struct {
	P primitives.Primitives
}

// Resolve computes the Ballot IDs of b
func (r Resolver) Resolve(ctx context.Context, b ballot.AuditableBallot) (Hash, error) {
	switch v := b.(type) {
	case *ballot.SingleContestBallot:
		hb := Project(v)
		primary, err := r.P.HashBallot(ctx, hb)
		if err != nil {
			return Hash{}, fmt.Errorf("ballotid: primary hash: %w", err)
		}
		legacy, err := r.P.HashBallotLegacy(ctx, hb)
		if err != nil {
			return Hash{}, fmt.Errorf("ballotid: legacy hash: %w", err)
		}
		return Hash{Primary: primary, Legacy: legacy, Scheme: SchemePrimary}, nil
	case *ballot.MultiContestBallot:
		h, err := r.P.HashMultiBallot(ctx, ProjectMulti(v))
		if err != nil {
			return Hash{}, fmt.Errorf("ballotid: multi hash: %w", err)
		}
		return Hash{Primary: h, Scheme: SchemeMulti}, nil
	default:
		return Hash{}, fmt.Errorf("ballotid: unsupported ballot %T", b)
	}
}

// Project strips audit keys and presentation data from a single-contest ballot
func Project(b *ballot.SingleContestBallot) primitives.HashableBallot {
	hb := primitives.HashableBallot{
		Version:   b.Version,
		IssueDate: b.IssueDate,
		Contests:  make([]primitives.HashableContest, len(b.Contests)),
	}
	if cfg := b.Config(); cfg != nil {
		hb.ElectionID = cfg.ElectionID
		hb.ConfigID = cfg.ID
	}
	for i, c := range b.Contests {
		hb.Contests[i] = primitives.HashableContest{
			ContestID:  c.ContestID,
			Ciphertext: c.Ciphertext,
			Proof:      c.Proof,
		}
	}
	return hb
}

// ProjectMulti is Project for multi-contest ballots
func ProjectMulti(b *ballot.MultiContestBallot) primitives.HashableMultiBallot {
	hb := primitives.HashableMultiBallot{
		Version:    b.Version,
		IssueDate:  b.IssueDate,
		ContestIDs: append([]string(nil), b.Contests.ContestIDs...),
		Ciphertext: b.Contests.Ciphertext,
		Proof:      b.Contests.Proof,
	}
	if cfg := b.Config(); cfg != nil {
		hb.ElectionID = cfg.ElectionID
		hb.ConfigID = cfg.ID
	}
	return hb
}
