// Package reference is a deterministic primitives implementation for the
// audit-reveal ballot format: every auditable ballot carries the key its
// choices were sealed with, so anyone holding the artifact can open it.
//
// Wire layout of one contest plaintext:
//
//	[explicit flag 0|1][rank byte per candidate: 0 none, k>=1 rank k-1]
//	[NUL terminated write-in run per write-in candidate][zero padding]
//
// A multi-contest plaintext repeats [uint16 contest index][uint16 length][contest plaintext].
//
// A ciphertext is [SHA-256 commitment to the audit key][ChaCha20-Poly1305 box],
// so the Ballot ID, which covers the ciphertext, pins a single audit key.
package reference

import (
	"context"
	"fmt"

	"ballotaudit/internal/core/election"
	"ballotaudit/internal/core/primitives"
)

// MaxWriteInBytes bounds one write-in run, terminator excluded
const MaxWriteInBytes = 160

// Adapter implements primitives.Primitives
type Adapter struct{}

var _ primitives.Primitives = Adapter{}

// New returns the reference adapter
func New() Adapter { return Adapter{} }

// DecryptContestChoices opens and interprets one contest ciphertext
func (Adapter) DecryptContestChoices(ctx context.Context, cfg *election.Config, c primitives.ContestCiphertext) (primitives.RawContestChoices, error) {
	if err := ctx.Err(); err != nil {
		return primitives.RawContestChoices{}, err
	}
	ct, ok := cfg.Contest(c.ContestID)
	if !ok {
		return primitives.RawContestChoices{}, fmt.Errorf("contest %q: %w", c.ContestID, primitives.ErrContestNotFound)
	}
	pt, err := open(cfg.ElectionID, []string{c.ContestID}, c.AuditKey, c.Ciphertext, maxContestPlaintext(ct))
	if err != nil {
		return primitives.RawContestChoices{}, fmt.Errorf("contest %q: %w", c.ContestID, err)
	}
	return decodeContest(ct, pt)
}

// DecryptMultiContestChoices opens the shared ciphertext and splits it per contest
func (Adapter) DecryptMultiContestChoices(ctx context.Context, cfg *election.Config, m primitives.MultiCiphertext) ([]primitives.RawContestChoices, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	limit := 0
	for _, id := range m.ContestIDs {
		ct, ok := cfg.Contest(id)
		if !ok {
			return nil, fmt.Errorf("contest %q: %w", id, primitives.ErrContestNotFound)
		}
		limit += multiHeader + maxContestPlaintext(ct)
	}
	pt, err := open(cfg.ElectionID, m.ContestIDs, m.AuditKey, m.Ciphertext, limit)
	if err != nil {
		return nil, err
	}
	return decodeMulti(cfg, m.ContestIDs, pt)
}
