// Package ballot parses untrusted auditable ballot artifacts into one of the
// two ballot shapes the engine understands
package ballot

import (
	"ballotaudit/internal/core/election"
	"ballotaudit/internal/core/primitives"
)

// Kind discriminates the AuditableBallot variants
type Kind string

const (
	KindSingle Kind = "single"
	KindMulti  Kind = "multi"
)

// AuditableBallot is either *SingleContestBallot or *MultiContestBallot.
// Values are read-only once parsed
type AuditableBallot interface {
	Kind() Kind
	// Config returns the embedded ballot style snapshot
	Config() *election.Config
	// SignatureMaterial returns the optional voter signature and public key
	SignatureMaterial() (signature, publicKey string)

	sealed()
}

// SingleContestBallot carries one ciphertext per contest
type SingleContestBallot struct {
	Version              int                            `json:"version"`
	IssueDate            string                         `json:"issue_date"`
	ElectionConfig       *election.Config               `json:"config"`
	Contests             []primitives.ContestCiphertext `json:"contests"`
	BallotHash           string                         `json:"ballot_hash,omitempty"`
	VoterSigningPK       string                         `json:"voter_signing_pk,omitempty"`
	VoterBallotSignature string                         `json:"voter_ballot_signature,omitempty"`
}

// MultiContestBallot carries a single ciphertext spanning several contests
type MultiContestBallot struct {
	Version              int                        `json:"version"`
	IssueDate            string                     `json:"issue_date"`
	ElectionConfig       *election.Config           `json:"config"`
	Contests             primitives.MultiCiphertext `json:"contests"`
	BallotHash           string                     `json:"ballot_hash,omitempty"`
	VoterSigningPK       string                     `json:"voter_signing_pk,omitempty"`
	VoterBallotSignature string                     `json:"voter_ballot_signature,omitempty"`
}

func (*SingleContestBallot) Kind() Kind { return KindSingle }
func (b *SingleContestBallot) Config() *election.Config { return b.ElectionConfig }
func (*SingleContestBallot) sealed() {}
func (b *SingleContestBallot) SignatureMaterial() (string, string) {
	return b.VoterBallotSignature, b.VoterSigningPK
}

func (*MultiContestBallot) Kind() Kind { return KindMulti }
func (b *MultiContestBallot) Config() *election.Config { return b.ElectionConfig }
func (*MultiContestBallot) sealed() {}
func (b *MultiContestBallot) SignatureMaterial() (string, string) {
	return b.VoterBallotSignature, b.VoterSigningPK
}

// ContestIDs lists the contests present in b, in artifact order
func ContestIDs(b AuditableBallot) []string {
	switch v := b.(type) {
	case *SingleContestBallot:
		ids := make([]string, len(v.Contests))
		for i, c := range v.Contests {
			ids[i] = c.ContestID
		}
		return ids
	case *MultiContestBallot:
		return append([]string(nil), v.Contests.ContestIDs...)
	default:
		return nil
	}
}
