// Package primitives is the narrow port the engine uses to reach
// cryptography: ballot decryption, content hashing, signature checks and
// write-in decoding. Implementations must be pure functions of their inputs
// and safe for concurrent use
package primitives

import (
	"context"

	"ballotaudit/internal/core/election"
)

// Primitives is the crypto collaborator of the verification engine
type Primitives interface {
	// DecryptContestChoices interprets one contest ciphertext of a single-contest ballot
	DecryptContestChoices(ctx context.Context, cfg *election.Config, c ContestCiphertext) (RawContestChoices, error)
	// DecryptMultiContestChoices interprets the shared ciphertext of a multi-contest ballot
	DecryptMultiContestChoices(ctx context.Context, cfg *election.Config, m MultiCiphertext) ([]RawContestChoices, error)

	HashBallot(ctx context.Context, b HashableBallot) (string, error)
	// HashBallotLegacy reproduces Ballot IDs issued before the current scheme
	HashBallotLegacy(ctx context.Context, b HashableBallot) (string, error)
	HashMultiBallot(ctx context.Context, b HashableMultiBallot) (string, error)

	VerifyBallotSignature(ctx context.Context, hash, electionID, signature, publicKey string) error
	VerifyMultiBallotSignature(ctx context.Context, hash, electionID, signature, publicKey string) error

	// DecodeWriteInText turns a raw write-in run into text; failures are *WriteInError
	DecodeWriteInText(ctx context.Context, raw []byte) (string, error)
}

// ContestCiphertext is the encrypted choice of one contest. Field contents
// are owned by the adapter; the engine only carries them
type ContestCiphertext struct {
	ContestID  string `json:"contest_id"`
	Ciphertext string `json:"ciphertext"`
	// AuditKey is the revealed encryption randomness that makes the ballot auditable
	AuditKey string `json:"audit_key"`
	Proof    string `json:"proof,omitempty"`
}

// MultiCiphertext is one ciphertext covering several contests
type MultiCiphertext struct {
	ContestIDs []string `json:"contest_ids"`
	Ciphertext string   `json:"ciphertext"`
	AuditKey   string   `json:"audit_key"`
	Proof      string   `json:"proof,omitempty"`
}

// RawContestChoices is the adapter's interpretation of a contest plaintext
// before any semantic validation
type RawContestChoices struct {
	ContestID       string
	ExplicitInvalid bool
	// Ranks has one entry per candidate in ballot style order; -1 is unselected
	Ranks []int
	// WriteIns holds the raw write-in run per write-in candidate id. A nil run
	// means the plaintext ended before the candidate's slot
	WriteIns map[string][]byte
}

// HashableBallot is the projection of a single-contest ballot that is hashed.
// Audit keys and presentation data are stripped so the hash equals the one
// computed when the ballot was cast
type HashableBallot struct {
	Version    int               `json:"version"`
	IssueDate  string            `json:"issue_date"`
	ElectionID string            `json:"election_id"`
	ConfigID   string            `json:"config_id"`
	Contests   []HashableContest `json:"contests"`
}

// HashableContest is the hashed part of a contest ciphertext
type HashableContest struct {
	ContestID  string `json:"contest_id"`
	Ciphertext string `json:"ciphertext"`
	Proof      string `json:"proof,omitempty"`
}

// HashableMultiBallot is the projection of a multi-contest ballot that is hashed
type HashableMultiBallot struct {
	Version    int      `json:"version"`
	IssueDate  string   `json:"issue_date"`
	ElectionID string   `json:"election_id"`
	ConfigID   string   `json:"config_id"`
	ContestIDs []string `json:"contest_ids"`
	Ciphertext string   `json:"ciphertext"`
	Proof      string   `json:"proof,omitempty"`
}
