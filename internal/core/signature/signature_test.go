package signature

import (
	"context"
	"crypto/ed25519"
	"crypto/sha256"
	"encoding/json"
	"testing"

	"ballotaudit/internal/adapters/crypto/reference"
	"ballotaudit/internal/core/ballot"
	"ballotaudit/internal/core/election"
	"ballotaudit/internal/core/primitives"
)

func signer() ed25519.PrivateKey {
	seed := sha256.Sum256([]byte("signature-test"))
	return ed25519.NewKeyFromSeed(seed[:])
}

func cfg() *election.Config {
	return &election.Config{ID: "style-1", ElectionID: "election-1"}
}

func TestVerify(t *testing.T) {
	sig, pk := reference.SignBallot(signer(), "hash-1", "election-1")
	msig, mpk := reference.SignMultiBallot(signer(), "hash-1", "election-1")

	tests := []struct {
		name string
		b    ballot.AuditableBallot
		hash string
		want Status
	}{
		{"no material", &ballot.SingleContestBallot{ElectionConfig: cfg()}, "hash-1", Absent},
		{"key only", &ballot.SingleContestBallot{ElectionConfig: cfg(), VoterSigningPK: pk}, "hash-1", Absent},
		{"signature only", &ballot.SingleContestBallot{ElectionConfig: cfg(), VoterBallotSignature: sig}, "hash-1", Absent},
		{"valid single", &ballot.SingleContestBallot{ElectionConfig: cfg(), VoterSigningPK: pk, VoterBallotSignature: sig}, "hash-1", Valid},
		{"wrong hash", &ballot.SingleContestBallot{ElectionConfig: cfg(), VoterSigningPK: pk, VoterBallotSignature: sig}, "hash-2", Invalid},
		{"garbage key", &ballot.SingleContestBallot{ElectionConfig: cfg(), VoterSigningPK: "not a key", VoterBallotSignature: sig}, "hash-1", Invalid},
		{"valid multi", &ballot.MultiContestBallot{ElectionConfig: cfg(), VoterSigningPK: mpk, VoterBallotSignature: msig}, "hash-1", Valid},
		{"single signature on multi", &ballot.MultiContestBallot{ElectionConfig: cfg(), VoterSigningPK: pk, VoterBallotSignature: sig}, "hash-1", Invalid},
		{"multi key only", &ballot.MultiContestBallot{ElectionConfig: cfg(), VoterSigningPK: mpk}, "hash-1", Absent},
	}
	v := Verifier{P: reference.New()}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := v.Verify(context.Background(), tc.hash, "election-1", tc.b); got != tc.want {
				t.Fatalf("Verify = %s, want %s", got, tc.want)
			}
		})
	}
}

type cancelled struct{ primitives.Primitives }

func (cancelled) VerifyBallotSignature(ctx context.Context, _, _, _, _ string) error {
	return context.Canceled
}

func TestVerify_FailsClosed(t *testing.T) {
	b := &ballot.SingleContestBallot{ElectionConfig: cfg(), VoterSigningPK: "pk", VoterBallotSignature: "sig"}
	if got := (Verifier{P: cancelled{}}).Verify(context.Background(), "h", "e", b); got != Invalid {
		t.Fatalf("Verify = %s, want invalid", got)
	}
}

func TestStatusJSON(t *testing.T) {
	for _, s := range []Status{Absent, Valid, Invalid} {
		raw, err := json.Marshal(s)
		if err != nil {
			t.Fatal(err)
		}
		var back Status
		if err := json.Unmarshal(raw, &back); err != nil || back != s {
			t.Fatalf("round trip %s -> %s -> %s (%v)", s, raw, back, err)
		}
	}
	var s Status
	if err := json.Unmarshal([]byte(`"maybe"`), &s); err == nil {
		t.Fatalf("unknown status accepted")
	}
}
