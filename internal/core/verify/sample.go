package verify

import (
	"context"
	"crypto/ed25519"
	"crypto/sha256"
	"encoding/json"
	"fmt"

	"ballotaudit/internal/adapters/crypto/reference"
	"ballotaudit/internal/core/ballot"
	"ballotaudit/internal/core/ballotid"
	"ballotaudit/internal/core/election"
	"ballotaudit/internal/core/plaintext"
)

const (
	sampleIssueDate = "2026-01-15"
	sampleKeySeed   = "ballotaudit sample ballot"
	sampleVoterSeed = "ballotaudit sample voter"
)

func sampleConfig() *election.Config {
	return &election.Config{
		ID:          "sample-style",
		ElectionID:  "sample-election",
		Description: election.I18nText{"en": "Sample election", "es": "Elección de ejemplo"},
		Contests: []election.Contest{
			{
				ID:                "mayor",
				Name:              election.I18nText{"en": "Mayor", "es": "Alcaldía"},
				MaxVotes:          1,
				CountingAlgorithm: election.CountingPlurality,
				Candidates: []election.Candidate{
					{ID: "alice", Name: election.I18nText{"en": "Alice Moreau"}},
					{ID: "bob", Name: election.I18nText{"en": "Bob Okafor"}},
					{ID: "carol", Name: election.I18nText{"en": "Carol Nguyen"}},
					{ID: "write-in", Name: election.I18nText{"en": "Write-in", "es": "Otro"}, IsWriteIn: true},
				},
				Presentation: election.ContestPresentation{
					AllowWriteIns:     true,
					InvalidVotePolicy: election.InvalidVoteAllowed,
					CandidatesOrder:   election.OrderCustom,
				},
			},
			{
				ID:                "budget",
				Name:              election.I18nText{"en": "Budget priorities", "es": "Prioridades del presupuesto"},
				MinVotes:          1,
				MaxVotes:          3,
				VotingType:        election.VotingPreferential,
				CountingAlgorithm: election.CountingInstantRunoff,
				Candidates: []election.Candidate{
					{ID: "parks", Name: election.I18nText{"en": "Parks"}},
					{ID: "transit", Name: election.I18nText{"en": "Transit"}},
					{ID: "libraries", Name: election.I18nText{"en": "Libraries"}},
				},
				Presentation: election.ContestPresentation{
					InvalidVotePolicy: election.InvalidVoteNotAllowed,
					ShowPoints:        true,
					Layout:            "ordered-list",
				},
			},
		},
	}
}

func sampleChoices() []plaintext.Contest {
	return []plaintext.Contest{
		{ContestID: "mayor", Choices: []plaintext.Choice{
			{CandidateID: "alice", Selected: plaintext.NotSelected},
			{CandidateID: "bob", Selected: 0},
			{CandidateID: "carol", Selected: plaintext.NotSelected},
			{CandidateID: "write-in", Selected: plaintext.NotSelected},
		}},
		{ContestID: "budget", Choices: []plaintext.Choice{
			{CandidateID: "parks", Selected: 1},
			{CandidateID: "transit", Selected: 0},
			{CandidateID: "libraries", Selected: plaintext.NotSelected},
		}},
	}
}

// GenerateSampleAuditableBallot returns a signed, self-consistent ballot for
// the reference adapter. It is deterministic and does no I/O
func GenerateSampleAuditableBallot() ballot.AuditableBallot {
	b, err := buildSample()
	if err != nil {
		panic(fmt.Sprintf("verify: sample ballot: %v", err))
	}
	return b
}

// SampleArtifact returns the sample ballot as JSON together with its Ballot ID
func SampleArtifact() ([]byte, string) {
	b := GenerateSampleAuditableBallot().(*ballot.SingleContestBallot)
	raw, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		panic(fmt.Sprintf("verify: sample artifact: %v", err))
	}
	return raw, b.BallotHash
}

func buildSample() (*ballot.SingleContestBallot, error) {
	cfg := sampleConfig()
	key := reference.AuditKeyFromSeed(sampleKeySeed)

	b := &ballot.SingleContestBallot{
		Version:        1,
		IssueDate:      sampleIssueDate,
		ElectionConfig: cfg,
	}
	for _, pc := range sampleChoices() {
		c, err := reference.SealContest(cfg, key, pc)
		if err != nil {
			return nil, err
		}
		b.Contests = append(b.Contests, c)
	}

	h, err := ballotid.Resolver{P: reference.New()}.Resolve(context.Background(), b)
	if err != nil {
		return nil, err
	}
	seed := sha256.Sum256([]byte(sampleVoterSeed))
	b.BallotHash = h.Primary
	b.VoterBallotSignature, b.VoterSigningPK = reference.SignBallot(ed25519.NewKeyFromSeed(seed[:]), h.Primary, cfg.ElectionID)
	return b, nil
}
