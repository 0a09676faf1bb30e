// Package election models the public ballot style of an election: its
// contests, candidates and the voting rules each contest is counted under.
// Values are immutable once parsed; nothing in the engine mutates them
package election

import (
	"encoding/json"
	"fmt"
)

// Config is a ballot style: the ordered contests a voter was presented with
type Config struct {
	ID          string    `json:"id" validate:"required,max=128"`
	ElectionID  string    `json:"election_id" validate:"required,max=128"`
	TenantID    string    `json:"tenant_id,omitempty" validate:"omitempty,max=128"`
	Description I18nText  `json:"description,omitempty"`
	Contests    []Contest `json:"contests" validate:"required,min=1,dive"`
}

// Contest is one question on the ballot
type Contest struct {
	ID                string              `json:"id" validate:"required,max=128"`
	Name              I18nText            `json:"name,omitempty"`
	Description       I18nText            `json:"description,omitempty"`
	MinVotes          int                 `json:"min_votes" validate:"gte=0"`
	MaxVotes          int                 `json:"max_votes" validate:"gte=1,gtefield=MinVotes"`
	VotingType        VotingType          `json:"voting_type,omitempty" validate:"omitempty,oneof=non-preferential preferential"`
	CountingAlgorithm CountingAlgorithm   `json:"counting_algorithm" validate:"required,oneof=plurality-at-large instant-runoff borda borda-nauru cumulative other"`
	Candidates        []Candidate         `json:"candidates" validate:"required,min=1,max=250,dive"`
	Presentation      ContestPresentation `json:"presentation"`
}

// Candidate is one selectable option of a contest
type Candidate struct {
	ID                string   `json:"id" validate:"required,max=128"`
	Name              I18nText `json:"name,omitempty"`
	Description       I18nText `json:"description,omitempty"`
	IsWriteIn         bool     `json:"is_write_in,omitempty"`
	IsExplicitInvalid bool     `json:"is_explicit_invalid,omitempty"`
	IsBlank           bool     `json:"is_blank,omitempty"`
	ImageURL          string   `json:"image_url,omitempty"` // opaque asset reference
	SortOrder         int      `json:"sort_order,omitempty"`
}

// Parse decodes and validates a ballot style document
func Parse(raw []byte) (*Config, error) {
	var c Config
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("election: decode config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Contest returns the contest with the given id
func (c *Config) Contest(id string) (*Contest, bool) {
	i := c.ContestIndex(id)
	if i < 0 {
		return nil, false
	}
	return &c.Contests[i], true
}

// ContestIndex returns the position of contest id in ballot order or -1
func (c *Config) ContestIndex(id string) int {
	for i := range c.Contests {
		if c.Contests[i].ID == id {
			return i
		}
	}
	return -1
}

// Find returns the candidate with the given id
func (ct *Contest) Find(candidateID string) (*Candidate, bool) {
	for i := range ct.Candidates {
		if ct.Candidates[i].ID == candidateID {
			return &ct.Candidates[i], true
		}
	}
	return nil, false
}

// WriteIns returns the write-in candidates in ballot order
func (ct *Contest) WriteIns() []Candidate {
	var out []Candidate
	for _, cand := range ct.Candidates {
		if cand.IsWriteIn {
			out = append(out, cand)
		}
	}
	return out
}

// IsPreferential reports whether selections carry a rank
func (ct *Contest) IsPreferential() bool {
	if ct.VotingType != "" {
		return ct.VotingType == VotingPreferential
	}
	return ct.CountingAlgorithm.Preferential()
}

// ExplicitInvalidAllowed reports whether voters may mark the contest invalid on purpose
func (ct *Contest) ExplicitInvalidAllowed() bool {
	return ct.Presentation.InvalidVotePolicy != InvalidVoteNotAllowed
}
