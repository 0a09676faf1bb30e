package election

import (
	"errors"
	"strings"
	"testing"
)

func validConfig() *Config {
	return &Config{
		ID:         "style-1",
		ElectionID: "election-1",
		Contests: []Contest{
			{
				ID:                "mayor",
				Name:              I18nText{"en": "Mayor", "es": "Alcalde"},
				MinVotes:          0,
				MaxVotes:          1,
				CountingAlgorithm: CountingPlurality,
				Candidates: []Candidate{
					{ID: "alice"},
					{ID: "bob"},
					{ID: "wi", IsWriteIn: true},
				},
				Presentation: ContestPresentation{AllowWriteIns: true, InvalidVotePolicy: InvalidVoteAllowed},
			},
			{
				ID:                "council",
				MinVotes:          1,
				MaxVotes:          3,
				CountingAlgorithm: CountingBorda,
				Candidates:        []Candidate{{ID: "c1"}, {ID: "c2"}, {ID: "c3"}},
			},
		},
	}
}

func TestValidate_OK(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("Validate() = %v, want nil", err)
	}
}

func TestValidate_Table(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantSub string
	}{
		{
			name:    "missing election id",
			mutate:  func(c *Config) { c.ElectionID = "" },
			wantSub: "election_id",
		},
		{
			name:    "no contests",
			mutate:  func(c *Config) { c.Contests = nil },
			wantSub: "contests",
		},
		{
			name:    "max below min",
			mutate:  func(c *Config) { c.Contests[1].MinVotes = 3; c.Contests[1].MaxVotes = 2 },
			wantSub: "max_votes",
		},
		{
			name:    "max above candidates",
			mutate:  func(c *Config) { c.Contests[1].MaxVotes = 4 },
			wantSub: "exceeds number of candidates",
		},
		{
			name:    "duplicate contest",
			mutate:  func(c *Config) { c.Contests[1].ID = "mayor" },
			wantSub: "duplicate contest",
		},
		{
			name:    "duplicate candidate",
			mutate:  func(c *Config) { c.Contests[1].Candidates[2].ID = "c1" },
			wantSub: "duplicate candidate",
		},
		{
			name:    "write-in without policy",
			mutate:  func(c *Config) { c.Contests[0].Presentation.AllowWriteIns = false },
			wantSub: "write-in candidate",
		},
		{
			name: "two explicit invalid candidates",
			mutate: func(c *Config) {
				c.Contests[1].Candidates[0].IsExplicitInvalid = true
				c.Contests[1].Candidates[1].IsExplicitInvalid = true
			},
			wantSub: "more than one explicit invalid",
		},
		{
			name:    "unknown counting algorithm",
			mutate:  func(c *Config) { c.Contests[0].CountingAlgorithm = "dice" },
			wantSub: "counting_algorithm",
		},
		{
			name:    "bad language key",
			mutate:  func(c *Config) { c.Contests[0].Name["not a tag!"] = "x" },
			wantSub: "unknown language",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			c := validConfig()
			tc.mutate(c)
			err := c.Validate()
			if err == nil {
				t.Fatalf("expected error")
			}
			if !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("error %v is not ErrInvalidConfig", err)
			}
			if !strings.Contains(err.Error(), tc.wantSub) {
				t.Fatalf("error %q does not mention %q", err.Error(), tc.wantSub)
			}
		})
	}
}

func TestParse(t *testing.T) {
	raw := []byte(`{"id":"s","election_id":"e","contests":[{"id":"c","min_votes":0,"max_votes":1,
		"counting_algorithm":"plurality-at-large","candidates":[{"id":"a"},{"id":"b"}]}]}`)
	c, err := Parse(raw)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	ct, ok := c.Contest("c")
	if !ok || len(ct.Candidates) != 2 {
		t.Fatalf("contest not parsed: %+v", c)
	}
	if c.ContestIndex("missing") != -1 {
		t.Fatalf("ContestIndex of unknown id should be -1")
	}

	if _, err := Parse([]byte(`{"id":`)); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestContestHelpers(t *testing.T) {
	c := validConfig()
	mayor := &c.Contests[0]
	council := &c.Contests[1]

	if mayor.IsPreferential() {
		t.Fatalf("plurality contest reported preferential")
	}
	if !council.IsPreferential() {
		t.Fatalf("borda contest should be preferential")
	}
	council.VotingType = VotingNonPreferential
	if council.IsPreferential() {
		t.Fatalf("explicit voting type should win over algorithm")
	}

	if w := mayor.WriteIns(); len(w) != 1 || w[0].ID != "wi" {
		t.Fatalf("WriteIns() = %+v", w)
	}
	if _, ok := mayor.Find("bob"); !ok {
		t.Fatalf("Find(bob) missed")
	}
	if !mayor.ExplicitInvalidAllowed() {
		t.Fatalf("allowed policy reported as not allowed")
	}
	mayor.Presentation.InvalidVotePolicy = InvalidVoteNotAllowed
	if mayor.ExplicitInvalidAllowed() {
		t.Fatalf("not-allowed policy reported as allowed")
	}
}

func TestI18nText(t *testing.T) {
	txt := I18nText{"en": "Mayor", "es": "Alcalde", "fr": "Maire"}
	cases := map[string]string{
		"es":    "Alcalde",
		"es-MX": "Alcalde",
		"de":    "Mayor",
		"":      "Mayor",
	}
	for lang, want := range cases {
		if got := txt.Text(lang); got != want {
			t.Fatalf("Text(%q) = %q, want %q", lang, got, want)
		}
	}
	if got := (I18nText{"fr": "Maire", "de": "Bürgermeister"}).Text("it"); got != "Bürgermeister" {
		t.Fatalf("fallback to first key = %q", got)
	}
	if got := (I18nText{}).Text("en"); got != "" {
		t.Fatalf("empty text = %q", got)
	}
}
