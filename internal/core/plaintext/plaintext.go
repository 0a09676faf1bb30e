// Package plaintext holds the decoded, contest-level view of a ballot and
// the typed diagnostics attached to it.
//
// Decoded ballots are spoiled: a ballot whose choices were revealed for an
// audit must never be cast. Nothing here models a voting session, so the
// rule is enforced by collaborators, not by these types
package plaintext

import "sort"

// NotSelected is the rank of a candidate the voter did not choose
const NotSelected = -1

// Choice is the decoded state of one candidate
type Choice struct {
	CandidateID string `json:"candidate_id"`
	// Selected is -1 when not chosen, 0 for a plain selection or first
	// preference, N for the (N+1)th preference
	Selected    int    `json:"selected"`
	WriteInText string `json:"write_in_text,omitempty"`
}

// IsSelected reports whether the voter chose the candidate
func (c Choice) IsSelected() bool { return c.Selected >= 0 }

// Contest is the decoded state of one contest
type Contest struct {
	ContestID         string       `json:"contest_id"`
	Choices           []Choice     `json:"choices"`
	IsExplicitInvalid bool         `json:"is_explicit_invalid"`
	IsBlank           bool         `json:"is_blank"`
	Diagnostics       []Diagnostic `json:"invalid_errors"`
}

// IsBlankFor is the single definition of a blank contest
func IsBlankFor(choices []Choice, explicitInvalid bool) bool {
	if explicitInvalid {
		return false
	}
	for _, c := range choices {
		if c.IsSelected() {
			return false
		}
	}
	return true
}

// NumSelected counts chosen candidates
func (c Contest) NumSelected() int {
	n := 0
	for _, ch := range c.Choices {
		if ch.IsSelected() {
			n++
		}
	}
	return n
}

// SelectedIDs returns the chosen candidate ids, sorted
func (c Contest) SelectedIDs() []string {
	var out []string
	for _, ch := range c.Choices {
		if ch.IsSelected() {
			out = append(out, ch.CandidateID)
		}
	}
	sort.Strings(out)
	return out
}

// Choice returns the decoded choice of candidateID
func (c Contest) Choice(candidateID string) (Choice, bool) {
	for _, ch := range c.Choices {
		if ch.CandidateID == candidateID {
			return ch, true
		}
	}
	return Choice{}, false
}

// HasDiagnostic reports whether any diagnostic of kind k is attached
func (c Contest) HasDiagnostic(k Kind) bool {
	for _, d := range c.Diagnostics {
		if d.Kind == k {
			return true
		}
	}
	return false
}
