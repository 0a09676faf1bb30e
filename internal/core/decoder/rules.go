package decoder

import (
	"ballotaudit/internal/core/election"
	"ballotaudit/internal/core/plaintext"
)

// checkRules compares the selections of pc with the rules of ct
func checkRules(ct *election.Contest, pc plaintext.Contest) []plaintext.Diagnostic {
	var out []plaintext.Diagnostic
	n := pc.NumSelected()

	if n > ct.MaxVotes {
		out = append(out, plaintext.NewDiagnostic(plaintext.KindSelectedMax, map[string]any{
			plaintext.ParamMax:         ct.MaxVotes,
			plaintext.ParamNumSelected: n,
		}))
	}
	// an explicit invalid vote carries no selections on purpose
	if !pc.IsExplicitInvalid && n < ct.MinVotes {
		out = append(out, plaintext.NewDiagnostic(plaintext.KindSelectedMin, map[string]any{
			plaintext.ParamMin:         ct.MinVotes,
			plaintext.ParamNumSelected: n,
		}))
	}
	if pc.IsExplicitInvalid && !ct.ExplicitInvalidAllowed() {
		out = append(out, plaintext.NewDiagnostic(plaintext.KindExplicitNotAllowed, nil))
	}

	if ct.IsPreferential() {
		seen := make(map[int]bool, n)
		for _, ch := range pc.Choices {
			if !ch.IsSelected() {
				continue
			}
			if seen[ch.Selected] {
				out = append(out, plaintext.NewDiagnostic(plaintext.KindDuplicatedPosition, map[string]any{
					plaintext.ParamPosition: ch.Selected,
				}).ForCandidate(ch.CandidateID))
			}
			seen[ch.Selected] = true
			if ch.Selected >= ct.MaxVotes {
				out = append(out, plaintext.NewDiagnostic(plaintext.KindPositionOutOfRange, map[string]any{
					plaintext.ParamPosition: ch.Selected,
					plaintext.ParamMax:      ct.MaxVotes,
				}).ForCandidate(ch.CandidateID))
			}
		}
		return out
	}

	for _, ch := range pc.Choices {
		if ch.Selected > 0 {
			out = append(out, plaintext.NewDiagnostic(plaintext.KindPositionOutOfRange, map[string]any{
				plaintext.ParamPosition: ch.Selected,
				plaintext.ParamMax:      0,
			}).ForCandidate(ch.CandidateID))
		}
	}
	return out
}
