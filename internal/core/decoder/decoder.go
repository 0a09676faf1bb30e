// Package decoder turns ballot ciphertexts into decoded contests and checks
// each contest against its rules. Rule violations are reported as
// diagnostics on the contest; only structural failures abort the call
package decoder

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"ballotaudit/internal/core/ballot"
	"ballotaudit/internal/core/election"
	"ballotaudit/internal/core/plaintext"
	"ballotaudit/internal/core/primitives"
)

// Decoder decodes ballots through the primitives port
type Decoder struct {
	P primitives.Primitives
}

// Decode returns one decoded contest per contest present in b, in ballot
// style order. On error, including cancellation, no contests are returned
func (d Decoder) Decode(ctx context.Context, b ballot.AuditableBallot) ([]plaintext.Contest, error) {
	cfg := b.Config()
	if cfg == nil {
		return nil, &DecodeError{Kind: ContestNotFound, Err: errors.New("ballot has no election config")}
	}

	raws, err := d.decrypt(ctx, cfg, b)
	if err != nil {
		return nil, err
	}

	out := make([]plaintext.Contest, 0, len(raws))
	for _, raw := range raws {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		ct, ok := cfg.Contest(raw.ContestID)
		if !ok {
			return nil, &DecodeError{Kind: ContestNotFound, ContestID: raw.ContestID, Err: primitives.ErrContestNotFound}
		}
		pc, err := d.decodeContest(ctx, ct, raw)
		if err != nil {
			return nil, err
		}
		out = append(out, pc)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return cfg.ContestIndex(out[i].ContestID) < cfg.ContestIndex(out[j].ContestID)
	})
	return out, nil
}

func (d Decoder) decrypt(ctx context.Context, cfg *election.Config, b ballot.AuditableBallot) ([]primitives.RawContestChoices, error) {
	switch v := b.(type) {
	case *ballot.SingleContestBallot:
		raws := make([]primitives.RawContestChoices, 0, len(v.Contests))
		for _, c := range v.Contests {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			raw, err := d.P.DecryptContestChoices(ctx, cfg, c)
			if err != nil {
				if ctxErr := ctx.Err(); ctxErr != nil {
					return nil, ctxErr
				}
				return nil, classify(c.ContestID, err)
			}
			if raw.ContestID == "" {
				raw.ContestID = c.ContestID
			}
			if raw.ContestID != c.ContestID {
				return nil, &DecodeError{Kind: LayoutInvalid, ContestID: c.ContestID,
					Err: fmt.Errorf("plaintext belongs to contest %q", raw.ContestID)}
			}
			raws = append(raws, raw)
		}
		return raws, nil
	case *ballot.MultiContestBallot:
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		raws, err := d.P.DecryptMultiContestChoices(ctx, cfg, v.Contests)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			return nil, classify("", err)
		}
		seen := make(map[string]struct{}, len(raws))
		for _, raw := range raws {
			if _, dup := seen[raw.ContestID]; dup {
				return nil, &DecodeError{Kind: LayoutInvalid, ContestID: raw.ContestID, Err: errors.New("contest decoded twice")}
			}
			seen[raw.ContestID] = struct{}{}
		}
		return raws, nil
	default:
		return nil, fmt.Errorf("decoder: unsupported ballot %T", b)
	}
}

// decodeContest builds the decoded view of one contest and attaches its diagnostics
func (d Decoder) decodeContest(ctx context.Context, ct *election.Contest, raw primitives.RawContestChoices) (plaintext.Contest, error) {
	if len(raw.Ranks) != len(ct.Candidates) {
		return plaintext.Contest{}, &DecodeError{Kind: LayoutInvalid, ContestID: ct.ID,
			Err: fmt.Errorf("%d ranks for %d candidates", len(raw.Ranks), len(ct.Candidates))}
	}

	pc := plaintext.Contest{
		ContestID:         ct.ID,
		Choices:           make([]plaintext.Choice, len(ct.Candidates)),
		IsExplicitInvalid: raw.ExplicitInvalid,
		Diagnostics:       []plaintext.Diagnostic{},
	}
	for i, cand := range ct.Candidates {
		rank := raw.Ranks[i]
		if rank < 0 {
			rank = plaintext.NotSelected
		}
		pc.Choices[i] = plaintext.Choice{CandidateID: cand.ID, Selected: rank}
		if cand.IsExplicitInvalid && rank >= 0 {
			pc.IsExplicitInvalid = true
		}
	}

	for i, cand := range ct.Candidates {
		if !cand.IsWriteIn {
			continue
		}
		run := raw.WriteIns[cand.ID]
		if run == nil {
			continue
		}
		text, err := d.P.DecodeWriteInText(ctx, run)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return plaintext.Contest{}, ctxErr
			}
			pc.Diagnostics = append(pc.Diagnostics, writeInDiagnostic(err).ForCandidate(cand.ID))
			continue
		}
		pc.Choices[i].WriteInText = text
	}

	pc.Diagnostics = append(pc.Diagnostics, checkRules(ct, pc)...)
	pc.IsBlank = plaintext.IsBlankFor(pc.Choices, pc.IsExplicitInvalid)
	if pc.IsBlank && ct.Presentation.BlankVotePolicy == election.BlankVoteNotAllowed {
		pc.Diagnostics = append(pc.Diagnostics, plaintext.NewDiagnostic(plaintext.KindBlankNotAllowed, nil))
	}
	return pc, nil
}

func writeInDiagnostic(err error) plaintext.Diagnostic {
	var we *primitives.WriteInError
	if !errors.As(err, &we) {
		return plaintext.NewDiagnostic(plaintext.KindWriteInEncodingError, map[string]any{
			plaintext.ParamDetail: err.Error(),
		})
	}
	params := map[string]any{plaintext.ParamDetail: we.Error()}
	if we.Index >= 0 {
		params[plaintext.ParamIndex] = we.Index
	}
	switch we.Kind {
	case primitives.WriteInOutOfRange:
		return plaintext.NewDiagnostic(plaintext.KindWriteInOutOfRange, params)
	case primitives.WriteInBadTerminator:
		return plaintext.NewDiagnostic(plaintext.KindWriteInBadTerminator, params)
	default:
		return plaintext.NewDiagnostic(plaintext.KindWriteInEncodingError, params)
	}
}
