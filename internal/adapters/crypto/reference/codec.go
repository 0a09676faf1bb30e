package reference

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"ballotaudit/internal/core/election"
	"ballotaudit/internal/core/plaintext"
	"ballotaudit/internal/core/primitives"
)

// multiHeader is the per-contest prefix of a multi plaintext: index + length
const multiHeader = 4

// maxContestPlaintext is the padded size of a contest plaintext
func maxContestPlaintext(ct *election.Contest) int {
	return 1 + len(ct.Candidates) + len(ct.WriteIns())*(MaxWriteInBytes+1)
}

func decodeContest(ct *election.Contest, pt []byte) (primitives.RawContestChoices, error) {
	n := len(ct.Candidates)
	if len(pt) > maxContestPlaintext(ct) {
		return primitives.RawContestChoices{}, fmt.Errorf("contest %q: %d bytes: %w", ct.ID, len(pt), primitives.ErrBallotTooLarge)
	}
	if len(pt) < 1+n {
		return primitives.RawContestChoices{}, fmt.Errorf("contest %q: %d bytes for %d candidates: %w", ct.ID, len(pt), n, primitives.ErrLayout)
	}
	if pt[0] > 1 {
		return primitives.RawContestChoices{}, fmt.Errorf("contest %q: explicit flag %d: %w", ct.ID, pt[0], primitives.ErrLayout)
	}

	out := primitives.RawContestChoices{
		ContestID:       ct.ID,
		ExplicitInvalid: pt[0] == 1,
		Ranks:           make([]int, n),
	}
	for i := 0; i < n; i++ {
		v := int(pt[1+i])
		if v > n {
			return primitives.RawContestChoices{}, fmt.Errorf("contest %q: rank byte %d: %w", ct.ID, v, primitives.ErrLayout)
		}
		out.Ranks[i] = v - 1 // 0 -> NotSelected
	}

	rest := pt[1+n:]
	writeIns := ct.WriteIns()
	if len(writeIns) > 0 {
		out.WriteIns = make(map[string][]byte, len(writeIns))
	}
	for _, cand := range writeIns {
		if len(rest) == 0 {
			out.WriteIns[cand.ID] = nil
			continue
		}
		end := bytes.IndexByte(rest, 0)
		if end < 0 {
			out.WriteIns[cand.ID] = rest
			rest = nil
			continue
		}
		out.WriteIns[cand.ID] = rest[:end+1]
		rest = rest[end+1:]
	}
	for _, b := range rest {
		if b != 0 {
			return primitives.RawContestChoices{}, fmt.Errorf("contest %q: trailing data: %w", ct.ID, primitives.ErrLayout)
		}
	}
	return out, nil
}

func decodeMulti(cfg *election.Config, ids []string, pt []byte) ([]primitives.RawContestChoices, error) {
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = false
	}

	var out []primitives.RawContestChoices
	for len(pt) > 0 {
		if len(pt) < multiHeader {
			return nil, fmt.Errorf("truncated contest header: %w", primitives.ErrLayout)
		}
		idx := int(binary.BigEndian.Uint16(pt[0:2]))
		size := int(binary.BigEndian.Uint16(pt[2:4]))
		pt = pt[multiHeader:]
		if idx >= len(cfg.Contests) {
			return nil, fmt.Errorf("contest index %d: %w", idx, primitives.ErrContestNotFound)
		}
		ct := &cfg.Contests[idx]
		done, listed := want[ct.ID]
		if !listed {
			return nil, fmt.Errorf("contest %q not listed in ballot: %w", ct.ID, primitives.ErrLayout)
		}
		if done {
			return nil, fmt.Errorf("contest %q repeated: %w", ct.ID, primitives.ErrLayout)
		}
		if size > len(pt) {
			return nil, fmt.Errorf("contest %q: truncated body: %w", ct.ID, primitives.ErrLayout)
		}
		raw, err := decodeContest(ct, pt[:size])
		if err != nil {
			return nil, err
		}
		want[ct.ID] = true
		out = append(out, raw)
		pt = pt[size:]
	}
	for _, id := range ids {
		if !want[id] {
			return nil, fmt.Errorf("contest %q missing from plaintext: %w", id, primitives.ErrLayout)
		}
	}
	return out, nil
}

// encodeContest lays out a decoded contest as a padded plaintext
func encodeContest(ct *election.Contest, pc plaintext.Contest) ([]byte, error) {
	n := len(ct.Candidates)
	buf := make([]byte, 0, maxContestPlaintext(ct))
	if pc.IsExplicitInvalid {
		buf = append(buf, 1)
	} else {
		buf = append(buf, 0)
	}
	for _, cand := range ct.Candidates {
		ch, ok := pc.Choice(cand.ID)
		if !ok || !ch.IsSelected() {
			buf = append(buf, 0)
			continue
		}
		if ch.Selected+1 > n {
			return nil, fmt.Errorf("contest %q: candidate %q rank %d out of range", ct.ID, cand.ID, ch.Selected)
		}
		buf = append(buf, byte(ch.Selected+1))
	}
	for _, cand := range ct.WriteIns() {
		ch, _ := pc.Choice(cand.ID)
		text := []byte(ch.WriteInText)
		if len(text) > MaxWriteInBytes {
			return nil, fmt.Errorf("contest %q: write-in %q longer than %d bytes", ct.ID, cand.ID, MaxWriteInBytes)
		}
		if bytes.IndexByte(text, 0) >= 0 {
			return nil, fmt.Errorf("contest %q: write-in %q contains NUL", ct.ID, cand.ID)
		}
		buf = append(buf, text...)
		buf = append(buf, 0)
	}
	for len(buf) < maxContestPlaintext(ct) {
		buf = append(buf, 0)
	}
	return buf, nil
}
