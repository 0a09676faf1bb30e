package reference

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/binary"
	"fmt"

	"ballotaudit/internal/core/election"
	"ballotaudit/internal/core/plaintext"
	"ballotaudit/internal/core/primitives"
)

// AuditKeyFromSeed derives a deterministic base64 audit key; fixtures only
func AuditKeyFromSeed(seed string) string {
	sum := sha256.Sum256([]byte("ballotaudit/audit-key\x00" + seed))
	return base64.StdEncoding.EncodeToString(sum[:])
}

// SealContest encrypts pc under auditKey the way a voting booth would
func SealContest(cfg *election.Config, auditKey string, pc plaintext.Contest) (primitives.ContestCiphertext, error) {
	ct, ok := cfg.Contest(pc.ContestID)
	if !ok {
		return primitives.ContestCiphertext{}, fmt.Errorf("contest %q: %w", pc.ContestID, primitives.ErrContestNotFound)
	}
	pt, err := encodeContest(ct, pc)
	if err != nil {
		return primitives.ContestCiphertext{}, err
	}
	sealed, err := seal(cfg.ElectionID, []string{ct.ID}, auditKey, pt)
	if err != nil {
		return primitives.ContestCiphertext{}, err
	}
	return primitives.ContestCiphertext{
		ContestID:  ct.ID,
		Ciphertext: sealed,
		AuditKey:   auditKey,
	}, nil
}

// SealMulti encrypts several contests into one ciphertext
func SealMulti(cfg *election.Config, auditKey string, contests []plaintext.Contest) (primitives.MultiCiphertext, error) {
	ids := make([]string, 0, len(contests))
	var buf []byte
	for _, pc := range contests {
		idx := cfg.ContestIndex(pc.ContestID)
		if idx < 0 {
			return primitives.MultiCiphertext{}, fmt.Errorf("contest %q: %w", pc.ContestID, primitives.ErrContestNotFound)
		}
		pt, err := encodeContest(&cfg.Contests[idx], pc)
		if err != nil {
			return primitives.MultiCiphertext{}, err
		}
		var hdr [multiHeader]byte
		binary.BigEndian.PutUint16(hdr[0:2], uint16(idx))
		binary.BigEndian.PutUint16(hdr[2:4], uint16(len(pt)))
		buf = append(buf, hdr[:]...)
		buf = append(buf, pt...)
		ids = append(ids, pc.ContestID)
	}
	sealed, err := seal(cfg.ElectionID, ids, auditKey, buf)
	if err != nil {
		return primitives.MultiCiphertext{}, err
	}
	return primitives.MultiCiphertext{
		ContestIDs: ids,
		Ciphertext: sealed,
		AuditKey:   auditKey,
	}, nil
}
