package reference

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"golang.org/x/crypto/blake2b"

	"ballotaudit/internal/core/primitives"
)

// canonical JSON is encoding/json output of the projection: struct field
// order is fixed and there are no maps, so the bytes are stable

// HashBallot is SHA-256 over the canonical projection, hex encoded
func (Adapter) HashBallot(ctx context.Context, b primitives.HashableBallot) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	raw, err := json.Marshal(b)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:]), nil
}

// HashBallotLegacy is BLAKE2b-256 over the same projection
func (Adapter) HashBallotLegacy(ctx context.Context, b primitives.HashableBallot) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	raw, err := json.Marshal(b)
	if err != nil {
		return "", err
	}
	sum := blake2b.Sum256(raw)
	return hex.EncodeToString(sum[:]), nil
}

// HashMultiBallot is SHA-256 over the canonical multi projection
func (Adapter) HashMultiBallot(ctx context.Context, b primitives.HashableMultiBallot) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	raw, err := json.Marshal(b)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:]), nil
}
