package reference

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/chacha20poly1305"

	"ballotaudit/internal/core/primitives"
)

// binding is the associated data tying a ciphertext to its election and contests
func binding(electionID string, contestIDs []string) []byte {
	return []byte(electionID + "\x00" + strings.Join(contestIDs, "\x00"))
}

func nonceFor(aad []byte) []byte {
	sum := sha256.Sum256(aad)
	return sum[:chacha20poly1305.NonceSize]
}

// commitSize is the key commitment that prefixes every ciphertext.
// ChaCha20-Poly1305 alone does not commit to its key, so without it one
// ciphertext could open under two audit keys to different selections while
// the Ballot ID, which hashes the ciphertext, stays the same
const commitSize = sha256.Size

func commitment(key []byte) []byte {
	h := sha256.New()
	h.Write([]byte("ballotaudit audit key commitment\x00"))
	h.Write(key)
	return h.Sum(nil)
}

func decodeKey(auditKey string) ([]byte, error) {
	key, err := base64.StdEncoding.DecodeString(auditKey)
	if err != nil {
		return nil, fmt.Errorf("audit key: %v: %w", err, primitives.ErrCiphertext)
	}
	if len(key) != chacha20poly1305.KeySize {
		return nil, fmt.Errorf("audit key is %d bytes: %w", len(key), primitives.ErrCiphertext)
	}
	return key, nil
}

// open authenticates and decrypts a ciphertext; limit is the largest
// plaintext the ballot style admits
func open(electionID string, contestIDs []string, auditKey, ciphertext string, limit int) ([]byte, error) {
	key, err := decodeKey(auditKey)
	if err != nil {
		return nil, err
	}
	ct, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return nil, fmt.Errorf("ciphertext: %v: %w", err, primitives.ErrCiphertext)
	}
	if len(ct) > commitSize+limit+chacha20poly1305.Overhead {
		return nil, fmt.Errorf("ciphertext is %d bytes: %w", len(ct), primitives.ErrBallotTooLarge)
	}
	if len(ct) < commitSize+chacha20poly1305.Overhead {
		return nil, fmt.Errorf("ciphertext is %d bytes: %w", len(ct), primitives.ErrCiphertext)
	}
	if subtle.ConstantTimeCompare(ct[:commitSize], commitment(key)) != 1 {
		return nil, fmt.Errorf("audit key does not match the key commitment: %w", primitives.ErrCiphertext)
	}
	ct = ct[commitSize:]
	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, primitives.ErrCiphertext)
	}
	aad := binding(electionID, contestIDs)
	pt, err := aead.Open(nil, nonceFor(aad), ct, aad)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, primitives.ErrCiphertext)
	}
	return pt, nil
}

func seal(electionID string, contestIDs []string, auditKey string, pt []byte) (string, error) {
	key, err := decodeKey(auditKey)
	if err != nil {
		return "", err
	}
	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return "", err
	}
	aad := binding(electionID, contestIDs)
	out := aead.Seal(commitment(key), nonceFor(aad), pt, aad)
	return base64.StdEncoding.EncodeToString(out), nil
}
