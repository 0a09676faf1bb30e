package reference

import (
	"context"
	"crypto/ed25519"
	"encoding/base64"
	"fmt"

	"ballotaudit/internal/core/primitives"
)

func signedMessage(hash, electionID string) []byte {
	return []byte(hash + ":" + electionID)
}

func signedMultiMessage(hash, electionID string) []byte {
	return []byte("multi:" + hash + ":" + electionID)
}

// VerifyBallotSignature checks an Ed25519 signature over hash and election id
func (Adapter) VerifyBallotSignature(ctx context.Context, hash, electionID, signature, publicKey string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return verifyEd25519(signedMessage(hash, electionID), signature, publicKey)
}

// VerifyMultiBallotSignature is VerifyBallotSignature under the multi domain prefix
func (Adapter) VerifyMultiBallotSignature(ctx context.Context, hash, electionID, signature, publicKey string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return verifyEd25519(signedMultiMessage(hash, electionID), signature, publicKey)
}

func verifyEd25519(msg []byte, signature, publicKey string) error {
	pk, err := base64.StdEncoding.DecodeString(publicKey)
	if err != nil || len(pk) != ed25519.PublicKeySize {
		return fmt.Errorf("public key: %w", primitives.ErrSignatureEncoding)
	}
	sig, err := base64.StdEncoding.DecodeString(signature)
	if err != nil || len(sig) != ed25519.SignatureSize {
		return fmt.Errorf("signature: %w", primitives.ErrSignatureEncoding)
	}
	if !ed25519.Verify(ed25519.PublicKey(pk), msg, sig) {
		return primitives.ErrSignatureMismatch
	}
	return nil
}

// SignBallot signs a single-contest ballot hash; keys are base64 encoded
func SignBallot(priv ed25519.PrivateKey, hash, electionID string) (signature, publicKey string) {
	return sign(priv, signedMessage(hash, electionID))
}

// SignMultiBallot signs a multi-contest ballot hash
func SignMultiBallot(priv ed25519.PrivateKey, hash, electionID string) (signature, publicKey string) {
	return sign(priv, signedMultiMessage(hash, electionID))
}

func sign(priv ed25519.PrivateKey, msg []byte) (string, string) {
	sig := ed25519.Sign(priv, msg)
	pub := priv.Public().(ed25519.PublicKey)
	return base64.StdEncoding.EncodeToString(sig), base64.StdEncoding.EncodeToString(pub)
}
