package decoder

import (
	"errors"
	"fmt"

	"ballotaudit/internal/core/primitives"
)

// ErrorKind classifies a structural decode failure
type ErrorKind int

const (
	// ContestNotFound is a ciphertext naming a contest the ballot style lacks
	ContestNotFound ErrorKind = iota + 1
	// BallotTooLarge is a plaintext larger than the contest layout admits
	BallotTooLarge
	// CiphertextInvalid is a ciphertext that cannot be opened
	CiphertextInvalid
	// LayoutInvalid is a plaintext that does not fit the contest layout
	LayoutInvalid
)

func (k ErrorKind) String() string {
	switch k {
	case ContestNotFound:
		return "contest not found"
	case BallotTooLarge:
		return "ballot too large"
	case CiphertextInvalid:
		return "ciphertext invalid"
	case LayoutInvalid:
		return "layout invalid"
	default:
		return "unknown"
	}
}

// DecodeError aborts a decode. Semantic problems never produce one; they
// become diagnostics on the contest instead
type DecodeError struct {
	Kind      ErrorKind
	ContestID string
	Err       error
}

func (e *DecodeError) Error() string {
	if e.ContestID != "" {
		return fmt.Sprintf("decoder: %s (contest %q): %v", e.Kind, e.ContestID, e.Err)
	}
	return fmt.Sprintf("decoder: %s: %v", e.Kind, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// classify turns an adapter error into a DecodeError
func classify(contestID string, err error) *DecodeError {
	kind := CiphertextInvalid
	switch {
	case errors.Is(err, primitives.ErrContestNotFound):
		kind = ContestNotFound
	case errors.Is(err, primitives.ErrBallotTooLarge):
		kind = BallotTooLarge
	case errors.Is(err, primitives.ErrLayout):
		kind = LayoutInvalid
	}
	return &DecodeError{Kind: kind, ContestID: contestID, Err: err}
}
