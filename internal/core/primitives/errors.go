package primitives

import (
	"errors"
	"fmt"
)

// Structural failures. The engine stops on these instead of degrading
var (
	ErrContestNotFound = errors.New("contest not found in ballot style")
	ErrBallotTooLarge  = errors.New("ballot larger than the format allows")
	ErrCiphertext      = errors.New("ciphertext cannot be opened")
	ErrLayout          = errors.New("plaintext does not match the contest layout")
)

// Signature failures; the verifier folds all of them into an invalid status
var (
	ErrSignatureEncoding = errors.New("signature material is not well formed")
	ErrSignatureMismatch = errors.New("signature does not match")
)

// WriteInErrorKind classifies a failed write-in decode
type WriteInErrorKind int

const (
	// WriteInOutOfRange is a byte outside the accepted character range
	WriteInOutOfRange WriteInErrorKind = iota + 1
	// WriteInBadTerminator is a run that does not end in a single NUL
	WriteInBadTerminator
	// WriteInEncoding is a run that is not valid UTF-8
	WriteInEncoding
)

func (k WriteInErrorKind) String() string {
	switch k {
	case WriteInOutOfRange:
		return "out of range"
	case WriteInBadTerminator:
		return "bad terminator"
	case WriteInEncoding:
		return "encoding"
	default:
		return "unknown"
	}
}

// WriteInError is returned by DecodeWriteInText
type WriteInError struct {
	Kind WriteInErrorKind
	// Index is the byte offset of the failure, -1 when not positional
	Index int
	Err   error
}

func (e *WriteInError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("write-in %s at byte %d: %v", e.Kind, e.Index, e.Err)
	}
	return fmt.Sprintf("write-in %s: %v", e.Kind, e.Err)
}

func (e *WriteInError) Unwrap() error { return e.Err }
