package reference

import (
	"bytes"
	"context"
	"errors"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"ballotaudit/internal/core/primitives"
)

var (
	errNoTerminator    = errors.New("missing NUL terminator")
	errInteriorNUL     = errors.New("NUL before end of run")
	errControlChar     = errors.New("control character")
	errInvalidUTF8     = errors.New("invalid UTF-8")
	errWriteInTooLarge = errors.New("write-in longer than allowed")
)

// DecodeWriteInText validates a NUL terminated run and returns NFC text
func (Adapter) DecodeWriteInText(ctx context.Context, raw []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(raw) == 0 || raw[len(raw)-1] != 0 {
		return "", &primitives.WriteInError{Kind: primitives.WriteInBadTerminator, Index: -1, Err: errNoTerminator}
	}
	body := raw[:len(raw)-1]
	if i := bytes.IndexByte(body, 0); i >= 0 {
		return "", &primitives.WriteInError{Kind: primitives.WriteInBadTerminator, Index: i, Err: errInteriorNUL}
	}
	if len(body) > MaxWriteInBytes {
		return "", &primitives.WriteInError{Kind: primitives.WriteInOutOfRange, Index: MaxWriteInBytes, Err: errWriteInTooLarge}
	}
	for i, b := range body {
		if b < 0x20 || b == 0x7f {
			return "", &primitives.WriteInError{Kind: primitives.WriteInOutOfRange, Index: i, Err: errControlChar}
		}
	}
	if !utf8.Valid(body) {
		return "", &primitives.WriteInError{Kind: primitives.WriteInEncoding, Index: -1, Err: errInvalidUTF8}
	}
	return norm.NFC.String(string(body)), nil
}
