package ballot

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"ballotaudit/internal/core/election"
)

// MaxArtifactBytes bounds the size of an uploaded artifact
const MaxArtifactBytes = 1 << 20

// Sentinels matched with errors.Is against a *ParseError
var (
	ErrMalformed     = errors.New("malformed auditable ballot")
	ErrMissingConfig = errors.New("auditable ballot has no election config")
)

// ParseErrorKind classifies a ParseError
type ParseErrorKind int

const (
	Malformed ParseErrorKind = iota + 1
	MissingConfig
)

func (k ParseErrorKind) String() string {
	switch k {
	case Malformed:
		return "malformed"
	case MissingConfig:
		return "missing config"
	default:
		return "unknown"
	}
}

// ParseError is the only error Parse returns
type ParseError struct {
	Kind ParseErrorKind
	Err  error
}

func (e *ParseError) Error() string {
	if e.Err == nil {
		return "ballot: " + e.Kind.String()
	}
	return fmt.Sprintf("ballot: %s: %v", e.Kind, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Is maps the kind onto ErrMalformed and ErrMissingConfig
func (e *ParseError) Is(target error) bool {
	switch target {
	case ErrMalformed:
		return e.Kind == Malformed
	case ErrMissingConfig:
		return e.Kind == MissingConfig
	}
	return false
}

func malformed(format string, args ...any) *ParseError {
	return &ParseError{Kind: Malformed, Err: fmt.Errorf(format, args...)}
}

// envelope reads only what is needed to pick a variant
type envelope struct {
	Config   json.RawMessage `json:"config"`
	Contests json.RawMessage `json:"contests"`
}

// Parse validates raw and returns the ballot variant it encodes. The shape
// of "contests" selects the variant: an array is a single-contest ballot, an
// object a multi-contest one. Without a usable discriminator the single shape
// is attempted first and the multi shape only when the first attempt fails
// structurally
func Parse(raw []byte) (AuditableBallot, error) {
	if len(raw) > MaxArtifactBytes {
		return nil, malformed("artifact is %d bytes, limit %d", len(raw), MaxArtifactBytes)
	}
	var p envelope
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, &ParseError{Kind: Malformed, Err: err}
	}
	if isNull(p.Config) {
		return nil, &ParseError{Kind: MissingConfig}
	}

	switch leadingByte(p.Contests) {
	case '[':
		return parseSingle(raw)
	case '{':
		return parseMulti(raw)
	}

	b, err := parseSingle(raw)
	if err == nil {
		return b, nil
	}
	if !isStructural(err) {
		return nil, err
	}
	return parseMulti(raw)
}

// ReadFrom reads and parses at most MaxArtifactBytes from r
func ReadFrom(r io.Reader) (AuditableBallot, error) {
	raw, err := io.ReadAll(io.LimitReader(r, MaxArtifactBytes+1))
	if err != nil {
		return nil, fmt.Errorf("ballot: read artifact: %w", err)
	}
	return Parse(raw)
}

// ReadFile parses the artifact stored at path
func ReadFile(path string) (AuditableBallot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("ballot: open artifact: %w", err)
	}
	defer f.Close()
	return ReadFrom(f)
}

func parseSingle(raw []byte) (*SingleContestBallot, error) {
	var b SingleContestBallot
	if err := json.Unmarshal(raw, &b); err != nil {
		return nil, &ParseError{Kind: Malformed, Err: err}
	}
	if err := checkConfig(b.ElectionConfig); err != nil {
		return nil, err
	}
	if len(b.Contests) == 0 {
		return nil, malformed("no contests")
	}
	seen := make(map[string]struct{}, len(b.Contests))
	for i, c := range b.Contests {
		if c.ContestID == "" {
			return nil, malformed("contests[%d]: empty contest_id", i)
		}
		if c.Ciphertext == "" {
			return nil, malformed("contests[%d]: empty ciphertext", i)
		}
		if _, dup := seen[c.ContestID]; dup {
			return nil, malformed("contests[%d]: duplicate contest %q", i, c.ContestID)
		}
		seen[c.ContestID] = struct{}{}
	}
	return &b, nil
}

func parseMulti(raw []byte) (*MultiContestBallot, error) {
	var b MultiContestBallot
	if err := json.Unmarshal(raw, &b); err != nil {
		return nil, &ParseError{Kind: Malformed, Err: err}
	}
	if err := checkConfig(b.ElectionConfig); err != nil {
		return nil, err
	}
	if len(b.Contests.ContestIDs) == 0 {
		return nil, malformed("no contest_ids")
	}
	if b.Contests.Ciphertext == "" {
		return nil, malformed("empty ciphertext")
	}
	seen := make(map[string]struct{}, len(b.Contests.ContestIDs))
	for i, id := range b.Contests.ContestIDs {
		if id == "" {
			return nil, malformed("contest_ids[%d]: empty", i)
		}
		if _, dup := seen[id]; dup {
			return nil, malformed("contest_ids[%d]: duplicate contest %q", i, id)
		}
		seen[id] = struct{}{}
	}
	return &b, nil
}

func checkConfig(c *election.Config) error {
	if c == nil {
		return &ParseError{Kind: MissingConfig}
	}
	if err := c.Validate(); err != nil {
		return &ParseError{Kind: Malformed, Err: err}
	}
	return nil
}

// isStructural reports whether err came from JSON shape, not content
func isStructural(err error) bool {
	var se *json.SyntaxError
	var te *json.UnmarshalTypeError
	return errors.As(err, &se) || errors.As(err, &te)
}

func isNull(raw json.RawMessage) bool {
	t := bytes.TrimSpace(raw)
	return len(t) == 0 || bytes.Equal(t, []byte("null"))
}

func leadingByte(raw json.RawMessage) byte {
	t := bytes.TrimSpace(raw)
	if len(t) == 0 {
		return 0
	}
	return t[0]
}
