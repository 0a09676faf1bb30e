package election

import (
	"errors"
	"fmt"

	"ballotaudit/internal/platform/validate"
)

// ErrInvalidConfig marks every validation failure of a ballot style
var ErrInvalidConfig = errors.New("invalid election config")

// ValidationError names the offending field of an invalid ballot style
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", ErrInvalidConfig, e.Reason)
	}
	return fmt.Sprintf("%s: %s: %s", ErrInvalidConfig, e.Field, e.Reason)
}

// Is lets errors.Is match ErrInvalidConfig
func (e *ValidationError) Is(target error) bool { return target == ErrInvalidConfig }

// Validate checks struct tags first, then the rules tags cannot express
func (c *Config) Validate() error {
	if c == nil {
		return &ValidationError{Reason: "missing config"}
	}
	if err := validate.Struct(c); err != nil {
		if validate.IsInternal(err) {
			return fmt.Errorf("election: validator: %w", err)
		}
		field, msg := validate.FieldAndMessage(err)
		return &ValidationError{Field: field, Reason: msg}
	}

	if bad := c.Description.invalidKeys(); len(bad) > 0 {
		return &ValidationError{Field: "description", Reason: fmt.Sprintf("unknown language %q", bad[0])}
	}

	seenContest := make(map[string]struct{}, len(c.Contests))
	for i := range c.Contests {
		ct := &c.Contests[i]
		if _, dup := seenContest[ct.ID]; dup {
			return &ValidationError{Field: fmt.Sprintf("contests[%d].id", i), Reason: fmt.Sprintf("duplicate contest %q", ct.ID)}
		}
		seenContest[ct.ID] = struct{}{}
		if err := ct.validate(i); err != nil {
			return err
		}
	}
	return nil
}

func (ct *Contest) validate(i int) error {
	at := func(f string) string { return fmt.Sprintf("contests[%d].%s", i, f) }

	if ct.MaxVotes > len(ct.Candidates) {
		return &ValidationError{Field: at("max_votes"), Reason: "exceeds number of candidates"}
	}
	for _, txt := range []I18nText{ct.Name, ct.Description} {
		if bad := txt.invalidKeys(); len(bad) > 0 {
			return &ValidationError{Field: at("name"), Reason: fmt.Sprintf("unknown language %q", bad[0])}
		}
	}

	seen := make(map[string]struct{}, len(ct.Candidates))
	explicit := 0
	for j, cand := range ct.Candidates {
		field := at(fmt.Sprintf("candidates[%d]", j))
		if _, dup := seen[cand.ID]; dup {
			return &ValidationError{Field: field + ".id", Reason: fmt.Sprintf("duplicate candidate %q", cand.ID)}
		}
		seen[cand.ID] = struct{}{}

		if cand.IsExplicitInvalid {
			explicit++
		}
		if cand.IsWriteIn && !ct.Presentation.AllowWriteIns {
			return &ValidationError{Field: field, Reason: "write-in candidate in a contest without write-ins"}
		}
		if cand.IsWriteIn && (cand.IsExplicitInvalid || cand.IsBlank) {
			return &ValidationError{Field: field, Reason: "write-in candidate cannot carry other flags"}
		}
	}
	if explicit > 1 {
		return &ValidationError{Field: at("candidates"), Reason: "more than one explicit invalid candidate"}
	}
	return nil
}
