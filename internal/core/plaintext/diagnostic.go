package plaintext

// Kind identifies a semantic problem found in a decoded contest
type Kind string

const (
	KindSelectedMax          Kind = "selected_max"
	KindSelectedMin          Kind = "selected_min"
	KindExplicitNotAllowed   Kind = "explicit_not_allowed"
	KindDuplicatedPosition   Kind = "duplicated_position"
	KindPositionOutOfRange   Kind = "position_out_of_range"
	KindBlankNotAllowed      Kind = "blank_not_allowed"
	KindWriteInOutOfRange    Kind = "write_in_out_of_range"
	KindWriteInBadTerminator Kind = "write_in_bad_terminator"
	KindWriteInEncodingError Kind = "write_in_encoding_error"
)

// Type groups kinds the way ballot reviewers talk about them
type Type string

const (
	TypeExplicit Type = "explicit"
	TypeImplicit Type = "implicit"
	TypeEncoding Type = "encoding"
)

// Parameter names carried in Diagnostic.Params
const (
	ParamMax         = "max"
	ParamMin         = "min"
	ParamNumSelected = "numSelected"
	ParamPosition    = "position"
	ParamIndex       = "index"
	ParamDetail      = "detail"
)

// Diagnostic is an invalid-plaintext finding. It carries a rendering key and
// structured parameters; formatting for humans is a presentation concern
type Diagnostic struct {
	Kind        Kind           `json:"kind"`
	Type        Type           `json:"error_type"`
	MessageKey  string         `json:"message"`
	CandidateID string         `json:"candidate_id,omitempty"`
	Params      map[string]any `json:"message_map,omitempty"`
}

// Type returns the family of k
func (k Kind) Type() Type {
	switch k {
	case KindExplicitNotAllowed:
		return TypeExplicit
	case KindWriteInOutOfRange, KindWriteInBadTerminator, KindWriteInEncodingError:
		return TypeEncoding
	default:
		return TypeImplicit
	}
}

// MessageKey returns the localization key for k
func (k Kind) MessageKey() string {
	switch k {
	case KindSelectedMax:
		return "errors.implicit.selectedMax"
	case KindSelectedMin:
		return "errors.implicit.selectedMin"
	case KindExplicitNotAllowed:
		return "errors.explicit.notAllowed"
	case KindDuplicatedPosition:
		return "errors.implicit.duplicatedPosition"
	case KindPositionOutOfRange:
		return "errors.implicit.invalidPosition"
	case KindBlankNotAllowed:
		return "errors.implicit.blankVote"
	case KindWriteInOutOfRange:
		return "errors.encoding.writeInCharOutOfRange"
	case KindWriteInBadTerminator:
		return "errors.encoding.writeInNotEndInZero"
	case KindWriteInEncodingError:
		return "errors.encoding.bytesToUtf8Conversion"
	default:
		return "errors.unknown"
	}
}

// NewDiagnostic builds a diagnostic of kind k with optional params
func NewDiagnostic(k Kind, params map[string]any) Diagnostic {
	return Diagnostic{
		Kind:       k,
		Type:       k.Type(),
		MessageKey: k.MessageKey(),
		Params:     params,
	}
}

// ForCandidate returns a copy of d scoped to candidateID
func (d Diagnostic) ForCandidate(candidateID string) Diagnostic {
	d.CandidateID = candidateID
	return d
}
