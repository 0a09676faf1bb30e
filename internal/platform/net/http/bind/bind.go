// Package bind decodes and validates JSON request bodies for handlers
package bind

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	perr "ballotaudit/internal/platform/errors"
	"ballotaudit/internal/platform/logger"
	"ballotaudit/internal/platform/validate"
)

// DefaultMaxBytes caps a request body when no option says otherwise
const DefaultMaxBytes int64 = 1 << 20

// JSONOptions controls parsing behavior
type JSONOptions struct {
	MaxBytes     int64 // <= 0 means DefaultMaxBytes
	AllowUnknown bool
}

// seam for tests
var jsonMore = func(dec *json.Decoder) bool { return dec.More() }

// ParseJSON decodes the body into T, validates it, and maps failures to
// project errors: JSON for syntax and size, Validation for rule failures
func ParseJSON[T any](r *http.Request, opts ...JSONOptions) (T, error) {
	var zero T
	var o JSONOptions
	if len(opts) > 0 {
		o = opts[0]
	}
	if o.MaxBytes <= 0 {
		o.MaxBytes = DefaultMaxBytes
	}
	if r.Body == nil || r.Body == http.NoBody {
		return zero, perr.JSONErrf("empty body")
	}
	defer func() {
		if err := r.Body.Close(); err != nil {
			logger.C(r.Context()).Debug().Err(err).Msg("close request body")
		}
	}()

	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, o.MaxBytes))
	if !o.AllowUnknown {
		dec.DisallowUnknownFields()
	}

	var dst T
	if err := dec.Decode(&dst); err != nil {
		var tooBig *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			return zero, perr.JSONErrf("empty body")
		case errors.As(err, &tooBig):
			return zero, perr.JSONErrf("body larger than %d bytes", tooBig.Limit)
		default:
			return zero, perr.JSONErrf("invalid JSON: %v", err)
		}
	}
	if jsonMore(dec) {
		return zero, perr.JSONErrf("unexpected trailing data")
	}

	if err := validate.Struct(dst); err != nil {
		if validate.IsInternal(err) {
			logger.C(r.Context()).Error().Err(err).Msg("validator internal error")
			return zero, perr.Internalf("validation error")
		}
		field, msg := validate.FieldAndMessage(err)
		// drop the struct name, "VerifyRequest.ballot_id" becomes "ballot_id"
		if _, rest, ok := strings.Cut(field, "."); ok {
			field = rest
		}
		return zero, perr.WithField(perr.Newf(perr.ErrorCodeValidation, "%s", msg), field)
	}
	return dst, nil
}
