// Package swaggerkit mounts the swagger UI and serves the OpenAPI document
// with the shared error responses filled in
package swaggerkit

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	perr "ballotaudit/internal/platform/errors"
)

// SpecMutator lets modules tweak the parsed spec before it is served
type SpecMutator func(map[string]any)

const errorSchemaRef = "#/components/schemas/ErrorResponse"

// wireCodes lists every perr code the API can answer with
var wireCodes = []perr.ErrorCode{
	perr.ErrorCodeValidation,
	perr.ErrorCodeJSON,
	perr.ErrorCodeInvalidArgument,
	perr.ErrorCodeNotFound,
	perr.ErrorCodeConflict,
	perr.ErrorCodeUnavailable,
	perr.ErrorCodeDB,
	perr.ErrorCodePanic,
	perr.ErrorCodeUnknown,
}

// defaultResponse is added to an operation that does not document its status
type defaultResponse struct {
	status  int
	code    perr.ErrorCode
	message string
	// bodyOnly limits the response to operations that take a request body
	bodyOnly bool
}

var defaults = []defaultResponse{
	{http.StatusBadRequest, perr.ErrorCodeValidation, "ballot_id is a required field", true},
	{http.StatusUnprocessableEntity, perr.ErrorCodeInvalidArgument, "ballot cannot be decoded", true},
	{http.StatusInternalServerError, perr.ErrorCodeUnknown, "internal error", false},
}

// Doc builds the served document from raw: OAS 3.0.3, a servers entry for
// baseURL, the shared ErrorResponse schema and default error responses.
// mutators run last
func Doc(raw []byte, baseURL string, mutators ...SpecMutator) ([]byte, error) {
	var spec map[string]any
	if err := json.Unmarshal(raw, &spec); err != nil {
		return nil, err
	}
	normalizeVersion(spec)
	if _, ok := spec["servers"]; !ok {
		spec["servers"] = []any{map[string]any{"url": baseURL}}
	}
	child(child(spec, "components"), "schemas")["ErrorResponse"] = errorSchema()
	eachOperation(spec, func(method string, op map[string]any) {
		resps := child(op, "responses")
		for _, d := range defaults {
			if d.bodyOnly && method != http.MethodPost && method != http.MethodPut {
				continue
			}
			key := strconv.Itoa(d.status)
			if _, ok := resps[key]; !ok {
				resps[key] = d.render()
			}
		}
	})
	for _, m := range mutators {
		if m != nil {
			m(spec)
		}
	}
	return json.Marshal(spec)
}

// normalizeVersion pins the document to 3.0.3, the newest the bundled UI renders
func normalizeVersion(spec map[string]any) {
	delete(spec, "swagger")
	if v, ok := spec["openapi"].(string); !ok || !strings.HasPrefix(v, "3.0") {
		spec["openapi"] = "3.0.3"
	}
}

func errorSchema() map[string]any {
	codes := make([]any, 0, len(wireCodes))
	for _, c := range wireCodes {
		codes = append(codes, string(c))
	}
	return map[string]any{
		"type":        "object",
		"description": "Error envelope",
		"properties": map[string]any{
			"status_code": map[string]any{"type": "integer", "format": "int32"},
			"status":      map[string]any{"type": "string"},
			"code":        map[string]any{"type": "string", "enum": codes},
			"error":       map[string]any{"type": "string"},
			"field":       map[string]any{"type": "string"},
			"request_id":  map[string]any{"type": "string"},
		},
		"required": []any{"status_code", "status", "code", "error"},
	}
}

func (d defaultResponse) render() map[string]any {
	return map[string]any{
		"description": http.StatusText(d.status),
		"content": map[string]any{
			"application/json": map[string]any{
				"schema": map[string]any{"$ref": errorSchemaRef},
				"example": map[string]any{
					"status_code": d.status,
					"status":      http.StatusText(d.status),
					"code":        string(d.code),
					"error":       d.message,
					"request_id":  "auditor-7/k2Jd9-000001",
				},
			},
		},
	}
}

// eachOperation calls fn with the upper-case method of every operation
func eachOperation(spec map[string]any, fn func(method string, op map[string]any)) {
	paths, _ := spec["paths"].(map[string]any)
	for _, p := range paths {
		node, ok := p.(map[string]any)
		if !ok {
			continue
		}
		for method, opAny := range node {
			if op, ok := opAny.(map[string]any); ok {
				fn(strings.ToUpper(method), op)
			}
		}
	}
}

// child returns m[key] as an object, creating it when missing
func child(m map[string]any, key string) map[string]any {
	c, ok := m[key].(map[string]any)
	if !ok {
		c = map[string]any{}
		m[key] = c
	}
	return c
}

func serveDocJSON(doc []byte) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		_, _ = w.Write(doc)
	}
}
