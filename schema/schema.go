package schema

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/samber/lo"
)

// Schema validates one request section and returns its coerced form.
//
// A nil section must be presented as an empty map, never as a nil map
// dereference inside the schema. On validation failure the returned error is
// an Issues value; any other error kind means the schema itself misbehaved
// and is not treated as a validation result.
type Schema interface {
	Parse(ctx context.Context, input map[string]any) (map[string]any, error)
}

// Value validates a single field and returns its coerced form.
//
// Absent fields are presented as a nil input; a Value decides whether that is
// acceptable (for example via a "required" rule).
type Value interface {
	Parse(ctx context.Context, input any) (any, error)
}

// Fields maps field names to their value schemas. It is the shorthand form
// accepted by govalid for building a strict object schema.
type Fields map[string]Value

// Issue is one structured validation failure.
type Issue struct {
	Path    string `json:"path"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Issues is the list of failures produced by a single parse.
type Issues []Issue

// Error implements the error interface.
func (is Issues) Error() string {
	if len(is) == 0 {
		return "validation error"
	}

	b, err := json.Marshal(is)
	if err != nil {
		return fmt.Sprintf("validation error (failed to marshal: %v)", err)
	}
	return string(b)
}

// ObjectSchema validates a map against a fixed set of named fields and
// rejects any key outside that set.
type ObjectSchema struct {
	fields Fields
	keys   []string
}

// Object builds a strict ObjectSchema from fields. A nil or empty field map
// yields a schema that only accepts an empty section.
func Object(fields Fields) *ObjectSchema {
	keys := lo.Keys(fields)
	sort.Strings(keys)

	return &ObjectSchema{fields: fields, keys: keys}
}

// Parse implements Schema.
//
// Unknown keys are reported first, then declared fields are validated in
// sorted name order so issue ordering is deterministic. The output map holds
// each field's coerced value; optional fields absent from the input stay
// absent from the output.
func (o *ObjectSchema) Parse(ctx context.Context, input map[string]any) (map[string]any, error) {
	var issues Issues

	unknown := make([]string, 0, len(input))
	for k := range input {
		if _, ok := o.fields[k]; !ok {
			unknown = append(unknown, k)
		}
	}
	sort.Strings(unknown)

	for _, k := range unknown {
		issues = append(issues, Issue{
			Path:    k,
			Code:    "unrecognized_keys",
			Message: fmt.Sprintf("Unrecognized key %q", k),
		})
	}

	out := make(map[string]any, len(o.fields))
	for _, k := range o.keys {
		raw, present := input[k]

		v, err := o.fields[k].Parse(ctx, raw)
		if err != nil {
			is, ok := lo.ErrorsAs[Issues](err)
			if !ok {
				return nil, err
			}

			for _, iss := range is {
				path := k
				if iss.Path != "" {
					path = k + "." + iss.Path
				}
				issues = append(issues, Issue{Path: path, Code: iss.Code, Message: iss.Message})
			}
			continue
		}

		if present || v != nil {
			out[k] = v
		}
	}

	if len(issues) > 0 {
		return nil, issues
	}

	return out, nil
}
