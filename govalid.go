// Package govalid builds route middleware that validates the three sections
// of an incoming request (path parameters, query string, body) against a
// declarative schema set, writes the coerced results back onto the request,
// and fails with one aggregated validation error when any section is invalid.
package govalid

import (
	"fmt"

	"github.com/shandysiswandi/govalid/schema"
)

// Schemas declares what each request section must look like. Every entry is
// optional and is either a schema.Schema (used verbatim, including any custom
// cross-field logic it encapsulates) or a schema.Fields shorthand compiled
// into a strict object schema. An absent entry means the section must be
// empty, not that validation is skipped.
type Schemas struct {
	Params any
	Query  any
	Body   any
}

// validatorSet is the normalized form of Schemas: one non-nil schema per
// section, resolved once at route registration and reused for every request.
type validatorSet struct {
	params schema.Schema
	query  schema.Schema
	body   schema.Schema
}

func normalize(s Schemas) validatorSet {
	return validatorSet{
		params: normalizeEntry(s.Params),
		query:  normalizeEntry(s.Query),
		body:   normalizeEntry(s.Body),
	}
}

// normalizeEntry decides by capability: anything implementing schema.Schema
// passes through untouched, a field map (or nothing) compiles into a strict
// object schema. Other types are a programmer error, caught at registration
// rather than per request.
func normalizeEntry(v any) schema.Schema {
	switch sv := v.(type) {
	case nil:
		return schema.Object(nil)
	case schema.Schema:
		return sv
	case schema.Fields:
		return schema.Object(sv)
	case map[string]schema.Value:
		return schema.Object(sv)
	default:
		panic(fmt.Sprintf("govalid: schema entry must be a schema.Schema or schema.Fields, got %T", v))
	}
}
