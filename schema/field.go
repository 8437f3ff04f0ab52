package schema

import (
	"context"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/spf13/cast"
)

// field is a leaf value schema: coerce the raw input into one concrete type,
// then run a go-playground/validator rule tag against the result.
type field struct {
	rules   string
	coerce  func(any) (any, error)
	typeMsg string
}

// Parse implements Value.
func (f *field) Parse(ctx context.Context, input any) (any, error) {
	if input == nil {
		if f.required() {
			return nil, Issues{{Code: "required", Message: "is a required field"}}
		}
		return nil, nil
	}

	v, err := f.coerce(input)
	if err != nil {
		return nil, Issues{{Code: "invalid_type", Message: f.typeMsg}}
	}

	if is := v10.check(ctx, v, f.rules); len(is) > 0 {
		return nil, is
	}

	return v, nil
}

func (f *field) required() bool {
	return lo.Contains(strings.Split(f.rules, ","), "required")
}

// String builds a value schema that coerces input to a string and validates
// it with the given rule tag, e.g. "required,max=4".
func String(rules string) Value {
	return &field{
		rules:   rules,
		typeMsg: "must be a string",
		coerce: func(in any) (any, error) {
			return cast.ToStringE(in)
		},
	}
}

// Int builds a value schema that coerces input to an int64, accepting numeric
// strings such as "42".
func Int(rules string) Value {
	return &field{
		rules:   rules,
		typeMsg: "must be an integer",
		coerce: func(in any) (any, error) {
			return cast.ToInt64E(in)
		},
	}
}

// Float builds a value schema that coerces input to a float64.
func Float(rules string) Value {
	return &field{
		rules:   rules,
		typeMsg: "must be a number",
		coerce: func(in any) (any, error) {
			return cast.ToFloat64E(in)
		},
	}
}

// Bool builds a value schema that coerces input to a bool, accepting the
// usual textual forms ("true", "1", "f", ...).
func Bool(rules string) Value {
	return &field{
		rules:   rules,
		typeMsg: "must be a boolean",
		coerce: func(in any) (any, error) {
			return cast.ToBoolE(in)
		},
	}
}

// Time builds a value schema that parses input with the given layout. An
// empty layout defaults to RFC 3339.
func Time(layout, rules string) Value {
	if layout == "" {
		layout = time.RFC3339
	}

	return &field{
		rules:   rules,
		typeMsg: "must be a valid " + layout + " timestamp",
		coerce: func(in any) (any, error) {
			s, err := cast.ToStringE(in)
			if err != nil {
				return nil, err
			}
			return time.Parse(layout, s)
		},
	}
}
