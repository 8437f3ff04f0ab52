// Package schema defines the validation model used by govalid.
//
// A Schema validates one request section (path parameters, query string, or
// body) as a whole; a Value validates a single field within a section. Both
// report failures as Issues so callers can aggregate them across sections.
// Leaf values are built on go-playground/validator v10 rule tags with English
// translations.
package schema
