package govalid

import (
	"errors"

	"github.com/shandysiswandi/govalid/goerror"
	"github.com/shandysiswandi/govalid/router"
	"github.com/shandysiswandi/govalid/schema"
)

// Section names used to tag issue paths so failures from several sections
// stay attributable after aggregation.
const (
	sectionParams = "params"
	sectionQuery  = "query"
	sectionBody   = "body"
)

// Validate builds a route middleware from the given schema set.
//
// The schema set is normalized once, when the route is registered. For every
// request the returned middleware validates params, query, and body in that
// order, one after the other. Each section that passes is immediately written
// back onto the request as its coerced form; each section that fails adds its
// issues to the aggregate without stopping the remaining sections, and its
// slot keeps the derived value. Passing sections are not rolled back when a
// sibling fails.
//
// When the aggregate is empty the wrapped handler runs with all three slots
// holding validated data. Otherwise the middleware returns a validation error
// carrying the union of every issue, which the router codec renders as a 422
// response. An error from a schema that is not a schema.Issues value is
// returned as-is and takes the router's normal fault path instead.
func Validate(s Schemas) func(next router.Handler) router.Handler {
	vs := normalize(s)

	return func(next router.Handler) router.Handler {
		return func(r *router.Request) (any, error) {
			var aggregate schema.Issues

			run := func(section string, sc schema.Schema, input map[string]any, set func(map[string]any)) error {
				if input == nil {
					input = map[string]any{}
				}

				out, err := sc.Parse(r.Context(), input)
				if err != nil {
					var is schema.Issues
					if !errors.As(err, &is) {
						return err
					}

					for _, iss := range is {
						path := section
						if iss.Path != "" {
							path = section + "." + iss.Path
						}
						aggregate = append(aggregate, schema.Issue{
							Path:    path,
							Code:    iss.Code,
							Message: iss.Message,
						})
					}
					return nil
				}

				set(out)
				return nil
			}

			if err := run(sectionParams, vs.params, r.Params(), r.SetParams); err != nil {
				return nil, err
			}

			if err := run(sectionQuery, vs.query, r.Query(), r.SetQuery); err != nil {
				return nil, err
			}

			body, err := r.Body()
			if err != nil {
				return nil, err
			}
			if err := run(sectionBody, vs.body, body, r.SetBody); err != nil {
				return nil, err
			}

			if len(aggregate) > 0 {
				return nil, goerror.NewInvalidInput(aggregate)
			}

			return next(r)
		}
	}
}
