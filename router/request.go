package router

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/shandysiswandi/govalid/goerror"
	"github.com/spf13/cast"
)

// Request wraps http.Request with the three request sections validation works
// on: path parameters, query string, and body.
//
// Each section is a layered value. Reads return the validated override when
// one has been stored (by validation middleware via the Set methods) and fall
// back to deriving the section from the underlying request otherwise. The
// override slots live on the Request itself, so nothing is shared between
// requests and a request that never went through validation keeps the derived
// behavior.
type Request struct {
	// Request is the underlying http.Request.
	*http.Request

	params map[string]any
	query  map[string]any
	body   map[string]any

	bodyRead bool
	bodyRaw  map[string]any
	bodyErr  error
}

// NewRequest wraps an http.Request.
func NewRequest(r *http.Request) *Request {
	return &Request{Request: r}
}

// Params returns the path parameters section, derived from the matched route
// parameters unless an override has been set.
func (r *Request) Params() map[string]any {
	if r.params != nil {
		return r.params
	}

	ps := httprouter.ParamsFromContext(r.Context())
	out := make(map[string]any, len(ps))
	for _, p := range ps {
		if p.Key == httprouter.MatchedRoutePathParam {
			continue
		}
		out[p.Key] = p.Value
	}
	return out
}

// SetParams stores the validated path parameters override.
func (r *Request) SetParams(m map[string]any) {
	r.params = m
}

// Query returns the query section, derived from the URL query string unless
// an override has been set. Repeated keys derive as a string slice, single
// keys as a plain string.
func (r *Request) Query() map[string]any {
	if r.query != nil {
		return r.query
	}

	q := r.URL.Query()
	out := make(map[string]any, len(q))
	for k, vs := range q {
		if len(vs) == 1 {
			out[k] = vs[0]
		} else {
			out[k] = vs
		}
	}
	return out
}

// SetQuery stores the validated query override.
func (r *Request) SetQuery(m map[string]any) {
	r.query = m
}

// Body returns the body section. Without an override the JSON body is decoded
// once and cached; an absent or empty body derives as an empty map. A body
// that is not a JSON object is a format error, not a validation failure.
func (r *Request) Body() (map[string]any, error) {
	if r.body != nil {
		return r.body, nil
	}

	if !r.bodyRead {
		r.bodyRead = true
		r.bodyRaw, r.bodyErr = r.decodeBody()
	}
	return r.bodyRaw, r.bodyErr
}

// SetBody stores the validated body override.
func (r *Request) SetBody(m map[string]any) {
	r.body = m
}

func (r *Request) decodeBody() (map[string]any, error) {
	if r.Request == nil || r.Request.Body == nil {
		return map[string]any{}, nil
	}

	dec := json.NewDecoder(r.Request.Body)

	var m map[string]any
	if err := dec.Decode(&m); err != nil {
		if errors.Is(err, io.EOF) {
			return map[string]any{}, nil
		}
		return nil, goerror.NewInvalidFormat()
	}

	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, goerror.NewInvalidFormat()
	}

	if m == nil {
		m = map[string]any{}
	}
	return m, nil
}

// GetParam reads a path parameter as a string.
func (r *Request) GetParam(key string) string {
	return cast.ToString(r.Params()[key])
}

// GetParamInt64 reads a path parameter as an int64.
func (r *Request) GetParamInt64(key string) (int64, error) {
	v, ok := r.Params()[key]
	if !ok {
		return 0, goerror.NewInvalidFormat("param must integer value")
	}

	value, err := cast.ToInt64E(v)
	if err != nil {
		return 0, goerror.NewInvalidFormat("param must integer value")
	}
	return value, nil
}

// GetQuery reads a query value as a trimmed string.
func (r *Request) GetQuery(key string) string {
	return strings.TrimSpace(cast.ToString(r.Query()[key]))
}

// GetQueryInt64 reads a query value as an int64; a missing key yields zero.
func (r *Request) GetQueryInt64(key string) (int64, error) {
	v, ok := r.Query()[key]
	if !ok {
		return 0, nil
	}

	value, err := cast.ToInt64E(v)
	if err != nil {
		return 0, goerror.NewInvalidFormat("Invalid query " + key)
	}
	return value, nil
}

// GetQueryDate reads a query value as a time in the given layout; a missing
// key yields the zero time.
func (r *Request) GetQueryDate(key, layout string) (time.Time, error) {
	v, ok := r.Query()[key]
	if !ok {
		return time.Time{}, nil
	}

	if t, isTime := v.(time.Time); isTime {
		return t, nil
	}

	value, err := time.Parse(layout, cast.ToString(v))
	if err != nil {
		return time.Time{}, goerror.NewInvalidFormat("Invalid query " + key)
	}
	return value, nil
}
