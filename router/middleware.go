package router

import "net/http"

// Middleware decorates an http.Handler with additional behavior.
type Middleware func(next http.Handler) http.Handler

// Chain wraps h with mws so that the first middleware listed runs first.
func Chain(h http.Handler, mws ...Middleware) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}
