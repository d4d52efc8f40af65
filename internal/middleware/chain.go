package middleware

import (
	"net/http"
	"slices"
)

// Chain wraps h so the middlewares run in the order given, first outermost.
func Chain(h http.Handler, middlewares ...func(http.Handler) http.Handler) http.Handler {
	for _, m := range slices.Backward(middlewares) {
		h = m(h)
	}
	return h
}
