package http

import (
	"net/http"

	"news-site/internal/handler/http/respond"
)

const (
	maxPathLength  = 2048
	maxQueryLength = 4096
)

// InputValidation returns middleware that rejects oversized request lines:
// paths over 2KB (414) and query strings over 4KB (414).
func InputValidation() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(r.URL.Path) > maxPathLength {
				respond.JSON(w, http.StatusRequestURITooLong, respond.ErrorBody{Error: "URI too long"})
				return
			}
			if len(r.URL.RawQuery) > maxQueryLength {
				respond.JSON(w, http.StatusRequestURITooLong, respond.ErrorBody{Error: "query string too long"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
