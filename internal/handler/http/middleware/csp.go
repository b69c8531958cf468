package middleware

import (
	"net/http"
	"strings"

	pkgconfig "news-site/pkg/config"
	"news-site/pkg/security/csp"
)

// SecurityHeaders sets Content-Security-Policy and the usual hardening headers.
// The policy is chosen by the longest matching prefix in pathPolicies, else defaultPolicy.
// Header values are rendered once at construction.
func SecurityHeaders(cfg pkgconfig.CSPConfig, defaultPolicy *csp.CSPBuilder, pathPolicies map[string]*csp.CSPBuilder) func(http.Handler) http.Handler {
	type rendered struct {
		prefix string
		header string
		value  string
	}
	render := func(prefix string, b *csp.CSPBuilder) rendered {
		b.ReportOnly(cfg.ReportOnly)
		return rendered{prefix: prefix, header: b.HeaderName(), value: b.Build()}
	}

	var fallback *rendered
	if defaultPolicy != nil {
		r := render("", defaultPolicy)
		fallback = &r
	}
	policies := make([]rendered, 0, len(pathPolicies))
	for prefix, b := range pathPolicies {
		policies = append(policies, render(prefix, b))
	}

	selectPolicy := func(path string) *rendered {
		var best *rendered
		for i := range policies {
			p := &policies[i]
			if strings.HasPrefix(path, p.prefix) && (best == nil || len(p.prefix) > len(best.prefix)) {
				best = p
			}
		}
		if best != nil {
			return best
		}
		return fallback
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("X-Frame-Options", "DENY")
			h.Set("Referrer-Policy", "strict-origin-when-cross-origin")

			if cfg.Enabled {
				if p := selectPolicy(r.URL.Path); p != nil && p.value != "" {
					h.Set(p.header, p.value)
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}
