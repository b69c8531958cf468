package pathutil

import (
	"regexp"
	"strings"
)

// PathPattern maps a dynamic route to its metrics label.
type PathPattern struct {
	Pattern  *regexp.Regexp
	Template string
}

var pathPatterns = []*PathPattern{
	{Pattern: regexp.MustCompile(`^/news/[^/]+$`), Template: "/news/:slug"},
	{Pattern: regexp.MustCompile(`^/admin/articles/\d+$`), Template: "/admin/articles/:id"},
	{Pattern: regexp.MustCompile(`^/media/.+$`), Template: "/media/*"},
	{Pattern: regexp.MustCompile(`^/static/.+$`), Template: "/static/*"},
	{Pattern: regexp.MustCompile(`^/swagger/.*$`), Template: "/swagger/*"},
}

// staticPaths are routes whose path is already a bounded label.
var staticPaths = map[string]struct{}{
	"/":                           {},
	"/about":                      {},
	"/contacts":                   {},
	"/activities":                 {},
	"/health":                     {},
	"/ready":                      {},
	"/live":                       {},
	"/metrics":                    {},
	"/admin/articles":             {},
	"/admin/articles/bulk-delete": {},
	"/admin/articles/schema":      {},
	"/admin/slugify":              {},
}

// UnmatchedPath is the label for any path that is not a known route.
const UnmatchedPath = "unmatched"

// NormalizePath turns a request path into a bounded metrics label.
// Query strings and a trailing slash are ignored; unknown paths collapse to UnmatchedPath
// so that crawlers probing random URLs cannot grow label cardinality.
//
//	NormalizePath("/news/hello-world/")    // "/news/:slug"
//	NormalizePath("/admin/articles/42")    // "/admin/articles/:id"
//	NormalizePath("/wp-login.php")         // "unmatched"
func NormalizePath(path string) string {
	if idx := strings.IndexByte(path, '?'); idx != -1 {
		path = path[:idx]
	}
	if len(path) > 1 && path[len(path)-1] == '/' {
		path = path[:len(path)-1]
	}

	if _, ok := staticPaths[path]; ok {
		return path
	}
	for _, p := range pathPatterns {
		if p.Pattern.MatchString(path) {
			return p.Template
		}
	}
	return UnmatchedPath
}
