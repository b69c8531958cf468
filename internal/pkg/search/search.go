// Package search holds helpers shared by the SQL adapters for the admin article search.
package search

import (
	"strings"
	"time"
)

// DefaultSearchTimeout bounds a single admin search or count query.
const DefaultSearchTimeout = 5 * time.Second

// LikeEscapeChar is the escape character declared in LIKE ... ESCAPE clauses.
const LikeEscapeChar = `\`

var likeEscaper = strings.NewReplacer(
	`\`, `\\`,
	`%`, `\%`,
	`_`, `\_`,
)

// EscapeLike escapes LIKE/ILIKE wildcards in keyword and wraps it in %...%
// so the keyword matches as a literal substring.
func EscapeLike(keyword string) string {
	return "%" + likeEscaper.Replace(keyword) + "%"
}
