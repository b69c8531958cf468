package sqlite

import (
	"strings"

	"news-site/internal/pkg/search"
	"news-site/internal/repository"
)

// ArticleQueryBuilder builds WHERE clauses for the admin article search.
// Both sides are folded with LowerFunc so non-ASCII titles match regardless
// of case; keywords are matched as literal substrings via an explicit ESCAPE
// character.
type ArticleQueryBuilder struct{}

// NewArticleQueryBuilder creates a new query builder instance.
func NewArticleQueryBuilder() *ArticleQueryBuilder {
	return &ArticleQueryBuilder{}
}

// BuildWhereClause builds the WHERE clause and arguments for article search.
// Returns an empty clause when filters are empty.
func (qb *ArticleQueryBuilder) BuildWhereClause(filters repository.ArticleSearchFilters) (clause string, args []interface{}) {
	var conditions []string

	for _, keyword := range filters.Keywords {
		likePattern := search.EscapeLike(strings.ToLower(keyword))
		conditions = append(conditions,
			`(`+LowerFunc+`(title) LIKE ? ESCAPE '`+search.LikeEscapeChar+`' OR `+
				LowerFunc+`(content) LIKE ? ESCAPE '`+search.LikeEscapeChar+`')`)
		args = append(args, likePattern, likePattern)
	}

	// publication_date is stored as UTC text, so bounds must be in UTC for
	// the string comparison to order correctly.
	if filters.From != nil {
		conditions = append(conditions, "publication_date >= ?")
		args = append(args, filters.From.UTC())
	}
	if filters.To != nil {
		conditions = append(conditions, "publication_date <= ?")
		args = append(args, filters.To.UTC())
	}

	if len(conditions) == 0 {
		return "", args
	}
	return "WHERE " + strings.Join(conditions, " AND "), args
}
