// Package postgres provides PostgreSQL implementations of repository interfaces.
package postgres

import (
	"fmt"
	"strings"

	"news-site/internal/pkg/search"
	"news-site/internal/repository"
)

// ArticleQueryBuilder builds WHERE clauses for the admin article search in PostgreSQL.
// The builder is shared between COUNT and SELECT queries.
// It uses ILIKE and numbered placeholders ($1, $2, etc.).
type ArticleQueryBuilder struct{}

// NewArticleQueryBuilder creates a new query builder instance.
func NewArticleQueryBuilder() *ArticleQueryBuilder {
	return &ArticleQueryBuilder{}
}

// BuildWhereClause builds the WHERE clause and arguments for article search.
// Each keyword must match title or content (AND across keywords); From/To
// bound publication_date. Returns an empty clause when filters are empty.
func (qb *ArticleQueryBuilder) BuildWhereClause(filters repository.ArticleSearchFilters) (clause string, args []interface{}) {
	var conditions []string
	paramIndex := 1

	for _, keyword := range filters.Keywords {
		conditions = append(conditions, fmt.Sprintf(
			`(title ILIKE $%d ESCAPE '%s' OR content ILIKE $%d ESCAPE '%s')`,
			paramIndex, search.LikeEscapeChar, paramIndex, search.LikeEscapeChar))
		args = append(args, search.EscapeLike(keyword))
		paramIndex++
	}

	if filters.From != nil {
		conditions = append(conditions, fmt.Sprintf("publication_date >= $%d", paramIndex))
		args = append(args, *filters.From)
		paramIndex++
	}
	if filters.To != nil {
		conditions = append(conditions, fmt.Sprintf("publication_date <= $%d", paramIndex))
		args = append(args, *filters.To)
	}

	if len(conditions) == 0 {
		return "", args
	}
	return "WHERE " + strings.Join(conditions, " AND "), args
}
