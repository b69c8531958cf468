package repository

import (
	"context"
	"database/sql"
	"time"

	"news-site/internal/domain/entity"
)

// Querier is the subset of *sql.DB used by the persistence adapters.
// circuitbreaker.DBCircuitBreaker satisfies it as well.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// ArticleSearchFilters contains optional filters for the admin article list
type ArticleSearchFilters struct {
	Keywords []string   // Optional: every keyword must match title or content
	From     *time.Time // Optional: publication_date >= From
	To       *time.Time // Optional: publication_date <= To
}

type ArticleRepository interface {
	// Get returns (nil, nil) if the article is not found.
	Get(ctx context.Context, id int64) (*entity.Article, error)
	// GetBySlug returns (nil, nil) if no article has the slug.
	GetBySlug(ctx context.Context, slug string) (*entity.Article, error)
	// ListRecent returns up to limit articles ordered by publication_date DESC, id DESC.
	ListRecent(ctx context.Context, limit int) ([]*entity.Article, error)
	// Search returns a page of articles matching filters in the default ordering.
	// An empty filter matches every article.
	Search(ctx context.Context, filters ArticleSearchFilters, offset, limit int) ([]*entity.Article, error)
	// Count returns the number of articles matching filters.
	Count(ctx context.Context, filters ArticleSearchFilters) (int64, error)
	// Create inserts the article and sets its ID.
	// Returns ErrSlugConflict when the slug is already taken.
	Create(ctx context.Context, article *entity.Article) error
	// Update persists every mutable column.
	// Returns ErrNotFound when no row matched, ErrSlugConflict on a duplicate slug.
	Update(ctx context.Context, article *entity.Article) error
	// Delete returns ErrNotFound when no row matched.
	Delete(ctx context.Context, id int64) error
	// DeleteBatch removes every listed article and returns the number of rows deleted.
	DeleteBatch(ctx context.Context, ids []int64) (int64, error)
	// ExistsBySlug checks slug usage, ignoring the article with excludeID (0 to check all).
	ExistsBySlug(ctx context.Context, slug string, excludeID int64) (bool, error)
}
