package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"

	"news-site/internal/domain/entity"
	"news-site/internal/pkg/search"
	"news-site/internal/repository"
)

// uniqueViolation is the SQLSTATE for unique_violation.
const uniqueViolation = "23505"

const articleColumns = `id, title, slug, content, image, publication_date, updated_at`

type ArticleRepo struct {
	db           repository.Querier
	queryBuilder *ArticleQueryBuilder
}

// NewArticleRepo creates a PostgreSQL-backed article repository.
// db is usually *sql.DB or a circuit breaker wrapping it.
func NewArticleRepo(db repository.Querier) repository.ArticleRepository {
	return &ArticleRepo{
		db:           db,
		queryBuilder: NewArticleQueryBuilder(),
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanArticle(s rowScanner) (*entity.Article, error) {
	var (
		article entity.Article
		image   sql.NullString
	)
	if err := s.Scan(&article.ID, &article.Title, &article.Slug, &article.Content,
		&image, &article.PublicationDate, &article.UpdatedAt); err != nil {
		return nil, err
	}
	article.Image = image.String
	return &article, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// isUniqueViolation recognises unique index violations from both pgx and lib/pq.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == uniqueViolation
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == uniqueViolation
	}
	return false
}

func (repo *ArticleRepo) queryArticles(ctx context.Context, op, query string, args ...interface{}) ([]*entity.Article, error) {
	rows, err := repo.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = rows.Close() }()

	articles := make([]*entity.Article, 0, 16)
	for rows.Next() {
		article, err := scanArticle(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: Scan: %w", op, err)
		}
		articles = append(articles, article)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows.Err: %w", op, err)
	}
	return articles, nil
}

func (repo *ArticleRepo) Get(ctx context.Context, id int64) (*entity.Article, error) {
	const query = `
SELECT ` + articleColumns + `
FROM news_articles
WHERE id = $1
LIMIT 1`
	article, err := scanArticle(repo.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("Get: %w", err)
	}
	return article, nil
}

func (repo *ArticleRepo) GetBySlug(ctx context.Context, slug string) (*entity.Article, error) {
	const query = `
SELECT ` + articleColumns + `
FROM news_articles
WHERE slug = $1
LIMIT 1`
	article, err := scanArticle(repo.db.QueryRowContext(ctx, query, slug))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("GetBySlug: %w", err)
	}
	return article, nil
}

func (repo *ArticleRepo) ListRecent(ctx context.Context, limit int) ([]*entity.Article, error) {
	const query = `
SELECT ` + articleColumns + `
FROM news_articles
ORDER BY publication_date DESC, id DESC
LIMIT $1`
	return repo.queryArticles(ctx, "ListRecent", query, limit)
}

// Search returns a page of articles matching filters, newest first.
func (repo *ArticleRepo) Search(ctx context.Context, filters repository.ArticleSearchFilters, offset, limit int) ([]*entity.Article, error) {
	ctx, cancel := context.WithTimeout(ctx, search.DefaultSearchTimeout)
	defer cancel()

	whereClause, args := repo.queryBuilder.BuildWhereClause(filters)
	paramIndex := len(args) + 1
	args = append(args, limit, offset)

	query := fmt.Sprintf(`
SELECT %s
FROM news_articles
%s
ORDER BY publication_date DESC, id DESC
LIMIT $%d OFFSET $%d`, articleColumns, whereClause, paramIndex, paramIndex+1)

	return repo.queryArticles(ctx, "Search", query, args...)
}

// Count returns the number of articles matching filters.
func (repo *ArticleRepo) Count(ctx context.Context, filters repository.ArticleSearchFilters) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, search.DefaultSearchTimeout)
	defer cancel()

	whereClause, args := repo.queryBuilder.BuildWhereClause(filters)
	query := "SELECT COUNT(*) FROM news_articles " + whereClause

	var count int64
	if err := repo.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("Count: %w", err)
	}
	return count, nil
}

func (repo *ArticleRepo) Create(ctx context.Context, article *entity.Article) error {
	const query = `
INSERT INTO news_articles
       (title, slug, content, image, publication_date, updated_at)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id`
	err := repo.db.QueryRowContext(ctx, query,
		article.Title, article.Slug, article.Content,
		nullString(article.Image), article.PublicationDate, article.UpdatedAt,
	).Scan(&article.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("Create: %w", repository.ErrSlugConflict)
		}
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

// Update persists title, slug, content, image and updated_at.
// publication_date is never written after creation.
func (repo *ArticleRepo) Update(ctx context.Context, article *entity.Article) error {
	const query = `
UPDATE news_articles SET
       title      = $1,
       slug       = $2,
       content    = $3,
       image      = $4,
       updated_at = $5
WHERE id = $6`
	res, err := repo.db.ExecContext(ctx, query,
		article.Title, article.Slug, article.Content,
		nullString(article.Image), article.UpdatedAt, article.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("Update: %w", repository.ErrSlugConflict)
		}
		return fmt.Errorf("Update: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("Update: %w", repository.ErrNotFound)
	}
	return nil
}

func (repo *ArticleRepo) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM news_articles WHERE id = $1`
	res, err := repo.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("Delete: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("Delete: %w", repository.ErrNotFound)
	}
	return nil
}

// DeleteBatch はまとめて削除し、削除件数を返す
func (repo *ArticleRepo) DeleteBatch(ctx context.Context, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	const query = `DELETE FROM news_articles WHERE id = ANY($1)`
	res, err := repo.db.ExecContext(ctx, query, pq.Array(ids))
	if err != nil {
		return 0, fmt.Errorf("DeleteBatch: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("DeleteBatch: RowsAffected: %w", err)
	}
	return n, nil
}

func (repo *ArticleRepo) ExistsBySlug(ctx context.Context, slug string, excludeID int64) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM news_articles WHERE slug = $1 AND id <> $2)`
	var existsFlag bool
	err := repo.db.QueryRowContext(ctx, query, slug, excludeID).Scan(&existsFlag)
	if err != nil {
		return false, fmt.Errorf("ExistsBySlug: %w", err)
	}
	return existsFlag, nil
}
