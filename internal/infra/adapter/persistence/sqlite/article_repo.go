// Package sqlite provides SQLite implementations of repository interfaces.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/mattn/go-sqlite3"

	"news-site/internal/domain/entity"
	"news-site/internal/pkg/search"
	"news-site/internal/repository"
)

// SQLiteのプレースホルダ上限は999
// 参考: https://www.sqlite.org/limits.html#max_variable_number
const maxPlaceholders = 999

const articleColumns = `id, title, slug, content, image, publication_date, updated_at`

// ArticleRepo implements the ArticleRepository interface using SQLite.
type ArticleRepo struct {
	db           repository.Querier
	queryBuilder *ArticleQueryBuilder
}

// NewArticleRepo creates a new SQLite-backed article repository.
func NewArticleRepo(db repository.Querier) repository.ArticleRepository {
	return &ArticleRepo{db: db, queryBuilder: NewArticleQueryBuilder()}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanArticle(s rowScanner) (*entity.Article, error) {
	var (
		article entity.Article
		image   sql.NullString
	)
	err := s.Scan(&article.ID,
		&article.Title, &article.Slug,
		&article.Content, &image,
		&article.PublicationDate, &article.UpdatedAt)
	if err != nil {
		return nil, err
	}
	article.Image = image.String
	return &article, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	}
	return false
}

func (repo *ArticleRepo) queryArticles(ctx context.Context, op, query string, args ...interface{}) ([]*entity.Article, error) {
	rows, err := repo.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: QueryContext: %w", op, err)
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

// Get retrieves an article by ID. Returns (nil, nil) when absent.
func (repo *ArticleRepo) Get(ctx context.Context, id int64) (*entity.Article, error) {
	const query = `
SELECT ` + articleColumns + `
FROM news_articles
WHERE id = ?
LIMIT 1
`
	article, err := scanArticle(repo.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("Get: QueryRowContext: %w", err)
	}
	return article, nil
}

// GetBySlug retrieves an article by its exact slug. Returns (nil, nil) when absent.
func (repo *ArticleRepo) GetBySlug(ctx context.Context, slug string) (*entity.Article, error) {
	const query = `
SELECT ` + articleColumns + `
FROM news_articles
WHERE slug = ?
LIMIT 1
`
	article, err := scanArticle(repo.db.QueryRowContext(ctx, query, slug))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("GetBySlug: QueryRowContext: %w", err)
	}
	return article, nil
}

// ListRecent retrieves up to limit articles ordered by publication date (newest first).
func (repo *ArticleRepo) ListRecent(ctx context.Context, limit int) ([]*entity.Article, error) {
	const query = `
SELECT ` + articleColumns + `
FROM news_articles
ORDER BY publication_date DESC, id DESC
LIMIT ?
`
	return repo.queryArticles(ctx, "ListRecent", query, limit)
}

// Search returns a page of articles matching filters, newest first.
func (repo *ArticleRepo) Search(ctx context.Context, filters repository.ArticleSearchFilters, offset, limit int) ([]*entity.Article, error) {
	ctx, cancel := context.WithTimeout(ctx, search.DefaultSearchTimeout)
	defer cancel()

	whereClause, args := repo.queryBuilder.BuildWhereClause(filters)
	args = append(args, limit, offset)

	query := `
SELECT ` + articleColumns + `
FROM news_articles
` + whereClause + `
ORDER BY publication_date DESC, id DESC
LIMIT ? OFFSET ?
`
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
		return 0, fmt.Errorf("Count: QueryRowContext: %w", err)
	}
	return count, nil
}

// Create inserts a new article and sets its ID from the last insert rowid.
func (repo *ArticleRepo) Create(ctx context.Context, article *entity.Article) error {
	const query = `
INSERT INTO news_articles
(title, slug, content, image, publication_date, updated_at)
VALUES (?, ?, ?, ?, ?, ?)
`
	res, err := repo.db.ExecContext(ctx, query,
		article.Title, article.Slug, article.Content,
		nullString(article.Image), article.PublicationDate, article.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("Create: %w", repository.ErrSlugConflict)
		}
		return fmt.Errorf("Create: ExecContext: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("Create: LastInsertId: %w", err)
	}
	article.ID = id
	return nil
}

// Update persists the mutable columns of an article.
func (repo *ArticleRepo) Update(ctx context.Context, article *entity.Article) error {
	const query = `
UPDATE news_articles SET
title = ?, slug = ?, content = ?, image = ?, updated_at = ?
WHERE id = ?
`
	res, err := repo.db.ExecContext(ctx, query,
		article.Title, article.Slug, article.Content,
		nullString(article.Image), article.UpdatedAt, article.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("Update: %w", repository.ErrSlugConflict)
		}
		return fmt.Errorf("Update: ExecContext: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("Update: RowsAffected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("Update: %w", repository.ErrNotFound)
	}
	return nil
}

// Delete removes an article by ID.
func (repo *ArticleRepo) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM news_articles WHERE id = ?`

	res, err := repo.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("Delete: ExecContext: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("Delete: RowsAffected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("Delete: %w", repository.ErrNotFound)
	}
	return nil
}

// DeleteBatch removes every listed article in one statement.
func (repo *ArticleRepo) DeleteBatch(ctx context.Context, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	if len(ids) > maxPlaceholders {
		return 0, fmt.Errorf("DeleteBatch: too many IDs (%d > %d)", len(ids), maxPlaceholders)
	}

	// placeholders は "?" のみなので文字列連結しても安全
	placeholders := make([]string, len(ids))
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		placeholders[i] = "?"
		args[i] = id
	}
	query := "DELETE FROM news_articles WHERE id IN (" + strings.Join(placeholders, ",") + ")"

	res, err := repo.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("DeleteBatch: ExecContext: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("DeleteBatch: RowsAffected: %w", err)
	}
	return n, nil
}

// ExistsBySlug checks whether another article already uses slug.
func (repo *ArticleRepo) ExistsBySlug(ctx context.Context, slug string, excludeID int64) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM news_articles WHERE slug = ? AND id <> ?)`

	var exists bool
	if err := repo.db.QueryRowContext(ctx, query, slug, excludeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("ExistsBySlug: QueryRowContext: %w", err)
	}
	return exists, nil
}
