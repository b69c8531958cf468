package db

import (
	"context"
	"database/sql"
	"fmt"
)

var postgresSchema = []string{
	`
CREATE TABLE IF NOT EXISTS news_articles (
    id               BIGSERIAL PRIMARY KEY,
    title            VARCHAR(255) NOT NULL,
    slug             VARCHAR(255) NOT NULL UNIQUE,
    content          TEXT NOT NULL,
    image            VARCHAR(255),
    publication_date TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at       TIMESTAMPTZ NOT NULL DEFAULT now(),
    CONSTRAINT chk_news_articles_updated_at CHECK (updated_at >= publication_date)
)`,
	// ORDER BY publication_date DESC, id DESC で使用(一覧・トップページ)
	`CREATE INDEX IF NOT EXISTS idx_news_articles_publication_date ON news_articles(publication_date DESC, id DESC)`,
}

// pg_trgm がない環境ではエラーになるため結果は無視する
var postgresOptional = []string{
	`CREATE EXTENSION IF NOT EXISTS pg_trgm`,
	`CREATE INDEX IF NOT EXISTS idx_news_articles_title_gin ON news_articles USING gin(title gin_trgm_ops)`,
	`CREATE INDEX IF NOT EXISTS idx_news_articles_content_gin ON news_articles USING gin(content gin_trgm_ops)`,
}

var sqliteSchema = []string{
	`
CREATE TABLE IF NOT EXISTS news_articles (
    id               INTEGER PRIMARY KEY AUTOINCREMENT,
    title            TEXT NOT NULL CHECK (length(title) <= 255),
    slug             TEXT NOT NULL UNIQUE CHECK (length(slug) <= 255),
    content          TEXT NOT NULL,
    image            TEXT,
    publication_date TIMESTAMP NOT NULL,
    updated_at       TIMESTAMP NOT NULL
)`,
	`CREATE INDEX IF NOT EXISTS idx_news_articles_publication_date ON news_articles(publication_date DESC, id DESC)`,
}

// MigrateUp creates the news_articles schema for the given driver.
// Every statement is idempotent, so it is safe to run on each start.
func MigrateUp(ctx context.Context, db *sql.DB, driver Driver) error {
	var stmts, optional []string
	switch driver {
	case DriverPostgres:
		stmts, optional = postgresSchema, postgresOptional
	case DriverSQLite:
		stmts = sqliteSchema
	default:
		return fmt.Errorf("migrate: unsupported driver %q", driver)
	}

	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	for _, stmt := range optional {
		_, _ = db.ExecContext(ctx, stmt)
	}
	return nil
}

// MigrateDown drops the news_articles schema.
func MigrateDown(ctx context.Context, db *sql.DB) error {
	dropStatements := []string{
		`DROP INDEX IF EXISTS idx_news_articles_content_gin`,
		`DROP INDEX IF EXISTS idx_news_articles_title_gin`,
		`DROP INDEX IF EXISTS idx_news_articles_publication_date`,
		`DROP TABLE IF EXISTS news_articles`,
	}
	for _, stmt := range dropStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
