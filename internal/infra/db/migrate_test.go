package db

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrateUp_Postgres(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS news_articles")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("CREATE INDEX IF NOT EXISTS idx_news_articles_publication_date")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("CREATE EXTENSION IF NOT EXISTS pg_trgm")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("idx_news_articles_title_gin")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("idx_news_articles_content_gin")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, MigrateUp(context.Background(), db, DriverPostgres))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrateUp_PostgresWithoutTrigram(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	// pg_trgm が使えなくてもマイグレーションは成功する
	extErr := errors.New(`permission denied to create extension "pg_trgm"`)
	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS news_articles")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("CREATE INDEX IF NOT EXISTS idx_news_articles_publication_date")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("CREATE EXTENSION IF NOT EXISTS pg_trgm")).WillReturnError(extErr)
	mock.ExpectExec(regexp.QuoteMeta("idx_news_articles_title_gin")).WillReturnError(extErr)
	mock.ExpectExec(regexp.QuoteMeta("idx_news_articles_content_gin")).WillReturnError(extErr)

	require.NoError(t, MigrateUp(context.Background(), db, DriverPostgres))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrateUp_TableError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS news_articles")).
		WillReturnError(errors.New("syntax error"))

	err = MigrateUp(context.Background(), db, DriverPostgres)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "syntax error")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrateUp_SQLite(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectExec(regexp.QuoteMeta("INTEGER PRIMARY KEY AUTOINCREMENT")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("CREATE INDEX IF NOT EXISTS idx_news_articles_publication_date")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, MigrateUp(context.Background(), db, DriverSQLite))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrateUp_UnsupportedDriver(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	err = MigrateUp(context.Background(), db, Driver("mysql"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported driver")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrateDown(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	for _, stmt := range []string{
		"DROP INDEX IF EXISTS idx_news_articles_content_gin",
		"DROP INDEX IF EXISTS idx_news_articles_title_gin",
		"DROP INDEX IF EXISTS idx_news_articles_publication_date",
		"DROP TABLE IF EXISTS news_articles",
	} {
		mock.ExpectExec(regexp.QuoteMeta(stmt)).WillReturnResult(sqlmock.NewResult(0, 0))
	}

	require.NoError(t, MigrateDown(context.Background(), db))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrateDown_Error(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectExec(regexp.QuoteMeta("DROP INDEX IF EXISTS idx_news_articles_content_gin")).
		WillReturnError(errors.New("locked"))

	assert.Error(t, MigrateDown(context.Background(), db))
	assert.NoError(t, mock.ExpectationsWereMet())
}

/* ───── SQLite 実 DB ───── */

func TestMigrateUp_SQLiteInMemory(t *testing.T) {
	ctx := context.Background()
	conn, err := Open(ctx, Config{Driver: DriverSQLite, DSN: ":memory:", Pool: DefaultConnectionConfig()})
	if err != nil {
		t.Skipf("sqlite unavailable: %v", err)
	}
	defer func() { _ = conn.Close() }()

	require.NoError(t, MigrateUp(ctx, conn, DriverSQLite))
	// 2 回目も成功すること
	require.NoError(t, MigrateUp(ctx, conn, DriverSQLite))

	_, err = conn.ExecContext(ctx,
		`INSERT INTO news_articles (title, slug, content, publication_date, updated_at)
		 VALUES ('Hello', 'hello', 'body', '2024-01-01 00:00:00', '2024-01-01 00:00:00')`)
	require.NoError(t, err)

	_, err = conn.ExecContext(ctx,
		`INSERT INTO news_articles (title, slug, content, publication_date, updated_at)
		 VALUES ('Hello again', 'hello', 'body', '2024-01-02 00:00:00', '2024-01-02 00:00:00')`)
	assert.Error(t, err, "duplicate slug must be rejected")

	require.NoError(t, MigrateDown(ctx, conn))
}
