package circuitbreaker

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockBreaker(t *testing.T, cfg Config) (*DBCircuitBreaker, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewDBCircuitBreakerWithConfig(db, cfg), mock
}

func TestDBConfig(t *testing.T) {
	cfg := DBConfig()

	assert.Equal(t, "database", cfg.Name)
	assert.Equal(t, uint32(3), cfg.MaxRequests)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.Equal(t, uint32(5), cfg.MinRequests)
	assert.InDelta(t, 1.0, cfg.FailureThreshold, 1e-9)
	assert.NotNil(t, cfg.IsSuccessful)
}

func TestNewDBCircuitBreaker(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	dcb := NewDBCircuitBreaker(db)

	assert.Same(t, db, dcb.DB())
	assert.Equal(t, gobreaker.StateClosed, dcb.State())
	assert.Equal(t, 0, dcb.Stats().InUse)
}

func TestDBCircuitBreaker_QueryContext(t *testing.T) {
	dcb, mock := newMockBreaker(t, DBConfig())
	mock.ExpectQuery("SELECT id, slug FROM news_articles").
		WillReturnRows(sqlmock.NewRows([]string{"id", "slug"}).AddRow(1, "hello-world"))

	rows, err := dcb.QueryContext(context.Background(), "SELECT id, slug FROM news_articles ORDER BY publication_date DESC LIMIT $1", 12)
	require.NoError(t, err)
	defer func() { _ = rows.Close() }()

	require.True(t, rows.Next())
	var (
		id   int64
		slug string
	)
	require.NoError(t, rows.Scan(&id, &slug))
	assert.Equal(t, int64(1), id)
	assert.Equal(t, "hello-world", slug)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDBCircuitBreaker_ExecContext(t *testing.T) {
	dcb, mock := newMockBreaker(t, DBConfig())
	mock.ExpectExec("DELETE FROM news_articles").WithArgs(7).WillReturnResult(sqlmock.NewResult(0, 1))

	res, err := dcb.ExecContext(context.Background(), "DELETE FROM news_articles WHERE id = $1", 7)
	require.NoError(t, err)
	n, err := res.RowsAffected()
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestDBCircuitBreaker_OpensAfterConsecutiveFailures(t *testing.T) {
	dcb, mock := newMockBreaker(t, DBConfig())
	down := errors.New("connection refused")
	for range 5 {
		mock.ExpectQuery("SELECT").WillReturnError(down)
	}

	for i := range 5 {
		_, err := dcb.QueryContext(context.Background(), "SELECT 1")
		require.ErrorIs(t, err, down, "attempt %d", i+1)
	}
	require.True(t, dcb.IsOpen())

	// 開いている間はクエリを発行しない
	_, err := dcb.QueryContext(context.Background(), "SELECT 1")
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	_, err = dcb.ExecContext(context.Background(), "DELETE FROM news_articles")
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDBCircuitBreaker_HalfOpenAfterTimeout(t *testing.T) {
	cfg := DBConfig()
	cfg.Timeout = 50 * time.Millisecond
	cfg.MaxRequests = 1
	dcb, mock := newMockBreaker(t, cfg)

	for range 5 {
		mock.ExpectExec("UPDATE").WillReturnError(errors.New("timeout"))
	}
	for range 5 {
		_, _ = dcb.ExecContext(context.Background(), "UPDATE news_articles SET title = $1", "x")
	}
	require.True(t, dcb.IsOpen())

	time.Sleep(80 * time.Millisecond)
	mock.ExpectExec("UPDATE").WillReturnResult(sqlmock.NewResult(0, 1))

	_, err := dcb.ExecContext(context.Background(), "UPDATE news_articles SET title = $1", "x")
	require.NoError(t, err)
	assert.Equal(t, gobreaker.StateClosed, dcb.State())
}

func TestDBCircuitBreaker_ConstraintViolationDoesNotTrip(t *testing.T) {
	dcb, mock := newMockBreaker(t, DBConfig())
	dup := &pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"}
	for range 8 {
		mock.ExpectExec("UPDATE news_articles").WillReturnError(dup)
	}

	for range 8 {
		_, err := dcb.ExecContext(context.Background(), "UPDATE news_articles SET slug = $1 WHERE id = $2", "taken", 1)
		var pgErr *pgconn.PgError
		require.ErrorAs(t, err, &pgErr)
	}
	assert.False(t, dcb.IsOpen())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDBCircuitBreaker_QueryRowContextBypassesBreaker(t *testing.T) {
	dcb, mock := newMockBreaker(t, DBConfig())
	mock.ExpectQuery("SELECT COUNT").WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(42))

	var n int64
	require.NoError(t, dcb.QueryRowContext(context.Background(), "SELECT COUNT(*) FROM news_articles").Scan(&n))
	assert.Equal(t, int64(42), n)
}

func TestDBCircuitBreaker_PingContext(t *testing.T) {
	// Ping を監視するには生成時にオプションが必要
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	dcb := NewDBCircuitBreaker(db)
	mock.ExpectPing()
	mock.ExpectPing().WillReturnError(errors.New("down"))

	require.NoError(t, dcb.PingContext(context.Background()))
	assert.Error(t, dcb.PingContext(context.Background()))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestIsHealthyDBResult(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, true},
		{"no rows", sql.ErrNoRows, true},
		{"wrapped no rows", fmt.Errorf("get: %w", sql.ErrNoRows), true},
		{"canceled", context.Canceled, true},
		{"pgx unique violation", &pgconn.PgError{Code: "23505"}, true},
		{"pgx invalid text", &pgconn.PgError{Code: "22P02"}, true},
		{"pgx admin shutdown", &pgconn.PgError{Code: "57P01"}, false},
		{"pq unique violation", &pq.Error{Code: "23505"}, true},
		{"pq connection failure", &pq.Error{Code: "08006"}, false},
		{"sqlite constraint", sqlite3.Error{Code: sqlite3.ErrConstraint}, true},
		{"sqlite busy", sqlite3.Error{Code: sqlite3.ErrBusy}, false},
		{"deadline", context.DeadlineExceeded, false},
		{"generic", errors.New("connection refused"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isHealthyDBResult(tt.err))
		})
	}
}
