// Package db opens the article database and manages its schema.
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"news-site/internal/infra/adapter/persistence/sqlite"
	pkgconfig "news-site/pkg/config"
)

// Driver selects the SQL backend.
type Driver string

const (
	DriverPostgres Driver = "postgres"
	DriverSQLite   Driver = "sqlite"
)

// DefaultSQLiteDSN is used when DB_DRIVER=sqlite and DATABASE_URL is unset.
const DefaultSQLiteDSN = "file:news.db?_busy_timeout=5000&_journal_mode=WAL"

// ErrMissingDSN is returned when a PostgreSQL DSN is not configured.
var ErrMissingDSN = errors.New("DATABASE_URL not set")

// ParseDriver maps a DB_DRIVER value to a Driver.
func ParseDriver(s string) (Driver, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "postgres", "postgresql", "pgx":
		return DriverPostgres, nil
	case "sqlite", "sqlite3":
		return DriverSQLite, nil
	default:
		return "", fmt.Errorf("unsupported DB_DRIVER %q (want postgres or sqlite)", s)
	}
}

// sqlDriverName returns the database/sql driver registered for d.
func (d Driver) sqlDriverName() string {
	if d == DriverSQLite {
		return sqlite.DriverName
	}
	return "pgx"
}

// ConnectionConfig holds database connection pool configuration.
type ConnectionConfig struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// DefaultConnectionConfig returns the default connection pool configuration.
func DefaultConnectionConfig() ConnectionConfig {
	return ConnectionConfig{
		MaxOpenConns:    25,               // Maximum number of open connections
		MaxIdleConns:    10,               // Maximum number of idle connections
		ConnMaxLifetime: 1 * time.Hour,    // Maximum lifetime of a connection
		ConnMaxIdleTime: 30 * time.Minute, // Maximum idle time of a connection
	}
}

// Config describes how to reach the database.
type Config struct {
	Driver Driver
	DSN    string
	Pool   ConnectionConfig
}

// ConfigFromEnv reads DB_DRIVER, DATABASE_URL and the DB_* pool settings.
func ConfigFromEnv() (Config, error) {
	driver, err := ParseDriver(pkgconfig.GetEnvString("DB_DRIVER", string(DriverPostgres)))
	if err != nil {
		return Config{}, err
	}
	dsn := pkgconfig.GetEnvString("DATABASE_URL", "")
	if dsn == "" && driver == DriverSQLite {
		dsn = DefaultSQLiteDSN
	}
	return Config{Driver: driver, DSN: dsn, Pool: getConnectionConfigFromEnv()}, nil
}

// Open creates and configures a new database connection pool and verifies it with a ping.
func Open(ctx context.Context, cfg Config) (*sql.DB, error) {
	if cfg.DSN == "" {
		return nil, ErrMissingDSN
	}

	db, err := sql.Open(cfg.Driver.sqlDriverName(), cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	pool := cfg.Pool
	if cfg.Driver == DriverSQLite {
		// SQLite は単一ライターのため接続を 1 本に絞る
		pool.MaxOpenConns = 1
		pool.MaxIdleConns = 1
	}
	db.SetMaxOpenConns(pool.MaxOpenConns)
	db.SetMaxIdleConns(pool.MaxIdleConns)
	db.SetConnMaxLifetime(pool.ConnMaxLifetime)
	db.SetConnMaxIdleTime(pool.ConnMaxIdleTime)

	slog.Info("database connection pool configured",
		slog.String("driver", string(cfg.Driver)),
		slog.String("dsn", MaskDSN(cfg.DSN)),
		slog.Int("max_open_conns", pool.MaxOpenConns),
		slog.Int("max_idle_conns", pool.MaxIdleConns),
		slog.Duration("conn_max_lifetime", pool.ConnMaxLifetime),
		slog.Duration("conn_max_idle_time", pool.ConnMaxIdleTime))

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	slog.Info("database connection established successfully")
	return db, nil
}

// getConnectionConfigFromEnv reads connection pool configuration from environment variables.
// Falls back to default values if not set or not positive.
func getConnectionConfigFromEnv() ConnectionConfig {
	cfg := DefaultConnectionConfig()

	if v := pkgconfig.GetEnvInt("DB_MAX_OPEN_CONNS", cfg.MaxOpenConns); v > 0 {
		cfg.MaxOpenConns = v
	}
	if v := pkgconfig.GetEnvInt("DB_MAX_IDLE_CONNS", cfg.MaxIdleConns); v > 0 {
		cfg.MaxIdleConns = v
	}
	if v := pkgconfig.GetEnvDuration("DB_CONN_MAX_LIFETIME", cfg.ConnMaxLifetime); v > 0 {
		cfg.ConnMaxLifetime = v
	}
	if v := pkgconfig.GetEnvDuration("DB_CONN_MAX_IDLE_TIME", cfg.ConnMaxIdleTime); v > 0 {
		cfg.ConnMaxIdleTime = v
	}

	return cfg
}

var dsnPassword = regexp.MustCompile(`(://[^:/@]+:)[^@]+@`)

// MaskDSN hides the password of a URL-style DSN for logging.
func MaskDSN(dsn string) string {
	return dsnPassword.ReplaceAllString(dsn, "${1}****@")
}
