package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"news-site/internal/common/pagination"
	"news-site/internal/config"
	pgRepo "news-site/internal/infra/adapter/persistence/postgres"
	sqliteRepo "news-site/internal/infra/adapter/persistence/sqlite"
	"news-site/internal/infra/db"
	"news-site/internal/infra/storage"
	"news-site/internal/infra/worker"
	"news-site/internal/observability/logging"
	"news-site/internal/observability/tracing"
	"news-site/internal/repository"
	"news-site/internal/resilience/circuitbreaker"
	"news-site/internal/resilience/retry"
	artUC "news-site/internal/usecase/article"
	pkgconfig "news-site/pkg/config"

	_ "news-site/docs" // swagger docs
)

// @title           News Site Admin API
// @version         1.0
// @description     ニュース記事の管理 API。記事の作成・更新・削除、一覧検索、slug プレビューを提供します。

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @BasePath  /

const serviceName = "news-site"

// appConfig holds the process level settings read from the environment.
type appConfig struct {
	HTTPAddr       string
	AdminAddr      string
	AdminEnabled   bool
	MediaRoot      string
	MediaURL       string
	SiteConfig     string
	RequestTimeout time.Duration
	Version        string
}

func loadAppConfig() appConfig {
	return appConfig{
		HTTPAddr:       pkgconfig.GetEnvString("HTTP_ADDR", ":8080"),
		AdminAddr:      pkgconfig.GetEnvString("ADMIN_ADDR", "127.0.0.1:8081"),
		AdminEnabled:   pkgconfig.GetEnvBool("ADMIN_ENABLED", true),
		MediaRoot:      pkgconfig.GetEnvString("MEDIA_ROOT", "./media"),
		MediaURL:       pkgconfig.GetEnvString("MEDIA_URL", "/media/"),
		SiteConfig:     pkgconfig.GetEnvString("SITE_CONFIG", ""),
		RequestTimeout: pkgconfig.GetEnvDuration("REQUEST_TIMEOUT", 15*time.Second),
		Version:        pkgconfig.GetEnvString("VERSION", "dev"),
	}
}

func main() {
	logger := logging.NewLogger()
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, logger, loadAppConfig()); err != nil {
		logger.Error("server exited with error", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger, cfg appConfig) error {
	if err := pkgconfig.ValidateDurationRange(cfg.RequestTimeout, time.Second, 5*time.Minute); err != nil {
		return fmt.Errorf("invalid REQUEST_TIMEOUT: %w", err)
	}

	shutdownTracer := tracing.InitTracer(serviceName, cfg.Version)
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracer(sctx); err != nil {
			logger.Warn("tracer shutdown failed", slog.Any("error", err))
		}
	}()

	site, err := config.LoadSiteConfig(cfg.SiteConfig)
	if err != nil {
		return fmt.Errorf("load site config: %w", err)
	}

	images, err := storage.NewLocalStorage(cfg.MediaRoot, cfg.MediaURL)
	if err != nil {
		return fmt.Errorf("init media storage: %w", err)
	}

	database, driver, err := initDatabase(ctx, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", slog.Any("error", err))
		}
	}()

	breaker := circuitbreaker.NewDBCircuitBreaker(database)
	paginationCfg := pagination.LoadFromEnv()
	svc := &artUC.Service{
		Repo:       newArticleRepo(driver, breaker),
		Assets:     images,
		Pagination: paginationCfg,
	}

	public, err := setupPublicServer(logger, cfg, svc, images, site, breaker)
	if err != nil {
		return err
	}

	refresherMetrics := worker.NewRefresherMetrics(prometheus.DefaultRegisterer)
	refresher := &worker.StatsRefresher{
		Articles: svc,
		Pool:     breaker,
		Config:   worker.LoadConfigFromEnv(logger, refresherMetrics),
		Metrics:  refresherMetrics,
		Logger:   logger,
	}

	g, gctx := errgroup.WithContext(ctx)
	servers := []*http.Server{newHTTPServer(gctx, cfg.HTTPAddr, public)}

	if cfg.AdminEnabled {
		admin, err := setupAdminServer(logger, cfg, svc, images, paginationCfg, breaker)
		if err != nil {
			return err
		}
		servers = append(servers, newHTTPServer(gctx, cfg.AdminAddr, admin.Handler))
		if admin.Limiter != nil {
			g.Go(func() error {
				admin.Limiter.StartCleanup(gctx)
				return nil
			})
		}
	} else {
		logger.Info("admin listener disabled")
	}

	if refresher.Config.Enabled {
		g.Go(func() error { return refresher.Run(gctx) })
	} else {
		logger.Info("stats refresher disabled")
	}

	for _, srv := range servers {
		g.Go(func() error {
			logger.Info("server starting",
				slog.String("addr", srv.Addr),
				slog.String("version", cfg.Version))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("listen %s: %w", srv.Addr, err)
			}
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down servers...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		var errs []error
		for _, srv := range servers {
			if err := srv.Shutdown(shutdownCtx); err != nil {
				errs = append(errs, fmt.Errorf("shutdown %s: %w", srv.Addr, err))
			}
		}
		logger.Info("servers stopped")
		return errors.Join(errs...)
	})

	return g.Wait()
}

// initDatabase opens the database, waiting for it to come up, and runs migrations.
func initDatabase(ctx context.Context, logger *slog.Logger) (*sql.DB, db.Driver, error) {
	dbCfg, err := db.ConfigFromEnv()
	if err != nil {
		return nil, "", err
	}

	var database *sql.DB
	err = retry.WithBackoff(ctx, retry.DBConnectConfig(), func() error {
		var openErr error
		database, openErr = db.Open(ctx, dbCfg)
		return openErr
	})
	if err != nil {
		return nil, "", fmt.Errorf("connect database: %w", err)
	}

	if err := db.MigrateUp(ctx, database, dbCfg.Driver); err != nil {
		_ = database.Close()
		return nil, "", fmt.Errorf("migrate database: %w", err)
	}
	logger.Info("database ready", slog.String("driver", string(dbCfg.Driver)))
	return database, dbCfg.Driver, nil
}

func newArticleRepo(driver db.Driver, q repository.Querier) repository.ArticleRepository {
	if driver == db.DriverSQLite {
		return sqliteRepo.NewArticleRepo(q)
	}
	return pgRepo.NewArticleRepo(q)
}

func newHTTPServer(ctx context.Context, addr string, h http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second, // Slowloris 対策
		IdleTimeout:       2 * time.Minute,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}
}
