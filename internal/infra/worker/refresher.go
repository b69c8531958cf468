package worker

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"news-site/internal/handler/http/respond"
	"news-site/internal/observability/metrics"
	"news-site/internal/pkg/config"
)

// ArticleCounter returns the number of stored articles.
type ArticleCounter interface {
	Count(ctx context.Context) (int64, error)
}

// PoolStats exposes connection pool statistics. *sql.DB satisfies it.
type PoolStats interface {
	Stats() sql.DBStats
}

// StatsRefresher periodically publishes the article count and pool usage.
type StatsRefresher struct {
	Articles ArticleCounter
	// Pool is optional.
	Pool    PoolStats
	Config  RefresherConfig
	Metrics *RefresherMetrics
	Logger  *slog.Logger
}

// RunOnce performs a single refresh bounded by Config.Timeout.
func (r *StatsRefresher) RunOnce(ctx context.Context) error {
	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, r.Config.Timeout)
	defer cancel()

	count, err := r.Articles.Count(ctx)
	if err != nil {
		r.Metrics.RecordRun(false, time.Since(start).Seconds())
		return fmt.Errorf("count articles: %w", err)
	}
	metrics.UpdateArticlesTotal(count)

	if r.Pool != nil {
		stats := r.Pool.Stats()
		metrics.UpdateDBConnectionStats(stats.InUse, stats.Idle)
	}

	r.Metrics.RecordRun(true, time.Since(start).Seconds())
	r.Logger.Debug("statistics refreshed",
		slog.Int64("articles", count),
		slog.Duration("duration", time.Since(start)))
	return nil
}

// Run refreshes once immediately, then on every tick of Config.Schedule until
// ctx is cancelled. It waits for an in-flight run before returning.
func (r *StatsRefresher) Run(ctx context.Context) error {
	sched, err := config.ParseCronSchedule(r.Config.Schedule)
	if err != nil {
		return err
	}
	loc, err := time.LoadLocation(r.Config.Timezone)
	if err != nil {
		r.Logger.Error("invalid timezone, using UTC",
			slog.String("timezone", r.Config.Timezone),
			slog.Any("error", err))
		loc = time.UTC
	}

	job := func() {
		if err := r.RunOnce(ctx); err != nil {
			r.Logger.Error("statistics refresh failed", slog.String("error", respond.SanitizeError(err)))
		}
	}
	job()

	c := cron.New(cron.WithLocation(loc), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	c.Schedule(sched, cron.FuncJob(job))
	c.Start()
	r.Logger.Info("statistics refresher started",
		slog.String("schedule", r.Config.Schedule),
		slog.String("timezone", loc.String()))

	<-ctx.Done()
	<-c.Stop().Done()
	r.Logger.Info("statistics refresher stopped")
	return nil
}
