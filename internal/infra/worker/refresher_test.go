package worker

import (
	"context"
	"database/sql"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"news-site/internal/observability/metrics"
)

/* ───── stubs ───── */

type stubCounter struct {
	count int64
	err   error
	calls atomic.Int32
}

func (s *stubCounter) Count(ctx context.Context) (int64, error) {
	s.calls.Add(1)
	return s.count, s.err
}

type stubPool sql.DBStats

func (p stubPool) Stats() sql.DBStats { return sql.DBStats(p) }

func newRefresher(counter ArticleCounter) *StatsRefresher {
	return &StatsRefresher{
		Articles: counter,
		Config:   DefaultConfig(),
		Metrics:  NewRefresherMetrics(prometheus.NewRegistry()),
		Logger:   discardLogger(),
	}
}

/* ───── RunOnce ───── */

func TestStatsRefresher_RunOnce(t *testing.T) {
	r := newRefresher(&stubCounter{count: 42})
	r.Pool = stubPool{InUse: 3, Idle: 2}

	require.NoError(t, r.RunOnce(context.Background()))

	assert.Equal(t, 42.0, testutil.ToFloat64(metrics.ArticlesTotal))
	assert.Equal(t, 3.0, testutil.ToFloat64(metrics.DBConnectionsActive))
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.DBConnectionsIdle))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.Metrics.RunsTotal.WithLabelValues("success")))
	assert.Greater(t, testutil.ToFloat64(r.Metrics.LastSuccessTimestamp), 0.0)
}

func TestStatsRefresher_RunOnce_Error(t *testing.T) {
	r := newRefresher(&stubCounter{err: errors.New("db down")})

	err := r.RunOnce(context.Background())

	assert.ErrorContains(t, err, "count articles")
	assert.Equal(t, 1.0, testutil.ToFloat64(r.Metrics.RunsTotal.WithLabelValues("failure")))
	assert.Equal(t, 0.0, testutil.ToFloat64(r.Metrics.LastSuccessTimestamp))
}

/* ───── Run ───── */

func TestStatsRefresher_Run_RefreshesImmediatelyAndStops(t *testing.T) {
	counter := &stubCounter{count: 1}
	r := newRefresher(counter)
	r.Config.Schedule = "@every 1h"

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	require.Eventually(t, func() bool { return counter.calls.Load() >= 1 }, time.Second, 10*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestStatsRefresher_Run_InvalidSchedule(t *testing.T) {
	r := newRefresher(&stubCounter{})
	r.Config.Schedule = "not a schedule"

	err := r.Run(context.Background())

	assert.Error(t, err)
}
