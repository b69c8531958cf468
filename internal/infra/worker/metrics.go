package worker

import (
	"news-site/internal/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// RefresherMetrics are the Prometheus metrics of the statistics refresher.
//
//   - stats_refresher_config_*: configuration load and fallbacks
//   - stats_refresher_runs_total{status}: runs by success/failure
//   - stats_refresher_run_duration_seconds: run latency
//   - stats_refresher_last_success_timestamp: unix time of the last successful run
type RefresherMetrics struct {
	*config.ConfigMetrics

	RunsTotal            *prometheus.CounterVec
	RunDurationSeconds   prometheus.Histogram
	LastSuccessTimestamp prometheus.Gauge
}

// NewRefresherMetrics registers the refresher metrics with reg.
func NewRefresherMetrics(reg prometheus.Registerer) *RefresherMetrics {
	factory := promauto.With(reg)
	return &RefresherMetrics{
		ConfigMetrics: config.NewConfigMetrics(reg, "stats_refresher"),

		RunsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "stats_refresher_runs_total",
			Help: "Total number of statistics refresh runs by status (success/failure)",
		}, []string{"status"}),

		RunDurationSeconds: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "stats_refresher_run_duration_seconds",
			Help:    "Duration of statistics refresh runs in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 8),
		}),

		LastSuccessTimestamp: factory.NewGauge(prometheus.GaugeOpts{
			Name: "stats_refresher_last_success_timestamp",
			Help: "Unix timestamp of the last successful statistics refresh",
		}),
	}
}

// RecordRun counts a finished run and its duration in seconds.
func (m *RefresherMetrics) RecordRun(success bool, seconds float64) {
	status := "success"
	if !success {
		status = "failure"
	}
	m.RunsTotal.WithLabelValues(status).Inc()
	m.RunDurationSeconds.Observe(seconds)
	if success {
		m.LastSuccessTimestamp.SetToCurrentTime()
	}
}
