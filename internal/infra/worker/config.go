// Package worker runs the background job that keeps article statistics
// (the news_articles_total gauge and DB pool gauges) fresh on a cron schedule.
package worker

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"news-site/internal/pkg/config"
)

// RefresherConfig holds the schedule of the statistics refresher.
type RefresherConfig struct {
	// Enabled turns the refresher off entirely when false.
	Enabled bool
	// Schedule is a 5-field cron expression or a descriptor such as "@every 1m".
	Schedule string
	// Timezone is the IANA name the schedule is evaluated in.
	Timezone string
	// Timeout bounds a single refresh run.
	Timeout time.Duration
}

// DefaultConfig refreshes every minute in UTC with a 10s run timeout.
func DefaultConfig() RefresherConfig {
	return RefresherConfig{
		Enabled:  true,
		Schedule: "@every 1m",
		Timezone: "UTC",
		Timeout:  10 * time.Second,
	}
}

// Validate returns every invalid field joined into one error.
func (c RefresherConfig) Validate() error {
	var errs []error
	if err := config.ValidateCronSchedule(c.Schedule); err != nil {
		errs = append(errs, fmt.Errorf("schedule: %w", err))
	}
	if err := config.ValidateTimezone(c.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("timezone: %w", err))
	}
	if err := config.ValidateDuration(c.Timeout, time.Second, 5*time.Minute); err != nil {
		errs = append(errs, fmt.Errorf("timeout: %w", err))
	}
	return errors.Join(errs...)
}

// LoadConfigFromEnv reads STATS_REFRESH_ENABLED, STATS_REFRESH_SCHEDULE,
// STATS_REFRESH_TIMEZONE and STATS_REFRESH_TIMEOUT. Invalid values fall back to the defaults with a warning;
// the returned config is always valid.
func LoadConfigFromEnv(logger *slog.Logger, m *RefresherMetrics) RefresherConfig {
	cfg := DefaultConfig()
	fallbackApplied := false

	report := func(field string, applied bool, warning string) {
		if !applied {
			return
		}
		fallbackApplied = true
		m.RecordFallback(field)
		logger.Warn("configuration fallback applied",
			slog.String("field", field),
			slog.String("warning", warning))
	}

	enabled := config.LoadEnvBool("STATS_REFRESH_ENABLED", cfg.Enabled)
	cfg.Enabled = enabled.Value
	report("enabled", enabled.FallbackApplied, enabled.Warning)

	schedule := config.LoadEnvString("STATS_REFRESH_SCHEDULE", cfg.Schedule, config.ValidateCronSchedule)
	cfg.Schedule = schedule.Value
	report("schedule", schedule.FallbackApplied, schedule.Warning)

	tz := config.LoadEnvString("STATS_REFRESH_TIMEZONE", cfg.Timezone, config.ValidateTimezone)
	cfg.Timezone = tz.Value
	report("timezone", tz.FallbackApplied, tz.Warning)

	timeout := config.LoadEnvDuration("STATS_REFRESH_TIMEOUT", cfg.Timeout, func(d time.Duration) error {
		return config.ValidateDuration(d, time.Second, 5*time.Minute)
	})
	cfg.Timeout = timeout.Value
	report("timeout", timeout.FallbackApplied, timeout.Warning)

	m.SetFallbackActive(fallbackApplied)
	m.RecordLoadTimestamp()
	return cfg
}
