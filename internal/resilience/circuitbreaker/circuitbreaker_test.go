package circuitbreaker

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"news-site/internal/observability/metrics"
)

var errQuery = errors.New("query failed")

func testConfig(name string) Config {
	return Config{
		Name:             name,
		MaxRequests:      2,
		Interval:         10 * time.Second,
		Timeout:          time.Second,
		FailureThreshold: 0.6,
		MinRequests:      5,
	}
}

func fail() (interface{}, error) { return nil, errQuery }
func succeed() (interface{}, error) { return "ok", nil }

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig("database")

	assert.Equal(t, "database", cfg.Name)
	assert.Equal(t, uint32(3), cfg.MaxRequests)
	assert.Equal(t, 30*time.Second, cfg.Interval)
	assert.Equal(t, 60*time.Second, cfg.Timeout)
	assert.InDelta(t, 0.6, cfg.FailureThreshold, 1e-9)
	assert.Equal(t, uint32(5), cfg.MinRequests)
	assert.Nil(t, cfg.IsSuccessful)
}

func TestCircuitBreaker_Execute(t *testing.T) {
	cb := New(testConfig("exec"))
	assert.Equal(t, "exec", cb.Name())
	assert.Equal(t, gobreaker.StateClosed, cb.State())

	got, err := cb.Execute(succeed)
	require.NoError(t, err)
	assert.Equal(t, "ok", got)

	got, err = cb.Execute(fail)
	assert.ErrorIs(t, err, errQuery)
	assert.Nil(t, got)
	assert.False(t, cb.IsOpen())
}

func TestCircuitBreaker_Tripping(t *testing.T) {
	tests := []struct {
		name     string
		calls    []func() (interface{}, error)
		minReqs  uint32
		wantOpen bool
	}{
		{
			name:     "below min requests stays closed",
			calls:    []func() (interface{}, error){fail, fail, fail, fail},
			minReqs:  10,
			wantOpen: false,
		},
		{
			name:     "ratio below threshold stays closed",
			calls:    []func() (interface{}, error){succeed, succeed, succeed, fail, fail},
			minReqs:  5,
			wantOpen: false,
		},
		{
			name:     "ratio at threshold opens",
			calls:    []func() (interface{}, error){fail, fail, fail, fail, succeed, fail},
			minReqs:  5,
			wantOpen: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig("trip")
			cfg.MinRequests = tt.minReqs
			cb := New(cfg)

			for _, call := range tt.calls {
				_, _ = cb.Execute(call)
			}
			assert.Equal(t, tt.wantOpen, cb.IsOpen(), "state %v", cb.State())
		})
	}
}

func TestCircuitBreaker_OpenRejectsWithoutCalling(t *testing.T) {
	cb := New(testConfig("open"))
	for range 6 {
		_, _ = cb.Execute(fail)
	}
	require.True(t, cb.IsOpen())

	called := false
	_, err := cb.Execute(func() (interface{}, error) {
		called = true
		return nil, nil
	})
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.False(t, called)
}

func TestCircuitBreaker_HalfOpenRecovers(t *testing.T) {
	cfg := testConfig("half-open")
	cfg.Timeout = 50 * time.Millisecond
	cb := New(cfg)
	for range 6 {
		_, _ = cb.Execute(fail)
	}
	require.True(t, cb.IsOpen())

	time.Sleep(80 * time.Millisecond)
	assert.Equal(t, gobreaker.StateHalfOpen, cb.State())

	// MaxRequests 回成功すると閉じる
	for range int(cfg.MaxRequests) {
		_, err := cb.Execute(succeed)
		require.NoError(t, err)
	}
	assert.Equal(t, gobreaker.StateClosed, cb.State())
}

func TestCircuitBreaker_IsSuccessful(t *testing.T) {
	notFound := errors.New("no rows")
	cfg := testConfig("filter")
	cfg.FailureThreshold = 1.0
	cfg.MinRequests = 3
	cfg.IsSuccessful = func(err error) bool {
		return err == nil || errors.Is(err, notFound)
	}
	cb := New(cfg)

	// 除外対象のエラーは失敗として数えない
	for range 10 {
		_, err := cb.Execute(func() (interface{}, error) { return nil, notFound })
		require.ErrorIs(t, err, notFound)
	}
	assert.Equal(t, gobreaker.StateClosed, cb.State())
}

func TestCircuitBreaker_PublishesStateMetric(t *testing.T) {
	cfg := testConfig("metric")
	cfg.FailureThreshold = 1.0
	cfg.MinRequests = 2
	cfg.Timeout = time.Minute
	cb := New(cfg)

	gauge := metrics.CircuitBreakerState.WithLabelValues("metric")
	assert.Equal(t, float64(gobreaker.StateClosed), testutil.ToFloat64(gauge))

	_, _ = cb.Execute(fail)
	_, _ = cb.Execute(fail)

	require.True(t, cb.IsOpen())
	assert.Equal(t, float64(gobreaker.StateOpen), testutil.ToFloat64(gauge))
}
