package http

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

/* ───── stubs ───── */

type stubPinger struct {
	err   error
	stats sql.DBStats
}

func (p stubPinger) PingContext(context.Context) error { return p.err }
func (p stubPinger) Stats() sql.DBStats                { return p.stats }

type stubBreaker gobreaker.State

func (b stubBreaker) State() gobreaker.State { return gobreaker.State(b) }

type stubKeys int

func (k stubKeys) ActiveKeys() int { return int(k) }

func serveHealth(t *testing.T, h http.Handler) (*httptest.ResponseRecorder, HealthResponse) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	var response HealthResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
	return rec, response
}

/* ───── HealthHandler ───── */

func TestHealthHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name           string
		setupMock      func(sqlmock.Sqlmock)
		expectedStatus int
		expectHealthy  bool
	}{
		{
			name:           "healthy database",
			setupMock:      func(mock sqlmock.Sqlmock) { mock.ExpectPing() },
			expectedStatus: http.StatusOK,
			expectHealthy:  true,
		},
		{
			name: "database connection error",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectPing().WillReturnError(sql.ErrConnDone)
			},
			expectedStatus: http.StatusServiceUnavailable,
			expectHealthy:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
			require.NoError(t, err)
			defer func() { _ = db.Close() }()
			db.SetMaxOpenConns(10)
			tt.setupMock(mock)

			rec, response := serveHealth(t, &HealthHandler{DB: db, Version: "test-version"})

			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.expectHealthy {
				assert.Equal(t, "healthy", response.Status)
			} else {
				assert.Equal(t, "unhealthy", response.Status)
			}
			assert.Equal(t, "test-version", response.Version)
			assert.NotEmpty(t, response.Timestamp)
			assert.Contains(t, response.Checks, "database")
			assert.Equal(t, "no-cache, no-store, must-revalidate", rec.Header().Get("Cache-Control"))
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestHealthHandler_NoDatabaseConfigured(t *testing.T) {
	rec, response := serveHealth(t, &HealthHandler{Version: "test-version"})

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "unhealthy", response.Status)
	assert.Equal(t, "not configured", response.Checks["database"].Message)
}

func TestHealthHandler_PingErrorIsNotLeaked(t *testing.T) {
	h := &HealthHandler{DB: stubPinger{err: errors.New("dial postgres://news:secret@db:5432 refused")}}

	_, response := serveHealth(t, h)

	assert.Equal(t, "database unreachable", response.Checks["database"].Message)
}

func TestHealthHandler_PoolUtilization(t *testing.T) {
	tests := []struct {
		name            string
		stats           sql.DBStats
		wantStatus      string
		wantUtilization bool
	}{
		{
			name:            "unlimited pool",
			stats:           sql.DBStats{MaxOpenConnections: 0},
			wantStatus:      "degraded",
			wantUtilization: false,
		},
		{
			name:            "idle pool",
			stats:           sql.DBStats{MaxOpenConnections: 10, InUse: 0},
			wantStatus:      "healthy",
			wantUtilization: true,
		},
		{
			name:            "80 percent in use",
			stats:           sql.DBStats{MaxOpenConnections: 10, InUse: 8},
			wantStatus:      "degraded",
			wantUtilization: true,
		},
		{
			name:            "single connection pool in use",
			stats:           sql.DBStats{MaxOpenConnections: 1, InUse: 1},
			wantStatus:      "degraded",
			wantUtilization: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, response := serveHealth(t, &HealthHandler{DB: stubPinger{stats: tt.stats}})

			// degraded でも 200 を返す
			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, "healthy", response.Status)

			dbCheck := response.Checks["database"]
			assert.Equal(t, tt.wantStatus, dbCheck.Status)
			_, hasUtilization := dbCheck.Details["utilization_percent"]
			assert.Equal(t, tt.wantUtilization, hasUtilization)
		})
	}
}

func TestHealthHandler_OptionalChecks(t *testing.T) {
	h := &HealthHandler{
		DB:          stubPinger{stats: sql.DBStats{MaxOpenConnections: 5}},
		Breaker:     stubBreaker(gobreaker.StateOpen),
		RateLimiter: stubKeys(3),
	}

	rec, response := serveHealth(t, h)

	assert.Equal(t, http.StatusOK, rec.Code)

	breaker := response.Checks["circuit_breaker"]
	assert.Equal(t, "degraded", breaker.Status)
	assert.Equal(t, "open", breaker.Details["state"])

	limiter := response.Checks["rate_limiter"]
	assert.Equal(t, "healthy", limiter.Status)
	assert.Equal(t, float64(3), limiter.Details["active_keys"])
}

func TestHealthHandler_ClosedBreaker(t *testing.T) {
	h := &HealthHandler{
		DB:      stubPinger{stats: sql.DBStats{MaxOpenConnections: 5}},
		Breaker: stubBreaker(gobreaker.StateClosed),
	}

	_, response := serveHealth(t, h)

	assert.Equal(t, "healthy", response.Checks["circuit_breaker"].Status)
	assert.NotContains(t, response.Checks, "rate_limiter")
}

/* ───── ReadyHandler / LiveHandler ───── */

func TestReadyHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name       string
		db         Pinger
		wantStatus int
		wantBody   string
	}{
		{name: "ready", db: stubPinger{}, wantStatus: http.StatusOK, wantBody: "ready"},
		{name: "ping error", db: stubPinger{err: sql.ErrConnDone}, wantStatus: http.StatusServiceUnavailable, wantBody: "database not ready\n"},
		{name: "not configured", db: nil, wantStatus: http.StatusServiceUnavailable, wantBody: "database not configured\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			(&ReadyHandler{DB: tt.db}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantBody, rec.Body.String())
		})
	}
}

func TestLiveHandler_ServeHTTP(t *testing.T) {
	rec := httptest.NewRecorder()
	(&LiveHandler{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/live", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "alive", rec.Body.String())
	assert.Equal(t, "text/plain", rec.Header().Get("Content-Type"))
}
