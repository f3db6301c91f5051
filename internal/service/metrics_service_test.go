package service

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsServiceStorageOperations(t *testing.T) {
	m := NewMetricsService()

	m.ObserveStorageOperation("users", "read", 2*time.Millisecond, nil)
	m.ObserveStorageOperation("users", "write", 3*time.Millisecond, errors.New("disk full"))

	assert.Equal(t, 2, testutil.CollectAndCount(m.storageDuration))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.storageErrors.WithLabelValues("users", "write")))
	assert.Equal(t, float64(0), testutil.ToFloat64(m.storageErrors.WithLabelValues("users", "read")))
}

func TestMetricsServiceCacheHitRatio(t *testing.T) {
	m := NewMetricsService()
	assert.Equal(t, float64(0), testutil.ToFloat64(m.cacheHitRatio))

	m.RecordCacheOperation(true, time.Millisecond)
	m.RecordCacheOperation(false, time.Millisecond)
	m.RecordCacheOperation(true, time.Millisecond)
	m.RecordCacheOperation(true, time.Millisecond)

	assert.Equal(t, 0.75, testutil.ToFloat64(m.cacheHitRatio))
	assert.Equal(t, 2, testutil.CollectAndCount(m.cacheLookups))
	assert.Equal(t, uint64(3), m.cacheHits.Load())
}

func TestMetricsServiceHandlerExposesRequests(t *testing.T) {
	m := NewMetricsService()
	m.ObserveHTTPRequest(http.MethodPost, "/api/attendance/check-in", http.StatusOK, 5*time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `smart_attendance_http_requests_total{method="POST",path="/api/attendance/check-in",status="200"} 1`)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestMetricsServiceNilIsSafe(t *testing.T) {
	var m *MetricsService

	assert.NotPanics(t, func() {
		m.ObserveHTTPRequest(http.MethodGet, "/", http.StatusOK, time.Millisecond)
		m.ObserveStorageOperation("users", "read", time.Millisecond, nil)
		m.RecordCacheOperation(true, time.Millisecond)
		m.ObserveCacheWrite(time.Millisecond)
	})

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
