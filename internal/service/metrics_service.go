package service

import (
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const metricsNamespace = "smart_attendance"

// Storage and cache calls are local file or single-key operations, so their
// buckets start well below the HTTP defaults.
var fastBuckets = prometheus.ExponentialBuckets(0.0005, 2, 12)

// MetricsService owns a private Prometheus registry covering HTTP traffic,
// collection storage and the dashboard cache.
type MetricsService struct {
	registry *prometheus.Registry
	handler  http.Handler

	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	storageDuration *prometheus.HistogramVec
	storageErrors   *prometheus.CounterVec
	cacheLookups    *prometheus.HistogramVec
	cacheWrites     prometheus.Histogram
	cacheHitRatio   prometheus.GaugeFunc

	cacheHits   atomic.Uint64
	cacheMisses atomic.Uint64
}

// NewMetricsService builds and registers every collector.
func NewMetricsService() *MetricsService {
	m := &MetricsService{registry: prometheus.NewRegistry()}

	m.requestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: metricsNamespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests by route pattern.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path", "status"})
	m.requestTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests served by route pattern.",
	}, []string{"method", "path", "status"})

	m.storageDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: metricsNamespace,
		Name:      "storage_operation_duration_seconds",
		Help:      "Duration of collection loads and saves.",
		Buckets:   fastBuckets,
	}, []string{"collection", "operation"})
	m.storageErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "storage_operation_errors_total",
		Help:      "Collection loads and saves that returned an error.",
	}, []string{"collection", "operation"})

	m.cacheLookups = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: metricsNamespace,
		Name:      "dashboard_cache_lookup_seconds",
		Help:      "Dashboard cache lookups by result.",
		Buckets:   fastBuckets,
	}, []string{"result"})
	m.cacheWrites = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: metricsNamespace,
		Name:      "dashboard_cache_write_seconds",
		Help:      "Dashboard cache writes.",
		Buckets:   fastBuckets,
	})
	m.cacheHitRatio = prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Name:      "dashboard_cache_hit_ratio",
		Help:      "Share of dashboard cache lookups served from cache since start.",
	}, m.hitRatio)

	m.registry.MustRegister(
		m.requestDuration,
		m.requestTotal,
		m.storageDuration,
		m.storageErrors,
		m.cacheLookups,
		m.cacheWrites,
		m.cacheHitRatio,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m.handler = promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
	return m
}

// Registry exposes the underlying registry.
func (m *MetricsService) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format. A nil service
// answers 503.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records one served request.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	code := strconv.Itoa(status)
	m.requestDuration.WithLabelValues(method, path, code).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, code).Inc()
}

// ObserveStorageOperation satisfies repository.StorageObserver.
func (m *MetricsService) ObserveStorageOperation(collection, operation string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	m.storageDuration.WithLabelValues(collection, operation).Observe(duration.Seconds())
	if err != nil {
		m.storageErrors.WithLabelValues(collection, operation).Inc()
	}
}

// RecordCacheOperation records a dashboard cache lookup.
func (m *MetricsService) RecordCacheOperation(hit bool, duration time.Duration) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
		m.cacheHits.Add(1)
	} else {
		m.cacheMisses.Add(1)
	}
	m.cacheLookups.WithLabelValues(result).Observe(duration.Seconds())
}

// ObserveCacheWrite records a dashboard cache write.
func (m *MetricsService) ObserveCacheWrite(duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheWrites.Observe(duration.Seconds())
}

func (m *MetricsService) hitRatio() float64 {
	hits := m.cacheHits.Load()
	total := hits + m.cacheMisses.Load()
	if total == 0 {
		return 0
	}
	return float64(hits) / float64(total)
}
