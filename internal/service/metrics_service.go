package service

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation for both the HTTP
// layer and the Search Driver's solve attempts.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	cacheLatency    prometheus.Observer
	cacheWrite      prometheus.Observer
	cacheHitRatio   prometheus.Gauge
	cacheHits       prometheus.Counter
	cacheMisses     prometheus.Counter

	solveDuration     *prometheus.HistogramVec
	solveStatusTotal  *prometheus.CounterVec
	candidateTuples   prometheus.Gauge
	conflictsBySev    *prometheus.CounterVec

	cacheHitCount  uint64
	cacheMissCount uint64
}

// NewMetricsService registers core Prometheus collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	cacheLatency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cache_latency_seconds",
		Help:    "Latency for cache operations",
		Buckets: prometheus.DefBuckets,
	})

	cacheWrite := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cache_write_seconds",
		Help:    "Latency for cache set operations",
		Buckets: prometheus.DefBuckets,
	})

	cacheHitRatio := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "cache_hit_ratio",
		Help: "Ratio of cache hits to total cache lookups",
	})

	cacheHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_hits_total",
		Help: "Total cache hits",
	})

	cacheMisses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_misses_total",
		Help: "Total cache misses",
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	solveDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "timetable_solve_duration_seconds",
		Help:    "Duration of a generate() solve attempt",
		Buckets: prometheus.ExponentialBuckets(0.5, 2, 12),
	}, []string{"status"})

	solveStatusTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "timetable_solve_status_total",
		Help: "Count of solve attempts by terminal status",
	}, []string{"status"})

	candidateTuples := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "timetable_candidate_tuples",
		Help: "Number of candidate tuples enumerated in the most recent solve attempt",
	})

	conflictsBySev := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "timetable_conflict_reports_total",
		Help: "Count of conflict reports generated, by severity",
	}, []string{"severity"})

	registry.MustRegister(
		requestDuration, requestTotal, cacheLatency, cacheWrite, cacheHitRatio, cacheHits, cacheMisses, goroutines,
		solveDuration, solveStatusTotal, candidateTuples, conflictsBySev,
	)

	handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	return &MetricsService{
		registry:         registry,
		handler:          handler,
		requestDuration:  requestDuration,
		requestTotal:     requestTotal,
		cacheLatency:     cacheLatency,
		cacheWrite:       cacheWrite,
		cacheHitRatio:    cacheHitRatio,
		cacheHits:        cacheHits,
		cacheMisses:      cacheMisses,
		solveDuration:    solveDuration,
		solveStatusTotal: solveStatusTotal,
		candidateTuples:  candidateTuples,
		conflictsBySev:   conflictsBySev,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// RecordCacheOperation records cache hit/miss metrics and updates hit ratio.
func (m *MetricsService) RecordCacheOperation(hit bool, duration time.Duration) {
	if m == nil {
		return
	}
	if m.cacheLatency != nil {
		m.cacheLatency.Observe(duration.Seconds())
	}
	if hit {
		m.cacheHits.Inc()
		m.cacheHitCount++
	} else {
		m.cacheMisses.Inc()
		m.cacheMissCount++
	}
	total := m.cacheHitCount + m.cacheMissCount
	if total > 0 {
		m.cacheHitRatio.Set(float64(m.cacheHitCount) / float64(total))
	}
}

// ObserveCacheWrite tracks the duration for cache write operations.
func (m *MetricsService) ObserveCacheWrite(duration time.Duration) {
	if m == nil || m.cacheWrite == nil {
		return
	}
	m.cacheWrite.Observe(duration.Seconds())
}

// ObserveSolve records the outcome of one Search Driver solve attempt
// (spec.md §4.4): its terminal status, wall-clock duration, and the number
// of candidate tuples enumeration produced.
func (m *MetricsService) ObserveSolve(status string, duration time.Duration, candidateCount int) {
	if m == nil {
		return
	}
	m.solveDuration.WithLabelValues(status).Observe(duration.Seconds())
	m.solveStatusTotal.WithLabelValues(status).Inc()
	m.candidateTuples.Set(float64(candidateCount))
}

// ObserveConflictReports records one counter increment per conflict report
// severity produced by a solve attempt (spec.md §4.5).
func (m *MetricsService) ObserveConflictReports(severityCounts map[string]int) {
	if m == nil {
		return
	}
	for severity, count := range severityCounts {
		m.conflictsBySev.WithLabelValues(severity).Add(float64(count))
	}
}
