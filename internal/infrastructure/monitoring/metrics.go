package monitoring

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Evaluation outcomes
const (
	OutcomeCached    = "cached"
	OutcomeEvaluated = "evaluated"
	OutcomeNoResult  = "no_result"
	OutcomeFallback  = "fallback"
)

// Metrics holds all Prometheus metrics. All recorders are safe to call on
// a nil *Metrics.
type Metrics struct {
	registry *prometheus.Registry

	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// PAC evaluation metrics
	Evaluations        *prometheus.CounterVec
	EvaluationDuration prometheus.Histogram
	CacheLookups       *prometheus.CounterVec
	ScriptFailures     *prometheus.CounterVec

	// Script lifecycle metrics
	ScriptLoads  *prometheus.CounterVec
	CacheEnabled prometheus.Gauge

	// Snapshot for JSON API - track current values
	snapshot Snapshot
	mu       sync.RWMutex
}

// Snapshot holds current metric values for the JSON API
type Snapshot struct {
	Evaluations int64 `json:"evaluations"`
	Fallbacks   int64 `json:"fallbacks"`
	CacheHits   int64 `json:"cache_hits"`
	CacheMisses int64 `json:"cache_misses"`
	Reloads     int64 `json:"reloads"`
}

// NewMetrics creates a metrics collector backed by its own registry
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pacd_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "pacd_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
			},
			[]string{"method", "path"},
		),

		Evaluations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pacd_evaluations_total",
				Help: "PAC queries by outcome",
			},
			[]string{"outcome"},
		),
		EvaluationDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "pacd_evaluation_duration_seconds",
				Help:    "Time spent answering a PAC query",
				Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1, 5},
			},
		),
		CacheLookups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pacd_cache_lookups_total",
				Help: "Result cache lookups by result",
			},
			[]string{"result"},
		),
		ScriptFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pacd_script_failures_total",
				Help: "Query-time PAC failures converted to DIRECT, by kind",
			},
			[]string{"kind"},
		),

		ScriptLoads: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pacd_script_loads_total",
				Help: "PAC script loads by status",
			},
			[]string{"status"},
		),
		CacheEnabled: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "pacd_cache_enabled",
				Help: "1 when the active evaluator caches results",
			},
		),
	}
}

// Registry returns the registry metrics are registered with
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordEvaluation records one answered query
func (m *Metrics) RecordEvaluation(outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	m.Evaluations.WithLabelValues(outcome).Inc()
	m.EvaluationDuration.Observe(duration.Seconds())

	m.mu.Lock()
	m.snapshot.Evaluations++
	if outcome == OutcomeFallback {
		m.snapshot.Fallbacks++
	}
	m.mu.Unlock()
}

// RecordCacheLookup records a cache hit or miss
func (m *Metrics) RecordCacheLookup(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.CacheLookups.WithLabelValues(result).Inc()

	m.mu.Lock()
	if hit {
		m.snapshot.CacheHits++
	} else {
		m.snapshot.CacheMisses++
	}
	m.mu.Unlock()
}

// RecordScriptFailure records why a query fell back to DIRECT
func (m *Metrics) RecordScriptFailure(kind string) {
	if m == nil {
		return
	}
	m.ScriptFailures.WithLabelValues(kind).Inc()
}

// RecordScriptLoad records a script (re)load attempt
func (m *Metrics) RecordScriptLoad(success bool) {
	if m == nil {
		return
	}
	status := "error"
	if success {
		status = "success"
	}
	m.ScriptLoads.WithLabelValues(status).Inc()

	if success {
		m.mu.Lock()
		m.snapshot.Reloads++
		m.mu.Unlock()
	}
}

// SetCacheEnabled reports whether the active evaluator caches
func (m *Metrics) SetCacheEnabled(enabled bool) {
	if m == nil {
		return
	}
	if enabled {
		m.CacheEnabled.Set(1)
	} else {
		m.CacheEnabled.Set(0)
	}
}

// GetSnapshot returns the current counters for the JSON API
func (m *Metrics) GetSnapshot() Snapshot {
	if m == nil {
		return Snapshot{}
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snapshot
}
